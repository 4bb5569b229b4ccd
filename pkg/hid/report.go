package hid

import (
	"github.com/golang/protobuf/proto"
)

// Consumer control usages (HID usage page 0x0C).
const (
	UsageMute            uint32 = 0xE2
	UsageVolumeIncrement uint32 = 0xE9
	UsageVolumeDecrement uint32 = 0xEA
)

// Report is one consumer control transition.
type Report struct {
	Usage   uint32 `protobuf:"varint,1,opt,name=usage,proto3" json:"usage,omitempty"`
	Pressed bool   `protobuf:"varint,2,opt,name=pressed,proto3" json:"pressed,omitempty"`
	Seq     uint32 `protobuf:"varint,3,opt,name=seq,proto3" json:"seq,omitempty"`
	Source  string `protobuf:"bytes,4,opt,name=source,proto3" json:"source,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *Report) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Report) Reset() { *m = Report{} }

// String implements proto.Message.
func (m *Report) String() string { return proto.CompactTextString(m) }

// DecodeReport parses a published report.
func DecodeReport(payload []byte) (*Report, error) {
	var r Report
	if err := proto.Unmarshal(payload, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// UsageName returns a readable name of a usage.
func UsageName(usage uint32) string {
	switch usage {
	case UsageMute:
		return "mute"
	case UsageVolumeIncrement:
		return "volume-up"
	case UsageVolumeDecrement:
		return "volume-down"
	}
	return "unknown"
}
