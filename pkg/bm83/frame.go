package bm83

import (
	"fmt"
	"io"
	"strings"
)

// Header starts every frame.
const Header byte = 0xAA

// MaxParamsLen is the largest params length a Parser with default
// limits accepts; the length field covers op and params.
const MaxParamsLen = DefaultMaxFrameLen - 1

// Frame is a decoded event or an outgoing command.
type Frame struct {
	Op     byte
	Params []byte
}

// Checksum computes the trailing byte for the length and body
// (op followed by params).
func Checksum(lenHi, lenLo byte, body ...[]byte) byte {
	sum := lenHi + lenLo
	for _, b := range body {
		for _, c := range b {
			sum += c
		}
	}
	return -sum
}

// Encode builds the wire bytes of a frame.
func Encode(op byte, params []byte) ([]byte, error) {
	if len(params) > MaxParamsLen {
		return nil, ErrFrameTooLarge
	}
	ln := len(params) + 1
	b := make([]byte, 0, ln+4)
	hi, lo := byte(ln>>8), byte(ln)
	b = append(b, Header, hi, lo, op)
	b = append(b, params...)
	return append(b, Checksum(hi, lo, []byte{op}, params)), nil
}

// Bytes returns encoded bytes for sending.
func (f *Frame) Bytes() []byte {
	b, err := Encode(f.Op, f.Params)
	if err != nil {
		return nil
	}
	return b
}

// WriteTo writes encoded bytes.
func (f *Frame) WriteTo(w io.Writer) (int64, error) {
	b, err := Encode(f.Op, f.Params)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(b)
	return int64(n), err
}

// String implements fmt.Stringer.
func (f Frame) String() string {
	return fmt.Sprintf("op=0x%02X len=%d [%s]", f.Op, len(f.Params), Hexdump(f.Params))
}

// Hexdump formats bytes for logs.
func Hexdump(b []byte) string {
	if len(b) == 0 {
		return "<empty>"
	}
	var sb strings.Builder
	for n, c := range b {
		if n > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02X", c)
	}
	return sb.String()
}
