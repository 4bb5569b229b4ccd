package bm83

// Command opcodes (MCU to module).
const (
	OpMMIAction         byte = 0x02
	OpEventFilter       byte = 0x03
	OpMusicControl      byte = 0x04
	OpAVCVendorCmd      byte = 0x0B
	OpReadLocalBDAddr   byte = 0x0F
	OpBTMUtility        byte = 0x13
	OpEventAck          byte = 0x14
	OpEQModeSetting     byte = 0x1C
	OpAVRCPVendorDepCmd byte = 0x4A
)

// Event opcodes (module to MCU).
const (
	EvtCommandAck        byte = 0x00
	EvtBTMStatus         byte = 0x01
	EvtEQModeInd         byte = 0x10
	EvtAVCVendorRsp      byte = 0x1A
	EvtAVRCPVendorDepRsp byte = 0x5D
)

// MMI actions, sent as [0x00, action] with OpMMIAction.
const (
	MMIVolumeUp        byte = 0x30
	MMIVolumeDown      byte = 0x31
	MMIPowerOnPress    byte = 0x51
	MMIPowerOnRelease  byte = 0x52
	MMIPowerOffPress   byte = 0x53
	MMIPowerOffRelease byte = 0x54
	MMIEnterPairing    byte = 0x5D
)

// Music control actions, sent as [0x00, action] with OpMusicControl.
const (
	MusicPlayPause byte = 0x07
	MusicStop      byte = 0x08
	MusicNext      byte = 0x09
	MusicPrevious  byte = 0x0A
)

// AVRCP PDUs and notification event ids.
const (
	PDUGetElementAttributes byte = 0x20
	PDUGetPlayStatus        byte = 0x30
	PDURegisterNotification byte = 0x31

	NotifyPlayStatusChanged byte = 0x01
	NotifyTrackChanged      byte = 0x02
	NotifyPositionChanged   byte = 0x05
)

// ElementAttributes lists the attribute ids requested by
// GetElementAttributes: title, artist, album, genre, track number,
// total tracks, playing time.
var ElementAttributes = []uint32{1, 2, 3, 6, 4, 5, 7}
