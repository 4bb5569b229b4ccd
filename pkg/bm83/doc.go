// Package bm83 implements the UART command/event protocol of the
// BM83 Bluetooth audio module.
package bm83

// Every frame on the wire looks like
//
//	AA len_hi len_lo op params... chk
//
// where len covers op+params and chk makes the byte sum of
// len_hi, len_lo, op, params and chk a multiple of 256.
//
// The module side is a noisy peer: the parser never returns an
// error, it drops a byte and rescans instead. Frames are only
// handed out after the checksum validated.
//
// Producer: BM83 firmware
// Consumer: bridge loop
