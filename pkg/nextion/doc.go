// Package nextion implements the ASCII instruction protocol of the
// Nextion HMI display.
package nextion

// Instructions and replies are terminated by three 0xFF bytes.
// The display sends back touch events as tokens configured in the
// HMI project, e.g.
//
//	BT_PLAY FF FF FF
//
// and answers "sendme" with the current page
//
//	66 <page> FF FF FF
//
// Outgoing instructions are rate limited: the display drops input
// when instructions arrive faster than it can execute them.
//
// Producer: bridge loop, Nextion firmware
// Consumer: Nextion firmware, bridge loop
