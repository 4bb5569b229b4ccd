// Package module adds console commands that act as the audio module.
package module

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/ampbridge/pkg/bm83"
	"github.com/robotalks/ampbridge/pkg/cli/sh"
	"github.com/robotalks/ampbridge/pkg/playback"
)

func sendEvent(c *ishell.Context, op byte, params []byte) {
	b, err := bm83.Encode(op, params)
	if err != nil {
		c.Err(err)
		return
	}
	sh.Write(c, b)
}

var (
	// EventCmd sends a raw event frame.
	EventCmd = ishell.Cmd{
		Name:    "event",
		Aliases: []string{"ev"},
		Help:    "OP [HEX...]",
		Func: sh.MustBeOpen(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("OP required"))
				return
			}
			b, err := sh.ParseHex(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			if len(b) < 1 {
				c.Err(fmt.Errorf("OP required"))
				return
			}
			sendEvent(c, b[0], b[1:])
		}),
	}

	// BTMStatusCmd reports a link state.
	BTMStatusCmd = ishell.Cmd{
		Name:    "btm",
		Aliases: []string{"b"},
		Help:    "STATE(hex)",
		Func: sh.MustBeOpen(func(c *ishell.Context) {
			b, err := sh.ParseHex(c.Args)
			if err != nil || len(b) != 1 {
				c.Err(fmt.Errorf("STATE required as one hex byte"))
				return
			}
			sendEvent(c, bm83.EvtBTMStatus, b)
		}),
	}

	// EqCmd reports an equalizer preset.
	EqCmd = ishell.Cmd{
		Name: "eq",
		Help: "MODE(label or 0..10)",
		Func: sh.MustBeOpen(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("MODE required"))
				return
			}
			mode, ok := playback.ParseEqMode(strings.ToUpper(c.Args[0]))
			if !ok {
				n, err := strconv.ParseUint(c.Args[0], 10, 8)
				if err != nil {
					c.Err(fmt.Errorf("Invalid MODE: %s", c.Args[0]))
					return
				}
				mode = playback.EqMode(n)
			}
			sendEvent(c, bm83.EvtEQModeInd, []byte{byte(mode)})
		}),
	}
)

func init() {
	sh.AddCmds(
		&EventCmd,
		&BTMStatusCmd,
		&EqCmd,
	)
}
