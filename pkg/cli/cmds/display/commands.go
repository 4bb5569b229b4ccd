// Package display adds console commands that act as the display.
package display

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/ampbridge/pkg/bridge"
	"github.com/robotalks/ampbridge/pkg/cli/sh"
	"github.com/robotalks/ampbridge/pkg/nextion"
)

// Frame terminates a payload the way the display does.
func Frame(payload []byte) []byte {
	return append(append([]byte{}, payload...), nextion.Terminator...)
}

var (
	// TokenCmd sends a touch token.
	TokenCmd = ishell.Cmd{
		Name:    "token",
		Aliases: []string{"t"},
		Help:    "NAME [ARGS...]",
		Func: sh.MustBeOpen(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("NAME required"))
				return
			}
			name := strings.ToUpper(c.Args[0])
			if _, ok := bridge.Lookup(name); !ok {
				c.Printf("warning: %s is not bound\n", name)
			}
			payload := strings.Join(append([]string{name}, c.Args[1:]...), " ")
			sh.Write(c, Frame([]byte(payload)))
		}),
	}

	// PageCmd reports a page change.
	PageCmd = ishell.Cmd{
		Name:    "page",
		Aliases: []string{"p"},
		Help:    "PAGE",
		Func: sh.MustBeOpen(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("PAGE required"))
				return
			}
			page, err := strconv.ParseUint(c.Args[0], 10, 8)
			if err != nil {
				c.Err(fmt.Errorf("Invalid PAGE: %v", err))
				return
			}
			sh.Write(c, Frame([]byte{nextion.PageReply, byte(page)}))
		}),
	}

	// TokensCmd lists the bound tokens.
	TokensCmd = ishell.Cmd{
		Name: "tokens",
		Help: "",
		Func: func(c *ishell.Context) {
			for name, b := range bridge.Bindings {
				c.Printf("%-14s %s\n", name, b.Action)
			}
		},
	}
)

func init() {
	sh.AddCmds(
		&TokenCmd,
		&PageCmd,
		&TokensCmd,
	)
}
