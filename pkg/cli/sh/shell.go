// Package sh provides an interactive console to exercise the
// bridge over a serial port, in place of the display or the module.
package sh

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"
	"go.bug.st/serial"

	"github.com/robotalks/ampbridge/pkg/bm83"
	"github.com/robotalks/ampbridge/pkg/nextion"
	"github.com/robotalks/ampbridge/pkg/serialport"
)

// Protocols the console decodes on receive.
const (
	ProtoNextion = "nextion"
	ProtoBM83    = "bm83"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	// Proto is the protocol spoken by the other end.
	Proto string

	Shell *ishell.Shell
	Port  serialport.Config
	Conn  *Conn
}

// Conn is an open port with its receive goroutine.
type Conn struct {
	Port serial.Port
	Path string
	done chan struct{}
}

const (
	shellKey     = "$shell"
	closedPrompt = "[closed] > "
)

var (
	// flags

	evalOnly bool
	proto    = ProtoNextion
	port     = serialport.Config{Baud: 9600}

	// commands
	commands = []*ishell.Cmd{
		&PortsCmd,
		&OpenCmd,
		&CloseCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.StringVar(&proto, "proto", proto, "Protocol received from the bridge: nextion or bm83.")
	flag.StringVar(&port.Path, "port", port.Path, "Serial port opened at start.")
	flag.IntVar(&port.Baud, "baud", port.Baud, "Baud rate.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf serialport.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		Proto:       proto,

		Shell: ishell.New(),
		Port:  conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(closedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeOpen wraps command func requires an open port.
func MustBeOpen(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).Conn == nil {
			c.Err(fmt.Errorf("port not open"))
			return
		}
		fn(c)
	}
}

// Write sends data on the open port.
func Write(c *ishell.Context, data []byte) error {
	s := ShellFrom(c)
	if s.Conn == nil {
		err := fmt.Errorf("port not open")
		c.Err(err)
		return err
	}
	if _, err := s.Conn.Port.Write(data); err != nil {
		c.Err(err)
		return err
	}
	return nil
}

// ParseHex parses bytes written as hex, e.g. "0A", "0x0a" or "aa0b".
func ParseHex(args []string) ([]byte, error) {
	var out []byte
	for _, arg := range args {
		arg = strings.TrimPrefix(strings.ToLower(arg), "0x")
		if len(arg)%2 != 0 {
			arg = "0" + arg
		}
		for i := 0; i < len(arg); i += 2 {
			v, err := strconv.ParseUint(arg[i:i+2], 16, 8)
			if err != nil {
				return nil, fmt.Errorf("invalid hex %q", arg)
			}
			out = append(out, byte(v))
		}
	}
	return out, nil
}

// Open opens the port and starts printing what it receives.
func (s *Shell) Open(conf serialport.Config) error {
	p, err := serialport.Open(conf)
	if err != nil {
		return err
	}
	s.Close()
	s.Conn = &Conn{Port: p, Path: conf.Path, done: make(chan struct{})}
	s.Port = conf
	go s.receive(s.Conn)
	s.Shell.SetPrompt(fmt.Sprintf("%s > ", conf.Path))
	return nil
}

// Close closes the current port.
func (s *Shell) Close() {
	if s.Conn != nil {
		s.Conn.Port.Close()
		<-s.Conn.done
		s.Conn = nil
		s.Shell.SetPrompt(closedPrompt)
	}
}

func (s *Shell) receive(conn *Conn) {
	defer close(conn.done)
	var scanner nextion.Scanner
	var parser bm83.Parser
	buf := make([]byte, 256)
	for {
		n, err := conn.Port.Read(buf)
		if n > 0 {
			if s.Proto == ProtoBM83 {
				for _, f := range parser.Feed(buf[:n]) {
					s.Shell.Printf("<< %s\n", f)
				}
			} else {
				for _, raw := range scanner.Feed(buf[:n]) {
					s.Shell.Printf("<< %s\n", describeFrame(raw))
				}
			}
		}
		if err != nil && err != io.EOF {
			if !serialport.IsDisconnected(err) {
				s.Shell.Printf("receive: %v\n", err)
			}
			return
		}
	}
}

func describeFrame(raw []byte) string {
	msg, err := nextion.ParseFrame(raw)
	if err == nil {
		switch m := msg.(type) {
		case nextion.PageEvent:
			return fmt.Sprintf("page %d", m.Page)
		case nextion.Token:
			return "token " + m.String()
		}
	}
	if errors.Is(err, nextion.ErrEmptyFrame) {
		return "(empty)"
	}
	return string(raw)
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if s.Port.Path != "" {
		if err := s.Open(s.Port); err != nil {
			log.Fatalln(err)
		}
	}
	defer s.Close()

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

var (
	// PortsCmd lists serial ports.
	PortsCmd = ishell.Cmd{
		Name:    "ports",
		Aliases: []string{"list", "l"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ports, err := serialport.List()
			if err != nil {
				c.Err(err)
				return
			}
			if len(ports) == 0 {
				c.Println("No serial ports found")
				return
			}
			for _, p := range ports {
				c.Println(p)
			}
		},
	}

	// OpenCmd opens a serial port.
	OpenCmd = ishell.Cmd{
		Name:    "open",
		Aliases: []string{"o"},
		Help:    "PATH [BAUD]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			conf := s.Port
			if len(c.Args) > 0 {
				conf.Path = c.Args[0]
			}
			if len(c.Args) > 1 {
				baud, err := strconv.Atoi(c.Args[1])
				if err != nil {
					c.Err(fmt.Errorf("Invalid BAUD: %v", err))
					return
				}
				conf.Baud = baud
			}
			if conf.Path == "" {
				c.Err(fmt.Errorf("PATH required"))
				return
			}
			if err := s.Open(conf); err != nil {
				c.Err(err)
			}
		},
	}

	// CloseCmd closes the current port.
	CloseCmd = ishell.Cmd{
		Name:    "close",
		Aliases: []string{"d"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Close()
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New(port).Run(flag.Args()...)
}
