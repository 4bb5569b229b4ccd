package nextion

import (
	"strconv"
	"strings"
)

// Terminator ends every instruction and reply.
var Terminator = []byte{0xFF, 0xFF, 0xFF}

// Command is one display instruction: Object.Attr=Value.
// A Command without Object is sent as Value verbatim.
type Command struct {
	Object string
	Attr   string
	Value  string
	Quoted bool
}

// Text sets the txt attribute of an object. The value is sanitized.
func Text(obj, value string) Command {
	return TextN(obj, value, DefaultMaxText)
}

// TextN is Text with an explicit length limit.
func TextN(obj, value string, max int) Command {
	return Command{Object: obj, Attr: "txt", Value: Sanitize(value, max), Quoted: true}
}

// Number sets a numeric attribute of an object.
func Number(obj, attr string, n int) Command {
	return Command{Object: obj, Attr: attr, Value: strconv.Itoa(n)}
}

// Value sets the val attribute of an object.
func Value(obj string, n int) Command {
	return Number(obj, "val", n)
}

// Raw creates a system instruction like "sendme" or "bkcmd=3".
func Raw(cmd string) Command {
	return Command{Value: cmd}
}

// Well-known system instructions.
var (
	SendMe = Raw("sendme")
	// AllReplies makes the display answer every instruction.
	AllReplies = Raw("bkcmd=3")
)

// String renders the instruction without terminator.
func (c Command) String() string {
	if c.Object == "" {
		return c.Value
	}
	var sb strings.Builder
	sb.WriteString(c.Object)
	sb.WriteByte('.')
	sb.WriteString(c.Attr)
	sb.WriteByte('=')
	if c.Quoted {
		sb.WriteByte('"')
		sb.WriteString(c.Value)
		sb.WriteByte('"')
	} else {
		sb.WriteString(c.Value)
	}
	return sb.String()
}

// Bytes renders the instruction with terminator.
func (c Command) Bytes() []byte {
	s := c.String()
	b := make([]byte, 0, len(s)+len(Terminator))
	for i := 0; i < len(s); i++ {
		if s[i] != 0xFF {
			b = append(b, s[i])
		}
	}
	return append(b, Terminator...)
}
