package nextion

import (
	"bytes"
	"strings"
)

// Scanner defaults.
const (
	DefaultMaxPending = 256
	MaxTokenLen       = 32
)

// PageReply is the first byte of the answer to sendme.
const PageReply byte = 0x66

// Scanner splits the incoming byte stream into terminated frames.
type Scanner struct {
	MaxPending int

	buf      []byte
	discards uint64
}

// Feed consumes data and returns the complete frames in order.
// Bytes of an unterminated frame are kept for the next call until
// more than MaxPending accumulate, then they are discarded.
func (s *Scanner) Feed(data []byte) (frames [][]byte) {
	s.buf = append(s.buf, data...)
	for {
		i := bytes.Index(s.buf, Terminator)
		if i < 0 {
			break
		}
		frames = append(frames, append([]byte(nil), s.buf[:i]...))
		s.buf = s.buf[:copy(s.buf, s.buf[i+len(Terminator):])]
	}
	if len(s.buf) > s.maxPending() {
		s.discards++
		s.buf = s.buf[:0]
	}
	return
}

// Pending returns the number of unterminated bytes held.
func (s *Scanner) Pending() int {
	return len(s.buf)
}

// Discards returns how many times the pending bytes were dropped.
func (s *Scanner) Discards() uint64 {
	return s.discards
}

// Reset drops pending bytes.
func (s *Scanner) Reset() {
	s.buf = s.buf[:0]
}

func (s *Scanner) maxPending() int {
	if s.MaxPending > 0 {
		return s.MaxPending
	}
	return DefaultMaxPending
}

// Message is a parsed frame: Token or PageEvent.
type Message interface {
	isMessage()
}

// Token is a touch event sent by the display.
type Token struct {
	Name string
	Args []string
}

// PageEvent reports the page currently shown.
type PageEvent struct {
	Page byte
}

func (Token) isMessage()     {}
func (PageEvent) isMessage() {}

// String implements fmt.Stringer.
func (t Token) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	return t.Name + " " + strings.Join(t.Args, " ")
}

// ParseFrame classifies one frame. Any leading bytes that cannot
// start a token (echo garbage, return codes) are skipped; the rest
// must consist of A-Z, 0-9, underscore and spaces only.
func ParseFrame(raw []byte) (Message, error) {
	if len(raw) >= 2 && raw[0] == PageReply {
		return PageEvent{Page: raw[1]}, nil
	}
	start := bytes.IndexFunc(raw, func(r rune) bool { return isNameByte(r) })
	if start < 0 {
		if len(bytes.TrimSpace(raw)) == 0 {
			return nil, ErrEmptyFrame
		}
		return nil, ErrNotToken
	}
	raw = bytes.TrimRight(raw[start:], " ")
	for _, b := range raw {
		if !isNameByte(rune(b)) && b != ' ' {
			return nil, ErrNotToken
		}
	}
	fields := strings.Fields(string(raw))
	if len(fields[0]) > MaxTokenLen {
		return nil, ErrNotToken
	}
	t := Token{Name: fields[0]}
	if len(fields) > 1 {
		t.Args = fields[1:]
	}
	return t, nil
}

func isNameByte(r rune) bool {
	return r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_'
}
