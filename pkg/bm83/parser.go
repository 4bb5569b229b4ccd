package bm83

import "bytes"

// Parser limits.
const (
	DefaultMaxBuffer   = 4096
	DefaultMaxFrameLen = 1024
)

// ParserStats counts what the parser threw away.
type ParserStats struct {
	Frames         uint64
	DroppedBytes   uint64
	ChecksumErrors uint64
	LengthErrors   uint64
	Resets         uint64
}

// Parser incrementally decodes frames from received bytes.
// Unconsumed bytes are kept across Feed calls.
type Parser struct {
	// MaxBuffer caps the retained bytes; exceeding it resets the buffer.
	MaxBuffer int
	// MaxFrameLen rejects length fields above it without waiting for data.
	MaxFrameLen int

	buf   []byte
	stats ParserStats
}

// Stats returns the counters.
func (p *Parser) Stats() ParserStats {
	return p.stats
}

// Buffered returns the number of retained bytes.
func (p *Parser) Buffered() int {
	return len(p.buf)
}

// Reset drops all retained bytes.
func (p *Parser) Reset() {
	p.buf = p.buf[:0]
}

// Feed consumes bytes and returns every complete, valid frame.
func (p *Parser) Feed(data []byte) (frames []Frame) {
	p.buf = append(p.buf, data...)
	for {
		f, ok := p.next()
		if !ok {
			break
		}
		frames = append(frames, f)
	}
	if max := p.maxBuffer(); len(p.buf) > max {
		p.stats.Resets++
		p.stats.DroppedBytes += uint64(len(p.buf))
		p.buf = p.buf[:0]
	}
	return
}

func (p *Parser) next() (Frame, bool) {
	for {
		sof := bytes.IndexByte(p.buf, Header)
		if sof < 0 {
			p.drop(len(p.buf))
			return Frame{}, false
		}
		p.drop(sof)
		if len(p.buf) < 4 {
			return Frame{}, false
		}
		hi, lo := p.buf[1], p.buf[2]
		ln := int(hi)<<8 | int(lo)
		if ln == 0 || ln > p.maxFrameLen() {
			p.stats.LengthErrors++
			p.drop(1)
			continue
		}
		total := 3 + ln + 1
		if len(p.buf) < total {
			return Frame{}, false
		}
		body := p.buf[3 : 3+ln]
		if Checksum(hi, lo, body) != p.buf[3+ln] {
			p.stats.ChecksumErrors++
			p.drop(1)
			continue
		}
		f := Frame{Op: body[0], Params: append([]byte(nil), body[1:]...)}
		p.consume(total)
		p.stats.Frames++
		return f, true
	}
}

func (p *Parser) drop(n int) {
	if n <= 0 {
		return
	}
	p.stats.DroppedBytes += uint64(n)
	p.consume(n)
}

func (p *Parser) consume(n int) {
	p.buf = p.buf[:copy(p.buf, p.buf[n:])]
}

func (p *Parser) maxBuffer() int {
	if p.MaxBuffer > 0 {
		return p.MaxBuffer
	}
	return DefaultMaxBuffer
}

func (p *Parser) maxFrameLen() int {
	if p.MaxFrameLen > 0 {
		return p.MaxFrameLen
	}
	return DefaultMaxFrameLen
}
