package lex

import (
	"bufio"
	"io"

	"github.com/zanderlang/zander/token"
)

// Stream is a pull-driven token.Stream over one Tokenizer and one
// underlying byte source. It reads only as much of the source as the
// current match requires, extending its buffer a line at a time.
type Stream struct {
	t      *Tokenizer
	r      *bufio.Reader
	buf    []byte
	eof    bool
	pos    int // absolute offset into buf of the next byte to scan
	line   int // 1-indexed current line number
	config int

	lookahead     token.Token
	haveLookahead bool
	latched       bool
}

// NewStream builds a Stream starting in configuration 0, line 1.
func NewStream(t *Tokenizer, r io.Reader) *Stream {
	return &Stream{
		t:    t,
		r:    bufio.NewReader(r),
		line: 1,
	}
}

// SetConfiguration switches the active matcher. Takes effect on the next
// scan (i.e. after the currently held look-ahead, if any, is consumed).
func (s *Stream) SetConfiguration(index int) {
	s.config = index
}

// Configuration returns the active configuration index.
func (s *Stream) Configuration() int { return s.config }

func (s *Stream) fillTo(n int) {
	for len(s.buf) < n && !s.eof {
		s.readMore()
	}
}

func (s *Stream) readMore() {
	line, err := s.r.ReadBytes('\n')
	s.buf = append(s.buf, line...)
	if err != nil {
		s.eof = true
	}
}

func (s *Stream) ensureReadPast(offset int) {
	for len(s.buf) <= offset && !s.eof {
		s.readMore()
	}
}

// fullLineFor returns the complete text of the line containing absolute
// offset off in buf, scanning backward/forward for newlines.
func (s *Stream) fullLineFor(off int) string {
	if off > len(s.buf) {
		off = len(s.buf)
	}
	start := off
	for start > 0 && s.buf[start-1] != '\n' {
		start--
	}
	end := off
	for end < len(s.buf) {
		s.ensureReadPast(end)
		if end >= len(s.buf) || s.buf[end] == '\n' {
			break
		}
		end++
	}
	return string(s.buf[start:end])
}

func (s *Stream) linePosFor(off int) int {
	start := off
	for start > 0 && s.buf[start-1] != '\n' {
		start--
	}
	return off - start + 1
}

// scanOne runs the active matcher from s.pos, growing the buffer while the
// match reaches the buffered end and more input remains, so a longer match
// further in the stream is never missed.
func (s *Stream) scanOne() (length, pattern int) {
	s.fillTo(s.pos + 1)
	for {
		m := s.t.matchers[s.config]
		length, pattern = m.Match(s.buf, s.pos)
		if s.pos+length < len(s.buf) || s.eof {
			return length, pattern
		}
		before := len(s.buf)
		s.readMore()
		if len(s.buf) == before {
			return length, pattern
		}
	}
}

func (s *Stream) computeNext() token.Token {
	if s.latched {
		return s.lookahead
	}

	for {
		s.ensureReadPast(s.pos)
		if s.pos >= len(s.buf) && s.eof {
			return token.New(token.End, "", s.linePosFor(s.pos), s.line, "")
		}

		length, pattern := s.scanOne()
		cfg := s.t.configs[s.config]

		if length == 0 {
			// zero-length match or an unknown byte: latch in error state.
			errTok := token.New(token.Error, string(s.buf[s.pos:min(s.pos+1, len(s.buf))]), s.linePosFor(s.pos), s.line, s.fullLineFor(s.pos))
			s.lookahead = errTok
			s.latched = true
			return errTok
		}

		class := cfg.Classes[pattern]
		lexeme := string(s.buf[s.pos : s.pos+length])
		fullLine := s.fullLineFor(s.pos)
		linePos := s.linePosFor(s.pos)
		lineNum := s.line

		isNewline := s.t.newlineClass != nil && class.Equal(s.t.newlineClass)
		isIgnore := class.ID() == token.Ignore.ID()

		s.pos += length

		if isNewline {
			s.line++
			continue
		}
		if isIgnore {
			continue
		}

		return token.New(class, lexeme, linePos, lineNum, fullLine)
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Peek returns the current look-ahead without advancing.
func (s *Stream) Peek() token.Token {
	if !s.haveLookahead {
		s.lookahead = s.computeNext()
		s.haveLookahead = true
	}
	return s.lookahead
}

// Next returns the current look-ahead and advances past it.
func (s *Stream) Next() token.Token {
	t := s.Peek()
	if !s.latched {
		s.haveLookahead = false
	}
	return t
}

// HasNext reports whether the look-ahead token is not the end-of-input
// sentinel.
func (s *Stream) HasNext() bool {
	return s.Peek().Class().ID() != token.End.ID()
}
