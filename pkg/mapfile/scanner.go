package mapfile

import "strings"

// scanner holds the read position over the map file text.
//
// The recognizers below either consume input and report success, or leave
// the position untouched and report failure, so callers can try alternatives
// without explicit backtracking.
type scanner struct {
	src string
	pos int
}

func (s *scanner) eof() bool { return s.pos >= len(s.src) }

func (s *scanner) rest() string { return s.src[s.pos:] }

// skipSpace skips spaces, tabs and line terminators. It never fails.
func (s *scanner) skipSpace() {
	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case ' ', '\t', '\r', '\n':
			s.pos++
		default:
			return
		}
	}
}

// skipBlanks skips spaces and tabs, staying on the current line.
func (s *scanner) skipBlanks() {
	for s.pos < len(s.src) && isBlank(s.src[s.pos]) {
		s.pos++
	}
}

// literal consumes lit if the input continues with it.
func (s *scanner) literal(lit string) bool {
	if strings.HasPrefix(s.rest(), lit) {
		s.pos += len(lit)
		return true
	}
	return false
}

// hex recognizes a hex literal: "0x" immediately followed by at least one
// hex digit. The returned text includes the prefix.
func (s *scanner) hex() (string, bool) {
	start := s.pos
	if !s.literal("0x") {
		return "", false
	}
	digits := s.pos
	for s.pos < len(s.src) && isHexDigit(s.src[s.pos]) {
		s.pos++
	}
	if s.pos == digits {
		s.pos = start
		return "", false
	}
	return s.src[start:s.pos], true
}

// number recognizes a numeric table field: a token starting with "0x" that
// runs until the next blank or line end. Well-formed fields are exactly a hex
// literal; anything else after the prefix is kept verbatim so the row is
// still recorded and the value can be rejected when it is converted.
func (s *scanner) number() (string, bool) {
	start := s.pos
	if _, ok := s.hex(); !ok && !s.literal("0x") {
		return "", false
	}
	s.word()
	if s.pos-start <= len("0x") {
		s.pos = start
		return "", false
	}
	return s.src[start:s.pos], true
}

// index recognizes a bracketed decimal index such as "[  1]" and returns
// the digits.
func (s *scanner) index() (string, bool) {
	start := s.pos
	if !s.literal("[") {
		return "", false
	}
	s.skipBlanks()
	digits := s.pos
	for s.pos < len(s.src) && isDigit(s.src[s.pos]) {
		s.pos++
	}
	end := s.pos
	if end == digits || !s.literal("]") {
		s.pos = start
		return "", false
	}
	return s.src[digits:end], true
}

// word consumes a run of non-blank characters on the current line.
func (s *scanner) word() string {
	start := s.pos
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if isBlank(c) || c == '\r' || c == '\n' {
			break
		}
		s.pos++
	}
	return s.src[start:s.pos]
}

// restOfLine consumes everything up to, but not including, the line
// terminator or the end of input. A trailing carriage return is not part of
// the result.
func (s *scanner) restOfLine() string {
	start := s.pos
	if i := strings.IndexByte(s.rest(), '\n'); i >= 0 {
		s.pos += i
	} else {
		s.pos = len(s.src)
	}
	line := s.src[start:s.pos]
	if strings.HasSuffix(line, "\r") {
		line = line[:len(line)-1]
	}
	return line
}

// lineEnd consumes trailing blanks and a line terminator. It succeeds at the
// end of input.
func (s *scanner) lineEnd() bool {
	start := s.pos
	s.skipBlanks()
	switch {
	case s.eof():
		return true
	case s.literal("\r\n"), s.literal("\n"):
		return true
	default:
		s.pos = start
		return false
	}
}

// atLineStart reports whether only blanks separate the position from the
// previous line terminator (or the start of input).
func (s *scanner) atLineStart() bool {
	for i := s.pos - 1; i >= 0; i-- {
		switch c := s.src[i]; {
		case c == '\n':
			return true
		case !isBlank(c):
			return false
		}
	}
	return true
}

// line returns the 1-based line and column of the current position.
func (s *scanner) line() (line, col int) {
	consumed := s.src[:s.pos]
	line = strings.Count(consumed, "\n") + 1
	col = s.pos - (strings.LastIndexByte(consumed, '\n') + 1) + 1
	return line, col
}

func isBlank(c byte) bool { return c == ' ' || c == '\t' }

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func isHexDigit(c byte) bool {
	return isDigit(c) || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
