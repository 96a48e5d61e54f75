package avg

import (
	"github.com/tdewolff/parse/v2/strconv"
)

// scanner walks path data and transform strings. Commas and whitespace
// separate tokens; a token is either a single letter or a number.
type scanner struct {
	b   []byte
	pos int
}

func newScanner(s string) *scanner {
	sc := &scanner{b: []byte(s)}
	sc.skipSeparators()
	return sc
}

func isSeparator(c byte) bool {
	switch c {
	case ',', ' ', '\f', '\t', '\n', '\r':
		return true
	}
	return false
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func (s *scanner) skipSeparators() {
	for s.pos < len(s.b) && isSeparator(s.b[s.pos]) {
		s.pos++
	}
}

func (s *scanner) done() bool {
	return s.pos >= len(s.b)
}

func (s *scanner) peek() byte {
	if s.done() {
		return 0
	}
	return s.b[s.pos]
}

func (s *scanner) atLetter() bool {
	return isLetter(s.peek())
}

func (s *scanner) atNumber() bool {
	c := s.peek()
	return (c >= '0' && c <= '9') || c == '-' || c == '+' || c == '.'
}

// letter consumes a single letter.
func (s *scanner) letter() (byte, bool) {
	if !s.atLetter() {
		return 0, false
	}
	c := s.b[s.pos]
	s.pos++
	s.skipSeparators()
	return c, true
}

// number consumes a floating point number.
func (s *scanner) number() (float64, bool) {
	if !s.atNumber() {
		return 0, false
	}
	f, n := strconv.ParseFloat(s.b[s.pos:])
	if n == 0 {
		return 0, false
	}
	s.pos += n
	s.skipSeparators()
	return f, true
}

// word consumes a run of letters, for transform function names.
func (s *scanner) word() string {
	start := s.pos
	for s.pos < len(s.b) && isLetter(s.b[s.pos]) {
		s.pos++
	}
	w := string(s.b[start:s.pos])
	s.skipSeparators()
	return w
}

// expect consumes c, skipping separators after it.
func (s *scanner) expect(c byte) bool {
	if s.peek() != c {
		return false
	}
	s.pos++
	s.skipSeparators()
	return true
}
