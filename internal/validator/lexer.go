package validator

// lexClass says what kind of text a byte belongs to.
type lexClass uint8

const (
	classCode lexClass = iota
	classComment
	classLiteral
)

// lexState is the scanner's current lexical context.
type lexState uint8

const (
	stateCode lexState = iota
	stateLineComment
	stateBlockComment
	stateString
	stateChar
)

func (s lexState) String() string {
	switch s {
	case stateLineComment:
		return "line comment"
	case stateBlockComment:
		return "block comment"
	case stateString:
		return "string literal"
	case stateChar:
		return "character literal"
	default:
		return "code"
	}
}

// scanner classifies source bytes one at a time as code, comment or literal.
// It recognizes // and /* */ comments plus "..." and '...' literals where a
// backslash escapes the following byte. Nothing else about the language is known.
type scanner struct {
	text  string
	pos   int
	state lexState

	// pending bytes belong to a two-byte construct already recognized
	// (the second byte of //, /*, */ or an escape sequence).
	pending      int
	pendingClass lexClass
}

// newScanner starts scanning text at from, which must be a position in code.
func newScanner(text string, from int) *scanner {
	return &scanner{text: text, pos: from}
}

// next consumes one byte and returns its offset and class. ok is false once the
// input is exhausted.
func (s *scanner) next() (off int, class lexClass, ok bool) {
	if s.pos >= len(s.text) {
		return s.pos, classCode, false
	}
	off = s.pos
	s.pos++

	if s.pending > 0 {
		s.pending--
		return off, s.pendingClass, true
	}

	c := s.text[off]
	switch s.state {
	case stateCode:
		switch c {
		case '/':
			switch s.peek() {
			case '/':
				s.state = stateLineComment
				s.consumePending(classComment)
				return off, classComment, true
			case '*':
				s.state = stateBlockComment
				s.consumePending(classComment)
				return off, classComment, true
			}
		case '"':
			s.state = stateString
			return off, classLiteral, true
		case '\'':
			s.state = stateChar
			return off, classLiteral, true
		}
		return off, classCode, true

	case stateLineComment:
		if c == '\n' {
			s.state = stateCode
			return off, classCode, true
		}
		return off, classComment, true

	case stateBlockComment:
		if c == '*' && s.peek() == '/' {
			s.state = stateCode
			s.consumePending(classComment)
		}
		return off, classComment, true

	case stateString, stateChar:
		switch {
		case c == '\\':
			s.consumePending(classLiteral)
		case c == '"' && s.state == stateString, c == '\'' && s.state == stateChar:
			s.state = stateCode
		}
		return off, classLiteral, true
	}

	return off, classCode, true
}

func (s *scanner) peek() byte {
	if s.pos < len(s.text) {
		return s.text[s.pos]
	}
	return 0
}

func (s *scanner) consumePending(class lexClass) {
	if s.pos < len(s.text) {
		s.pending = 1
		s.pendingClass = class
	}
}

// maskComments returns text with every comment byte replaced by a space.
// Offsets are preserved so matches in the masked text map back one to one.
func maskComments(text string) string {
	masked := []byte(text)
	sc := newScanner(text, 0)
	for {
		off, class, ok := sc.next()
		if !ok {
			break
		}
		if class == classComment && masked[off] != '\n' {
			masked[off] = ' '
		}
	}
	return string(masked)
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c >= 0x80
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}
