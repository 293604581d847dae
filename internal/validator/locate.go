package validator

import (
	"fmt"
	"strings"
)

// MethodSignatureMatch is the result of locating a method declaration.
type MethodSignatureMatch struct {
	Name  string `json:"name"`
	Found bool   `json:"found"`

	// SignatureOffset is the offset of the method name in the declaration.
	SignatureOffset int `json:"signature_offset"`

	// BraceOffset is the offset of the opening '{' of the body.
	BraceOffset int `json:"brace_offset"`

	// Params is the raw text between the parameter list parentheses.
	// Callers can use it to tell overloads apart.
	Params string `json:"params"`
}

// trailing clause bytes allowed between ')' and '{', e.g. "throws IOException, X".
const clauseBytes = ",.<>[]?&@"

// Locate finds the first declaration of name in src. A declaration is the name as
// a whole word outside comments and literals, not preceded by '.' or the keyword
// new, followed by a balanced parameter list, optional trailing clauses and '{'.
// Calls, mentions in comments and string contents are never matched.
func Locate(src *Source, name string) MethodSignatureMatch {
	match := MethodSignatureMatch{Name: name, SignatureOffset: -1, BraceOffset: -1}
	if !isIdentifier(name) {
		return match
	}

	text := src.Text
	sc := newScanner(text, 0)

	var (
		wordStart = -1
		prevWord  string
		prevSig   byte // last non-space code byte before the current word
	)

	for {
		off, class, ok := sc.next()
		inWord := ok && class == classCode && isIdentByte(text[off])

		if inWord {
			if wordStart < 0 {
				wordStart = off
			}
			continue
		}

		if wordStart >= 0 {
			word := text[wordStart:off]
			if word == name && prevSig != '.' && prevWord != "new" {
				if params, brace, found := declarationTail(text, off); found {
					match.Found = true
					match.SignatureOffset = wordStart
					match.BraceOffset = brace
					match.Params = params
					return match
				}
			}
			prevWord = word
			prevSig = word[len(word)-1]
			wordStart = -1
		}

		if !ok {
			return match
		}
		if class == classCode && !isSpace(text[off]) {
			prevSig = text[off]
			prevWord = ""
		}
	}
}

// declarationTail checks that the text at from is a balanced parameter list
// followed by optional clauses and an opening brace. It returns the parameter
// text and the brace offset.
func declarationTail(text string, from int) (params string, brace int, ok bool) {
	sc := newScanner(text, from)

	open := -1
	for open < 0 {
		off, class, more := sc.next()
		if !more || class == classLiteral {
			return "", -1, false
		}
		if class == classComment || isSpace(text[off]) {
			continue
		}
		if text[off] != '(' {
			return "", -1, false
		}
		open = off
	}

	depth := 1
	closing := -1
	for closing < 0 {
		off, class, more := sc.next()
		if !more {
			return "", -1, false
		}
		if class != classCode {
			continue
		}
		switch text[off] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				closing = off
			}
		}
	}

	for {
		off, class, more := sc.next()
		if !more || class == classLiteral {
			return "", -1, false
		}
		if class == classComment {
			continue
		}
		c := text[off]
		switch {
		case c == '{':
			return strings.TrimSpace(text[open+1 : closing]), off, true
		case isSpace(c), isIdentByte(c), strings.IndexByte(clauseBytes, c) >= 0:
			continue
		default:
			return "", -1, false
		}
	}
}

// isIdentifier reports whether name can be a method name.
func isIdentifier(name string) bool {
	if name == "" || (name[0] >= '0' && name[0] <= '9') {
		return false
	}
	for i := 0; i < len(name); i++ {
		if !isIdentByte(name[i]) {
			return false
		}
	}
	return true
}

func validateMethodName(name string) error {
	if !isIdentifier(name) {
		return fmt.Errorf("%w: method name %q is not an identifier", ErrInvalidArgument, name)
	}
	return nil
}
