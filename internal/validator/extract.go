package validator

import "fmt"

// MethodBody is the text of a method body, braces included.
// Start is the offset of the opening '{' and End is one past the matching '}'.
type MethodBody struct {
	Text      string `json:"text"`
	Start     int    `json:"start"`
	End       int    `json:"end"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
}

// Extract delimits the body that opens at the '{' at offset open. Brace depth is
// only tracked in code; braces inside comments and string or character literals
// are ignored. Reaching end of file before the depth returns to zero is an
// ErrMalformedSource.
func Extract(src *Source, open int) (*MethodBody, error) {
	text := src.Text
	if open < 0 || open >= len(text) || text[open] != '{' {
		return nil, fmt.Errorf("%w: %s: offset %d is not an opening brace", ErrMalformedSource, src.Path, open)
	}

	sc := newScanner(text, open)
	depth := 0
	for {
		off, class, ok := sc.next()
		if !ok {
			break
		}
		if class != classCode {
			continue
		}
		switch text[off] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return &MethodBody{
					Text:      text[open : off+1],
					Start:     open,
					End:       off + 1,
					StartLine: src.Position(open).Line,
					EndLine:   src.Position(off).Line,
				}, nil
			}
		}
	}

	if sc.state != stateCode && sc.state != stateLineComment {
		return nil, fmt.Errorf("%w: %s: unterminated %s in body opened at line %d",
			ErrMalformedSource, src.Path, sc.state, src.Position(open).Line)
	}
	return nil, fmt.Errorf("%w: %s: body opened at line %d is missing %d closing brace(s)",
		ErrMalformedSource, src.Path, src.Position(open).Line, depth)
}
