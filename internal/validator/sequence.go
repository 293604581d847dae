package validator

import "strings"

// TokenMatch records where a token was found inside a method body.
type TokenMatch struct {
	Token  string `json:"token"`
	Offset int    `json:"offset"`
}

// SequenceResult is the outcome of CheckSequence.
type SequenceResult struct {
	Matches []TokenMatch

	// MissingIndex is the index of the first token that could not be found,
	// or -1 when every token matched.
	MissingIndex int

	// SearchFrom is the body offset the missing token was searched from.
	SearchFrom int
}

// OK reports whether every token matched in order.
func (r SequenceResult) OK() bool {
	return r.MissingIndex < 0
}

// CheckSequence verifies that each token occurs in body as a literal substring,
// starting at or after the end of the previous token's match. The first token is
// searched from offset 0. Repeated tokens each need their own, later occurrence.
func CheckSequence(body string, tokens []string) SequenceResult {
	res := SequenceResult{
		Matches:      make([]TokenMatch, 0, len(tokens)),
		MissingIndex: -1,
	}

	pos := 0
	for i, tok := range tokens {
		idx := strings.Index(body[pos:], tok)
		if idx < 0 {
			res.MissingIndex = i
			res.SearchFrom = pos
			return res
		}
		res.Matches = append(res.Matches, TokenMatch{Token: tok, Offset: pos + idx})
		pos += idx + len(tok)
	}
	return res
}
