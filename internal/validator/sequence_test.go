package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckSequence(t *testing.T) {
	t.Parallel()

	const chain = "{ return RestAssured.given().header(h).body(b).post(u).then().extract().response(); }"

	tests := []struct {
		name        string
		body        string
		tokens      []string
		wantOK      bool
		wantMissing int
		wantFrom    int
		wantOffsets []int
	}{
		{
			name:        "tokens in order",
			body:        chain,
			tokens:      []string{"given", "then", "extract", "response"},
			wantOK:      true,
			wantMissing: -1,
			wantOffsets: []int{
				strings.Index(chain, "given"),
				strings.Index(chain, "then"),
				strings.Index(chain, "extract"),
				strings.Index(chain, "response"),
			},
		},
		{
			name:        "order violated",
			body:        chain,
			tokens:      []string{"then", "given"},
			wantMissing: 1,
			wantFrom:    strings.Index(chain, "then") + len("then"),
			wantOffsets: []int{strings.Index(chain, "then")},
		},
		{
			name:        "extra token after the last match",
			body:        chain,
			tokens:      []string{"given", "then", "extract", "response", "post"},
			wantMissing: 4,
			wantFrom:    strings.Index(chain, "response") + len("response"),
			wantOffsets: []int{
				strings.Index(chain, "given"),
				strings.Index(chain, "then"),
				strings.Index(chain, "extract"),
				strings.Index(chain, "response"),
			},
		},
		{
			name:        "first token absent",
			body:        chain,
			tokens:      []string{"delete"},
			wantMissing: 0,
			wantOffsets: []int{},
		},
		{
			name:        "repeated tokens need fresh matches",
			body:        "header(a).header(b)",
			tokens:      []string{"header", "header"},
			wantOK:      true,
			wantMissing: -1,
			wantOffsets: []int{0, 10},
		},
		{
			name:        "repeated tokens beyond available occurrences",
			body:        "header(a).header(b)",
			tokens:      []string{"header", "header", "header"},
			wantMissing: 2,
			wantFrom:    16,
			wantOffsets: []int{0, 10},
		},
		{
			name:        "next token starts after the previous match ends",
			body:        "aaa",
			tokens:      []string{"aa", "aa"},
			wantMissing: 1,
			wantFrom:    2,
			wantOffsets: []int{0},
		},
		{
			name:        "adjacent matches",
			body:        "aaa",
			tokens:      []string{"aa", "a"},
			wantOK:      true,
			wantMissing: -1,
			wantOffsets: []int{0, 2},
		},
		{
			name:        "no tokens",
			body:        chain,
			tokens:      nil,
			wantOK:      true,
			wantMissing: -1,
			wantOffsets: []int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := CheckSequence(tt.body, tt.tokens)
			assert.Equal(t, tt.wantOK, res.OK())
			assert.Equal(t, tt.wantMissing, res.MissingIndex)
			if !tt.wantOK {
				assert.Equal(t, tt.wantFrom, res.SearchFrom)
			}

			offsets := make([]int, 0, len(res.Matches))
			for i, m := range res.Matches {
				assert.Equal(t, tt.tokens[i], m.Token)
				offsets = append(offsets, m.Offset)
			}
			assert.Equal(t, tt.wantOffsets, offsets)
		})
	}
}

func TestCheckSequence_OffsetsStrictlyIncrease(t *testing.T) {
	t.Parallel()

	res := CheckSequence("a.b.a.b.a.b", []string{"a", "b", "a", "b", "a", "b"})
	assert.True(t, res.OK())
	for i := 1; i < len(res.Matches); i++ {
		prev := res.Matches[i-1]
		assert.GreaterOrEqual(t, res.Matches[i].Offset, prev.Offset+len(prev.Token))
	}
}
