package regex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Parse_symbols(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "single literal", input: "a"},
		{name: "sequence", input: "abc"},
		{name: "alternation", input: "(a|b)"},
		{name: "top-level alternation rejected", input: "a|b", wantErr: true},
		{name: "group", input: "(ab)"},
		{name: "star", input: "a*"},
		{name: "plus", input: "a+"},
		{name: "optional", input: "a?"},
		{name: "char class", input: "[a-d]"},
		{name: "inverted class", input: "[^a-d]"},
		{name: "escape word class", input: `\w+`},
		{name: "escape whitespace class", input: `\s*`},
		{name: "nested group with alternation", input: "(if|[a-z]+)"},
		{name: "unterminated group", input: "(ab", wantErr: true},
		{name: "dangling alternation", input: "a|", wantErr: true},
		{name: "unterminated class", input: "[abc", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			n, err := Parse(tc.input)
			if tc.wantErr {
				assert.Error(err)
				return
			}
			if !assert.NoError(err) {
				return
			}
			assert.NotNil(n)
		})
	}
}

func Test_Parse_seedPattern(t *testing.T) {
	assert := assert.New(t)

	n, err := Parse(`[a-d]*a`)
	assert.NoError(err)
	assert.Equal(Sequence, n.Kind)
	assert.Len(n.Children, 2)
	assert.Equal(ZeroOrMore, n.Children[0].Kind)
	assert.Equal(Symbol, n.Children[1].Kind)
	assert.Equal(byte('a'), n.Children[1].Byte)
}

func Test_Print_roundTrip(t *testing.T) {
	testCases := []string{
		"a", "abc", "(a|b)", "(ab)", "a*", "a+", "a?", "[a-d]", "[^a-d]", `\t`, `\(`,
	}

	for _, pattern := range testCases {
		t.Run(pattern, func(t *testing.T) {
			assert := assert.New(t)

			n1, err := Parse(pattern)
			assert.NoError(err)

			printed := Print(n1)
			n2, err := Parse(printed)
			assert.NoError(err)

			assert.True(Equal(n1, n2), "Parse(Print(Parse(%q))) should equal Parse(%q)", pattern, pattern)
		})
	}
}

func Test_Ranges(t *testing.T) {
	assert := assert.New(t)

	n, err := Parse(`[a-d]`)
	assert.NoError(err)

	ranges := Ranges(n)
	assert.Equal([]byte{'a', 'd'}, []byte{ranges[0].Lo, ranges[0].Hi})
}

func Test_Equal(t *testing.T) {
	assert := assert.New(t)

	a, err := Parse("ab")
	assert.NoError(err)
	b, err := Parse("ab")
	assert.NoError(err)
	c, err := Parse("ac")
	assert.NoError(err)

	assert.True(Equal(a, b))
	assert.False(Equal(a, c))
}
