package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Build_and_Match_seedPattern(t *testing.T) {
	assert := assert.New(t)

	m, err := Build([]string{`[a-d]*a`})
	assert.NoError(err)

	length, pattern := m.Match([]byte("abcda"), 0)
	assert.Equal(5, length)
	assert.Equal(0, pattern)
}

func Test_Match_longestMatchTieBreak(t *testing.T) {
	assert := assert.New(t)

	// "if" (pattern 0) and "[a-z]+" (pattern 1) both match the input "if";
	// declaration order breaks the tie in pattern 0's favor.
	m, err := Build([]string{"if", "[a-z]+"})
	assert.NoError(err)

	length, pattern := m.Match([]byte("if"), 0)
	assert.Equal(2, length)
	assert.Equal(0, pattern)
}

func Test_Match_longerAlternativeWins(t *testing.T) {
	assert := assert.New(t)

	m, err := Build([]string{"if", "[a-z]+"})
	assert.NoError(err)

	length, pattern := m.Match([]byte("ifx"), 0)
	assert.Equal(3, length)
	assert.Equal(1, pattern)
}

func Test_Match_noMatch(t *testing.T) {
	assert := assert.New(t)

	m, err := Build([]string{"a"})
	assert.NoError(err)

	length, pattern := m.Match([]byte("xyz"), 0)
	assert.Equal(0, length)
	assert.Equal(-1, pattern)
}

func Test_Match_fromOffset(t *testing.T) {
	assert := assert.New(t)

	m, err := Build([]string{"a+"})
	assert.NoError(err)

	length, pattern := m.Match([]byte("bbaaa"), 2)
	assert.Equal(3, length)
	assert.Equal(0, pattern)
}

func Test_Build_invalidPatternReportsIndex(t *testing.T) {
	assert := assert.New(t)

	_, err := Build([]string{"a", "(b"})
	assert.Error(err)
	assert.Contains(err.Error(), "pattern 1")
}
