package lex

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zanderlang/zander/token"
)

var (
	clsIdent = token.NewClass("ident")
	clsNum   = token.NewClass("number")
	clsWS    = token.NewClass("IGNORE")
	clsNL    = token.NewClass("newline")
)

func buildSimpleTokenizer(t *testing.T) *Tokenizer {
	t.Helper()
	tok, err := Build([]Configuration{
		{
			Name:     "main",
			Classes:  []token.Class{clsIdent, clsNum, clsWS, clsNL},
			Patterns: []string{`[a-zA-Z_][a-zA-Z_0-9]*`, `[0-9]+`, `[ \t]+`, `\n`},
		},
	}, clsNL)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return tok
}

func Test_Stream_ignoresWhitespaceAndCountsLines(t *testing.T) {
	assert := assert.New(t)

	tok := buildSimpleTokenizer(t)
	s := NewStream(tok, strings.NewReader("foo 123\nbar"))

	first := s.Next()
	assert.Equal("ident", first.Class().ID())
	assert.Equal("foo", first.Lexeme())
	assert.Equal(1, first.Line())

	second := s.Next()
	assert.Equal("number", second.Class().ID())
	assert.Equal("123", second.Lexeme())

	third := s.Next()
	assert.Equal("ident", third.Class().ID())
	assert.Equal("bar", third.Lexeme())
	assert.Equal(2, third.Line())

	assert.False(s.HasNext())
}

func Test_Stream_PeekDoesNotAdvance(t *testing.T) {
	assert := assert.New(t)

	tok := buildSimpleTokenizer(t)
	s := NewStream(tok, strings.NewReader("abc"))

	p1 := s.Peek()
	p2 := s.Peek()
	assert.Equal(p1.Lexeme(), p2.Lexeme())

	n := s.Next()
	assert.Equal(p1.Lexeme(), n.Lexeme())
	assert.False(s.HasNext())
}

func Test_Stream_errorLatchesOnUnknownByte(t *testing.T) {
	assert := assert.New(t)

	tok := buildSimpleTokenizer(t)
	s := NewStream(tok, strings.NewReader("@@@"))

	first := s.Next()
	assert.Equal(token.Error.ID(), first.Class().ID())
	second := s.Next()
	assert.Equal(token.Error.ID(), second.Class().ID())
}

func Test_Stream_SetConfiguration_midStream(t *testing.T) {
	assert := assert.New(t)

	clsColon := token.NewClass("colon")
	clsRaw := token.NewClass("raw")

	tok, err := Build([]Configuration{
		{
			Name:     "directive",
			Classes:  []token.Class{clsIdent, clsColon},
			Patterns: []string{`[a-zA-Z_][a-zA-Z_0-9]*`, `:`},
		},
		{
			Name:     "pattern",
			Classes:  []token.Class{clsRaw},
			Patterns: []string{`[^\n]+`},
		},
	}, nil)
	assert.NoError(err)
	assert.Equal(1, tok.ConfigurationIndex("pattern"))
	assert.Equal(0, tok.ConfigurationIndex("directive"))
	assert.Equal(-1, tok.ConfigurationIndex("nope"))

	s := NewStream(tok, strings.NewReader("NAME:[a-z]+\n"))

	name := s.Next()
	assert.Equal("ident", name.Class().ID())
	assert.Equal("NAME", name.Lexeme())

	colon := s.Next()
	assert.Equal("colon", colon.Class().ID())

	s.SetConfiguration(tok.ConfigurationIndex("pattern"))
	body := s.Next()
	assert.Equal("raw", body.Class().ID())
	assert.Equal("[a-z]+", body.Lexeme())
}
