package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_NewClass(t *testing.T) {
	assert := assert.New(t)

	c := NewClass("IDENT")
	assert.Equal("ident", c.ID())
	assert.Equal("IDENT", c.Human())
}

func Test_Class_Equal(t *testing.T) {
	assert := assert.New(t)

	a := NewClass("ident")
	b := NewClass("IDENT")
	c := NewClass("number")

	assert.True(a.Equal(b))
	assert.False(a.Equal(c))
}

func Test_reservedClasses(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("$", End.ID())
	assert.Equal("ignore", Ignore.ID())
	assert.Equal("error", Error.ID())
}

func Test_New_token(t *testing.T) {
	assert := assert.New(t)

	tok := New(NewClass("ident"), "foo", 3, 2, "let foo = 1")
	assert.Equal("foo", tok.Lexeme())
	assert.Equal(3, tok.LinePos())
	assert.Equal(2, tok.Line())
	assert.Equal("let foo = 1", tok.FullLine())
	assert.Contains(tok.String(), "foo")
}
