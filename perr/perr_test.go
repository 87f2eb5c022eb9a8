package perr

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zanderlang/zander/token"
)

func Test_ParseError_includesPosition(t *testing.T) {
	assert := assert.New(t)

	err := NewParseError(7, "unexpected character %q", byte(')'))
	assert.Contains(err.Error(), "position 7")
	assert.Contains(err.Error(), ")")
}

func Test_ConflictError_rendersBothItems(t *testing.T) {
	assert := assert.New(t)

	err := &ConflictError{
		Kind:   ShiftReduce,
		Symbol: "+",
		State:  "4",
		Items:  []string{"shift to state 7", "reduce S -> S + S"},
	}
	msg := err.Error()
	assert.Contains(msg, "shift/reduce")
	assert.Contains(msg, `"+"`)
	assert.Contains(msg, "shift to state 7")
	assert.Contains(msg, "reduce S -> S + S")
}

func Test_SyntaxError_FullMessagePointsAtColumn(t *testing.T) {
	assert := assert.New(t)

	tok := token.New(token.NewClass("ident"), "bad", 5, 2, "foo bad baz")
	err := NewSyntaxErrorFromToken("unexpected token", tok)

	assert.Contains(err.Error(), "2:5")

	full := err.FullMessage()
	lines := strings.Split(full, "\n")
	assert.True(len(lines) >= 3)
	assert.Contains(lines[0], "line 2")
	assert.Equal("foo bad baz", lines[1])
	assert.Equal("    ^", lines[2], "caret sits under column 5")
}

func Test_SyntaxError_withoutSourceToken(t *testing.T) {
	assert := assert.New(t)

	err := &SyntaxError{Message: "bare message"}
	assert.Equal("bare message", err.Error())
	assert.Equal("bare message", err.FullMessage())
}
