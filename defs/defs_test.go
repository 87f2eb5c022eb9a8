package defs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zanderlang/zander/grammar"
	"github.com/zanderlang/zander/lex"
	"github.com/zanderlang/zander/parse"
	"github.com/zanderlang/zander/token"
)

const listDefs = `# a whitespace-separated list of lowercase words
IGNORE : [ \t]+
NEWLINE : \n
ident : [a-z]+

<root> : <list>
<list> : ident <list> | 0
`

// tokenAdapter bridges a lexed token.Stream to the parse drivers' input
// shape, the same translation the CLI performs.
type tokenAdapter struct {
	ts         token.Stream
	g          *grammar.Grammar
	endOfInput int
}

func (a *tokenAdapter) translate(t token.Token) parse.InputToken {
	if t.Class().ID() == token.End.ID() {
		return parse.InputToken{TermIndex: a.endOfInput}
	}
	return parse.InputToken{TermIndex: a.g.TerminalIndex(t.Class().Human()), Lexeme: t.Lexeme()}
}

func (a *tokenAdapter) Peek() parse.InputToken { return a.translate(a.ts.Peek()) }
func (a *tokenAdapter) Next() parse.InputToken { return a.translate(a.ts.Next()) }

func Test_Read_collectsTerminalsAndRules(t *testing.T) {
	assert := assert.New(t)

	d, err := Read(listDefs)
	assert.NoError(err)

	g := d.Grammar()
	assert.Equal([]string{"IGNORE", "NEWLINE", "ident", "$"}, g.Terminals())
	assert.Equal(3, d.EndOfInput())
	assert.Equal(0, g.RuleIndex("root"))
	assert.True(g.RuleIndex("list") >= 0)
	assert.Equal(g.RuleIndex("root"), g.StartRule())
}

func Test_Tokenizer_ignoresAndCountsLines(t *testing.T) {
	assert := assert.New(t)

	d, err := Read(listDefs)
	assert.NoError(err)

	tok, err := d.Tokenizer()
	assert.NoError(err)

	s := lex.NewStream(tok, strings.NewReader("a b\nc"))

	a := s.Next()
	assert.Equal("ident", a.Class().Human())
	assert.Equal("a", a.Lexeme())
	assert.Equal(1, a.Line())

	b := s.Next()
	assert.Equal("b", b.Lexeme())
	assert.Equal(1, b.Line())

	c := s.Next()
	assert.Equal("c", c.Lexeme())
	assert.Equal(2, c.Line(), "the NEWLINE match advances the line counter")

	assert.False(s.HasNext())
}

func Test_Read_throughLALRParse(t *testing.T) {
	assert := assert.New(t)

	d, err := Read(listDefs)
	assert.NoError(err)

	g := d.Grammar()
	table, err := parse.BuildLALR(g, g.ComputeSets(), d.EndOfInput())
	assert.NoError(err)

	tok, err := d.Tokenizer()
	assert.NoError(err)

	sess := parse.NewLRSession(table)
	var words []string
	sess.AddTerminalDecorator(g.TerminalIndex("ident"), func(termIndex int, lexeme string) any {
		words = append(words, lexeme)
		return lexeme
	})

	stream := lex.NewStream(tok, strings.NewReader("foo bar baz"))
	_, err = sess.Parse(&tokenAdapter{ts: stream, g: g, endOfInput: d.EndOfInput()})
	assert.NoError(err)
	assert.Equal([]string{"foo", "bar", "baz"}, words)
}

func Test_Read_inlineLiteralsThroughLL1(t *testing.T) {
	assert := assert.New(t)

	// A : 'x' A | 0, spelled with an inline literal: LL(1) valid, "xxx"
	// accepted.
	d, err := Read("<root> : 'x' <root> | 0\n")
	assert.NoError(err)

	g := d.Grammar()
	assert.Equal([]string{"'x'", "$"}, g.Terminals())

	table, err := parse.BuildLL1(g, g.ComputeSets())
	assert.NoError(err)

	tok, err := d.Tokenizer()
	assert.NoError(err)

	sess := parse.NewLL1Session(g, table)
	sess.AddReducer(g.StartRule(), func(ruleIndex int, children []any) any { return children })
	xs := 0
	sess.AddTerminalDecorator(0, func(termIndex int, lexeme string) any {
		xs++
		return lexeme
	})

	stream := lex.NewStream(tok, strings.NewReader("xxx"))
	_, err = sess.Parse(&tokenAdapter{ts: stream, g: g, endOfInput: d.EndOfInput()})
	assert.NoError(err)
	assert.Equal(3, xs)
}

func Test_Read_literalsDedupeByText(t *testing.T) {
	assert := assert.New(t)

	d, err := Read("<root> : 'x' 'x' | 0\n")
	assert.NoError(err)
	assert.Equal([]string{"'x'", "$"}, d.Grammar().Terminals())
}

func Test_Read_errors(t *testing.T) {
	assert := assert.New(t)

	for name, text := range map[string]string{
		"no root rule":          "ident : [a-z]+\n<other> : ident\n",
		"undefined nonterminal": "<root> : <missing>\n",
		"undefined terminal":    "<root> : ident\n",
		"duplicate terminal":    "x : a\nx : b\n<root> : x\n",
		"duplicate rule":        "<root> : 'a'\n<root> : 'b'\n",
		"missing colon":         "ident [a-z]+\n<root> : ident\n",
	} {
		_, err := Read(text)
		assert.Error(err, name)
	}
}

func Test_Read_ebnfOperatorsExpand(t *testing.T) {
	assert := assert.New(t)

	d, err := Read("w : [a-z]+\n<root> : w (',' w)* '!'?\n")
	assert.NoError(err)

	g := d.Grammar()
	assert.True(g.NumRules() > 1, "the * and ? groups introduce helper rules")

	table, err := parse.BuildLALR(g, g.ComputeSets(), d.EndOfInput())
	assert.NoError(err)

	tok, err := d.Tokenizer()
	assert.NoError(err)

	sess := parse.NewLRSession(table)
	stream := lex.NewStream(tok, strings.NewReader("ab,cd,ef!"))
	_, err = sess.Parse(&tokenAdapter{ts: stream, g: g, endOfInput: d.EndOfInput()})
	assert.NoError(err)
}
