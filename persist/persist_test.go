package persist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zanderlang/zander/grammar"
	"github.com/zanderlang/zander/parse"
)

// cacheGrammar builds S -> a S b | epsilon over {a, b, $}, the same shape
// the LR driver tests use.
func cacheGrammar() (*grammar.Grammar, int) {
	terminals := []string{"a", "b", "$"}
	rules := []grammar.Rule{
		{
			Name: "S",
			Productions: []grammar.Production{
				{
					{Kind: grammar.Terminal, Index: 0},
					{Kind: grammar.Nonterminal, Index: 0},
					{Kind: grammar.Terminal, Index: 1},
				},
				{},
			},
		},
	}
	g := grammar.New(terminals, rules, 0)
	return g, 2
}

func Test_GrammarSnapshot_roundTrip(t *testing.T) {
	assert := assert.New(t)

	g, _ := cacheGrammar()
	snap := SnapshotGrammar(g)

	data := EncodeGrammar(snap)
	decoded, err := DecodeGrammar(data)
	assert.NoError(err)

	g2 := decoded.Grammar()
	assert.Equal(g.Terminals(), g2.Terminals())
	assert.Equal(g.StartRule(), g2.StartRule())
	assert.Equal(g.NumRules(), g2.NumRules())
	for i, r := range g.Rules() {
		r2 := g2.Rule(i)
		assert.Equal(r.Name, r2.Name)
		assert.Len(r2.Productions, len(r.Productions))
		for j, p := range r.Productions {
			assert.True(p.Equal(r2.Productions[j]))
		}
	}
}

func Test_TableSnapshot_roundTrip(t *testing.T) {
	assert := assert.New(t)

	g, endOfInput := cacheGrammar()
	sets := g.ComputeSets()
	table, err := parse.BuildLALR(g, sets, endOfInput)
	assert.NoError(err)

	snap := SnapshotTable(g, table, endOfInput)
	data := EncodeTable(snap)

	decoded, err := DecodeTable(data)
	assert.NoError(err)
	assert.Equal(endOfInput, decoded.EndOfInput)

	g2, restored := decoded.Table()
	assert.Equal(g.Terminals(), g2.Terminals())
	assert.Len(restored.Automaton.States, len(table.Automaton.States))

	// every live cell of the original table survives the round trip.
	for state := range table.Automaton.States {
		for sym := 0; sym < g.NumTerminals(); sym++ {
			assert.Equal(table.Action(state, sym), restored.Action(state, sym),
				"action mismatch at state %d symbol %d", state, sym)
		}
	}
}

type sliceStream struct {
	toks []parse.InputToken
	pos  int
}

func (s *sliceStream) Peek() parse.InputToken {
	if s.pos >= len(s.toks) {
		return parse.InputToken{TermIndex: -1}
	}
	return s.toks[s.pos]
}

func (s *sliceStream) Next() parse.InputToken {
	t := s.Peek()
	if s.pos < len(s.toks) {
		s.pos++
	}
	return t
}

func Test_RestoredTable_drivesAParse(t *testing.T) {
	assert := assert.New(t)

	g, endOfInput := cacheGrammar()
	sets := g.ComputeSets()
	table, err := parse.BuildLALR(g, sets, endOfInput)
	assert.NoError(err)

	decoded, err := DecodeTable(EncodeTable(SnapshotTable(g, table, endOfInput)))
	assert.NoError(err)
	_, restored := decoded.Table()

	sess := parse.NewLRSession(restored)
	sess.AddReducer(0, func(ruleIndex int, children []any) any { return len(children) })

	// a a b b $
	in := &sliceStream{toks: []parse.InputToken{
		{TermIndex: 0}, {TermIndex: 0}, {TermIndex: 1}, {TermIndex: 1}, {TermIndex: endOfInput},
	}}
	result, err := sess.Parse(in)
	assert.NoError(err)
	assert.Equal(3, result)
}

func Test_DecodeTable_rejectsGarbage(t *testing.T) {
	assert := assert.New(t)

	_, err := DecodeTable([]byte{0x01, 0x02})
	assert.Error(err)
}
