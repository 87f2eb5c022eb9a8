package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Augmented_appendsFreshStartRule(t *testing.T) {
	assert := assert.New(t)

	g := seedGrammar()
	ag := g.Augmented()

	assert.Equal(g.NumRules()+1, ag.NumRules())
	assert.Equal(ag.NumRules()-1, ag.StartRule())

	start := ag.Rule(ag.StartRule())
	assert.Equal("S'", start.Name)
	assert.Len(start.Productions, 1)
	assert.True(start.Productions[0].Equal(Production{{Kind: Nonterminal, Index: g.StartRule()}}))

	// original rules and terminals are untouched, at their original indices.
	assert.Equal(g.Terminals(), ag.Terminals())
	assert.Equal("S", ag.Rule(0).Name)
}

func Test_Augmented_avoidsNameCollision(t *testing.T) {
	assert := assert.New(t)

	rules := []Rule{
		{Name: "S", Productions: []Production{{{Kind: Terminal, Index: 0}}}},
		{Name: "S'", Productions: []Production{{{Kind: Terminal, Index: 0}}}},
	}
	g := New([]string{"a"}, rules, 0)
	ag := g.Augmented()

	assert.Equal("S''", ag.Rule(ag.StartRule()).Name)
}

func Test_ComputeSets_seedsEndOfInputIntoStartFollow(t *testing.T) {
	assert := assert.New(t)

	// terminals {a, b, $}: the last slot is the end-of-input sentinel by
	// convention and lands in FOLLOW of the start rule before iteration.
	terminals := []string{"a", "b", "$"}
	rules := []Rule{
		{Name: "S", Productions: []Production{{{Kind: Terminal, Index: 0}}}},
	}
	g := New(terminals, rules, 0)
	sets := g.ComputeSets()

	assert.True(sets.Follow[0].Has(2))
	assert.False(sets.Follow[0].Has(1))
}
