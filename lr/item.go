// Package lr builds the LR item-set automaton shared by the SLR, LALR and
// GLR table builders: items, closure, goto, and the canonical collection of
// states reachable from the augmented start item.
package lr

import (
	"fmt"

	"github.com/zanderlang/zander/grammar"
)

// Item is an LR0 item: a production (identified by its rule and the index
// of the alternative within that rule) annotated with a dot position, plus
// (for LR1 construction) a lookahead terminal. Lookahead is -1 for a bare
// LR0 item.
type Item struct {
	Rule      int
	Prod      int // index into grammar.Rule(Rule).Productions
	DotPos    int
	Lookahead int
}

// AtEnd reports whether the dot has reached the end of the production.
func (it Item) AtEnd(g *grammar.Grammar) bool {
	return it.DotPos >= len(g.Rule(it.Rule).Productions[it.Prod])
}

// RHS returns the production this item annotates.
func (it Item) RHS(g *grammar.Grammar) grammar.Production {
	return g.Rule(it.Rule).Productions[it.Prod]
}

// NextSymbol returns the symbol immediately after the dot and true, or the
// zero Symbol and false if the dot is at the end.
func (it Item) NextSymbol(g *grammar.Grammar) (grammar.Symbol, bool) {
	rhs := it.RHS(g)
	if it.DotPos >= len(rhs) {
		return grammar.Symbol{}, false
	}
	return rhs[it.DotPos], true
}

// Advance returns the item with the dot moved one position to the right.
func (it Item) Advance() Item {
	next := it
	next.DotPos++
	return next
}

// Core strips the lookahead, giving the bare LR0 item (used to find LALR
// states that share a core).
func (it Item) Core() Item {
	c := it
	c.Lookahead = -1
	return c
}

func (it Item) String(g *grammar.Grammar) string {
	s := fmt.Sprintf("%s ->", g.Rule(it.Rule).Name)
	rhs := it.RHS(g)
	for i, sym := range rhs {
		if i == it.DotPos {
			s += " ."
		}
		s += " " + sym.String()
	}
	if it.DotPos == len(rhs) {
		s += " ."
	}
	if it.Lookahead >= 0 {
		s += fmt.Sprintf(", %d", it.Lookahead)
	}
	return s
}
