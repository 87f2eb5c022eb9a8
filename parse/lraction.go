package parse

import (
	"fmt"

	"github.com/zanderlang/zander/grammar"
)

// LRActionType tags an LRAction.
type LRActionType int

const (
	LRShift LRActionType = iota
	LRReduce
	LRAccept
	LRError
)

// LRAction is one parse-table cell.
type LRAction struct {
	Type  LRActionType
	State int // valid for LRShift: the state to shift to
	Rule  int // valid for LRReduce: the rule to reduce
	Prod  int // valid for LRReduce: the production within Rule
}

func (a LRAction) String() string {
	switch a.Type {
	case LRShift:
		return fmt.Sprintf("s%d", a.State)
	case LRReduce:
		return fmt.Sprintf("r%d", a.Rule)
	case LRAccept:
		return "acc"
	default:
		return ""
	}
}

// NonEpsilonLen counts the symbols of a production that occupy a stack slot
// when it is reduced: every terminal and nonterminal, skipping any literal
// Epsilon symbol a hand-built grammar might carry (the ebnf normalizer never
// emits one).
func NonEpsilonLen(p grammar.Production) int {
	n := 0
	for _, sym := range p {
		if sym.Kind != grammar.Epsilon {
			n++
		}
	}
	return n
}

func makeConflictItems(g *grammar.Grammar, a1, a2 LRAction) []string {
	describe := func(a LRAction) string {
		switch a.Type {
		case LRShift:
			return fmt.Sprintf("shift to state %d", a.State)
		case LRReduce:
			return fmt.Sprintf("reduce %s -> %s", g.Rule(a.Rule).Name, g.Rule(a.Rule).Productions[a.Prod].String())
		case LRAccept:
			return "accept"
		default:
			return "error"
		}
	}
	return []string{describe(a1), describe(a2)}
}
