package lr

import (
	"fmt"

	"github.com/zanderlang/zander/grammar"
	"github.com/zanderlang/zander/internal/util"
)

// State is one node of the canonical LR collection: a closed set of items
// plus the goto transitions out of it, indexed by the grammar's contiguous
// symbol space (see grammar.Grammar.SymbolSpaceIndex).
type State struct {
	Items []Item
	Goto  map[int]int // symbol-space index -> state index
}

// Automaton is the canonical collection of LR states built by BFS from the
// augmented start item.
type Automaton struct {
	States  []State
	Start   int
	g       *grammar.Grammar
	augRule int // index of the synthetic augmented start rule, S' -> start
}

// NewAutomaton assembles an Automaton from externally built states (used by
// the LALR builder after merging LR1 states by core). The grammar's start
// rule is taken as the augmented rule for accept-state detection.
func NewAutomaton(g *grammar.Grammar, states []State, start int) *Automaton {
	return &Automaton{States: states, Start: start, g: g, augRule: g.StartRule()}
}

// stateKey canonicalizes an item set (by core, for LR0; by full item for
// LR1) for dedup in the canonical collection.
func stateKey(items []Item, byCore bool) string {
	keys := make([]string, len(items))
	for i, it := range items {
		if byCore {
			it = it.Core()
		}
		keys[i] = fmt.Sprintf("%d.%d.%d.%d", it.Rule, it.Prod, it.DotPos, it.Lookahead)
	}
	sortStrings(keys)
	s := ""
	for _, k := range keys {
		s += k + "|"
	}
	return s
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		v := s[i]
		j := i - 1
		for j >= 0 && s[j] > v {
			s[j+1] = s[j]
			j--
		}
		s[j+1] = v
	}
}

// Closure0 computes the LR0 closure of a set of items: for every item
// [A -> alpha . N beta] with N a nonterminal, add [N -> . gamma] for every
// production gamma of N, transitively.
func Closure0(g *grammar.Grammar, items []Item) []Item {
	seen := map[string]Item{}
	var queue []Item
	add := func(it Item) {
		k := fmt.Sprintf("%d.%d.%d", it.Rule, it.Prod, it.DotPos)
		if _, ok := seen[k]; !ok {
			seen[k] = it
			queue = append(queue, it)
		}
	}
	for _, it := range items {
		add(it)
	}
	for i := 0; i < len(queue); i++ {
		it := queue[i]
		sym, ok := it.NextSymbol(g)
		if !ok || sym.Kind != grammar.Nonterminal {
			continue
		}
		for p := range g.Rule(sym.Index).Productions {
			add(Item{Rule: sym.Index, Prod: p, DotPos: 0, Lookahead: -1})
		}
	}
	out := make([]Item, 0, len(seen))
	for _, it := range queue {
		out = append(out, it)
	}
	return out
}

// Goto0 computes the LR0 goto of a (closed) item set on symbol x: the
// closure of every item in items advanced past x.
func Goto0(g *grammar.Grammar, items []Item, x grammar.Symbol) []Item {
	var moved []Item
	for _, it := range items {
		sym, ok := it.NextSymbol(g)
		if !ok || sym != x {
			continue
		}
		moved = append(moved, it.Advance())
	}
	if len(moved) == 0 {
		return nil
	}
	return Closure0(g, moved)
}

// BuildLR0 constructs the canonical LR0 collection by BFS from the closure
// of every production of the start rule (there is no separate augmented
// start symbol; see Automaton.AcceptStates), dot at position 0.
func BuildLR0(g *grammar.Grammar) *Automaton {
	start := Closure0(g, startItems(g, -1))
	return build(g, start, true)
}

// startItems seeds a canonical collection with one item per production of
// the grammar's start rule, dot at position 0. Every alternative of the
// start rule is a valid way to begin a parse, not just its first, so all of
// them (including a bare epsilon alternative) must be reachable from the
// initial state.
func startItems(g *grammar.Grammar, lookahead int) []Item {
	start := g.Rule(g.StartRule())
	items := make([]Item, len(start.Productions))
	for p := range start.Productions {
		items[p] = Item{Rule: g.StartRule(), Prod: p, DotPos: 0, Lookahead: lookahead}
	}
	return items
}

func build(g *grammar.Grammar, start []Item, byCore bool) *Automaton {
	a := &Automaton{g: g, augRule: g.StartRule()}
	keyToIndex := map[string]int{}
	startKey := stateKey(start, byCore)
	keyToIndex[startKey] = 0
	a.States = append(a.States, State{Items: start, Goto: map[int]int{}})
	a.Start = 0

	space := g.SymbolSpace()

	for i := 0; i < len(a.States); i++ {
		items := a.States[i].Items
		for sIdx := 0; sIdx < space; sIdx++ {
			x := symbolFromSpaceIndex(g, sIdx)
			moved := Goto0(g, items, x)
			if len(moved) == 0 {
				continue
			}
			key := stateKey(moved, byCore)
			j, ok := keyToIndex[key]
			if !ok {
				j = len(a.States)
				keyToIndex[key] = j
				a.States = append(a.States, State{Items: moved, Goto: map[int]int{}})
			}
			a.States[i].Goto[sIdx] = j
		}
	}
	return a
}

func symbolFromSpaceIndex(g *grammar.Grammar, idx int) grammar.Symbol {
	if idx < g.NumTerminals() {
		return grammar.Symbol{Kind: grammar.Terminal, Index: idx}
	}
	return grammar.Symbol{Kind: grammar.Nonterminal, Index: idx - g.NumTerminals()}
}

// AcceptStates returns the states containing a completed start-rule item
// (dot at the end of the start rule's production).
func (a *Automaton) AcceptStates() util.KeySet[int] {
	out := util.NewKeySet[int]()
	for i, st := range a.States {
		for _, it := range st.Items {
			if it.Rule == a.augRule && it.AtEnd(a.g) {
				out.Add(i)
			}
		}
	}
	return out
}
