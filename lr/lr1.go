package lr

import "github.com/zanderlang/zander/grammar"

// firstOfSeq returns FIRST(beta a): the terminals that can begin the symbol
// sequence beta followed by lookahead terminal a, used by LR1 closure.
func firstOfSeq(g *grammar.Grammar, sets *grammar.Sets, beta []grammar.Symbol, lookahead int) []int {
	seen := map[int]bool{}
	var out []int
	add := func(t int) {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}

	allNullable := true
	for _, sym := range beta {
		if !allNullable {
			break
		}
		switch sym.Kind {
		case grammar.Epsilon:
			continue
		case grammar.Terminal:
			add(sym.Index)
			allNullable = false
		case grammar.Nonterminal:
			for t := range sets.First[sym.Index] {
				add(t)
			}
			if !sets.Nullable.Has(sym.Index) {
				allNullable = false
			}
		}
	}
	if allNullable {
		add(lookahead)
	}
	return out
}

// Closure1 computes the LR1 closure: for [A -> alpha . B beta, a] with B a
// nonterminal, add [B -> . gamma, b] for every production gamma of B and
// every b in FIRST(beta a).
func Closure1(g *grammar.Grammar, sets *grammar.Sets, items []Item) []Item {
	type key struct{ rule, prod, dot, la int }
	seen := map[key]bool{}
	var queue []Item
	add := func(it Item) {
		k := key{it.Rule, it.Prod, it.DotPos, it.Lookahead}
		if !seen[k] {
			seen[k] = true
			queue = append(queue, it)
		}
	}
	for _, it := range items {
		add(it)
	}
	for i := 0; i < len(queue); i++ {
		it := queue[i]
		rhs := it.RHS(g)
		sym, ok := it.NextSymbol(g)
		if !ok || sym.Kind != grammar.Nonterminal {
			continue
		}
		beta := rhs[it.DotPos+1:]
		for _, la := range firstOfSeq(g, sets, beta, it.Lookahead) {
			for p := range g.Rule(sym.Index).Productions {
				add(Item{Rule: sym.Index, Prod: p, DotPos: 0, Lookahead: la})
			}
		}
	}
	out := make([]Item, 0, len(queue))
	out = append(out, queue...)
	return out
}

// Goto1 computes the LR1 goto of a closed item set on symbol x.
func Goto1(g *grammar.Grammar, sets *grammar.Sets, items []Item, x grammar.Symbol) []Item {
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
	return Closure1(g, sets, moved)
}

// BuildLR1 constructs the canonical LR1 collection: end-of-input is modeled
// as terminal index EndOfInput (the grammar's own terminal list is expected
// to reserve a slot for it, by convention the last terminal index - callers
// building a Grammar specifically for LR use should append an explicit "$"
// terminal).
func BuildLR1(g *grammar.Grammar, sets *grammar.Sets, endOfInput int) *Automaton {
	start := Closure1(g, sets, startItems(g, endOfInput))
	return buildWithSets(g, sets, start, false)
}

func buildWithSets(g *grammar.Grammar, sets *grammar.Sets, start []Item, byCore bool) *Automaton {
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
			moved := Goto1(g, sets, items, x)
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
