package parse

import (
	"github.com/dekarrin/rosed"
	"github.com/zanderlang/zander/grammar"
	"github.com/zanderlang/zander/lr"
	"github.com/zanderlang/zander/perr"
)

// LRTable is a single-entry shift/reduce/accept table over an lr.Automaton.
// Its grammar is the augmented form of the grammar it was built from (one
// extra start rule appended; see grammar.Grammar.Augmented), so original rule
// indices are valid against it unchanged.
type LRTable struct {
	g         *grammar.Grammar
	Automaton *lr.Automaton
	action    map[[2]int]LRAction // (state, symbol-space index) -> action
	kind      string              // "SLR" or "LALR", for String()
}

func newLRTable(g *grammar.Grammar, a *lr.Automaton, kind string) *LRTable {
	return &LRTable{g: g, Automaton: a, action: map[[2]int]LRAction{}, kind: kind}
}

// NewLRTableFromCache rebuilds an LRTable from an already-computed action
// map, bypassing the builders entirely - used by package persist to restore
// a table cached from an earlier BuildSLR/BuildLALR run without re-running
// closure/goto over the grammar. The accept actions are already present in
// the cached action map, so the automaton's item sets are only carried for
// goto lookups.
func NewLRTableFromCache(g *grammar.Grammar, a *lr.Automaton, action map[[2]int]LRAction) *LRTable {
	return &LRTable{g: g, Automaton: a, action: action, kind: "cached"}
}

func (t *LRTable) set(state, symIdx int, action LRAction) error {
	key := [2]int{state, symIdx}
	if existing, ok := t.action[key]; ok && existing != action {
		kind := perr.ShiftReduce
		if existing.Type == LRReduce && action.Type == LRReduce {
			kind = perr.ReduceReduce
		}
		symName := t.symbolName(symIdx)
		return &perr.ConflictError{Kind: kind, Symbol: symName, State: itoa(state), Items: makeConflictItems(t.g, existing, action)}
	}
	t.action[key] = action
	return nil
}

func (t *LRTable) symbolName(symIdx int) string {
	if symIdx < t.g.NumTerminals() {
		return t.g.Terminals()[symIdx]
	}
	return t.g.Rule(symIdx - t.g.NumTerminals()).Name
}

// Action returns the action for (state, symbol-space index), or
// {Type: LRError} if there is none.
func (t *LRTable) Action(state, symIdx int) LRAction {
	if a, ok := t.action[[2]int{state, symIdx}]; ok {
		return a
	}
	return LRAction{Type: LRError}
}

// Goto returns the goto state for (state, symbol-space index), or -1.
func (t *LRTable) Goto(state, symIdx int) int {
	if j, ok := t.Automaton.States[state].Goto[symIdx]; ok {
		return j
	}
	return -1
}

// BuildSLR builds a single-entry SLR(1) table: shift actions straight from
// the LR0 automaton's goto function, reduce actions for a completed item
// [A -> gamma .] on every terminal in FOLLOW(A). sets is the FOLLOW
// computation over g itself; the automaton is built over the augmented form
// of g, whose appended start rule never reduces (its completed item is the
// accept condition) and never appears in any FOLLOW lookup.
func BuildSLR(g *grammar.Grammar, sets *grammar.Sets) (*LRTable, error) {
	ag := g.Augmented()
	a := lr.BuildLR0(ag)
	t := newLRTable(ag, a, "SLR")

	if err := fillShiftsAndAccepts(ag, a, t); err != nil {
		return nil, err
	}

	for i, st := range a.States {
		for _, it := range st.Items {
			if !it.AtEnd(ag) || it.Rule == ag.StartRule() {
				continue
			}
			for term := range sets.Follow[it.Rule] {
				if err := t.set(i, term, LRAction{Type: LRReduce, Rule: it.Rule, Prod: it.Prod}); err != nil {
					return nil, err
				}
			}
		}
	}

	return t, nil
}

// BuildLALR builds a single-entry LALR(1) table by computing the canonical
// LR1 collection and merging states that share the same LR0 core, unioning
// their lookaheads, rather than computing lookaheads via a separate lifted
// grammar.
func BuildLALR(g *grammar.Grammar, sets *grammar.Sets, endOfInput int) (*LRTable, error) {
	// The canonical collection is built over the augmented grammar; sets
	// computed over the original grammar remain valid against it because the
	// appended start rule appears in no production body. Everything below
	// (core keys, merged states, the table itself) speaks the augmented
	// grammar's rule space, which extends the original's unchanged.
	g = g.Augmented()
	lr1 := lr.BuildLR1(g, sets, endOfInput)

	coreKeyOf := func(items []lr.Item) string {
		keys := make(map[string]bool)
		for _, it := range items {
			c := it.Core()
			keys[itemCoreString(g, c)] = true
		}
		var all []string
		for k := range keys {
			all = append(all, k)
		}
		return joinSorted(all)
	}

	coreToMerged := map[string]int{}
	var mergedStates [][]lr.Item
	origToMerged := make([]int, len(lr1.States))

	for i, st := range lr1.States {
		ck := coreKeyOf(st.Items)
		m, ok := coreToMerged[ck]
		if !ok {
			m = len(mergedStates)
			coreToMerged[ck] = m
			mergedStates = append(mergedStates, nil)
		}
		mergedStates[m] = mergeItems(mergedStates[m], st.Items)
		origToMerged[i] = m
	}

	states := make([]lr.State, len(mergedStates))
	for m, items := range mergedStates {
		states[m] = lr.State{Items: items, Goto: map[int]int{}}
	}
	for i, st := range lr1.States {
		mi := origToMerged[i]
		for sym, j := range st.Goto {
			mj := origToMerged[j]
			states[mi].Goto[sym] = mj
		}
	}
	a := lr.NewAutomaton(g, states, origToMerged[lr1.Start])

	t := newLRTable(g, a, "LALR")
	if err := fillShiftsAndAccepts(g, a, t); err != nil {
		return nil, err
	}
	for i, st := range a.States {
		for _, it := range st.Items {
			if !it.AtEnd(g) || it.Rule == g.StartRule() {
				continue
			}
			if err := t.set(i, it.Lookahead, LRAction{Type: LRReduce, Rule: it.Rule, Prod: it.Prod}); err != nil {
				return nil, err
			}
		}
	}

	return t, nil
}

func itemCoreString(g *grammar.Grammar, it lr.Item) string {
	return sprintInts(it.Rule, it.Prod, it.DotPos, 0)
}

func mergeItems(existing, incoming []lr.Item) []lr.Item {
	seen := map[string]bool{}
	var out []lr.Item
	add := func(it lr.Item) {
		k := itemFullKey(it)
		if !seen[k] {
			seen[k] = true
			out = append(out, it)
		}
	}
	for _, it := range existing {
		add(it)
	}
	for _, it := range incoming {
		add(it)
	}
	return out
}

func itemFullKey(it lr.Item) string {
	return sprintInts(it.Rule, it.Prod, it.DotPos, it.Lookahead)
}

func sprintInts(a, b, c, d int) string {
	return itoa(a) + "." + itoa(b) + "." + itoa(c) + "." + itoa(d)
}

func itoa(n int) string {
	if n < 0 {
		return "-" + itoa(-n)
	}
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

func joinSorted(items []string) string {
	s := make([]string, len(items))
	copy(s, items)
	for i := 1; i < len(s); i++ {
		v := s[i]
		j := i - 1
		for j >= 0 && s[j] > v {
			s[j+1] = s[j]
			j--
		}
		s[j+1] = v
	}
	out := ""
	for _, k := range s {
		out += k + "|"
	}
	return out
}

func fillShiftsAndAccepts(g *grammar.Grammar, a *lr.Automaton, t *LRTable) error {
	accepts := a.AcceptStates()
	for i, st := range a.States {
		for symIdx, j := range st.Goto {
			if symIdx >= g.NumTerminals() {
				continue // nonterminal gotos live in Goto(), not Action()
			}
			if err := t.set(i, symIdx, LRAction{Type: LRShift, State: j}); err != nil {
				return err
			}
		}
		if accepts.Has(i) {
			// accept on end-of-input, modeled as the grammar's last
			// terminal slot by convention (callers building a
			// grammar for LR use append an explicit "$" terminal).
			endOfInput := g.NumTerminals() - 1
			if err := t.set(i, endOfInput, LRAction{Type: LRAccept}); err != nil {
				return err
			}
		}
	}
	return nil
}

// String renders the table via rosed.
func (t *LRTable) String() string {
	headers := []string{""}
	headers = append(headers, t.g.Terminals()...)
	for _, r := range t.g.Rules() {
		headers = append(headers, r.Name)
	}
	data := [][]string{headers}
	for i := range t.Automaton.States {
		row := []string{itoa(i)}
		for symIdx := 0; symIdx < t.g.SymbolSpace(); symIdx++ {
			if symIdx < t.g.NumTerminals() {
				row = append(row, t.Action(i, symIdx).String())
			} else {
				g := t.Goto(i, symIdx)
				if g < 0 {
					row = append(row, "")
				} else {
					row = append(row, itoa(g))
				}
			}
		}
		data = append(data, row)
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, 10, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}
