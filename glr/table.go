// Package glr builds the multi-entry GLR(1) table and drives it over a
// graph-structured stack, tolerating shift/reduce and reduce/reduce
// conflicts by forking a parallel head per action instead of rejecting the
// grammar at table-build time. Its session callbacks (terminal decorators
// and per-rule reducers) match the single-entry drivers in package parse,
// so the same definitions work in either mode; the difference is that a
// GLR parse returns one result per surviving derivation.
package glr

import (
	"strconv"
	"strings"

	"github.com/dekarrin/rosed"
	"github.com/zanderlang/zander/grammar"
	"github.com/zanderlang/zander/lr"
)

// ActionType tags one GLR table action.
type ActionType int

const (
	Shift ActionType = iota
	Reduce
	Accept
)

// Action is one applicable action in a (possibly multi-valued) table cell.
type Action struct {
	Type  ActionType
	State int // valid for Shift: state to shift to
	Rule  int // valid for Reduce: rule to reduce
	Prod  int // valid for Reduce: production within Rule
}

// Table is the GLR(1) action table: unlike parse.LRTable, a cell may hold
// more than one action, recording every shift/reduce and reduce/reduce
// conflict the canonical LR1 collection contains rather than failing on
// them.
type Table struct {
	g         *grammar.Grammar
	Automaton *lr.Automaton
	cells     map[[2]int][]Action
}

// Build constructs the canonical LR1 collection (no core-merging, unlike
// LALR: GLR needs the full per-lookahead split so fork points line up with
// genuine grammar ambiguity) and fills shift/reduce/accept actions,
// allowing multiple actions per cell. Like the single-entry builders, the
// collection is built over the augmented form of g; sets computed over g
// itself remain valid since the appended start rule appears in no
// production body.
func Build(g *grammar.Grammar, sets *grammar.Sets, endOfInput int) *Table {
	g = g.Augmented()
	a := lr.BuildLR1(g, sets, endOfInput)
	t := &Table{g: g, Automaton: a, cells: map[[2]int][]Action{}}

	accepts := a.AcceptStates()
	for i, st := range a.States {
		for symIdx, j := range st.Goto {
			if symIdx >= g.NumTerminals() {
				continue
			}
			t.add(i, symIdx, Action{Type: Shift, State: j})
		}
		if accepts.Has(i) {
			t.add(i, endOfInput, Action{Type: Accept})
		}
	}

	for i, st := range a.States {
		for _, it := range st.Items {
			if !it.AtEnd(g) || it.Rule == g.StartRule() {
				continue
			}
			t.add(i, it.Lookahead, Action{Type: Reduce, Rule: it.Rule, Prod: it.Prod})
		}
	}

	return t
}

func (t *Table) add(state, symIdx int, a Action) {
	key := [2]int{state, symIdx}
	for _, existing := range t.cells[key] {
		if existing == a {
			return
		}
	}
	t.cells[key] = append(t.cells[key], a)
}

// Actions returns every applicable action for (state, terminal index), nil
// if none apply.
func (t *Table) Actions(state, termIdx int) []Action {
	return t.cells[[2]int{state, termIdx}]
}

// Goto returns the goto state for (state, symbol-space index), or -1.
func (t *Table) Goto(state, symIdx int) int {
	if j, ok := t.Automaton.States[state].Goto[symIdx]; ok {
		return j
	}
	return -1
}

func (a Action) String() string {
	switch a.Type {
	case Shift:
		return "s" + strconv.Itoa(a.State)
	case Reduce:
		return "r" + strconv.Itoa(a.Rule)
	case Accept:
		return "acc"
	default:
		return ""
	}
}

// String renders the table via rosed; a multi-action cell joins its actions
// with "/".
func (t *Table) String() string {
	headers := []string{""}
	headers = append(headers, t.g.Terminals()...)
	for _, r := range t.g.Rules() {
		headers = append(headers, r.Name)
	}
	data := [][]string{headers}
	for i := range t.Automaton.States {
		row := []string{strconv.Itoa(i)}
		for symIdx := 0; symIdx < t.g.SymbolSpace(); symIdx++ {
			if symIdx < t.g.NumTerminals() {
				var parts []string
				for _, a := range t.Actions(i, symIdx) {
					parts = append(parts, a.String())
				}
				row = append(row, strings.Join(parts, "/"))
			} else {
				j := t.Goto(i, symIdx)
				if j < 0 {
					row = append(row, "")
				} else {
					row = append(row, strconv.Itoa(j))
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

// Grammar returns the (augmented) grammar the table was built over.
func (t *Table) Grammar() *grammar.Grammar { return t.g }

// HasConflicts reports whether any cell holds more than one action, i.e.
// whether this grammar is genuinely ambiguous under the canonical
// collection rather than just ineligible for LALR merging.
func (t *Table) HasConflicts() bool {
	for _, actions := range t.cells {
		if len(actions) > 1 {
			return true
		}
	}
	return false
}
