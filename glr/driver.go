package glr

import (
	"github.com/zanderlang/zander/gss"
	"github.com/zanderlang/zander/parse"
	"github.com/zanderlang/zander/perr"
)

// TerminalDecorator and Reducer mirror the single-entry driver's callback
// shapes so definitions written against one entry mode port to the other
// without change.
type TerminalDecorator = parse.TerminalDecorator
type Reducer = parse.Reducer

// Session drives a parse against a Table, forking a GSS head per
// conflicting action and merging heads that converge on the same state.
type Session struct {
	table      *Table
	endOfInput int
	decorators map[int]TerminalDecorator
	reducers   map[int]Reducer
}

// NewSession builds a GLR parse session over the given table. endOfInput
// is the terminal index used for the end-of-input sentinel.
func NewSession(table *Table, endOfInput int) *Session {
	return &Session{
		table:      table,
		endOfInput: endOfInput,
		decorators: map[int]TerminalDecorator{},
		reducers:   map[int]Reducer{},
	}
}

func (s *Session) AddTerminalDecorator(term int, fn TerminalDecorator) { s.decorators[term] = fn }
func (s *Session) AddReducer(rule int, fn Reducer)                     { s.reducers[rule] = fn }

// Parse runs the Tomita-style GLR algorithm: at each input position, apply
// every pending reduce action across the active frontier to a fixed point
// (forking a new head per reduce path, since a cell may hold several
// actions and a merged stack may expose several paths), then apply every
// pending shift across the resulting frontier at once and advance the
// input. A head with no applicable action simply dies; parsing fails only
// when every head has died before reaching accept. Returns one decorated
// result per distinct successful derivation (more than one exactly when
// the grammar admitted more than one parse of the input).
func (s *Session) Parse(in parse.InputStream) ([]any, error) {
	root := gss.NewRoot(s.table.Automaton.Start)

	var results []any

	for {
		tok := in.Peek()

		s.reduceToFixedPoint(root, tok.TermIndex)

		if len(root.Heads()) == 0 {
			break
		}

		accepted := false
		for _, h := range root.Heads() {
			for _, a := range s.table.Actions(h.State, tok.TermIndex) {
				if a.Type == Accept {
					accepted = true
					results = append(results, h.Value)
				}
			}
		}
		if accepted {
			break
		}

		var decorated any
		if dec, ok := s.decorators[tok.TermIndex]; ok {
			decorated = dec(tok.TermIndex, tok.Lexeme)
		} else {
			decorated = tok.Lexeme
		}

		// Group this round's shifts by target state: heads shifting to the
		// same state merge into one new node with shared predecessors, and
		// heads with no shift die with the old frontier.
		var entries []gss.ShiftEntry
		entryIndex := map[int]int{}
		for _, h := range root.Heads() {
			for _, a := range s.table.Actions(h.State, tok.TermIndex) {
				if a.Type != Shift {
					continue
				}
				i, ok := entryIndex[a.State]
				if !ok {
					i = len(entries)
					entryIndex[a.State] = i
					entries = append(entries, gss.ShiftEntry{State: a.State})
				}
				entries[i].Preds = append(entries[i].Preds, h)
			}
		}

		if len(entries) == 0 {
			break
		}

		root.ShiftAll(entries, decorated)
		in.Next()
	}

	if len(results) == 0 {
		return nil, &perr.ParseError{Message: "no successful GLR derivation of input"}
	}
	return results, nil
}

// reduceToFixedPoint applies reduce actions across the live frontier until
// no head has one left to apply for the current lookahead. Each (head,
// rule, production) triple fires at most once - heads created by a reduce
// get fresh IDs and take their own turn on the next sweep - so the loop
// terminates for any grammar without a nullable derivation cycle.
func (s *Session) reduceToFixedPoint(root *gss.Root, lookahead int) {
	done := map[[3]int]bool{}

	for {
		progressed := false

		for _, h := range root.Heads() {
			for _, a := range s.table.Actions(h.State, lookahead) {
				if a.Type != Reduce {
					continue
				}
				key := [3]int{h.ID, a.Rule, a.Prod}
				if done[key] {
					continue
				}
				done[key] = true

				rhsLen := s.rhsLen(a.Rule, a.Prod)
				gotoSym := s.gotoSymbolSpace(a.Rule)

				for _, p := range gss.FindHandlePaths(h, rhsLen) {
					gotoState := s.table.Goto(p.Exposed.State, gotoSym)
					if gotoState < 0 {
						continue
					}
					var reduced any
					if r, ok := s.reducers[a.Rule]; ok {
						reduced = r(a.Rule, p.Values)
					}
					root.PushFrom(p.Exposed, gotoState, reduced)
					progressed = true
				}
			}
		}

		if !progressed {
			return
		}
	}
}

func (s *Session) rhsLen(rule, prod int) int {
	return parse.NonEpsilonLen(s.table.g.Rule(rule).Productions[prod])
}

func (s *Session) gotoSymbolSpace(rule int) int {
	return s.table.g.NumTerminals() + rule
}
