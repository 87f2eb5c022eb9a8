// Package parse builds and drives the single-entry parse tables: predictive
// LL(1), and shift/reduce SLR(1)/LALR(1) over the lr package's canonical
// collection.
package parse

import (
	"github.com/dekarrin/rosed"
	"github.com/zanderlang/zander/grammar"
	"github.com/zanderlang/zander/perr"
)

// LL1Table is `rule x terminal -> production index`, -1 meaning no entry.
type LL1Table struct {
	g     *grammar.Grammar
	cells map[[2]int]int
}

// BuildLL1 builds the LL(1) prediction table: for each production, its
// predict set is FIRST of its leading symbol (plus FOLLOW of the rule when
// that symbol is nullable or the production is empty). A second write to a
// nonempty cell is a conflict and fails construction.
func BuildLL1(g *grammar.Grammar, sets *grammar.Sets) (*LL1Table, error) {
	t := &LL1Table{g: g, cells: map[[2]int]int{}}

	set := func(rule, term, prod int) error {
		key := [2]int{rule, term}
		if existing, ok := t.cells[key]; ok && existing != prod {
			return &perr.ConflictError{
				Kind:   perr.LL1Conflict,
				Symbol: g.Terminals()[term],
				State:  g.Rule(rule).Name,
				Items:  []string{g.Rule(rule).Productions[existing].String(), g.Rule(rule).Productions[prod].String()},
			}
		}
		t.cells[key] = prod
		return nil
	}

	for ruleIdx, rule := range g.Rules() {
		for prodIdx, rhs := range rule.Productions {
			if len(rhs) == 0 {
				for term := range sets.Follow[ruleIdx] {
					if err := set(ruleIdx, term, prodIdx); err != nil {
						return nil, err
					}
				}
				continue
			}

			first := rhs[0]
			switch first.Kind {
			case grammar.Terminal:
				if err := set(ruleIdx, first.Index, prodIdx); err != nil {
					return nil, err
				}
			case grammar.Epsilon:
				for term := range sets.Follow[ruleIdx] {
					if err := set(ruleIdx, term, prodIdx); err != nil {
						return nil, err
					}
				}
			case grammar.Nonterminal:
				for term := range sets.First[first.Index] {
					if err := set(ruleIdx, term, prodIdx); err != nil {
						return nil, err
					}
				}
				if sets.Nullable.Has(first.Index) {
					for term := range sets.Follow[ruleIdx] {
						if err := set(ruleIdx, term, prodIdx); err != nil {
							return nil, err
						}
					}
				}
			}
		}
	}

	return t, nil
}

// Get returns the production index to predict for (rule, terminal), or -1.
func (t *LL1Table) Get(rule, terminal int) int {
	if p, ok := t.cells[[2]int{rule, terminal}]; ok {
		return p
	}
	return -1
}

// String renders the table via rosed, headers = terminal names, rows =
// rule names.
func (t *LL1Table) String() string {
	headers := append([]string{""}, t.g.Terminals()...)
	data := [][]string{headers}
	for ruleIdx, rule := range t.g.Rules() {
		row := []string{rule.Name}
		for termIdx := range t.g.Terminals() {
			p := t.Get(ruleIdx, termIdx)
			if p < 0 {
				row = append(row, "")
			} else {
				row = append(row, rule.Productions[p].String())
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

// PredictionKind tags an entry on the LL(1) driver's prediction stack.
type PredictionKind int

const (
	PredTerminal PredictionKind = iota
	PredNonterminal
	PredReduce
)

// PredictionItem is one entry of the LL(1) driver's explicit prediction
// stack.
type PredictionItem struct {
	Kind      PredictionKind
	TermIndex int // valid for PredTerminal
	RuleIndex int // valid for PredNonterminal, PredReduce
	ParseMark int // valid for PredReduce: the parse-stack depth to reduce from
}

// TerminalDecorator converts a matched terminal into a decorated parse
// value.
type TerminalDecorator func(termIndex int, lexeme string) any

// Reducer consumes the decorated parse values produced for one production's
// symbols (in order) and returns the decorated value for the reduced
// nonterminal.
type Reducer func(ruleIndex int, children []any) any

// MatchListener is notified as each terminal is matched, named by owning
// rule and position, to let callers reconfigure the tokenizer mid-parse.
type MatchListener func(ownerRule, pos int)

// LL1Session drives one parse against an LL1Table.
type LL1Session struct {
	g          *grammar.Grammar
	table      *LL1Table
	decorators map[int]TerminalDecorator
	reducers   map[int]Reducer
	listeners  map[int]MatchListener
}

// NewLL1Session builds a parse session over the given table.
func NewLL1Session(g *grammar.Grammar, table *LL1Table) *LL1Session {
	return &LL1Session{
		g:          g,
		table:      table,
		decorators: map[int]TerminalDecorator{},
		reducers:   map[int]Reducer{},
		listeners:  map[int]MatchListener{},
	}
}

func (s *LL1Session) AddTerminalDecorator(term int, fn TerminalDecorator) { s.decorators[term] = fn }
func (s *LL1Session) AddReducer(rule int, fn Reducer)                     { s.reducers[rule] = fn }
func (s *LL1Session) AddMatchListener(rule int, fn MatchListener)         { s.listeners[rule] = fn }

// InputToken is the minimal view of a lexed token the driver needs.
type InputToken struct {
	TermIndex int
	Lexeme    string
}

// InputStream supplies tokens to a parse session, terminal-index-first.
type InputStream interface {
	Peek() InputToken
	Next() InputToken
}

// Parse runs the predictive LL(1) driver: an explicit prediction
// stack of {Terminal, Nonterminal, Reduce} items drives a parallel parse
// stack of decorated values. Returns the decorated root value, or an error
// if the lookahead has no applicable table entry or a terminal fails to
// match.
func (s *LL1Session) Parse(in InputStream) (any, error) {
	var predStack []PredictionItem
	var parseStack []any

	predStack = append(predStack, PredictionItem{Kind: PredNonterminal, RuleIndex: s.g.StartRule()})

	pos := 0

	for len(predStack) > 0 {
		top := predStack[len(predStack)-1]
		predStack = predStack[:len(predStack)-1]

		switch top.Kind {
		case PredTerminal:
			tok := in.Peek()
			if tok.TermIndex != top.TermIndex {
				return nil, &perr.ParseError{Pos: pos, Message: "unexpected token: expected terminal " + s.g.Terminals()[top.TermIndex]}
			}
			in.Next()
			var decorated any
			if dec, ok := s.decorators[top.TermIndex]; ok {
				decorated = dec(tok.TermIndex, tok.Lexeme)
			} else {
				decorated = tok.Lexeme
			}
			parseStack = append(parseStack, decorated)
			if l, ok := s.listeners[top.RuleIndex]; ok {
				l(top.RuleIndex, pos)
			}
			pos++

		case PredNonterminal:
			tok := in.Peek()
			prod := s.table.Get(top.RuleIndex, tok.TermIndex)
			if prod < 0 {
				return nil, &perr.ParseError{Pos: pos, Message: "no LL(1) production for rule " + s.g.Rule(top.RuleIndex).Name + " on lookahead " + s.g.Terminals()[safeIdx(tok.TermIndex, len(s.g.Terminals()))]}
			}
			rhs := s.g.Rule(top.RuleIndex).Productions[prod]

			if _, ok := s.reducers[top.RuleIndex]; ok {
				predStack = append(predStack, PredictionItem{Kind: PredReduce, RuleIndex: top.RuleIndex, ParseMark: len(parseStack)})
			}

			for i := len(rhs) - 1; i >= 0; i-- {
				sym := rhs[i]
				switch sym.Kind {
				case grammar.Terminal:
					predStack = append(predStack, PredictionItem{Kind: PredTerminal, TermIndex: sym.Index, RuleIndex: top.RuleIndex})
				case grammar.Nonterminal:
					predStack = append(predStack, PredictionItem{Kind: PredNonterminal, RuleIndex: sym.Index})
				}
			}

		case PredReduce:
			mark := top.ParseMark
			children := append([]any(nil), parseStack[mark:]...)
			parseStack = parseStack[:mark]
			var reduced any
			if r, ok := s.reducers[top.RuleIndex]; ok {
				reduced = r(top.RuleIndex, children)
			}
			parseStack = append(parseStack, reduced)
		}
	}

	if len(parseStack) != 1 {
		return nil, &perr.ParseError{Pos: pos, Message: "parse did not reduce to a single result"}
	}
	return parseStack[0], nil
}

func safeIdx(i, n int) int {
	if i < 0 || i >= n {
		return 0
	}
	return i
}
