// Package persist caches a compiled grammar.Grammar and its LALR(1) parse
// table to a flat []byte via github.com/dekarrin/rezi, so a CLI invocation
// can skip re-running the table builders against an unchanged grammar file.
//
// The snapshot types hold only the primary data a rebuild needs (terminal
// names, rules, states, flattened action cells); a Grammar or LRTable can't
// be encoded as-is since their bookkeeping fields (lookup maps, computed
// indices) are unexported and derived, not primary. Each snapshot type
// implements encoding.BinaryMarshaler/BinaryUnmarshaler out of rezi's
// primitive encoders, field by field in declaration order.
package persist

import (
	"fmt"

	"github.com/dekarrin/rezi"
	"github.com/zanderlang/zander/grammar"
	"github.com/zanderlang/zander/lr"
	"github.com/zanderlang/zander/parse"
)

// symbolSnap is the wire form of a grammar.Symbol.
type symbolSnap struct {
	Kind  int
	Index int
}

func (s symbolSnap) MarshalBinary() ([]byte, error) {
	data := rezi.EncInt(s.Kind)
	data = append(data, rezi.EncInt(s.Index)...)
	return data, nil
}

func (s *symbolSnap) UnmarshalBinary(data []byte) error {
	var err error
	var n int

	s.Kind, n, err = rezi.DecInt(data)
	if err != nil {
		return err
	}
	data = data[n:]

	s.Index, _, err = rezi.DecInt(data)
	return err
}

func snapSymbol(s grammar.Symbol) symbolSnap { return symbolSnap{Kind: int(s.Kind), Index: s.Index} }

func (s symbolSnap) toSymbol() grammar.Symbol {
	return grammar.Symbol{Kind: grammar.SymbolKind(s.Kind), Index: s.Index}
}

// ruleSnap is the wire form of a grammar.Rule.
type ruleSnap struct {
	Name        string
	Productions [][]symbolSnap
}

func (r ruleSnap) MarshalBinary() ([]byte, error) {
	data := rezi.EncString(r.Name)
	data = append(data, rezi.EncInt(len(r.Productions))...)
	for _, prod := range r.Productions {
		data = append(data, rezi.EncInt(len(prod))...)
		for _, sym := range prod {
			data = append(data, rezi.EncBinary(sym)...)
		}
	}
	return data, nil
}

func (r *ruleSnap) UnmarshalBinary(data []byte) error {
	var err error
	var n int

	r.Name, n, err = rezi.DecString(data)
	if err != nil {
		return err
	}
	data = data[n:]

	var prodCount int
	prodCount, n, err = rezi.DecInt(data)
	if err != nil {
		return err
	}
	data = data[n:]

	r.Productions = make([][]symbolSnap, prodCount)
	for i := 0; i < prodCount; i++ {
		var symCount int
		symCount, n, err = rezi.DecInt(data)
		if err != nil {
			return err
		}
		data = data[n:]

		prod := make([]symbolSnap, symCount)
		for j := 0; j < symCount; j++ {
			n, err = rezi.DecBinary(data, &prod[j])
			if err != nil {
				return err
			}
			data = data[n:]
		}
		r.Productions[i] = prod
	}
	return nil
}

// GrammarSnapshot is the rezi-encodable form of a grammar.Grammar: its three
// pieces of primary data (terminal names, rules, start-rule index), with
// none of Grammar's derived lookup maps, which are rebuilt by grammar.New on
// load.
type GrammarSnapshot struct {
	Terminals []string
	Rules     []ruleSnap
	StartRule int
}

func (s GrammarSnapshot) MarshalBinary() ([]byte, error) {
	data := rezi.EncInt(len(s.Terminals))
	for _, t := range s.Terminals {
		data = append(data, rezi.EncString(t)...)
	}
	data = append(data, rezi.EncInt(len(s.Rules))...)
	for _, r := range s.Rules {
		data = append(data, rezi.EncBinary(r)...)
	}
	data = append(data, rezi.EncInt(s.StartRule)...)
	return data, nil
}

func (s *GrammarSnapshot) UnmarshalBinary(data []byte) error {
	var err error
	var n int

	var termCount int
	termCount, n, err = rezi.DecInt(data)
	if err != nil {
		return err
	}
	data = data[n:]

	s.Terminals = make([]string, termCount)
	for i := 0; i < termCount; i++ {
		s.Terminals[i], n, err = rezi.DecString(data)
		if err != nil {
			return err
		}
		data = data[n:]
	}

	var ruleCount int
	ruleCount, n, err = rezi.DecInt(data)
	if err != nil {
		return err
	}
	data = data[n:]

	s.Rules = make([]ruleSnap, ruleCount)
	for i := 0; i < ruleCount; i++ {
		n, err = rezi.DecBinary(data, &s.Rules[i])
		if err != nil {
			return err
		}
		data = data[n:]
	}

	s.StartRule, _, err = rezi.DecInt(data)
	return err
}

// SnapshotGrammar captures g's constructor inputs for encoding.
func SnapshotGrammar(g *grammar.Grammar) GrammarSnapshot {
	snap := GrammarSnapshot{
		Terminals: append([]string(nil), g.Terminals()...),
		StartRule: g.StartRule(),
	}
	for _, r := range g.Rules() {
		rs := ruleSnap{Name: r.Name, Productions: make([][]symbolSnap, len(r.Productions))}
		for i, prod := range r.Productions {
			ss := make([]symbolSnap, len(prod))
			for j, sym := range prod {
				ss[j] = snapSymbol(sym)
			}
			rs.Productions[i] = ss
		}
		snap.Rules = append(snap.Rules, rs)
	}
	return snap
}

// Grammar rebuilds the grammar.Grammar the snapshot was taken from.
func (s GrammarSnapshot) Grammar() *grammar.Grammar {
	rules := make([]grammar.Rule, len(s.Rules))
	for i, rs := range s.Rules {
		prods := make([]grammar.Production, len(rs.Productions))
		for j, ss := range rs.Productions {
			prod := make(grammar.Production, len(ss))
			for k, sym := range ss {
				prod[k] = sym.toSymbol()
			}
			prods[j] = prod
		}
		rules[i] = grammar.Rule{Name: rs.Name, Productions: prods}
	}
	return grammar.New(s.Terminals, rules, s.StartRule)
}

// itemSnap is the wire form of an lr.Item.
type itemSnap struct {
	Rule, Prod, DotPos, Lookahead int
}

func (s itemSnap) MarshalBinary() ([]byte, error) {
	data := rezi.EncInt(s.Rule)
	data = append(data, rezi.EncInt(s.Prod)...)
	data = append(data, rezi.EncInt(s.DotPos)...)
	data = append(data, rezi.EncInt(s.Lookahead)...)
	return data, nil
}

func (s *itemSnap) UnmarshalBinary(data []byte) error {
	for _, field := range []*int{&s.Rule, &s.Prod, &s.DotPos, &s.Lookahead} {
		v, n, err := rezi.DecInt(data)
		if err != nil {
			return err
		}
		*field = v
		data = data[n:]
	}
	return nil
}

func snapItem(it lr.Item) itemSnap {
	return itemSnap{Rule: it.Rule, Prod: it.Prod, DotPos: it.DotPos, Lookahead: it.Lookahead}
}

func (s itemSnap) toItem() lr.Item {
	return lr.Item{Rule: s.Rule, Prod: s.Prod, DotPos: s.DotPos, Lookahead: s.Lookahead}
}

// stateSnap is one automaton state: its items plus its goto edges, flattened
// to (symbol, state) pairs since State.Goto is map-shaped.
type stateSnap struct {
	Items []itemSnap
	Goto  [][2]int
}

func (s stateSnap) MarshalBinary() ([]byte, error) {
	data := rezi.EncInt(len(s.Items))
	for _, it := range s.Items {
		data = append(data, rezi.EncBinary(it)...)
	}
	data = append(data, rezi.EncInt(len(s.Goto))...)
	for _, ge := range s.Goto {
		data = append(data, rezi.EncInt(ge[0])...)
		data = append(data, rezi.EncInt(ge[1])...)
	}
	return data, nil
}

func (s *stateSnap) UnmarshalBinary(data []byte) error {
	var err error
	var n int

	var itemCount int
	itemCount, n, err = rezi.DecInt(data)
	if err != nil {
		return err
	}
	data = data[n:]

	s.Items = make([]itemSnap, itemCount)
	for i := 0; i < itemCount; i++ {
		n, err = rezi.DecBinary(data, &s.Items[i])
		if err != nil {
			return err
		}
		data = data[n:]
	}

	var gotoCount int
	gotoCount, n, err = rezi.DecInt(data)
	if err != nil {
		return err
	}
	data = data[n:]

	s.Goto = make([][2]int, gotoCount)
	for i := 0; i < gotoCount; i++ {
		for j := 0; j < 2; j++ {
			s.Goto[i][j], n, err = rezi.DecInt(data)
			if err != nil {
				return err
			}
			data = data[n:]
		}
	}
	return nil
}

// actionCellSnap is one nonempty action-table cell.
type actionCellSnap struct {
	State, Symbol          int
	Type, Next, Rule, Prod int
}

func (s actionCellSnap) MarshalBinary() ([]byte, error) {
	var data []byte
	for _, v := range []int{s.State, s.Symbol, s.Type, s.Next, s.Rule, s.Prod} {
		data = append(data, rezi.EncInt(v)...)
	}
	return data, nil
}

func (s *actionCellSnap) UnmarshalBinary(data []byte) error {
	for _, field := range []*int{&s.State, &s.Symbol, &s.Type, &s.Next, &s.Rule, &s.Prod} {
		v, n, err := rezi.DecInt(data)
		if err != nil {
			return err
		}
		*field = v
		data = data[n:]
	}
	return nil
}

// TableSnapshot is the rezi-encodable form of a built LALR(1) or SLR(1)
// table: the grammar it was built from, the canonical collection's states
// and gotos, and the flattened action table.
type TableSnapshot struct {
	Grammar    GrammarSnapshot
	AutoStart  int
	States     []stateSnap
	Actions    []actionCellSnap
	EndOfInput int
}

func (s TableSnapshot) MarshalBinary() ([]byte, error) {
	data := rezi.EncBinary(s.Grammar)
	data = append(data, rezi.EncInt(s.AutoStart)...)
	data = append(data, rezi.EncInt(len(s.States))...)
	for _, st := range s.States {
		data = append(data, rezi.EncBinary(st)...)
	}
	data = append(data, rezi.EncInt(len(s.Actions))...)
	for _, a := range s.Actions {
		data = append(data, rezi.EncBinary(a)...)
	}
	data = append(data, rezi.EncInt(s.EndOfInput)...)
	return data, nil
}

func (s *TableSnapshot) UnmarshalBinary(data []byte) error {
	var err error
	var n int

	n, err = rezi.DecBinary(data, &s.Grammar)
	if err != nil {
		return err
	}
	data = data[n:]

	s.AutoStart, n, err = rezi.DecInt(data)
	if err != nil {
		return err
	}
	data = data[n:]

	var stateCount int
	stateCount, n, err = rezi.DecInt(data)
	if err != nil {
		return err
	}
	data = data[n:]

	s.States = make([]stateSnap, stateCount)
	for i := 0; i < stateCount; i++ {
		n, err = rezi.DecBinary(data, &s.States[i])
		if err != nil {
			return err
		}
		data = data[n:]
	}

	var actionCount int
	actionCount, n, err = rezi.DecInt(data)
	if err != nil {
		return err
	}
	data = data[n:]

	s.Actions = make([]actionCellSnap, actionCount)
	for i := 0; i < actionCount; i++ {
		n, err = rezi.DecBinary(data, &s.Actions[i])
		if err != nil {
			return err
		}
		data = data[n:]
	}

	s.EndOfInput, _, err = rezi.DecInt(data)
	return err
}

// SnapshotTable captures an LALR(1) (or SLR(1)) table for caching.
// endOfInput is the terminal index the table builder reserved for the
// end-of-input sentinel (see parse.BuildLALR/parse.BuildSLR). g is the
// grammar the table was built from (its pre-augmentation form, the one the
// caller's reducers are registered against).
func SnapshotTable(g *grammar.Grammar, t *parse.LRTable, endOfInput int) TableSnapshot {
	snap := TableSnapshot{Grammar: SnapshotGrammar(g), AutoStart: t.Automaton.Start, EndOfInput: endOfInput}
	for _, st := range t.Automaton.States {
		ss := stateSnap{}
		for _, it := range st.Items {
			ss.Items = append(ss.Items, snapItem(it))
		}
		for sym, next := range st.Goto {
			ss.Goto = append(ss.Goto, [2]int{sym, next})
		}
		snap.States = append(snap.States, ss)
	}
	// action cells only ever sit on terminal columns (shifts, reduces and
	// the accept all key on a lookahead terminal; nonterminal transitions
	// live in the goto edges captured above).
	for state := range t.Automaton.States {
		for sym := 0; sym < g.NumTerminals(); sym++ {
			a := t.Action(state, sym)
			if a.Type == parse.LRError {
				continue
			}
			snap.Actions = append(snap.Actions, actionCellSnap{
				State: state, Symbol: sym,
				Type: int(a.Type), Next: a.State, Rule: a.Rule, Prod: a.Prod,
			})
		}
	}
	return snap
}

// Table rebuilds the grammar and an LRTable-compatible view from the
// snapshot. The returned table supports Action/Goto exactly as one freshly
// built by parse.BuildLALR, without re-running closure/goto.
func (s TableSnapshot) Table() (*grammar.Grammar, *parse.LRTable) {
	g := s.Grammar.Grammar()
	// re-augmenting the snapshot grammar reproduces the rule space the
	// builders worked in, so the cached items and actions index into it
	// exactly as they did at build time.
	ag := g.Augmented()

	states := make([]lr.State, 0, len(s.States))
	for _, ss := range s.States {
		st := lr.State{Goto: map[int]int{}}
		for _, it := range ss.Items {
			st.Items = append(st.Items, it.toItem())
		}
		for _, ge := range ss.Goto {
			st.Goto[ge[0]] = ge[1]
		}
		states = append(states, st)
	}
	a := lr.NewAutomaton(ag, states, s.AutoStart)

	cells := make(map[[2]int]parse.LRAction, len(s.Actions))
	for _, c := range s.Actions {
		cells[[2]int{c.State, c.Symbol}] = parse.LRAction{
			Type: parse.LRActionType(c.Type), State: c.Next, Rule: c.Rule, Prod: c.Prod,
		}
	}
	return g, parse.NewLRTableFromCache(ag, a, cells)
}

// EncodeTable renders a TableSnapshot to bytes via rezi.
func EncodeTable(s TableSnapshot) []byte {
	return rezi.EncBinary(s)
}

// DecodeTable parses bytes previously produced by EncodeTable.
func DecodeTable(data []byte) (TableSnapshot, error) {
	var s TableSnapshot
	if _, err := rezi.DecBinary(data, &s); err != nil {
		return TableSnapshot{}, fmt.Errorf("persist: decode table: %w", err)
	}
	return s, nil
}

// EncodeGrammar renders a GrammarSnapshot to bytes via rezi.
func EncodeGrammar(s GrammarSnapshot) []byte {
	return rezi.EncBinary(s)
}

// DecodeGrammar parses bytes previously produced by EncodeGrammar.
func DecodeGrammar(data []byte) (GrammarSnapshot, error) {
	var s GrammarSnapshot
	if _, err := rezi.DecBinary(data, &s); err != nil {
		return GrammarSnapshot{}, fmt.Errorf("persist: decode grammar: %w", err)
	}
	return s, nil
}
