// Package grammar holds the immutable BNF Grammar type (terminals, rules,
// productions, start rule) and the FIRST/FOLLOW/nullable fixed-point
// computation over it.
package grammar

import "fmt"

// SymbolKind tags a Symbol as a terminal, nonterminal, or the distinguished
// epsilon symbol.
type SymbolKind int

const (
	Terminal SymbolKind = iota
	Nonterminal
	Epsilon
)

// Symbol is one element of a production's right-hand side.
type Symbol struct {
	Kind  SymbolKind
	Index int // index into Terminals() or Rules(), ignored for Epsilon
}

func (s Symbol) String() string {
	switch s.Kind {
	case Terminal:
		return fmt.Sprintf("term(%d)", s.Index)
	case Nonterminal:
		return fmt.Sprintf("rule(%d)", s.Index)
	default:
		return "epsilon"
	}
}

// Production is one right-hand side alternative of a rule.
type Production []Symbol

func (p Production) String() string {
	if len(p) == 0 {
		return "ε"
	}
	s := ""
	for i, sym := range p {
		if i > 0 {
			s += " "
		}
		s += sym.String()
	}
	return s
}

func (p Production) Equal(o Production) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// Rule is one left-hand-side nonterminal and its ordered productions.
type Rule struct {
	Name        string
	Productions []Production
}

// Grammar is an immutable BNF grammar: an ordered list of terminal names, an
// ordered list of rules, and a distinguished start rule index. Frozen after
// New returns.
type Grammar struct {
	terminals []string
	termIndex map[string]int
	rules     []Rule
	ruleIndex map[string]int
	startRule int
}

// New builds a frozen Grammar. Panics if startRule is out of range, which
// is a construction-time programmer error, not a user-input error.
func New(terminals []string, rules []Rule, startRule int) *Grammar {
	if startRule < 0 || startRule >= len(rules) {
		panic("grammar: start rule index out of range")
	}
	g := &Grammar{
		terminals: append([]string(nil), terminals...),
		rules:     append([]Rule(nil), rules...),
		startRule: startRule,
		termIndex: map[string]int{},
		ruleIndex: map[string]int{},
	}
	for i, t := range g.terminals {
		g.termIndex[t] = i
	}
	for i, r := range g.rules {
		g.ruleIndex[r.Name] = i
	}
	return g
}

func (g *Grammar) Terminals() []string { return g.terminals }
func (g *Grammar) Rules() []Rule       { return g.rules }
func (g *Grammar) Rule(i int) Rule     { return g.rules[i] }
func (g *Grammar) NumRules() int       { return len(g.rules) }
func (g *Grammar) NumTerminals() int   { return len(g.terminals) }
func (g *Grammar) StartRule() int      { return g.startRule }

// TerminalIndex returns the index of a terminal name, or -1.
func (g *Grammar) TerminalIndex(name string) int {
	if i, ok := g.termIndex[name]; ok {
		return i
	}
	return -1
}

// RuleIndex returns the index of a rule (nonterminal) name, or -1.
func (g *Grammar) RuleIndex(name string) int {
	if i, ok := g.ruleIndex[name]; ok {
		return i
	}
	return -1
}

// Augmented returns a copy of g with a fresh start rule S' -> S appended,
// where S is g's start rule. The LR table builders augment internally so a
// completed start-rule item exists to hang the accept action on, and so the
// final reduce of the original start rule fires like any other reduce. The
// fresh rule's name is the original start rule's name with enough trailing
// apostrophes to avoid a collision.
func (g *Grammar) Augmented() *Grammar {
	name := g.rules[g.startRule].Name + "'"
	for g.hasRule(name) {
		name += "'"
	}
	rules := append([]Rule(nil), g.rules...)
	rules = append(rules, Rule{
		Name:        name,
		Productions: []Production{{{Kind: Nonterminal, Index: g.startRule}}},
	})
	return New(g.terminals, rules, len(rules)-1)
}

func (g *Grammar) hasRule(name string) bool {
	_, ok := g.ruleIndex[name]
	return ok
}

// SymbolSpace is the contiguous [0, NumTerminals+NumRules) index space used
// by the LR core: terminals occupy [0, NumTerminals), rules occupy
// [NumTerminals, NumTerminals+NumRules).
func (g *Grammar) SymbolSpace() int { return len(g.terminals) + len(g.rules) }

// SymbolSpaceIndex maps a Symbol into the contiguous symbol space.
func (g *Grammar) SymbolSpaceIndex(s Symbol) int {
	if s.Kind == Terminal {
		return s.Index
	}
	return len(g.terminals) + s.Index
}
