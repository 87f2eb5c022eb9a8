// Package ebnf normalizes an EBNF grammar (sequence / alternation / `?` /
// `*` / `+`, nested arbitrarily) into a plain BNF grammar.Grammar by
// introducing fresh nonterminals with deterministic, collision-free names.
//
// `+` is expanded into two helper rules rather than inlined self-recursion:
// a fresh rule N holds the original body followed by a second fresh rule
// N', and N' mirrors N's bodies with an appended epsilon alternative.
package ebnf

import (
	"fmt"

	"github.com/zanderlang/zander/grammar"
)

// NodeKind tags a Node variant.
type NodeKind int

const (
	Symbol NodeKind = iota
	Sequence
	Alt
	ZeroOrOne
	ZeroOrMore
	OneOrMore
)

// SymbolKind distinguishes a Symbol node's referent.
type SymbolKind int

const (
	SymTerminal SymbolKind = iota
	SymNonterminal
	SymEpsilon
)

// Node is one EBNF right-hand-side node.
type Node struct {
	Kind     NodeKind
	SymKind  SymbolKind // valid when Kind == Symbol
	Index    int        // valid when Kind == Symbol and SymKind != SymEpsilon
	Children []*Node    // valid for Sequence, Alt
	Child    *Node      // valid for ZeroOrOne, ZeroOrMore, OneOrMore
}

// Rule is one EBNF rule: a name and a single top-level rhs node (an Alt
// node at top level represents multiple alternatives).
type Rule struct {
	Name string
	RHS  *Node
}

type builder struct {
	terminals []string
	rules     []grammar.Rule
	names     map[string]bool
}

// Normalize compiles EBNF rules into a BNF grammar.Grammar. startRule
// indexes into rules.
func Normalize(terminals []string, rules []Rule, startRule int) *grammar.Grammar {
	b := &builder{
		terminals: terminals,
		names:     map[string]bool{},
	}
	for _, r := range rules {
		b.names[r.Name] = true
	}

	b.rules = make([]grammar.Rule, len(rules))
	for i, r := range rules {
		b.rules[i] = grammar.Rule{Name: r.Name}
	}

	for i, r := range rules {
		b.populateRule(i, r.RHS)
	}

	return grammar.New(b.terminals, b.rules, startRule)
}

// freshName returns the lowest-numbered unused "<base>@n" name.
func (b *builder) freshName(base string) string {
	n := 1
	for {
		name := fmt.Sprintf("%s@%d", base, n)
		if !b.names[name] {
			b.names[name] = true
			return name
		}
		n++
	}
}

func (b *builder) addRule(name string) int {
	idx := len(b.rules)
	b.rules = append(b.rules, grammar.Rule{Name: name})
	return idx
}

// populateRule fills rules[index]'s productions from rhs. An outer Alt
// becomes multiple alternatives of the same rule; anything else becomes a
// single alternative.
func (b *builder) populateRule(index int, rhs *Node) {
	if rhs.Kind == Alt {
		for _, child := range rhs.Children {
			prod := b.populateProduction(child, b.rules[index].Name)
			b.rules[index].Productions = append(b.rules[index].Productions, prod)
		}
		return
	}
	prod := b.populateProduction(rhs, b.rules[index].Name)
	b.rules[index].Productions = append(b.rules[index].Productions, prod)
}

// populateProduction flattens a Sequence into a single production,
// otherwise wraps a single node as a one-symbol production. A bare epsilon
// node (standalone, not part of a larger Sequence) becomes the empty
// production rather than a one-symbol production holding Epsilon: an LR
// item's dot only ever advances past a real terminal/nonterminal goto, so a
// production containing nothing but Epsilon must already read as "dot at
// end" the moment it's introduced, which only the empty-slice form gives it
// (see grammar.Sets and lr.Item.AtEnd, both of which treat a zero-length
// production as the nullable/complete case).
func (b *builder) populateProduction(node *Node, ruleName string) grammar.Production {
	if node.Kind == Sequence {
		var prod grammar.Production
		for _, c := range node.Children {
			if c.Kind == Symbol && c.SymKind == SymEpsilon {
				// epsilon inside a longer sequence contributes nothing;
				// dropping it here keeps every production free of literal
				// Epsilon symbols, which the dot of an LR item could never
				// advance past.
				continue
			}
			prod = append(prod, b.populateSymbol(c, ruleName))
		}
		return prod
	}
	if node.Kind == Symbol && node.SymKind == SymEpsilon {
		return grammar.Production{}
	}
	return grammar.Production{b.populateSymbol(node, ruleName)}
}

// populateSymbol converts node into a single grammar.Symbol, introducing
// fresh helper rules for quantifiers and inner alternations.
func (b *builder) populateSymbol(node *Node, ruleName string) grammar.Symbol {
	switch node.Kind {
	case Symbol:
		switch node.SymKind {
		case SymTerminal:
			return grammar.Symbol{Kind: grammar.Terminal, Index: node.Index}
		case SymNonterminal:
			return grammar.Symbol{Kind: grammar.Nonterminal, Index: node.Index}
		default:
			return grammar.Symbol{Kind: grammar.Epsilon}
		}

	case ZeroOrOne:
		idx := b.addRule(b.freshName(ruleName))
		b.populateRule(idx, node.Child)
		b.rules[idx].Productions = append(b.rules[idx].Productions, grammar.Production{})
		return grammar.Symbol{Kind: grammar.Nonterminal, Index: idx}

	case ZeroOrMore:
		idx := b.addRule(b.freshName(ruleName))
		b.populateRule(idx, node.Child)
		for i := range b.rules[idx].Productions {
			b.rules[idx].Productions[i] = append(b.rules[idx].Productions[i], grammar.Symbol{Kind: grammar.Nonterminal, Index: idx})
		}
		b.rules[idx].Productions = append(b.rules[idx].Productions, grammar.Production{})
		return grammar.Symbol{Kind: grammar.Nonterminal, Index: idx}

	case OneOrMore:
		idx := b.addRule(b.freshName(ruleName))
		nextIdx := b.addRule(b.freshName(ruleName))

		b.populateRule(idx, node.Child)
		for i := range b.rules[idx].Productions {
			b.rules[idx].Productions[i] = append(b.rules[idx].Productions[i], grammar.Symbol{Kind: grammar.Nonterminal, Index: nextIdx})
		}

		b.rules[nextIdx].Productions = append([]grammar.Production(nil), b.rules[idx].Productions...)
		b.rules[nextIdx].Productions = append(b.rules[nextIdx].Productions, grammar.Production{})

		return grammar.Symbol{Kind: grammar.Nonterminal, Index: idx}

	case Alt:
		idx := b.addRule(b.freshName(ruleName))
		b.populateRule(idx, node)
		return grammar.Symbol{Kind: grammar.Nonterminal, Index: idx}

	default:
		panic("ebnf: unknown node kind")
	}
}
