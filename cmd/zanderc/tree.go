package main

import (
	"fmt"
	"strings"

	"github.com/zanderlang/zander/grammar"
	"github.com/zanderlang/zander/parse"
)

// treeNode is the generic parse value every driver in this command builds:
// a rule name and its decorated children, terminals already reduced to
// their lexeme strings by the driver's default terminal decorator.
type treeNode struct {
	rule     string
	children []any
}

func formatTree(v any) string {
	n, ok := v.(treeNode)
	if !ok {
		return fmt.Sprintf("%v", v)
	}
	var parts []string
	for _, c := range n.children {
		parts = append(parts, formatTree(c))
	}
	if len(parts) == 0 {
		return "(" + n.rule + ")"
	}
	return "(" + n.rule + " " + strings.Join(parts, " ") + ")"
}

// reducerAdder is satisfied by every session type in this module (LL1,
// single-entry LR, and GLR all expose the same AddReducer shape), letting
// one loop wire up the generic tree-building reducer regardless of mode.
type reducerAdder interface {
	AddReducer(rule int, fn parse.Reducer)
}

func attachTreeReducers(g *grammar.Grammar, sess reducerAdder) {
	for i, r := range g.Rules() {
		name := r.Name
		sess.AddReducer(i, func(ruleIndex int, children []any) any {
			return treeNode{rule: name, children: children}
		})
	}
}
