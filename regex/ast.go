// Package regex parses regex text (symbols, character classes, escapes,
// grouping, alternation, and the `?`/`*`/`+` quantifiers) into an immutable
// AST, and exposes the byte ranges that AST requires an Encoding to
// distinguish.
package regex

import "github.com/zanderlang/zander/encoding"

// NodeKind tags the variant a Node holds.
type NodeKind int

const (
	Symbol NodeKind = iota
	CharClass
	Sequence
	Alt
	ZeroOrOne
	ZeroOrMore
	OneOrMore
)

// Node is one AST node. The active fields depend on Kind:
//   - Symbol: Byte
//   - CharClass: Ranges, Invert
//   - Sequence, Alt: Children
//   - ZeroOrOne, ZeroOrMore, OneOrMore: Children[0]
type Node struct {
	Kind     NodeKind
	Byte     byte
	Ranges   []encoding.ByteRange
	Invert   bool
	Children []*Node
}

// Ranges walks the AST rooted at n and returns the byte ranges it
// contributes to an Encoding: a literal byte contributes (b,b), a class
// contributes its (possibly already-inverted, see parseClass) ranges, and
// composite nodes contribute whatever their children contribute.
func Ranges(n *Node) []encoding.ByteRange {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case Symbol:
		return []encoding.ByteRange{{Lo: n.Byte, Hi: n.Byte}}
	case CharClass:
		out := make([]encoding.ByteRange, len(n.Ranges))
		copy(out, n.Ranges)
		return out
	default:
		var out []encoding.ByteRange
		for _, c := range n.Children {
			out = append(out, Ranges(c)...)
		}
		return out
	}
}

// Equal reports whether two ASTs are structurally identical.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind || a.Byte != b.Byte || a.Invert != b.Invert {
		return false
	}
	if len(a.Ranges) != len(b.Ranges) {
		return false
	}
	for i := range a.Ranges {
		if a.Ranges[i] != b.Ranges[i] {
			return false
		}
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}
