// Package fa builds a Thompson-style NFA over a code-point alphabet from one
// or more regex ASTs, determinizes it into a DFA via subset construction,
// and minimizes that DFA with Hopcroft partition refinement into a dense
// State x CodePoint transition table.
package fa

import (
	"github.com/zanderlang/zander/encoding"
	"github.com/zanderlang/zander/regex"
)

// transition is one labeled NFA edge.
type transition struct {
	codePoint int
	target    int
}

// NFA is an append-only set of states over a code-point alphabet. A single
// start state and one accept state per input pattern (in declaration order).
type NFA struct {
	transitions []map[int][]int // per-state: codepoint -> target states (nondeterministic)
	epsilons    []map[int]bool  // per-state: set of epsilon-reachable targets
	Start       int
	Accepts     []int // Accepts[i] is the accept state for pattern i
}

func (n *NFA) newState() int {
	n.transitions = append(n.transitions, map[int][]int{})
	n.epsilons = append(n.epsilons, map[int]bool{})
	return len(n.transitions) - 1
}

func (n *NFA) addTransition(from, codePoint, to int) {
	n.transitions[from][codePoint] = append(n.transitions[from][codePoint], to)
}

func (n *NFA) addEpsilon(from, to int) {
	n.epsilons[from][to] = true
}

// NumStates returns the number of NFA states.
func (n *NFA) NumStates() int { return len(n.transitions) }

// fragment is a Thompson-construction sub-NFA with one start and one accept
// state.
type fragment struct {
	start, accept int
}

// Build constructs a combined NFA for the given patterns (in declaration
// order) against a shared code-point Encoding.
func Build(patterns []*regex.Node, enc *encoding.Encoding) *NFA {
	n := &NFA{}
	superStart := n.newState()
	n.Start = superStart

	n.Accepts = make([]int, len(patterns))
	for i, pat := range patterns {
		frag := n.buildFragment(pat, enc)
		n.addEpsilon(superStart, frag.start)
		n.Accepts[i] = frag.accept
	}
	return n
}

func (n *NFA) buildFragment(node *regex.Node, enc *encoding.Encoding) fragment {
	switch node.Kind {
	case regex.Symbol:
		start, accept := n.newState(), n.newState()
		cp := enc.CodePoint(node.Byte)
		n.addTransition(start, cp, accept)
		return fragment{start, accept}

	case regex.CharClass:
		start, accept := n.newState(), n.newState()
		seen := map[int]bool{}
		for _, r := range node.Ranges {
			for _, cp := range enc.CodePointRanges(r.Lo, r.Hi) {
				if cp == encoding.NoCodePoint || seen[cp] {
					continue
				}
				seen[cp] = true
				n.addTransition(start, cp, accept)
			}
		}
		return fragment{start, accept}

	case regex.Sequence:
		if len(node.Children) == 0 {
			// an empty pattern: one epsilon edge, accepting the empty string
			start, accept := n.newState(), n.newState()
			n.addEpsilon(start, accept)
			return fragment{start, accept}
		}
		var cur fragment
		for i, c := range node.Children {
			f := n.buildFragment(c, enc)
			if i == 0 {
				cur = f
				continue
			}
			n.addEpsilon(cur.accept, f.start)
			cur.accept = f.accept
		}
		return cur

	case regex.Alt:
		start, accept := n.newState(), n.newState()
		for _, c := range node.Children {
			f := n.buildFragment(c, enc)
			n.addEpsilon(start, f.start)
			n.addEpsilon(f.accept, accept)
		}
		return fragment{start, accept}

	case regex.ZeroOrOne:
		inner := n.buildFragment(node.Children[0], enc)
		start, accept := n.newState(), n.newState()
		n.addEpsilon(start, inner.start)
		n.addEpsilon(start, accept)
		n.addEpsilon(inner.accept, accept)
		return fragment{start, accept}

	case regex.ZeroOrMore:
		inner := n.buildFragment(node.Children[0], enc)
		start, accept := n.newState(), n.newState()
		n.addEpsilon(start, inner.start)
		n.addEpsilon(start, accept)
		n.addEpsilon(inner.accept, inner.start)
		n.addEpsilon(inner.accept, accept)
		return fragment{start, accept}

	case regex.OneOrMore:
		inner := n.buildFragment(node.Children[0], enc)
		start, accept := n.newState(), n.newState()
		n.addEpsilon(start, inner.start)
		n.addEpsilon(inner.accept, inner.start)
		n.addEpsilon(inner.accept, accept)
		return fragment{start, accept}

	default:
		panic("fa: unknown regex node kind")
	}
}

// epsilonClosure returns the set of states reachable from any state in set
// via zero or more epsilon transitions.
func (n *NFA) epsilonClosure(set map[int]bool) map[int]bool {
	closure := map[int]bool{}
	var stack []int
	for s := range set {
		closure[s] = true
		stack = append(stack, s)
	}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for t := range n.epsilons[s] {
			if !closure[t] {
				closure[t] = true
				stack = append(stack, t)
			}
		}
	}
	return closure
}

// move returns the set of states reachable from any state in set via a
// single transition on codePoint.
func (n *NFA) move(set map[int]bool, codePoint int) map[int]bool {
	out := map[int]bool{}
	for s := range set {
		for _, t := range n.transitions[s][codePoint] {
			out[t] = true
		}
	}
	return out
}

// alphabet returns every code point that labels at least one transition in
// the NFA.
func (n *NFA) alphabet() []int {
	seen := map[int]bool{}
	for _, m := range n.transitions {
		for cp := range m {
			seen[cp] = true
		}
	}
	out := make([]int, 0, len(seen))
	for cp := range seen {
		out = append(out, cp)
	}
	return out
}

// acceptingPattern returns the smallest pattern index whose accept state is
// present in set, or -1 if none is.
func (n *NFA) acceptingPattern(set map[int]bool) int {
	best := -1
	for p, acc := range n.Accepts {
		if set[acc] {
			if best == -1 || p < best {
				best = p
			}
		}
	}
	return best
}

func canonicalKey(set map[int]bool) string {
	states := make([]int, 0, len(set))
	for s := range set {
		states = append(states, s)
	}
	// simple insertion sort; state sets are small in practice
	for i := 1; i < len(states); i++ {
		v := states[i]
		j := i - 1
		for j >= 0 && states[j] > v {
			states[j+1] = states[j]
			j--
		}
		states[j+1] = v
	}
	key := make([]byte, 0, len(states)*4)
	for _, s := range states {
		key = append(key, byte(s), byte(s>>8), byte(s>>16), byte(s>>24))
	}
	return string(key)
}
