// Package gss implements the graph-structured stack (GSS) the GLR driver
// runs its parallel parse heads over: a DAG of stack segments where a head
// is a distinguished node at one end of a live stack, multiple heads may
// share prefix segments, and reducing walks backward along every path a
// handle's length admits.
//
// Modeled as arena-allocated nodes with predecessor links only, so the
// graph is acyclic by construction; nodes are never removed, only
// unreferenced, so reference counting isn't needed for correctness and
// nothing here mutates a node's state or value after creation.
package gss

import "github.com/google/uuid"

// Node is one stack segment: an LR state and the parse value that led to
// it (nil for the synthetic root node), with a list of predecessor nodes
// (more than one after a merge).
type Node struct {
	ID    int
	State int
	Value any
	Preds []*Node
}

// Root owns every node and every live head of one parse session.
type Root struct {
	SessionID uuid.UUID
	nodes     []*Node
	heads     []*Node
}

// NewRoot creates a fresh GSS rooted at the given start state, with one
// initial head.
func NewRoot(startState int) *Root {
	r := &Root{SessionID: uuid.New()}
	root := r.newNode(startState, nil)
	r.heads = []*Node{root}
	return r
}

func (r *Root) newNode(state int, value any) *Node {
	n := &Node{ID: len(r.nodes), State: state, Value: value}
	r.nodes = append(r.nodes, n)
	return n
}

// Heads returns the currently live head nodes, in creation order.
func (r *Root) Heads() []*Node { return r.heads }

// NumNodes returns how many nodes the session has allocated in total,
// including ones no longer reachable from any live head.
func (r *Root) NumNodes() int { return len(r.nodes) }

// Push creates a new node on top of head carrying (state, value) and
// replaces head with it among the live heads.
func (r *Root) Push(head *Node, state int, value any) *Node {
	n := r.newNode(state, value)
	n.Preds = []*Node{head}
	r.replaceHead(head, n)
	return n
}

// PushFrom creates a new live head on top of from, which need not currently
// be a head itself (a reduce exposes an interior node, not necessarily at
// the top of any existing stack). Unlike a shift, no merging happens here:
// two reduce paths landing on the same state may carry distinct derivation
// values, and each must survive as its own head.
func (r *Root) PushFrom(from *Node, state int, value any) *Node {
	n := r.newNode(state, value)
	n.Preds = []*Node{from}
	r.heads = append(r.heads, n)
	return n
}

// ShiftEntry names one target state of a frontier-wide shift and the heads
// that shift into it.
type ShiftEntry struct {
	State int
	Preds []*Node
}

// ShiftAll replaces the entire live frontier with one new node per entry,
// all carrying the same shifted value. Heads that shift to the same state
// arrive as shared predecessors of a single node - the merge the multi-stack
// performs after every consumed token - and heads that appear in no entry
// simply die with the old frontier.
func (r *Root) ShiftAll(entries []ShiftEntry, value any) {
	r.heads = r.heads[:0]
	for _, e := range entries {
		n := r.newNode(e.State, value)
		n.Preds = append([]*Node(nil), e.Preds...)
		r.heads = append(r.heads, n)
	}
}

func (r *Root) replaceHead(old, new *Node) {
	for i, h := range r.heads {
		if h == old {
			r.heads[i] = new
			return
		}
	}
	r.heads = append(r.heads, new)
}

// Die removes head from the live set (its path dies; any node it was the
// sole referent of simply becomes unreachable, and no cycles exist so no
// explicit collection is needed).
func (r *Root) Die(head *Node) {
	for i, h := range r.heads {
		if h == head {
			r.heads = append(r.heads[:i], r.heads[i+1:]...)
			return
		}
	}
}

// Path is one handle-length walk backward from a head: the node exposed
// beneath the popped segment, and the popped values in left-to-right
// (bottom-to-top source) order.
type Path struct {
	Exposed *Node
	Values  []any
}

// FindHandlePaths enumerates every distinct path of length n backward from
// head (more than one when merged predecessors fork the walk).
func FindHandlePaths(head *Node, n int) []Path {
	if n == 0 {
		return []Path{{Exposed: head}}
	}
	var out []Path
	var walk func(node *Node, remaining int, acc []any)
	walk = func(node *Node, remaining int, acc []any) {
		if remaining == 0 {
			values := make([]any, len(acc))
			for i, v := range acc {
				values[len(acc)-1-i] = v
			}
			out = append(out, Path{Exposed: node, Values: values})
			return
		}
		for _, pred := range node.Preds {
			walk(pred, remaining-1, append(acc, node.Value))
		}
	}
	walk(head, n, nil)
	return out
}

// Reduce pops n values along every distinct path from head, and for each
// path pushes a new head at gotoState carrying the reduced value. The
// original head stays live: under a shift/reduce conflict it may still
// shift the same lookahead.
func (r *Root) Reduce(head *Node, n int, gotoState int, reduce func(values []any) any) []*Node {
	paths := FindHandlePaths(head, n)
	var newHeads []*Node
	for _, p := range paths {
		newHeads = append(newHeads, r.PushFrom(p.Exposed, gotoState, reduce(p.Values)))
	}
	return newHeads
}
