package fa

// Reject is the sentinel target every undefined transition leads to.
const Reject = -1

// NoPattern labels a non-accepting state.
const NoPattern = -1

// DFA is a dense transition table over [0, numStates) x [0, numCodePoints),
// plus a per-state pattern label.
type DFA struct {
	NumStates     int
	NumCodePoints int
	Start         int
	// table[state*NumCodePoints+cp] = next state, or Reject.
	table  []int
	accept []int // accept[state] = winning pattern index, or NoPattern
}

func (d *DFA) Next(state, codePoint int) int {
	if state == Reject || codePoint < 0 || codePoint >= d.NumCodePoints {
		return Reject
	}
	return d.table[state*d.NumCodePoints+codePoint]
}

// Accept returns the winning pattern index for state, or NoPattern.
func (d *DFA) Accept(state int) int {
	if state == Reject {
		return NoPattern
	}
	return d.accept[state]
}

// ToDFA runs subset construction (Algorithm 3.20-style) over the NFA,
// producing a DFA whose states are canonicalized epsilon-closures of NFA
// state sets.
func (n *NFA) ToDFA(numCodePoints int) *DFA {
	alphabet := n.alphabet()

	startSet := n.epsilonClosure(map[int]bool{n.Start: true})
	startKey := canonicalKey(startSet)

	keyToIndex := map[string]int{startKey: 0}
	sets := []map[int]bool{startSet}

	for i := 0; i < len(sets); i++ {
		set := sets[i]
		for _, cp := range alphabet {
			moved := n.move(set, cp)
			if len(moved) == 0 {
				continue
			}
			closure := n.epsilonClosure(moved)
			key := canonicalKey(closure)
			if _, ok := keyToIndex[key]; !ok {
				keyToIndex[key] = len(sets)
				sets = append(sets, closure)
			}
		}
	}

	d := &DFA{
		NumStates:     len(sets),
		NumCodePoints: numCodePoints,
		Start:         0,
		table:         make([]int, len(sets)*numCodePoints),
		accept:        make([]int, len(sets)),
	}
	for i := range d.table {
		d.table[i] = Reject
	}
	for i, set := range sets {
		d.accept[i] = n.acceptingPattern(set)
		for cp := 0; cp < numCodePoints; cp++ {
			moved := n.move(set, cp)
			if len(moved) == 0 {
				continue
			}
			closure := n.epsilonClosure(moved)
			key := canonicalKey(closure)
			d.table[i*numCodePoints+cp] = keyToIndex[key]
		}
	}
	return d
}

// Minimize runs Hopcroft partition refinement, preserving per-pattern accept
// labels (two states in the same class only if their accept labels match).
func (d *DFA) Minimize() *DFA {
	// initial partition: one class per distinct accept label, with
	// non-accepting states forming a single shared class.
	labelToClass := map[int]int{}
	classOf := make([]int, d.NumStates)
	var classes [][]int

	for s := 0; s < d.NumStates; s++ {
		lbl := d.accept[s]
		ci, ok := labelToClass[lbl]
		if !ok {
			ci = len(classes)
			labelToClass[lbl] = ci
			classes = append(classes, nil)
		}
		classes[ci] = append(classes[ci], s)
		classOf[s] = ci
	}

	// queue of class indices still to be used as splitters; all classes
	// start in the queue.
	inQueue := make([]bool, len(classes))
	var queue []int
	for i := range classes {
		queue = append(queue, i)
		inQueue[i] = true
	}

	// for each splitter class and codepoint, the states with an edge on that
	// codepoint into the class are found by scanning every state's
	// transitions.
	for len(queue) > 0 {
		ci := queue[0]
		queue = queue[1:]
		inQueue[ci] = false

		classStates := map[int]bool{}
		for _, s := range classes[ci] {
			classStates[s] = true
		}

		for cp := 0; cp < d.NumCodePoints; cp++ {
			// X = states with a c-transition into classStates
			x := map[int]bool{}
			for s := 0; s < d.NumStates; s++ {
				t := d.table[s*d.NumCodePoints+cp]
				if t != Reject && classStates[t] {
					x[s] = true
				}
			}
			if len(x) == 0 {
				continue
			}

			touched := map[int]bool{}
			for s := range x {
				touched[classOf[s]] = true
			}

			for splitClass := range touched {
				var inside, outside []int
				for _, s := range classes[splitClass] {
					if x[s] {
						inside = append(inside, s)
					} else {
						outside = append(outside, s)
					}
				}
				if len(inside) == 0 || len(outside) == 0 {
					continue
				}

				// split: keep `inside` in splitClass, push `outside` as a
				// new class.
				classes[splitClass] = inside
				newClass := len(classes)
				classes = append(classes, outside)
				inQueue = append(inQueue, false)
				for _, s := range outside {
					classOf[s] = newClass
				}

				if inQueue[splitClass] {
					queue = append(queue, newClass)
					inQueue[newClass] = true
				} else {
					smaller := newClass
					if len(inside) < len(outside) {
						smaller = splitClass
					}
					queue = append(queue, smaller)
					inQueue[smaller] = true
				}
			}
		}
	}

	// build the minimized DFA: one state per surviving class.
	// classes may contain empty entries left behind by splits that moved
	// everything out; compact them.
	var repState []int // one representative original state per new state
	newIndex := map[int]int{}
	for ci, states := range classes {
		if len(states) == 0 {
			continue
		}
		newIndex[ci] = len(repState)
		repState = append(repState, states[0])
	}

	min := &DFA{
		NumStates:     len(repState),
		NumCodePoints: d.NumCodePoints,
		Start:         newIndex[classOf[d.Start]],
		table:         make([]int, len(repState)*d.NumCodePoints),
		accept:        make([]int, len(repState)),
	}
	for ns, orig := range repState {
		min.accept[ns] = d.accept[orig]
		for cp := 0; cp < d.NumCodePoints; cp++ {
			t := d.table[orig*d.NumCodePoints+cp]
			if t == Reject {
				min.table[ns*d.NumCodePoints+cp] = Reject
				continue
			}
			min.table[ns*d.NumCodePoints+cp] = newIndex[classOf[t]]
		}
	}
	return min
}
