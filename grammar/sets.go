package grammar

import "github.com/zanderlang/zander/internal/util"

// Sets is the result of computing FIRST, FOLLOW, and nullability over a
// Grammar by fixed-point iteration.
type Sets struct {
	First    []util.KeySet[int] // First[rule] = set of terminal indices
	Follow   []util.KeySet[int] // Follow[rule] = set of terminal indices
	Nullable util.KeySet[int]   // set of nullable rule indices
}

// ComputeSets runs the FIRST/FOLLOW/nullable fixed point: repeat until no
// set changes; for each rule and each of its
// productions, extend FIRST with the first terminals of non-nullable
// prefixes, mark the rule nullable if the whole production is nullable, and
// for each nonterminal occurrence extend its FOLLOW set with what can follow
// it in that production (including the rule's own FOLLOW set when the
// remainder of the production is nullable).
//
// Running ComputeSets twice on the same Grammar returns equal sets: the
// computation is a pure function of g.
func (g *Grammar) ComputeSets() *Sets {
	n := len(g.rules)
	s := &Sets{
		First:    make([]util.KeySet[int], n),
		Follow:   make([]util.KeySet[int], n),
		Nullable: util.NewKeySet[int](),
	}
	for i := 0; i < n; i++ {
		s.First[i] = util.NewKeySet[int]()
		s.Follow[i] = util.NewKeySet[int]()
	}

	// By module-wide convention the grammar's last terminal slot is the
	// end-of-input sentinel (see defs.Definitions.Grammar and the LR table
	// builders); FOLLOW of the start rule is seeded with it so an epsilon
	// alternative of the start rule predicts on end-of-input and the final
	// reduce of an augmented grammar's original start rule fires there.
	if len(g.terminals) > 0 {
		s.Follow[g.startRule].Add(len(g.terminals) - 1)
	}

	for {
		changed := false

		for ruleIdx, rule := range g.rules {
			for _, prod := range rule.Productions {
				if len(prod) == 0 {
					if !s.Nullable.Has(ruleIdx) {
						s.Nullable.Add(ruleIdx)
						changed = true
					}
				}

				// extend FIRST[ruleIdx] with first(prod), stopping at the
				// first non-nullable symbol.
				allNullableSoFar := true
				for _, sym := range prod {
					if !allNullableSoFar {
						break
					}
					switch sym.Kind {
					case Epsilon:
						continue
					case Terminal:
						if !s.First[ruleIdx].Has(sym.Index) {
							s.First[ruleIdx].Add(sym.Index)
							changed = true
						}
						allNullableSoFar = false
					case Nonterminal:
						for t := range s.First[sym.Index] {
							if !s.First[ruleIdx].Has(t) {
								s.First[ruleIdx].Add(t)
								changed = true
							}
						}
						if !s.Nullable.Has(sym.Index) {
							allNullableSoFar = false
						}
					}
				}
				if allNullableSoFar && len(prod) > 0 {
					if !s.Nullable.Has(ruleIdx) {
						s.Nullable.Add(ruleIdx)
						changed = true
					}
				}

				// FOLLOW propagation: for each nonterminal occurrence at
				// position j, add first(prod[j+1:]) to FOLLOW[sym]; if
				// prod[j+1:] is nullable, also add FOLLOW[ruleIdx].
				for j, sym := range prod {
					if sym.Kind != Nonterminal {
						continue
					}
					restNullable := true
					for k := j + 1; k < len(prod); k++ {
						rsym := prod[k]
						if !restNullable {
							break
						}
						switch rsym.Kind {
						case Epsilon:
							continue
						case Terminal:
							if !s.Follow[sym.Index].Has(rsym.Index) {
								s.Follow[sym.Index].Add(rsym.Index)
								changed = true
							}
							restNullable = false
						case Nonterminal:
							for t := range s.First[rsym.Index] {
								if !s.Follow[sym.Index].Has(t) {
									s.Follow[sym.Index].Add(t)
									changed = true
								}
							}
							if !s.Nullable.Has(rsym.Index) {
								restNullable = false
							}
						}
					}
					if restNullable {
						for t := range s.Follow[ruleIdx] {
							if !s.Follow[sym.Index].Has(t) {
								s.Follow[sym.Index].Add(t)
								changed = true
							}
						}
					}
				}
			}
		}

		if !changed {
			break
		}
	}

	return s
}
