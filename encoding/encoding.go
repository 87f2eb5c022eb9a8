// Package encoding computes the disjoint code-point partition that every
// regex AST in a tokenizer configuration induces over the input byte range,
// and maps individual bytes (or byte ranges) to the code points of that
// partition.
//
// The construction is a sort-then-sweep merge/split over a worklist of
// input ranges: pop the lowest-starting
// range, compare it against the next range in sorted order, split any
// overlap into its own segment, and requeue whatever remainder is left for
// further comparison against the rest of the worklist.
package encoding

import "sort"

// ByteRange is an inclusive [Lo, Hi] range of byte values.
type ByteRange struct {
	Lo, Hi byte
}

// NoCodePoint is returned by CodePoint for a byte outside every declared
// range.
const NoCodePoint = -1

// Encoding is an ordered list of pairwise-disjoint byte ranges, indexed by
// position (the code point).
type Encoding struct {
	ranges []ByteRange
	// table maps every byte mentioned by any range (directly) to its code
	// point, for O(1) CodePoint lookups; bytes outside every range map to
	// NoCodePoint.
	table [256]int
}

// Build computes the disjoint partition induced by the given set of input
// ranges (typically gathered by walking the reachable nodes of one or more
// regex ASTs; see regex.Ranges).
func Build(input []ByteRange) *Encoding {
	if len(input) == 0 {
		enc := &Encoding{}
		for i := range enc.table {
			enc.table[i] = NoCodePoint
		}
		return enc
	}

	work := make([]ByteRange, len(input))
	copy(work, input)
	sort.Slice(work, func(i, j int) bool { return work[i].Lo < work[j].Lo })

	var result []ByteRange

	insertSorted := func(r ByteRange) {
		i := sort.Search(len(work), func(i int) bool { return work[i].Lo >= r.Lo })
		work = append(work, ByteRange{})
		copy(work[i+1:], work[i:])
		work[i] = r
	}

	current := work[0]
	work = work[1:]

	for len(work) > 0 {
		next := work[0]
		work = work[1:]

		if current.Hi < next.Lo {
			result = append(result, current)
			current = next
			continue
		}

		if next.Lo > current.Lo {
			head := ByteRange{Lo: current.Lo, Hi: next.Lo - 1}
			result = append(result, head)
			current.Lo = next.Lo
		}

		if current.Hi != next.Hi {
			lo := min(current.Hi, next.Hi) + 1
			hi := max(current.Hi, next.Hi)
			if int(lo) <= int(hi) {
				insertSorted(ByteRange{Lo: lo, Hi: hi})
			}
		}

		if current.Hi > next.Hi {
			current.Hi = next.Hi
		}
	}

	result = append(result, current)

	enc := &Encoding{ranges: result}
	for i := range enc.table {
		enc.table[i] = NoCodePoint
	}
	for cp, r := range result {
		for b := int(r.Lo); b <= int(r.Hi); b++ {
			enc.table[b] = cp
		}
	}
	return enc
}

func min(a, b byte) byte {
	if a < b {
		return a
	}
	return b
}

func max(a, b byte) byte {
	if a > b {
		return a
	}
	return b
}

// CodePoint returns the index of the range containing b, or NoCodePoint if
// no declared range covers it.
func (e *Encoding) CodePoint(b byte) int {
	return e.table[b]
}

// CodePointRanges returns the code points whose ranges together tile the
// query range [lo, hi].
func (e *Encoding) CodePointRanges(lo, hi byte) []int {
	var cps []int
	b := int(lo)
	for b <= int(hi) {
		cp := e.table[byte(b)]
		cps = append(cps, cp)
		if cp == NoCodePoint {
			b++
			continue
		}
		b = int(e.ranges[cp].Hi) + 1
	}
	return cps
}

// NumCodePoints returns the number of disjoint ranges in the partition.
func (e *Encoding) NumCodePoints() int {
	return len(e.ranges)
}

// Range returns the byte range backing code point cp.
func (e *Encoding) Range(cp int) ByteRange {
	return e.ranges[cp]
}
