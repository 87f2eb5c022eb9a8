package fa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zanderlang/zander/encoding"
	"github.com/zanderlang/zander/regex"
)

// runDFA walks input through d, returning the accept label of the final
// state, or NoPattern if the walk falls into the reject state or meets a
// byte outside the encoding.
func runDFA(d *DFA, enc *encoding.Encoding, input string) int {
	state := d.Start
	for i := 0; i < len(input); i++ {
		cp := enc.CodePoint(input[i])
		if cp == encoding.NoCodePoint {
			return NoPattern
		}
		state = d.Next(state, cp)
		if state == Reject {
			return NoPattern
		}
	}
	return d.Accept(state)
}

func buildBoth(t *testing.T, patterns []string) (*DFA, *DFA, *encoding.Encoding) {
	t.Helper()

	asts := make([]*regex.Node, len(patterns))
	var ranges []encoding.ByteRange
	for i, p := range patterns {
		n, err := regex.Parse(p)
		if err != nil {
			t.Fatalf("parse %q: %v", p, err)
		}
		asts[i] = n
		ranges = append(ranges, regex.Ranges(n)...)
	}
	enc := encoding.Build(ranges)
	nfa := Build(asts, enc)
	d := nfa.ToDFA(enc.NumCodePoints())
	return d, d.Minimize(), enc
}

func Test_ToDFA_acceptsSeedLanguage(t *testing.T) {
	assert := assert.New(t)

	d, min, enc := buildBoth(t, []string{`[a-d]*a`})

	for _, tc := range []struct {
		input  string
		accept bool
	}{
		{"a", true},
		{"abcda", true},
		{"ba", true},
		{"", false},
		{"ab", false},
		{"abcd", false},
	} {
		wantLabel := NoPattern
		if tc.accept {
			wantLabel = 0
		}
		assert.Equal(wantLabel, runDFA(d, enc, tc.input), "subset DFA on %q", tc.input)
		assert.Equal(wantLabel, runDFA(min, enc, tc.input), "minimized DFA on %q", tc.input)
	}
}

func Test_Minimize_neverGrowsStateCount(t *testing.T) {
	assert := assert.New(t)

	d, min, _ := buildBoth(t, []string{`(a|b)*abb`})
	assert.LessOrEqual(min.NumStates, d.NumStates)
}

func Test_DFA_isDeterministic(t *testing.T) {
	assert := assert.New(t)

	_, min, _ := buildBoth(t, []string{`[a-d]*a`, `if`})
	for s := 0; s < min.NumStates; s++ {
		for cp := 0; cp < min.NumCodePoints; cp++ {
			next := min.Next(s, cp)
			assert.True(next == Reject || (next >= 0 && next < min.NumStates))
		}
	}
}

func Test_DFA_smallestPatternIndexWinsLabel(t *testing.T) {
	assert := assert.New(t)

	// "if" matches both pattern 0 and pattern 1; the DFA state reached by
	// "if" must carry label 0, the smaller declaration index.
	d, min, enc := buildBoth(t, []string{`if`, `[a-z]+`})
	assert.Equal(0, runDFA(d, enc, "if"))
	assert.Equal(0, runDFA(min, enc, "if"))

	// anything else lowercase is only pattern 1.
	assert.Equal(1, runDFA(min, enc, "ifx"))
	assert.Equal(1, runDFA(min, enc, "zz"))
}

func Test_Minimize_keepsDistinctLabelsApart(t *testing.T) {
	assert := assert.New(t)

	// "a" and "b" accept different patterns; minimization must not merge
	// their accepting states even though both have no outgoing transitions.
	_, min, enc := buildBoth(t, []string{`a`, `b`})
	assert.Equal(0, runDFA(min, enc, "a"))
	assert.Equal(1, runDFA(min, enc, "b"))
}

func Test_DFA_rejectStateAbsorbs(t *testing.T) {
	assert := assert.New(t)

	_, min, _ := buildBoth(t, []string{`ab`})
	assert.Equal(Reject, min.Next(Reject, 0))
	assert.Equal(NoPattern, min.Accept(Reject))
}
