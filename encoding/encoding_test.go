package encoding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Build_disjointRanges(t *testing.T) {
	assert := assert.New(t)

	enc := Build([]ByteRange{{Lo: 'a', Hi: 'd'}, {Lo: 'c', Hi: 'f'}})

	// every byte in [a,f] should land in some code point, and overlapping
	// input ranges must never produce overlapping output ranges.
	seen := map[int]ByteRange{}
	for b := byte('a'); b <= 'f'; b++ {
		cp := enc.CodePoint(b)
		assert.NotEqual(NoCodePoint, cp)
		r := enc.Range(cp)
		if prev, ok := seen[cp]; ok {
			assert.Equal(prev, r)
		}
		seen[cp] = r
	}
	assert.True(enc.NumCodePoints() > 0)
}

func Test_Build_empty(t *testing.T) {
	assert := assert.New(t)

	enc := Build(nil)
	assert.Equal(0, enc.NumCodePoints())
	assert.Equal(NoCodePoint, enc.CodePoint('a'))
}

func Test_CodePoint_outsideDeclaredRanges(t *testing.T) {
	assert := assert.New(t)

	enc := Build([]ByteRange{{Lo: 'a', Hi: 'a'}})
	assert.Equal(NoCodePoint, enc.CodePoint('b'))
}

func Test_CodePointRanges_tilesQuery(t *testing.T) {
	assert := assert.New(t)

	enc := Build([]ByteRange{{Lo: 'a', Hi: 'c'}, {Lo: 'd', Hi: 'f'}})
	cps := enc.CodePointRanges('a', 'f')
	assert.Len(cps, 2)
}

func Test_Build_singleByteRanges(t *testing.T) {
	assert := assert.New(t)

	enc := Build([]ByteRange{{Lo: 'x', Hi: 'x'}, {Lo: 'x', Hi: 'x'}})
	assert.Equal(1, enc.NumCodePoints())
}
