package preset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lines(texts ...string) []Line {
	out := make([]Line, len(texts))
	for i, t := range texts {
		out[i] = Line{Index: i * 2, Text: t}
	}
	return out
}

func TestSelectManualAndSequentialMatch(t *testing.T) {
	st := NewState()
	filtered := lines("a", "b", "c")
	for idx := 0; idx < 7; idx++ {
		mpos, mline := st.Select(filtered, Manual, idx, 0, StateKey{})
		spos, sline := st.Select(filtered, Sequential, idx, 0, StateKey{})
		assert.Equal(t, idx%3, mpos)
		assert.Equal(t, mpos, spos)
		assert.Equal(t, mline, sline)
	}
	assert.Zero(t, st.Stats().Cursors)
}

func TestSelectContinueCycles(t *testing.T) {
	st := NewState()
	filtered := lines("a", "b", "c", "d")
	key := StateKey{Source: "shots.txt"}

	seen := make(map[int]int)
	var order []int
	for i := 0; i < 2*len(filtered); i++ {
		pos, _ := st.Select(filtered, SequentialContinue, 1, 0, key)
		seen[pos]++
		order = append(order, pos)
	}
	assert.Equal(t, []int{1, 2, 3, 0, 1, 2, 3, 0}, order)
	for pos := range filtered {
		assert.Equal(t, 2, seen[pos])
	}
}

func TestSelectContinueIgnoresLaterPresetIndex(t *testing.T) {
	st := NewState()
	filtered := lines("a", "b", "c")
	key := StateKey{Source: "x"}
	pos, _ := st.Select(filtered, SequentialContinue, 2, 0, key)
	assert.Equal(t, 2, pos)
	pos, _ = st.Select(filtered, SequentialContinue, 0, 0, key)
	assert.Equal(t, 0, pos)
}

func TestSelectContinueKeysAreIndependent(t *testing.T) {
	st := NewState()
	filtered := lines("a", "b", "c")
	k1 := StateKey{Source: "x", Keywords: "front"}
	k2 := StateKey{Source: "x", Keywords: "front", KeywordMode: KeywordAnd}

	st.Select(filtered, SequentialContinue, 0, 0, k1)
	st.Select(filtered, SequentialContinue, 0, 0, k1)
	pos, _ := st.Select(filtered, SequentialContinue, 0, 0, k2)
	assert.Equal(t, 0, pos)
	pos, _ = st.Select(filtered, SequentialContinue, 0, 0, k1)
	assert.Equal(t, 2, pos)
	assert.Equal(t, 2, st.Stats().Cursors)
}

func TestSelectContinueShrinkingSet(t *testing.T) {
	st := NewState()
	key := StateKey{Source: "x"}
	st.Select(lines("a", "b", "c", "d", "e"), SequentialContinue, 3, 0, key)
	// Stored cursor is 4; a two-entry set takes it modulo 2.
	pos, _ := st.Select(lines("a", "b"), SequentialContinue, 0, 0, key)
	assert.Equal(t, 0, pos)
	pos, _ = st.Select(lines("a", "b"), SequentialContinue, 0, 0, key)
	assert.Equal(t, 1, pos)
}

func TestSelectRandomDeterministic(t *testing.T) {
	st := NewState()
	filtered := lines("a", "b", "c", "d", "e", "f", "g")
	for _, seed := range []uint64{0, 1, 42, 1 << 63} {
		first, _ := st.Select(filtered, Random, 0, seed, StateKey{})
		require.GreaterOrEqual(t, first, 0)
		require.Less(t, first, len(filtered))
		for i := 0; i < 5; i++ {
			again, _ := st.Select(filtered, Random, 0, seed, StateKey{})
			assert.Equal(t, first, again)
		}
	}
}

func TestSelectReturnsOriginalIndex(t *testing.T) {
	_, line := NewState().Select(lines("a", "b", "c"), Manual, 2, 0, StateKey{})
	assert.Equal(t, Line{Index: 4, Text: "c"}, line)
}

func TestSelectNegativeIndex(t *testing.T) {
	pos, _ := NewState().Select(lines("a", "b", "c"), Manual, -1, 0, StateKey{})
	assert.Equal(t, 2, pos)
}

func TestParseModes(t *testing.T) {
	m, err := ParseSelectionMode("Sequential (continue)")
	require.NoError(t, err)
	assert.Equal(t, SequentialContinue, m)
	m, err = ParseSelectionMode("RANDOM")
	require.NoError(t, err)
	assert.Equal(t, Random, m)
	_, err = ParseSelectionMode("shuffle")
	assert.ErrorIs(t, err, ErrUnknownMode)

	km, err := ParseKeywordMode("or")
	require.NoError(t, err)
	assert.Equal(t, KeywordOr, km)
	_, err = ParseKeywordMode("xor")
	assert.ErrorIs(t, err, ErrUnknownMode)

	for _, mode := range []SelectionMode{Manual, Sequential, SequentialContinue, Random} {
		back, err := ParseSelectionMode(mode.String())
		require.NoError(t, err)
		assert.Equal(t, mode, back)
	}
}
