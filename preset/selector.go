package preset

import "math/rand/v2"

// Select picks one entry of filtered and returns its position in filtered
// together with the entry. filtered must not be empty.
//
// Manual and Sequential both use presetIndex mod len. SequentialContinue
// starts there on first use of key and then steps by one per call. Random
// reseeds with seed on every call, so a fixed seed always gives the same
// pick.
func (s *State) Select(filtered []Line, mode SelectionMode, presetIndex int, seed uint64, key StateKey) (int, Line) {
	n := len(filtered)
	var pos int
	switch mode {
	case SequentialContinue:
		s.mu.Lock()
		cursor, ok := s.cursors[key]
		if !ok {
			cursor = mod(presetIndex, n)
		}
		pos = mod(cursor, n)
		s.cursors[key] = (pos + 1) % n
		s.mu.Unlock()
	case Random:
		pos = newRand(seed).IntN(n)
	default:
		pos = mod(presetIndex, n)
	}
	return pos, filtered[pos]
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}
