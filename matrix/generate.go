package matrix

import "math/rand"

// defaultSeed is used when callers pass seed == 0, keeping fixtures reproducible.
const defaultSeed int64 = 1

// NewRand returns a deterministic *rand.Rand. seed == 0 selects defaultSeed.
// The returned generator is not safe for concurrent use.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = defaultSeed
	}

	return rand.New(rand.NewSource(seed))
}

// Random returns an r×c matrix of uniform integers in [lo, hi).
//
// Errors: ErrInvalidDimensions, ErrInvalidRange (lo >= hi).
func Random(rng *rand.Rand, rows, cols int, lo, hi int64) (*Dense, error) {
	if lo >= hi {
		return nil, matrixErrorf("Random", ErrInvalidRange)
	}
	m, err := NewDense(rows, cols)
	if err != nil {
		return nil, matrixErrorf("Random", err)
	}
	if rng == nil {
		rng = NewRand(0)
	}
	span := hi - lo
	for i := range m.data {
		m.data[i] = lo + rng.Int63n(span)
	}

	return m, nil
}

// Filled returns an r×c matrix with every element set to v.
func Filled(rows, cols int, v int64) (*Dense, error) {
	m, err := NewDense(rows, cols)
	if err != nil {
		return nil, matrixErrorf("Filled", err)
	}
	for i := range m.data {
		m.data[i] = v
	}

	return m, nil
}
