package util

import "github.com/pkg/errors"

// Hamming computes the Hamming distance between two sequences: the
// number of positions at which they differ. The distance is defined
// only for sequences of equal length; unequal lengths yield an error,
// which callers typically treat as an infinite distance.
func Hamming(s1, s2 string) (distance int, err error) {
	if len(s1) != len(s2) {
		return 0, errors.Errorf("hamming distance undefined for sequences of unequal length: %d vs %d", len(s1), len(s2))
	}
	for i := 0; i < len(s1); i++ {
		if s1[i] != s2[i] {
			distance++
		}
	}
	return distance, nil
}
