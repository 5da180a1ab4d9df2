package util

import (
	"math/rand"
	"testing"

	"github.com/antzucaro/matchr"
	"github.com/grailbio/testutil/expect"
)

func TestHamming(t *testing.T) {
	tests := []struct {
		s1, s2 string
		want   int
	}{
		{"", "", 0},
		{"ACG", "ACG", 0},
		{"ACG", "ACT", 1},
		{"ACG", "TGA", 3},
		{"GATTACA", "GACTATA", 2},
	}
	for _, test := range tests {
		got, err := Hamming(test.s1, test.s2)
		expect.NoError(t, err, "Hamming(%q, %q)", test.s1, test.s2)
		expect.EQ(t, got, test.want, "Hamming(%q, %q)", test.s1, test.s2)
	}
}

func TestHammingUnequalLength(t *testing.T) {
	_, err := Hamming("ACG", "AC")
	expect.NotNil(t, err)
	_, err = Hamming("", "A")
	expect.NotNil(t, err)
}

// TestHammingMatchesStandard checks our implementation against a
// standard one on random equal-length sequences.
func TestHammingMatchesStandard(t *testing.T) {
	const bases = "ACGTN"
	random := rand.New(rand.NewSource(0))
	for trial := 0; trial < 1000; trial++ {
		length := random.Intn(20)
		s1 := make([]byte, length)
		s2 := make([]byte, length)
		for i := range s1 {
			s1[i] = bases[random.Intn(len(bases))]
			s2[i] = bases[random.Intn(len(bases))]
		}

		got, err := Hamming(string(s1), string(s2))
		expect.NoError(t, err)
		want, err := matchr.Hamming(string(s1), string(s2))
		expect.NoError(t, err)
		expect.EQ(t, got, want, "Hamming(%q, %q)", s1, s2)
	}
}
