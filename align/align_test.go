package align

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalExact(t *testing.T) {
	r := Align("CCCCACGTACGTACGGGG", "ACGTACGTAC", -2, -1, Local)
	assert.Equal(t, 10, r.Score)
	assert.Equal(t, 4, r.Begin)
	assert.Equal(t, 14, r.End)
	assert.Equal(t, "ACGTACGTAC", r.A)
	assert.Equal(t, "ACGTACGTAC", r.B)
}

func TestLocalMismatchInside(t *testing.T) {
	// One mismatch in the middle of the window still aligns end to end.
	r := Align("CCCCACGTTCGTACGGGG", "ACGTACGTAC", -2, -1, Local)
	assert.Equal(t, 9, r.Score)
	assert.Equal(t, 4, r.Begin)
	assert.Equal(t, 14, r.End)
	assert.False(t, strings.Contains(r.A, "-"))
	assert.False(t, strings.Contains(r.B, "-"))
}

func TestLocalLeadingMismatch(t *testing.T) {
	// A mismatch at the first position of b is trimmed from the local
	// window, shortening it by one column.
	r := Align("CCCCTACGTACGTTGGGG", "GACGTACGTT", -2, -1, Local)
	assert.Equal(t, 9, r.Score)
	assert.Equal(t, 5, r.Begin)
	assert.Equal(t, 14, r.End)
	assert.Equal(t, "ACGTACGTT", r.A)
	assert.Equal(t, "ACGTACGTT", r.B)
}

func TestLocalDeletionInA(t *testing.T) {
	// b with its 8th symbol deleted from a: 14 matches, one gap in a.
	b := "TAGCCATCGCATTGC"
	a := "AAAA" + "TAGCCAT" + "GCATTGC" + "TTTT"
	r := Align(a, b, -2, -1, Local)
	assert.Equal(t, 12, r.Score)
	assert.Equal(t, 15, r.End-r.Begin)
	assert.Equal(t, 4, r.Begin)
	assert.True(t, strings.Contains(r.A, "-"))
	assert.False(t, strings.Contains(r.B, "-"))
}

func TestLocalInsertionInA(t *testing.T) {
	// a with one extra symbol inside b's image: 15 matches, one gap in b.
	b := "TAGCCATCGCATTGC"
	a := "AAAA" + "TAGCCAT" + "T" + "CGCATTGC" + "TTTT"
	r := Align(a, b, -2, -1, Local)
	assert.Equal(t, 13, r.Score)
	assert.Equal(t, 16, r.End-r.Begin)
	assert.Equal(t, 4, r.Begin)
	assert.True(t, strings.Contains(r.B, "-"))
	assert.False(t, strings.Contains(r.A, "-"))
}

func TestLocalNoMatch(t *testing.T) {
	r := Align("AAAA", "GGGG", -2, -1, Local)
	assert.Equal(t, 0, r.Score)
	assert.Equal(t, "", r.A)
	assert.Equal(t, "", r.B)
}

func TestLocalTieBreak(t *testing.T) {
	// Several equal-scoring windows exist; the first under row-major
	// traversal must win, every time.
	first := Align("AAAA", "AA", -2, -1, Local)
	assert.Equal(t, 2, first.Score)
	assert.Equal(t, 0, first.Begin)
	assert.Equal(t, 2, first.End)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Align("AAAA", "AA", -2, -1, Local))
	}
}

func TestGlobalScores(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"TTTGGG", "TTTGGG", 6},  // exact
		{"TTTGGG", "TTTGAG", 5},  // one mismatch
		{"TTTGGG", "TTTGAA", 4},  // two mismatches
		{"TTTGGG", "TTTGG", 4},   // one deletion: 5 matches, one gap
		{"TTTGGG", "TTTGGGA", 5}, // one insertion: 6 matches, one gap
		{"ACGT", "TGCA", 0},      // all-mismatch diagonal beats any gapped match
	}
	for _, test := range tests {
		r := Align(test.a, test.b, -1, -1, Global)
		assert.Equal(t, test.want, r.Score, "Align(%q, %q)", test.a, test.b)
		assert.Equal(t, len(r.A), len(r.B), "Align(%q, %q)", test.a, test.b)
	}
}

func TestGlobalGapAnnotation(t *testing.T) {
	r := Align("TTTGGG", "TTTGG", -1, -1, Global)
	assert.Equal(t, 4, r.Score)
	assert.False(t, strings.Contains(r.A, "-"))
	assert.True(t, strings.Contains(r.B, "-"))
	assert.Equal(t, 6, len(r.B))
}

func TestGlobalAffineGapCost(t *testing.T) {
	// A two-symbol gap costs open plus extend, not open twice.
	r := Align("AAAATT", "AAAA", -2, -1, Global)
	assert.Equal(t, 4-3, r.Score)
	assert.Equal(t, "AAAATT", r.A)
	assert.Equal(t, "AAAA--", r.B)
}

func TestDeterminism(t *testing.T) {
	a := "CCCCTAGCCATCGCATTGCGGGG"
	b := "TAGCCATCGCATTGC"
	first := Align(a, b, -2, -1, Local)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Align(a, b, -2, -1, Local))
	}
	firstGlobal := Align("TTTGGG", "TTTGAG", -1, -1, Global)
	for i := 0; i < 20; i++ {
		assert.Equal(t, firstGlobal, Align("TTTGGG", "TTTGAG", -1, -1, Global))
	}
}

func TestEmptyInputs(t *testing.T) {
	r := Align("", "", -1, -1, Global)
	assert.Equal(t, 0, r.Score)
	assert.Equal(t, "", r.A)

	r = Align("ACGT", "", -1, -1, Global)
	assert.Equal(t, -4, r.Score)
	assert.Equal(t, "ACGT", r.A)
	assert.Equal(t, "----", r.B)

	r = Align("", "ACGT", -2, -1, Local)
	assert.Equal(t, 0, r.Score)
}
