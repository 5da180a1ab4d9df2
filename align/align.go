// Package align implements approximate pairwise alignment of short
// nucleotide sequences under the scoring scheme used for linker and
// barcode recovery: identical aligned symbols score +1, non-identical
// symbols score 0, and gaps carry affine costs. The gap-open penalty is
// charged for the first symbol of a gap and the gap-extend penalty for
// each additional symbol; both are supplied as negative values.
package align

// Mode selects the alignment variant.
type Mode int

const (
	// Local computes a Smith-Waterman style alignment of the best-scoring
	// window of the two sequences.
	Local Mode = iota
	// Global computes a Needleman-Wunsch style alignment of the two
	// sequences end to end. End gaps are penalized.
	Global
)

// Result is the outcome of a single alignment. A and B are the
// gap-annotated representations of the aligned window of the first and
// second input, respectively; they have equal length, one byte per
// alignment column, with '-' marking a gap. Begin is the offset in the
// first input at which the aligned window starts, and End-Begin is the
// number of alignment columns in the window. For Global mode the window
// always covers both inputs entirely.
type Result struct {
	Score      int
	A, B       string
	Begin, End int
}

const gapSym = '-'

// ninf is a score low enough that no legal alignment path can recover
// from it, yet far from the int minimum so that adding penalties to it
// cannot overflow.
const ninf = -1 << 30

// The three matrices of the affine-gap (Gotoh) recurrence. mat
// identifies which matrix a traceback step is in.
type mat uint8

const (
	matM  mat = iota // column aligns a[i-1] with b[j-1]
	matGA            // column is a gap in a, consuming b[j-1]
	matGB            // column is a gap in b, consuming a[i-1]
)

// Align aligns a against b and returns the optimal score together with
// the aligned window. gapOpen and gapExtend must be negative (or zero).
//
// Ties among equal-scoring alignments are resolved deterministically:
// in Local mode the maximal cell with the smallest (row, column) wins,
// and traceback prefers an aligned pair over a gap in b over a gap in
// a. Callers branch on exact Begin offsets and gap placement, so this
// order must not change.
func Align(a, b string, gapOpen, gapExtend int, mode Mode) Result {
	n, m := len(a), len(b)
	w := m + 1

	// Row-major (n+1) x (m+1) score matrices.
	mm := make([]int, (n+1)*w) // best path ending in an aligned pair
	ga := make([]int, (n+1)*w) // best path ending with a gap in a
	gb := make([]int, (n+1)*w) // best path ending with a gap in b

	for j := 1; j <= m; j++ {
		if mode == Global {
			mm[j] = ninf
			ga[j] = gapOpen + (j-1)*gapExtend
		} else {
			mm[j] = 0
			ga[j] = ninf
		}
		gb[j] = ninf
	}
	ga[0] = ninf
	gb[0] = ninf
	for i := 1; i <= n; i++ {
		p := i * w
		if mode == Global {
			mm[p] = ninf
			gb[p] = gapOpen + (i-1)*gapExtend
		} else {
			mm[p] = 0
			gb[p] = ninf
		}
		ga[p] = ninf
	}

	// Best local cell, scanned in row-major order so that the first
	// maximum encountered wins ties.
	best, bestI, bestJ := 0, 0, 0

	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			p := i*w + j
			d := (i-1)*w + (j - 1)

			s := 0
			if a[i-1] == b[j-1] {
				s = 1
			}
			diag := max3(mm[d], ga[d], gb[d])
			if mode == Local && diag < 0 {
				// A local alignment may start fresh at this column.
				diag = 0
			}
			mm[p] = diag + s

			left := i*w + (j - 1)
			ga[p] = max3(mm[left]+gapOpen, ga[left]+gapExtend, gb[left]+gapOpen)
			up := (i-1)*w + j
			gb[p] = max3(mm[up]+gapOpen, gb[up]+gapExtend, ga[up]+gapOpen)

			if mode == Local && mm[p] > best {
				best, bestI, bestJ = mm[p], i, j
			}
		}
	}

	if mode == Local {
		if best == 0 {
			// Nothing aligns: not even a single matching symbol.
			return Result{}
		}
		aA, aB, begin := traceback(a, b, mm, ga, gb, w, bestI, bestJ, matM, gapOpen, gapExtend, mode)
		return Result{Score: best, A: aA, B: aB, Begin: begin, End: begin + len(aA)}
	}

	end := n*w + m
	score := max3(mm[end], ga[end], gb[end])
	start := matM
	switch score {
	case mm[end]:
	case ga[end]:
		start = matGA
	default:
		start = matGB
	}
	aA, aB, _ := traceback(a, b, mm, ga, gb, w, n, m, start, gapOpen, gapExtend, mode)
	return Result{Score: score, A: aA, B: aB, Begin: 0, End: len(aA)}
}

// traceback reconstructs the aligned window ending at (i, j) in matrix
// from. It returns the gap-annotated strings and, for Local mode, the
// offset in a at which the window begins. Predecessors are recovered by
// re-deriving which term produced each cell's score, with a fixed
// preference order (aligned pair, then gap in b, then gap in a).
func traceback(a, b string, mm, ga, gb []int, w, i, j int, from mat, gapOpen, gapExtend int, mode Mode) (string, string, int) {
	var bufA, bufB []byte // built in reverse
	cur := from
	for i > 0 || j > 0 {
		p := i*w + j
		switch cur {
		case matM:
			bufA = append(bufA, a[i-1])
			bufB = append(bufB, b[j-1])
			s := 0
			if a[i-1] == b[j-1] {
				s = 1
			}
			want := mm[p] - s
			i--
			j--
			if mode == Local && want <= 0 {
				// The local window starts at this column.
				reverse(bufA)
				reverse(bufB)
				return string(bufA), string(bufB), i
			}
			d := i*w + j
			switch want {
			case mm[d]:
				cur = matM
			case gb[d]:
				cur = matGB
			default:
				cur = matGA
			}
		case matGA:
			bufA = append(bufA, gapSym)
			bufB = append(bufB, b[j-1])
			v := ga[p]
			j--
			d := i*w + j
			switch {
			case mm[d]+gapOpen == v:
				cur = matM
			case ga[d]+gapExtend == v:
				cur = matGA
			default:
				cur = matGB
			}
		case matGB:
			bufA = append(bufA, a[i-1])
			bufB = append(bufB, gapSym)
			v := gb[p]
			i--
			d := i*w + j
			switch {
			case mm[d]+gapOpen == v:
				cur = matM
			case gb[d]+gapExtend == v:
				cur = matGB
			default:
				cur = matGA
			}
		}
	}
	reverse(bufA)
	reverse(bufB)
	return string(bufA), string(bufB), 0
}

func max3(a, b, c int) int {
	if b > a {
		a = b
	}
	if c > a {
		a = c
	}
	return a
}

func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}
