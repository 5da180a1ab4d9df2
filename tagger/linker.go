package tagger

import (
	"strings"

	"github.com/grailbio/ddseq/align"
)

// The two fixed 15-symbol linkers that anchor the barcode blocks inside
// R1. They appear in this order in every well-formed read.
const (
	Linker1 = "TAGCCATCGCATTGC"
	Linker2 = "TACCTCTGAGCTGAA"

	linkerLen = 15
)

// Gap penalties for locating a linker by local alignment.
const (
	linkerGapOpen   = -2
	linkerGapExtend = -1
)

// linkerHit is the classified position of one linker within a read.
// start is the read offset of the linker's first symbol. k is the
// signed indel adjustment: -1 when the read lost a symbol relative to
// the linker, +1 when it gained one, shifting everything downstream of
// the linker by k.
type linkerHit struct {
	start int
	k     int
	ok    bool
}

// locateLinker finds linker inside read by local alignment and
// classifies the hit, tolerating at most one mismatch or one indel.
// Alignments that do not fit any tolerated shape yield ok=false.
// locateLinker is a pure function of its inputs.
func locateLinker(read, linker string) linkerHit {
	r := align.Align(read, linker, linkerGapOpen, linkerGapExtend, align.Local)
	length := r.End - r.Begin
	switch {
	case (r.Score == linkerLen || r.Score == linkerLen-1) && length == linkerLen:
		// Exact match, or a single mismatch inside the linker.
		return linkerHit{start: r.Begin, k: 0, ok: true}
	case r.Score == linkerLen-1 && length == linkerLen-1:
		// Single mismatch at the linker's first position: the local window
		// drops the mismatched column, so the linker starts one symbol
		// before the window.
		return linkerHit{start: r.Begin - 1, k: 0, ok: true}
	case r.Score == linkerLen-3 && length == linkerLen && strings.ContainsRune(r.A, '-'):
		// Single deletion in the read: 14 matches minus the gap-open cost.
		return linkerHit{start: r.Begin, k: -1, ok: true}
	case r.Score == linkerLen-2 && length == linkerLen+1 && strings.ContainsRune(r.B, '-'):
		// Single insertion in the read: 15 matches minus the gap-open cost.
		return linkerHit{start: r.Begin, k: 1, ok: true}
	default:
		return linkerHit{}
	}
}
