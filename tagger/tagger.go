// Package tagger extracts the cellular barcode and molecular
// identifier (UMI) from the first read of each ddSEQ paired-end
// fragment. Two fixed linker sequences are located inside the read by
// approximate alignment; three barcode blocks and the UMI are then
// sliced relative to the linkers and error-corrected against a
// dictionary of canonical barcode blocks.
package tagger

import (
	"strings"

	"github.com/grailbio/ddseq/util"
)

// ErrorCode classifies why a read could not be tagged. Codes are
// terminal per-read outcomes, never retried.
type ErrorCode string

const (
	// ErrNoLinker: neither linker aligned.
	ErrNoLinker ErrorCode = "LX"
	// ErrLinker1: linker 1 did not align.
	ErrLinker1 ErrorCode = "L1"
	// ErrLinker2: linker 2 did not align.
	ErrLinker2 ErrorCode = "L2"
	// ErrBlock2Indel: more than one indel in barcode block 2.
	ErrBlock2Indel ErrorCode = "I"
	// ErrShortPrefix: deletion in the phase block or barcode block 1.
	ErrShortPrefix ErrorCode = "D"
	// ErrACG: indel in barcode block 3 or the ACG trinucleotide.
	ErrACG ErrorCode = "J"
	// ErrGAC: indel in the UMI or the GAC trinucleotide.
	ErrGAC ErrorCode = "K"
	// ErrBarcode: a barcode block with more than one mismatch.
	ErrBarcode ErrorCode = "B"
)

// Codes lists all error codes in reporting order.
var Codes = []ErrorCode{
	ErrNoLinker, ErrLinker1, ErrLinker2, ErrBlock2Indel,
	ErrShortPrefix, ErrACG, ErrGAC, ErrBarcode,
}

// TagSet is the outcome of tagging one read: either a cell barcode
// (the concatenation of three corrected blocks) plus an 8-symbol UMI,
// or an error code. Exactly one of the two variants is set.
type TagSet struct {
	CellBarcode string
	UMI         string
	Code        ErrorCode
}

// Failed reports whether the read could not be tagged.
func (t TagSet) Failed() bool { return t.Code != "" }

// Tagger tags R1 sequences against a fixed barcode dictionary. Apart
// from the read-only dictionary it is stateless, so a single Tagger is
// safe for concurrent use by any number of workers.
type Tagger struct {
	dict Dict
}

// NewTagger returns a Tagger backed by the given dictionary.
func NewTagger(dict Dict) *Tagger {
	return &Tagger{dict: dict}
}

// Tag runs the tagging decision tree on one read. The read is
// uppercased first; every derived slice is clamped to the read bounds,
// so malformed geometry surfaces as one of the eight error codes, never
// as a panic.
func (t *Tagger) Tag(read string) TagSet {
	read = strings.ToUpper(read)
	h1 := locateLinker(read, Linker1)
	h2 := locateLinker(read, Linker2)
	switch {
	case !h1.ok && !h2.ok:
		return TagSet{Code: ErrNoLinker}
	case !h1.ok:
		return TagSet{Code: ErrLinker1}
	case !h2.ok:
		return TagSet{Code: ErrLinker2}
	}

	// Block 2 sits immediately before linker 2. The expected distance
	// between the linker starts is 21 (6 block symbols plus the linker),
	// shifted by linker 1's indel adjustment; a one-symbol shortfall or
	// excess is a deletion or insertion within the block itself.
	var block2 string
	switch h2.start - h1.start {
	case 21 + h1.k:
		block2 = substr(read, h2.start-6, h2.start)
	case 20 + h1.k:
		block2 = substr(read, h2.start-5, h2.start)
	case 22 + h1.k:
		block2 = substr(read, h2.start-7, h2.start)
	default:
		return TagSet{Code: ErrBlock2Indel}
	}

	// Block 1 precedes linker 1. The phase block in front of it varies
	// from 0 to 3 symbols, so fewer than 5 symbols of room means a
	// deletion; exactly 5 means the block itself lost its first symbol.
	var block1 string
	switch {
	case h1.start < 5:
		return TagSet{Code: ErrShortPrefix}
	case h1.start == 5:
		block1 = read[:h1.start]
	default:
		block1 = substr(read, h1.start-6, h1.start)
	}

	// The ACG and GAC trinucleotides bracket the UMI and each tolerates
	// one mismatch. A clamped slice has the wrong length and counts as
	// infinitely distant.
	if d, err := util.Hamming(substr(read, h2.start+21+h2.k, h2.start+24+h2.k), "ACG"); err != nil || d > 1 {
		return TagSet{Code: ErrACG}
	}
	if d, err := util.Hamming(substr(read, h2.start+32+h2.k, h2.start+35+h2.k), "GAC"); err != nil || d > 1 {
		return TagSet{Code: ErrGAC}
	}

	block3 := substr(read, h2.start+15+h2.k, h2.start+21+h2.k)

	var cell strings.Builder
	for _, block := range []string{block1, block2, block3} {
		bc, ok := t.dict.Match(block)
		if !ok {
			return TagSet{Code: ErrBarcode}
		}
		cell.WriteString(bc)
	}

	umi := substr(read, h2.start+24+h2.k, h2.start+32+h2.k)
	return TagSet{CellBarcode: cell.String(), UMI: umi}
}

// substr returns s[begin:end] clamped to the bounds of s. Out-of-range
// slices come back shorter (or empty) and are rejected by the length
// and distance checks downstream.
func substr(s string, begin, end int) string {
	if begin < 0 {
		begin = 0
	}
	if end > len(s) {
		end = len(s)
	}
	if begin >= end {
		return ""
	}
	return s[begin:end]
}
