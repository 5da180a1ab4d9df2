package tagger

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/grailbio/ddseq/align"
)

// MaxBarcodes caps the dictionary at the 96 canonical barcode blocks of
// the assay; any further input lines are ignored.
const MaxBarcodes = 96

// Gap penalties for snapping a block to a dictionary entry by global
// alignment.
const (
	blockGapOpen   = -1
	blockGapExtend = -1
)

// Dict is an ordered dictionary of canonical barcode blocks. It is
// loaded once at startup, before any read is processed, and shared
// read-only across workers.
type Dict []string

// ReadDict reads a barcode dictionary: the first whitespace-delimited
// token of each of the first MaxBarcodes lines, uppercased. A blank
// line or an empty input is an error; dictionary problems are fatal
// configuration failures, never per-read outcomes.
func ReadDict(r io.Reader) (Dict, error) {
	scanner := bufio.NewScanner(r)
	var dict Dict
	line := 0
	for len(dict) < MaxBarcodes && scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			return nil, errors.Errorf("barcode dictionary: line %d is blank", line)
		}
		dict = append(dict, strings.ToUpper(fields[0]))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading barcode dictionary")
	}
	if len(dict) == 0 {
		return nil, errors.New("barcode dictionary is empty")
	}
	return dict, nil
}

// Match snaps block to the closest dictionary entry, tolerating one
// edit: the first entry, in dictionary order, whose global alignment
// score against the block reaches the threshold (4 for 5-symbol blocks,
// 5 otherwise) wins, even if a later entry would score higher. The
// dictionary-order tie-break is deliberate and must be preserved.
func (d Dict) Match(block string) (string, bool) {
	for _, bc := range d {
		r := align.Align(bc, block, blockGapOpen, blockGapExtend, align.Global)
		if (len(block) == 5 && r.Score >= 4) || (len(block) >= 6 && r.Score >= 5) {
			return bc, true
		}
	}
	return "", false
}
