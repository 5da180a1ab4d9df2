package tagger

import "sort"

// Stats aggregates per-read outcomes for summary reporting.
type Stats struct {
	// Pass counts successfully tagged reads.
	Pass int
	// Errors counts failed reads per error code.
	Errors map[ErrorCode]int
	// Cells counts successfully tagged reads per cell barcode.
	Cells map[string]int
}

// NewStats returns an empty Stats.
func NewStats() *Stats {
	return &Stats{
		Errors: map[ErrorCode]int{},
		Cells:  map[string]int{},
	}
}

// Add records the outcome of one read.
func (s *Stats) Add(t TagSet) {
	if t.Failed() {
		s.Errors[t.Code]++
		return
	}
	s.Pass++
	s.Cells[t.CellBarcode]++
}

// Merge folds the counts of o into s.
func (s *Stats) Merge(o *Stats) {
	s.Pass += o.Pass
	for code, n := range o.Errors {
		s.Errors[code] += n
	}
	for bc, n := range o.Cells {
		s.Cells[bc] += n
	}
}

// Total returns the number of reads recorded: the success count plus
// the sum over all error codes.
func (s *Stats) Total() int {
	n := s.Pass
	for _, c := range s.Errors {
		n += c
	}
	return n
}

// CellCount is one row of the cell barcode distribution.
type CellCount struct {
	Barcode     string
	Count       int
	CumFraction float64
}

// CellDistribution returns per-barcode counts sorted by descending
// count, ties broken lexicographically for determinism. Each row
// carries the cumulative fraction of passing reads up to and including
// it; the last row's fraction is 1.0.
func (s *Stats) CellDistribution() []CellCount {
	rows := make([]CellCount, 0, len(s.Cells))
	for bc, n := range s.Cells {
		rows = append(rows, CellCount{Barcode: bc, Count: n})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Barcode < rows[j].Barcode
	})
	cum := 0
	for i := range rows {
		cum += rows[i].Count
		rows[i].CumFraction = float64(cum) / float64(s.Pass)
	}
	return rows
}
