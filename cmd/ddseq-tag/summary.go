package main

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"

	"github.com/grailbio/ddseq/tagger"
)

// writeSummary writes <prefix>.errors and <prefix>.cell_barcodes.
func writeSummary(ctx context.Context, prefix string, stats *tagger.Stats) error {
	if err := writeReport(ctx, prefix+".errors", stats, writeErrorSummary); err != nil {
		return err
	}
	return writeReport(ctx, prefix+".cell_barcodes", stats, writeCellSummary)
}

func writeReport(ctx context.Context, path string, stats *tagger.Stats, fn func(io.Writer, *tagger.Stats) error) error {
	out, err := file.Create(ctx, path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(out.Writer(ctx))
	er := errors.Once{}
	er.Set(fn(w, stats))
	er.Set(w.Flush())
	er.Set(out.Close(ctx))
	return er.Err()
}

// writeErrorSummary writes one row per outcome in fixed order, with the
// fraction over all reads processed.
func writeErrorSummary(w io.Writer, stats *tagger.Stats) error {
	total := stats.Total()
	if _, err := fmt.Fprintf(w, "Error\tCount\tFraction\n"); err != nil {
		return err
	}
	row := func(name string, count int) error {
		fraction := 0.0
		if total > 0 {
			fraction = float64(count) / float64(total)
		}
		_, err := fmt.Fprintf(w, "%s\t%d\t%g\n", name, count, fraction)
		return err
	}
	for _, code := range tagger.Codes {
		if err := row(string(code), stats.Errors[code]); err != nil {
			return err
		}
	}
	return row("PASS", stats.Pass)
}

// writeCellSummary writes per-barcode counts sorted by descending count
// with the cumulative fraction of passing reads.
func writeCellSummary(w io.Writer, stats *tagger.Stats) error {
	if _, err := fmt.Fprintf(w, "Cell_Barcode\tCount\tCumulative_Sum\n"); err != nil {
		return err
	}
	for _, row := range stats.CellDistribution() {
		if _, err := fmt.Fprintf(w, "%s\t%d\t%g\n", row.Barcode, row.Count, row.CumFraction); err != nil {
			return err
		}
	}
	return nil
}
