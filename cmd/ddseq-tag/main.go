package main

// ddseq-tag extracts cellular barcodes and UMIs from ddSEQ single-cell
// RNA-seq read pairs.
//
// uBAM mode reads a merged paired-end uBAM in strict R1/R2 alternation
// and writes the second read of each pair, tagged and unmapped:
//
//    ddseq-tag -barcodes barcodes.txt input.bam output.bam
//
// FASTQ mode reads an R1/R2 FASTQ pair (optionally compressed) and
// writes the tagged R2 records:
//
//    ddseq-tag -barcodes barcodes.txt -r1 r1.fq.gz -r2 r2.fq.gz -output tagged.fq.gz
//
// Tags: XB = cell barcode, XU = UMI, XE = error code.

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/hts/bam"
	"github.com/grailbio/hts/sam"
	"github.com/klauspost/pgzip"

	"github.com/grailbio/ddseq/encoding/fastq"
	"github.com/grailbio/ddseq/tagger"
)

// Read pairs are tagged in batches of this many to bound memory while
// keeping the worker pool busy.
const batchSize = 64 * 1024

var (
	xbTag = sam.NewTag("XB")
	xuTag = sam.NewTag("XU")
	xeTag = sam.NewTag("XE")
)

func usage() {
	fmt.Fprintln(os.Stderr, `
ddseq-tag extracts cellular barcodes and molecular identifiers (UMIs)
from ddSEQ single-cell RNA sequencing read pairs.

Usage:
  ddseq-tag -barcodes barcodes.txt [flags] input.bam output.bam
  ddseq-tag -barcodes barcodes.txt [flags] -r1 r1.fq -r2 r2.fq -output tagged.fq`)
	flag.PrintDefaults()
	os.Exit(2)
}

func main() {
	var (
		barcodesFlag    = flag.String("barcodes", "", "Barcode block dictionary file (required).")
		summaryFlag     = flag.String("summary", "", "Summary file name prefix. If empty, no summary is written.")
		parallelismFlag = flag.Int("parallelism", runtime.NumCPU(), "Number of concurrent tagging workers.")
		r1Flag          = flag.String("r1", "", "R1 FASTQ input (enables FASTQ mode).")
		r2Flag          = flag.String("r2", "", "R2 FASTQ input (enables FASTQ mode).")
		outputFlag      = flag.String("output", "", "Tagged R2 FASTQ output; compressed if it ends in .gz.")
	)
	flag.Usage = usage
	cleanup := grail.Init()
	defer cleanup()
	ctx := vcontext.Background()

	if *barcodesFlag == "" {
		log.Fatal("-barcodes is required")
	}
	// Dictionary problems are fatal before any read is processed.
	dict, err := loadDict(ctx, *barcodesFlag)
	if err != nil {
		log.Fatalf("ddseq-tag: %v", err)
	}
	tg := tagger.NewTagger(dict)
	stats := tagger.NewStats()

	switch {
	case *r1Flag != "" || *r2Flag != "":
		if *r1Flag == "" || *r2Flag == "" || *outputFlag == "" {
			log.Fatal("FASTQ mode requires -r1, -r2 and -output")
		}
		if flag.NArg() != 0 {
			usage()
		}
		err = tagFASTQ(ctx, *r1Flag, *r2Flag, *outputFlag, tg, *parallelismFlag, stats)
	default:
		if flag.NArg() != 2 {
			usage()
		}
		err = tagBAM(ctx, flag.Arg(0), flag.Arg(1), tg, *parallelismFlag, stats)
	}
	if err != nil {
		log.Fatalf("ddseq-tag: %v", err)
	}

	if *summaryFlag != "" {
		if err := writeSummary(ctx, *summaryFlag, stats); err != nil {
			log.Fatalf("ddseq-tag: writing summary: %v", err)
		}
	}
	log.Printf("Done: %d read pairs, %d tagged", stats.Total(), stats.Pass)
}

func loadDict(ctx context.Context, path string) (tagger.Dict, error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("barcode dictionary %s: %v", path, err)
	}
	dict, err := tagger.ReadDict(in.Reader(ctx))
	once := errors.Once{}
	once.Set(err)
	once.Set(in.Close(ctx))
	if err := once.Err(); err != nil {
		return nil, fmt.Errorf("barcode dictionary %s: %v", path, err)
	}
	log.Printf("Loaded %d barcode blocks from %s", len(dict), path)
	return dict, nil
}

// tagBAM reads pairs from a merged uBAM and writes the tagged second
// read of each pair. The input's strict R1/R2 alternation is validated:
// a name mismatch or inverted pair flags abort the run. Closes run on
// every path; a processing error takes precedence over close errors.
func tagBAM(ctx context.Context, inPath, outPath string, tg *tagger.Tagger, parallelism int, stats *tagger.Stats) (err error) {
	once := &errors.Once{}
	defer func() {
		if err == nil {
			err = once.Err()
		}
	}()
	in, err := file.Open(ctx, inPath)
	if err != nil {
		return err
	}
	defer func() { once.Set(in.Close(ctx)) }()
	br, err := bam.NewReader(in.Reader(ctx), parallelism)
	if err != nil {
		return err
	}
	out, err := file.Create(ctx, outPath)
	if err != nil {
		return err
	}
	defer func() { once.Set(out.Close(ctx)) }()
	bw, err := bam.NewWriter(out.Writer(ctx), br.Header(), parallelism)
	if err != nil {
		return err
	}
	defer func() { once.Set(bw.Close()) }()

	var (
		seqs   []string
		mates  []*sam.Record
		nPairs int
	)
	flush := func() error {
		for i, ts := range tg.TagAll(seqs, parallelism) {
			stats.Add(ts)
			if err := attachTags(mates[i], ts); err != nil {
				return err
			}
			if err := bw.Write(mates[i]); err != nil {
				return err
			}
		}
		seqs = seqs[:0]
		mates = mates[:0]
		return nil
	}
	for {
		r1, err := br.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		r2, err := br.Read()
		if err == io.EOF {
			return fmt.Errorf("%s: odd number of records, want strict R1/R2 alternation", inPath)
		}
		if err != nil {
			return err
		}
		if r1.Name != r2.Name {
			return fmt.Errorf("%s: reads %q and %q are not a pair, want strict R1/R2 alternation", inPath, r1.Name, r2.Name)
		}
		if r1.Flags&sam.Read2 != 0 || r2.Flags&sam.Read1 != 0 {
			return fmt.Errorf("%s: R1/R2 order inverted for %q", inPath, r1.Name)
		}
		seqs = append(seqs, string(r1.Seq.Expand()))
		mates = append(mates, r2)
		nPairs++
		if len(seqs) == batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
		if nPairs%(1024*1024) == 0 {
			log.Printf("%s: %dMi read pairs", inPath, nPairs/(1024*1024))
		}
	}
	if len(seqs) > 0 {
		if err := flush(); err != nil {
			return err
		}
	}
	return nil
}

// attachTags appends the outcome of one read as aux tags on its mate
// and marks the mate unmapped, whatever its input flags were.
func attachTags(rec *sam.Record, ts tagger.TagSet) error {
	if ts.Failed() {
		aux, err := sam.NewAux(xeTag, string(ts.Code))
		if err != nil {
			return err
		}
		rec.AuxFields = append(rec.AuxFields, aux)
	} else {
		xb, err := sam.NewAux(xbTag, ts.CellBarcode)
		if err != nil {
			return err
		}
		xu, err := sam.NewAux(xuTag, ts.UMI)
		if err != nil {
			return err
		}
		rec.AuxFields = append(rec.AuxFields, xb, xu)
	}
	rec.Flags = sam.Unmapped
	return nil
}

// tagFASTQ reads an R1/R2 FASTQ pair and writes the R2 records with the
// outcome appended to their header lines as SAM-style attributes.
func tagFASTQ(ctx context.Context, r1Path, r2Path, outPath string, tg *tagger.Tagger, parallelism int, stats *tagger.Stats) (err error) {
	once := &errors.Once{}
	defer func() {
		if err == nil {
			err = once.Err()
		}
	}()
	in1, err := file.Open(ctx, r1Path)
	if err != nil {
		return err
	}
	defer func() { once.Set(in1.Close(ctx)) }()
	in2, err := file.Open(ctx, r2Path)
	if err != nil {
		return err
	}
	defer func() { once.Set(in2.Close(ctx)) }()
	var (
		r1R io.Reader = in1.Reader(ctx)
		r2R io.Reader = in2.Reader(ctx)
	)
	if u := compress.NewReaderPath(r1R, in1.Name()); u != nil {
		r1R = u
	}
	if u := compress.NewReaderPath(r2R, in2.Name()); u != nil {
		r2R = u
	}
	sc := fastq.NewPairScanner(r1R, r2R)

	out, err := file.Create(ctx, outPath)
	if err != nil {
		return err
	}
	defer func() { once.Set(out.Close(ctx)) }()
	var w io.Writer = out.Writer(ctx)
	if strings.HasSuffix(outPath, ".gz") {
		gz := pgzip.NewWriter(w)
		defer func() { once.Set(gz.Close()) }()
		w = gz
	}
	fw := fastq.NewWriter(w)

	var (
		seqs  []string
		mates []fastq.Read
	)
	flush := func() error {
		for i, ts := range tg.TagAll(seqs, parallelism) {
			stats.Add(ts)
			if err := fw.Write(mates[i].WithComment(formatTags(ts))); err != nil {
				return err
			}
		}
		seqs = seqs[:0]
		mates = mates[:0]
		return nil
	}
	var r1, r2 fastq.Read
	for sc.Scan(&r1, &r2) {
		seqs = append(seqs, r1.Seq)
		mates = append(mates, r2)
		if len(seqs) == batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	if len(seqs) > 0 {
		if err := flush(); err != nil {
			return err
		}
	}
	return nil
}

func formatTags(ts tagger.TagSet) string {
	if ts.Failed() {
		return "XE:Z:" + string(ts.Code)
	}
	return "XB:Z:" + ts.CellBarcode + " XU:Z:" + ts.UMI
}
