// Package fastq reads and writes FASTQ records for unaligned read
// pairs. It validates only the record framing (the "@" ID line and the
// "+" separator); sequence and quality content pass through untouched.
package fastq

import (
	"bufio"
	"errors"
	"io"
)

var (
	// ErrShort is returned when a record is cut off mid-way.
	ErrShort = errors.New("short FASTQ file")
	// ErrInvalid is returned when record framing is malformed.
	ErrInvalid = errors.New("invalid FASTQ file")
	// ErrDiscordant is returned when two paired FASTQ streams end after
	// a different number of records.
	ErrDiscordant = errors.New("discordant FASTQ pairs")
)

var errEOF = errors.New("eof")

// A Read is one FASTQ record: header line, sequence, separator line,
// and quality string.
type Read struct {
	ID, Seq, Plus, Qual string
}

// WithComment returns a copy of r whose header line carries comment
// after a single space. This is the usual place for SAM-style
// attributes on FASTQ records.
func (r Read) WithComment(comment string) Read {
	r.ID = r.ID + " " + comment
	return r
}

// Scanner reads FASTQ records one at a time. Scanners are not thread
// safe.
type Scanner struct {
	b   *bufio.Scanner
	err error
}

// NewScanner returns a Scanner reading raw FASTQ data from r.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{b: bufio.NewScanner(r)}
}

// Scan reads the next record into read, reporting whether it
// succeeded. Once Scan returns false it never returns true again;
// check Err to distinguish end of input from a failure.
func (s *Scanner) Scan(read *Read) bool {
	if s.err != nil {
		return false
	}
	if !s.b.Scan() {
		if s.err = s.b.Err(); s.err == nil {
			s.err = errEOF
		}
		return false
	}
	id := s.b.Text()
	if len(id) == 0 || id[0] != '@' {
		s.err = ErrInvalid
		return false
	}
	read.ID = id
	if !s.next() {
		return false
	}
	read.Seq = s.b.Text()
	if !s.next() {
		return false
	}
	plus := s.b.Text()
	if len(plus) == 0 || plus[0] != '+' {
		s.err = ErrInvalid
		return false
	}
	read.Plus = plus
	if !s.next() {
		return false
	}
	read.Qual = s.b.Text()
	return true
}

func (s *Scanner) next() bool {
	if s.b.Scan() {
		return true
	}
	if s.err = s.b.Err(); s.err == nil {
		s.err = ErrShort
	}
	return false
}

// Err returns the scanning error, if any.
func (s *Scanner) Err() error {
	if s.err == errEOF {
		return nil
	}
	return s.err
}

// PairScanner scans two FASTQ streams in lockstep.
type PairScanner struct {
	r1, r2 *Scanner
	err    error
}

// NewPairScanner returns a PairScanner over the R1 and R2 streams.
func NewPairScanner(r1, r2 io.Reader) *PairScanner {
	return &PairScanner{r1: NewScanner(r1), r2: NewScanner(r2)}
}

// Scan reads the next record of each stream into r1 and r2. If one
// stream ends before the other, Err reports ErrDiscordant.
func (p *PairScanner) Scan(r1, r2 *Read) bool {
	ok1 := p.r1.Scan(r1)
	ok2 := p.r2.Scan(r2)
	if ok1 != ok2 {
		p.err = ErrDiscordant
	}
	return ok1 && ok2
}

// Err returns the scanning error, if any. Check it after Scan returns
// false.
func (p *PairScanner) Err() error {
	if err := p.r1.Err(); err != nil {
		return err
	}
	if err := p.r2.Err(); err != nil {
		return err
	}
	return p.err
}

// Writer writes FASTQ records. The first write error sticks; later
// writes are no-ops returning that error.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter returns a Writer emitting records to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write writes r as four FASTQ lines.
func (w *Writer) Write(r Read) error {
	w.writeln(r.ID)
	w.writeln(r.Seq)
	w.writeln(r.Plus)
	w.writeln(r.Qual)
	return w.err
}

func (w *Writer) writeln(line string) {
	if w.err != nil {
		return
	}
	if _, w.err = io.WriteString(w.w, line); w.err == nil {
		_, w.err = w.w.Write([]byte{'\n'})
	}
}
