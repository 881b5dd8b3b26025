package output

import (
	"bufio"
	"fmt"
	"io"
	"sync"

	"db-compare/core/reconcile"
)

// Sink receives rendered diffs. Implementations serialize writes so the lines
// of one record are never interleaved with another's.
type Sink interface {
	// StartBlock opens the section for one job and table.
	StartBlock(job, table string) error
	// Write emits one window's diff record.
	Write(rec reconcile.DiffRecord) error
	// EndBlock closes the section opened by StartBlock.
	EndBlock(job, table string) error
	// Comment emits a free-form "@@ text @@" line.
	Comment(text string) error
	// Close flushes and releases the sink.
	Close() error
}

// Writer is a Sink over any io.Writer.
type Writer struct {
	mu     sync.Mutex
	buf    *bufio.Writer
	closer io.Closer
}

// NewWriter creates a sink writing to w. If w is an io.Closer it is closed by Close.
func NewWriter(w io.Writer) *Writer {
	s := &Writer{buf: bufio.NewWriter(w)}
	if c, ok := w.(io.Closer); ok {
		s.closer = c
	}
	return s
}

// NewConsole creates a sink writing to w without taking ownership of it.
func NewConsole(w io.Writer) *Writer {
	return &Writer{buf: bufio.NewWriter(w)}
}

// StartBlock implements Sink.
func (s *Writer) StartBlock(job, table string) error {
	return s.lines(fmt.Sprintf("@@ #start# %s @@", blockLabel(job, table)))
}

// EndBlock implements Sink.
func (s *Writer) EndBlock(job, table string) error {
	return s.lines(fmt.Sprintf("@@ %s #end# @@", blockLabel(job, table)))
}

// Comment implements Sink.
func (s *Writer) Comment(text string) error {
	if text == "" {
		return nil
	}
	return s.lines(fmt.Sprintf("@@ %s @@", text))
}

// Write implements Sink.
func (s *Writer) Write(rec reconcile.DiffRecord) error {
	return s.lines(Format(rec)...)
}

// Close implements Sink.
func (s *Writer) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.buf.Flush(); err != nil {
		return err
	}
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

func (s *Writer) lines(lines ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, line := range lines {
		if line == "" {
			continue
		}
		if _, err := s.buf.WriteString(line); err != nil {
			return err
		}
		if err := s.buf.WriteByte('\n'); err != nil {
			return err
		}
	}
	return s.buf.Flush()
}

// Format returns the lines a DiffRecord renders to.
func Format(rec reconcile.DiffRecord) []string {
	var out []string
	if rec.Header != "" {
		out = append(out, fmt.Sprintf("@@ %s @@", rec.Header))
	}
	if rec.Empty() {
		return append(out, "@@ No diff @@")
	}
	out = append(out, rec.Diffs...)
	out = append(out, rec.Missing...)
	out = append(out, rec.Extra...)
	return out
}

func blockLabel(job, table string) string {
	if table == "" {
		return fmt.Sprintf("Job: `%s`", job)
	}
	return fmt.Sprintf("Job: `%s` Table: `%s`", job, table)
}

// Tee fans every call out to several sinks. The first error is returned after
// all sinks have been called.
type Tee []Sink

func (t Tee) each(fn func(Sink) error) error {
	var first error
	for _, s := range t {
		if err := fn(s); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// StartBlock implements Sink.
func (t Tee) StartBlock(job, table string) error {
	return t.each(func(s Sink) error { return s.StartBlock(job, table) })
}

// Write implements Sink.
func (t Tee) Write(rec reconcile.DiffRecord) error {
	return t.each(func(s Sink) error { return s.Write(rec) })
}

// EndBlock implements Sink.
func (t Tee) EndBlock(job, table string) error {
	return t.each(func(s Sink) error { return s.EndBlock(job, table) })
}

// Comment implements Sink.
func (t Tee) Comment(text string) error {
	return t.each(func(s Sink) error { return s.Comment(text) })
}

// Close implements Sink.
func (t Tee) Close() error {
	return t.each(func(s Sink) error { return s.Close() })
}
