// Package diagnostics implements the line-oriented diagnostics sink: a
// verbose/warning/error channel that never interrupts computation on a
// warning and wraps long lines with rosed.
package diagnostics

import (
	"fmt"
	"io"
	"sync"

	"github.com/dekarrin/rosed"
)

// Level is the severity of one diagnostic line.
type Level int

const (
	Verbose Level = iota
	Warning
	Error
)

func (l Level) String() string {
	switch l {
	case Verbose:
		return "verbose"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Entry is one recorded diagnostic, kept around so callers (tests, the
// server's introspection endpoints) can inspect what was emitted during a
// run instead of only seeing it on an io.Writer.
type Entry struct {
	Level   Level
	Message string
}

// Sink collects diagnostics and optionally mirrors them to an io.Writer,
// line-wrapped at WrapWidth. The zero value is usable (no writer, default
// wrap width).
type Sink struct {
	mu        sync.Mutex
	entries   []Entry
	typedErrs []error
	out       io.Writer
	WrapWidth int
	// MinLevel suppresses entries below this severity from being printed
	// to Out (they are still recorded), mirroring a verbose/quiet CLI flag.
	MinLevel Level
}

// NewSink creates a Sink that mirrors output to w (nil disables mirroring).
func NewSink(w io.Writer) *Sink {
	return &Sink{out: w, WrapWidth: 78}
}

func (s *Sink) record(lvl Level, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, Entry{Level: lvl, Message: msg})
	if s.out == nil || lvl < s.MinLevel {
		return
	}
	wrapped := rosed.Edit(fmt.Sprintf("[%s] %s", lvl, msg)).
		Wrap(s.WrapWidth).
		String()
	fmt.Fprintln(s.out, wrapped)
}

// Verbosef records a verbose-level diagnostic.
func (s *Sink) Verbosef(format string, a ...any) { s.record(Verbose, fmt.Sprintf(format, a...)) }

// Warnf records a warning; warnings never
// interrupt the computation that emits them.
func (s *Sink) Warnf(format string, a ...any) { s.record(Warning, fmt.Sprintf(format, a...)) }

// Errorf records an error-level diagnostic without itself unwinding the
// call stack; callers that need to abort still return a Go error value
// (see errs.Error) in addition to logging here.
func (s *Sink) Errorf(format string, a ...any) { s.record(Error, fmt.Sprintf(format, a...)) }

// RecordErr records err (typically an *errs.Error from the core's taxonomy)
// as a diagnostic at lvl and keeps it retrievable via Errs, so a caller
// wanting errors.As-style recovery of one specific Kind doesn't have to
// string-match Warnings(). This never aborts the
// call that emits it; a caller that also needs to abort still returns a Go
// error value in addition to calling this.
func (s *Sink) RecordErr(lvl Level, err error) {
	s.record(lvl, err.Error())
	s.mu.Lock()
	s.typedErrs = append(s.typedErrs, err)
	s.mu.Unlock()
}

// Errs returns every typed error recorded via RecordErr so far, in emission
// order.
func (s *Sink) Errs() []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]error(nil), s.typedErrs...)
}

// Entries returns every diagnostic recorded so far, in emission order.
func (s *Sink) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Entry(nil), s.entries...)
}

// Warnings returns only the warning-level messages recorded so far.
func (s *Sink) Warnings() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, e := range s.entries {
		if e.Level == Warning {
			out = append(out, e.Message)
		}
	}
	return out
}
