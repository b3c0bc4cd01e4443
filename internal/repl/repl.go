// Package repl contains the input readers used by the core engine's
// interactive query session.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// QueryReader is implemented by anything that can supply one query line at a
// time to the interactive session's command loop.
type QueryReader interface {
	// ReadQuery blocks until a non-blank line is available, EOF is reached,
	// or an error occurs. At EOF it returns "" and io.EOF.
	ReadQuery() (string, error)
	Close() error
}

// DirectQueryReader reads queries from any generic input stream directly. It
// does not sanitize the input of control and escape sequences, so it is only
// suitable for piped/redirected input rather than an interactive tty.
//
// DirectQueryReader should not be constructed directly; use
// [NewDirectReader].
type DirectQueryReader struct {
	r *bufio.Reader
}

// InteractiveQueryReader reads queries from stdin using a Go implementation
// of GNU readline, which keeps input clear of editing escape sequences and
// enables query history. This should generally only be used when connected
// directly to a tty.
//
// InteractiveQueryReader should not be constructed directly; use
// [NewInteractiveReader].
type InteractiveQueryReader struct {
	rl     *readline.Instance
	prompt string
}

// NewDirectReader creates a DirectQueryReader over r.
func NewDirectReader(r io.Reader) *DirectQueryReader {
	return &DirectQueryReader{r: bufio.NewReader(r)}
}

// NewInteractiveReader creates an InteractiveQueryReader with the given
// prompt. The returned reader must have Close called on it before disposal
// to properly tear down readline resources.
func NewInteractiveReader(prompt string) (*InteractiveQueryReader, error) {
	rl, err := readline.NewEx(&readline.Config{Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}
	return &InteractiveQueryReader{rl: rl, prompt: prompt}, nil
}

// Close tears down resources held by the reader. DirectQueryReader holds
// none, but implements Close so both readers satisfy QueryReader uniformly.
func (dqr *DirectQueryReader) Close() error { return nil }

// Close tears down the underlying readline instance.
func (iqr *InteractiveQueryReader) Close() error { return iqr.rl.Close() }

// ReadQuery reads the next non-blank line from the underlying stream.
func (dqr *DirectQueryReader) ReadQuery() (string, error) {
	var line string
	var err error
	for line == "" {
		line, err = dqr.r.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}
		line = strings.TrimSpace(line)
		if line == "" && err == io.EOF {
			return "", io.EOF
		}
	}
	return line, nil
}

// ReadQuery reads the next non-blank line from readline.
func (iqr *InteractiveQueryReader) ReadQuery() (string, error) {
	var line string
	var err error
	for line == "" {
		line, err = iqr.rl.Readline()
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}
		line = strings.TrimSpace(line)
		if line == "" && err == io.EOF {
			return "", io.EOF
		}
	}
	return line, nil
}

// SetPrompt updates the prompt shown for each line.
func (iqr *InteractiveQueryReader) SetPrompt(p string) {
	iqr.prompt = p
	iqr.rl.SetPrompt(p)
}
