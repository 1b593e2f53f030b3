// Package input contains readers used to get one line of REPL input at a
// time from stdin or any other source, for cmd/weirc's --repl mode.
package input

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// DirectLineReader reads lines from any generic input stream directly. It
// can be used with any io.Reader but does not sanitize the input of control
// and escape sequences.
//
// DirectLineReader should not be used directly; instead, create one with
// [NewDirectReader].
type DirectLineReader struct {
	r             *bufio.Reader
	blanksAllowed bool
}

// InteractiveLineReader reads lines from stdin using a Go implementation of
// the GNU Readline library. This keeps input clear of typing and editing
// escape sequences and enables command history. It should in general only
// be used when directly connected to a TTY.
//
// InteractiveLineReader should not be used directly; instead, create one
// with [NewInteractiveReader].
type InteractiveLineReader struct {
	rl            *readline.Instance
	blanksAllowed bool
	prompt        string
}

// NewDirectReader creates a new DirectLineReader over r. The returned
// reader must have Close called on it before disposal.
func NewDirectReader(r io.Reader) *DirectLineReader {
	return &DirectLineReader{r: bufio.NewReader(r)}
}

// NewInteractiveReader creates a new InteractiveLineReader and initializes
// readline. The returned reader must have Close called on it before
// disposal to properly tear down readline resources.
func NewInteractiveReader(prompt string) (*InteractiveLineReader, error) {
	rl, err := readline.NewEx(&readline.Config{Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}
	return &InteractiveLineReader{rl: rl, prompt: prompt}, nil
}

// Close cleans up resources associated with the DirectLineReader.
func (dlr *DirectLineReader) Close() error {
	return nil
}

// Close cleans up readline resources associated with the
// InteractiveLineReader.
func (ilr *InteractiveLineReader) Close() error {
	return ilr.rl.Close()
}

// ReadLine reads the next line from the underlying stream. The returned
// string is only empty if an error occurred; otherwise this call blocks
// until a line containing non-space characters is read.
//
// At end of input, the returned string is empty and error is io.EOF.
func (dlr *DirectLineReader) ReadLine() (string, error) {
	var line string
	var err error
	for line == "" {
		line, err = dlr.r.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}
		line = strings.TrimSpace(line)
		if line == "" && dlr.blanksAllowed {
			return line, nil
		}
	}
	return line, nil
}

// ReadLine reads the next line via readline, blocking until a line
// containing non-space characters is read.
//
// At end of input, the returned string is empty and error is io.EOF.
func (ilr *InteractiveLineReader) ReadLine() (string, error) {
	var line string
	var err error
	for line == "" {
		line, err = ilr.rl.Readline()
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}
		line = strings.TrimSpace(line)
		if line == "" && ilr.blanksAllowed {
			return line, nil
		}
	}
	return line, nil
}

// AllowBlank sets whether blank lines are returned as-is instead of being
// skipped. By default they are skipped.
func (dlr *DirectLineReader) AllowBlank(allow bool) { dlr.blanksAllowed = allow }

// AllowBlank sets whether blank lines are returned as-is instead of being
// skipped. By default they are skipped.
func (ilr *InteractiveLineReader) AllowBlank(allow bool) { ilr.blanksAllowed = allow }

// SetPrompt updates the prompt to the given text.
func (ilr *InteractiveLineReader) SetPrompt(p string) { ilr.rl.SetPrompt(p) }

// GetPrompt gets the current prompt.
func (ilr *InteractiveLineReader) GetPrompt() string { return ilr.prompt }
