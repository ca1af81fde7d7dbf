package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
)

// ErrInterrupted is returned by a LineReader when the operator cancels
// the pending read (Ctrl+C).
var ErrInterrupted = errors.New("interrupted")

// LineReader supplies one line of operator input per call.
// Implementations return io.EOF when input is exhausted.
type LineReader interface {
	ReadLine(prompt string) (string, error)
	Close() error
}

// NewLineReader picks the reader for the given input: readline when the
// input is an interactive terminal, a plain buffered reader otherwise
// (piped input, scripts).
func NewLineReader(in *os.File, out io.Writer) (LineReader, error) {
	if isTerminal(in) {
		return newReadlineReader()
	}
	return NewScannerReader(in, out), nil
}

// readlineReader reads with line editing and history on a TTY.
type readlineReader struct {
	rl *readline.Instance
}

func newReadlineReader() (*readlineReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize input: %w", err)
	}
	return &readlineReader{rl: rl}, nil
}

func (r *readlineReader) ReadLine(prompt string) (string, error) {
	r.rl.SetPrompt(prompt)
	line, err := r.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", ErrInterrupted
	}
	if err != nil {
		return "", err
	}
	return line, nil
}

func (r *readlineReader) Close() error {
	return r.rl.Close()
}

// ScannerReader reads plain lines from any reader, echoing each prompt
// to out so piped sessions still show where input was consumed.
type ScannerReader struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewScannerReader creates a LineReader over in, writing prompts to out.
func NewScannerReader(in io.Reader, out io.Writer) *ScannerReader {
	return &ScannerReader{scanner: bufio.NewScanner(in), out: out}
}

func (r *ScannerReader) ReadLine(prompt string) (string, error) {
	_, _ = fmt.Fprint(r.out, prompt)
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.scanner.Text(), nil
}

func (r *ScannerReader) Close() error {
	return nil
}

// isTerminal reports whether f is attached to an interactive terminal.
func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
