package core

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/abiosoft/readline"
)

// LineReader prompts for and reads lines of input.
type LineReader interface {
	// ReadLine prints the prompt and returns the next line without its
	// terminator. It returns io.EOF once input is exhausted.
	ReadLine() (string, error)
	io.Closer
}

// NewPlainReader creates a LineReader that writes prompt to w before reading
// each line from r.
func NewPlainReader(r io.Reader, w io.Writer, prompt string) LineReader {
	return &plainReader{
		in:     bufio.NewReader(r),
		out:    w,
		prompt: prompt,
	}
}

type plainReader struct {
	in     *bufio.Reader
	out    io.Writer
	prompt string
}

func (p *plainReader) ReadLine() (string, error) {
	if _, err := fmt.Fprint(p.out, p.prompt); err != nil {
		return "", err
	}

	line, err := p.in.ReadString('\n')
	switch {
	case err == io.EOF && line != "":
		// Unterminated final line.
	case err != nil:
		return "", err
	}

	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}

func (p *plainReader) Close() error {
	return nil
}

// NewReadlineReader creates a LineReader with interactive line editing.
// Interrupts discard the current line.
func NewReadlineReader(r io.Reader, stdout, stderr io.Writer, prompt string) (LineReader, error) {
	cfg := &readline.Config{
		Prompt: prompt,
		Stdin:  readline.NewCancelableStdin(r),
		Stdout: stdout,
		Stderr: stderr,
	}
	if err := cfg.Init(); err != nil {
		return nil, err
	}

	instance, err := readline.NewEx(cfg)
	if err != nil {
		return nil, err
	}
	return &readlineReader{instance: instance}, nil
}

type readlineReader struct {
	instance *readline.Instance
}

func (r *readlineReader) ReadLine() (string, error) {
	line, err := r.instance.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", nil
	}
	return line, err
}

func (r *readlineReader) Close() error {
	return r.instance.Close()
}
