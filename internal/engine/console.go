package engine

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// StdConsole connects the interpreter to a reader and writer, normally
// os.Stdin and os.Stdout.
type StdConsole struct {
	in  *bufio.Reader
	out io.Writer
}

// NewStdConsole creates a console reading lines from in and writing to out.
func NewStdConsole(in io.Reader, out io.Writer) *StdConsole {
	return &StdConsole{in: bufio.NewReader(in), out: out}
}

// ReadLine reads one line without its terminator. A final line without a
// newline is still returned; ok is false only once input is exhausted.
func (c *StdConsole) ReadLine() (string, bool, error) {
	line, err := c.in.ReadString('\n')
	if errors.Is(err, io.EOF) {
		if line == "" {
			return "", false, nil
		}
		err = nil
	}
	if err != nil {
		return "", false, err
	}
	return strings.TrimRight(line, "\r\n"), true, nil
}

// Write writes text unchanged.
func (c *StdConsole) Write(text string) error {
	_, err := io.WriteString(c.out, text)
	return err
}

// Prompt writes prompt and reads one line. It returns io.EOF once input
// is exhausted.
func (c *StdConsole) Prompt(prompt string) (string, error) {
	if err := c.Write(prompt); err != nil {
		return "", err
	}
	line, ok, err := c.ReadLine()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", io.EOF
	}
	return line, nil
}

// Prompter shows a prompt and reads one line, returning io.EOF at end of
// input. *liner.State and *StdConsole satisfy it.
type Prompter interface {
	Prompt(prompt string) (string, error)
}

// PromptConsole reads through a Prompter. Written text after the last
// newline is held back and becomes the prompt of the next read, so a line
// editor can redraw it; Flush writes it out.
type PromptConsole struct {
	in      Prompter
	out     io.Writer
	pending string
}

// NewPromptConsole creates a console reading from in and writing to out.
func NewPromptConsole(in Prompter, out io.Writer) *PromptConsole {
	return &PromptConsole{in: in, out: out}
}

// ReadLine prompts with the held-back text and reads one line.
func (c *PromptConsole) ReadLine() (string, bool, error) {
	prompt := c.pending
	c.pending = ""
	line, err := c.in.Prompt(prompt)
	if errors.Is(err, io.EOF) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return strings.TrimRight(line, "\r\n"), true, nil
}

// Write writes text up to its last newline and holds back the rest.
func (c *PromptConsole) Write(text string) error {
	text = c.pending + text
	i := strings.LastIndexByte(text, '\n')
	c.pending = text[i+1:]
	if i < 0 {
		return nil
	}
	_, err := io.WriteString(c.out, text[:i+1])
	return err
}

// Flush writes held-back text.
func (c *PromptConsole) Flush() error {
	if c.pending == "" {
		return nil
	}
	text := c.pending
	c.pending = ""
	_, err := io.WriteString(c.out, text)
	return err
}

// BufferConsole is an in-memory console: reads come from a fixed list of
// lines and writes accumulate in a buffer. Used by the harness and tests.
type BufferConsole struct {
	lines []string
	out   strings.Builder
}

// NewBufferConsole creates a console that will answer reads with lines.
func NewBufferConsole(lines ...string) *BufferConsole {
	return &BufferConsole{lines: lines}
}

// ReadLine returns the next queued line.
func (c *BufferConsole) ReadLine() (string, bool, error) {
	if len(c.lines) == 0 {
		return "", false, nil
	}
	line := c.lines[0]
	c.lines = c.lines[1:]
	return line, true, nil
}

// Write appends text to the output buffer.
func (c *BufferConsole) Write(text string) error {
	c.out.WriteString(text)
	return nil
}

// Output returns everything written so far.
func (c *BufferConsole) Output() string {
	return c.out.String()
}

// Remaining returns the number of unread input lines.
func (c *BufferConsole) Remaining() int {
	return len(c.lines)
}
