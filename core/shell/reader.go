package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abiosoft/readline"
)

// LineSource provides raw input lines, one per call.
type LineSource interface {
	// ReadLine returns the next line or io.EOF once input is exhausted.
	ReadLine(prompt string) (string, error)
}

// Pauser is implemented by line sources that read ahead from a terminal
// shared with foreground programs. The shell pauses the source while a
// foreground program runs.
type Pauser interface {
	Pause()
	Resume()
}

// Reader reads lines from a LineSource and tokenizes them.
type Reader struct {
	Source  LineSource
	MaxLine int
}

// ReadCommand prompts for and parses the next command.
//
// It returns ErrEndOfSession when the input is closed and ErrEmptyCommand for
// blank lines.
func (r *Reader) ReadCommand(prompt string) (Command, error) {
	line, err := r.Source.ReadLine(prompt)
	switch {
	case errors.Is(err, io.EOF):
		return Command{}, ErrEndOfSession
	case err != nil:
		return Command{}, err
	}

	return Tokenize(line, r.MaxLine)
}

// NewBufferedSource reads lines from r, writing prompts to w.
func NewBufferedSource(r io.Reader, w io.Writer) LineSource {
	return &bufferedSource{in: bufio.NewReader(r), out: w}
}

type bufferedSource struct {
	in  *bufio.Reader
	out io.Writer
}

func (b *bufferedSource) ReadLine(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(b.out, prompt)
	}

	line, err := b.in.ReadString('\n')
	switch {
	case err == io.EOF && line != "":
		// Final line without a newline.
		return line, nil
	case err != nil:
		return "", err
	}
	return line, nil
}

// ReadlineSource reads lines with an interactive line editor.
type ReadlineSource struct {
	Readline *readline.Instance
	input    *TerminalInput
}

var (
	_ LineSource = (*ReadlineSource)(nil)
	_ Pauser     = (*ReadlineSource)(nil)
)

// NewReadlineSource creates an interactive source on the process terminal.
//
// onSuspend is called when the suspend key is pressed at the prompt, the key
// itself never reaches the line.
func NewReadlineSource(onSuspend func()) (*ReadlineSource, error) {
	input := NewTerminalInput(os.Stdin)
	cfg := &readline.Config{
		Stdin: input,
		FuncFilterInputRune: func(r rune) (rune, bool) {
			if r == readline.CharCtrlZ {
				if onSuspend != nil {
					onSuspend()
				}
				return r, false
			}
			return r, true
		},
	}
	if err := cfg.Init(); err != nil {
		return nil, err
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		return nil, err
	}

	return &ReadlineSource{Readline: rl, input: input}, nil
}

// ReadLine implements LineSource.ReadLine.
func (s *ReadlineSource) ReadLine(prompt string) (string, error) {
	s.Readline.SetPrompt(prompt)
	line, err := s.Readline.Readline()
	switch {
	case err == readline.ErrInterrupt:
		// Interrupt clears the line.
		return "", nil
	case err != nil:
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Pause stops the line editor from reading the terminal.
func (s *ReadlineSource) Pause() {
	s.input.Pause()
}

// Resume undoes Pause.
func (s *ReadlineSource) Resume() {
	s.input.Resume()
}

// Close releases the terminal.
func (s *ReadlineSource) Close() error {
	return s.Readline.Close()
}
