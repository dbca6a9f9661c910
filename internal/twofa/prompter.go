package twofa

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// TerminalPrompter reads tokens from In, suppressing echo when In is a
// terminal. Piped input falls back to a plain line read.
type TerminalPrompter struct {
	In  *os.File
	Out io.Writer
}

// NewTerminalPrompter returns a prompter over stdin/stderr. The prompt goes
// to stderr so stdout stays clean for scripting.
func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{In: os.Stdin, Out: os.Stderr}
}

// ReadToken prints prompt and reads one token.
func (p *TerminalPrompter) ReadToken(prompt string) (string, error) {
	fmt.Fprint(p.Out, prompt)

	fd := int(p.In.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(p.Out)
		if err != nil {
			return "", fmt.Errorf("twofa: read token: %w", err)
		}
		return string(b), nil
	}

	r := bufio.NewReader(p.In)
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("twofa: read token: %w", err)
	}
	return line, nil
}
