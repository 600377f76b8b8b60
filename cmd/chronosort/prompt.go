package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// interactiveTerminal reports whether stdin and stdout are attached to a
// terminal. Without one, the ask strategy and the confirmation gate both
// degrade so non-interactive runs never block.
func interactiveTerminal() bool {
	return isTerminal(os.Stdin.Fd()) && isTerminal(os.Stdout.Fd())
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// stdioPrompter asks yes/no questions on the attached terminal.
type stdioPrompter struct {
	in  io.Reader
	out io.Writer
}

func newStdioPrompter() *stdioPrompter {
	return &stdioPrompter{in: os.Stdin, out: os.Stdout}
}

// Confirm prints the question and reads one line; only "y" or "yes"
// (case-insensitive) counts as approval.
func (p *stdioPrompter) Confirm(question string) bool {
	fmt.Fprintf(p.out, "%s [y/N]: ", question)
	reader := bufio.NewReader(p.in)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
