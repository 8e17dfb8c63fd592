// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package render

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// Toaster prints notifications as single ✓/✗ lines
type Toaster struct {
	mu sync.Mutex
	w  io.Writer
}

func NewToaster(w io.Writer) *Toaster {
	return &Toaster{w: w}
}

func (t *Toaster) Success(msg string) {
	slog.Debug("notify", "kind", "success", "message", msg)
	t.write("✓", msg)
}

func (t *Toaster) Error(msg string) {
	slog.Debug("notify", "kind", "error", "message", msg)
	t.write("✗", msg)
}

func (t *Toaster) write(mark, msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.w, "%s %s\n", mark, msg)
}

// Prompter asks yes/no questions on a terminal
type Prompter struct {
	in        *bufio.Reader
	out       io.Writer
	assumeYes bool
}

// NewPrompter reads answers from in. With assumeYes every question is answered yes.
func NewPrompter(in io.Reader, out io.Writer, assumeYes bool) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out, assumeYes: assumeYes}
}

// Confirm asks prompt and reports whether the answer was y or yes
func (p *Prompter) Confirm(prompt string) bool {
	if p.assumeYes {
		return true
	}
	fmt.Fprintf(p.out, "%s [y/N] ", prompt)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// Ask prints label and returns the trimmed line typed back
func (p *Prompter) Ask(label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
