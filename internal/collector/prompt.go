package collector

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// ErrInputClosed is returned when the input ends before an answer is read.
var ErrInputClosed = errors.New("input closed")

// line is one read from the input, with the error that ended it, if any.
type line struct {
	text string
	err  error
}

// prompter writes a question and reads one line as the answer. Lines are
// read by a single goroutine so a pending read never blocks cancellation.
type prompter struct {
	in  *bufio.Reader
	out io.Writer

	start sync.Once
	lines chan line
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out, lines: make(chan line)}
}

// readLines feeds p.lines until the first read error, then closes it.
func (p *prompter) readLines() {
	defer close(p.lines)
	for {
		s, err := p.in.ReadString('\n')
		p.lines <- line{text: s, err: err}
		if err != nil {
			return
		}
	}
}

// ask prints label and returns the trimmed answer. A final line without a
// newline still counts as an answer.
func (p *prompter) ask(ctx context.Context, label string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(p.out, label)
	p.start.Do(func() { go p.readLines() })

	var l line
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case got, ok := <-p.lines:
		if !ok {
			return "", ErrInputClosed
		}
		l = got
	}

	if l.err != nil {
		if errors.Is(l.err, io.EOF) && l.text != "" {
			return strings.TrimSpace(l.text), nil
		}
		if errors.Is(l.err, io.EOF) {
			return "", ErrInputClosed
		}
		return "", fmt.Errorf("read answer: %w", l.err)
	}
	return strings.TrimSpace(l.text), nil
}

func (p *prompter) say(msg string) {
	fmt.Fprintln(p.out, msg)
}
