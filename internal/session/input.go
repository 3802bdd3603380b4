package session

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
)

// ErrInterrupted is returned by a LineReader when the user interrupts the
// pending read.
var ErrInterrupted = errors.New("session: interrupted") //nolint:gochecknoglobals // sentinel error

// LineReader yields one input line per call. It returns io.EOF at end of
// input and ErrInterrupted when the read was interrupted.
// *ConsoleReader satisfies this interface.
type LineReader interface {
	ReadLine(ctx context.Context) (string, error)
}

type lineResult struct {
	line string
	err  error
}

// ConsoleReader reads lines from a terminal stream and turns interrupt
// signals into ErrInterrupted. A single background goroutine pumps the
// stream so a read can be abandoned when a signal or cancellation arrives;
// the pending line is delivered on the next call.
type ConsoleReader struct {
	lines      chan lineResult
	interrupts <-chan os.Signal
	eof        bool
}

func NewConsoleReader(r io.Reader, interrupts <-chan os.Signal) *ConsoleReader {
	c := &ConsoleReader{
		lines:      make(chan lineResult),
		interrupts: interrupts,
	}
	go c.pump(r)
	return c
}

func (c *ConsoleReader) pump(r io.Reader) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		c.lines <- lineResult{line: sc.Text()}
	}
	err := sc.Err()
	if err == nil {
		err = io.EOF
	}
	c.lines <- lineResult{err: err}
	close(c.lines)
}

// ReadLine blocks until a line, an interrupt or cancellation of ctx.
// After end of input every call returns io.EOF.
func (c *ConsoleReader) ReadLine(ctx context.Context) (string, error) {
	if c.eof {
		return "", io.EOF
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-c.interrupts:
		return "", ErrInterrupted
	case res, ok := <-c.lines:
		if !ok {
			c.eof = true
			return "", io.EOF
		}
		if res.err != nil {
			c.eof = true
			return "", res.err
		}
		return res.line, nil
	}
}
