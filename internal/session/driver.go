package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/allbin/go-serialping/internal/logging"
)

// Driver is the interactive read-send loop
type Driver struct {
	in        io.Reader
	out       io.Writer
	errOut    io.Writer
	exchanger *Exchanger
}

func NewDriver(in io.Reader, out, errOut io.Writer, exchanger *Exchanger) *Driver {
	return &Driver{
		in:        in,
		out:       out,
		errOut:    errOut,
		exchanger: exchanger,
	}
}

type inputLine struct {
	text string
	err  error // io.EOF at end of input
}

// Run prompts for lines until the exit keyword, end of input or ctx is
// cancelled. Only cancellation is reported as an error.
func (d *Driver) Run(ctx context.Context) error {
	lines := make(chan inputLine)
	done := make(chan struct{})
	defer close(done)
	go d.scan(lines, done)

	for {
		fmt.Fprint(d.out, DefaultPrompt)

		var line inputLine
		select {
		case <-ctx.Done():
			fmt.Fprintln(d.out)
			return ctx.Err()
		case line = <-lines:
		}

		if line.err != nil {
			if line.err != io.EOF {
				logging.L().Warn().Err(line.err).Msg("stdin_failed")
			}
			fmt.Fprintln(d.out)
			return nil
		}

		switch line.text {
		case "":
			continue
		case DefaultExitKeyword:
			return nil
		}

		err := d.exchanger.Exchange(ctx, line.text, d.printReply)
		if ctx.Err() != nil {
			fmt.Fprintln(d.out)
			return ctx.Err()
		}
		if err != nil {
			fmt.Fprintf(d.errOut, "Error: %v\n", err)
		}
	}
}

// scan feeds stdin lines to the loop so a pending read never blocks
// cancellation. Only the trailing newline is removed; a carriage return
// before it is part of the line.
func (d *Driver) scan(lines chan<- inputLine, done <-chan struct{}) {
	r := bufio.NewReader(d.in)
	for {
		s, err := r.ReadString('\n')
		if s != "" {
			select {
			case lines <- inputLine{text: strings.TrimSuffix(s, "\n")}:
			case <-done:
				return
			}
		}
		if err != nil {
			select {
			case lines <- inputLine{err: err}:
			case <-done:
			}
			return
		}
	}
}

func (d *Driver) printReply(r Reply) {
	fmt.Fprintf(d.out, "\nRECEIVED %d BYTES\n", int(r.Outcome))
	if r.Outcome.Received() {
		fmt.Fprintln(d.out, formatReceived(r.Data))
		return
	}
	fmt.Fprintln(d.errOut, r.Outcome.Diagnostic())
}
