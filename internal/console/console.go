package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"codeberg.org/snonux/estflash/internal/session"
)

// Session is the part of the session controller the console drives
type Session interface {
	Start(ctx context.Context)
	Refresh(ctx context.Context)
	Reveal(ctx context.Context)
	Judge(ctx context.Context, correct bool)
	Listen(ctx context.Context)
	Snapshot() session.State
}

const help = `Commands:
  s, enter  show translation
  l         listen
  y         I knew it
  n         I didn't know
  r         reload (when no cards are shown)
  q         quit`

// Console is a line based study loop
type Console struct {
	session Session
	in      io.Reader
	out     io.Writer
}

// New creates a console reading commands from in and printing to out
func New(s Session, in io.Reader, out io.Writer) *Console {
	return &Console{
		session: s,
		in:      in,
		out:     out,
	}
}

// Run starts the session and processes commands until q, end of input or
// ctx is done. A blocked read does not hold up cancellation.
func (c *Console) Run(ctx context.Context) error {
	c.session.Start(ctx)
	if err := ctx.Err(); err != nil {
		return err
	}
	c.render()

	done := make(chan struct{})
	defer close(done)
	lines, readErr := c.readLines(done)

	for {
		select {
		case <-ctx.Done():
			c.summary()
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				if err := <-readErr; err != nil {
					return fmt.Errorf("failed to read command: %w", err)
				}
				c.summary()
				return nil
			}
			if c.handle(ctx, strings.ToLower(strings.TrimSpace(line))) {
				c.summary()
				return nil
			}
		}
	}
}

// readLines scans c.in on its own goroutine. lines is closed at end of
// input, after which readErr yields the scan error. The goroutine stops
// sending once done is closed; a read that never returns leaks it.
func (c *Console) readLines(done <-chan struct{}) (<-chan string, <-chan error) {
	lines := make(chan string)
	readErr := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		readErr <- scanner.Err()
	}()

	return lines, readErr
}

// handle runs one command and reports whether the user quit
func (c *Console) handle(ctx context.Context, cmd string) bool {
	state := c.session.Snapshot()

	switch cmd {
	case "q", "quit":
		return true
	case "", "s":
		if state.Phase != session.PhaseReady {
			return false
		}
		c.session.Reveal(ctx)
	case "l":
		c.session.Listen(ctx)
		return false
	case "y", "n":
		if !state.Revealed() {
			fmt.Fprintln(c.out, "Show the translation first (s).")
			return false
		}
		c.session.Judge(ctx, cmd == "y")
	case "r":
		c.session.Refresh(ctx)
	case "h", "?", "help":
		fmt.Fprintln(c.out, help)
		return false
	default:
		fmt.Fprintf(c.out, "Unknown command %q, type h for help.\n", cmd)
		return false
	}

	c.render()
	return false
}

func (c *Console) render() {
	state := c.session.Snapshot()
	fmt.Fprintln(c.out)

	card, ok := state.Current()
	if !ok {
		fmt.Fprintln(c.out, state.Status())
		if state.Phase == session.PhaseEmpty {
			fmt.Fprintln(c.out, "[r] reload  [q] quit")
		}
		return
	}

	fmt.Fprintf(c.out, "%s    Correct: %d  Incorrect: %d\n",
		state.Progress(), state.Stats.Correct, state.Stats.Incorrect)
	fmt.Fprintf(c.out, "  %s\n", card.Estonian)

	if state.Revealed() {
		fmt.Fprintf(c.out, "  = %s\n", card.Translation)
		fmt.Fprintln(c.out, "[y] knew it  [n] didn't know  [l] listen  [q] quit")
		return
	}
	fmt.Fprintln(c.out, "[s] show translation  [l] listen  [q] quit")
}

func (c *Console) summary() {
	stats := c.session.Snapshot().Stats
	if stats.Total() == 0 {
		return
	}
	fmt.Fprintf(c.out, "\nStudied %d cards: %d correct, %d incorrect.\n",
		stats.Total(), stats.Correct, stats.Incorrect)
}
