package audio

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"sync"
)

// lookPath is replaced in tests
var lookPath = exec.LookPath

// linuxPlayers are tried in order; mpg123 first since it handles MP3 files best
var linuxPlayers = [][]string{
	{"mpg123", "-q"},
	{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet"},
	{"play", "-q"}, // SoX
	{"paplay"},
	{"aplay", "-q"},
}

// ExecBackend plays files with a command line player
type ExecBackend struct {
	command []string // empty means detect per platform
}

// NewExecBackend creates a backend. command is a player invocation such as
// "mpv --no-video"; the file is appended as the last argument. An empty
// command picks the platform default.
func NewExecBackend(command string) *ExecBackend {
	return &ExecBackend{command: strings.Fields(command)}
}

// Name returns the backend name
func (b *ExecBackend) Name() string {
	argv, err := b.resolve()
	if err != nil {
		return "exec"
	}
	return "exec:" + argv[0]
}

// IsAvailable checks that a player command can be found
func (b *ExecBackend) IsAvailable() error {
	_, err := b.resolve()
	return err
}

// Start launches the player for file in the background
func (b *ExecBackend) Start(ctx context.Context, file string) (Playback, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	argv, err := b.resolve()
	if err != nil {
		return nil, err
	}

	args := append(append([]string(nil), argv[1:]...), file)
	cmd := exec.Command(argv[0], args...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", argv[0], err)
	}

	pb := &execPlayback{cmd: cmd, done: make(chan struct{})}
	go func() {
		cmd.Wait()
		close(pb.done)
	}()
	return pb, nil
}

// resolve returns the player argv (without the file) for this platform
func (b *ExecBackend) resolve() ([]string, error) {
	if len(b.command) > 0 {
		if _, err := lookPath(b.command[0]); err != nil {
			return nil, fmt.Errorf("audio player %q not found: %w", b.command[0], err)
		}
		return b.command, nil
	}

	switch runtime.GOOS {
	case "darwin":
		return []string{"afplay"}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		for _, candidate := range linuxPlayers {
			if _, err := lookPath(candidate[0]); err == nil {
				return candidate, nil
			}
		}
		return nil, fmt.Errorf("no audio player found. Install mpg123, ffplay, sox, paplay, or aplay")
	case "windows":
		return []string{"cmd", "/c", "start", "/min", ""}, nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

type execPlayback struct {
	cmd  *exec.Cmd
	done chan struct{}
	once sync.Once
}

func (p *execPlayback) Stop() error {
	var err error
	p.once.Do(func() {
		select {
		case <-p.done:
			return
		default:
		}
		if p.cmd.Process != nil {
			err = p.cmd.Process.Kill()
		}
	})
	select {
	case <-p.done:
		// the process was already gone; killing it raced with its exit
		return nil
	default:
		return err
	}
}

func (p *execPlayback) Done() <-chan struct{} {
	return p.done
}
