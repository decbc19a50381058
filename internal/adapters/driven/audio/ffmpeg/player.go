package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"github.com/custodia-labs/ayah-review/internal/core/ports/driven"
	"github.com/custodia-labs/ayah-review/internal/logger"
)

// Ensure Player implements the interface.
var _ driven.AudioPlayer = (*Player)(nil)

// Player plays clips with ffplay, without a video window.
type Player struct {
	binary func() string
}

// NewPlayer creates a player. binary returns the executable to run; nil
// or an empty result falls back to "ffplay".
func NewPlayer(binary func() string) *Player {
	return &Player{binary: binary}
}

// Play starts url from offset and returns once the process has started.
// Cancelling ctx stops playback.
func (p *Player) Play(ctx context.Context, url string, offset time.Duration) (driven.Playback, error) {
	bin := resolve(p.binary, "ffplay")

	// Stdio stays unset so ffplay never touches the terminal the TUI owns.
	cmd := exec.CommandContext(ctx, bin, playArgs(url, offset)...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%s: %w", bin, err)
	}
	logger.Debug("%s started (pid %d)", bin, cmd.Process.Pid)

	pb := &playback{cmd: cmd, done: make(chan struct{})}
	go pb.wait()
	return pb, nil
}

func playArgs(url string, offset time.Duration) []string {
	args := []string{"-nodisp", "-autoexit", "-loglevel", "error"}
	if offset > 0 {
		args = append(args, "-ss", strconv.FormatFloat(offset.Seconds(), 'f', 3, 64))
	}
	return append(args, url)
}

// playback is a running ffplay process.
type playback struct {
	cmd  *exec.Cmd
	done chan struct{}
	once sync.Once
}

func (p *playback) wait() {
	err := p.cmd.Wait()
	if err != nil {
		logger.Debug("playback ended: %v", err)
	}
	close(p.done)
}

// Stop kills the player. It is safe to call more than once and after the
// process has exited.
func (p *playback) Stop() error {
	var err error
	p.once.Do(func() {
		select {
		case <-p.done:
			return
		default:
		}
		if killErr := p.cmd.Process.Kill(); killErr != nil && !errors.Is(killErr, os.ErrProcessDone) {
			err = fmt.Errorf("stop playback: %w", killErr)
			return
		}
		<-p.done
	})
	return err
}

// Done is closed when the process exits.
func (p *playback) Done() <-chan struct{} {
	return p.done
}
