package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/custodia-labs/ayah-review/internal/core/ports/driven"
)

// Ensure Probe implements the interface.
var _ driven.AudioProbe = (*Probe)(nil)

// Probe reads clip durations with ffprobe.
type Probe struct {
	binary func() string
}

// NewProbe creates a probe. binary returns the executable to run; nil or
// an empty result falls back to "ffprobe".
func NewProbe(binary func() string) *Probe {
	return &Probe{binary: binary}
}

// Duration returns the length of the clip at url in seconds.
func (p *Probe) Duration(ctx context.Context, url string) (float64, error) {
	bin := resolve(p.binary, "ffprobe")

	// ffprobe -v error -show_entries format=duration -of default=noprint_wrappers=1:nokey=1 url
	cmd := exec.CommandContext(ctx, bin, probeArgs(url)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return 0, fmt.Errorf("%s: %w: %s", bin, err, msg)
		}
		return 0, fmt.Errorf("%s: %w", bin, err)
	}
	return parseDuration(stdout.String())
}

func probeArgs(url string) []string {
	return []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		url,
	}
}

// parseDuration reads the first line of ffprobe output as seconds.
func parseDuration(out string) (float64, error) {
	line, _, _ := strings.Cut(strings.TrimSpace(out), "\n")
	line = strings.TrimSpace(line)
	d, err := strconv.ParseFloat(line, 64)
	if err != nil {
		return 0, fmt.Errorf("unexpected ffprobe output %q", line)
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %v", d)
	}
	return d, nil
}

func resolve(binary func() string, fallback string) string {
	if binary == nil {
		return fallback
	}
	if bin := strings.TrimSpace(binary()); bin != "" {
		return bin
	}
	return fallback
}
