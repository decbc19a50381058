package httpapi

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// sseFrame is a single Server-Sent Events frame.
type sseFrame struct {
	// Event is the "event:" field, empty for the default type.
	Event string

	// Data is the payload; multiple "data:" lines are joined by newlines.
	Data string
}

// Size limits for the push stream. A line or frame past them stops the
// scanner with an error instead of buffering without bound.
const (
	maxSSELine  = 256 * 1024
	maxSSEFrame = 1024 * 1024
)

// errSSEFrameTooLarge reports a frame whose data exceeds maxSSEFrame.
var errSSEFrameTooLarge = errors.New("sse frame too large")

// sseScanner reads Server-Sent Events frames from a stream.
//
// Frames end at a blank line. "data:" lines carry the payload and "event:"
// names the frame type. Comment lines (leading ":") and other fields are
// ignored. A frame without data is skipped.
type sseScanner struct {
	lines   *bufio.Scanner
	current sseFrame
	err     error
	done    bool
}

func newSSEScanner(r io.Reader) *sseScanner {
	lines := bufio.NewScanner(r)
	lines.Buffer(make([]byte, 0, 4096), maxSSELine)
	return &sseScanner{lines: lines}
}

// Next advances to the next frame. It returns false at EOF or on error;
// Err distinguishes the two.
func (s *sseScanner) Next() bool {
	if s.done {
		return false
	}
	s.current = sseFrame{}

	var data []string
	var event string
	size := 0
	hasData := false

	for s.lines.Scan() {
		line := strings.TrimSuffix(s.lines.Text(), "\r")

		if line == "" {
			if hasData {
				s.current = sseFrame{Event: event, Data: strings.Join(data, "\n")}
				return true
			}
			event = ""
			continue
		}

		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, ok := strings.Cut(line, ":")
		if !ok {
			field, value = line, ""
		} else {
			value = strings.TrimPrefix(value, " ")
		}

		switch field {
		case "data":
			size += len(value) + 1
			if size > maxSSEFrame {
				s.done = true
				s.err = errSSEFrameTooLarge
				return false
			}
			data = append(data, value)
			hasData = true
		case "event":
			event = value
		}
	}

	s.done = true
	s.err = s.lines.Err()
	// An unterminated final frame still counts on a clean end of stream.
	if s.err == nil && hasData {
		s.current = sseFrame{Event: event, Data: strings.Join(data, "\n")}
		return true
	}
	return false
}

// Frame returns the frame read by the last successful Next.
func (s *sseScanner) Frame() sseFrame {
	return s.current
}

// Err returns the error that stopped the scanner, nil for a clean EOF.
func (s *sseScanner) Err() error {
	return s.err
}
