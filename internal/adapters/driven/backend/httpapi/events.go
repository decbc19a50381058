package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/custodia-labs/ayah-review/internal/core/domain"
	"github.com/custodia-labs/ayah-review/internal/core/ports/driven"
	"github.com/custodia-labs/ayah-review/internal/logger"
)

// Ensure EventStream implements the interface.
var _ driven.EventSource = (*EventStream)(nil)

// eventBuffer is how many parsed events may queue ahead of the consumer.
const eventBuffer = 16

// EventStream subscribes to the backend's /events stream.
type EventStream struct {
	client  *http.Client
	baseURL *url.URL
}

// NewEventStream creates an event source. cfg.Timeout is ignored: the
// stream is long-lived and ends only when the server closes it or the
// subscription context is cancelled.
func NewEventStream(cfg Config) (*EventStream, error) {
	base, err := parseBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}

	return &EventStream{client: client, baseURL: base}, nil
}

// Subscribe opens the stream. The returned channel delivers each
// well-formed event and is closed when the stream ends or ctx is done.
// Malformed and unknown payloads are logged and dropped without closing
// the stream.
func (s *EventStream) Subscribe(ctx context.Context) (<-chan domain.Event, error) {
	const op = "subscribe events"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL.JoinPath("events").String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, domain.ErrBackendUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &domain.BackendError{Op: op, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	logger.Info("Event stream attached to %s", req.URL.String())

	events := make(chan domain.Event, eventBuffer)
	go func() {
		defer close(events)
		defer resp.Body.Close()

		scanner := newSSEScanner(resp.Body)
		for scanner.Next() {
			frame := scanner.Frame()
			event, err := domain.ParseEvent([]byte(frame.Data))
			if err != nil {
				if errors.Is(err, domain.ErrUnknownEvent) {
					logger.Debug("Ignoring event: %v", err)
				} else {
					logger.Warn("Dropping malformed event %q: %v", frame.Data, err)
				}
				continue
			}

			select {
			case events <- event:
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil && ctx.Err() == nil {
			logger.Warn("Event stream read failed: %v", err)
		}
		logger.Info("Event stream detached")
	}()

	return events, nil
}
