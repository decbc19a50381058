package domain

import (
	"encoding/json"
	"fmt"
)

// EventType discriminates push notifications from the backend.
type EventType string

const (
	// EventSplitFinished reports that a split completed for an item.
	EventSplitFinished EventType = "split_finished"

	// EventSplitFailed reports that a split failed for an item.
	EventSplitFailed EventType = "split_failed"
)

// Event is a decoded push notification.
type Event struct {
	// Type is the discriminator.
	Type EventType

	// ItemID identifies the ayah the event concerns.
	ItemID string

	// Error is the backend's failure message (split_failed only).
	Error string
}

// envelope is the wire form: {"type": ..., "data": {...}}.
type envelope struct {
	Type EventType       `json:"type"`
	Data json.RawMessage `json:"data"`
}

type eventData struct {
	ItemID string `json:"item_id"`
	Error  string `json:"error"`
}

// ParseEvent decodes a push payload. Payloads that are not valid JSON or
// lack an item id return ErrMalformedEvent; unrecognised discriminators
// return ErrUnknownEvent.
func ParseEvent(payload []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	switch env.Type {
	case EventSplitFinished, EventSplitFailed:
	case "":
		return Event{}, fmt.Errorf("%w: missing type", ErrMalformedEvent)
	default:
		return Event{}, fmt.Errorf("%w: %q", ErrUnknownEvent, env.Type)
	}

	var data eventData
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return Event{}, fmt.Errorf("%w: data: %v", ErrMalformedEvent, err)
		}
	}
	if data.ItemID == "" {
		return Event{}, fmt.Errorf("%w: missing item_id", ErrMalformedEvent)
	}

	ev := Event{Type: env.Type, ItemID: data.ItemID}
	if env.Type == EventSplitFailed {
		ev.Error = data.Error
	}
	return ev, nil
}
