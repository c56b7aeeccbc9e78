package events

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedEvent is returned when a payload is not a valid event envelope.
var ErrMalformedEvent = errors.New("malformed event")

type envelope struct {
	Event map[Kind]json.RawMessage `json:"event"`
}

// Marshal wraps the event in its wire envelope.
func Marshal(event Event) ([]byte, error) {
	if event == nil {
		return nil, fmt.Errorf("cannot marshal nil event")
	}

	payload, err := json.Marshal(map[string]map[Kind]Event{
		"event": {event.Kind(): event},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s event: %w", event.Kind(), err)
	}
	return payload, nil
}

// Parse decodes a wire payload into its event. Kinds not modelled by this
// package are returned as [Unknown].
func Parse(payload []byte) (Event, error) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrMalformedEvent)
	}

	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedEvent, err)
	}
	if len(env.Event) != 1 {
		return nil, fmt.Errorf("%w: expected exactly one event kind, got %d", ErrMalformedEvent, len(env.Event))
	}

	for kind, raw := range env.Event {
		event, err := decode(kind, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrMalformedEvent, kind, err)
		}
		return event, nil
	}
	return nil, nil
}

func decode(kind Kind, raw json.RawMessage) (Event, error) {
	switch kind {
	case KindSessionStart:
		return unmarshalAs[SessionStart](raw)
	case KindPromptStart:
		return unmarshalAs[PromptStart](raw)
	case KindContentStart:
		return unmarshalAs[ContentStart](raw)
	case KindTextInput:
		return unmarshalAs[TextInput](raw)
	case KindAudioInput:
		return unmarshalAs[AudioInput](raw)
	case KindContentEnd:
		return unmarshalAs[ContentEnd](raw)
	case KindTextOutput:
		return unmarshalAs[TextOutput](raw)
	case KindAudioOutput:
		return unmarshalAs[AudioOutput](raw)
	default:
		return Unknown{Name: string(kind), Payload: raw}, nil
	}
}

func unmarshalAs[T Event](raw json.RawMessage) (Event, error) {
	var event T
	if err := json.Unmarshal(raw, &event); err != nil {
		return nil, err
	}
	return event, nil
}
