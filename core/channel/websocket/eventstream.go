package websocket

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws/protocol/eventstream"
)

const (
	eventTypeChunk     = "chunk"
	messageTypeEvent   = "event"
	messageTypeError   = "exception"
	contentTypeJSON    = "application/json"
	headerEventType    = ":event-type"
	headerMessageType  = ":message-type"
	headerContentType  = ":content-type"
	initialFrameBuffer = 4096
)

var errStreamException = errors.New("stream exception")

// chunkPayload is the JSON body of an event-stream frame. The event itself
// travels base64 encoded in bytes.
type chunkPayload struct {
	Bytes []byte `json:"bytes"`
}

type eventStreamFraming struct {
	encoder *eventstream.Encoder
	decoder *eventstream.Decoder
	buf     []byte
}

func newEventStreamFraming() *eventStreamFraming {
	return &eventStreamFraming{
		encoder: eventstream.NewEncoder(),
		decoder: eventstream.NewDecoder(),
		buf:     make([]byte, 0, initialFrameBuffer),
	}
}

// encode must not be called concurrently.
func (f *eventStreamFraming) encode(payload []byte) ([]byte, error) {
	body, err := json.Marshal(chunkPayload{Bytes: payload})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chunk: %w", err)
	}

	msg := eventstream.Message{Payload: body}
	msg.Headers.Set(headerEventType, eventstream.StringValue(eventTypeChunk))
	msg.Headers.Set(headerContentType, eventstream.StringValue(contentTypeJSON))
	msg.Headers.Set(headerMessageType, eventstream.StringValue(messageTypeEvent))

	var frame bytes.Buffer
	if err := f.encoder.Encode(&frame, msg); err != nil {
		return nil, fmt.Errorf("failed to encode frame: %w", err)
	}
	return frame.Bytes(), nil
}

// decode must not be called concurrently.
func (f *eventStreamFraming) decode(frame []byte) ([]byte, error) {
	msg, err := f.decoder.Decode(bytes.NewReader(frame), f.buf)
	if err != nil {
		return nil, fmt.Errorf("failed to decode frame: %w", err)
	}

	if isException(msg) {
		return nil, fmt.Errorf("%w: %s", errStreamException, string(msg.Payload))
	}

	var chunk chunkPayload
	if err := json.Unmarshal(msg.Payload, &chunk); err != nil {
		return nil, fmt.Errorf("failed to unmarshal chunk: %w", err)
	}
	return chunk.Bytes, nil
}

func isException(msg eventstream.Message) bool {
	for _, name := range []string{headerEventType, headerMessageType} {
		if val := msg.Headers.Get(name); val != nil {
			if str, ok := val.(eventstream.StringValue); ok && string(str) == messageTypeError {
				return true
			}
		}
	}
	return false
}
