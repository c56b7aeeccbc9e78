package bedrock

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
)

// eventStream is the part of the SDK event stream the channel relies on.
type eventStream interface {
	Send(ctx context.Context, event types.InvokeModelWithBidirectionalStreamInput) error
	Events() <-chan types.InvokeModelWithBidirectionalStreamOutput
	Close() error
	Err() error
}

// Stream carries raw event payloads over a Bedrock bidirectional stream.
type Stream struct {
	stream eventStream

	closeOnce sync.Once
	closeErr  error
}

func newStream(stream eventStream) *Stream {
	return &Stream{stream: stream}
}

func (s *Stream) Send(ctx context.Context, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.stream.Send(ctx, &types.InvokeModelWithBidirectionalStreamInputMemberChunk{
		Value: types.BidirectionalInputPayloadPart{Bytes: payload},
	})
	if err != nil {
		return fmt.Errorf("failed to send chunk: %w", err)
	}
	return nil
}

// Receive returns the next chunk. Stream members that carry no chunk yield
// an empty payload. Once the stream ends it returns the stream error, or
// io.EOF if it ended cleanly.
func (s *Stream) Receive(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case event, ok := <-s.stream.Events():
		if !ok {
			if err := s.stream.Err(); err != nil {
				return nil, fmt.Errorf("stream failed: %w", err)
			}
			return nil, io.EOF
		}

		switch e := event.(type) {
		case *types.InvokeModelWithBidirectionalStreamOutputMemberChunk:
			return e.Value.Bytes, nil
		default:
			logger.Debug("Ignoring stream member", "type", fmt.Sprintf("%T", event))
			return []byte{}, nil
		}
	}
}

func (s *Stream) Close() error {
	s.closeOnce.Do(func() {
		if err := s.stream.Close(); err != nil {
			s.closeErr = fmt.Errorf("failed to close stream: %w", err)
		}
	})
	return s.closeErr
}
