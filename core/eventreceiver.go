package sonic

import (
	"context"
	"fmt"

	"github.com/koscakluka/ema-sonic/core/audio"
	"github.com/koscakluka/ema-sonic/core/events"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

// receiveEvents reads payloads from the channel in order and routes them.
// Payloads that cannot be used are logged and skipped. Only a channel
// failure stops it.
func (c *Conversation) receiveEvents(ctx context.Context) (err error) {
	ctx, span := tracer.Start(ctx, "receive events")
	defer span.End()
	defer func() {
		if err != nil && ctx.Err() == nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "event receiver stopped")
		}
	}()

	for {
		payload, err := c.channel.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("%w: failed to receive: %w", ErrChannel, err)
		}
		if len(payload) == 0 {
			continue
		}

		if err := c.handlePayload(ctx, payload); err != nil {
			malformedEventsCounter.Add(ctx, 1)
			logger.Warn("Skipping unusable event", "error", err, "size", len(payload))
		}
	}
}

func (c *Conversation) handlePayload(ctx context.Context, payload []byte) error {
	event, err := events.Parse(payload)
	if err != nil {
		return err
	}

	switch e := event.(type) {
	case events.TextOutput:
		c.textOutput.Display(e.Content)

	case events.AudioOutput:
		frame, err := audio.Decode(e.Content)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrMalformedEvent, e.Kind(), err)
		}
		framesReceivedCounter.Add(ctx, 1)
		if dropped := c.audioBuffer.AddAudio(frame); dropped {
			framesDroppedCounter.Add(ctx, 1, metric.WithAttributes(
				attribute.Int("sonic.buffer_capacity", c.config.playbackBufferCapacity),
			))
		}

	case events.Unknown:
		logger.Debug("Ignoring event", "kind", e.Kind())

	case events.SessionStart, events.PromptStart, events.ContentStart,
		events.TextInput, events.AudioInput, events.ContentEnd:
		logger.Debug("Ignoring input event echoed by the model", "kind", e.Kind())
	}

	return nil
}
