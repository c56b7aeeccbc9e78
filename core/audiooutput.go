package sonic

import (
	"context"
	"errors"
	"fmt"

	"github.com/koscakluka/ema-sonic/core/audio"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// playAudioOutput writes buffered frames to the playback device in arrival
// order, each frame only after the previous write returned.
func (c *Conversation) playAudioOutput(ctx context.Context) (err error) {
	ctx, span := tracer.Start(ctx, "play audio output")
	defer span.End()

	framesPlayed := 0
	defer func() {
		span.SetAttributes(
			attribute.Int("sonic.frames_played", framesPlayed),
			attribute.Int("sonic.frames_dropped", c.audioBuffer.Dropped()),
		)
		if err != nil && ctx.Err() == nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "audio output stopped")
		}
	}()

	if c.audioOutput == nil {
		return ErrMissingAudioOutput
	}

	encodingInfo := audio.GetOutputEncodingInfo()
	if err := c.audioOutput.StartPlayback(ctx, encodingInfo); err != nil {
		return fmt.Errorf("%w: failed to start playback: %w", ErrDevice, err)
	}
	defer func() {
		if buffered := c.audioBuffer.Buffered(encodingInfo); buffered > 0 {
			logger.Debug("Discarding unplayed audio", "duration", buffered)
		}
		if err := c.audioOutput.StopPlayback(); err != nil {
			logger.Warn("Failed to stop playback", "error", err)
		}
	}()

	for {
		frame, err := c.audioBuffer.NextAudio(ctx)
		if errors.Is(err, errAudioBufferStopped) {
			return nil
		} else if err != nil {
			return err
		}

		if err := c.audioOutput.SendAudio(ctx, frame); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("%w: failed to play audio: %w", ErrDevice, err)
		}
		framesPlayed++

		if c.audioBuffer.Len() == 0 {
			if err := c.flushAudioOutput(ctx); err != nil {
				return err
			}
		}
	}
}

// flushAudioOutput plays audio the sink holds back once the buffer runs dry,
// so the tail of a reply is not left waiting for the next one.
func (c *Conversation) flushAudioOutput(ctx context.Context) error {
	flusher, ok := c.audioOutput.(AudioFlusher)
	if !ok {
		return nil
	}
	if err := flusher.FlushAudio(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: failed to flush audio: %w", ErrDevice, err)
	}
	return nil
}
