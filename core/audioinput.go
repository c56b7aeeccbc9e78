package sonic

import (
	"context"
	"fmt"

	"github.com/koscakluka/ema-sonic/core/audio"
	"github.com/koscakluka/ema-sonic/core/events"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// streamAudioInput opens the USER audio stream and forwards captured frames
// until ctx is done or capture or sending fails.
func (c *Conversation) streamAudioInput(ctx context.Context) (err error) {
	ctx, span := tracer.Start(ctx, "stream audio input", trace.WithAttributes(
		attribute.String("sonic.content_id", c.session.AudioContentID()),
	))
	defer span.End()

	framesSent := 0
	defer func() {
		span.SetAttributes(attribute.Int("sonic.frames_sent", framesSent))
		if err != nil && ctx.Err() == nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "audio input stopped")
		}
	}()

	if !c.session.IsStreaming() {
		return fmt.Errorf("%w: session is %s", ErrNotStreaming, c.session.State())
	}
	if c.audioInput == nil {
		return ErrMissingAudioInput
	}

	encodingInfo := audio.GetInputEncodingInfo()
	if err := c.audioInput.StartCapture(ctx, encodingInfo); err != nil {
		return fmt.Errorf("%w: failed to start capture: %w", ErrDevice, err)
	}
	defer func() {
		if err := c.audioInput.StopCapture(); err != nil {
			logger.Warn("Failed to stop capture", "error", err)
		}
	}()

	inputConfig, err := events.NewAudioInputConfiguration(audioFormat(encodingInfo), true)
	if err != nil {
		return fmt.Errorf("failed to build audio input configuration: %w", err)
	}

	promptID := c.session.PromptID()
	contentID := c.session.AudioContentID()
	if err := c.send(ctx, events.NewAudioContentStart(promptID, contentID, events.RoleUser, inputConfig)); err != nil {
		return err
	}
	c.config.onCaptureStarted()

	for {
		frame, err := c.audioInput.ReadAudio(ctx, c.config.frameSize)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("%w: failed to read audio: %w", ErrDevice, err)
		}
		if len(frame) == 0 {
			if err := pause(ctx, c.config.sendPause); err != nil {
				return err
			}
			continue
		}

		content, err := audio.Encode(frame)
		if err != nil {
			return fmt.Errorf("failed to encode audio frame: %w", err)
		}
		if err := c.send(ctx, events.NewAudioInput(promptID, contentID, content)); err != nil {
			return err
		}
		framesSent++
		framesSentCounter.Add(ctx, 1)

		if err := pause(ctx, c.config.sendPause); err != nil {
			return err
		}
	}
}
