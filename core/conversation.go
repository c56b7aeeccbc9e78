package sonic

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/koscakluka/ema-sonic/core/audio"
	"github.com/koscakluka/ema-sonic/core/events"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// Conversation drives one speech-to-speech session over a [Channel]. It owns
// the session identifiers, the single send path and the playback buffer
// shared by its pipelines.
type Conversation struct {
	session *Session
	channel Channel

	sendMu sync.Mutex

	audioInput  AudioInput
	audioOutput AudioOutput
	textOutput  TextOutput
	audioBuffer *audioBuffer

	config conversationConfig
}

func NewConversation(channel Channel, opts ...ConversationOption) *Conversation {
	c := &Conversation{
		session:    NewSession(),
		channel:    channel,
		textOutput: NewConsoleTextOutput(os.Stdout),
		config:     defaultConversationConfig(),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.audioBuffer = newAudioBuffer(c.config.playbackBufferCapacity)
	return c
}

func (c *Conversation) Session() *Session { return c.session }

// Start performs the setup sequence. Events are sent one at a time, in
// order, and the next one is only sent after the previous send returned.
// On success the session is streaming. On failure it is terminated.
func (c *Conversation) Start(ctx context.Context) (err error) {
	ctx, span := tracer.Start(ctx, "start conversation", trace.WithAttributes(
		attribute.String("sonic.prompt_id", c.session.PromptID()),
		attribute.String("sonic.voice_id", c.config.voiceID),
	))
	defer span.End()
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to start conversation")
		}
	}()

	if c.channel == nil {
		return ErrMissingChannel
	}
	if err := c.session.advance(StateIdle); err != nil {
		return fmt.Errorf("%w: session is %s", ErrAlreadyStarted, c.session.State())
	}

	if err := c.negotiate(ctx); err != nil {
		c.session.terminate()
		return err
	}

	logger.Info("Conversation streaming", "prompt_id", c.session.PromptID())
	return nil
}

func (c *Conversation) negotiate(ctx context.Context) error {
	audioOutputConfig, err := events.NewAudioOutputConfiguration(audioFormat(audio.GetOutputEncodingInfo()), c.config.voiceID)
	if err != nil {
		return fmt.Errorf("failed to build audio output configuration: %w", err)
	}

	promptID := c.session.PromptID()
	systemID := c.session.SystemContentID()

	// from is the state a step leaves once its event is sent. Steps left at
	// StateIdle don't move the session.
	steps := []struct {
		event events.Event
		from  State
	}{
		{event: events.NewSessionStart(c.config.modalities...)},
		{event: events.NewPromptStart(promptID, audioOutputConfig)},
		{event: events.NewTextContentStart(promptID, systemID, events.RoleSystem), from: StateNegotiating},
		{event: events.NewTextInput(promptID, systemID, c.config.systemPrompt)},
		{event: events.NewContentEnd(promptID, systemID), from: StateSystemPromptOpen},
	}

	for _, step := range steps {
		if err := c.send(ctx, step.event); err != nil {
			return err
		}
		if step.from != StateIdle {
			if err := c.session.advance(step.from); err != nil {
				return err
			}
		}
	}

	return c.session.advance(StateSystemPromptClosed)
}

// Run starts the conversation and then streams audio both ways until ctx is
// done or every pipeline has stopped. A pipeline failing does not stop the
// others. Failures are returned joined.
func (c *Conversation) Run(ctx context.Context) error {
	if c.audioInput == nil {
		return ErrMissingAudioInput
	}
	if c.audioOutput == nil {
		return ErrMissingAudioOutput
	}

	if err := c.Start(ctx); err != nil {
		return err
	}
	defer c.session.terminate()

	done := withContextCancelHook(ctx, c.audioBuffer.Stop)
	defer close(done)

	workers := []struct {
		name   string
		run    func(context.Context) error
		onExit func()
	}{
		{name: "audio input", run: c.streamAudioInput},
		// Nothing else feeds the playback buffer, let playback drain it.
		{name: "event receiver", run: c.receiveEvents, onExit: c.audioBuffer.Stop},
		{name: "audio output", run: c.playAudioOutput},
	}

	var g errgroup.Group
	errs := make([]error, len(workers))
	for i, worker := range workers {
		run := panicSafeNamedWorker(worker.name, worker.run)
		g.Go(func() error {
			errs[i] = run(ctx)
			if errs[i] != nil {
				logger.Error("Pipeline stopped", "pipeline", worker.name, "error", errs[i])
			}
			if worker.onExit != nil {
				worker.onExit()
			}
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}

// send serializes a single event onto the channel. It is the only writer.
func (c *Conversation) send(ctx context.Context, event events.Event) error {
	payload, err := events.Marshal(event)
	if err != nil {
		return err
	}

	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if err := c.channel.Send(ctx, payload); err != nil {
		return fmt.Errorf("%w: failed to send %s: %w", ErrChannel, event.Kind(), err)
	}
	return nil
}

func audioFormat(encodingInfo audio.EncodingInfo) events.AudioFormat {
	return events.NewAudioFormat(encodingInfo.SampleRate, encodingInfo.SampleSizeBits(), encodingInfo.ChannelCount())
}
