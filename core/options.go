package sonic

import (
	"context"
	"time"

	"github.com/koscakluka/ema-sonic/core/audio"
	"github.com/koscakluka/ema-sonic/core/events"
)

const (
	DefaultVoiceID      = "matthew"
	DefaultSystemPrompt = "You are a helpful assistant speaking naturally."
	DefaultSendPause    = 10 * time.Millisecond
)

// Channel is one long-lived bidirectional stream to the model. Each direction
// preserves event order. Send is not required to be safe for concurrent use,
// the conversation serializes it.
type Channel interface {
	Send(ctx context.Context, payload []byte) error
	Receive(ctx context.Context) ([]byte, error)
}

// AudioInput is a capture source. ReadAudio blocks until frameSize samples
// are available and returns them as little-endian PCM.
type AudioInput interface {
	StartCapture(ctx context.Context, encodingInfo audio.EncodingInfo) error
	ReadAudio(ctx context.Context, frameSize int) ([]byte, error)
	StopCapture() error
}

// AudioOutput is a playback sink. SendAudio blocks until the device has
// accepted the audio.
type AudioOutput interface {
	StartPlayback(ctx context.Context, encodingInfo audio.EncodingInfo) error
	SendAudio(ctx context.Context, audio []byte) error
	StopPlayback() error
}

// AudioFlusher is implemented by playback sinks that hold back partial device
// buffers. FlushAudio plays what is held back, padded with silence.
type AudioFlusher interface {
	FlushAudio(ctx context.Context) error
}

// TextOutput shows text produced by the model to the user.
type TextOutput interface {
	Display(text string)
}

type ConversationOption func(*Conversation)

func WithAudioInput(client AudioInput) ConversationOption {
	return func(c *Conversation) { c.audioInput = client }
}

func WithAudioOutput(client AudioOutput) ConversationOption {
	return func(c *Conversation) { c.audioOutput = client }
}

func WithTextOutput(output TextOutput) ConversationOption {
	return func(c *Conversation) {
		if output != nil {
			c.textOutput = output
		}
	}
}

// WithVoice selects the voice used for synthesized audio.
func WithVoice(voiceID string) ConversationOption {
	return func(c *Conversation) {
		if voiceID != "" {
			c.config.voiceID = voiceID
		}
	}
}

// WithSystemPrompt sets the instruction sent in the SYSTEM content stream.
func WithSystemPrompt(prompt string) ConversationOption {
	return func(c *Conversation) {
		if prompt != "" {
			c.config.systemPrompt = prompt
		}
	}
}

// WithModalities overrides the modalities requested in session start.
func WithModalities(modalities ...string) ConversationOption {
	return func(c *Conversation) {
		if len(modalities) > 0 {
			c.config.modalities = modalities
		}
	}
}

// WithSendPause sets the pause after each audio frame is sent. The pause
// only yields to other goroutines, it does not pace audio.
func WithSendPause(pause time.Duration) ConversationOption {
	return func(c *Conversation) {
		if pause >= 0 {
			c.config.sendPause = pause
		}
	}
}

// WithPlaybackBufferCapacity bounds the playback buffer. When full, the
// oldest frame is dropped to make room. Zero keeps it unbounded.
func WithPlaybackBufferCapacity(frames int) ConversationOption {
	return func(c *Conversation) {
		if frames >= 0 {
			c.config.playbackBufferCapacity = frames
		}
	}
}

// WithCaptureStartedCallback is called once the USER audio stream is open
// and frames are about to be sent.
func WithCaptureStartedCallback(callback func()) ConversationOption {
	return func(c *Conversation) {
		if callback != nil {
			c.config.onCaptureStarted = callback
		}
	}
}

type conversationConfig struct {
	voiceID                string
	systemPrompt           string
	modalities             []string
	sendPause              time.Duration
	playbackBufferCapacity int
	frameSize              int
	onCaptureStarted       func()
}

func defaultConversationConfig() conversationConfig {
	return conversationConfig{
		voiceID:          DefaultVoiceID,
		systemPrompt:     DefaultSystemPrompt,
		modalities:       []string{events.ModalityText, events.ModalityAudio},
		sendPause:        DefaultSendPause,
		frameSize:        audio.FrameSize,
		onCaptureStarted: func() {},
	}
}
