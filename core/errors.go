package sonic

import (
	"errors"

	"github.com/koscakluka/ema-sonic/core/audio"
	"github.com/koscakluka/ema-sonic/core/events"
)

var (
	// ErrChannel marks a send or receive failure on the bidirectional
	// channel. It is fatal to the pipeline that hit it.
	ErrChannel = errors.New("channel error")
	// ErrDevice marks a capture or playback device failure. It is fatal to
	// the pipeline that owns the device.
	ErrDevice = errors.New("audio device error")
	// ErrMalformedEvent marks a received payload that could not be used. The
	// inbound pipeline skips it.
	ErrMalformedEvent = events.ErrMalformedEvent
	// ErrEncoding marks audio that could not be encoded or decoded.
	ErrEncoding = audio.ErrEncoding

	ErrAlreadyStarted         = errors.New("conversation already started")
	ErrNotStreaming           = errors.New("conversation is not streaming")
	ErrInvalidStateTransition = errors.New("invalid session state transition")
	ErrMissingChannel         = errors.New("conversation has no channel")
	ErrMissingAudioInput      = errors.New("conversation has no audio input")
	ErrMissingAudioOutput     = errors.New("conversation has no audio output")
)
