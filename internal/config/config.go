package config

import (
	"fmt"

	"github.com/spf13/viper"
)

const envPrefix = "SONIC"

const (
	regionKey                 = "region"
	modelIDKey                = "model_id"
	voiceIDKey                = "voice_id"
	systemPromptKey           = "system_prompt"
	endpointKey               = "endpoint"
	eventStreamFramingKey     = "event_stream_framing"
	audioBackendKey           = "audio_backend"
	playbackBufferCapacityKey = "playback_buffer_capacity"
)

const (
	AudioBackendPortAudio = "portaudio"
	AudioBackendMiniaudio = "miniaudio"
)

// Settings are the process settings of the voice client. Every field can be
// set through a SONIC_ prefixed environment variable, e.g. SONIC_VOICE_ID.
type Settings struct {
	Region       string
	ModelID      string
	VoiceID      string
	SystemPrompt string

	// Endpoint is a websocket URL. When set it replaces Bedrock.
	Endpoint           string
	EventStreamFraming bool

	AudioBackend           string
	PlaybackBufferCapacity int
}

// Load reads settings from the environment. A nil cfg uses a fresh viper
// instance.
func Load(cfg *viper.Viper) (Settings, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	cfg.SetEnvPrefix(envPrefix)
	cfg.AutomaticEnv()

	cfg.SetDefault(regionKey, "us-east-1")
	cfg.SetDefault(modelIDKey, "amazon.nova-sonic-v1:0")
	cfg.SetDefault(voiceIDKey, "matthew")
	cfg.SetDefault(systemPromptKey, "You are a helpful assistant speaking naturally.")
	cfg.SetDefault(endpointKey, "")
	cfg.SetDefault(eventStreamFramingKey, false)
	cfg.SetDefault(audioBackendKey, AudioBackendPortAudio)
	cfg.SetDefault(playbackBufferCapacityKey, 0)

	settings := Settings{
		Region:                 cfg.GetString(regionKey),
		ModelID:                cfg.GetString(modelIDKey),
		VoiceID:                cfg.GetString(voiceIDKey),
		SystemPrompt:           cfg.GetString(systemPromptKey),
		Endpoint:               cfg.GetString(endpointKey),
		EventStreamFraming:     cfg.GetBool(eventStreamFramingKey),
		AudioBackend:           cfg.GetString(audioBackendKey),
		PlaybackBufferCapacity: cfg.GetInt(playbackBufferCapacityKey),
	}

	switch settings.AudioBackend {
	case AudioBackendPortAudio, AudioBackendMiniaudio:
	default:
		return Settings{}, fmt.Errorf("unsupported audio backend %q", settings.AudioBackend)
	}
	if settings.PlaybackBufferCapacity < 0 {
		return Settings{}, fmt.Errorf("playback buffer capacity must not be negative, got %d", settings.PlaybackBufferCapacity)
	}

	return settings, nil
}
