package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	settings, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, Settings{
		Region:       "us-east-1",
		ModelID:      "amazon.nova-sonic-v1:0",
		VoiceID:      "matthew",
		SystemPrompt: "You are a helpful assistant speaking naturally.",
		AudioBackend: AudioBackendPortAudio,
	}, settings)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("SONIC_REGION", "eu-north-1")
	t.Setenv("SONIC_MODEL_ID", "amazon.nova-2-sonic-v1:0")
	t.Setenv("SONIC_VOICE_ID", "tiffany")
	t.Setenv("SONIC_SYSTEM_PROMPT", "Answer in one sentence.")
	t.Setenv("SONIC_ENDPOINT", "ws://localhost:8080/stream")
	t.Setenv("SONIC_EVENT_STREAM_FRAMING", "true")
	t.Setenv("SONIC_AUDIO_BACKEND", "miniaudio")
	t.Setenv("SONIC_PLAYBACK_BUFFER_CAPACITY", "256")

	settings, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, Settings{
		Region:                 "eu-north-1",
		ModelID:                "amazon.nova-2-sonic-v1:0",
		VoiceID:                "tiffany",
		SystemPrompt:           "Answer in one sentence.",
		Endpoint:               "ws://localhost:8080/stream",
		EventStreamFraming:     true,
		AudioBackend:           AudioBackendMiniaudio,
		PlaybackBufferCapacity: 256,
	}, settings)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	testCases := map[string]struct {
		key   string
		value string
	}{
		"unknown backend":   {key: "SONIC_AUDIO_BACKEND", value: "alsa"},
		"negative capacity": {key: "SONIC_PLAYBACK_BUFFER_CAPACITY", value: "-1"},
	}

	for name, testCase := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(testCase.key, testCase.value)

			_, err := Load(viper.New())
			assert.Error(t, err)
		})
	}
}
