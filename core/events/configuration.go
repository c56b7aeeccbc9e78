package events

import (
	"fmt"

	"github.com/jinzhu/copier"
)

const (
	MediaTypeLPCM      = "audio/lpcm"
	MediaTypeTextPlain = "text/plain"
	EncodingBase64     = "base64"
	AudioTypeSpeech    = "SPEECH"
)

// AudioFormat is the shared description of a linear PCM stream that both the
// input and output audio configurations are derived from.
type AudioFormat struct {
	MediaType       string
	SampleRateHertz int
	SampleSizeBits  int
	ChannelCount    int
	Encoding        string
	AudioType       string
}

// NewAudioFormat describes base64 encoded linear PCM speech.
func NewAudioFormat(sampleRate, sampleSizeBits, channelCount int) AudioFormat {
	return AudioFormat{
		MediaType:       MediaTypeLPCM,
		SampleRateHertz: sampleRate,
		SampleSizeBits:  sampleSizeBits,
		ChannelCount:    channelCount,
		Encoding:        EncodingBase64,
		AudioType:       AudioTypeSpeech,
	}
}

type AudioOutputConfiguration struct {
	MediaType       string `json:"mediaType"`
	SampleRateHertz int    `json:"sampleRateHertz"`
	SampleSizeBits  int    `json:"sampleSizeBits"`
	ChannelCount    int    `json:"channelCount"`
	Encoding        string `json:"encoding"`
	AudioType       string `json:"audioType"`
	VoiceID         string `json:"voiceId"`
}

type AudioInputConfiguration struct {
	MediaType        string `json:"mediaType"`
	SampleRateHertz  int    `json:"sampleRateHertz"`
	SampleSizeBits   int    `json:"sampleSizeBits"`
	ChannelCount     int    `json:"channelCount"`
	Encoding         string `json:"encoding"`
	AudioType        string `json:"audioType"`
	ResponsesEnabled bool   `json:"responsesEnabled"`
}

type TextConfiguration struct {
	MediaType string `json:"mediaType"`
}

func NewAudioOutputConfiguration(format AudioFormat, voiceID string) (AudioOutputConfiguration, error) {
	var configuration AudioOutputConfiguration
	if err := copier.Copy(&configuration, &format); err != nil {
		return AudioOutputConfiguration{}, fmt.Errorf("failed to build audio output configuration: %w", err)
	}
	configuration.VoiceID = voiceID
	return configuration, nil
}

func NewAudioInputConfiguration(format AudioFormat, responsesEnabled bool) (AudioInputConfiguration, error) {
	var configuration AudioInputConfiguration
	if err := copier.Copy(&configuration, &format); err != nil {
		return AudioInputConfiguration{}, fmt.Errorf("failed to build audio input configuration: %w", err)
	}
	configuration.ResponsesEnabled = responsesEnabled
	return configuration, nil
}

func NewTextConfiguration() TextConfiguration {
	return TextConfiguration{MediaType: MediaTypeTextPlain}
}
