package events

import "encoding/json"

type TextOutput struct {
	Content string `json:"content"`
}

func (TextOutput) Kind() Kind { return KindTextOutput }
func (TextOutput) event()     {}

// AudioOutput carries base64 synthesized audio at the output sample rate
// declared in [PromptStart].
type AudioOutput struct {
	Content string `json:"content"`
}

func (AudioOutput) Kind() Kind { return KindAudioOutput }
func (AudioOutput) event()     {}

// Unknown holds an event whose kind this package does not model, such as
// usage or completion notifications.
type Unknown struct {
	Name    string
	Payload json.RawMessage
}

func (u Unknown) Kind() Kind { return Kind(u.Name) }
func (Unknown) event()       {}

func (u Unknown) MarshalJSON() ([]byte, error) {
	if len(u.Payload) == 0 {
		return []byte("{}"), nil
	}
	return u.Payload, nil
}
