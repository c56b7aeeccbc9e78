package events

// SessionStart declares the modalities the client wants back.
type SessionStart struct {
	Modalities []string `json:"modalities"`
}

func NewSessionStart(modalities ...string) SessionStart {
	if len(modalities) == 0 {
		modalities = []string{ModalityText, ModalityAudio}
	}
	return SessionStart{Modalities: modalities}
}

func (SessionStart) Kind() Kind { return KindSessionStart }
func (SessionStart) event()     {}

// PromptStart opens the prompt that scopes the conversation and declares the
// output formats the client expects.
type PromptStart struct {
	PromptName               string                   `json:"promptName"`
	AudioOutputConfiguration AudioOutputConfiguration `json:"audioOutputConfiguration"`
	TextOutputConfiguration  TextConfiguration        `json:"textOutputConfiguration"`
}

func NewPromptStart(promptName string, audioOutput AudioOutputConfiguration) PromptStart {
	return PromptStart{
		PromptName:               promptName,
		AudioOutputConfiguration: audioOutput,
		TextOutputConfiguration:  NewTextConfiguration(),
	}
}

func (PromptStart) Kind() Kind { return KindPromptStart }
func (PromptStart) event()     {}

// ContentStart opens a content stream. Exactly one of the input
// configurations is set, matching Type.
type ContentStart struct {
	PromptName              string                   `json:"promptName"`
	ContentName             string                   `json:"contentName"`
	Type                    ContentType              `json:"type"`
	Role                    Role                     `json:"role"`
	TextInputConfiguration  *TextConfiguration       `json:"textInputConfiguration,omitempty"`
	AudioInputConfiguration *AudioInputConfiguration `json:"audioInputConfiguration,omitempty"`
}

// NewTextContentStart opens a TEXT stream for the given role.
func NewTextContentStart(promptName, contentName string, role Role) ContentStart {
	configuration := NewTextConfiguration()
	return ContentStart{
		PromptName:             promptName,
		ContentName:            contentName,
		Type:                   ContentTypeText,
		Role:                   role,
		TextInputConfiguration: &configuration,
	}
}

// NewAudioContentStart opens an AUDIO stream for the given role.
func NewAudioContentStart(promptName, contentName string, role Role, audioInput AudioInputConfiguration) ContentStart {
	return ContentStart{
		PromptName:              promptName,
		ContentName:             contentName,
		Type:                    ContentTypeAudio,
		Role:                    role,
		AudioInputConfiguration: &audioInput,
	}
}

func (ContentStart) Kind() Kind { return KindContentStart }
func (ContentStart) event()     {}

type TextInput struct {
	PromptName  string `json:"promptName"`
	ContentName string `json:"contentName"`
	Content     string `json:"content"`
}

func NewTextInput(promptName, contentName, content string) TextInput {
	return TextInput{PromptName: promptName, ContentName: contentName, Content: content}
}

func (TextInput) Kind() Kind { return KindTextInput }
func (TextInput) event()     {}

// AudioInput carries one transport encoded audio frame.
type AudioInput struct {
	PromptName  string `json:"promptName"`
	ContentName string `json:"contentName"`
	Content     string `json:"content"`
}

func NewAudioInput(promptName, contentName, content string) AudioInput {
	return AudioInput{PromptName: promptName, ContentName: contentName, Content: content}
}

func (AudioInput) Kind() Kind { return KindAudioInput }
func (AudioInput) event()     {}

type ContentEnd struct {
	PromptName  string `json:"promptName"`
	ContentName string `json:"contentName"`
}

func NewContentEnd(promptName, contentName string) ContentEnd {
	return ContentEnd{PromptName: promptName, ContentName: contentName}
}

func (ContentEnd) Kind() Kind { return KindContentEnd }
func (ContentEnd) event()     {}
