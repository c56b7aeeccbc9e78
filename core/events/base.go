package events

type Kind string

const (
	KindSessionStart Kind = "sessionStart"
	KindPromptStart  Kind = "promptStart"
	KindContentStart Kind = "contentStart"
	KindTextInput    Kind = "textInput"
	KindAudioInput   Kind = "audioInput"
	KindContentEnd   Kind = "contentEnd"
	KindTextOutput   Kind = "textOutput"
	KindAudioOutput  Kind = "audioOutput"
)

// Event is implemented only by the types in this package, which keeps the
// set of kinds closed for exhaustive type switches.
type Event interface {
	Kind() Kind
	event()
}

type ContentType string

const (
	ContentTypeText  ContentType = "TEXT"
	ContentTypeAudio ContentType = "AUDIO"
)

type Role string

const (
	RoleSystem Role = "SYSTEM"
	RoleUser   Role = "USER"
)

const (
	ModalityText  = "text"
	ModalityAudio = "audio"
)
