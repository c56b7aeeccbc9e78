// Package events defines the protocol events exchanged with the speech model
// over the bidirectional channel.
//
// Every payload on the wire is a JSON object of the form
//
//	{"event": {"<kind>": {...fields...}}}
//
// with exactly one kind per payload. Field names are part of the wire
// contract and must not change.
//
// Input events (client to model)
//
//   - SessionStart (sessionStart): requested output modalities.
//   - PromptStart (promptStart): expected output audio and text formats.
//   - ContentStart (contentStart): opens a typed, role-tagged content stream.
//   - TextInput (textInput): text for an open TEXT content stream.
//   - AudioInput (audioInput): base64 audio for an open AUDIO content stream.
//   - ContentEnd (contentEnd): closes a content stream.
//
// Output events (model to client)
//
//   - TextOutput (textOutput): generated or transcribed text.
//   - AudioOutput (audioOutput): base64 synthesized audio.
//
// Any other kind received from the model parses into [Unknown] so callers can
// ignore it without treating it as malformed.
package events
