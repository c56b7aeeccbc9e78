package sonic

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/koscakluka/ema-sonic/core/audio"
	"github.com/koscakluka/ema-sonic/core/events"
)

func runReceiver(t *testing.T, conversation *Conversation, channel *fakeChannel, payloads ...[]byte) error {
	t.Helper()

	for _, payload := range payloads {
		channel.incoming <- payload
	}
	close(channel.incoming)

	return conversation.receiveEvents(context.Background())
}

func TestReceiverDisplaysTextOutput(t *testing.T) {
	channel := newFakeChannel()
	text := &fakeTextOutput{}
	conversation := NewConversation(channel, WithTextOutput(text))

	err := runReceiver(t, conversation, channel, mustMarshal(events.TextOutput{Content: "Hi there"}))
	if !errors.Is(err, io.EOF) {
		t.Fatalf("expected receiver to stop on channel EOF, got %v", err)
	}

	displayed := text.displayed()
	if len(displayed) != 1 || displayed[0] != "Hi there" {
		t.Fatalf("expected %q to be displayed once, got %v", "Hi there", displayed)
	}
	if got := conversation.audioBuffer.Len(); got != 0 {
		t.Fatalf("expected playback buffer to stay empty, got %d frames", got)
	}
}

func TestReceiverBuffersAudioOutputInOrder(t *testing.T) {
	channel := newFakeChannel()
	text := &fakeTextOutput{}
	conversation := NewConversation(channel, WithTextOutput(text))

	_ = runReceiver(t, conversation, channel,
		mustMarshal(events.AudioOutput{Content: "AAECAw=="}),
		mustMarshal(events.AudioOutput{Content: "BAU="}),
	)

	expected := [][]byte{{0x00, 0x01, 0x02, 0x03}, {0x04, 0x05}}
	for i, want := range expected {
		frame, err := conversation.audioBuffer.NextAudio(context.Background())
		if err != nil {
			t.Fatalf("expected frame %d, got %v", i, err)
		}
		if !bytes.Equal(frame, want) {
			t.Fatalf("expected frame %d to be %v, got %v", i, want, frame)
		}
	}
	if got := len(text.displayed()); got != 0 {
		t.Fatalf("expected no text displayed, got %d", got)
	}
}

func TestReceiverBuffersSilentFrameUnchanged(t *testing.T) {
	channel := newFakeChannel()
	conversation := NewConversation(channel, WithTextOutput(&fakeTextOutput{}))

	silence := audio.Silence(audio.FrameSize, audio.GetOutputEncodingInfo())
	content, err := audio.Encode(silence)
	if err != nil {
		t.Fatalf("expected silence to encode, got %v", err)
	}

	_ = runReceiver(t, conversation, channel, mustMarshal(events.AudioOutput{Content: content}))

	if got := conversation.audioBuffer.Len(); got != 1 {
		t.Fatalf("expected exactly one buffered frame, got %d", got)
	}
	frame, err := conversation.audioBuffer.NextAudio(context.Background())
	if err != nil {
		t.Fatalf("expected buffered frame, got %v", err)
	}
	if len(frame) != 2*audio.FrameSize || !bytes.Equal(frame, silence) {
		t.Fatalf("expected the %d byte silent frame, got %d bytes", 2*audio.FrameSize, len(frame))
	}
	if got := conversation.audioBuffer.Len(); got != 0 {
		t.Fatalf("expected buffer to be empty after the frame, got %d", got)
	}
}

func TestReceiverSkipsUnusablePayloads(t *testing.T) {
	channel := newFakeChannel()
	text := &fakeTextOutput{}
	conversation := NewConversation(channel, WithTextOutput(text))

	err := runReceiver(t, conversation, channel,
		[]byte{},
		[]byte("not json"),
		[]byte(`{"event":{"audioOutput":{"content":"!!!"}}}`),
		[]byte(`{"event":{"usageEvent":{"totalTokens":12}}}`),
		mustMarshal(events.NewContentEnd("p", "c")),
		mustMarshal(events.TextOutput{Content: "still here"}),
	)
	if !errors.Is(err, ErrChannel) {
		t.Fatalf("expected only the channel to stop the receiver, got %v", err)
	}

	displayed := text.displayed()
	if len(displayed) != 1 || displayed[0] != "still here" {
		t.Fatalf("expected receiver to continue past unusable payloads, got %v", displayed)
	}
	if got := conversation.audioBuffer.Len(); got != 0 {
		t.Fatalf("expected no audio buffered, got %d frames", got)
	}
}

func TestReceiverStopsOnCancel(t *testing.T) {
	channel := newFakeChannel()
	conversation := NewConversation(channel, WithTextOutput(&fakeTextOutput{}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := conversation.receiveEvents(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}

func TestHandlePayloadReportsDecodeFailure(t *testing.T) {
	conversation := NewConversation(newFakeChannel(), WithTextOutput(&fakeTextOutput{}))

	err := conversation.handlePayload(context.Background(), []byte(`{"event":{"audioOutput":{"content":""}}}`))
	if !errors.Is(err, ErrMalformedEvent) || !errors.Is(err, ErrEncoding) {
		t.Fatalf("expected malformed encoding error, got %v", err)
	}
}
