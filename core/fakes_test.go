package sonic

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/koscakluka/ema-sonic/core/audio"
	"github.com/koscakluka/ema-sonic/core/events"
)

type fakeChannel struct {
	mu       sync.Mutex
	sent     [][]byte
	sendErr  error
	failAt   int
	inFlight int
	overlap  bool

	incoming chan []byte
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{failAt: -1, incoming: make(chan []byte, 64)}
}

func (c *fakeChannel) Send(ctx context.Context, payload []byte) error {
	c.mu.Lock()
	c.inFlight++
	if c.inFlight > 1 {
		c.overlap = true
	}
	index := len(c.sent)
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.inFlight--
		c.mu.Unlock()
	}()

	if c.failAt >= 0 && index >= c.failAt {
		return c.sendErr
	}

	c.mu.Lock()
	c.sent = append(c.sent, append([]byte(nil), payload...))
	c.mu.Unlock()
	return nil
}

func (c *fakeChannel) Receive(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case payload, ok := <-c.incoming:
		if !ok {
			return nil, io.EOF
		}
		return payload, nil
	}
}

func (c *fakeChannel) sentEvents() []events.Event {
	c.mu.Lock()
	defer c.mu.Unlock()

	parsed := make([]events.Event, 0, len(c.sent))
	for _, payload := range c.sent {
		event, err := events.Parse(payload)
		if err != nil {
			panic(err)
		}
		parsed = append(parsed, event)
	}
	return parsed
}

func (c *fakeChannel) sentOverlapped() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.overlap
}

// fakeAudioInput hands out the configured frames, then blocks until ctx is
// done.
type fakeAudioInput struct {
	mu       sync.Mutex
	frames   [][]byte
	startErr error
	readErr  error
	started  audio.EncodingInfo
	stopped  bool
}

func (i *fakeAudioInput) StartCapture(ctx context.Context, encodingInfo audio.EncodingInfo) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.started = encodingInfo
	return i.startErr
}

func (i *fakeAudioInput) ReadAudio(ctx context.Context, frameSize int) ([]byte, error) {
	i.mu.Lock()
	if len(i.frames) > 0 {
		frame := i.frames[0]
		i.frames = i.frames[1:]
		i.mu.Unlock()
		return frame, nil
	}
	readErr := i.readErr
	i.mu.Unlock()

	if readErr != nil {
		return nil, readErr
	}
	<-ctx.Done()
	return nil, ctx.Err()
}

func (i *fakeAudioInput) StopCapture() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.stopped = true
	return nil
}

type fakeAudioOutput struct {
	mu      sync.Mutex
	played  [][]byte
	sendErr error
	stopped bool
	onPlay  func()
}

func (o *fakeAudioOutput) StartPlayback(ctx context.Context, encodingInfo audio.EncodingInfo) error {
	return nil
}

func (o *fakeAudioOutput) SendAudio(ctx context.Context, frame []byte) error {
	o.mu.Lock()
	if o.sendErr != nil {
		o.mu.Unlock()
		return o.sendErr
	}
	o.played = append(o.played, frame)
	onPlay := o.onPlay
	o.mu.Unlock()

	if onPlay != nil {
		onPlay()
	}
	return nil
}

func (o *fakeAudioOutput) StopPlayback() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stopped = true
	return nil
}

func (o *fakeAudioOutput) playedFrames() [][]byte {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([][]byte(nil), o.played...)
}

// flushingAudioOutput records when FlushAudio runs relative to playback.
type flushingAudioOutput struct {
	fakeAudioOutput
	flushErr     error
	flushedAfter []int
}

func (o *flushingAudioOutput) FlushAudio(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.flushedAfter = append(o.flushedAfter, len(o.played))
	return o.flushErr
}

func (o *flushingAudioOutput) flushes() []int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]int(nil), o.flushedAfter...)
}

type fakeTextOutput struct {
	mu    sync.Mutex
	texts []string
}

func (o *fakeTextOutput) Display(text string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.texts = append(o.texts, text)
}

func (o *fakeTextOutput) displayed() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.texts...)
}

var errFakeTransport = errors.New("transport failed")

func mustMarshal(event events.Event) []byte {
	payload, err := events.Marshal(event)
	if err != nil {
		panic(err)
	}
	return payload
}
