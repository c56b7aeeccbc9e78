package sonic

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/koscakluka/ema-sonic/core/audio"
)

var errAudioBufferStopped = errors.New("audio buffer stopped")

// audioBuffer hands decoded frames from the event receiver to playback. It
// has exactly one producer and one consumer and keeps frames in arrival
// order.
type audioBuffer struct {
	mu sync.Mutex

	audio    [][]byte
	capacity int
	dropped  int
	stopped  bool

	updateSignal chan struct{}
}

// newAudioBuffer creates a buffer holding at most capacity frames. A capacity
// of zero or less leaves it unbounded.
func newAudioBuffer(capacity int) *audioBuffer {
	return &audioBuffer{
		capacity:     capacity,
		updateSignal: make(chan struct{}, 1),
	}
}

// AddAudio appends a frame without blocking. When the buffer is at capacity
// the oldest frame is discarded and reported as dropped.
func (b *audioBuffer) AddAudio(frame []byte) (dropped bool) {
	b.mu.Lock()
	if b.stopped {
		b.mu.Unlock()
		return false
	}
	if b.capacity > 0 && len(b.audio) >= b.capacity {
		b.audio[0] = nil
		b.audio = b.audio[1:]
		b.dropped++
		dropped = true
	}
	b.audio = append(b.audio, frame)
	b.mu.Unlock()
	b.signalUpdate()
	return dropped
}

// NextAudio blocks until a frame is available, the buffer is stopped or ctx
// is done.
func (b *audioBuffer) NextAudio(ctx context.Context) ([]byte, error) {
	for {
		if frame, ok, err := b.consumeNextChunk(); ok || err != nil {
			return frame, err
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-b.updateSignal:
		}
	}
}

func (b *audioBuffer) consumeNextChunk() ([]byte, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.audio) > 0 {
		frame := b.audio[0]
		b.audio[0] = nil
		b.audio = b.audio[1:]
		return frame, true, nil
	}
	if b.stopped {
		return nil, false, errAudioBufferStopped
	}
	return nil, false, nil
}

func (b *audioBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.audio)
}

// Buffered reports how much audio is waiting to be played.
func (b *audioBuffer) Buffered(encodingInfo audio.EncodingInfo) time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	return audioDuration(b.audio, encodingInfo)
}

// Dropped is the number of frames discarded because the buffer was full.
func (b *audioBuffer) Dropped() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}

// Stop rejects further frames and wakes a waiting consumer. Frames already
// buffered are still handed out.
func (b *audioBuffer) Stop() {
	b.mu.Lock()
	if b.stopped {
		b.mu.Unlock()
		return
	}
	b.stopped = true
	b.mu.Unlock()
	b.signalUpdate()
}

func (b *audioBuffer) signalUpdate() {
	select {
	case b.updateSignal <- struct{}{}:
	default:
	}
}

func audioLen(audio [][]byte) int {
	chunksTotalLength := 0
	for _, audioChunk := range audio {
		chunksTotalLength += len(audioChunk)
	}
	return chunksTotalLength
}

func audioDuration(audio [][]byte, encodingInfo audio.EncodingInfo) time.Duration {
	bytesPerSecond := encodingInfo.SampleRate * encodingInfo.BytesPerFrame(1)
	if bytesPerSecond <= 0 {
		return 0
	}
	return time.Duration(float64(audioLen(audio)) / float64(bytesPerSecond) * float64(time.Second))
}
