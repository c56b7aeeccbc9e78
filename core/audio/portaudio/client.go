package portaudio

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/koscakluka/ema-sonic/core/audio"
)

// Client uses PortAudio blocking streams: reads block until the device has a
// full buffer of captured samples and writes block until the device accepts
// the samples, which paces playback to real time.
type Client struct {
	bufferSize int

	captureMu sync.Mutex
	capture   *portaudio.Stream
	in        []int16

	playbackMu    sync.Mutex
	playback      *portaudio.Stream
	out           []int16
	leftoverAudio []byte
}

func NewClient(bufferSize int) (*Client, error) {
	if bufferSize <= 0 {
		bufferSize = audio.FrameSize
	}

	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}

	return &Client{
		bufferSize: bufferSize,
		in:         make([]int16, bufferSize),
		out:        make([]int16, bufferSize),
	}, nil
}

func (c *Client) StartCapture(_ context.Context, encodingInfo audio.EncodingInfo) error {
	c.captureMu.Lock()
	defer c.captureMu.Unlock()
	if c.capture != nil {
		return nil
	}

	stream, err := portaudio.OpenDefaultStream(encodingInfo.ChannelCount(), 0, float64(encodingInfo.SampleRate), c.bufferSize, c.in)
	if err != nil {
		return fmt.Errorf("failed to open PortAudio capture stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		return fmt.Errorf("failed to start PortAudio capture stream: %w", err)
	}

	c.capture = stream
	return nil
}

// ReadAudio blocks until frameSize samples have been captured.
func (c *Client) ReadAudio(ctx context.Context, frameSize int) ([]byte, error) {
	c.captureMu.Lock()
	defer c.captureMu.Unlock()
	if c.capture == nil {
		return nil, fmt.Errorf("capture stream not started")
	}

	frame := make([]byte, 0, 2*frameSize)
	chunk := make([]byte, 2*c.bufferSize)
	for len(frame) < 2*frameSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// Overflow means samples were dropped by the device, the buffer we
		// got is still valid.
		if err := c.capture.Read(); err != nil && !errors.Is(err, portaudio.InputOverflowed) {
			return nil, fmt.Errorf("failed to read from PortAudio stream: %w", err)
		}

		audio.PutSamples(chunk, c.in)
		frame = append(frame, chunk[:min(len(chunk), 2*frameSize-len(frame))]...)
	}

	return frame, nil
}

func (c *Client) StopCapture() error {
	c.captureMu.Lock()
	defer c.captureMu.Unlock()
	if c.capture == nil {
		return nil
	}

	err := errors.Join(c.capture.Stop(), c.capture.Close())
	c.capture = nil
	if err != nil {
		return fmt.Errorf("failed to stop PortAudio capture stream: %w", err)
	}
	return nil
}

func (c *Client) StartPlayback(_ context.Context, encodingInfo audio.EncodingInfo) error {
	c.playbackMu.Lock()
	defer c.playbackMu.Unlock()
	if c.playback != nil {
		return nil
	}

	stream, err := portaudio.OpenDefaultStream(0, encodingInfo.ChannelCount(), float64(encodingInfo.SampleRate), c.bufferSize, c.out)
	if err != nil {
		return fmt.Errorf("failed to open PortAudio playback stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		return fmt.Errorf("failed to start PortAudio playback stream: %w", err)
	}

	c.playback = stream
	return nil
}

// SendAudio writes every complete device buffer contained in audio and keeps
// the remainder for the next call so sample order is preserved.
func (c *Client) SendAudio(ctx context.Context, audioChunk []byte) error {
	c.playbackMu.Lock()
	defer c.playbackMu.Unlock()
	if c.playback == nil {
		return fmt.Errorf("playback stream not started")
	}

	full, remainder := splitBuffers(append(c.leftoverAudio, audioChunk...), c.bufferSize*2)
	c.leftoverAudio = append([]byte(nil), remainder...)
	return c.writeBuffers(ctx, full)
}

// FlushAudio plays the partial buffer held back by SendAudio, padded with
// silence up to a full device buffer.
func (c *Client) FlushAudio(ctx context.Context) error {
	c.playbackMu.Lock()
	defer c.playbackMu.Unlock()
	if c.playback == nil || len(c.leftoverAudio) == 0 {
		return nil
	}

	padded := padBuffer(c.leftoverAudio, c.bufferSize*2)
	c.leftoverAudio = nil
	return c.writeBuffers(ctx, padded)
}

// writeBuffers expects playbackMu held and len(pending) to be a multiple of
// the device buffer size.
func (c *Client) writeBuffers(ctx context.Context, pending []byte) error {
	bufferSize := c.bufferSize * 2
	for ; len(pending) >= bufferSize; pending = pending[bufferSize:] {
		if err := ctx.Err(); err != nil {
			return err
		}

		audio.Samples(c.out, pending[:bufferSize])
		if err := c.playback.Write(); err != nil && !errors.Is(err, portaudio.OutputUnderflowed) {
			return fmt.Errorf("failed to write to PortAudio stream: %w", err)
		}
	}
	return nil
}

// splitBuffers cuts pending into whole device buffers and the bytes left
// over.
func splitBuffers(pending []byte, bufferSize int) (full, remainder []byte) {
	if bufferSize <= 0 {
		return nil, pending
	}
	n := len(pending) - len(pending)%bufferSize
	return pending[:n], pending[n:]
}

// padBuffer extends partial with silence up to a whole device buffer.
func padBuffer(partial []byte, bufferSize int) []byte {
	if bufferSize <= 0 || len(partial)%bufferSize == 0 {
		return partial
	}
	padded := make([]byte, len(partial)+bufferSize-len(partial)%bufferSize)
	copy(padded, partial)
	return padded
}

func (c *Client) StopPlayback() error {
	c.playbackMu.Lock()
	defer c.playbackMu.Unlock()
	if c.playback == nil {
		return nil
	}

	err := errors.Join(c.playback.Stop(), c.playback.Close())
	c.playback = nil
	c.leftoverAudio = nil
	if err != nil {
		return fmt.Errorf("failed to stop PortAudio playback stream: %w", err)
	}
	return nil
}

func (c *Client) Close() {
	_ = c.StopCapture()
	_ = c.StopPlayback()
	_ = portaudio.Terminate()
}
