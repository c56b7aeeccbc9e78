package miniaudio

import (
	"context"
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"
	"github.com/koscakluka/ema-sonic/core/audio"
)

// maxPendingCapture bounds how much captured audio is held while nobody
// reads; the oldest samples are discarded beyond it.
const maxPendingCapture = 10 * audio.InputSampleRate * 2

type captureClient struct {
	audioContext *malgo.AllocatedContext
	device       *malgo.Device
	config       malgo.DeviceConfig

	pending pendingAudio

	mu sync.Mutex
}

func (c *captureClient) Init(audioContext *malgo.AllocatedContext, encodingInfo audio.EncodingInfo) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// The device outlives Stop and is reused, only its pending audio is
	// reset.
	if c.device != nil {
		c.pending.init(maxPendingCapture)
		return nil
	}

	channels := encodingInfo.ChannelCount()
	format := malgo.FormatS16
	bytesPerFrame := malgo.SampleSizeInBytes(format) * channels

	c.config = malgo.DefaultDeviceConfig(malgo.Capture)
	c.config.SampleRate = uint32(encodingInfo.SampleRate)
	c.config.Capture.Format = format
	c.config.Capture.Channels = uint32(channels)
	c.config.Alsa.NoMMap = 1
	c.config.PerformanceProfile = malgo.LowLatency
	c.config.PeriodSizeInFrames = 480
	c.config.Periods = 3

	c.audioContext = audioContext
	c.pending.init(maxPendingCapture)

	var err error
	c.device, err = malgo.InitDevice(c.audioContext.Context, c.config, malgo.DeviceCallbacks{
		Data: func(_, pInput []byte, frameCount uint32) {
			n := int(frameCount) * bytesPerFrame
			if len(pInput) < n || n == 0 {
				return
			}
			c.pending.write(pInput[:n])
		},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize capture device: %w", err)
	}

	return nil
}

func (c *captureClient) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device == nil {
		return fmt.Errorf("device not initialized")
	} else if c.device.IsStarted() {
		return nil
	}

	if err := c.device.Start(); err != nil {
		return fmt.Errorf("failed to start capture device: %w", err)
	}

	return nil
}

func (c *captureClient) Read(ctx context.Context, size int) ([]byte, error) {
	return c.pending.read(ctx, size)
}

func (c *captureClient) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device == nil {
		return nil
	} else if !c.device.IsStarted() {
		return nil
	}

	if err := c.device.Stop(); err != nil {
		return fmt.Errorf("failed to stop device: %w", err)
	}

	c.pending.close()
	return nil
}

func (c *captureClient) Uninit() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.device != nil {
		c.device.Uninit()
		c.device = nil
	}

	c.pending.close()
	return nil
}

// pendingAudio hands bytes from the device callback to a blocking reader.
type pendingAudio struct {
	mu       sync.Mutex
	audio    []byte
	limit    int
	closed   bool
	signal   chan struct{}
	signalMu sync.Once
}

func (p *pendingAudio) init(limit int) {
	p.signalMu.Do(func() { p.signal = make(chan struct{}, 1) })

	p.mu.Lock()
	p.audio = nil
	p.limit = limit
	p.closed = false
	p.mu.Unlock()
}

func (p *pendingAudio) write(audio []byte) {
	p.mu.Lock()
	p.audio = append(p.audio, audio...)
	if p.limit > 0 && len(p.audio) > p.limit {
		p.audio = p.audio[len(p.audio)-p.limit:]
	}
	p.mu.Unlock()
	p.signalUpdate()
}

func (p *pendingAudio) read(ctx context.Context, size int) ([]byte, error) {
	for {
		p.mu.Lock()
		if len(p.audio) >= size {
			chunk := make([]byte, size)
			copy(chunk, p.audio)
			p.audio = p.audio[size:]
			p.mu.Unlock()
			return chunk, nil
		}
		closed := p.closed
		p.mu.Unlock()

		if closed {
			return nil, fmt.Errorf("capture device stopped")
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-p.signal:
		}
	}
}

func (p *pendingAudio) close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.signalUpdate()
}

func (p *pendingAudio) signalUpdate() {
	select {
	case p.signal <- struct{}{}:
	default:
	}
}
