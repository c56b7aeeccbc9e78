package miniaudio

import (
	"context"
	"fmt"

	"github.com/gen2brain/malgo"
	"github.com/koscakluka/ema-sonic/core/audio"
)

type Client struct {
	// audioContext is only saved to be able to uninitialize it, it is an
	// ownership thing
	audioContext *malgo.AllocatedContext
	playbackClient
	captureClient
}

func NewClient() (*Client, error) {
	audioCtx, err := malgo.InitContext(
		nil,
		malgo.ContextConfig{},
		func(message string) { logger.Debug("malgo", "message", message) },
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audio context: %w", err)
	}

	return &Client{audioContext: audioCtx}, nil
}

func (c *Client) StartCapture(_ context.Context, encodingInfo audio.EncodingInfo) error {
	if err := c.captureClient.Init(c.audioContext, encodingInfo); err != nil {
		return fmt.Errorf("failed to initialize capture client: %w", err)
	}
	return c.captureClient.Start()
}

func (c *Client) ReadAudio(ctx context.Context, frameSize int) ([]byte, error) {
	return c.captureClient.Read(ctx, 2*frameSize)
}

func (c *Client) StopCapture() error {
	return c.captureClient.Stop()
}

func (c *Client) StartPlayback(_ context.Context, encodingInfo audio.EncodingInfo) error {
	if err := c.playbackClient.Init(c.audioContext, encodingInfo); err != nil {
		return fmt.Errorf("failed to initialize playback client: %w", err)
	}
	return c.playbackClient.Start()
}

func (c *Client) SendAudio(ctx context.Context, audio []byte) error {
	return c.playbackClient.SendAudio(ctx, audio)
}

func (c *Client) StopPlayback() error {
	return c.playbackClient.Stop()
}

func (c *Client) Close() {
	_ = c.captureClient.Uninit()
	_ = c.playbackClient.Uninit()
	_ = c.audioContext.Uninit()
	c.audioContext.Free()
}
