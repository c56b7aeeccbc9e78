package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	sonic "github.com/koscakluka/ema-sonic/core"
	"github.com/koscakluka/ema-sonic/core/audio"
	"github.com/koscakluka/ema-sonic/core/audio/miniaudio"
	"github.com/koscakluka/ema-sonic/core/audio/portaudio"
	"github.com/koscakluka/ema-sonic/core/channel/bedrock"
	"github.com/koscakluka/ema-sonic/core/channel/websocket"
	"github.com/koscakluka/ema-sonic/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ema-sonic",
		Short: "Talk to a speech-to-speech model from the terminal",
		Long: "ema-sonic streams microphone audio to a bidirectional speech model and plays " +
			"its spoken replies while printing its text. Settings are read from SONIC_* " +
			"environment variables, AWS credentials from the default AWS chain.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := config.Load(viper.New())
			if err != nil {
				return fmt.Errorf("failed to load settings: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, settings, cmd.OutOrStdout())
		},
	}
}

// audioDevice is an audio backend serving both directions.
type audioDevice interface {
	sonic.AudioInput
	sonic.AudioOutput
	Close()
}

type closableChannel interface {
	sonic.Channel
	Close() error
}

func run(ctx context.Context, settings config.Settings, out io.Writer) error {
	channel, err := openChannel(ctx, settings)
	if err != nil {
		return err
	}
	defer func() { _ = channel.Close() }()

	device, err := openDevice(settings.AudioBackend)
	if err != nil {
		return err
	}
	defer device.Close()

	conversation := sonic.NewConversation(channel,
		sonic.WithAudioInput(device),
		sonic.WithAudioOutput(device),
		sonic.WithTextOutput(sonic.NewConsoleTextOutput(out)),
		sonic.WithVoice(settings.VoiceID),
		sonic.WithSystemPrompt(settings.SystemPrompt),
		sonic.WithPlaybackBufferCapacity(settings.PlaybackBufferCapacity),
		sonic.WithCaptureStartedCallback(func() {
			fmt.Fprintln(out, "Speak now… (Ctrl+C to quit)")
		}),
	)

	return conversation.Run(ctx)
}

func openChannel(ctx context.Context, settings config.Settings) (closableChannel, error) {
	if settings.Endpoint != "" {
		var opts []websocket.Option
		if settings.EventStreamFraming {
			opts = append(opts, websocket.WithEventStreamFraming())
		}
		conn, err := websocket.Dial(ctx, settings.Endpoint, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to %s: %w", settings.Endpoint, err)
		}
		return conn, nil
	}

	client, err := bedrock.NewClient(ctx,
		bedrock.WithRegion(settings.Region),
		bedrock.WithModelID(settings.ModelID),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create bedrock client: %w", err)
	}
	stream, err := client.Open(ctx)
	if err != nil {
		return nil, err
	}
	return stream, nil
}

func openDevice(backend string) (audioDevice, error) {
	switch backend {
	case config.AudioBackendMiniaudio:
		client, err := miniaudio.NewClient()
		if err != nil {
			return nil, fmt.Errorf("failed to initialize miniaudio: %w", err)
		}
		return client, nil
	default:
		client, err := portaudio.NewClient(audio.FrameSize)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
		}
		return client, nil
	}
}
