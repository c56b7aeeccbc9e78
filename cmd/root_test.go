package cmd

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/koscakluka/ema-sonic/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandRejectsInvalidSettings(t *testing.T) {
	t.Setenv("SONIC_AUDIO_BACKEND", "alsa")

	cmd := newRootCmd()
	cmd.SetArgs([]string{})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	err := cmd.Execute()
	assert.ErrorContains(t, err, "unsupported audio backend")
}

func TestRootCommandTakesNoArguments(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"extra"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	assert.Error(t, cmd.Execute())
}

func TestOpenChannelUsesWebsocketEndpoint(t *testing.T) {
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		_ = conn.WriteMessage(msgType, msg)
		_, _, _ = conn.ReadMessage()
	}))
	defer server.Close()

	ctx := context.Background()
	channel, err := openChannel(ctx, config.Settings{
		Endpoint: "ws" + strings.TrimPrefix(server.URL, "http"),
	})
	require.NoError(t, err)
	defer func() { _ = channel.Close() }()

	require.NoError(t, channel.Send(ctx, []byte(`{"event":{}}`)))
	payload, err := channel.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"event":{}}`, string(payload))
}

func TestOpenChannelReportsUnreachableEndpoint(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	server.Close()

	_, err := openChannel(context.Background(), config.Settings{Endpoint: url})
	assert.ErrorContains(t, err, "failed to connect")
}
