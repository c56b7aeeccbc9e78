package sonic

import (
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const scopeName = "github.com/koscakluka/ema-sonic/core"

var (
	tracer = otel.Tracer(scopeName)
	meter  = otel.Meter(scopeName)
	logger = otelslog.NewLogger(scopeName)
)

var (
	framesSentCounter, _      = meter.Int64Counter("sonic.audio_input.frames_sent", metric.WithDescription("Audio frames sent to the model"))
	framesReceivedCounter, _  = meter.Int64Counter("sonic.audio_output.frames_received", metric.WithDescription("Audio frames received from the model"))
	framesDroppedCounter, _   = meter.Int64Counter("sonic.audio_output.frames_dropped", metric.WithDescription("Audio frames dropped by a full playback buffer"))
	malformedEventsCounter, _ = meter.Int64Counter("sonic.events.malformed", metric.WithDescription("Received payloads that could not be used"))
)
