package websocket

import "go.opentelemetry.io/contrib/bridges/otelslog"

const scopeName = "github.com/koscakluka/ema-sonic/core/channel/websocket"

var logger = otelslog.NewLogger(scopeName)
