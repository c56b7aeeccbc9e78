package websocket

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const closeTimeout = time.Second

// Conn carries raw event payloads over a websocket, one payload per message.
type Conn struct {
	ws *websocket.Conn
	mu sync.Mutex

	framing *eventStreamFraming

	incoming chan []byte
	readErr  error

	done      chan struct{}
	closeOnce sync.Once
}

type Option func(*options)

type options struct {
	header      http.Header
	dialer      *websocket.Dialer
	eventStream bool
}

// WithHeader adds headers to the opening handshake, e.g. authorization.
func WithHeader(header http.Header) Option {
	return func(o *options) { o.header = header }
}

func WithDialer(dialer *websocket.Dialer) Option {
	return func(o *options) {
		if dialer != nil {
			o.dialer = dialer
		}
	}
}

// WithEventStreamFraming wraps every payload in an AWS event-stream frame
// sent as a binary message. By default payloads are sent as text messages.
func WithEventStreamFraming() Option {
	return func(o *options) { o.eventStream = true }
}

func Dial(ctx context.Context, url string, opts ...Option) (*Conn, error) {
	options := options{dialer: websocket.DefaultDialer}
	for _, opt := range opts {
		opt(&options)
	}

	ws, _, err := options.dialer.DialContext(ctx, url, options.header)
	if err != nil {
		return nil, fmt.Errorf("failed to open socket connection: %w", err)
	}

	c := &Conn{
		ws:       ws,
		incoming: make(chan []byte),
		done:     make(chan struct{}),
	}
	if options.eventStream {
		c.framing = newEventStreamFraming()
	}

	go c.processIncomingMessages()
	return c, nil
}

func (c *Conn) processIncomingMessages() {
	defer close(c.incoming)

	var decoder *eventStreamFraming
	if c.framing != nil {
		decoder = newEventStreamFraming()
	}

	for {
		_, msg, err := c.ws.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
			default:
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
					c.readErr = err
				}
			}
			return
		}

		payload := msg
		if decoder != nil {
			if payload, err = decoder.decode(msg); errors.Is(err, errStreamException) {
				c.readErr = err
				return
			} else if err != nil {
				logger.Warn("Dropping unreadable frame", "error", err)
				continue
			}
		}

		select {
		case c.incoming <- payload:
		case <-c.done:
			return
		}
	}
}

func (c *Conn) Send(ctx context.Context, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	msgType, data := websocket.TextMessage, payload
	if c.framing != nil {
		frame, err := c.framing.encode(payload)
		if err != nil {
			return err
		}
		msgType, data = websocket.BinaryMessage, frame
	}

	deadline, _ := ctx.Deadline()
	if err := c.ws.SetWriteDeadline(deadline); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}
	if err := c.ws.WriteMessage(msgType, data); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	return nil
}

// Receive returns the next payload. Once the connection ends it returns the
// read error, or io.EOF after a normal close.
func (c *Conn) Receive(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case payload, ok := <-c.incoming:
		if !ok {
			if c.readErr != nil {
				return nil, fmt.Errorf("failed to read message: %w", c.readErr)
			}
			return nil, io.EOF
		}
		return payload, nil
	}
}

func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)

		c.mu.Lock()
		_ = c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(closeTimeout)) // Best effort, the peer may be gone
		c.mu.Unlock()

		if closeErr := c.ws.Close(); closeErr != nil {
			err = fmt.Errorf("failed to close socket: %w", closeErr)
		}
	})
	return err
}
