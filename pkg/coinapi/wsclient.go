package coinapi

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// ErrConnectionClosed signals that the remote peer closed the stream.
// It ends the listen loop without being treated as a failure: a dropped
// connection is a terminal event for the run, not something retried.
var ErrConnectionClosed = errors.New("websocket connection closed by peer")

// WSClient handles the WebSocket connection to CoinAPI and message delivery.
// It owns exactly one connection; there is no reconnect logic in scope —
// when the stream ends, the ingest phase ends with it.
type WSClient struct {
	url     string
	timeout time.Duration
	conn    *websocket.Conn
	handler func([]byte)
	logger  *zap.Logger
}

// NewWSClient creates a new WebSocket client with the given URL and logger.
func NewWSClient(url string, timeout time.Duration, logger *zap.Logger) *WSClient {
	return &WSClient{
		url:     url,
		timeout: timeout,
		logger:  logger,
	}
}

// SetMessageHandler sets the function to handle incoming text frames.
func (c *WSClient) SetMessageHandler(h func([]byte)) {
	c.handler = h
}

// Connect establishes the WebSocket connection. It does not subscribe and
// does not start the listener.
func (c *WSClient) Connect() error {
	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = c.timeout

	conn, _, err := dialer.Dial(c.url, nil)
	if err != nil {
		c.logger.Error("Failed to connect to WebSocket", zap.String("url", c.url), zap.Error(err))
		return fmt.Errorf("websocket dial %s: %w", c.url, err)
	}
	c.conn = conn
	c.logger.Info("WebSocket connected", zap.String("url", c.url))

	return nil
}

// Subscribe sends the hello handshake declaring the trade-only data filter
// and the single symbol filter. Fire-and-forget: no acknowledgment is read.
func (c *WSClient) Subscribe(apiKey, symbolID string) error {
	hello := NewHelloMessage(apiKey, symbolID)

	if err := c.conn.WriteJSON(hello); err != nil {
		c.logger.Error("Failed to send subscription", zap.Error(err))
		return fmt.Errorf("websocket subscribe failed: %w", err)
	}
	c.logger.Info("subscribed to trade stream", zap.String("symbol", symbolID))

	return nil
}

// Listen reads frames one at a time and hands each to the registered
// handler. The handler runs synchronously in the read loop, so backpressure
// is implicit: the next frame is not read until the current one is fully
// processed.
//
// Listen returns nil when ctx is cancelled, ErrConnectionClosed when the
// peer closes the stream normally, and a wrapped read error otherwise.
func (c *WSClient) Listen(ctx context.Context) error {
	// Unblock the pending ReadMessage when the caller cancels.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = c.conn.Close()
		case <-done:
		}
	}()

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("listener cancelled")
				return nil
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Info("WebSocket connection closed by peer")
				return ErrConnectionClosed
			}
			c.logger.Error("WebSocket read error", zap.Error(err))
			return fmt.Errorf("websocket read: %w", err)
		}

		if c.handler != nil {
			c.handler(msg)
		}
	}
}

// Close releases the connection. Safe to call more than once.
func (c *WSClient) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}
