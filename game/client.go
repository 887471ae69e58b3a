package game

import (
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Client is one live transport connection. playerID stays empty until a
// join message binds an identity to it, and is only ever touched by the
// session goroutine.
type Client struct {
	id       string
	playerID string
	socket   NetworkSession
	limiter  *rate.Limiter
	outbox   chan []byte
	pingChan chan struct{}
	session  *Session
}

func NewClient(socket NetworkSession, session *Session) *Client {
	return &Client{
		id:       uuid.NewString(),
		socket:   socket,
		limiter:  rate.NewLimiter(rate.Limit(session.settings.InboundRate), session.settings.InboundBurst),
		outbox:   make(chan []byte, session.settings.SendBuffer),
		pingChan: make(chan struct{}),
		session:  session,
	}
}

// trySend queues data for the write pump without blocking. A full outbox
// means the connection is too slow to keep up; the message is dropped and
// the registry's close handling eventually reaps the connection.
func (c *Client) trySend(data []byte) bool {
	select {
	case c.outbox <- data:
		return true
	default:
		return false
	}
}

func (c *Client) requestPing() {
	select {
	case c.pingChan <- struct{}{}:
	default:
	}
}

func (c *Client) ReadPump() {
	defer c.session.Detach(c)

	for {
		data, err := c.socket.Read()
		if err != nil {
			break
		}

		if !c.limiter.Allow() {
			slog.Debug("rate limit exceeded, dropping message", "conn", c.id)
			continue
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Warn("dropping malformed message", "conn", c.id, "error", err)
			continue
		}

		c.session.Deliver(clientEnvelope{msg: msg, raw: data, from: c})
	}
}

func (c *Client) WritePump() {
	defer c.socket.Close("")

loop:
	for {
		select {
		case data, ok := <-c.outbox:
			if !ok {
				break loop
			}
			if err := c.socket.Write(data); err != nil {
				break loop
			}
		case <-c.pingChan:
			if err := c.socket.Ping(); err != nil {
				break loop
			}
		}
	}
}
