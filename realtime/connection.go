package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const sendBufferSize = 256

// Envelope is the frame shape in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Connection is one client socket. The hub fills send and WritePump drains
// it; ReadPump is the only reader.
type Connection struct {
	id        string
	socket    WebsocketConnection
	send      chan []byte
	limiter   *rate.Limiter
	closeOnce sync.Once
}

func NewConnection(socket WebsocketConnection, limiter *rate.Limiter) *Connection {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 0)
	}
	return &Connection{
		id:      uuid.NewString(),
		socket:  socket,
		send:    make(chan []byte, sendBufferSize),
		limiter: limiter,
	}
}

func (c *Connection) ID() string {
	return c.id
}

// ReadPump decodes frames and hands them to handle until the socket fails.
// Frames over the rate limit or that do not decode are dropped.
func (c *Connection) ReadPump(handle func(Envelope)) {
	logger := log.With().Str("conn", c.id).Logger()

	for {
		data, err := c.socket.Read()
		if err != nil {
			logger.Debug().Err(err).Msg("read pump stopped")
			return
		}

		if !c.limiter.Allow() {
			logger.Warn().Msg("rate limited, frame dropped")
			continue
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil || env.Event == "" {
			logger.Warn().Err(err).Msg("malformed frame dropped")
			continue
		}

		handle(env)
	}
}

// WritePump writes queued frames and pings every pingInterval. It closes the
// socket when the send channel is closed or a write fails.
func (c *Connection) WritePump(pingInterval time.Duration) {
	var ping <-chan time.Time
	if pingInterval > 0 {
		ticker := time.NewTicker(pingInterval)
		defer ticker.Stop()
		ping = ticker.C
	}
	defer c.Close()

	for {
		select {
		case frame, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.socket.Write(frame); err != nil {
				log.Debug().Err(err).Str("conn", c.id).Msg("write failed")
				return
			}
		case <-ping:
			if err := c.socket.Ping(); err != nil {
				log.Debug().Err(err).Str("conn", c.id).Msg("ping failed")
				return
			}
		}
	}
}

func (c *Connection) Close() {
	c.closeOnce.Do(c.socket.Close)
}
