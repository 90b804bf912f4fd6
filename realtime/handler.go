package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// EventHandler consumes decoded client events.
type EventHandler interface {
	Dispatch(ctx context.Context, connID, event string, data json.RawMessage)
	Disconnect(ctx context.Context, connID string)
}

type Options struct {
	PingInterval      time.Duration
	MessagesPerSecond float64
	MessageBurst      int
}

type Handler struct {
	hub      *Hub
	events   EventHandler
	opts     Options
	upgrader websocket.Upgrader
	wg       sync.WaitGroup
}

func NewHandler(hub *Hub, events EventHandler, opts Options) *Handler {
	return &Handler{
		hub:    hub,
		events: events,
		opts:   opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// origins are checked by the router middleware
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *Handler) newLimiter() *rate.Limiter {
	if h.opts.MessagesPerSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(h.opts.MessagesPerSecond), h.opts.MessageBurst)
}

// ServeWS upgrades the request and runs the connection until it closes.
// The disconnect is processed before the hub forgets the connection.
func (h *Handler) ServeWS(ctx *gin.Context) {
	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Warn().Err(err).Str("ip", ctx.ClientIP()).Msg("websocket upgrade failed")
		return
	}

	h.wg.Add(1)
	defer h.wg.Done()

	socket := NewGorillaWebSocketWrapper(conn, 2*h.opts.PingInterval)
	c := NewConnection(socket, h.newLimiter())
	h.hub.Register(c)

	logger := log.With().Str("conn", c.ID()).Logger()
	logger.Info().Str("ip", ctx.ClientIP()).Msg("client connected")

	go c.WritePump(h.opts.PingInterval)

	reqCtx := ctx.Request.Context()
	c.ReadPump(func(env Envelope) {
		h.events.Dispatch(reqCtx, c.ID(), env.Event, env.Data)
	})

	h.events.Disconnect(context.WithoutCancel(reqCtx), c.ID())
	h.hub.Unregister(c.ID())
	logger.Info().Msg("client disconnected")
}

// Wait blocks until every connection served by h has been cleaned up.
func (h *Handler) Wait() {
	h.wg.Wait()
}
