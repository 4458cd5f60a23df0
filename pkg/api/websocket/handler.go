package websocket

import (
	"context"
	"net/http"
	"time"

	"github.com/aescanero/kdpniche/pkg/domain"
	"github.com/aescanero/kdpniche/pkg/ports"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // the stream carries no private data
	},
}

// Handler handles WebSocket connections
type Handler struct {
	eventBus ports.EventBus
	logger   *zap.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(eventBus ports.EventBus, logger *zap.Logger) *Handler {
	return &Handler{
		eventBus: eventBus,
		logger:   logger,
	}
}

// HandleAnalysisStream streams analysis events to the client
func (h *Handler) HandleAnalysisStream(c *gin.Context) {
	market := c.Query("market")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Subscribe before upgrading so no event published after the handshake is missed.
	eventChan := make(chan domain.AnalysisEvent, 16)
	if err := h.eventBus.Subscribe(ctx, domain.TopicAnalysisEvents, h.forward(ctx, eventChan)); err != nil {
		h.logger.Error("failed to subscribe to analysis events", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Event stream unavailable."})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("failed to upgrade connection", zap.Error(err))
		return
	}
	defer func() { _ = conn.Close() }()

	h.logger.Info("WebSocket connection established",
		zap.String("market", market),
		zap.String("client", c.ClientIP()))

	// Reads only serve to notice the client going away.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("WebSocket connection closed", zap.String("client", c.ClientIP()))
			return
		case event := <-eventChan:
			if market != "" && event.Market != market {
				continue
			}

			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(event); err != nil {
				h.logger.Error("failed to write message", zap.Error(err))
				return
			}
		}
	}
}

// forward returns an event handler that pushes events to ch without blocking
func (h *Handler) forward(ctx context.Context, ch chan<- domain.AnalysisEvent) ports.EventHandler {
	return func(_ context.Context, event domain.AnalysisEvent) error {
		select {
		case ch <- event:
		case <-ctx.Done():
			return ctx.Err()
		default:
			h.logger.Warn("event channel full, dropping event",
				zap.String("event_id", event.ID),
				zap.String("event_type", string(event.Type)))
		}
		return nil
	}
}
