package websocket

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aescanero/kdpniche/pkg/adapters/events/memory"
	"github.com/aescanero/kdpniche/pkg/domain"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newStreamServer(t *testing.T) (*memory.InMemoryEventBus, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	bus := memory.NewInMemoryEventBus()
	router := gin.New()
	router.GET("/analyze/stream", NewHandler(bus, zap.NewNop()).HandleAnalysisStream)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return bus, srv
}

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/analyze/stream" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHandleAnalysisStream_ForwardsEvents(t *testing.T) {
	bus, srv := newStreamServer(t)
	conn := dial(t, srv, "")

	ev := domain.AnalysisEvent{ID: "e1", Type: domain.EventTypeAnalysisCompleted, Keyword: "coloring books", Market: "fr"}
	require.NoError(t, bus.Publish(context.Background(), domain.TopicAnalysisEvents, ev))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got domain.AnalysisEvent
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "e1", got.ID)
	assert.Equal(t, "coloring books", got.Keyword)
}

func TestHandleAnalysisStream_MarketFilter(t *testing.T) {
	bus, srv := newStreamServer(t)
	conn := dial(t, srv, "?market=fr")

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, domain.TopicAnalysisEvents, domain.AnalysisEvent{ID: "us-1", Market: "us"}))
	require.NoError(t, bus.Publish(ctx, domain.TopicAnalysisEvents, domain.AnalysisEvent{ID: "fr-1", Market: "fr"}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got domain.AnalysisEvent
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "fr-1", got.ID)
}

func TestHandleAnalysisStream_UnsubscribesOnClose(t *testing.T) {
	bus, srv := newStreamServer(t)
	conn := dial(t, srv, "")

	assert.Equal(t, 1, bus.SubscriberCount(domain.TopicAnalysisEvents))

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool {
		return bus.SubscriberCount(domain.TopicAnalysisEvents) == 0
	}, 2*time.Second, 10*time.Millisecond)
}
