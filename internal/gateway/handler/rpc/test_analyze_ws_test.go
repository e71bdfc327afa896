package rpc

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	analysissvc "snippetlens/internal/gateway/service/analysis"
)

func dialAnalyzeWS(t *testing.T, svc *analysissvc.Service) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(NewAnalyzeWSHandler(svc).HandleAnalyzeWS))
	t.Cleanup(srv.Close)
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readOutbound(t *testing.T, conn *websocket.Conn) analyzeWSOutbound {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var out analyzeWSOutbound
	require.NoError(t, conn.ReadJSON(&out))
	return out
}

func TestAnalyzeWSDeliversResult(t *testing.T) {
	conn := dialAnalyzeWS(t, analysissvc.New(analysissvc.Options{}))

	require.NoError(t, conn.WriteJSON(analyzeWSInbound{Type: "ping", RequestID: "p1"}))
	assert.Equal(t, "pong", readOutbound(t, conn).Type)

	require.NoError(t, conn.WriteJSON(analyzeWSInbound{
		Type:       "analyze",
		RequestID:  "r1",
		SourceText: "function add(a, b) {\n  return a + b;\n}",
		Language:   "javascript",
	}))
	accepted := readOutbound(t, conn)
	assert.Equal(t, "accepted", accepted.Type)
	assert.Equal(t, "r1", accepted.RequestID)

	result := readOutbound(t, conn)
	require.Equal(t, "result", result.Type, result.Message)
	assert.Equal(t, "r1", result.RequestID)
	require.NotNil(t, result.Record)
	assert.Len(t, result.Record.LineByLine, 3)
}

func TestAnalyzeWSRejectsBadFrames(t *testing.T) {
	conn := dialAnalyzeWS(t, analysissvc.New(analysissvc.Options{}))

	require.NoError(t, conn.WriteJSON(analyzeWSInbound{Type: "analyze", RequestID: "r1", SourceText: "  "}))
	out := readOutbound(t, conn)
	assert.Equal(t, "error", out.Type)
	assert.Equal(t, "invalid_argument", out.Code)

	require.NoError(t, conn.WriteJSON(analyzeWSInbound{Type: "explode"}))
	out = readOutbound(t, conn)
	assert.Equal(t, "error", out.Type)
	assert.Contains(t, out.Message, "unsupported type")

	require.NoError(t, conn.WriteJSON(analyzeWSInbound{Type: "cancel", RequestID: "nothing"}))
	out = readOutbound(t, conn)
	assert.Equal(t, "not_found", out.Code)
}

func TestAnalyzeWSCancelAndSupersede(t *testing.T) {
	svc := analysissvc.New(analysissvc.Options{MinLatency: time.Hour})
	conn := dialAnalyzeWS(t, svc)

	require.NoError(t, conn.WriteJSON(analyzeWSInbound{Type: "analyze", RequestID: "r1", SourceText: "x = 1;"}))
	assert.Equal(t, "accepted", readOutbound(t, conn).Type)

	// A second analyze discards the first.
	require.NoError(t, conn.WriteJSON(analyzeWSInbound{Type: "analyze", RequestID: "r2", SourceText: "x = 2;"}))
	out := readOutbound(t, conn)
	assert.Equal(t, "cancelled", out.Type)
	assert.Equal(t, "r1", out.RequestID)
	out = readOutbound(t, conn)
	assert.Equal(t, "accepted", out.Type)
	assert.Equal(t, "r2", out.RequestID)

	require.NoError(t, conn.WriteJSON(analyzeWSInbound{Type: "cancel", RequestID: "r2"}))
	out = readOutbound(t, conn)
	assert.Equal(t, "cancelled", out.Type)
	assert.Equal(t, "r2", out.RequestID)

	require.NoError(t, conn.WriteJSON(analyzeWSInbound{Type: "ping"}))
	assert.Equal(t, "pong", readOutbound(t, conn).Type)
}
