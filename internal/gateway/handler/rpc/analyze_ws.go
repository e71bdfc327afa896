package rpc

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	engine "snippetlens/internal/analysis"
	"snippetlens/internal/gateway/repository/history"
	analysissvc "snippetlens/internal/gateway/service/analysis"
)

const (
	analyzeWSWriteWait = 10 * time.Second
	analyzeWSPongWait  = 60 * time.Second
	analyzeWSPingEvery = (analyzeWSPongWait * 9) / 10
)

var analyzeWSUpgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type analyzeWSInbound struct {
	Type       string `json:"type"`
	RequestID  string `json:"requestId,omitempty"`
	SourceText string `json:"sourceText,omitempty"`
	Language   string `json:"language,omitempty"`
}

type analyzeWSOutbound struct {
	Type      string          `json:"type"`
	RequestID string          `json:"requestId,omitempty"`
	Record    *history.Record `json:"record,omitempty"`
	Code      string          `json:"code,omitempty"`
	Message   string          `json:"message,omitempty"`
}

// AnalyzeWSHandler runs analyses over a websocket. Each connection has at most
// one analysis in flight; starting another discards the previous one.
type AnalyzeWSHandler struct {
	svc *analysissvc.Service
}

func NewAnalyzeWSHandler(svc *analysissvc.Service) *AnalyzeWSHandler {
	return &AnalyzeWSHandler{svc: svc}
}

type inflight struct {
	mu        sync.Mutex
	requestID string
	pending   *analysissvc.Pending
}

// swap installs p as the current analysis and returns the one it replaced.
func (f *inflight) swap(requestID string, p *analysissvc.Pending) (string, *analysissvc.Pending) {
	f.mu.Lock()
	defer f.mu.Unlock()
	prevID, prev := f.requestID, f.pending
	f.requestID, f.pending = requestID, p
	return prevID, prev
}

// clear drops p if it is still current.
func (f *inflight) clear(p *analysissvc.Pending) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pending == p {
		f.requestID, f.pending = "", nil
	}
}

func (h *AnalyzeWSHandler) HandleAnalyzeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := analyzeWSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(analyzeWSPongWait)); err != nil {
		log.Printf("analyze ws set read deadline failed: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(analyzeWSPongWait))
	})

	writeCh := make(chan analyzeWSOutbound, 32)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(analyzeWSPingEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case out := <-writeCh:
				if err := conn.SetWriteDeadline(time.Now().Add(analyzeWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteJSON(out); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(analyzeWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	var current inflight
	defer func() {
		if _, p := current.swap("", nil); p != nil {
			p.Cancel()
		}
	}()

	for {
		var in analyzeWSInbound
		if err := conn.ReadJSON(&in); err != nil {
			cancel()
			<-writerDone
			return
		}
		// Any inbound frame proves the peer is alive.
		_ = conn.SetReadDeadline(time.Now().Add(analyzeWSPongWait))
		requestID := strings.TrimSpace(in.RequestID)

		switch strings.ToLower(strings.TrimSpace(in.Type)) {
		case "":
			pushAnalyzeWS(writeCh, analyzeWSOutbound{Type: "error", RequestID: requestID, Code: "invalid_argument", Message: "type is required"})
		case "ping":
			pushAnalyzeWS(writeCh, analyzeWSOutbound{Type: "pong", RequestID: requestID})
		case "analyze":
			if strings.TrimSpace(in.SourceText) == "" {
				pushAnalyzeWS(writeCh, analyzeWSOutbound{Type: "error", RequestID: requestID, Code: "invalid_argument", Message: engine.ErrInvalidInput.Error()})
				continue
			}
			p := h.svc.Start(ctx, engine.Request{SourceText: in.SourceText, Language: in.Language})
			if prevID, prev := current.swap(requestID, p); prev != nil {
				prev.Cancel()
				pushAnalyzeWS(writeCh, analyzeWSOutbound{Type: "cancelled", RequestID: prevID})
			}
			pushAnalyzeWS(writeCh, analyzeWSOutbound{Type: "accepted", RequestID: requestID})
			go h.deliver(ctx, &current, writeCh, requestID, p)
		case "cancel":
			current.mu.Lock()
			p, id := current.pending, current.requestID
			match := p != nil && (requestID == "" || requestID == id)
			current.mu.Unlock()
			if !match {
				pushAnalyzeWS(writeCh, analyzeWSOutbound{Type: "error", RequestID: requestID, Code: "not_found", Message: "no analysis in flight"})
				continue
			}
			p.Cancel()
			current.clear(p)
			pushAnalyzeWS(writeCh, analyzeWSOutbound{Type: "cancelled", RequestID: id})
		default:
			pushAnalyzeWS(writeCh, analyzeWSOutbound{Type: "error", RequestID: requestID, Code: "invalid_argument", Message: "unsupported type: " + in.Type})
		}
	}
}

func (h *AnalyzeWSHandler) deliver(ctx context.Context, current *inflight, writeCh chan analyzeWSOutbound, requestID string, p *analysissvc.Pending) {
	rec, err := p.Wait(ctx)
	if p.Canceled() || errors.Is(err, analysissvc.ErrCanceled) {
		return
	}
	current.clear(p)
	if err != nil {
		code := "internal"
		if errors.Is(err, engine.ErrInvalidInput) {
			code = "invalid_argument"
		}
		pushAnalyzeWS(writeCh, analyzeWSOutbound{Type: "error", RequestID: requestID, Code: code, Message: err.Error()})
		return
	}
	pushAnalyzeWS(writeCh, analyzeWSOutbound{Type: "result", RequestID: requestID, Record: &rec})
}

func pushAnalyzeWS(writeCh chan analyzeWSOutbound, out analyzeWSOutbound) {
	select {
	case writeCh <- out:
		return
	default:
	}
	// Queue is full: drop the oldest frame rather than block the reader.
	select {
	case <-writeCh:
	default:
	}
	select {
	case writeCh <- out:
	default:
	}
}
