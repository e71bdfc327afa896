package server

import (
	"net/http"

	"snippetlens/internal/gateway/handler"
	"snippetlens/internal/gateway/handler/rpc"
	"snippetlens/internal/gateway/middleware"
)

func NewMux(
	analysisHandler *handler.AnalysisHandler,
	analyzerHandler *rpc.AnalyzerHandler,
	analyzeWSHandler *rpc.AnalyzeWSHandler,
) http.Handler {
	mux := http.NewServeMux()

	// RPC Handlers
	mux.Handle(analyzerHandler.Routes())
	mux.HandleFunc("GET /api/ws/analyze", analyzeWSHandler.HandleAnalyzeWS)

	// JSON Handlers
	mux.HandleFunc("POST /api/analyze", analysisHandler.HandleAnalyze)
	mux.HandleFunc("GET /api/analyses", analysisHandler.HandleList)
	mux.HandleFunc("GET /api/analyses/{id}", analysisHandler.HandleGet)
	mux.HandleFunc("GET /api/analyses/{id}/report", analysisHandler.HandleReport)
	mux.HandleFunc("GET /api/languages", analysisHandler.HandleLanguages)
	mux.HandleFunc("GET /healthz", analysisHandler.HandleHealth)

	// Middleware
	return middleware.CORS(mux)
}
