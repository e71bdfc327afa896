package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/structpb"

	engine "snippetlens/internal/analysis"
	"snippetlens/internal/gateway/repository/history"
	analysissvc "snippetlens/internal/gateway/service/analysis"
)

const (
	AnalyzerServiceName       = "snippetlens.v1.AnalyzerService"
	AnalyzeProcedure          = "/" + AnalyzerServiceName + "/Analyze"
	GetAnalysisProcedure      = "/" + AnalyzerServiceName + "/GetAnalysis"
	analyzerServicePathPrefix = "/" + AnalyzerServiceName + "/"
)

// AnalyzerHandler serves the analyzer over Connect. Messages are
// google.protobuf.Struct values shaped like the HTTP JSON bodies.
type AnalyzerHandler struct {
	svc *analysissvc.Service
}

func NewAnalyzerHandler(svc *analysissvc.Service) *AnalyzerHandler {
	return &AnalyzerHandler{svc: svc}
}

// Routes returns the service path prefix and its handler for mux.Handle.
func (h *AnalyzerHandler) Routes(opts ...connect.HandlerOption) (string, http.Handler) {
	analyze := connect.NewUnaryHandler(AnalyzeProcedure, h.Analyze, opts...)
	get := connect.NewUnaryHandler(GetAnalysisProcedure, h.GetAnalysis, opts...)
	return analyzerServicePathPrefix, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case AnalyzeProcedure:
			analyze.ServeHTTP(w, r)
		case GetAnalysisProcedure:
			get.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

func (h *AnalyzerHandler) Analyze(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	fields := req.Msg.GetFields()
	in := engine.Request{
		SourceText: fields["sourceText"].GetStringValue(),
		Language:   fields["language"].GetStringValue(),
	}
	if strings.TrimSpace(in.SourceText) == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("sourceText is required"))
	}
	rec, err := h.svc.Analyze(ctx, in)
	if err != nil {
		return nil, toConnectError(err)
	}
	out, err := toStruct(rec)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(out), nil
}

func (h *AnalyzerHandler) GetAnalysis(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	id := strings.TrimSpace(req.Msg.GetFields()["id"].GetStringValue())
	if id == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("id is required"))
	}
	rec, err := h.svc.Get(ctx, id)
	if err != nil {
		return nil, toConnectError(err)
	}
	out, err := toStruct(rec)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(out), nil
}

func toConnectError(err error) error {
	switch {
	case errors.Is(err, engine.ErrInvalidInput):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, history.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

func toStruct(rec history.Record) (*structpb.Struct, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return structpb.NewStruct(m)
}
