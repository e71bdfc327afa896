package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snippetlens/internal/gateway/handler"
	"snippetlens/internal/gateway/handler/rpc"
	analysissvc "snippetlens/internal/gateway/service/analysis"
)

func TestNewMuxRoutes(t *testing.T) {
	svc := analysissvc.New(analysissvc.Options{})
	srv := httptest.NewServer(NewMux(
		handler.NewAnalysisHandler(svc),
		rpc.NewAnalyzerHandler(svc),
		rpc.NewAnalyzeWSHandler(svc),
	))
	defer srv.Close()

	res, err := srv.Client().Get(srv.URL + "/healthz")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "*", res.Header.Get("Access-Control-Allow-Origin"))

	res, err = srv.Client().Post(srv.URL+"/api/analyze", "application/json", strings.NewReader(`{"sourceText":"x = 1;"}`))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, err = srv.Client().Post(srv.URL+rpc.AnalyzeProcedure, "application/json", strings.NewReader(`{"sourceText":"x = 1;"}`))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, err = srv.Client().Get(srv.URL + "/api/unknown")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}
