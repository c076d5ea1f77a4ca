package application

import (
	"context"
	"io"
	"net/http"
	"testing"

	"webtask-bridge/internal/webapp"

	"github.com/stretchr/testify/require"
)

func TestNewMockRequest_Shape(t *testing.T) {
	app := webapp.New()
	req, err := NewMockRequest(context.Background(), app, DefaultRequestURL)
	require.NoError(t, err)

	require.Equal(t, http.MethodGet, req.Method)
	require.Equal(t, "/", req.URL.Path)
	require.Equal(t, "https", req.URL.Scheme)
	require.Equal(t, "test.com", req.Host)
	require.Equal(t, "HTTP/1.0", req.Proto)
	require.Equal(t, "/", req.RequestURI)
	require.Empty(t, req.Header)
	body, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	require.Empty(t, body)

	require.Same(t, app, webapp.AppFromRequest(req))
	require.Same(t, app, webapp.CurrentApp(req))
	mi, ok := webapp.MatchInfoFromRequest(req)
	require.True(t, ok)
	require.True(t, mi.Route.System)
	require.Equal(t, http.StatusBadRequest, mi.Route.Status)
	require.Empty(t, mi.Params)
	require.Equal(t, []*webapp.Application{app}, mi.Apps)
}

func TestNewMockRequest_KeepsOnlySchemeAndHost(t *testing.T) {
	req, err := NewMockRequest(context.Background(), webapp.New(), "http://worker.internal:8080/some/path?q=1")
	require.NoError(t, err)
	require.Equal(t, "http://worker.internal:8080/", req.URL.String())
	require.Equal(t, "worker.internal:8080", req.Host)
}

func TestNewMockRequest_RejectsRelative(t *testing.T) {
	_, err := NewMockRequest(context.Background(), webapp.New(), "test.com")
	require.ErrorIs(t, err, ErrConfiguration)
}
