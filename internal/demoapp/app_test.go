package demoapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"webtask-bridge/internal/importer"
	"webtask-bridge/internal/webapp"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func startApp(t *testing.T) (*webapp.Runner, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	r := webapp.NewRunner(NewWithSettings(Settings{RedisAddr: mr.Addr()}))
	require.NoError(t, r.Setup(context.Background()))
	t.Cleanup(func() {
		_ = r.Shutdown(context.Background())
		_ = r.Cleanup(context.Background())
	})
	return r, mr
}

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestRegisteredLocators(t *testing.T) {
	paths := importer.Default().Paths()
	require.Contains(t, paths, "demoapp:New")
	require.Contains(t, paths, "demoapp:NewContext")
}

func TestHTTP_Visits(t *testing.T) {
	r, mr := startApp(t)
	srv := r.Server()

	require.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/visits/home").Code)

	rec := do(t, srv, http.MethodPost, "/visits/home")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, srv, http.MethodPost, "/visits/home")
	var body visitResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, visitResponse{Key: "home", Count: 2}, body)

	rec = do(t, srv, http.MethodGet, "/visits/home")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, int64(2), body.Count)

	require.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodPost, "/visits/BAD").Code)

	v, err := mr.Get("visits:home")
	require.NoError(t, err)
	require.Equal(t, "2", v)
}

func TestHTTP_HealthAndReady(t *testing.T) {
	r, mr := startApp(t)
	require.Equal(t, http.StatusOK, do(t, r.Server(), http.MethodGet, "/healthz").Code)
	require.Equal(t, http.StatusOK, do(t, r.Server(), http.MethodGet, "/readyz").Code)

	mr.Close()
	require.Equal(t, http.StatusServiceUnavailable, do(t, r.Server(), http.MethodGet, "/readyz").Code)
}

func TestStartup_FailsWhenRedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()
	r := webapp.NewRunner(NewWithSettings(Settings{RedisAddr: addr}))
	require.Error(t, r.Setup(context.Background()))
	require.Nil(t, r.Server())
}

func TestCleanup_ClosesRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	app := NewWithSettings(Settings{RedisAddr: mr.Addr()})
	r := webapp.NewRunner(app)
	require.NoError(t, r.Setup(context.Background()))

	req := webapp.WithApp(httptest.NewRequest(http.MethodGet, "/", nil), app)
	client, err := RedisFromRequest(req)
	require.NoError(t, err)

	require.NoError(t, r.Shutdown(context.Background()))
	require.NoError(t, r.Cleanup(context.Background()))
	require.Error(t, client.Ping(context.Background()).Err())
}

func TestNewContext_PingsRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	t.Setenv("REDIS_ADDR", mr.Addr())
	app, err := NewContext(context.Background())
	require.NoError(t, err)
	require.Equal(t, "demoapp", app.Name())

	mr.Close()
	_, err = NewContext(context.Background())
	require.Error(t, err)
}
