package webapp

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunner_Lifecycle(t *testing.T) {
	app := New(WithName("svc"))
	var startups, shutdowns, cleanups int
	app.OnStartup(func(context.Context, *Application) error { startups++; return nil })
	app.OnShutdown(func(context.Context, *Application) error { shutdowns++; return nil })
	app.OnCleanup(func(context.Context, *Application) error { cleanups++; return nil })

	r := NewRunner(app)
	require.Nil(t, r.Server())
	require.ErrorIs(t, r.Shutdown(context.Background()), ErrNotSetup)

	require.NoError(t, r.Setup(context.Background()))
	require.NotNil(t, r.Server())
	require.Same(t, app, r.Server().App())
	require.True(t, app.Frozen())
	require.ErrorIs(t, r.Setup(context.Background()), ErrAlreadySetup)

	require.NoError(t, r.Shutdown(context.Background()))
	require.NoError(t, r.Cleanup(context.Background()))
	require.Nil(t, r.Server())
	require.Equal(t, []int{1, 1, 1}, []int{startups, shutdowns, cleanups})
	require.ErrorIs(t, r.Cleanup(context.Background()), ErrNotSetup)
}

func TestRunner_SetupFailureLeavesNoServer(t *testing.T) {
	app := New()
	boom := errors.New("boom")
	app.OnStartup(func(context.Context, *Application) error { return boom })
	r := NewRunner(app)
	require.ErrorIs(t, r.Setup(context.Background()), boom)
	require.Nil(t, r.Server())
}

func TestServer_BindsAppAndRequestID(t *testing.T) {
	app := New()
	var bound *Application
	app.Router().Get("/", func(w http.ResponseWriter, r *http.Request) {
		bound = AppFromRequest(r)
		w.WriteHeader(http.StatusOK)
	})
	app.Router().Get("/panic", func(http.ResponseWriter, *http.Request) { panic("oops") })
	r := NewRunner(app)
	require.NoError(t, r.Setup(context.Background()))

	rec := httptest.NewRecorder()
	r.Server().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Same(t, app, bound)
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	req.Header.Set("X-Request-ID", "fixed")
	rec = httptest.NewRecorder()
	r.Server().ServeHTTP(rec, req)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "fixed", rec.Header().Get("X-Request-ID"))
}
