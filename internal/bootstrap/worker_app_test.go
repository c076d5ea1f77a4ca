package bootstrap

import (
	"context"
	"net/http"
	"testing"
	"time"

	"webtask-bridge/internal/application"
	"webtask-bridge/internal/demoapp"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func workerEnv(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	t.Setenv("REDIS_ADDR", mr.Addr())
	t.Setenv("APP_PATH", "demoapp:New")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("GRPC_ADDR", "127.0.0.1:0")
	t.Setenv("METRICS_ADDR", "")
	t.Setenv("SHUTDOWN_TIMEOUT_MS", "2000")
	return mr
}

func TestInitWorker_RunsTasksAgainstTheWebApp(t *testing.T) {
	mr := workerEnv(t)
	w, err := InitWorker()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	require.Eventually(t, func() bool {
		return len(w.Broker.Dependencies()) == 2
	}, 5*time.Second, 10*time.Millisecond)

	deps := w.Broker.Dependencies()
	require.Contains(t, deps, application.AppType)
	req := deps[application.RequestType].(*http.Request)
	require.Equal(t, "/", req.URL.Path)

	out, err := w.Broker.Call(ctx, demoapp.TaskCountVisit, "home")
	require.NoError(t, err)
	require.Equal(t, int64(1), out[0])
	v, err := mr.Get("visits:home")
	require.NoError(t, err)
	require.Equal(t, "1", v)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop")
	}
	_, ok := application.RunnerFromState(w.Broker.State())
	require.False(t, ok)
}

func TestInitWorker_UnknownLocator(t *testing.T) {
	workerEnv(t)
	t.Setenv("APP_PATH", "nowhere:App")
	_, err := InitWorker()
	require.ErrorIs(t, err, application.ErrConfiguration)
}

func TestInitWorker_InvalidConfig(t *testing.T) {
	workerEnv(t)
	t.Setenv("APP_PATH", "missing-attribute")
	_, err := InitWorker()
	require.ErrorContains(t, err, "AppPath")
}

func TestWorker_StartupFailureStopsServers(t *testing.T) {
	mr := workerEnv(t)
	mr.Close()
	w, err := InitWorker()
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err = w.Start(ctx)
	require.ErrorContains(t, err, "worker startup")
}

func TestInitAPI_ResolvesConfiguredApp(t *testing.T) {
	workerEnv(t)
	a, err := InitAPI(context.Background())
	require.NoError(t, err)
	require.Equal(t, "demoapp", a.App.Name())
}
