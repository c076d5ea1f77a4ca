package healthserver

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

func dial(t *testing.T, lis *bufconn.Listener) healthpb.HealthClient {
	t.Helper()
	conn, err := grpc.DialContext(context.Background(), "bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return healthpb.NewHealthClient(conn)
}

func check(t *testing.T, c healthpb.HealthClient, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	resp, err := c.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	require.NoError(t, err)
	return resp.GetStatus()
}

func TestHealth_Transitions(t *testing.T) {
	lis := bufconn.Listen(1 << 20)
	h := New(nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.Serve(ctx, lis) }()

	c := dial(t, lis)
	require.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(t, c, Service))

	h.Ready()
	require.Equal(t, healthpb.HealthCheckResponse_SERVING, check(t, c, Service))
	require.Equal(t, healthpb.HealthCheckResponse_SERVING, check(t, c, ""))

	h.Draining()
	require.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(t, c, Service))

	cancel()
	require.NoError(t, <-done)
}
