package healthserver

import (
	"context"
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Service is the name worker readiness is reported under, next to the
// empty overall service name.
const Service = "webtask.Worker"

// Health reports worker readiness over the standard gRPC health protocol.
// It starts out NOT_SERVING.
type Health struct {
	srv *health.Server
	log *zap.Logger
}

func New(log *zap.Logger) *Health {
	if log == nil {
		log = zap.NewNop()
	}
	h := &Health{srv: health.NewServer(), log: log}
	h.set(healthpb.HealthCheckResponse_NOT_SERVING)
	return h
}

// Ready marks the worker as serving once startup has published its
// dependencies.
func (h *Health) Ready() { h.set(healthpb.HealthCheckResponse_SERVING) }

// Draining marks the worker as not serving ahead of shutdown.
func (h *Health) Draining() { h.set(healthpb.HealthCheckResponse_NOT_SERVING) }

func (h *Health) set(st healthpb.HealthCheckResponse_ServingStatus) {
	h.srv.SetServingStatus("", st)
	h.srv.SetServingStatus(Service, st)
	h.log.Info("health.status", zap.String("status", st.String()))
}

// Serve blocks serving health checks on lis until ctx is done.
func (h *Health) Serve(ctx context.Context, lis net.Listener) error {
	gs := grpc.NewServer(grpc.Creds(insecure.NewCredentials()))
	healthpb.RegisterHealthServer(gs, h.srv)
	errCh := make(chan error, 1)
	go func() {
		h.log.Info("grpc_server_started", zap.String("addr", lis.Addr().String()))
		errCh <- gs.Serve(lis)
	}()
	select {
	case <-ctx.Done():
		h.log.Info("grpc_server_stopping")
		h.srv.Shutdown()
		gs.GracefulStop()
		return nil
	case err := <-errCh:
		return err
	}
}

// RunServer listens on addr and serves until ctx is done.
func (h *Health) RunServer(ctx context.Context, addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return h.Serve(ctx, lis)
}
