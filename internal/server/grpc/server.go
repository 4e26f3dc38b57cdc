// Package grpc serves the standard gRPC health service. Its serving status
// follows the store connection: SERVING only while the supervisor is
// CONNECTED.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/photoalbum/internal/logging"
	"github.com/dmitrijs2005/photoalbum/internal/server/supervisor"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health service name reported next to the overall ("")
// status.
const ServiceName = "photoalbum"

type HealthServer struct {
	address string
	health  *health.Server
	logger  logging.Logger
}

func NewHealthServer(address string, l logging.Logger) *HealthServer {
	s := &HealthServer{
		address: address,
		health:  health.NewServer(),
		logger:  l.With("module", "grpc_health"),
	}
	s.ObserveStoreState(supervisor.Disconnected)
	return s
}

// ObserveStoreState is a supervisor observer.
func (s *HealthServer) ObserveStoreState(st supervisor.State) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if st == supervisor.Connected {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

// Run listens on the configured address and serves until ctx is done.
func (s *HealthServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve serves on listen until ctx is done, then stops gracefully.
func (s *HealthServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor))
	healthpb.RegisterHealthServer(srv, s.health)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC health server...")
		// Flip every status to NOT_SERVING so watchers learn before the stop.
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC health server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil {
		return err
	}
	return nil
}
