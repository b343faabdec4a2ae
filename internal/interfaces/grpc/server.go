// Package grpc exposes the credit scoring pipeline as a gRPC service using a JSON codec.
package grpc

import (
	"context"
	"fmt"
	"net"

	"github.com/turtacn/credscore/pkg/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// Server wraps a grpc.Server with the credit scoring and health services registered.
type Server struct {
	gs     *grpc.Server
	health *health.Server
	log    logger.Logger
}

// NewServer builds the gRPC server. Reflection is registered when enableReflection is set.
func NewServer(svc CreditScoringServer, chain *InterceptorChain, enableReflection bool, log logger.Logger) *Server {
	if log == nil {
		log = logger.NewNoopLogger()
	}
	var opts []grpc.ServerOption
	if chain != nil {
		opts = append(opts, chain.ChainUnaryInterceptors())
	}

	gs := grpc.NewServer(opts...)
	RegisterCreditScoringServer(gs, svc)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	if enableReflection {
		reflection.Register(gs)
	}

	return &Server{gs: gs, health: hs, log: log.WithComponent("grpc_server")}
}

// SetServing flips the health status reported for the scoring service.
func (s *Server) SetServing(serving bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(ServiceName, st)
}

// Start listens on addr and serves until Stop.
func (s *Server) Start(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(lis)
}

// Serve serves on an existing listener.
func (s *Server) Serve(lis net.Listener) error {
	s.log.Info(context.Background(), "Starting gRPC server", logger.String("address", lis.Addr().String()))
	return s.gs.Serve(lis)
}

// Stop drains in-flight calls, or stops hard when ctx expires first.
func (s *Server) Stop(ctx context.Context) {
	s.log.Info(ctx, "Stopping gRPC server...")
	s.health.Shutdown()

	done := make(chan struct{})
	go func() {
		s.gs.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.gs.Stop()
	}
}

//Personal.AI order the ending
