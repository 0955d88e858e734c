// Package health reports consumer liveness over the standard gRPC health
// protocol and mirrors it as an HTTP /healthz endpoint.
package health

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/goodnatureofminers/melindex-backend/internal/indexer"
	grpcMiddleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpcZap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	grpcRecovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	grpcCtxTags "github.com/grpc-ecosystem/go-grpc-middleware/tags"
	grpcPrometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	gwruntime "github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	grpcHealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceIndexer is the service name the consumer state is reported under.
const ServiceIndexer = "melindex.Indexer"

// StateSource exposes the consumer state.
type StateSource interface {
	State() indexer.State
}

// Server is a gRPC server carrying only the health and reflection services.
type Server struct {
	grpc   *grpc.Server
	health *grpcHealth.Server
	logger *zap.Logger
}

func NewServer(logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	unary := []grpc.UnaryServerInterceptor{
		grpcRecovery.UnaryServerInterceptor(),
		grpcCtxTags.UnaryServerInterceptor(),
		grpcPrometheus.UnaryServerInterceptor,
		grpcZap.UnaryServerInterceptor(logger),
	}
	stream := []grpc.StreamServerInterceptor{
		grpcRecovery.StreamServerInterceptor(),
		grpcCtxTags.StreamServerInterceptor(),
		grpcPrometheus.StreamServerInterceptor,
		grpcZap.StreamServerInterceptor(logger),
	}
	server := grpc.NewServer(
		grpc.UnaryInterceptor(grpcMiddleware.ChainUnaryServer(unary...)),
		grpc.StreamInterceptor(grpcMiddleware.ChainStreamServer(stream...)),
	)
	grpcPrometheus.EnableHandlingTimeHistogram()
	grpcPrometheus.Register(server)

	h := grpcHealth.NewServer()
	h.SetServingStatus(ServiceIndexer, healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(server, h)
	reflection.Register(server)

	return &Server{grpc: server, health: h, logger: logger}
}

// Serve blocks until ctx is done or the listener fails.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	go func() {
		<-ctx.Done()
		s.logger.Info("shutting down gRPC health server")
		s.health.Shutdown()
		s.grpc.GracefulStop()
	}()

	s.logger.Info("starting gRPC health server", zap.String("addr", lis.Addr().String()))
	if err := s.grpc.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve grpc: %w", err)
	}
	return nil
}

// Watch copies the state of src into the health status of service until ctx is done.
func (s *Server) Watch(ctx context.Context, service string, src StateSource, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := healthpb.HealthCheckResponse_UNKNOWN
	for {
		state := src.State()
		status := servingStatus(state)
		if status != last {
			s.logger.Info("health status changed",
				zap.String("service", service),
				zap.Stringer("status", status),
				zap.Stringer("state", state),
			)
			s.health.SetServingStatus(service, status)
			last = status
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func servingStatus(state indexer.State) healthpb.HealthCheckResponse_ServingStatus {
	if state.Kind == indexer.StateFailed {
		return healthpb.HealthCheckResponse_NOT_SERVING
	}
	return healthpb.HealthCheckResponse_SERVING
}

// NewGateway dials the health server at target and returns a handler serving
// GET /healthz?service=... from its Check results.
func NewGateway(target string) (http.Handler, func() error, error) {
	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, nil, fmt.Errorf("dial health server: %w", err)
	}
	mux := gwruntime.NewServeMux(gwruntime.WithHealthzEndpoint(healthpb.NewHealthClient(conn)))
	return mux, conn.Close, nil
}
