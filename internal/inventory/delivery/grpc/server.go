package grpc

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/tair/retail-pos/pkg/logger"
)

// ServiceName is the health service name reported alongside the overall ("") status
const ServiceName = "pos.Inventory"

// Pinger reports database reachability
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthServer mirrors database reachability into the standard gRPC health service
type HealthServer struct {
	health   *health.Server
	db       Pinger
	interval time.Duration
}

// NewHealthServer creates a health server that starts NOT_SERVING until the first probe
func NewHealthServer(db Pinger, interval time.Duration) *HealthServer {
	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	return &HealthServer{health: hs, db: db, interval: interval}
}

// Probe pings the database once and updates the serving status
func (s *HealthServer) Probe(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := s.db.PingContext(ctx); err != nil {
		logger.Warn(ctx).Err(err).Msg("Database ping failed, reporting NOT_SERVING")
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
	return status
}

// Run probes on every interval until ctx is done, then marks the service as shutting down
func (s *HealthServer) Run(ctx context.Context) {
	s.Probe(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.health.Shutdown()
			return
		case <-ticker.C:
			s.Probe(ctx)
		}
	}
}

// NewServer builds the gRPC server exposing the health service and reflection
func NewServer(hs *HealthServer, reg prometheus.Registerer) *grpc.Server {
	server := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			LoggingInterceptor,
			NewMetricsInterceptor(reg),
		),
	)
	healthpb.RegisterHealthServer(server, hs.health)
	reflection.Register(server)
	return server
}
