package grpc

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"github.com/tair/retail-pos/pkg/logger"
)

// LoggingInterceptor logs gRPC requests
func LoggingInterceptor(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (interface{}, error) {
	start := time.Now()

	resp, err := handler(ctx, req)

	event := logger.Debug(ctx)
	if err != nil {
		event = logger.Warn(ctx).Err(err)
	}
	event.
		Str("method", info.FullMethod).
		Dur("duration", time.Since(start)).
		Msg("gRPC request")

	return resp, err
}

// NewMetricsInterceptor counts unary calls by method and status code
func NewMetricsInterceptor(reg prometheus.Registerer) grpc.UnaryServerInterceptor {
	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_grpc_requests_total",
			Help: "Total number of gRPC requests",
		},
		[]string{"method", "code"},
	)
	reg.MustRegister(requests)

	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		resp, err := handler(ctx, req)
		requests.WithLabelValues(info.FullMethod, status.Code(err).String()).Inc()
		return resp, err
	}
}
