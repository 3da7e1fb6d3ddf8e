package grpc

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

type fakeDB struct {
	mu  sync.Mutex
	err error
}

func (f *fakeDB) PingContext(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func (f *fakeDB) fail(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func dial(t *testing.T, server *grpc.Server) healthpb.HealthClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	go server.Serve(lis)
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return healthpb.NewHealthClient(conn)
}

func check(t *testing.T, client healthpb.HealthClient, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
	require.NoError(t, err)
	return resp.Status
}

func TestHealthFollowsDatabase(t *testing.T) {
	db := &fakeDB{}
	hs := NewHealthServer(db, time.Hour)
	reg := prometheus.NewRegistry()
	client := dial(t, NewServer(hs, reg))

	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(t, client, ServiceName))

	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, hs.Probe(context.Background()))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check(t, client, ""))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check(t, client, ServiceName))

	db.fail(errors.New("connection refused"))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, hs.Probe(context.Background()))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(t, client, ServiceName))

	assert.Equal(t, 4.0, requestCount(t, reg, "/grpc.health.v1.Health/Check", "OK"))
}

func TestHealthUnknownService(t *testing.T) {
	hs := NewHealthServer(&fakeDB{}, time.Hour)
	reg := prometheus.NewRegistry()
	client := dial(t, NewServer(hs, reg))

	_, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: "nope"})
	require.Error(t, err)
	assert.Equal(t, 1.0, requestCount(t, reg, "/grpc.health.v1.Health/Check", "NotFound"))
}

func TestRunProbesUntilCancelled(t *testing.T) {
	db := &fakeDB{}
	hs := NewHealthServer(db, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hs.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		resp, err := hs.health.Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
		return err == nil && resp.Status == healthpb.HealthCheckResponse_SERVING
	}, time.Second, 5*time.Millisecond)

	db.fail(errors.New("down"))
	require.Eventually(t, func() bool {
		resp, err := hs.health.Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
		return err == nil && resp.Status == healthpb.HealthCheckResponse_NOT_SERVING
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func requestCount(t *testing.T, reg *prometheus.Registry, method, code string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "pos_grpc_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, l := range m.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			if labels["method"] == method && labels["code"] == code {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}
