package server

import (
	"context"
	"net"
	"testing"
	"time"

	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/alfredjeanlab/marketpro/internal/client"
)

func TestGRPCHealth(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	srv, hs := NewGRPCServer()
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, service := range []string{"", HealthService} {
		got, err := client.GRPCHealth(ctx, lis.Addr().String(), service)
		if err != nil {
			t.Fatalf("health(%q): %v", service, err)
		}
		if got != "SERVING" {
			t.Errorf("health(%q) = %s, want SERVING", service, got)
		}
	}

	hs.SetServingStatus(HealthService, healthpb.HealthCheckResponse_NOT_SERVING)
	got, err := client.GRPCHealth(ctx, lis.Addr().String(), HealthService)
	if err != nil {
		t.Fatal(err)
	}
	if got != "NOT_SERVING" {
		t.Errorf("after shutdown flip = %s", got)
	}
}
