// Platform server - analyses frames streamed over WebSocket and, optionally,
// frames pulled from a local capture source
package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/config"
	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/orchestrator"
	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/server"
	"github.com/GriffinCanCode/ratiolens/backend/platform/internal/trace"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)

	cfg := config.Load()

	mgr := orchestrator.New(cfg)
	srv := server.New(mgr, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := mgr.Start(ctx); err != nil {
		slog.Error("orchestrator error", "error", err)
		os.Exit(1)
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("platform server starting", "http", cfg.HTTPAddr, "capture", cfg.CaptureSource)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("http server error", "error", err)
		}
	}()

	grpcServer, healthSrv := startGRPC(cfg.GRPCAddr)

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	slog.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown error", "error", err)
	}
	if grpcServer != nil {
		healthSrv.Shutdown()
		grpcServer.GracefulStop()
	}

	mgr.Stop()
	slog.Info("shutdown complete")
}

// startGRPC serves the standard health service on addr. An empty addr
// disables it.
func startGRPC(addr string) (*grpc.Server, *health.Server) {
	if addr == "" {
		return nil, nil
	}
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		slog.Error("grpc listen failed", "addr", addr, "error", err)
		return nil, nil
	}

	gs := grpc.NewServer(
		grpc.ChainUnaryInterceptor(trace.UnaryServerInterceptor()),
		grpc.ChainStreamInterceptor(trace.StreamServerInterceptor()),
	)
	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(gs, hs)

	go func() {
		slog.Info("grpc health server starting", "addr", addr)
		if err := gs.Serve(lis); err != nil {
			slog.Error("grpc server error", "error", err)
		}
	}()
	return gs, hs
}
