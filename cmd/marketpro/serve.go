package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/alfredjeanlab/marketpro/internal/assistant"
	"github.com/alfredjeanlab/marketpro/internal/backup"
	"github.com/alfredjeanlab/marketpro/internal/config"
	"github.com/alfredjeanlab/marketpro/internal/events"
	"github.com/alfredjeanlab/marketpro/internal/hooks"
	"github.com/alfredjeanlab/marketpro/internal/model"
	"github.com/alfredjeanlab/marketpro/internal/presence"
	"github.com/alfredjeanlab/marketpro/internal/render"
	"github.com/alfredjeanlab/marketpro/internal/server"
	"github.com/alfredjeanlab/marketpro/internal/session"
	"github.com/alfredjeanlab/marketpro/internal/store"
	"github.com/alfredjeanlab/marketpro/internal/store/file"
	"github.com/alfredjeanlab/marketpro/internal/store/postgres"
	"github.com/alfredjeanlab/marketpro/internal/store/sqlite"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Start the site server",
	GroupID: "system",
	// The server reads its own config; no client connection is needed.
	PersistentPreRunE: noClient,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := openStore(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := st.Close(); err != nil {
				logger.Error("error closing store", "err", err)
			}
		}()

		var publisher events.Publisher
		if cfg.NATSURL != "" {
			pub, err := events.NewNATSPublisher(cfg.NATSURL)
			if err != nil {
				return err
			}
			publisher = pub
			logger.Info("events enabled", "nats_url", cfg.NATSURL)
		} else {
			publisher = &events.NoopPublisher{}
			logger.Info("events disabled (MARKETPRO_NATS_URL not set)")
		}
		defer func() {
			if err := publisher.Close(); err != nil {
				logger.Error("error closing publisher", "err", err)
			}
		}()

		var hook *hooks.Handler
		if cfg.PublishHook != "" {
			hook = hooks.NewHandler(cfg.PublishHook, cfg.PublishHookTimeout, logger)
			publisher = hooks.Tap(publisher, hook)
			logger.Info("publish hook enabled", "command", cfg.PublishHook)
		}

		gen := assistant.Offline
		if cfg.GenAIAPIKey != "" {
			genAI, err := assistant.NewGenAIGenerator(ctx, cfg.GenAIAPIKey, cfg.GenAIModel)
			if err != nil {
				logger.Error("assistant disabled", "err", err)
			} else {
				gen = genAI
				logger.Info("assistant enabled", "model", genAI.Model())
			}
		}

		renderer, err := render.New()
		if err != nil {
			return err
		}

		visitors := presence.New()
		visitors.StartReaper(nil)
		defer visitors.Stop()

		siteServer := server.NewSiteServer(st, server.Options{
			Publisher:   publisher,
			Gate:        session.NewGate(cfg.AdminUser, cfg.AdminPassword),
			RequireAuth: cfg.RequireAuth,
			LoginRate:   cfg.LoginRate,
			Assistant:   assistant.New(gen, logger),
			Renderer:    renderer,
			StaticDir:   cfg.StaticDir,
			Visitors:    visitors,
			Logger:      logger,
		})
		if !cfg.RequireAuth {
			logger.Warn("document writes are open (MARKETPRO_REQUIRE_AUTH=false)")
		}

		if scheduler := newBackupScheduler(ctx, cfg, st, logger); scheduler != nil {
			scheduler.Start(ctx)
			defer scheduler.Stop()
			logger.Info("backup scheduler started", "interval", cfg.BackupInterval)
		}

		httpServer := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           siteServer.NewHTTPHandler(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		grpcServer, healthServer := server.NewGRPCServer()
		var lis net.Listener
		if cfg.GRPCAddr != "" {
			if lis, err = net.Listen("tcp", cfg.GRPCAddr); err != nil {
				return err
			}
		}

		g, gctx := errgroup.WithContext(ctx)
		if hook != nil {
			// A run in progress is killed on shutdown and joined by g.Wait.
			g.Go(func() error {
				if err := hook.Run(gctx); err != nil {
					return fmt.Errorf("publish hook: %w", err)
				}
				return nil
			})
		}
		g.Go(func() error {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
		if lis != nil {
			g.Go(func() error {
				logger.Info("gRPC health listening", "addr", cfg.GRPCAddr)
				return grpcServer.Serve(lis)
			})
		}
		g.Go(func() error {
			<-gctx.Done()
			logger.Info("shutting down")

			healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
			healthServer.SetServingStatus(server.HealthService, healthpb.HealthCheckResponse_NOT_SERVING)
			grpcServer.GracefulStop()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("HTTP server shutdown error", "err", err)
			}
			return nil
		})

		logger.Info("marketpro server started",
			"http_addr", cfg.HTTPAddr,
			"grpc_addr", cfg.GRPCAddr,
			"store", cfg.Store,
		)

		err = g.Wait()
		logger.Info("shutdown complete")
		return err
	},
}

// openStore opens the configured backend and seeds it with the default
// document when it is empty.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch cfg.Store {
	case config.StorePostgres:
		st, err = postgres.New(ctx, cfg.DatabaseURL)
	case config.StoreSQLite:
		st, err = sqlite.New(cfg.SQLitePath)
	default:
		st, err = file.New(cfg.DataFile)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store, err)
	}

	seed, err := json.Marshal(model.Default())
	if err != nil {
		st.Close()
		return nil, err
	}
	wrote, err := store.Seed(ctx, st, seed)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("seed store: %w", err)
	}
	if wrote {
		logger.Info("seeded store with default document", "store", cfg.Store)
	}
	return st, nil
}

// newBackupScheduler returns nil when backups are disabled or no
// destination could be configured.
func newBackupScheduler(ctx context.Context, cfg *config.Config, st store.Store, logger *slog.Logger) *backup.Scheduler {
	if cfg.BackupInterval <= 0 {
		return nil
	}
	dests := backupDestinations(ctx, cfg, logger)
	if len(dests) == 0 {
		logger.Warn("backup interval set but no destinations configured")
		return nil
	}
	return backup.NewScheduler(st, dests, cfg.BackupInterval, logger)
}

func backupDestinations(ctx context.Context, cfg *config.Config, logger *slog.Logger) []backup.Destination {
	var dests []backup.Destination
	if cfg.BackupS3Bucket != "" {
		s3Dest, err := backup.NewS3Destination(ctx, cfg.BackupS3Bucket, cfg.BackupS3Key, cfg.BackupS3Region, cfg.BackupS3Endpoint)
		if err != nil {
			logger.Error("failed to create S3 backup destination", "err", err)
		} else {
			dests = append(dests, s3Dest)
			logger.Info("backup S3 destination enabled", "bucket", cfg.BackupS3Bucket, "key", cfg.BackupS3Key)
		}
	}
	if cfg.BackupGitRepo != "" {
		dests = append(dests, backup.NewGitDestination(cfg.BackupGitRepo, cfg.BackupGitFile, cfg.BackupGitBranch))
		logger.Info("backup git destination enabled", "repo", cfg.BackupGitRepo, "file", cfg.BackupGitFile)
	}
	return dests
}
