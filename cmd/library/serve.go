package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"library_service/pkg/api"
	"library_service/pkg/config"
	"library_service/pkg/database"
	"library_service/pkg/jwtutil"
	"library_service/pkg/lockout"
	"library_service/pkg/logger"
	"library_service/pkg/metrics"
	"library_service/pkg/middleware"
	"library_service/pkg/repository"
	"library_service/pkg/service"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

// newDeps wires the repositories and services over db.
func newDeps(cfg *config.Config, db *gorm.DB, log *zap.Logger) api.Deps {
	store := repository.NewStore(db)
	hasher := service.NewBcryptHasher(bcrypt.DefaultCost)
	tokens := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{
		SigningKey:      cfg.JWT.SigningKey,
		ExpirationHours: cfg.JWT.ExpirationHours,
	})

	deps := api.Deps{
		Store:     store,
		Users:     service.NewUserService(store, hasher, log),
		Authors:   service.NewAuthorService(store, log),
		Books:     service.NewBookService(store, log),
		Libraries: service.NewLibraryService(store, cfg.Lending, log),
		Auth: service.NewAuthService(store, hasher, tokens,
			lockout.NewTracker(cfg.Lockout.MaxFailures, cfg.Lockout.Window), log),
		Tokens:  tokens,
		Metrics: metrics.New(cfg.ServiceName),
	}
	if cfg.RateLimit.Enabled {
		deps.RateLimiter = middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}
	return deps
}

func runServe(ctx context.Context) error {
	cfg, db, err := bootstrap()
	if err != nil {
		return err
	}
	log := logger.GetLogger()

	if err := database.Migrate(db); err != nil {
		return err
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: api.NewRouter(newDeps(cfg, db, log)),
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("Library service starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("Server failed", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return database.Close(db)
}
