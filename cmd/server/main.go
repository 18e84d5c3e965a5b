// @title                      User API
// @version                    1.0
// @description                User and role management with stateless JWT authentication.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/userhub/user-api/internal/api"
	"github.com/userhub/user-api/internal/api/handler"
	"github.com/userhub/user-api/internal/core/service"
	"github.com/userhub/user-api/internal/infrastructure/credential"
	mongodb "github.com/userhub/user-api/internal/infrastructure/db/mongo"
	redisdb "github.com/userhub/user-api/internal/infrastructure/db/redis"
	"github.com/userhub/user-api/internal/infrastructure/queue"
	"github.com/userhub/user-api/internal/infrastructure/seed"
	"github.com/userhub/user-api/internal/pkg/config"
	"github.com/userhub/user-api/pkg/logger"
)

const shutdownGracePeriod = 15 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "user-api",
		Env:     cfg.Env,
	})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			log.Error().Err(err).Msg("mongo disconnect")
		}
	}()

	redisClient, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer redisClient.Close()

	userRepo := mongodb.NewUserRepository(db)
	roleRepo := mongodb.NewRoleRepository(db)
	if err := mongodb.EnsureIndexes(ctx, userRepo, roleRepo); err != nil {
		return err
	}

	// --- Audit ---
	// Workers outlive the signal context so queued events are flushed after
	// the HTTP server stops.
	auditCtx, stopAudit := context.WithCancel(context.Background())
	dispatcher := queue.NewAuditDispatcher(cfg.Audit.Workers, mongodb.NewAuditRepository(db), logger.Component("audit"))
	dispatcher.Start(auditCtx)
	defer func() {
		stopAudit()
		dispatcher.Wait()
	}()

	// --- Core ---
	hasher := service.NewBcryptHasher(0)
	codec, err := service.NewTokenCodec(cfg.Auth.JWTSecret)
	if err != nil {
		return err
	}
	authority := service.NewTokenAuthority(codec, logger.Component("token_authority"))

	lockout := redisdb.NewLoginLockout(redisClient, cfg.Auth.LockoutMaxAttempts, cfg.Auth.LockoutWindow)
	credentials := credential.NewStore(userRepo, lockout, logger.Component("credentials"))
	validator := service.NewMutationValidator(userRepo, roleRepo, hasher, cfg.Auth.PasswordMinLength)

	auth, err := service.NewAuthService(credentials, hasher, codec, cfg.Auth.TokenTTL, logger.Component("auth"))
	if err != nil {
		return err
	}
	authService := service.NewObservedAuthService(auth, dispatcher, logger.Component("auth"))
	userService := service.NewObservedUserService(
		service.NewUserService(userRepo, validator, logger.Component("users")),
		dispatcher, logger.Component("users"),
	)
	roleService := service.NewObservedRoleService(
		service.NewRoleService(roleRepo, userRepo, validator, logger.Component("roles")),
		dispatcher, logger.Component("roles"),
	)

	if cfg.SeedData {
		if err := seed.Run(ctx, roleService, userService, logger.Component("seed")); err != nil {
			return err
		}
	}

	// --- HTTP ---
	e := api.NewRouter(api.Dependencies{
		Auth:      authService,
		Authority: authority,
		Users:     userService,
		Roles:     roleService,
		Health: map[string]handler.Pinger{
			"mongodb": mongodb.Pinger{Client: mongoClient},
			"redis":   redisdb.Pinger{Client: redisClient},
		},
		LoginRatePerSec: cfg.Auth.LoginRatePerSec,
		Log:             logger.Component("http"),
	})

	return serve(ctx, e, ":"+cfg.Port, log)
}

// serve blocks until ctx is cancelled or the server fails, then shuts the
// server down within shutdownGracePeriod.
func serve(ctx context.Context, e *echo.Echo, addr string, log zerolog.Logger) error {
	serverErrors := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("starting server")
		serverErrors <- e.Start(addr)
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}
