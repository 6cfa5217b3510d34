package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/avqlab/mushrelay/internal/api"
	"github.com/avqlab/mushrelay/internal/config"
	"github.com/avqlab/mushrelay/internal/db"
	"github.com/avqlab/mushrelay/internal/logger"
	"github.com/avqlab/mushrelay/internal/middleware"
	"github.com/avqlab/mushrelay/internal/services"
	"github.com/avqlab/mushrelay/internal/sinks"
)

// Set via -ldflags at build time.
var (
	commit    = "dev"
	buildTime = ""
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		ServiceName: "mushrelay",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
	})
	ctx := context.Background()

	store, err := buildStore(cfg)
	if err != nil {
		log.Error(ctx, "store setup failed", err)
		os.Exit(1)
	}

	submitter, err := buildSubmitter(cfg, log)
	if err != nil {
		log.Error(ctx, "sink setup failed", err)
		os.Exit(1)
	}

	jwtAuth := middleware.NewAuth(cfg.JWT.Secret)
	var auth *services.AuthService
	if cfg.AdminEnabled() {
		auth = services.NewAuthService(cfg.Admin.Email, cfg.Admin.PasswordHash, jwtAuth.SignToken, cfg.JWT.TokenTTL)
	}

	router := api.NewRouter(api.RouterParams{
		Config:       cfg,
		Log:          log,
		Store:        store,
		Participants: services.NewParticipantService(cfg.Identity.Required, cfg.Identity.AutoGenerate, api.OperatorPrompter, store),
		Submitter:    submitter,
		Collector:    services.NewCollectService(store),
		Stats:        services.NewStatsService(store),
		Exports:      services.NewExportService(store),
		Auth:         auth,
		JWT:          jwtAuth,
		Commit:       commit,
		BuildTime:    buildTime,
	})

	srv := &http.Server{
		Addr:              cfg.App.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info(log.WithFields(ctx, map[string]any{"addr": cfg.App.Addr, "commit": commit}), "server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "server error", err)
			stop()
		}
	}()

	<-shutdownCtx.Done()
	log.Info(ctx, "shutting down")
	ctxTimeout, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxTimeout); err != nil {
		log.Error(ctx, "shutdown error", err)
	}
}

// buildStore selects SQLite when a path is configured, otherwise the
// in-memory store.
func buildStore(cfg *config.Config) (api.Store, error) {
	if cfg.DB.Path == "" {
		return api.NewMemoryStore(), nil
	}
	conn, err := db.Open(cfg.DB.Path)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(conn, cfg.DB.MigrationsDir); err != nil {
		return nil, err
	}
	return db.NewSQLiteStore(conn)
}

// buildSubmitter assembles the fallback chain from configuration. A disabled
// sink stays nil and is skipped by the chain.
func buildSubmitter(cfg *config.Config, log *logger.Logger) (*services.Submitter, error) {
	var form, endpoint, download sinks.Sink
	if cfg.Form.Enabled {
		s, err := sinks.NewFormSink(cfg.Form.URL, cfg.Form.Field, cfg.App.SinkTimeout)
		if err != nil {
			return nil, err
		}
		form = s
	}
	if cfg.Endpoint.Enabled {
		s, err := sinks.NewEndpointSink(cfg.Endpoint.URL, cfg.Endpoint.Method, cfg.App.SinkTimeout)
		if err != nil {
			return nil, err
		}
		endpoint = s
	}
	if cfg.Download.Enabled {
		s, err := sinks.NewLocalSink(cfg.Download.Dir)
		if err != nil {
			return nil, err
		}
		download = s
	}
	return services.NewSubmitter(form, endpoint, download, cfg.App.ClientInfo, log), nil
}
