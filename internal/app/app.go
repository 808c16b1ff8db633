// Package app assembles the blog service from configuration: store, token
// manager, services and router. Both the long-running server and the
// per-invocation function adapter are built on it.
package app

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/quillpad/blog-api/internal/api"
	"github.com/quillpad/blog-api/internal/api/handler"
	"github.com/quillpad/blog-api/internal/api/metrics"
	"github.com/quillpad/blog-api/internal/core/ports"
	"github.com/quillpad/blog-api/internal/core/service"
	mongostore "github.com/quillpad/blog-api/internal/infrastructure/db/mongo"
	sqlitestore "github.com/quillpad/blog-api/internal/infrastructure/db/sqlite"
	"github.com/quillpad/blog-api/internal/pkg/config"
	"github.com/quillpad/blog-api/internal/pkg/token"
	"github.com/quillpad/blog-api/pkg/logger"
)

// Options tunes New per transport.
type Options struct {
	// RequireSecret makes a missing JWT secret fatal outside production too.
	RequireSecret bool
	// Collectors adds the Go runtime and process collectors to /metrics.
	Collectors bool
}

// App is a fully wired service. Close releases the store.
type App struct {
	cfg    *config.Config
	log    zerolog.Logger
	echo   *echo.Echo
	closer func(context.Context) error
}

type store struct {
	users     ports.UserRepository
	posts     ports.PostRepository
	readiness map[string]handler.Pinger
	close     func(context.Context) error
}

func New(ctx context.Context, cfg *config.Config, log zerolog.Logger, opts Options) (*App, error) {
	secret, err := signingSecret(cfg, opts, log)
	if err != nil {
		return nil, err
	}
	tokens, err := token.NewManager(secret, token.WithTTL(cfg.TokenTTL))
	if err != nil {
		return nil, err
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	if opts.Collectors {
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	authService := service.NewAuthService(st.users, tokens, logger.Component(log, "auth"))
	postService := service.NewPostService(st.posts, st.users, logger.Component(log, "posts"))

	e := api.NewRouter(api.Deps{
		Logger:    log,
		Tokens:    tokens,
		Auth:      authService,
		Posts:     postService,
		Registry:  reg,
		Metrics:   metrics.New(reg),
		Readiness: st.readiness,
		BasePath:  cfg.APIBasePath,
	})

	return &App{cfg: cfg, log: log, echo: e, closer: st.close}, nil
}

// Handler exposes the router for adapters that drive it directly.
func (a *App) Handler() http.Handler {
	return a.echo
}

// Run serves HTTP on cfg.Port until ctx is cancelled, then shuts down
// gracefully within cfg.ShutdownTimeout.
func (a *App) Run(ctx context.Context) error {
	addr := ":" + a.cfg.Port
	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", addr).Str("base_path", a.cfg.APIBasePath).Msg("http server listening")
		if err := a.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Info().Msg("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	return a.echo.Shutdown(shutdownCtx)
}

func (a *App) Close(ctx context.Context) error {
	if a.closer == nil {
		return nil
	}
	return a.closer(ctx)
}

// signingSecret returns the configured secret, or an ephemeral random one
// when that is allowed. Tokens signed with an ephemeral secret die with the
// process.
func signingSecret(cfg *config.Config, opts Options, log zerolog.Logger) ([]byte, error) {
	if cfg.JWTSecret != "" {
		return []byte(cfg.JWTSecret), nil
	}
	if cfg.IsProduction() || opts.RequireSecret {
		return nil, config.ErrMissingJWTSecret
	}

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate signing secret: %w", err)
	}
	log.Warn().Msg("JWT_SECRET not set: using an ephemeral secret, tokens will not survive a restart")
	return secret, nil
}

func openStore(ctx context.Context, cfg *config.Config) (*store, error) {
	switch cfg.Store.Driver {
	case config.DriverMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Store.MongoURI,
			Database: cfg.Store.MongoDB,
		})
		if err != nil {
			return nil, err
		}
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &store{
			users: mongostore.NewUserRepository(db),
			posts: mongostore.NewPostRepository(db),
			readiness: map[string]handler.Pinger{
				"mongodb": handler.PingerFunc(func(ctx context.Context) error {
					return client.Ping(ctx, readpref.Primary())
				}),
			},
			close: client.Disconnect,
		}, nil

	case config.DriverSQLite, "":
		db, err := sqlitestore.Open(ctx, cfg.Store.DatabasePath)
		if err != nil {
			return nil, err
		}
		return &store{
			users:     sqlitestore.NewUserRepository(db),
			posts:     sqlitestore.NewPostRepository(db),
			readiness: map[string]handler.Pinger{"sqlite": handler.PingerFunc(db.PingContext)},
			close:     func(context.Context) error { return db.Close() },
		}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}
