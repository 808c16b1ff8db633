// Command server runs the blog API as a long-running HTTP server.
//
// @title                      Blog API
// @version                    1.0
// @description                Multi-user blog: token authentication and owner-only post mutation.
// @BasePath                   /api
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
// @description                Type "Bearer" followed by a space and the token.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/quillpad/blog-api/internal/app"
	"github.com/quillpad/blog-api/internal/pkg/config"
	"github.com/quillpad/blog-api/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if cfg == nil {
		cfg = &config.Config{}
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty, Service: "blog-api"})
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	a, err := app.New(ctx, cfg, log, app.Options{Collectors: true})
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("failed to start")
	}
	defer func() {
		if err := a.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("failed to close store")
		}
	}()

	if err := a.Run(ctx); err != nil {
		log.Error().Err(err).Msg("http server stopped with error")
		return
	}
	log.Info().Msg("server stopped")
}
