// Command blogfn serves exactly one request per process through CGI, for
// function-style hosting. Each invocation opens the store, handles the request
// with the same router as the server, and closes the store.
package main

import (
	"context"
	"net/http/cgi"
	"os"

	"github.com/quillpad/blog-api/internal/app"
	"github.com/quillpad/blog-api/internal/pkg/config"
	"github.com/quillpad/blog-api/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if cfg == nil {
		cfg = &config.Config{}
	}
	// Stdout carries the CGI response.
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Output: os.Stderr, Service: "blogfn"})
	if err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		return 1
	}

	a, err := app.New(ctx, cfg, log, app.Options{RequireSecret: true})
	if err != nil {
		log.Error().Err(err).Msg("failed to start")
		return 1
	}
	defer func() {
		if err := a.Close(ctx); err != nil {
			log.Error().Err(err).Msg("failed to close store")
		}
	}()

	if err := cgi.Serve(a.Handler()); err != nil {
		log.Error().Err(err).Msg("cgi request failed")
		return 1
	}
	return 0
}
