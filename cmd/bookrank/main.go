package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/emzola/bookrank/clients"
	"github.com/emzola/bookrank/config"
	"github.com/emzola/bookrank/data"
	_ "github.com/emzola/bookrank/docs"
	"github.com/emzola/bookrank/handler"
	"github.com/emzola/bookrank/internal/jsonlog"
	"github.com/emzola/bookrank/internal/render"
	"github.com/emzola/bookrank/repository"
	"github.com/emzola/bookrank/service"
	"github.com/juju/clock"
)

// app defines the application's layers and shared resources.
type app struct {
	config  config.Config
	cache   *service.ResponseCache
	handler *handler.Handler
}

// @title  Bookrank API
// @version 1.0.0
// @description Best selling and newly released Japanese novels from the Rakuten Books catalogue.
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @BasePath /
func main() {
	logger := jsonlog.New(os.Stdout, jsonlog.LevelInfo)
	err := run(os.Args[1:], logger)
	if err != nil {
		logger.PrintFatal(err, nil)
		os.Exit(1)
	}
}

// run decodes the configuration, builds the app and serves until shutdown. Any
// startup failure is returned before the server listens.
func run(args []string, logger *jsonlog.Logger) error {
	fs := flag.NewFlagSet("bookrank", flag.ContinueOnError)
	configPath := fs.String("config", "config.yaml", "Path to an optional YAML config file")
	err := fs.Parse(args)
	if err != nil {
		return err
	}

	// Initialize configuration
	cfg, err := config.Decode(*configPath)
	if err != nil {
		return err
	}

	app, err := newApp(cfg, logger)
	if err != nil {
		return err
	}

	// Start HTTP server
	return app.serve(logger)
}

// newApp wires the application layers.
func newApp(cfg config.Config, logger *jsonlog.Logger) (*app, error) {
	// Fallback data set
	samples, err := loadSamples(cfg)
	if err != nil {
		return nil, fmt.Errorf("load fallback books: %w", err)
	}
	logger.PrintInfo("fallback data set loaded", map[string]string{
		"books": strconv.Itoa(len(samples)),
	})

	// Revalidation cache; a zero window disables it
	var cache *service.ResponseCache
	if cfg.Cache.Revalidate > 0 {
		cache = service.NewResponseCache(cfg.Cache.Revalidate)
	}

	// Application layers
	client := clients.NewRakutenClient(cfg, clients.NewHTTPClient())
	repo := repository.New(samples)
	svc := service.New(cfg, logger, client, repo, cache, clock.WallClock)
	renderer, err := render.New(clock.WallClock)
	if err != nil {
		return nil, err
	}

	return &app{
		config:  cfg,
		cache:   cache,
		handler: handler.New(cfg, logger, svc, renderer),
	}, nil
}

// loadSamples reads the fallback set from the configured file, or the built-in set.
func loadSamples(cfg config.Config) ([]data.Book, error) {
	if cfg.Fallback.File != "" {
		return data.LoadBooks(cfg.Fallback.File)
	}
	return data.SampleBooks()
}
