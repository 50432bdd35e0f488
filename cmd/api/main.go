// GameWallet API server entry point.
//
// Examples:
//
//	# Development (defaults)
//	go run ./cmd/api
//
//	# With a config file
//	go run ./cmd/api -config ./configs
//
//	# With environment variables
//	DATABASE_URL=postgres://... PORT=3000 go run ./cmd/api -env-only
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/playforge/gamewallet/internal/config"
	"github.com/playforge/gamewallet/internal/container"
)

// Build-time variables.
var (
	version = "dev"
)

func main() {
	configPath := flag.String("config", "./configs", "path to config directory")
	configName := flag.String("config-name", "config", "config file name (without extension)")
	envOnly := flag.Bool("env-only", false, "load config only from environment variables")
	showVersion := flag.Bool("version", false, "show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("GameWallet API Server %s\n", version)
		os.Exit(0)
	}

	// A local .env is a convenience, not a requirement.
	_ = godotenv.Load()

	var cfg *config.Config
	var err error
	if *envOnly {
		cfg, err = config.LoadFromEnv()
	} else {
		cfg, err = config.Load(*configPath, *configName)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg.App.Version = version

	c := container.New(cfg)

	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer initCancel()
	if err := c.Initialize(initCtx); err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}
	defer c.Close()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		c.Logger().Info("starting server",
			"port", cfg.Server.Port,
			"environment", cfg.App.Environment,
			"version", cfg.App.Version,
		)
		errChan <- c.HTTPServer().Start()
	}()

	select {
	case err := <-errChan:
		if err != nil {
			c.Logger().Error("server error", "error", err)
		}
	case sig := <-quit:
		c.Logger().Info("received shutdown signal", "signal", sig.String())
	}

	c.Logger().Info("initiating graceful shutdown")
	if err := c.HTTPServer().Shutdown(context.Background()); err != nil {
		c.Logger().Error("shutdown error", "error", err)
	}
	c.Logger().Info("server stopped")
}
