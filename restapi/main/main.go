// Package main serves the feed repository over REST using the backend named in the config.
package main

import (
	"context"
	"flag"
	"fmt"
	log "log/slog"
	"os"

	"github.com/sharedcode/feedbench"
	"github.com/sharedcode/feedbench/factory"
	"github.com/sharedcode/feedbench/repository"
	"github.com/sharedcode/feedbench/restapi"
)

// @title feedbench API
// @BasePath /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	configPath := flag.String("config", "", "JSON config file")
	addr := flag.String("addr", "localhost:8080", "Listen address")
	flag.Parse()

	if err := run(*configPath, *addr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath, addr string) error {
	config, err := feedbench.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if err := feedbench.ConfigureLogging(config); err != nil {
		return err
	}
	ctx := context.Background()
	adapter, err := factory.Open(ctx, config)
	if err != nil {
		return err
	}
	defer adapter.Close()

	registry := restapi.NewRegistry()
	if err := restapi.NewAPI(repository.New(adapter, repository.DefaultOptions())).Register(registry); err != nil {
		return err
	}
	log.Info("serving feed API", "version", feedbench.Version, "backend", adapter.Name(), "addr", addr)
	return restapi.NewRouter(registry).Run(addr)
}

// Use this cmd to regenerate the Swagger docs: ~/go/bin/swag init -g restapi/main/main.go -o restapi/docs
