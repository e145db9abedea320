// Package main - Entry point for the repairdesk quote server
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"repairdesk/adapters/backend"
	"repairdesk/api"
	"repairdesk/core/intake"
	"repairdesk/internal/config"
	"repairdesk/internal/logging"
)

const version = "1.0.0"

func main() {
	cfgPath := flag.String("config", "", "config file (default is $HOME/.repairdesk.json)")
	envFile := flag.String("env", ".env", "dotenv file loaded before the config")
	addr := flag.String("addr", "", "server address (overrides server.address)")
	flag.Parse()

	if err := config.LoadDotEnv(*envFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", *envFile, err)
		os.Exit(1)
	}

	path := *cfgPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	config.Set(cfg)

	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
	defer logging.Sync()

	client, err := backend.FromConfig(cfg.Backend)
	if err != nil {
		logging.Error("backend client", zap.Error(err))
		os.Exit(1)
	}

	handler := api.NewHandler(client, intake.OptionsFromConfig(cfg), cfg.Pricing.Currency)
	server := api.NewServer(version, handler)

	listen := cfg.Server.Address
	if *addr != "" {
		listen = *addr
	}
	logging.Info("repairdesk quote server",
		zap.String("version", version),
		zap.String("addr", listen),
		zap.String("backend", cfg.Backend.BaseURL))

	if err := server.ListenAndServe(listen); err != nil {
		logging.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}
