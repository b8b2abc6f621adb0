package main

import (
	"fmt"
	"os"

	"agriport/internal/config"
	applog "agriport/internal/log"
	"agriport/internal/webapp"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := applog.New(cfg.LogLevel, cfg.LogFormat)
	logger.Info().
		Int("port", cfg.WebAppPort).
		Str("api_url", cfg.APIURL).
		Msg("starting agriport webapp")

	server := webapp.NewServer(cfg, logger)
	if err := server.Run(); err != nil {
		logger.Fatal().Err(err).Msg("webapp exited")
	}
}
