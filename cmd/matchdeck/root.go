package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/amishk599/matchdeck/internal/api"
	"github.com/amishk599/matchdeck/internal/cache"
	"github.com/amishk599/matchdeck/internal/config"
	"github.com/amishk599/matchdeck/internal/controller"
	"github.com/amishk599/matchdeck/internal/fetchguard"
	"github.com/amishk599/matchdeck/internal/retry"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "matchdeck",
	Short: "Job match deck — browse your best matches from the terminal",
	Long:  "Matchdeck talks to the recommendation backend and shows your curated job matches, page by page.",
	// Default to `browse` so that `matchdeck` with no args opens the deck.
	RunE: runBrowse,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: MATCHDECK_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig loads .env (if present), resolves the config path, and parses it.
// Priority: explicit path arg > MATCHDECK_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	// Token secrets usually live in .env; missing file is fine.
	_ = godotenv.Load()

	if path == "" {
		if env := os.Getenv("MATCHDECK_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// buildController wires the fetch pipeline: API client → retry decorator →
// dedup guard → cache → controller.
func buildController(cfg *config.Config, logger *slog.Logger) (*controller.Controller, *api.Client) {
	httpClient := &http.Client{Timeout: cfg.API.Timeout}
	client := api.NewClient(cfg.API.BaseURL, cfg.API.Token, httpClient)

	fetcher := retry.NewFetcher(client, cfg.Retry.MaxRetries, cfg.Retry.BaseDelay, logger)
	recCache := cache.New(fetcher, fetchguard.New(), cfg.Cache.Validity, logger)

	return controller.New(recCache, client, logger), client
}
