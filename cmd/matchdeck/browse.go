package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/matchdeck/internal/session"
	"github.com/amishk599/matchdeck/internal/store"
	"github.com/amishk599/matchdeck/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Open the interactive match deck",
	Long:  "Open the interactive deck: best matches first, pages behind it, explanations on demand.",
	RunE:  runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	saved, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		logger.Error("failed to open saved-jobs store", "error", err)
		os.Exit(1)
	}
	defer saved.Close()

	ctrl, client := buildController(cfg, logger)

	// The identity signal is the trigger for the initial fetch; signing out
	// mid-session would clear the cache the same way.
	ctx := context.Background()
	sess := session.NewManager()
	sess.Subscribe(func(id session.Identity) {
		ctrl.SetIdentity(ctx, id)
	})
	sess.SignIn()

	if err := tui.Run(ctrl, client, saved); err != nil {
		logger.Error("browse UI error", "error", err)
		os.Exit(1)
	}
	return nil
}
