package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/matchdeck/internal/store"
)

var savedCmd = &cobra.Command{
	Use:   "saved",
	Short: "List jobs saved for later",
	RunE:  runSaved,
}

func init() {
	rootCmd.AddCommand(savedCmd)
}

func runSaved(cmd *cobra.Command, args []string) error {
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

	jobs, err := saved.List()
	if err != nil {
		logger.Error("failed to list saved jobs", "error", err)
		os.Exit(1)
	}

	if len(jobs) == 0 {
		fmt.Println("no saved jobs")
		return nil
	}

	for _, j := range jobs {
		title := "(untitled role)"
		if j.Title != nil {
			title = *j.Title
		}
		line := fmt.Sprintf("[%d] %s", *j.ID, title)
		if j.Company != nil {
			line += " @ " + *j.Company
		}
		line += "  (saved " + j.SavedAt.Format("2006-01-02") + ")"
		fmt.Println(line)
	}
	return nil
}
