package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/matchdeck/internal/cache"
	"github.com/amishk599/matchdeck/internal/controller"
	"github.com/amishk599/matchdeck/internal/session"
)

var forceRefresh bool

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "Print the current best matches and exit",
	RunE:  runMatches,
}

func init() {
	matchesCmd.Flags().BoolVar(&forceRefresh, "refresh", false, "bypass caches and recompute matches")
	rootCmd.AddCommand(matchesCmd)
}

func runMatches(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctrl, _ := buildController(cfg, logger)

	ctx := context.Background()
	sess := session.NewManager()
	sess.Subscribe(func(id session.Identity) {
		ctrl.SetIdentity(ctx, id)
	})
	sess.SignIn()

	if forceRefresh {
		ctrl.Refresh(ctx)
	}

	snap := ctrl.Snapshot()
	if snap.Phase == controller.PhaseError {
		logger.Error("failed to load matches", "error", snap.Err)
		os.Exit(1)
	}

	fmt.Println("Best matches:")
	for i, rec := range cache.PadToBoard(snap.Recommendations) {
		if rec.Inert() {
			fmt.Printf("%d. —\n", i+1)
			continue
		}

		title := "(untitled role)"
		if rec.Title != nil {
			title = *rec.Title
		}
		line := fmt.Sprintf("%d. %s", i+1, title)
		if rec.Company != nil {
			line += " @ " + *rec.Company
		}
		if rec.Similarity != nil {
			line += fmt.Sprintf(" (%.0f%% match)", *rec.Similarity*100)
		}
		fmt.Println(line)
		if rec.TechStack != nil {
			fmt.Printf("   %s\n", *rec.TechStack)
		}
	}
	return nil
}
