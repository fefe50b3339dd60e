package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/koopa0/canvas/internal/actions"
	"github.com/koopa0/canvas/internal/app"
	"github.com/koopa0/canvas/internal/config"
)

var (
	flagActionReflections bool
	flagActionPrefix      bool
	flagActionHistory     bool
)

var actionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "Manage custom quick actions",
}

var actionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List custom quick actions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
			all, err := actions.All(ctx, a.Store, defaultUserID)
			if err != nil {
				return err
			}
			if len(all) == 0 {
				fmt.Println("no custom actions defined")
				return nil
			}
			ids := make([]string, 0, len(all))
			for id := range all {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			for _, id := range ids {
				action := all[id]
				fmt.Printf("%s  %s\n    %s\n", id, action.Title, action.Prompt)
			}
			return nil
		})
	},
}

var actionsAddCmd = &cobra.Command{
	Use:   "add <title> <prompt...>",
	Short: "Add a custom quick action",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
			all, err := actions.All(ctx, a.Store, defaultUserID)
			if err != nil {
				return err
			}
			action := actions.CustomQuickAction{
				ID:                   uuid.NewString(),
				Title:                args[0],
				Prompt:               strings.Join(args[1:], " "),
				IncludeReflections:   flagActionReflections,
				IncludePrefix:        flagActionPrefix,
				IncludeRecentHistory: flagActionHistory,
			}
			all[action.ID] = action
			if err := actions.Save(ctx, a.Store, defaultUserID, all); err != nil {
				return err
			}
			fmt.Printf("added action %s (%s)\n", action.ID, action.Title)
			return nil
		})
	},
}

var actionsRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a custom quick action",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
			all, err := actions.All(ctx, a.Store, defaultUserID)
			if err != nil {
				return err
			}
			if _, ok := all[args[0]]; !ok {
				return fmt.Errorf("no action with id %s", args[0])
			}
			delete(all, args[0])
			if err := actions.Save(ctx, a.Store, defaultUserID, all); err != nil {
				return err
			}
			fmt.Printf("removed action %s\n", args[0])
			return nil
		})
	},
}

func init() {
	actionsAddCmd.Flags().BoolVar(&flagActionReflections, "with-memory", true, "include learned style rules in the action prompt")
	actionsAddCmd.Flags().BoolVar(&flagActionPrefix, "with-prefix", true, "prepend the standard assistant framing")
	actionsAddCmd.Flags().BoolVar(&flagActionHistory, "with-history", true, "include recent conversation in the action prompt")
	actionsCmd.AddCommand(actionsListCmd, actionsAddCmd, actionsRemoveCmd)
	rootCmd.AddCommand(actionsCmd)
}

// withApp runs fn against a fully initialized application and tears it
// down afterwards.
func withApp(ctx context.Context, fn func(context.Context, *app.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	logger := initLogger()
	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			logger.Warn("shutdown error", "error", closeErr)
		}
	}()
	return fn(ctx, a)
}
