package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathsnap/internal/capture"
	"github.com/abhisek/mathsnap/internal/history"
	"github.com/abhisek/mathsnap/internal/kv"
	"github.com/abhisek/mathsnap/internal/prefs"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the solution history",
	Long:  "reset clears the history. With --all it also restores default preferences and shows the camera tips again.",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		return resetData(cmd.Context(), cmd.OutOrStdout(), e.history, e.kv, all)
	},
}

func init() {
	resetCmd.Flags().Bool("all", false, "Also reset preferences and the camera tips")
}

func resetData(ctx context.Context, out io.Writer, records *history.Store, store kv.Store, all bool) error {
	if err := records.Clear(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, "History cleared.")

	if !all {
		return nil
	}
	if err := prefs.Reset(ctx, store); err != nil {
		return fmt.Errorf("reset preferences: %w", err)
	}
	if err := store.Delete(ctx, capture.TutorialMarkerKey); err != nil {
		return fmt.Errorf("reset camera tips: %w", err)
	}
	fmt.Fprintln(out, "Preferences and camera tips reset.")
	return nil
}
