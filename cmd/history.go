package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathsnap/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse solved problems",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List solved problems, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		favorites, _ := cmd.Flags().GetBool("favorites")
		limit, _ := cmd.Flags().GetInt("limit")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		items := e.history.Items()
		if favorites {
			items = history.FilterFavorites(items)
		}
		if limit > 0 && len(items) > limit {
			items = items[:limit]
		}
		printHistory(cmd.OutOrStdout(), items)
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the full solution of a history item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		it, err := findItem(e.history.Items(), args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "ID:        %s\n", it.ID)
		fmt.Fprintf(out, "Solved:    %s\n", it.Time().Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "Favorite:  %v\n", it.IsFavorite)
		printSolution(out, it.Solution)
		return nil
	},
}

var historyFavoriteCmd = &cobra.Command{
	Use:   "favorite <id>",
	Short: "Toggle the favorite flag of a history item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		it, err := findItem(e.history.Items(), args[0])
		if err != nil {
			return err
		}
		updated, _, err := e.history.ToggleFavorite(cmd.Context(), it.ID)
		if err != nil {
			return err
		}
		state := "removed from"
		if updated.IsFavorite {
			state = "added to"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%q %s favorites.\n", truncate(updated.Problem, 60), state)
		return nil
	},
}

// findItem resolves an ID or unique ID prefix.
func findItem(items []history.Item, id string) (history.Item, error) {
	var found []history.Item
	for _, it := range items {
		if it.ID == id {
			return it, nil
		}
		if strings.HasPrefix(it.ID, id) {
			found = append(found, it)
		}
	}
	switch len(found) {
	case 0:
		return history.Item{}, fmt.Errorf("history item %q not found", id)
	case 1:
		return found[0], nil
	}
	return history.Item{}, fmt.Errorf("history item prefix %q is ambiguous (%d matches)", id, len(found))
}

func init() {
	historyListCmd.Flags().BoolP("favorites", "f", false, "Only show favorites")
	historyListCmd.Flags().IntP("limit", "n", 0, "Number of items to show (0 = all)")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyFavoriteCmd)
}
