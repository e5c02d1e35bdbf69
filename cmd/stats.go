package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathsnap/internal/history"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show solved problems per category",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		items := e.history.Items()
		out := cmd.OutOrStdout()
		if len(items) == 0 {
			fmt.Fprintln(out, "No problems solved yet.")
			return nil
		}

		fmt.Fprintf(out, "%-24s  %6s  %9s\n", "Category", "Solved", "Favorites")
		fmt.Fprintln(out, strings.Repeat("─", 43))
		for _, c := range categoryCounts(items) {
			fmt.Fprintf(out, "%-24s  %6d  %9d\n", truncate(c.name, 24), c.solved, c.favorites)
		}
		fmt.Fprintln(out, strings.Repeat("─", 43))
		fmt.Fprintf(out, "%-24s  %6d  %9d\n", "TOTAL", len(items), len(history.FilterFavorites(items)))
		return nil
	},
}

type categoryCount struct {
	name      string
	solved    int
	favorites int
}

// categoryCounts groups items by category, most solved first.
func categoryCounts(items []history.Item) []categoryCount {
	idx := make(map[string]int)
	var out []categoryCount
	for _, it := range items {
		name := it.Solution.Category
		if name == "" {
			name = "Uncategorized"
		}
		i, ok := idx[name]
		if !ok {
			i = len(out)
			idx[name] = i
			out = append(out, categoryCount{name: name})
		}
		out[i].solved++
		if it.IsFavorite {
			out[i].favorites++
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].solved > out[b].solved })
	return out
}
