package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/abhisek/mathsnap/internal/history"
	"github.com/abhisek/mathsnap/internal/solution"
)

func printSolution(w io.Writer, sol solution.MathSolution) {
	fmt.Fprintf(w, "Problem:   %s\n", sol.Problem)
	if sol.Category != "" {
		fmt.Fprintf(w, "Category:  %s\n", sol.Category)
	}
	fmt.Fprintln(w)
	for i, step := range sol.Steps {
		fmt.Fprintf(w, "%2d. %s\n", i+1, step)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Answer:    %s\n", sol.FinalAnswer)
}

func printHistory(w io.Writer, items []history.Item) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No history found.")
		return
	}

	fmt.Fprintf(w, "%-36s  %-16s  %-3s  %-14s  %s\n", "ID", "Solved", "Fav", "Category", "Problem")
	fmt.Fprintln(w, strings.Repeat("─", 100))
	for _, it := range items {
		fav := ""
		if it.IsFavorite {
			fav = "♥"
		}
		fmt.Fprintf(w, "%-36s  %-16s  %-3s  %-14s  %s\n",
			it.ID,
			it.Time().Local().Format("2006-01-02 15:04"),
			fav,
			truncate(it.Solution.Category, 14),
			truncate(it.Problem, 40),
		)
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}
