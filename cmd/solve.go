package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathsnap/internal/prefs"
)

var solveCmd = &cobra.Command{
	Use:   "solve <problem...>",
	Short: "Solve a typed problem and print the steps",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		lang, err := resolveLanguage(cmd, e)
		if err != nil {
			return err
		}
		svc, err := e.solver(ctx)
		if err != nil {
			return err
		}

		sol, err := svc.SolveText(ctx, strings.Join(args, " "), string(lang))
		if err != nil {
			return err
		}
		printSolution(cmd.OutOrStdout(), sol)
		return nil
	},
}

// resolveLanguage returns the --lang flag if set, else the saved preference.
func resolveLanguage(cmd *cobra.Command, e *env) (prefs.Language, error) {
	if s, _ := cmd.Flags().GetString("lang"); s != "" {
		return prefs.ParseLanguage(s)
	}
	p, err := prefs.Load(cmd.Context(), e.kv)
	if err != nil {
		return prefs.English, fmt.Errorf("load preferences: %w", err)
	}
	return p.Language, nil
}

func init() {
	solveCmd.Flags().StringP("lang", "l", "", "Explanation language: English or Hindi (default: saved preference)")
}
