package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathsnap/internal/prefs"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or change the theme and language preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		if s, _ := cmd.Flags().GetString("theme"); s != "" {
			t, err := prefs.ParseTheme(s)
			if err != nil {
				return err
			}
			if err := prefs.SaveTheme(ctx, e.kv, t); err != nil {
				return err
			}
		}
		if s, _ := cmd.Flags().GetString("lang"); s != "" {
			l, err := prefs.ParseLanguage(s)
			if err != nil {
				return err
			}
			if err := prefs.SaveLanguage(ctx, e.kv, l); err != nil {
				return err
			}
		}

		p, err := prefs.Load(ctx, e.kv)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Theme:     %s\nLanguage:  %s\n", p.Theme, p.Language)
		return nil
	},
}

func init() {
	prefsCmd.Flags().String("theme", "", "Set the theme: light or dark")
	prefsCmd.Flags().String("lang", "", "Set the language: English or Hindi")
}
