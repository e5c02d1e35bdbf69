package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathsnap/internal/capture"
)

var snapCmd = &cobra.Command{
	Use:   "snap",
	Short: "Capture a problem from an image file or watched folder and solve it",
	Long: "snap runs the capture countdown against an image source and sends the " +
		"captured frame to the vision model. With --watch the newest image in the " +
		"folder at the end of the countdown is used.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		image, _ := cmd.Flags().GetString("image")
		watch, _ := cmd.Flags().GetString("watch")
		if image != "" && watch != "" {
			return errors.New("--image and --watch are mutually exclusive")
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		source, label := e.captureSource(image, watch)
		if source == nil {
			return errors.New("no image source: pass --image or --watch, or set capture.watch_dir")
		}
		lang, err := resolveLanguage(cmd, e)
		if err != nil {
			return err
		}
		svc, err := e.solver(ctx)
		if err != nil {
			return err
		}

		interval, _ := cmd.Flags().GetDuration("countdown")
		if !cmd.Flags().Changed("countdown") {
			interval = e.cfg.Capture.Countdown
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Capturing from %s\n", label)
		// Headless runs never show the tutorial, so no marker store.
		session := capture.NewSession(source, nil, capture.WithLogger(e.logger))
		payload, err := capture.Run(ctx, session, interval, capture.OnCountdown(func(n int) {
			fmt.Fprintf(out, "%d...\n", n)
		}))
		if err != nil {
			return fmt.Errorf("capture: %w", err)
		}

		fmt.Fprintln(out, "Solving...")
		sol, err := svc.SolveImage(ctx, payload, string(lang))
		if err != nil {
			return err
		}
		fmt.Fprintln(out)
		printSolution(out, sol)
		return nil
	},
}

func init() {
	snapCmd.Flags().StringP("image", "i", "", "Image file (JPEG or PNG) to capture")
	snapCmd.Flags().StringP("watch", "w", "", "Folder to watch for the newest image")
	snapCmd.Flags().StringP("lang", "l", "", "Explanation language: English or Hindi (default: saved preference)")
	snapCmd.Flags().Duration("countdown", capture.CountdownInterval, "Countdown step")
}
