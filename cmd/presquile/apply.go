package main

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/simonhull/presquile"
)

// copyToClipboard is replaced in tests.
var copyToClipboard = clipboard.WriteAll

func newApplyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply <markers.csv> <audio.mp3>",
		Short: "Write chapters from an Audition marker export into a copy of an MP3 file",
		Long: `Reads a tab-separated Adobe Audition marker export and writes one ID3v2.4
chapter per marker, plus a table of contents, into <audio>_enriched.mp3.
The original audio file is left untouched.`,
		Args: cobra.ExactArgs(2),
		RunE: runApply,
	}

	// Hidden tuning flag (internal)
	cmd.Flags().String("mode", "", "Execution mode: sequential or concurrent (overrides config)")
	_ = cmd.Flags().MarkHidden("mode")

	return cmd
}

func runApply(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("mode") {
		name, _ := cmd.Flags().GetString("mode")
		if settings.Mode, err = presquile.ParseMode(name); err != nil {
			return err
		}
	}

	logger, err := newLogger(settings.LogLevel, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck // Sync on stderr fails on some terminals

	out, err := presquile.Apply(cmd.Context(), args[0], args[1],
		presquile.WithMode(settings.Mode),
		presquile.WithLogger(logger),
		presquile.WithTimeCodeLayout(settings.TimeCodeLayout),
		presquile.WithChapterEnd(settings.ChapterEnd),
		presquile.WithTextEncoding(settings.TextEncoding),
	)
	if err != nil {
		logger.Debugw("apply failed", "markers", args[0], "audio", args[1], "error", err)
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Chapters written to %s\n", out)

	if settings.CopyToClipboard {
		if err := copyToClipboard(out); err != nil {
			logger.Warnw("could not copy output path to clipboard", "error", err)
		}
	}
	return nil
}
