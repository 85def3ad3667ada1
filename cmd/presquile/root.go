package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/simonhull/presquile/internal/config"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "presquile",
		Short:        "Write chapter markers into MP3 files",
		SilenceUsage: true,
	}
	root.SilenceErrors = true

	root.PersistentFlags().String("config", config.DefaultPath, "Config file (YAML); ignored if missing")

	root.AddCommand(
		newApplyCommand(),
		newInspectCommand(),
		newVersionCommand(),
	)
	return root
}

// loadSettings reads the file named by --config plus environment overrides.
func loadSettings(cmd *cobra.Command) (config.Settings, error) {
	path, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(path)
	if err != nil {
		return config.Settings{}, err
	}
	return cfg.Settings()
}

// newLogger builds a production logger writing JSON lines to w at level.
func newLogger(level zapcore.Level, w io.Writer) (*zap.SugaredLogger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := cfg.Build(zap.WrapCore(func(zapcore.Core) zapcore.Core {
		return zapcore.NewCore(zapcore.NewJSONEncoder(cfg.EncoderConfig), zapcore.AddSync(w), cfg.Level)
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.Sugar(), nil
}
