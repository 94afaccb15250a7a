package command

import (
	"github.com/cirruslabs/hashmap/internal/command/run"
	"github.com/cirruslabs/hashmap/internal/logginglevel"
	"github.com/cirruslabs/hashmap/internal/version"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
)

func NewRootCommand() *cobra.Command {
	var debug bool
	var logLevel string

	cmd := &cobra.Command{
		Use:           "hashmap",
		Short:         "Key-value store with an in-memory cache in front of a durable store",
		Version:       version.FullVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			// --debug is a shorthand for --log-level=debug and wins over it
			if debug {
				logginglevel.Level.SetLevel(zapcore.DebugLevel)

				return nil
			}

			if logLevel != "" {
				return logginglevel.Set(logLevel)
			}

			return nil
		},
	}

	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error), overrides the configuration file's \"log-level\" (default \"info\")")

	cmd.AddCommand(
		run.NewCommand(),
	)

	return cmd
}
