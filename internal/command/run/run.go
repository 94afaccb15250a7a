package run

import (
	"bytes"
	"fmt"
	configpkg "github.com/cirruslabs/hashmap/internal/config"
	"github.com/cirruslabs/hashmap/internal/hashmap"
	"github.com/cirruslabs/hashmap/internal/logginglevel"
	serverpkg "github.com/cirruslabs/hashmap/internal/server"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"os"
)

var configPath string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the hashmap server",
		RunE:  run,
	}

	cmd.Flags().StringVarP(&configPath, "file", "f", "",
		"configuration file path (e.g. /etc/hashmap.yml), optional when "+
			configpkg.EnvDatabaseURL+" environment variable is set")

	return cmd
}

func run(cmd *cobra.Command, _ []string) error {
	config := &configpkg.Config{}

	// Parse the configuration file, if any
	if configPath != "" {
		configBytes, err := os.ReadFile(configPath)
		if err != nil {
			return fmt.Errorf("failed to read configuration file at path %s: %w", configPath, err)
		}

		config, err = configpkg.Parse(bytes.NewReader(configBytes))
		if err != nil {
			return fmt.Errorf("failed to parse configuration file at path %s: %w", configPath, err)
		}
	}

	config.ApplyEnvironment()

	if err := config.Validate(); err != nil {
		return err
	}

	// Command-line flags take precedence over the configuration file
	if config.LogLevel != "" && !cmd.Flags().Changed("log-level") && !cmd.Flags().Changed("debug") {
		if err := logginglevel.Set(config.LogLevel); err != nil {
			return err
		}
	}

	// Connect to the store, failing fast if it's not reachable
	store, err := newStore(cmd.Context(), config)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			zap.S().Warnf("failed to close the store: %v", err)
		}
	}()

	hashMapOpts := []hashmap.Option{
		hashmap.WithLogger(zap.S()),
	}

	if config.SerializeWrites {
		hashMapOpts = append(hashMapOpts, hashmap.WithSerializedWrites())
	}

	opts := []serverpkg.Option{
		serverpkg.WithLogger(zap.S()),
	}

	if config.BodyLimit != "" {
		limitBytes, err := humanize.ParseBytes(config.BodyLimit)
		if err != nil {
			return fmt.Errorf("failed to parse body limit value %q: %w", config.BodyLimit, err)
		}

		opts = append(opts, serverpkg.WithBodyLimit(limitBytes))
	}

	server, err := serverpkg.New(config.Addr, hashmap.New(store, hashMapOpts...), opts...)
	if err != nil {
		return err
	}

	return server.Run(cmd.Context())
}
