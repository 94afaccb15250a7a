package command_test

import (
	"context"
	"fmt"
	"github.com/cirruslabs/hashmap/internal/command"
	"github.com/cirruslabs/hashmap/internal/logginglevel"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"os"
	"path/filepath"
	"testing"
)

func TestLogLevelFlag(t *testing.T) {
	resetLogLevel(t)

	cmd := command.NewRootCommand()
	cmd.SetArgs([]string{"--log-level", "warn", "run", "--file", filepath.Join(t.TempDir(), "missing.yml")})

	// The level is applied before the subcommand gets to fail
	require.Error(t, cmd.Execute())
	require.Equal(t, zapcore.WarnLevel, logginglevel.Level.Level())
}

func TestLogLevelFlagInvalid(t *testing.T) {
	resetLogLevel(t)

	cmd := command.NewRootCommand()
	cmd.SetArgs([]string{"--log-level", "verbose", "run"})

	require.ErrorContains(t, cmd.Execute(), "invalid log level")
	require.Equal(t, zapcore.InfoLevel, logginglevel.Level.Level())
}

func TestLogLevelConfigurationFile(t *testing.T) {
	resetLogLevel(t)

	configPath := writeConfig(t, "error")

	require.NoError(t, executeStopped(t, "run", "--file", configPath))
	require.Equal(t, zapcore.ErrorLevel, logginglevel.Level.Level())
}

func TestLogLevelFlagsOverrideConfigurationFile(t *testing.T) {
	resetLogLevel(t)

	configPath := writeConfig(t, "error")

	require.NoError(t, executeStopped(t, "--debug", "run", "--file", configPath))
	require.Equal(t, zapcore.DebugLevel, logginglevel.Level.Level())

	require.NoError(t, executeStopped(t, "--log-level", "warn", "run", "--file", configPath))
	require.Equal(t, zapcore.WarnLevel, logginglevel.Level.Level())
}

// executeStopped runs the command with an already canceled context,
// so that the server shuts down right after starting
func executeStopped(t *testing.T, args ...string) error {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cmd := command.NewRootCommand()
	cmd.SetArgs(args)

	return cmd.ExecuteContext(ctx)
}

func writeConfig(t *testing.T, logLevel string) string {
	t.Helper()

	dir := t.TempDir()
	configPath := filepath.Join(dir, "hashmap.yml")

	configBytes := fmt.Sprintf("addr: 127.0.0.1:0\nlog-level: %s\nbolt:\n  path: %s\n",
		logLevel, filepath.Join(dir, "hashmap.db"))

	require.NoError(t, os.WriteFile(configPath, []byte(configBytes), 0600))

	return configPath
}

func resetLogLevel(t *testing.T) {
	t.Helper()

	logginglevel.Level.SetLevel(zapcore.InfoLevel)

	t.Cleanup(func() {
		logginglevel.Level.SetLevel(zapcore.InfoLevel)
	})
}
