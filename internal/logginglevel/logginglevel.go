package logginglevel

import (
	"fmt"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

//nolint:gochecknoglobals // the level is shared between the logger, the flags and the configuration file
var Level = zap.NewAtomicLevelAt(zap.InfoLevel)

// Set changes the level by its name (e.g. "debug", "warn").
func Set(name string) error {
	level, err := zapcore.ParseLevel(name)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", name, err)
	}

	Level.SetLevel(level)

	return nil
}
