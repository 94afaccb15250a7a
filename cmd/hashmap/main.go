package main

import (
	"context"
	"github.com/cirruslabs/hashmap/internal/command"
	"github.com/cirruslabs/hashmap/internal/logginglevel"
	"go.uber.org/zap"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	// Set up signal interruptible context
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Initialize logger
	loggerConfig := zap.NewProductionConfig()
	loggerConfig.Level = logginglevel.Level

	logger, err := loggerConfig.Build()
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	zap.ReplaceGlobals(logger)

	// Run the command
	if err := command.NewRootCommand().ExecuteContext(ctx); err != nil {
		cancel()

		//nolint:gocritic // cancel() is called above since Fatal() skips the deferred calls
		logger.Sugar().Fatal(err)
	}
}
