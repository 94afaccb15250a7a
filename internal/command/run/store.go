package run

import (
	"context"
	configpkg "github.com/cirruslabs/hashmap/internal/config"
	storepkg "github.com/cirruslabs/hashmap/internal/store"
	"github.com/cirruslabs/hashmap/internal/store/bolt"
	"github.com/cirruslabs/hashmap/internal/store/postgres"
	"github.com/cirruslabs/hashmap/internal/store/s3"
	"go.uber.org/zap"
)

func newStore(ctx context.Context, config *configpkg.Config) (storepkg.Store, error) {
	switch {
	case config.Postgres != nil:
		zap.S().Infof("using PostgreSQL store")

		store, err := postgres.New(ctx, &postgres.Config{
			URL:              config.Postgres.URL,
			MaxConns:         config.Postgres.MaxConns,
			ConnectTimeout:   config.Postgres.ConnectTimeout,
			OperationTimeout: config.Postgres.OperationTimeout,
		})
		if err != nil {
			return nil, err
		}

		if config.Postgres.CreateTable {
			if err := store.CreateTable(ctx); err != nil {
				_ = store.Close()

				return nil, err
			}
		}

		return store, nil
	case config.Bolt != nil:
		zap.S().Infof("using Bolt store at path %s", config.Bolt.Path)

		return bolt.New(config.Bolt.Path, config.Bolt.Timeout)
	default:
		zap.S().Infof("using S3 store with bucket %s", config.S3.Bucket)

		// Fall back to the AWS SDK's own configuration
		// discovery when no custom endpoint is provided
		if config.S3.Endpoint == "" {
			return s3.New(ctx, config.S3.Bucket)
		}

		return s3.NewFromConfig(ctx, &s3.Config{
			Endpoint:        config.S3.Endpoint,
			Region:          config.S3.Region,
			AccessKeyID:     config.S3.AccessKeyID,
			AccessKeySecret: config.S3.AccessKeySecret,
			Bucket:          config.S3.Bucket,
		})
	}
}
