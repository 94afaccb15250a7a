package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	s3pkg "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/cirruslabs/hashmap/internal/store"
	"io"
	"net/url"
)

type S3 struct {
	client *s3pkg.Client
	bucket string
}

type Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
}

func New(ctx context.Context, bucket string) (*S3, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}

	return &S3{
		client: s3pkg.NewFromConfig(cfg),
		bucket: bucket,
	}, nil
}

// NewFromConfig talks to an S3-compatible endpoint and creates the bucket if needed.
func NewFromConfig(ctx context.Context, config *Config) (*S3, error) {
	awsConfig := aws.Config{
		Region: config.Region,
	}

	if config.AccessKeyID != "" {
		awsConfig.Credentials = credentials.NewStaticCredentialsProvider(
			config.AccessKeyID,
			config.AccessKeySecret,
			"",
		)
	}

	s3EndpointURL, err := url.Parse(config.Endpoint)
	if err != nil {
		return nil, err
	}

	client := s3pkg.NewFromConfig(awsConfig, func(options *s3pkg.Options) {
		options.EndpointResolverV2 = &s3EndpointResolver{url: s3EndpointURL}
		options.UsePathStyle = true
	})

	_, err = client.CreateBucket(ctx, &s3pkg.CreateBucketInput{
		Bucket: aws.String(config.Bucket),
	})
	if err != nil {
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		var alreadyExists *types.BucketAlreadyExists

		if !errors.As(err, &alreadyOwned) && !errors.As(err, &alreadyExists) {
			return nil, fmt.Errorf("failed to create bucket %q: %w", config.Bucket, err)
		}
	}

	return &S3{
		client: client,
		bucket: config.Bucket,
	}, nil
}

func (s3 *S3) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := s3.client.GetObject(ctx, &s3pkg.GetObjectInput{
		Bucket: aws.String(s3.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, convertErr(err)
	}
	defer result.Body.Close()

	value, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object for key %q: %w", key, err)
	}

	return value, nil
}

func (s3 *S3) Set(ctx context.Context, key string, value []byte) error {
	_, err := s3.client.PutObject(ctx, &s3pkg.PutObjectInput{
		Bucket:        aws.String(s3.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(value),
		ContentLength: aws.Int64(int64(len(value))),
	})
	if err != nil {
		return fmt.Errorf("failed to put object for key %q: %w", key, err)
	}

	return nil
}

func (s3 *S3) Update(ctx context.Context, key string, value []byte) error {
	// Objects can't be updated in-place, so only overwrite existing ones
	_, err := s3.client.HeadObject(ctx, &s3pkg.HeadObjectInput{
		Bucket: aws.String(s3.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if errors.Is(convertErr(err), store.ErrNotFound) {
			return nil
		}

		return fmt.Errorf("failed to stat object for key %q: %w", key, err)
	}

	return s3.Set(ctx, key, value)
}

func (s3 *S3) Delete(ctx context.Context, key string) error {
	_, err := s3.client.DeleteObject(ctx, &s3pkg.DeleteObjectInput{
		Bucket: aws.String(s3.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if errors.Is(convertErr(err), store.ErrNotFound) {
			return nil
		}

		return fmt.Errorf("failed to delete object for key %q: %w", key, err)
	}

	return nil
}

func (s3 *S3) Close() error {
	return nil
}

func convertErr(err error) error {
	var notFound *types.NotFound
	var noSuchKey *types.NoSuchKey

	if errors.As(err, &notFound) || errors.As(err, &noSuchKey) {
		return store.ErrNotFound
	}

	return err
}
