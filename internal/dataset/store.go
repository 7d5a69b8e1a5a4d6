package dataset

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/genomepuzzle/site/internal/config"
)

// Store is the object storage a dataset is published to.
type Store interface {
	// Exists reports whether key is already present.
	Exists(ctx context.Context, key string) (bool, error)
	// Upload copies the local file at path to key.
	Upload(ctx context.Context, key, path string) error
}

// S3Store is a Store backed by an S3-compatible bucket such as Cloudflare R2.
type S3Store struct {
	client *s3.Client
	bucket string
}

// NewS3Store builds a client for the bucket using static credentials and
// the bucket's endpoint. R2 takes the "auto" region and path-style addressing.
// optFns run after those defaults.
func NewS3Store(ctx context.Context, b *config.Bucket, optFns ...func(*s3.Options)) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(b.AccessKeyID, b.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load s3 config: %w", err)
	}

	opts := append([]func(*s3.Options){func(o *s3.Options) {
		o.BaseEndpoint = aws.String(b.EndpointURL)
		o.UsePathStyle = true
	}}, optFns...)
	client := s3.NewFromConfig(cfg, opts...)

	return &S3Store{client: client, bucket: b.Name}, nil
}

// Exists issues a HEAD for key.
func (s *S3Store) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return true, nil
	}
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return false, nil
	}
	return false, fmt.Errorf("head %s: %w", key, err)
}

// Upload streams the file at path to key.
func (s *S3Store) Upload(ctx context.Context, key, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(info.Size()),
	}
	if ct := mime.TypeByExtension(filepath.Ext(key)); ct != "" {
		input.ContentType = aws.String(ct)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}
