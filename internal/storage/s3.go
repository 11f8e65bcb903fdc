package storage

import (
	"context" // SDK calls
	"errors"  // Option validation
	"fmt"     // Error formatting
	"io"      // Upload streams
	"strings" // URL joining

	"github.com/aws/aws-sdk-go-v2/aws"         // SDK helpers
	"github.com/aws/aws-sdk-go-v2/config"      // Shared config loading
	"github.com/aws/aws-sdk-go-v2/credentials" // Static credentials
	"github.com/aws/aws-sdk-go-v2/service/s3"  // S3 client
)

// S3Options configures an S3-compatible bucket
type S3Options struct {
	Endpoint     string // Custom endpoint (MinIO, R2...), empty for AWS
	Region       string // Bucket region
	Bucket       string // Bucket name
	AccessKey    string // Static access key, empty to use the default chain
	SecretKey    string // Static secret key
	UsePathStyle bool   // Path-style addressing
	PublicURL    string // Public prefix of objects, defaults to the endpoint
}

// ObjectAPI is the subset of *s3.Client used by S3Store
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store keeps photos in an S3 bucket
type S3Store struct {
	client    ObjectAPI
	bucket    string
	publicURL string
}

// NewS3Store loads the AWS config and builds the client
func NewS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	if opts.Bucket == "" {
		return nil, errors.New("S3_BUCKET_NAME not set")
	}
	loaders := []func(*config.LoadOptions) error{config.WithRegion(opts.Region)}
	if opts.AccessKey != "" {
		loaders = append(loaders, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.UsePathStyle
	})
	return NewS3StoreWithClient(client, opts), nil
}

// NewS3StoreWithClient wraps an existing client
func NewS3StoreWithClient(client ObjectAPI, opts S3Options) *S3Store {
	public := opts.PublicURL
	if public == "" {
		switch {
		case opts.Endpoint != "":
			public = strings.TrimRight(opts.Endpoint, "/") + "/" + opts.Bucket
		default:
			public = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", opts.Bucket, opts.Region)
		}
	}
	return &S3Store{client: client, bucket: opts.Bucket, publicURL: strings.TrimRight(public, "/")}
}

// Save uploads r as bucket/key
func (s *S3Store) Save(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return s.publicURL + "/" + key, nil
}

// Delete removes bucket/key
func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}
