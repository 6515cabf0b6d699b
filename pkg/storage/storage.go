package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Uploader stores a file and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, data []byte, contentType, key string) (string, error)
}

// s3API is the slice of the S3 client the uploader needs.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader uploads objects to an S3 bucket, degrading to the local
// filesystem when the bucket is unreachable. The fallback is disabled on
// read-only deployment targets via config.
type S3Uploader struct {
	client        s3API
	bucket        string
	publicBaseURL string
	localFallback bool
	localDir      string
	localBaseURL  string
}

// Options configures an S3Uploader.
type Options struct {
	Bucket        string
	PublicBaseURL string
	LocalFallback bool
	LocalDir      string
	LocalBaseURL  string
}

// NewS3Uploader builds an uploader from the ambient AWS configuration.
func NewS3Uploader(ctx context.Context, opts Options) (*S3Uploader, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &S3Uploader{
		client:        s3.NewFromConfig(cfg),
		bucket:        opts.Bucket,
		publicBaseURL: strings.TrimRight(opts.PublicBaseURL, "/"),
		localFallback: opts.LocalFallback,
		localDir:      opts.LocalDir,
		localBaseURL:  strings.TrimRight(opts.LocalBaseURL, "/"),
	}, nil
}

// Upload stores data under key and returns the public URL.
func (u *S3Uploader) Upload(ctx context.Context, data []byte, contentType, key string) (string, error) {
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		Body:        bytes.NewReader(data),
	})
	if err == nil {
		return u.publicBaseURL + "/" + key, nil
	}

	if !u.localFallback {
		return "", fmt.Errorf("s3 put object: %w", err)
	}
	return u.uploadLocal(data, key)
}

func (u *S3Uploader) uploadLocal(data []byte, key string) (string, error) {
	if u.localDir == "" {
		return "", errors.New("local storage dir not configured")
	}
	path := filepath.Join(u.localDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("local storage mkdir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("local storage write: %w", err)
	}
	return u.localBaseURL + "/" + key, nil
}
