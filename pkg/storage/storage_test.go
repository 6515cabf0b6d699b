package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"
)

type s3Stub struct {
	err  error
	last *s3.PutObjectInput
}

func (s *s3Stub) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	s.last = params
	if s.err != nil {
		return nil, s.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestUpload_S3Success(t *testing.T) {
	stub := &s3Stub{}
	u := &S3Uploader{
		client:        stub,
		bucket:        "visa-center",
		publicBaseURL: "https://cdn.example.com",
	}

	url, err := u.Upload(context.Background(), []byte("data"), "application/pdf", "applications/a/b.pdf")
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example.com/applications/a/b.pdf", url)
	require.NotNil(t, stub.last)
	require.Equal(t, "visa-center", *stub.last.Bucket)
	require.Equal(t, "application/pdf", *stub.last.ContentType)
}

func TestUpload_FailureWithoutFallback(t *testing.T) {
	u := &S3Uploader{
		client:        &s3Stub{err: errors.New("bucket unreachable")},
		bucket:        "visa-center",
		publicBaseURL: "https://cdn.example.com",
	}

	_, err := u.Upload(context.Background(), []byte("data"), "image/png", "k.png")
	require.Error(t, err)
}

func TestUpload_FallsBackToLocalDisk(t *testing.T) {
	dir := t.TempDir()
	u := &S3Uploader{
		client:        &s3Stub{err: errors.New("bucket unreachable")},
		bucket:        "visa-center",
		publicBaseURL: "https://cdn.example.com",
		localFallback: true,
		localDir:      dir,
		localBaseURL:  "http://localhost:8080/media",
	}

	url, err := u.Upload(context.Background(), []byte("data"), "image/png", "profiles/u/p.png")
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080/media/profiles/u/p.png", url)

	written, err := os.ReadFile(filepath.Join(dir, "profiles", "u", "p.png"))
	require.NoError(t, err)
	require.Equal(t, []byte("data"), written)
}

func TestUpload_FallbackNeedsDir(t *testing.T) {
	u := &S3Uploader{
		client:        &s3Stub{err: errors.New("bucket unreachable")},
		localFallback: true,
	}

	_, err := u.Upload(context.Background(), []byte("data"), "image/png", "k.png")
	require.Error(t, err)
}
