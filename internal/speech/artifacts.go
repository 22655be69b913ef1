package speech

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/autolane/dealer-ai-platform/pkg/logging"
)

// Artifact is a persisted audio file reference returned to callers.
type Artifact struct {
	Provider string `json:"provider"`
	URL      string `json:"url"`
	Key      string `json:"key"`
}

// ArtifactStore persists synthesized audio bytes and returns a public URL.
type ArtifactStore interface {
	Save(ctx context.Context, key string, data []byte) (string, error)
}

// audioKey builds a timestamped object key so repeated synthesis never
// collides.
func audioKey(dealerID string) string {
	return fmt.Sprintf("audio/%s/tts_%d.mp3", dealerID, time.Now().UnixNano())
}

// S3API is the subset of the S3 client used by S3Store.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store writes audio artifacts to S3.
type S3Store struct {
	bucket    string
	publicURL string
	client    S3API
	logger    *logging.Logger
}

var _ ArtifactStore = (*S3Store)(nil)

// NewS3Store creates an S3-backed artifact store. publicURL is the base the
// bucket is served from (CDN or bucket endpoint).
func NewS3Store(client S3API, bucket, publicURL string, logger *logging.Logger) *S3Store {
	if logger == nil {
		logger = logging.Default()
	}
	return &S3Store{bucket: bucket, publicURL: publicURL, client: client, logger: logger}
}

// Save uploads the audio bytes and returns the public URL.
func (s *S3Store) Save(ctx context.Context, key string, data []byte) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("audio/mpeg"),
	})
	if err != nil {
		return "", fmt.Errorf("speech: s3 upload failed: %w", err)
	}
	return fmt.Sprintf("%s/%s", s.publicURL, key), nil
}

// LocalStore writes audio artifacts to a local directory. Used in development
// when no bucket is configured.
type LocalStore struct {
	dir       string
	publicURL string
}

var _ ArtifactStore = (*LocalStore)(nil)

// NewLocalStore creates a directory-backed artifact store.
func NewLocalStore(dir, publicURL string) *LocalStore {
	return &LocalStore{dir: dir, publicURL: publicURL}
}

// Save writes the audio bytes under the store directory.
func (s *LocalStore) Save(_ context.Context, key string, data []byte) (string, error) {
	path := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("speech: create audio dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("speech: write audio file: %w", err)
	}
	return fmt.Sprintf("%s/%s", s.publicURL, key), nil
}
