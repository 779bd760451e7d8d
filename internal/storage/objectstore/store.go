package objectstore

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/docuflow/docuflow-backend/internal/upload"
)

// Store uploads raw documents to an S3 bucket under deterministic keys.
type Store struct {
	client *s3.Client
	bucket string
}

func New(client *s3.Client, bucket string) *Store {
	return &Store{client: client, bucket: bucket}
}

// Put writes an object under the given key.
func (s *Store) Put(ctx context.Context, key string, body io.Reader, contentType string, metadata map[string]string) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if len(metadata) > 0 {
		input.Metadata = metadata
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}

// ProposalKey builds the storage key for a proposal file:
// projects/{projectID}/{proposalID}/{role}/{filename}.
func (s *Store) ProposalKey(projectID, proposalID, filename, role string) string {
	return fmt.Sprintf("projects/%s/%s/%s/%s", projectID, proposalID, role, upload.SanitizeFilename(filename))
}

// RelayKey builds the storage key used by the streaming relay:
// unprocessed/{projectID}/{timestamp}_{sanitizedFilename}.
func (s *Store) RelayKey(projectID, filename string) string {
	return fmt.Sprintf("unprocessed/%s/%d_%s", projectID, time.Now().UnixMilli(), upload.SanitizeFilename(filename))
}

// URI returns the s3:// pointer for a key, as handed to the processing gateway.
func (s *Store) URI(key string) string {
	return fmt.Sprintf("s3://%s/%s", s.bucket, key)
}
