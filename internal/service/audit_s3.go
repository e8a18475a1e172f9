package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/bigidrise/mealguard/internal/models"
)

// S3AuditArchiver mirrors audit rows into an S3 bucket as one JSON
// object per entry, keyed by user and entry ID. Intended as a secondary
// sink behind TeeAuditSink; S3 failures never block a safety decision.
type S3AuditArchiver struct {
	client *s3.Client
	bucket string
	prefix string
}

var _ AuditSink = (*S3AuditArchiver)(nil)

func NewS3AuditArchiver(client *s3.Client, bucket, prefix string) *S3AuditArchiver {
	if prefix == "" {
		prefix = "safety-audit"
	}
	return &S3AuditArchiver{client: client, bucket: bucket, prefix: prefix}
}

func (s *S3AuditArchiver) Append(ctx context.Context, entry *models.SafetyAuditLog) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal audit entry: %w", err)
	}

	key := fmt.Sprintf("%s/%s/%s.json", s.prefix, entry.UserID, entry.ID)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to archive audit entry to s3: %w", err)
	}
	return nil
}
