package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/clinicore/hospital-portal/internal/models"
)

// Archiver exports audit trail snapshots to an S3 bucket for long-term
// retention. Exports are additive copies; the database trail stays the
// source of truth.
type Archiver struct {
	client *s3.Client
	bucket string
}

func NewArchiver(client *s3.Client, bucket string) *Archiver {
	return &Archiver{client: client, bucket: bucket}
}

// Export uploads the given entries as one JSON object and returns the
// object key.
func (a *Archiver) Export(
	ctx context.Context,
	entries []models.AuditLog,
) (string, error) {

	body, err := json.Marshal(entries)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf(
		"audit/%s.json",
		time.Now().UTC().Format("20060102T150405Z"),
	)

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", err
	}

	return key, nil
}
