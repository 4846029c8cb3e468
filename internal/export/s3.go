package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"

	"github.com/gosuda/kanban/internal/config"
	"github.com/gosuda/kanban/internal/domain"
)

// ObjectStore is the subset of the S3 API the archive uses. *s3.Client
// satisfies it.
type ObjectStore interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// NewS3Client builds a client for AWS or any S3-compatible service such as
// MinIO. Static credentials are used when an access key is configured,
// otherwise the default AWS credential chain applies.
func NewS3Client(ctx context.Context, cfg config.S3Config) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("export.NewS3Client: load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	}), nil
}

// Archive stores board snapshots as JSON objects under boards/<id>.json.
type Archive struct {
	client ObjectStore
	bucket string
}

func NewArchive(client ObjectStore, bucket string) *Archive {
	return &Archive{client: client, bucket: bucket}
}

// ObjectKey returns the key a board's snapshot is stored under.
func ObjectKey(boardID uuid.UUID) string {
	return "boards/" + boardID.String() + ".json"
}

// Save writes the snapshot, replacing any earlier export of the same board.
func (a *Archive) Save(ctx context.Context, snap *domain.BoardSnapshot) (string, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("export.Archive.Save: encode: %w", err)
	}

	key := ObjectKey(snap.ID)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("export.Archive.Save: put %s: %w", key, err)
	}

	return key, nil
}

// Load reads a previously saved snapshot. A missing object yields
// domain.ErrNotFound.
func (a *Archive) Load(ctx context.Context, boardID uuid.UUID) (*domain.BoardSnapshot, error) {
	key := ObjectKey(boardID)
	resp, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && (apiErr.ErrorCode() == "NoSuchKey" || apiErr.ErrorCode() == "NotFound") {
			return nil, fmt.Errorf("export.Archive.Load: %s: %w", key, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("export.Archive.Load: get %s: %w", key, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("export.Archive.Load: read: %w", err)
	}

	var snap domain.BoardSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("export.Archive.Load: decode: %w", err)
	}

	return &snap, nil
}
