// Package s3util stores generated media in S3 and hands out presigned
// download links for it.
package s3util

import (
	"bytes"
	"context"
	"fmt"
	"time"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DefaultPresignExpiry is how long a presigned photo link stays valid.
const DefaultPresignExpiry = 15 * time.Minute

// generatedPrefix is the key prefix for every generated object.
const generatedPrefix = "generated"

// ObjectPutter is satisfied by *s3.Client.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// GetPresigner is satisfied by *s3.PresignClient.
type GetPresigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// GeneratedKey returns a fresh object key for generated media, grouped by day.
func GeneratedKey(now time.Time, mimeType string) string {
	ext := extensions[mimeType]
	if ext == "" {
		ext = ".bin"
	}
	return fmt.Sprintf("%s/%s/%s%s", generatedPrefix, now.UTC().Format("2006/01/02"), uuid.NewString(), ext)
}

// UploadGenerated writes data under a new generated/ key and returns the key.
func UploadGenerated(ctx context.Context, client ObjectPutter, bucket string, data []byte, mimeType string) (string, error) {
	key := GeneratedKey(time.Now(), mimeType)
	log.Debug().Str("bucket", bucket).Str("key", key).Int("bytes", len(data)).Msg("Uploading generated media to S3")

	_, err := client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: &mimeType,
		Tagging:     ProjectTagging(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload generated media to S3: %w", err)
	}

	log.Info().Str("key", key).Msg("Generated media uploaded to S3")
	return key, nil
}

// GeneratePresignedURL creates a pre-signed GET URL for an S3 object.
func GeneratePresignedURL(ctx context.Context, presignClient GetPresigner, bucket, key string, expiry time.Duration) (string, error) {
	result, err := presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket, Key: &key,
	}, func(opts *s3.PresignOptions) {
		opts.Expires = expiry
	})
	if err != nil {
		return "", fmt.Errorf("presign GetObject: %w", err)
	}
	return result.URL, nil
}

// Publisher uploads generated media and returns a presigned link to it.
type Publisher struct {
	client    ObjectPutter
	presigner GetPresigner
	bucket    string
	expiry    time.Duration
}

// NewPublisher creates a Publisher for bucket using one S3 client for both
// uploads and presigning.
func NewPublisher(client *s3.Client, bucket string) *Publisher {
	return &Publisher{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    bucket,
		expiry:    DefaultPresignExpiry,
	}
}

// Bucket returns the destination bucket name.
func (p *Publisher) Bucket() string {
	return p.bucket
}

// Publish uploads data and returns a presigned GET URL for it.
func (p *Publisher) Publish(ctx context.Context, data []byte, mimeType string) (string, error) {
	key, err := UploadGenerated(ctx, p.client, p.bucket, data, mimeType)
	if err != nil {
		return "", err
	}
	return GeneratePresignedURL(ctx, p.presigner, p.bucket, key, p.expiry)
}
