// Package audiostore publishes synthesized audio to S3-compatible object
// storage (Cloudflare R2 in production) and hands back a presigned URL, so
// webhook responses carry a link instead of a base64 payload.
package audiostore

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/google/uuid"
)

// KeyPrefix is the object key prefix for synthesized clips.
const KeyPrefix = "tts"

// Config holds object storage settings.
type Config struct {
	Endpoint    string // e.g. https://<account>.r2.cloudflarestorage.com
	AccessKeyID string
	SecretKey   string
	Bucket      string
	URLTTL      time.Duration
}

// Client uploads clips and presigns download URLs.
type Client struct {
	s3      *s3.Client
	presign *s3.PresignClient
	bucket  string
	ttl     time.Duration
	now     func() time.Time
}

// New creates a storage client.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.Endpoint == "" || cfg.AccessKeyID == "" || cfg.SecretKey == "" || cfg.Bucket == "" {
		return nil, errors.New("audiostore: endpoint, credentials and bucket are required")
	}
	if cfg.URLTTL <= 0 {
		cfg.URLTTL = time.Hour
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretKey,
			"",
		)),
		config.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("audiostore: load aws config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})

	return &Client{
		s3:      s3Client,
		presign: s3.NewPresignClient(s3Client),
		bucket:  cfg.Bucket,
		ttl:     cfg.URLTTL,
		now:     time.Now,
	}, nil
}

// Upload stores body under key.
func (c *Client) Upload(ctx context.Context, key string, body io.Reader, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := c.s3.PutObject(ctx, input); err != nil {
		return fmt.Errorf("audiostore: upload %q: %w", key, err)
	}
	return nil
}

// PresignGet returns a time-limited download URL for key.
func (c *Client) PresignGet(ctx context.Context, key string) (string, error) {
	req, err := c.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(c.ttl))
	if err != nil {
		return "", fmt.Errorf("audiostore: presign %q: %w", key, err)
	}
	return req.URL, nil
}

// Publish uploads a clip under a dated random key and returns its
// presigned URL.
func (c *Client) Publish(ctx context.Context, data []byte, contentType, format string) (string, error) {
	key := ObjectKey(c.now(), uuid.New(), format)
	if err := c.Upload(ctx, key, bytes.NewReader(data), contentType); err != nil {
		return "", err
	}
	return c.PresignGet(ctx, key)
}

// ObjectKey builds "tts/2006/01/02/<id>.<format>" in UTC.
func ObjectKey(t time.Time, id uuid.UUID, format string) string {
	if format == "" {
		format = "mp3"
	}
	return fmt.Sprintf("%s/%s/%s.%s", KeyPrefix, t.UTC().Format("2006/01/02"), id, strings.TrimPrefix(format, "."))
}

// DataURI encodes a clip for inline transport.
func DataURI(format string, data []byte) string {
	if format == "" {
		format = "mp3"
	}
	return "data:audio/" + format + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// ErrorCode returns the storage API error code and HTTP status of err,
// for logging. Both are zero values when err did not come from the API.
func ErrorCode(err error) (code string, status int) {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code = apiErr.ErrorCode()
	}
	var respErr *smithyhttp.ResponseError
	if errors.As(err, &respErr) {
		status = respErr.HTTPStatusCode()
	}
	return code, status
}
