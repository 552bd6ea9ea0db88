package media

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	appcfg "github.com/schoolboard/core/internal/config"
)

// s3Store uploads media objects to an S3-compatible bucket.
type s3Store struct {
	client *s3.Client
	opts   appcfg.S3Options
}

func newS3Store(opts appcfg.S3Options) *s3Store {
	cfg := aws.Config{
		Region: opts.Region,
		Credentials: credentials.NewStaticCredentialsProvider(
			opts.AccessKeyID, opts.SecretAccessKey, ""),
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(strings.TrimRight(opts.Endpoint, "/"))
		}
		o.UsePathStyle = opts.PathStyleAccess
	})
	return &s3Store{client: client, opts: opts}
}

// Put uploads one object and returns its public URL.
func (s *s3Store) Put(ctx context.Context, key string, payload []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.opts.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload failed: %w", err)
	}
	return s.publicURL(key), nil
}

func (s *s3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(key),
	})
	return err
}

func (s *s3Store) publicURL(key string) string {
	if domain := strings.TrimRight(strings.TrimSpace(s.opts.CustomDomain), "/"); domain != "" {
		return domain + "/" + key
	}
	if endpoint := strings.TrimRight(strings.TrimSpace(s.opts.Endpoint), "/"); endpoint != "" {
		if s.opts.PathStyleAccess {
			return fmt.Sprintf("%s/%s/%s", endpoint, s.opts.Bucket, key)
		}
		scheme, host, ok := strings.Cut(endpoint, "://")
		if ok {
			return fmt.Sprintf("%s://%s.%s/%s", scheme, s.opts.Bucket, host, key)
		}
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.opts.Bucket, s.opts.Region, key)
}
