package upload

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/addahub/addahub-web/config"
)

// S3Uploader stores images in an S3-compatible bucket.
type S3Uploader struct {
	uploader *manager.Uploader
	bucket   string
	baseURL  string
}

func NewS3Uploader(ctx context.Context, cfg config.UploadConfig) (*S3Uploader, error) {
	if strings.TrimSpace(cfg.S3Bucket) == "" {
		return nil, fmt.Errorf("s3 upload: bucket is required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.S3Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint := strings.TrimSpace(cfg.S3Endpoint); endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3Uploader(client, cfg.S3Bucket, cfg.PublicBaseURL), nil
}

func newS3Uploader(client manager.UploadAPIClient, bucket, baseURL string) *S3Uploader {
	return &S3Uploader{
		uploader: manager.NewUploader(client, func(u *manager.Uploader) {
			u.PartSize = 5 * 1024 * 1024
			u.LeavePartsOnError = false
		}),
		bucket:  bucket,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

func (s *S3Uploader) Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	key := objectKey(filename)
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
		ACL:    s3types.ObjectCannedACLPublicRead,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.uploader.Upload(ctx, input); err != nil {
		return "", fmt.Errorf("s3 upload %s: %w", key, err)
	}
	return s.publicURL(key), nil
}

func (s *S3Uploader) publicURL(key string) string {
	if s.baseURL == "" {
		return key
	}
	return s.baseURL + "/" + key
}
