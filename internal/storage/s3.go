package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/yukikurage/team-task-api/internal/constants"
)

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	// PublicURL is the base used to build returned URLs. Defaults to
	// Endpoint/Bucket, or the virtual-hosted AWS URL when Endpoint is empty.
	PublicURL string
}

// S3Uploader stores assets in an S3-compatible bucket.
type S3Uploader struct {
	client    putObjectAPI
	bucket    string
	publicURL string
	now       func() time.Time
}

func NewS3Uploader(ctx context.Context, cfg S3Config) (*S3Uploader, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load s3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3Uploader(client, cfg), nil
}

func newS3Uploader(client putObjectAPI, cfg S3Config) *S3Uploader {
	publicURL := cfg.PublicURL
	if publicURL == "" {
		if cfg.Endpoint != "" {
			publicURL = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
		} else {
			publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
		}
	}

	return &S3Uploader{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		now:       time.Now,
	}
}

// ObjectKey builds a date-partitioned, collision-free key inside folder.
func ObjectKey(folder, contentType string, at time.Time) string {
	ext := constants.AllowedImageTypes[contentType]
	return fmt.Sprintf("%s/%d/%02d/%02d/%s%s", folder, at.Year(), at.Month(), at.Day(), uuid.New(), ext)
}

func (u *S3Uploader) Store(ctx context.Context, data []byte, folder, contentType string) (string, error) {
	key := ObjectKey(folder, contentType, u.now())

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}

	return u.publicURL + "/" + key, nil
}
