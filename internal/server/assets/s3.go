package assets

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

type putObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config describes an S3 compatible bucket (AWS or MinIO).
type S3Config struct {
	Region       string
	AccessKey    string
	SecretKey    string
	BaseEndpoint string
	Bucket       string
	// PublicBaseURL is the origin images are served from. Empty means
	// BaseEndpoint, which works for a public-read MinIO bucket.
	PublicBaseURL string
}

type S3Store struct {
	client putObjectAPI
	bucket string
	public string
	now    func() time.Time
}

// NewS3Store builds the client with static credentials and path-style
// addressing.
func NewS3Store(ctx context.Context, c S3Config) (*S3Store, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(c.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, "")))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if c.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(c.BaseEndpoint)
		}
		o.UsePathStyle = true
	})

	public := c.PublicBaseURL
	if public == "" {
		public = c.BaseEndpoint
	}
	return newS3Store(client, c.Bucket, public), nil
}

func newS3Store(client putObjectAPI, bucket, public string) *S3Store {
	return &S3Store{client: client, bucket: bucket, public: public, now: time.Now}
}

func (s *S3Store) Upload(ctx context.Context, name string, body io.Reader, size int64, contentType string) (string, error) {
	key := ObjectKey(name, s.now())

	// The SDK needs a seekable body to sign the payload over plain HTTP.
	if _, ok := body.(io.ReadSeeker); !ok {
		b, err := io.ReadAll(body)
		if err != nil {
			return "", fmt.Errorf("failed to read upload: %w", err)
		}
		body = bytes.NewReader(b)
		size = int64(len(b))
	}

	in := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if size > 0 {
		in.ContentLength = aws.Int64(size)
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("failed to put object %s: %w", key, err)
	}

	u, err := url.JoinPath(s.public, s.bucket, key)
	if err != nil {
		return "", fmt.Errorf("failed to build public url: %w", err)
	}
	return u, nil
}
