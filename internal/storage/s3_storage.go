package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/samber/oops"
)

// Object identifies a stored blob: URL is what gets saved on the user row,
// Key is what Delete needs.
type Object struct {
	URL string
	Key string
}

type Options struct {
	Endpoint      string
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type S3Storage struct {
	client  objectAPI
	bucket  string
	baseURL string
	now     func() time.Time
}

// seams for tests
var (
	loadDefaultAWSConfig  = awsconfig.LoadDefaultConfig
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

func NewS3Storage(ctx context.Context, opts Options) (*S3Storage, error) {
	if opts.Bucket == "" || opts.Endpoint == "" {
		return nil, oops.In("storage").Errorf("bucket and endpoint are required")
	}
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(opts.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKey,
			opts.SecretKey,
			"",
		)))
	if err != nil {
		return nil, oops.In("storage").With("endpoint", opts.Endpoint).Wrapf(err, "load aws config")
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(opts.Endpoint)
		o.UsePathStyle = true
	})
	return newS3Storage(client, opts), nil
}

func newS3Storage(client objectAPI, opts Options) *S3Storage {
	baseURL := strings.TrimRight(opts.PublicBaseURL, "/")
	if baseURL == "" {
		baseURL = strings.TrimRight(opts.Endpoint, "/") + "/" + opts.Bucket
	}
	return &S3Storage{
		client:  client,
		bucket:  opts.Bucket,
		baseURL: baseURL,
		now:     time.Now,
	}
}

func (s *S3Storage) Upload(ctx context.Context, body io.Reader, size int64, folder, contentType, ext string) (Object, error) {
	key := s.objectKey(folder, ext)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return Object{}, oops.In("storage").With("bucket", s.bucket, "key", key).Wrapf(err, "put object")
	}
	return Object{URL: s.baseURL + "/" + key, Key: key}, nil
}

func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return oops.In("storage").With("bucket", s.bucket, "key", key).Wrapf(err, "delete object")
	}
	return nil
}

// KeyFromURL recovers the object key from a URL previously returned by Upload.
func (s *S3Storage) KeyFromURL(url string) (string, bool) {
	prefix := s.baseURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(url, prefix)
	if i := strings.IndexAny(key, "?#"); i >= 0 {
		key = key[:i]
	}
	if key == "" {
		return "", false
	}
	return key, true
}

func (s *S3Storage) objectKey(folder, ext string) string {
	d := s.now()
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return fmt.Sprintf("%s/%d/%02d/%02d/%v%s", strings.Trim(folder, "/"), d.Year(), d.Month(), d.Day(), uuid.New(), strings.ToLower(ext))
}
