package blob

import (
	"bytes"
	"context"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	perr "reviewflow/internal/platform/errors"
)

// S3Options configures the S3 backed store
type S3Options struct {
	Region string

	// BucketPrefix is prepended to container names to form bucket names,
	// e.g. prefix "reviewflow-" maps container "raw" to bucket "reviewflow-raw"
	BucketPrefix string
}

// s3API is the narrow client surface the store needs
// satisfied by *s3.S3, faked in tests
type s3API interface {
	PutObjectWithContext(aws.Context, *s3.PutObjectInput, ...request.Option) (*s3.PutObjectOutput, error)
	GetObjectWithContext(aws.Context, *s3.GetObjectInput, ...request.Option) (*s3.GetObjectOutput, error)
	ListObjectsV2PagesWithContext(aws.Context, *s3.ListObjectsV2Input, func(*s3.ListObjectsV2Output, bool) bool, ...request.Option) error
}

// S3 implements Store over AWS S3 with one bucket per container
type S3 struct {
	client s3API
	prefix string
}

// NewS3 dials S3 in the configured region
func NewS3(opt S3Options) (*S3, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(opt.Region)})
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "s3 session for region %q", opt.Region)
	}
	return &S3{client: s3.New(sess), prefix: opt.BucketPrefix}, nil
}

func (s *S3) bucket(container string) *string {
	return aws.String(s.prefix + container)
}

// Put uploads data under (container, key)
func (s *S3) Put(ctx context.Context, container, key string, data []byte) error {
	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket: s.bucket(container),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "put s3://%s%s/%s", s.prefix, container, key)
	}
	return nil
}

// Get downloads the object, mapping missing keys to ErrNotFound
func (s *S3) Get(ctx context.Context, container, key string) ([]byte, error) {
	out, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: s.bucket(container),
		Key:    aws.String(key),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok {
			switch aerr.Code() {
			case s3.ErrCodeNoSuchKey, s3.ErrCodeNoSuchBucket, "NotFound":
				return nil, ErrNotFound
			}
		}
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "get s3://%s%s/%s", s.prefix, container, key)
	}
	defer func() { _ = out.Body.Close() }()
	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "read s3://%s%s/%s", s.prefix, container, key)
	}
	return data, nil
}

// List pages through the container and returns matching keys
func (s *S3) List(ctx context.Context, container, prefix string) ([]string, error) {
	var keys []string
	err := s.client.ListObjectsV2PagesWithContext(ctx, &s3.ListObjectsV2Input{
		Bucket: s.bucket(container),
		Prefix: aws.String(prefix),
	}, func(page *s3.ListObjectsV2Output, _ bool) bool {
		for _, obj := range page.Contents {
			keys = append(keys, aws.StringValue(obj.Key))
		}
		return true
	})
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "list s3://%s%s/%s", s.prefix, container, prefix)
	}
	return keys, nil
}
