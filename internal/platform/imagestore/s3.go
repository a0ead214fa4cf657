package imagestore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/gabriel-vasile/mimetype"

	"account_backend/internal/platform/config"
	httpclient "account_backend/internal/platform/http"
)

// s3API is the subset of the S3 client used by S3Store.
type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Store keeps images as objects under prefix in an S3-compatible bucket.
type S3Store struct {
	client     s3API
	bucket     string
	prefix     string
	defaultRef string
}

// NewS3Store builds an S3 client from cfg and returns a store on cfg.S3Bucket.
// A custom endpoint (e.g. MinIO) switches the client to path-style addressing.
func NewS3Store(ctx context.Context, cfg config.Images) (*S3Store, error) {
	if cfg.S3Bucket == "" {
		return nil, errors.New("S3_BUCKET is required for the s3 image store")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithHTTPClient(httpclient.NewHTTPClient(cfg.S3Timeout)),
	}
	if cfg.S3AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})
	return newS3Store(client, cfg.S3Bucket, cfg.S3Prefix, cfg.DefaultImage), nil
}

func newS3Store(client s3API, bucket, prefix, defaultRef string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: prefix, defaultRef: defaultRef}
}

// Store uploads data under a fresh random name and returns that name.
func (s *S3Store) Store(ctx context.Context, data []byte) (string, error) {
	ref := newReference(data)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.key(ref)),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(mimetype.Detect(data).String()),
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return ref, nil
}

// Load downloads the object named by ref.
// The default reference falls back to the built-in image when the bucket has no such object.
func (s *S3Store) Load(ctx context.Context, ref string) ([]byte, error) {
	if err := validateReference(ref); err != nil {
		return nil, err
	}
	data, err := s.get(ctx, ref)
	return withDefault(ref, s.defaultRef, data, err)
}

func (s *S3Store) get(ctx context.Context, ref string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(ref)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("%w: %s", ErrImageNotFound, ref)
		}
		return nil, fmt.Errorf("get object: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read object: %w", err)
	}
	return data, nil
}

// DefaultReference returns the reference of the image shown when none is set.
func (s *S3Store) DefaultReference() string {
	return s.defaultRef
}

func (s *S3Store) key(ref string) string {
	if s.prefix == "" {
		return ref
	}
	return path.Join(s.prefix, ref)
}
