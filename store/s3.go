package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/amp-labs/amp-fsm/envutil"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

const stateContentType = "text/plain; charset=utf-8"

// S3Client defines the S3 operations the S3 sink uses.
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Config contains configuration for the S3 sink.
type S3Config struct {
	Bucket         string
	Region         string
	AccessKeyID    string
	SecretKey      string
	Endpoint       string // Optional: for S3-compatible services
	ForcePathStyle bool   // For S3-compatible services like MinIO
	Prefix         string // Key prefix, joined with the id by "/"
}

// S3Option configures NewS3Sink.
type S3Option func(*s3Options)

type s3Options struct {
	client        S3Client
	configOptions []func(*config.LoadOptions) error
	clientOptions []func(*s3.Options)
}

// WithS3Client sets a pre-configured client, skipping AWS config loading.
func WithS3Client(client S3Client) S3Option {
	return func(o *s3Options) {
		o.client = client
	}
}

// WithS3ConfigOption adds a custom AWS config option.
func WithS3ConfigOption(option func(*config.LoadOptions) error) S3Option {
	return func(o *s3Options) {
		o.configOptions = append(o.configOptions, option)
	}
}

// WithS3ClientOption adds a custom S3 client option.
func WithS3ClientOption(option func(*s3.Options)) S3Option {
	return func(o *s3Options) {
		o.clientOptions = append(o.clientOptions, option)
	}
}

// S3 stores each id as one object.
type S3 struct {
	client S3Client
	bucket string
	prefix string
}

// NewS3Sink creates an S3 sink. Bucket and region are required.
func NewS3Sink(ctx context.Context, cfg S3Config, opts ...S3Option) (*S3, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, fmt.Errorf("%w: bucket and region are required", ErrInvalidConfig)
	}

	options := &s3Options{}
	for _, opt := range opts {
		opt(options)
	}

	client := options.client
	if client == nil {
		awsOptions := []func(*config.LoadOptions) error{
			config.WithRegion(cfg.Region),
		}

		if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
			awsOptions = append(awsOptions,
				config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
					cfg.AccessKeyID,
					cfg.SecretKey,
					"",
				)),
			)
		}

		awsOptions = append(awsOptions, options.configOptions...)

		awsConfig, err := config.LoadDefaultConfig(ctx, awsOptions...)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFailedToLoadAWSConfig, err)
		}

		client = s3.NewFromConfig(awsConfig, func(o *s3.Options) {
			if cfg.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.Endpoint)
			}

			o.UsePathStyle = cfg.ForcePathStyle

			for _, opt := range options.clientOptions {
				opt(o)
			}
		})
	}

	return &S3{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
	}, nil
}

func (s *S3) key(id string) (string, error) {
	if id == "" {
		return "", ErrEmptyID
	}

	if s.prefix == "" {
		return id, nil
	}

	return path.Join(s.prefix, id), nil
}

func (s *S3) WriteAll(ctx context.Context, id string, data []byte) error {
	key, err := s.key(id)
	if err != nil {
		return err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(stateContentType),
	})
	if err != nil {
		return classifyS3Error(err, "put", key)
	}

	return nil
}

func (s *S3) ReadAll(ctx context.Context, id string) ([]byte, error) {
	key, err := s.key(id)
	if err != nil {
		return nil, err
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, classifyS3Error(err, "get", key)
	}

	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 get %q: reading body: %w", key, err)
	}

	return data, nil
}

// classifyS3Error maps missing keys to ErrNotFound and wraps everything else.
func classifyS3Error(err error, operation, key string) error {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		if apiErr.ErrorCode() == "NoSuchKey" || apiErr.ErrorCode() == "NotFound" {
			return fmt.Errorf("%w: %s", ErrNotFound, key)
		}

		return fmt.Errorf("s3 %s %q failed (code: %s): %w", operation, key, apiErr.ErrorCode(), err)
	}

	return fmt.Errorf("s3 %s %q: %w", operation, key, err)
}

// LoadS3ConfigFromEnv reads FSM_S3_BUCKET and FSM_S3_REGION (both required)
// plus the optional FSM_S3_ACCESS_KEY_ID, FSM_S3_SECRET_ACCESS_KEY,
// FSM_S3_ENDPOINT, FSM_S3_FORCE_PATH_STYLE and FSM_S3_PREFIX.
func LoadS3ConfigFromEnv() (S3Config, error) {
	bucket, err := envutil.String("FSM_S3_BUCKET", envutil.NonEmpty()).Value()
	if err != nil {
		return S3Config{}, err
	}

	region, err := envutil.String("FSM_S3_REGION", envutil.NonEmpty()).Value()
	if err != nil {
		return S3Config{}, err
	}

	forcePathStyle, err := envutil.Bool("FSM_S3_FORCE_PATH_STYLE", envutil.Default(false)).Value()
	if err != nil {
		return S3Config{}, err
	}

	return S3Config{
		Bucket:         bucket,
		Region:         region,
		AccessKeyID:    envutil.String("FSM_S3_ACCESS_KEY_ID").ValueOrElse(""),
		SecretKey:      envutil.String("FSM_S3_SECRET_ACCESS_KEY").ValueOrElse(""),
		Endpoint:       envutil.String("FSM_S3_ENDPOINT").ValueOrElse(""),
		ForcePathStyle: forcePathStyle,
		Prefix:         envutil.String("FSM_S3_PREFIX").ValueOrElse(""),
	}, nil
}
