// Package s3 provides a core.Uploader backed by an S3-compatible object
// store. Each checkpoint becomes one PutObject call carrying the whole
// payload, so the remote side never sees a partial artifact. Works against
// AWS S3 as well as path-style endpoints like MinIO.
//
// Authentication note: the AWS SDK resolves its own signing credentials
// (shared config, environment, instance roles). The opaque credential a
// saver passes per upload is accepted for interface compatibility but
// ignored here.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/hupe1980/modelkeep/core"
)

// s3API is the narrow slice of *s3.Client the uploader needs. Kept small so
// tests can fake it without a network.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
}

var _ s3API = (*s3.Client)(nil)

// Options configures the S3 uploader.
type Options struct {
	// Prefix is joined in front of every destination name, e.g.
	// "runs/2026-08-25" turns "model-0.pkl" into "runs/2026-08-25/model-0.pkl".
	Prefix string

	// Region overrides the region resolved from the environment.
	Region string

	// Endpoint points the client at a custom S3 endpoint (MinIO, localstack).
	Endpoint string

	// UsePathStyle forces path-style addressing, required by most
	// self-hosted endpoints.
	UsePathStyle bool

	// AutoCreateBucket creates the bucket on first upload when it does not
	// exist yet. Default false: a missing bucket fails the upload with
	// core.ErrContainerNotFound in the error chain.
	AutoCreateBucket bool
}

// Uploader implements core.Uploader on top of PutObject. The returned URL
// uses the s3://bucket/key form.
type Uploader struct {
	bucket string
	opts   Options
	api    s3API
}

// New builds an uploader targeting the given bucket, loading the default AWS
// configuration chain for credentials and region.
func New(ctx context.Context, bucket string, optFns ...func(o *Options)) (*Uploader, error) {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}

	if bucket == "" {
		return nil, core.NewConfigError("bucket", "bucket must not be empty")
	}

	var loadOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, core.NewConfigError("aws", err.Error())
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.UsePathStyle
	})

	return &Uploader{bucket: bucket, opts: opts, api: client}, nil
}

// Upload puts the payload under the prefixed destination key. A missing
// bucket either fails with core.ErrContainerNotFound in the chain or, with
// AutoCreateBucket, is created followed by a single retry of the put.
func (u *Uploader) Upload(ctx context.Context, payload []byte, dest string, _ core.Credential) (core.UploadResult, error) {
	key := u.key(dest)

	err := u.put(ctx, key, payload)
	if err == nil {
		return core.UploadResult{URL: fmt.Sprintf("s3://%s/%s", u.bucket, key)}, nil
	}
	if !isNoSuchBucket(err) {
		return core.UploadResult{}, core.NewUploadError(dest, fmt.Errorf("put object: %w", err))
	}

	if !u.opts.AutoCreateBucket {
		return core.UploadResult{}, core.NewUploadError(dest, fmt.Errorf("bucket %q: %w", u.bucket, core.ErrContainerNotFound))
	}
	if err := u.createBucket(ctx); err != nil {
		return core.UploadResult{}, core.NewUploadError(dest, err)
	}
	if err := u.put(ctx, key, payload); err != nil {
		return core.UploadResult{}, core.NewUploadError(dest, fmt.Errorf("put object after bucket create: %w", err))
	}

	return core.UploadResult{URL: fmt.Sprintf("s3://%s/%s", u.bucket, key)}, nil
}

func (u *Uploader) put(ctx context.Context, key string, payload []byte) error {
	_, err := u.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(payload),
		ContentLength: aws.Int64(int64(len(payload))),
	})
	return err
}

func (u *Uploader) createBucket(ctx context.Context) error {
	_, err := u.api.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(u.bucket),
	})
	if err == nil {
		return nil
	}

	// Racing creators are fine as long as we end up owning the bucket.
	var owned *types.BucketAlreadyOwnedByYou
	if errors.As(err, &owned) {
		return nil
	}
	return fmt.Errorf("create bucket %q: %w", u.bucket, err)
}

func (u *Uploader) key(dest string) string {
	if u.opts.Prefix == "" {
		return dest
	}
	return path.Join(u.opts.Prefix, dest)
}

func isNoSuchBucket(err error) bool {
	var nsb *types.NoSuchBucket
	if errors.As(err, &nsb) {
		return true
	}
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchBucket"
}
