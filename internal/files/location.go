// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package files

import (
	"context"
	"os"

	"github.com/staranto/stargazers/internal/aws"
)

// Option customizes Load and Save.
type Option func(*options)

type options struct {
	objects aws.ObjectAPI
	awsOpts []aws.Option
}

// WithObjectAPI supplies the S3 client used for s3:// locations. Without it a
// client is built from the shell's AWS environment on first use.
func WithObjectAPI(api aws.ObjectAPI) Option {
	return func(o *options) { o.objects = api }
}

// WithAWS passes options through to aws.NewS3.
func WithAWS(opts ...aws.Option) Option {
	return func(o *options) { o.awsOpts = append(o.awsOpts, opts...) }
}

// Load reads location, which is a local path or an s3://bucket/key URL.
func Load(ctx context.Context, location string, opts ...Option) ([]byte, error) {
	if !aws.IsS3(location) {
		return os.ReadFile(location)
	}

	bucket, key, err := aws.ParseS3URL(location)
	if err != nil {
		return nil, err
	}
	api, err := resolve(ctx, opts)
	if err != nil {
		return nil, err
	}
	return aws.GetObject(ctx, api, bucket, key)
}

// Save writes data to location, which is a local path or an s3://bucket/key
// URL.
func Save(ctx context.Context, location string, data []byte, opts ...Option) error {
	if !aws.IsS3(location) {
		return os.WriteFile(location, data, FileMode)
	}

	bucket, key, err := aws.ParseS3URL(location)
	if err != nil {
		return err
	}
	api, err := resolve(ctx, opts)
	if err != nil {
		return err
	}
	return aws.PutObject(ctx, api, bucket, key, data)
}

func resolve(ctx context.Context, opts []Option) (aws.ObjectAPI, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.objects != nil {
		return o.objects, nil
	}
	return aws.DefaultObjectAPI(ctx, o.awsOpts...)
}
