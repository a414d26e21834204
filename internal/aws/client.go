// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package aws

import (
	"context"
	"os"

	"github.com/apex/log"
	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
)

// EnvEndpoint points S3 at another endpoint, e.g. a local MinIO.
const EnvEndpoint = "SG_S3_ENDPOINT"

type options struct {
	profile     string
	region      string
	endpoint    string
	maxAttempts int
}

// Option customizes how AWS config is loaded.
// Default behavior (no options) inherits the shell environment and shared
// config chain (AWS_PROFILE, ~/.aws/config, ~/.aws/credentials, IMDS, etc.).
type Option func(*options)

// WithProfile sets the shared config profile. Defaults to AWS_PROFILE/env chain.
func WithProfile(profile string) Option {
	return func(o *options) { o.profile = profile }
}

// WithRegion sets the region override. Defaults to env/profile/metadata chain.
func WithRegion(region string) Option {
	return func(o *options) { o.region = region }
}

// WithEndpoint sends S3 requests to url using path-style addressing. It
// overrides SG_S3_ENDPOINT.
func WithEndpoint(url string) Option {
	return func(o *options) { o.endpoint = url }
}

// WithMaxAttempts caps the SDK's own retries per request.
func WithMaxAttempts(n int) Option {
	return func(o *options) { o.maxAttempts = n }
}

func collect(opts []Option) options {
	o := options{endpoint: os.Getenv(EnvEndpoint)}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// LoadAWSConfig loads AWS SDK v2 config. By default it inherits the shell's
// AWS setup (AWS_PROFILE, shared config, env, IMDS).
func LoadAWSConfig(ctx context.Context, opts ...Option) (awsv2.Config, error) {
	return loadConfig(ctx, collect(opts))
}

func loadConfig(ctx context.Context, o options) (awsv2.Config, error) {
	var loadOpts []func(*config.LoadOptions) error
	if o.profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(o.profile))
	}
	if o.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(o.region))
	}
	if o.maxAttempts > 0 {
		loadOpts = append(loadOpts, config.WithRetryMaxAttempts(o.maxAttempts))
	}

	return config.LoadDefaultConfig(ctx, loadOpts...)
}

// NewS3 loads config and builds an S3 client from it.
func NewS3(ctx context.Context, opts ...Option) (*s3v2.Client, error) {
	o := collect(opts)
	cfg, err := loadConfig(ctx, o)
	if err != nil {
		return nil, err
	}
	return s3v2.NewFromConfig(cfg, s3Options(o)...), nil
}

func s3Options(o options) []func(*s3v2.Options) {
	if o.endpoint == "" {
		return nil
	}
	log.Debugf("s3 endpoint: %s", o.endpoint)
	return []func(*s3v2.Options){
		func(so *s3v2.Options) {
			so.BaseEndpoint = awsv2.String(o.endpoint)
			so.UsePathStyle = true
		},
	}
}
