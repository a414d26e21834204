// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package aws

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/apex/log"
	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Scheme prefixes object locations.
const S3Scheme = "s3://"

// ErrBadLocation is returned for an s3:// location without a bucket or key.
var ErrBadLocation = errors.New("aws: malformed s3 location")

// ObjectAPI is the subset of *s3.Client used for object I/O.
type ObjectAPI interface {
	GetObject(ctx context.Context, in *s3v2.GetObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3v2.PutObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.PutObjectOutput, error)
}

// IsS3 reports whether location uses the s3:// scheme.
func IsS3(location string) bool {
	return strings.HasPrefix(location, S3Scheme)
}

// ParseS3URL splits s3://bucket/key into its parts.
func ParseS3URL(location string) (bucket, key string, err error) {
	if !IsS3(location) {
		return "", "", fmt.Errorf("%w: %q", ErrBadLocation, location)
	}
	bucket, key, _ = strings.Cut(strings.TrimPrefix(location, S3Scheme), "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("%w: %q", ErrBadLocation, location)
	}
	return bucket, key, nil
}

// GetObject reads the whole object body.
func GetObject(ctx context.Context, api ObjectAPI, bucket, key string) ([]byte, error) {
	log.Debugf("s3 get: bucket=%s key=%s", bucket, key)
	out, err := api.GetObject(ctx, &s3v2.GetObjectInput{
		Bucket: awsv2.String(bucket),
		Key:    awsv2.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get s3://%s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read s3://%s/%s: %w", bucket, key, err)
	}
	return data, nil
}

// PutObject writes data as the object body, replacing any existing object.
func PutObject(ctx context.Context, api ObjectAPI, bucket, key string, data []byte) error {
	log.Debugf("s3 put: bucket=%s key=%s size=%d", bucket, key, len(data))
	_, err := api.PutObject(ctx, &s3v2.PutObjectInput{
		Bucket:        awsv2.String(bucket),
		Key:           awsv2.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: awsv2.Int64(int64(len(data))),
	})
	if err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", bucket, key, err)
	}
	return nil
}

// DefaultObjectAPI builds an S3 client from the shell's AWS environment.
func DefaultObjectAPI(ctx context.Context, opts ...Option) (ObjectAPI, error) {
	client, err := NewS3(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return client, nil
}
