// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package aws

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjects struct {
	store map[string][]byte
	err   error
}

func (f *fakeObjects) GetObject(_ context.Context, in *s3v2.GetObjectInput, _ ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, ok := f.store[awsv2.ToString(in.Bucket)+"/"+awsv2.ToString(in.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3v2.GetObjectOutput{Body: io.NopCloser(strings.NewReader(string(data)))}, nil
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3v2.PutObjectInput, _ ...func(*s3v2.Options)) (*s3v2.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.store[awsv2.ToString(in.Bucket)+"/"+awsv2.ToString(in.Key)] = data
	return &s3v2.PutObjectOutput{}, nil
}

func TestParseS3URL(t *testing.T) {
	tests := []struct {
		name       string
		location   string
		wantBucket string
		wantKey    string
		wantErr    bool
	}{
		{name: "simple", location: "s3://bucket/key.json", wantBucket: "bucket", wantKey: "key.json"},
		{name: "nested key", location: "s3://bucket/a/b/c.json", wantBucket: "bucket", wantKey: "a/b/c.json"},
		{name: "no key", location: "s3://bucket", wantErr: true},
		{name: "trailing slash", location: "s3://bucket/", wantErr: true},
		{name: "no bucket", location: "s3:///key", wantErr: true},
		{name: "local path", location: "/tmp/key.json", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bucket, key, err := ParseS3URL(tt.location)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrBadLocation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBucket, bucket)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}

func TestIsS3(t *testing.T) {
	assert.True(t, IsS3("s3://b/k"))
	assert.False(t, IsS3("S3://b/k"))
	assert.False(t, IsS3("file.json"))
}

func TestObjectRoundTrip(t *testing.T) {
	api := &fakeObjects{store: map[string][]byte{}}
	ctx := context.Background()

	require.NoError(t, PutObject(ctx, api, "b", "dir/k", []byte("payload")))
	assert.Equal(t, []byte("payload"), api.store["b/dir/k"])

	got, err := GetObject(ctx, api, "b", "dir/k")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), got)

	_, err = GetObject(ctx, api, "b", "missing")
	assert.ErrorContains(t, err, "s3://b/missing")
}

func TestObjectErrors(t *testing.T) {
	boom := errors.New("boom")
	api := &fakeObjects{err: boom}

	_, err := GetObject(context.Background(), api, "b", "k")
	assert.ErrorIs(t, err, boom)

	err = PutObject(context.Background(), api, "b", "k", nil)
	assert.ErrorIs(t, err, boom)
}
