// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package aws wraps AWS SDK v2 config loading and the small slice of S3 that
// files.Load and files.Save need for s3:// locations.
package aws
