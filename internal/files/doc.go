// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package files holds small UTF-8 file helpers, crc32 name hashing, directory
// zipping, and Load/Save for locations that are either local paths or
// s3://bucket/key URLs.
package files
