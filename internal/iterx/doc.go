// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package iterx holds small iterator combinators built on iter.Seq: batching,
// windowing, flattening and first/last access.
package iterx
