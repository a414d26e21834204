// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package jsonio reads and writes UTF-8 JSON files with a small set of indent
// presets. It also offers a read-modify-write Update, gjson path queries and
// a structural diff.
package jsonio
