// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package config reads stargazers.yaml and looks values up by dotted key,
// optionally scoped by a namespace.
package config
