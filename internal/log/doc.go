// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package log configures apex/log. InitLogger sets up the global CLI logger.
// For and its variants build standalone named loggers for library code.
package log
