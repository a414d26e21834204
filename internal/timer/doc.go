// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package timer provides a lap-based stopwatch. It is meant for coarse
// measurements where decisecond accuracy is plenty; it is not a benchmarking
// tool.
package timer
