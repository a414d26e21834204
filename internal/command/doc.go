// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: Apache-2.0

// Package command builds the stargazers command tree: time, retry, json,
// hash, zip and completion, plus the output flags they share.
package command
