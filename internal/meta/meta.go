// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package meta carries per-invocation state shared by every command.
package meta

import (
	"context"

	"github.com/staranto/stargazers/internal/config"
)

// Meta are the meta-options that are available on all or most commands.
type Meta struct {
	Args        []string
	Config      config.Type
	Context     context.Context
	Namespace   string
	StartingDir string
}

// ConfigSource is the path of the loaded config file, or "" when none was
// found.
func (m Meta) ConfigSource() string {
	return m.Config.Source
}
