// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"os"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/stargazers/internal/config"
	"github.com/staranto/stargazers/internal/meta"
)

// InitApp builds the stargazers command tree for args.
func InitApp(ctx context.Context, args []string) (*cli.Command, error) {
	sd, _ := os.Getwd()

	// args[1] names the command, which doubles as the config namespace.
	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}

	cfg, _ := config.Load()
	config.Config.Namespace = ns

	meta := meta.Meta{
		Args:        args,
		Config:      cfg,
		Context:     ctx,
		Namespace:   ns,
		StartingDir: sd,
	}

	app := &cli.Command{
		Name:  "stargazers",
		Usage: "small utilities: lap timer, retry, json, hashing and zipping",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "stargazers version info",
				HideDefault: true,
			},
		},
	}

	app.Commands = append(app.Commands,
		TimeCommandBuilder(app, meta),
		RetryCommandBuilder(app, meta),
		JSONCommandBuilder(app, meta),
		HashCommandBuilder(app, meta),
		ZipCommandBuilder(app, meta),
		CompletionCommandBuilder(app, meta),
	)

	for _, cmd := range app.Commands {
		sortFlags(cmd)
	}

	return app, nil
}

// sortFlags orders flags by primary name, recursively, for --help.
func sortFlags(cmd *cli.Command) {
	slices.SortFunc(cmd.Flags, func(a, b cli.Flag) int {
		return strings.Compare(a.Names()[0], b.Names()[0])
	})
	for _, sub := range cmd.Commands {
		sortFlags(sub)
	}
}
