// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/urfave/cli/v3"

	"github.com/staranto/stargazers/internal/meta"
	"github.com/staranto/stargazers/internal/output"
	"github.com/staranto/stargazers/internal/timer"
)

// ShortCircuitTLDR checks the --tldr flag and, if present and available,
// runs `tldr stargazers-<subcmd>` and returns true so the caller can exit
// early.
func ShortCircuitTLDR(ctx context.Context, cmd *cli.Command, subcmd string) bool {
	if cmd.Bool("tldr") {
		if _, err := exec.LookPath("tldr"); err == nil {
			c := exec.CommandContext(ctx, "tldr", "stargazers-"+subcmd)
			c.Stdout = os.Stdout
			c.Stderr = os.Stderr
			_ = c.Run()
		}
		return true
	}
	return false
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// writer is the root command's Writer, stdout by default.
func writer(cmd *cli.Command) io.Writer {
	if root := cmd.Root(); root != nil && root.Writer != nil {
		return root.Writer
	}
	return os.Stdout
}

// tableOptions reads --color, --titles, --filter and --attrs. Color is dropped when
// stdout is not a terminal.
func tableOptions(cmd *cli.Command) output.TableOptions {
	w := writer(cmd)
	color := cmd.Bool("color")
	if f, ok := w.(*os.File); color && (!ok || !output.IsTerminal(f)) {
		color = false
	}
	return output.TableOptions{
		Color:  color,
		Titles: cmd.Bool("titles"),
		Filter: cmd.String("filter"),
		Attrs:  cmd.String("attrs"),
	}
}

// timerMode maps --strict onto a timer.Mode.
func timerMode(cmd *cli.Command) timer.Mode {
	if cmd.Bool("strict") {
		return timer.Strict
	}
	return timer.Permissive
}

// emitTimer reports t according to the output flags.
func emitTimer(cmd *cli.Command, t *timer.Timer) error {
	r, err := output.Report(t)
	if err != nil {
		return err
	}
	return output.WriteTimer(writer(cmd), cmd.String("output"), r, cmd.String("sort"), tableOptions(cmd))
}

// requireArgs fails unless at least n positional args are present.
func requireArgs(cmd *cli.Command, n int, usage string) error {
	if cmd.Args().Len() < n {
		return fmt.Errorf("usage: %s", usage)
	}
	return nil
}
