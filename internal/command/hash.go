// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/stargazers/internal/attrs"
	"github.com/staranto/stargazers/internal/files"
	"github.com/staranto/stargazers/internal/filters"
	"github.com/staranto/stargazers/internal/meta"
	"github.com/staranto/stargazers/internal/output"
)

var hashColumns = []string{"hash", "value"}

// HashCommandAction prints the short crc32 hash of each argument.
func HashCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "hash") {
		return nil
	}
	if err := requireArgs(cmd, 1, "stargazers hash [options] VALUE..."); err != nil {
		return err
	}

	mod := cmd.Uint("mod")
	if mod > math.MaxUint32 {
		return fmt.Errorf("--mod %d does not fit in 32 bits", mod)
	}

	var rows []map[string]interface{}
	for _, v := range cmd.Args().Slice() {
		hashed := v
		if cmd.Bool("basename") {
			hashed = filepath.Base(v)
		}
		rows = append(rows, map[string]interface{}{
			"value": v,
			"hash":  strings.TrimSpace(files.StrHexMod(hashed, uint32(mod))),
		})
	}

	w := writer(cmd)
	switch format := cmd.String("output"); format {
	case output.FormatTable:
		output.SortDataset(rows, cmd.String("sort"))
		output.TableWriter(rows, hashColumns, tableOptions(cmd), w)
	case output.FormatJSON, output.FormatYAML:
		rows = filters.FilterRows(rows, cmd.String("filter"))
		output.SortDataset(rows, cmd.String("sort"))
		projected, _, err := attrs.Apply(rows, hashColumns, cmd.String("attrs"))
		if err != nil {
			return err
		}
		return output.Emit(w, format, projected)
	default:
		for _, r := range filters.FilterRows(rows, cmd.String("filter")) {
			if _, err := fmt.Fprintf(w, "%-8s %s\n", r["hash"], r["value"]); err != nil {
				return err
			}
		}
	}
	return nil
}

// HashCommandBuilder constructs the cli.Command for "hash".
func HashCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "hash",
		Usage:     "short crc32 hashes of strings or path basenames",
		UsageText: `stargazers hash [options] VALUE...`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append([]cli.Flag{
			NameSpacedValueChainFlagFromConfigFile("hash", "mod", meta.ConfigSource(), &cli.UintFlag{
				Name:    "mod",
				Aliases: []string{"m"},
				Usage:   "modulus applied to the checksum",
				Value:   files.DefaultHashMod,
				Validator: func(v uint) error {
					return FlagValidators(v, PositiveValidator)
				},
			}),
			&cli.BoolFlag{
				Name:    "basename",
				Aliases: []string{"b"},
				Usage:   "hash only the last path element of each value",
			},
			tldrFlag,
		}, NewGlobalFlags(meta, "hash")...),
		Action: HashCommandAction,
	}
}
