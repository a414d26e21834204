// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/apex/log"
	"github.com/tidwall/gjson"
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/stargazers/internal/aws"
	"github.com/staranto/stargazers/internal/cacheutil"
	"github.com/staranto/stargazers/internal/files"
	"github.com/staranto/stargazers/internal/filters"
	"github.com/staranto/stargazers/internal/jsonio"
	"github.com/staranto/stargazers/internal/meta"
	"github.com/staranto/stargazers/internal/output"
)

// ErrNoValue is returned by "json get" when the path matches nothing.
var ErrNoValue = errors.New("no value at path")

// loadJSON reads location and checks that it holds a JSON document. With
// --cache, s3:// documents are read through the local cache.
func loadJSON(ctx context.Context, cmd *cli.Command, location string) ([]byte, error) {
	load := func() ([]byte, error) {
		return files.Load(ctx, location)
	}

	var (
		data []byte
		err  error
	)
	if cmd.Bool("cache") && aws.IsS3(location) {
		data, err = cacheutil.Open().Fetch("s3", location, load)
	} else {
		data, err = load()
	}
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%s: not valid JSON", location)
	}
	return data, nil
}

func jsonIndent(cmd *cli.Command) (jsonio.Indent, error) {
	return jsonio.ParseIndent(cmd.String("indent"))
}

// JSONCommandAction only handles --tldr; the work is done by subcommands.
func JSONCommandAction(ctx context.Context, cmd *cli.Command) error {
	if ShortCircuitTLDR(ctx, cmd, "json") {
		return nil
	}
	return cli.ShowSubcommandHelp(cmd)
}

// JSONGetAction prints the value at a gjson path.
func JSONGetAction(ctx context.Context, cmd *cli.Command) error {
	if err := requireArgs(cmd, 2, "stargazers json get LOCATION PATH"); err != nil {
		return err
	}
	loc, path := cmd.Args().Get(0), cmd.Args().Get(1)

	data, err := loadJSON(ctx, cmd, loc)
	if err != nil {
		return err
	}
	r := jsonio.Query(data, path)
	if !r.Exists() {
		return fmt.Errorf("%s: %w", path, ErrNoValue)
	}
	log.Debugf("%s matched %s", path, r.Type)

	var value any = r.Value()
	text := r.String()
	if spec := cmd.String("filter"); spec != "" && r.IsArray() {
		kept := filters.FilterResults(r, spec)
		items := make([]any, 0, len(kept))
		raws := make([]string, 0, len(kept))
		for _, k := range kept {
			items = append(items, k.Value())
			raws = append(raws, k.Raw)
		}
		value = items
		text = "[" + strings.Join(raws, ",") + "]"
	}

	w := writer(cmd)
	switch cmd.String("output") {
	case output.FormatJSON, output.FormatYAML:
		return output.Emit(w, cmd.String("output"), value)
	default:
		_, err = fmt.Fprintln(w, text)
		return err
	}
}

// JSONSquishAction prints a document with all whitespace removed.
func JSONSquishAction(ctx context.Context, cmd *cli.Command) error {
	if err := requireArgs(cmd, 1, "stargazers json squish LOCATION"); err != nil {
		return err
	}
	data, err := loadJSON(ctx, cmd, cmd.Args().First())
	if err != nil {
		return err
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	s, err := jsonio.Squish(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(writer(cmd), s)
	return err
}

// JSONPrettyAction re-indents a document, in place with --write.
func JSONPrettyAction(ctx context.Context, cmd *cli.Command) error {
	if err := requireArgs(cmd, 1, "stargazers json pretty [--indent N] [--write] LOCATION"); err != nil {
		return err
	}
	loc := cmd.Args().First()
	indent, err := jsonIndent(cmd)
	if err != nil {
		return err
	}

	data, err := loadJSON(ctx, cmd, loc)
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	b, err := jsonio.Marshal(v, indent)
	if err != nil {
		return err
	}

	if cmd.Bool("write") {
		log.Debugf("rewriting %s with indent %d", loc, indent)
		return files.Save(ctx, loc, append(b, '\n'))
	}
	_, err = fmt.Fprintln(writer(cmd), string(b))
	return err
}

// JSONDiffAction prints the structural differences between two documents.
func JSONDiffAction(ctx context.Context, cmd *cli.Command) error {
	if err := requireArgs(cmd, 2, "stargazers json diff LEFT RIGHT"); err != nil {
		return err
	}
	left, err := loadJSON(ctx, cmd, cmd.Args().Get(0))
	if err != nil {
		return err
	}
	right, err := loadJSON(ctx, cmd, cmd.Args().Get(1))
	if err != nil {
		return err
	}

	d, changed, err := jsonio.Diff(left, right)
	if err != nil {
		return err
	}
	if !changed {
		log.Debug("documents are equal")
		return nil
	}
	_, err = fmt.Fprint(writer(cmd), d)
	if err == nil && cmd.Bool("exit-code") {
		return cli.Exit("", 1)
	}
	return err
}

// JSONSetAction sets a dotted key in a local JSON file. VALUE is parsed as
// JSON when possible and stored as a string otherwise.
func JSONSetAction(ctx context.Context, cmd *cli.Command) error {
	if err := requireArgs(cmd, 3, "stargazers json set FILE KEY VALUE"); err != nil {
		return err
	}
	path, key, raw := cmd.Args().Get(0), cmd.Args().Get(1), cmd.Args().Get(2)
	indent, err := jsonIndent(cmd)
	if err != nil {
		return err
	}

	value := parseValue(raw)
	return jsonio.Update(path, indent, func(doc *any) error {
		return setPath(doc, key, value)
	})
}

func parseValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	return v
}

// setPath assigns value at a dotted key, creating objects along the way. An
// empty document becomes an object.
func setPath(doc *any, key string, value any) error {
	if key == "" {
		return errors.New("empty key")
	}
	if *doc == nil {
		*doc = map[string]any{}
	}
	cur, ok := (*doc).(map[string]any)
	if !ok {
		return errors.New("top level is not an object")
	}

	parts := strings.Split(key, ".")
	for i, p := range parts[:len(parts)-1] {
		next, exists := cur[p]
		if !exists || next == nil {
			m := map[string]any{}
			cur[p] = m
			cur = m
			continue
		}
		m, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf("%s is not an object", strings.Join(parts[:i+1], "."))
		}
		cur = m
	}
	cur[parts[len(parts)-1]] = value
	return nil
}

// JSONCommandBuilder constructs the cli.Command for "json" and its
// subcommands.
func JSONCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	md := map[string]any{
		"meta": meta,
	}
	indentFlag := NameSpacedValueChainFlagFromConfigFile("json", "indent", meta.ConfigSource(), &cli.StringFlag{
		Name:    "indent",
		Aliases: []string{"i"},
		Usage:   "indent preset (tight, loose, sparse) or number of spaces",
		Value:   "standard",
		Validator: func(value string) error {
			return FlagValidators(value, JammedFlagValidator, IndentValidator)
		},
	})

	return &cli.Command{
		Name:      "json",
		Usage:     "read, query, reformat, compare and edit JSON",
		UsageText: `stargazers json <subcommand> [options] args...`,
		Metadata:  md,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "cache",
				Usage: "keep s3:// documents in the local cache",
				Sources: cli.NewValueSourceChain(
					yaml.YAML("json.cache", altsrc.StringSourcer(meta.ConfigSource())),
				),
			},
			tldrFlag,
		},
		Action: JSONCommandAction,
		Commands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "print the value at a gjson path",
				UsageText: "stargazers json get [options] LOCATION PATH",
				Metadata:  md,
				Flags:     NewGlobalFlags(meta, "json"),
				Action:    JSONGetAction,
			},
			{
				Name:      "squish",
				Usage:     "print a document without whitespace",
				UsageText: "stargazers json squish LOCATION",
				Metadata:  md,
				Action:    JSONSquishAction,
			},
			{
				Name:      "pretty",
				Usage:     "print a document indented",
				UsageText: "stargazers json pretty [options] LOCATION",
				Metadata:  md,
				Flags: []cli.Flag{
					indentFlag,
					&cli.BoolFlag{
						Name:    "write",
						Aliases: []string{"w"},
						Usage:   "rewrite LOCATION instead of printing",
					},
				},
				Action: JSONPrettyAction,
			},
			{
				Name:      "diff",
				Usage:     "show structural differences between two documents",
				UsageText: "stargazers json diff [options] LEFT RIGHT",
				Metadata:  md,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "exit-code",
						Usage: "exit with status 1 when the documents differ",
					},
				},
				Action: JSONDiffAction,
			},
			{
				Name:      "set",
				Usage:     "set a dotted key in a local JSON file",
				UsageText: "stargazers json set [options] FILE KEY VALUE",
				Metadata:  md,
				Flags:     []cli.Flag{indentFlag},
				Action:    JSONSetAction,
			},
		},
	}
}
