// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"os/exec"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/stargazers/internal/meta"
)

var (
	tldrFlag *cli.BoolFlag = &cli.BoolFlag{
		Name:        "tldr",
		Usage:       "show tldr page",
		Hidden:      !pathHas("tldr"),
		HideDefault: true,
	}
)

// configSources looks key up in the config file at path as <ns>.<key> and,
// when global is set, as a bare <key> after that.
func configSources(path, ns, key string, global bool) []cli.ValueSource {
	srcs := []cli.ValueSource{yaml.YAML(ns+"."+key, altsrc.StringSourcer(path))}
	if global {
		srcs = append(srcs, yaml.YAML(key, altsrc.StringSourcer(path)))
	}
	return srcs
}

// NewGlobalFlags returns the output flags shared by every command that prints
// a result.
func NewGlobalFlags(m meta.Meta, ns string) []cli.Flag {
	src := m.ConfigSource()
	chain := func(global bool, key string, lead ...cli.ValueSource) cli.ValueSourceChain {
		return cli.NewValueSourceChain(append(lead, configSources(src, ns, key, global)...)...)
	}

	return []cli.Flag{
		&cli.StringFlag{
			Name:    "attrs",
			Aliases: []string{"a"},
			Usage:   "comma-separated key[:title[:transform]] column specs",
			Sources: chain(false, "attrs"),
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator, AttrsValidator)
			},
		},
		&cli.BoolWithInverseFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored table output",
			Sources: chain(true, "color"),
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated filters to apply to rows, e.g. duration>1s",
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator)
			},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format (text, table, json, yaml)",
			Sources: chain(true, "output", cli.EnvVar("SG_OUTPUT")),
			Value:   "text",
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator, OutputValidator)
			},
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of columns to sort table rows by",
			Sources: chain(false, "sort"),
		},
		&cli.BoolWithInverseFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with table output",
			Sources: chain(true, "titles"),
		},
	}
}

// NewStrictFlag selects the timer misuse policy.
func NewStrictFlag(m meta.Meta, ns string) *cli.BoolWithInverseFlag {
	srcs := append([]cli.ValueSource{cli.EnvVar("SG_STRICT")}, configSources(m.ConfigSource(), ns, "strict", true)...)
	return &cli.BoolWithInverseFlag{
		Name:    "strict",
		Usage:   "treat timer misuse as an error",
		Sources: cli.NewValueSourceChain(srcs...),
		Value:   true,
	}
}

// NameSpacedValueChainFlagFromConfigFile appends <ns>.<key> and <key> config
// file sources to the flag's existing Sources chain.
func NameSpacedValueChainFlagFromConfigFile[T any, C any, VC cli.ValueCreator[T, C]](ns string, key string, path string, flag *cli.FlagBase[T, C, VC]) *cli.FlagBase[T, C, VC] {
	flag.Sources.Chain = append(flag.Sources.Chain, configSources(path, ns, key, true)...)
	return flag
}

// pathHas reports whether target is an executable on PATH.
func pathHas(target string) bool {
	_, err := exec.LookPath(target)
	return err == nil
}
