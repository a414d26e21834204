// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/apex/log"

	"github.com/staranto/stargazers/internal/cacheutil"
	"github.com/staranto/stargazers/internal/command"
	"github.com/staranto/stargazers/internal/config"
	mylog "github.com/staranto/stargazers/internal/log"
	"github.com/staranto/stargazers/internal/version"
)

var ctx = context.Background()

func main() {
	os.Exit(realMain())
}

func realMain() int {
	mylog.InitLogger()

	args := os.Args

	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "No command specified.")
		args = append(args, "--help")
	} else {
		args = mangleArguments(args, func(key string) ([]string, error) {
			return config.GetStringSlice(key)
		})
	}

	// Short-circuit --version/-v, but not inside a wrapped command line.
	for _, a := range ownArgs(args) {
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
			return 0
		}
	}

	// Best-effort: pre-create the cache directory and drop stale entries.
	if store := cacheutil.Open(); store != nil {
		if err := store.Init(); err != nil {
			log.WithError(err).Warn("cache init")
		} else {
			maxAge, _ := config.GetDuration("cache.max_age", 24*time.Hour)
			if _, err := store.Purge(maxAge); err != nil {
				log.WithError(err).Warn("cache purge")
			}
		}
	}

	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	return 0
}

// ownArgs is args up to, but not including, the first "--".
func ownArgs(args []string) []string {
	if i := slices.Index(args, "--"); i >= 0 {
		return args[:i]
	}
	return args
}

// mangleArguments expands an @set argument into the option list stored under
// <command>.<set> in the config file. Without an @set, <command>.defaults is
// inserted right after the command when it exists.
func mangleArguments(args []string, sets func(key string) ([]string, error)) []string {
	if len(args) < 2 || strings.HasPrefix(args[1], "-") {
		return args
	}

	// We know the first two args are going to be the executable and command.
	preamble := make([]string, 2)
	copy(preamble, args[:2])

	own := ownArgs(args)

	// Short-circuit for --help/-h. If help is requested, just keep the preamble
	// and add --help flag.
	for _, a := range own[2:] {
		if a == "--help" || a == "-h" {
			return append(preamble, "--help")
		}
	}

	idx := 2
	set := "defaults"
	explicit := false
	for i, a := range own[2:] {
		if strings.HasPrefix(a, "@") {
			set = a[1:]
			idx += i
			explicit = true
			break
		}
	}

	out := slices.Clone(args)
	if explicit {
		out = slices.Delete(out, idx, idx+1)
	}

	setArgs, err := sets(args[1] + "." + set)
	if err != nil {
		if explicit {
			log.Warnf("no option set %q for %s", set, args[1])
		}
		return out
	}

	var expanded []string
	for _, arg := range setArgs {
		expanded = append(expanded, strings.Fields(arg)...)
	}
	out = slices.Insert(out, idx, expanded...)

	log.Debugf("idx=%d, set=%s, args=%v", idx, set, out)
	return out
}
