// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"os/exec"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/stargazers/internal/meta"
	"github.com/staranto/stargazers/internal/retry"
	"github.com/staranto/stargazers/internal/timer"
)

// RetryCommandAction runs a command until it succeeds, backing off between
// attempts. Each attempt ends a lap of the reported timer, so every lap after
// the first also holds the wait that preceded its attempt.
func RetryCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "retry") {
		return nil
	}
	if err := requireArgs(cmd, 1, "stargazers retry [options] -- command [args...]"); err != nil {
		return err
	}

	cfg := retry.Config{
		MaxTries:   cmd.Uint("max-tries"),
		BaseDelay:  cmd.Duration("base-delay"),
		Jitter:     cmd.Duration("jitter"),
		MaxElapsed: cmd.Duration("max-elapsed"),
		Retryable:  retryableRunError,
	}

	t := timer.New(timer.WithMode(timerMode(cmd)), timer.StartNow())
	args := cmd.Args().Slice()
	runErr := retry.Do(ctx, cfg, func() error {
		err := runChild(ctx, writer(cmd), args)
		if lapErr := t.Lap(); lapErr != nil {
			return errors.Join(err, lapErr)
		}
		return err
	})
	if err := t.Stop(); err != nil {
		return errors.Join(runErr, err)
	}

	return errors.Join(runErr, emitTimer(cmd, t))
}

// retryableRunError is false for commands that cannot start, since another
// attempt would fail the same way.
func retryableRunError(err error) bool {
	if errors.Is(err, exec.ErrNotFound) {
		return false
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		return code != 126 && code != 127
	}
	var pathErr *exec.Error
	return !errors.As(err, &pathErr)
}

// RetryCommandBuilder constructs the cli.Command for "retry".
func RetryCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	src := meta.ConfigSource()
	return &cli.Command{
		Name:      "retry",
		Usage:     "run a command with exponential backoff",
		UsageText: `stargazers retry [options] -- command [args...]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append([]cli.Flag{
			NameSpacedValueChainFlagFromConfigFile("retry", "max_tries", src, &cli.UintFlag{
				Name:    "max-tries",
				Aliases: []string{"m"},
				Usage:   "attempts including the first",
				Value:   retry.DefaultMaxTries,
				Validator: func(v uint) error {
					return FlagValidators(v, PositiveValidator)
				},
			}),
			NameSpacedValueChainFlagFromConfigFile("retry", "base_delay", src, &cli.DurationFlag{
				Name:  "base-delay",
				Usage: "wait before retry k is base-delay^k seconds",
				Value: retry.DefaultBaseDelay,
			}),
			NameSpacedValueChainFlagFromConfigFile("retry", "jitter", src, &cli.DurationFlag{
				Name:  "jitter",
				Usage: "upper bound of the random wait added to each delay",
				Value: retry.DefaultJitter,
			}),
			&cli.DurationFlag{
				Name:  "max-elapsed",
				Usage: "give up once this much time has passed (0 for no limit)",
			},
			NewStrictFlag(meta, "retry"),
			tldrFlag,
		}, NewGlobalFlags(meta, "retry")...),
		Action: RetryCommandAction,
	}
}
