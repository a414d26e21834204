// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/apex/log"
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/stargazers/internal/interrupt"
	"github.com/staranto/stargazers/internal/meta"
	"github.com/staranto/stargazers/internal/timer"
)

// TimeCommandAction times a command, one lap per run. With no command it is
// a stopwatch: every line read from stdin marks a lap and EOF stops it.
func TimeCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "time") {
		return nil
	}

	t := timer.New(timer.WithMode(timerMode(cmd)))

	// Hold Ctrl-C until the report has been written.
	guard := interrupt.New(os.Interrupt)
	if err := guard.Enter(); err != nil {
		return err
	}
	defer guard.Exit()

	var runErr error
	if cmd.Args().Len() == 0 {
		runErr = stopwatch(t, reader(cmd), guard)
	} else {
		runErr = timeCommand(ctx, cmd, t, guard)
	}
	if runErr != nil && t.State() == timer.Idle {
		return runErr
	}

	return errors.Join(runErr, emitTimer(cmd, t))
}

func timeCommand(ctx context.Context, cmd *cli.Command, t *timer.Timer, guard *interrupt.Guard) error {
	args := cmd.Args().Slice()
	repeat := cmd.Uint("repeat")

	if err := t.Start(); err != nil {
		return err
	}
	var runErr error
	for i := uint(0); i < repeat; i++ {
		err := runChild(ctx, writer(cmd), args)
		if lapErr := t.Lap(); lapErr != nil {
			return lapErr
		}
		if err != nil {
			runErr = fmt.Errorf("run %d: %w", i+1, err)
			if !cmd.Bool("keep-going") {
				break
			}
		}
		if guard.Received() != nil {
			log.Debug("interrupted, stopping early")
			break
		}
	}
	if err := t.Stop(); err != nil {
		return errors.Join(runErr, err)
	}
	return runErr
}

// stopwatch marks a lap per line of r until EOF or a held signal. Lines are
// read on their own goroutine so a signal ends the wait for input.
func stopwatch(t *timer.Timer, r io.Reader, guard *interrupt.Guard) error {
	if err := t.Start(); err != nil {
		return err
	}

	quit := make(chan struct{})
	defer close(quit)
	lines := make(chan struct{})
	scanned := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case lines <- struct{}{}:
			case <-quit:
				return
			}
		}
		scanned <- sc.Err()
	}()

	var scanErr error
loop:
	for {
		select {
		case <-lines:
			if err := t.Lap(); err != nil {
				return err
			}
		case scanErr = <-scanned:
			break loop
		case <-guard.Done():
			log.Debug("interrupted, stopping stopwatch")
			break loop
		}
	}
	if err := t.Stop(); err != nil {
		return err
	}
	return scanErr
}

func runChild(ctx context.Context, stdout io.Writer, args []string) error {
	c := exec.CommandContext(ctx, args[0], args[1:]...)
	c.Stdin = os.Stdin
	c.Stdout = stdout
	c.Stderr = os.Stderr
	return c.Run()
}

func reader(cmd *cli.Command) io.Reader {
	if root := cmd.Root(); root != nil && root.Reader != nil {
		return root.Reader
	}
	return os.Stdin
}

// TimeCommandBuilder constructs the cli.Command for "time".
func TimeCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "time",
		Usage:     "lap timer for a command or stdin",
		UsageText: `stargazers time [options] [-- command [args...]]`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append([]cli.Flag{
			&cli.UintFlag{
				Name:    "repeat",
				Aliases: []string{"n"},
				Usage:   "run the command this many times, one lap each",
				Sources: cli.NewValueSourceChain(
					yaml.YAML("time.repeat", altsrc.StringSourcer(meta.ConfigSource())),
				),
				Value: 1,
				Validator: func(v uint) error {
					return FlagValidators(v, PositiveValidator)
				},
			},
			&cli.BoolFlag{
				Name:    "keep-going",
				Aliases: []string{"k"},
				Usage:   "keep repeating after a failed run",
			},
			NewStrictFlag(meta, "time"),
			tldrFlag,
		}, NewGlobalFlags(meta, "time")...),
		Action: TimeCommandAction,
	}
}
