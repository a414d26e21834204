// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/stargazers/internal/aws"
	"github.com/staranto/stargazers/internal/files"
	"github.com/staranto/stargazers/internal/meta"
	"github.com/staranto/stargazers/internal/output"
)

// ZipCommandAction archives a directory into a sibling .zip and optionally
// uploads the archive.
func ZipCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if ShortCircuitTLDR(ctx, cmd, "zip") {
		return nil
	}
	if err := requireArgs(cmd, 1, "stargazers zip [options] DIR"); err != nil {
		return err
	}

	dir := cmd.Args().First()
	upload := cmd.String("upload")
	if upload != "" {
		if strings.HasSuffix(upload, "/") {
			abs, err := filepath.Abs(dir)
			if err != nil {
				return err
			}
			upload += filepath.Base(abs) + ".zip"
		}
		if _, _, err := aws.ParseS3URL(upload); err != nil {
			return err
		}
	}

	archive, err := files.ZipDirectory(dir)
	if err != nil {
		return err
	}
	info, err := os.Stat(archive)
	if err != nil {
		return err
	}

	result := map[string]interface{}{
		"archive": archive,
		"size":    info.Size(),
	}

	if upload != "" {
		data, err := os.ReadFile(archive)
		if err != nil {
			return err
		}
		if err := files.Save(ctx, upload, data, files.WithAWS(awsOptions(cmd)...)); err != nil {
			return fmt.Errorf("upload %s: %w", upload, err)
		}
		log.Debugf("uploaded %s to %s", archive, upload)
		result["uploaded"] = upload
	}

	w := writer(cmd)
	switch format := cmd.String("output"); format {
	case output.FormatJSON, output.FormatYAML:
		return output.Emit(w, format, result)
	default:
		_, err = fmt.Fprintf(w, "%s (%s)\n", archive, output.Size(info.Size()))
		return err
	}
}

func awsOptions(cmd *cli.Command) []aws.Option {
	var opts []aws.Option
	if p := cmd.String("profile"); p != "" {
		opts = append(opts, aws.WithProfile(p))
	}
	if r := cmd.String("region"); r != "" {
		opts = append(opts, aws.WithRegion(r))
	}
	if e := cmd.String("endpoint"); e != "" {
		opts = append(opts, aws.WithEndpoint(e))
	}
	return opts
}

// ZipCommandBuilder constructs the cli.Command for "zip".
func ZipCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	src := meta.ConfigSource()
	return &cli.Command{
		Name:      "zip",
		Usage:     "zip a directory into DIR.zip",
		UsageText: `stargazers zip [options] DIR`,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "upload",
				Aliases: []string{"u"},
				Usage:   "also copy the archive to s3://bucket/key (a trailing / keeps the archive name)",
				Validator: func(value string) error {
					return FlagValidators(value, JammedFlagValidator)
				},
			},
			NameSpacedValueChainFlagFromConfigFile("zip", "profile", src, &cli.StringFlag{
				Name:    "profile",
				Usage:   "AWS shared config profile for --upload",
				Sources: cli.EnvVars("AWS_PROFILE"),
			}),
			NameSpacedValueChainFlagFromConfigFile("zip", "region", src, &cli.StringFlag{
				Name:    "region",
				Usage:   "AWS region for --upload",
				Sources: cli.EnvVars("AWS_REGION"),
			}),
			NameSpacedValueChainFlagFromConfigFile("zip", "endpoint", src, &cli.StringFlag{
				Name:    "endpoint",
				Usage:   "S3-compatible endpoint URL for --upload",
				Sources: cli.EnvVars(aws.EnvEndpoint),
			}),
			tldrFlag,
		}, NewGlobalFlags(meta, "zip")...),
		Action: ZipCommandAction,
	}
}
