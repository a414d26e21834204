// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/staranto/stargazers/internal/cacheutil"
	"github.com/staranto/stargazers/internal/output"
)

// isolate keeps the caller's environment and config file out of the tests.
func isolate(t *testing.T) {
	t.Helper()
	for _, k := range []string{"SG_CFG", "SG_OUTPUT", "SG_STRICT", "AWS_PROFILE", "AWS_REGION", "SG_S3_ENDPOINT"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("APPDATA", "")
	t.Setenv("HOME", t.TempDir())
}

// run executes args against a fresh command tree and returns what was written.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	args = append([]string{"stargazers"}, args...)

	app, err := InitApp(context.Background(), args)
	require.NoError(t, err)

	var buf bytes.Buffer
	app.Writer = &buf
	app.ErrWriter = &buf
	app.Reader = strings.NewReader(stdin)
	app.ExitErrHandler = func(context.Context, *cli.Command, error) {}

	err = app.Run(context.Background(), args)
	return buf.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestInitApp_Commands(t *testing.T) {
	isolate(t)
	app, err := InitApp(context.Background(), []string{"stargazers", "hash"})
	require.NoError(t, err)

	var names []string
	for _, c := range app.Commands {
		names = append(names, c.Name)
		assert.Equal(t, "hash", GetMeta(c).Namespace)
	}
	assert.Equal(t, []string{"time", "retry", "json", "hash", "zip", "completion"}, names)
}

func TestInitApp_FlagsSorted(t *testing.T) {
	isolate(t)
	app, err := InitApp(context.Background(), []string{"stargazers"})
	require.NoError(t, err)

	for _, c := range app.Commands {
		for i := 1; i < len(c.Flags); i++ {
			assert.LessOrEqual(t, c.Flags[i-1].Names()[0], c.Flags[i].Names()[0], c.Name)
		}
	}
}

func TestGetMeta_Missing(t *testing.T) {
	assert.Empty(t, GetMeta(nil).Args)
	assert.Empty(t, GetMeta(&cli.Command{}).Args)
	assert.Empty(t, GetMeta(&cli.Command{Metadata: map[string]any{"meta": 42}}).Args)
}

func TestHash(t *testing.T) {
	isolate(t)

	out, err := run(t, "", "hash", "hello", "stargazers")
	require.NoError(t, err)
	assert.Equal(t, "0x10a6bc hello\n0x35b6e8 stargazers\n", out)

	out, err = run(t, "", "hash", "--mod", "255", "hello")
	require.NoError(t, err)
	assert.Equal(t, "0x73     hello\n", out)

	out, err = run(t, "", "hash", "--basename", "/tmp/data.json")
	require.NoError(t, err)
	assert.Equal(t, "0xfa27ec /tmp/data.json\n", out)

	out, err = run(t, "", "hash", "--filter", "hash^0x35", "hello", "stargazers")
	require.NoError(t, err)
	assert.Equal(t, "0x35b6e8 stargazers\n", out)

	out, err = run(t, "", "hash", "-o", "json", "hello")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"hash":"0x10a6bc","value":"hello"}]`, out)

	out, err = run(t, "", "hash", "-o", "json", "--attrs", "hash:h:u,!value", "hello")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"h":"0X10A6BC"}]`, out)
}

func TestHash_ModFromConfig(t *testing.T) {
	isolate(t)
	cfg := writeFile(t, t.TempDir(), "stargazers.yaml", "hash:\n  mod: 255\n")
	t.Setenv("SG_CFG", cfg)

	out, err := run(t, "", "hash", "hello")
	require.NoError(t, err)
	assert.Equal(t, "0x73     hello\n", out)
}

func TestHash_Errors(t *testing.T) {
	isolate(t)

	_, err := run(t, "", "hash")
	assert.ErrorContains(t, err, "usage:")

	_, err = run(t, "", "hash", "--mod", "0", "hello")
	assert.Error(t, err)

	_, err = run(t, "", "hash", "-o", "xml", "hello")
	assert.Error(t, err)
}

func TestTime_Stopwatch(t *testing.T) {
	isolate(t)

	out, err := run(t, "\n\n\n", "time", "-o", "json")
	require.NoError(t, err)

	var r output.TimerReport
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, "stopped", r.State)
	assert.Equal(t, 3, r.LapCount)
	assert.Len(t, r.Laps, 3)
	assert.NotNil(t, r.Stop)
}

func TestTime_StopwatchText(t *testing.T) {
	isolate(t)

	out, err := run(t, "", "time")
	require.NoError(t, err)
	assert.Contains(t, out, "in 0 laps")
}

func TestJSON_Get(t *testing.T) {
	isolate(t)
	doc := writeFile(t, t.TempDir(), "stars.json", `{"stars":[{"name":"vega","mag":0.03},{"name":"deneb","mag":1.25}]}`)

	out, err := run(t, "", "json", "get", doc, "stars.1.name")
	require.NoError(t, err)
	assert.Equal(t, "deneb\n", out)

	out, err = run(t, "", "json", "get", doc, "stars.#.name")
	require.NoError(t, err)
	assert.Equal(t, `["vega","deneb"]`+"\n", out)

	out, err = run(t, "", "json", "get", "-o", "json", doc, "stars.0")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"vega","mag":0.03}`, out)

	out, err = run(t, "", "json", "get", "--filter", "mag>1", doc, "stars")
	require.NoError(t, err)
	assert.Equal(t, `[{"name":"deneb","mag":1.25}]`+"\n", out)

	_, err = run(t, "", "json", "get", doc, "planets")
	assert.ErrorIs(t, err, ErrNoValue)
}

func TestJSON_GetCached(t *testing.T) {
	isolate(t)
	t.Setenv(cacheutil.EnvDir, t.TempDir())
	t.Setenv(cacheutil.EnvEnabled, "")
	loc := "s3://charts/stars.json"
	require.NoError(t, cacheutil.Open().Put("s3", loc, []byte(`{"name":"vega"}`)))

	out, err := run(t, "", "json", "--cache", "get", loc, "name")
	require.NoError(t, err)
	assert.Equal(t, "vega\n", out)
}

func TestJSON_GetInvalid(t *testing.T) {
	isolate(t)
	doc := writeFile(t, t.TempDir(), "bad.json", `{"stars":`)

	_, err := run(t, "", "json", "get", doc, "stars")
	assert.ErrorContains(t, err, "not valid JSON")

	_, err = run(t, "", "json", "get", filepath.Join(t.TempDir(), "missing.json"), "stars")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestJSON_SquishAndPretty(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	doc := writeFile(t, dir, "doc.json", "{\n  \"a\": [1, 2],\n  \"b\": \"<x>\"\n}\n")

	out, err := run(t, "", "json", "squish", doc)
	require.NoError(t, err)
	assert.Equal(t, `{"a":[1,2],"b":"<x>"}`+"\n", out)

	out, err = run(t, "", "json", "pretty", "--indent", "sparse", doc)
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"a\": [\n        1,\n        2\n    ],\n    \"b\": \"<x>\"\n}\n", out)

	out, err = run(t, "", "json", "pretty", "--indent", "tight", "--write", doc)
	require.NoError(t, err)
	assert.Empty(t, out)
	b, err := os.ReadFile(doc)
	require.NoError(t, err)
	assert.Equal(t, `{"a":[1,2],"b":"<x>"}`+"\n", string(b))

	_, err = run(t, "", "json", "pretty", "--indent", "wide", doc)
	assert.Error(t, err)
}

func TestJSON_Diff(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	left := writeFile(t, dir, "left.json", `{"name":"vega","mag":0.03}`)
	same := writeFile(t, dir, "same.json", `{"mag":0.03,"name":"vega"}`)
	right := writeFile(t, dir, "right.json", `{"name":"vega","mag":0.04}`)

	out, err := run(t, "", "json", "diff", left, same)
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = run(t, "", "json", "diff", left, right)
	require.NoError(t, err)
	assert.Contains(t, out, "mag")

	_, err = run(t, "", "json", "diff", "--exit-code", left, right)
	var exitErr cli.ExitCoder
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.ExitCode())
}

func TestJSON_Set(t *testing.T) {
	isolate(t)
	doc := writeFile(t, t.TempDir(), "doc.json", `{"name":"vega"}`)

	_, err := run(t, "", "json", "set", doc, "catalog.hr", "7001")
	require.NoError(t, err)
	_, err = run(t, "", "json", "set", doc, "constellation", "Lyra")
	require.NoError(t, err)
	_, err = run(t, "", "json", "set", doc, "tags", `["a0v","bright"]`)
	require.NoError(t, err)

	b, err := os.ReadFile(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"vega","catalog":{"hr":7001},"constellation":"Lyra","tags":["a0v","bright"]}`, string(b))

	_, err = run(t, "", "json", "set", doc, "name.first", "x")
	assert.ErrorContains(t, err, "name is not an object")
}

func TestSetPath(t *testing.T) {
	var doc any
	require.NoError(t, setPath(&doc, "a.b.c", 1.0))
	assert.Equal(t, map[string]any{"a": map[string]any{"b": map[string]any{"c": 1.0}}}, doc)

	require.NoError(t, setPath(&doc, "a.d", nil))
	require.NoError(t, setPath(&doc, "a.d.e", "x"))
	assert.Equal(t, "x", doc.(map[string]any)["a"].(map[string]any)["d"].(map[string]any)["e"])

	var list any = []any{1.0}
	assert.Error(t, setPath(&list, "a", 1))
	assert.Error(t, setPath(&doc, "", 1))
}

func TestParseValue(t *testing.T) {
	assert.Equal(t, 42.0, parseValue("42"))
	assert.Equal(t, true, parseValue("true"))
	assert.Nil(t, parseValue("null"))
	assert.Equal(t, "vega", parseValue("vega"))
	assert.Equal(t, map[string]any{"a": 1.0}, parseValue(`{"a":1}`))
}

func TestZip(t *testing.T) {
	isolate(t)
	dir := filepath.Join(t.TempDir(), "lyra")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	writeFile(t, dir, "vega.txt", "a0v")
	writeFile(t, filepath.Join(dir, "sub"), "epsilon.txt", "double double")

	out, err := run(t, "", "zip", "-o", "json", dir)
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, dir+".zip", result["archive"])
	assert.FileExists(t, dir+".zip")
	assert.NotContains(t, result, "uploaded")

	out, err = run(t, "", "zip", dir)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, dir+".zip ("))
}

func TestZip_BadUpload(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	_, err := run(t, "", "zip", "--upload", "s3://", dir)
	assert.Error(t, err)
	assert.NoFileExists(t, dir+".zip")
}

func TestAWSOptions(t *testing.T) {
	isolate(t)
	var n int
	cmd := &cli.Command{
		Name: "x",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "profile"},
			&cli.StringFlag{Name: "region"},
			&cli.StringFlag{Name: "endpoint"},
		},
		Action: func(_ context.Context, c *cli.Command) error {
			n = len(awsOptions(c))
			return nil
		},
	}

	require.NoError(t, cmd.Run(context.Background(), []string{"x"}))
	assert.Zero(t, n)

	require.NoError(t, cmd.Run(context.Background(), []string{"x", "--region", "eu-west-1", "--endpoint", "http://minio:9000"}))
	assert.Equal(t, 2, n)
}

func TestCompletion(t *testing.T) {
	isolate(t)

	out, err := run(t, "", "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "complete -F _stargazers stargazers")

	out, err = run(t, "", "completion", "zsh")
	require.NoError(t, err)
	assert.Contains(t, out, "#compdef stargazers")

	_, err = run(t, "", "completion", "fish")
	assert.ErrorContains(t, err, "unsupported shell")
}

func TestValidators(t *testing.T) {
	assert.NoError(t, FlagValidators("json", JammedFlagValidator, OutputValidator))
	assert.Error(t, FlagValidators("--json", JammedFlagValidator, OutputValidator))
	assert.Error(t, OutputValidator("xml"))

	assert.NoError(t, AttrsValidator("hash:h:u,!value"))
	assert.Error(t, AttrsValidator("a:b:c:d"))

	assert.NoError(t, IndentValidator("loose"))
	assert.NoError(t, IndentValidator("3"))
	assert.Error(t, IndentValidator("-1"))

	assert.NoError(t, PositiveValidator(uint(1)))
	assert.Error(t, PositiveValidator(uint(0)))
	assert.Error(t, PositiveValidator(-2))
}
