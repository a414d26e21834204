// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Command docgen turns docs/commands/<cmd>.md into a man page under
// docs/man/share/man1 and a tldr page under docs/tldr. The tldr pages are
// what "stargazers <cmd> --tldr" shows.
package main

import (
	"bufio"
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	md2man "github.com/cpuguy83/go-md2man/v2/md2man"
)

const (
	binName = "stargazers"
	repoURL = "https://github.com/staranto/stargazers"
)

// Labels that open a section of a command doc. Each sits alone on a line.
var labels = []string{"short description", "usage", "options", "quick examples"}

type example struct {
	Desc string
	Cmd  string
}

// page is a command doc split into its labelled sections.
type page struct {
	Cmd      string
	Title    string
	Sections map[string]string
}

func parsePage(cmd, md string) page {
	p := page{Cmd: cmd, Sections: map[string]string{}}
	var (
		current string
		body    strings.Builder
	)
	flush := func() {
		if current != "" {
			p.Sections[current] = strings.TrimSpace(body.String())
		}
		body.Reset()
	}

	sc := bufio.NewScanner(strings.NewReader(md))
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		trimmed := strings.TrimSpace(line)
		switch {
		case p.Title == "" && strings.HasPrefix(trimmed, "# "):
			p.Title = strings.TrimSpace(trimmed[2:])
		case slices.Contains(labels, strings.ToLower(trimmed)):
			flush()
			current = strings.ToLower(trimmed)
		default:
			body.WriteString(line)
			body.WriteByte('\n')
		}
	}
	flush()
	return p
}

// Short is the first paragraph of the short description, joined onto one
// line. It falls back to the title, then to the bare command line.
func (p page) Short() string {
	para, _, _ := strings.Cut(p.Sections["short description"], "\n\n")
	if short := strings.Join(strings.Fields(para), " "); short != "" {
		return short
	}
	if p.Title != "" {
		return p.Title + "."
	}
	return binName + " " + p.Cmd
}

// Examples reads the first fenced block of the quick examples. A "#" line
// describes the command line that follows it.
func (p page) Examples() []example {
	_, rest, ok := strings.Cut(p.Sections["quick examples"], "```")
	if !ok {
		return nil
	}
	block, _, ok := strings.Cut(rest, "```")
	if !ok {
		return nil
	}

	var (
		exs  []example
		desc string
	)
	for _, ln := range strings.Split(block, "\n") {
		ln = strings.TrimSpace(ln)
		switch {
		case ln == "":
		case strings.HasPrefix(ln, "#"):
			desc = strings.TrimSpace(strings.TrimLeft(ln, "#"))
		default:
			if desc == "" {
				desc = "Example"
			}
			exs = append(exs, example{Desc: desc, Cmd: ln})
			desc = ""
		}
	}
	return exs
}

// TLDR renders p in tldr-pages format.
func (p page) TLDR() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s-%s\n\n", binName, p.Cmd)
	fmt.Fprintf(&b, "> %s\n", p.Short())
	fmt.Fprintf(&b, "> More information: %s.\n\n", repoURL)

	exs := p.Examples()
	if len(exs) == 0 {
		exs = []example{{Desc: "Show help for the command", Cmd: binName + " " + p.Cmd + " --help"}}
	}
	for i, ex := range exs {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "- %s:\n\n`%s`\n", ex.Desc, placeholders(ex.Cmd))
	}
	return b.String()
}

var placeholderRe = regexp.MustCompile(`<([A-Za-z0-9_.-]+)>`)

// placeholders squeezes whitespace and rewrites <name> as {{name}}.
func placeholders(s string) string {
	return placeholderRe.ReplaceAllString(strings.Join(strings.Fields(s), " "), "{{$1}}")
}

// generator writes, or with check set only compares, the pages for each doc.
type generator struct {
	manDir  string
	tldrDir string
	check   bool
	force   bool
	stale   []string
}

func (g *generator) outputs(cmd string, raw []byte) map[string][]byte {
	return map[string][]byte{
		filepath.Join(g.manDir, fmt.Sprintf("%s-%s.1", binName, cmd)):   md2man.Render(raw),
		filepath.Join(g.tldrDir, fmt.Sprintf("%s-%s.md", binName, cmd)): []byte(parsePage(cmd, string(raw)).TLDR()),
	}
}

func (g *generator) emit(path string, content []byte) error {
	changed, err := differs(path, content)
	if err != nil {
		return err
	}
	if g.check {
		if changed {
			g.stale = append(g.stale, path)
		}
		return nil
	}
	if !changed && !g.force {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, content, 0o644)
}

// run processes every <cmd>.md in dir and returns how many it saw.
func (g *generator) run(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range entries {
		cmd, ok := strings.CutSuffix(e.Name(), ".md")
		if e.IsDir() || !ok {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return n, err
		}
		for path, content := range g.outputs(cmd, raw) {
			if err := g.emit(path, content); err != nil {
				return n, fmt.Errorf("%s: %w", path, err)
			}
		}
		n++
	}
	return n, nil
}

// differs reports whether path is missing or holds something other than
// content, ignoring surrounding whitespace.
func differs(path string, content []byte) (bool, error) {
	old, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return !bytes.Equal(bytes.TrimSpace(old), bytes.TrimSpace(content)), nil
}

func main() {
	root := flag.String("root", ".", "repo root")
	check := flag.Bool("check", false, "report stale generated files instead of writing them")
	force := flag.Bool("force", false, "rewrite files even when unchanged")
	flag.Parse()

	g := &generator{
		manDir:  filepath.Join(*root, "docs", "man", "share", "man1"),
		tldrDir: filepath.Join(*root, "docs", "tldr"),
		check:   *check,
		force:   *force,
	}
	commands := filepath.Join(*root, "docs", "commands")
	n, err := g.run(commands)
	switch {
	case err != nil:
		fatalf("docgen: %v", err)
	case n == 0:
		fatalf("docgen: no command docs under %s", commands)
	case len(g.stale) > 0:
		for _, s := range g.stale {
			fmt.Fprintf(os.Stderr, "stale: %s\n", s)
		}
		fatalf("docgen: %d generated file(s) out of date; run go run ./tools/docgen", len(g.stale))
	}
}

func fatalf(f string, a ...any) {
	fmt.Fprintf(os.Stderr, f+"\n", a...)
	os.Exit(1)
}
