// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package jsonio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/staranto/stargazers/internal/files"
)

const (
	JSONExt = "json"
	DotJSON = "." + JSONExt
)

// Indent is the number of spaces per nesting level. Tight means no
// whitespace at all.
type Indent int

const (
	Tight  Indent = 0
	Loose  Indent = 2
	Sparse Indent = 4

	Standard = Loose
)

// ParseIndent maps a preset name or a plain number to an Indent.
func ParseIndent(s string) (Indent, error) {
	switch strings.ToLower(s) {
	case "tight":
		return Tight, nil
	case "loose":
		return Loose, nil
	case "sparse":
		return Sparse, nil
	case "standard", "":
		return Standard, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid indent %q", s)
	}
	return Indent(n), nil
}

// Marshal encodes v with the given indent. HTML characters are not escaped
// and non-ASCII text is written as-is. There is no trailing newline.
func Marshal(v any, indent Indent) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", int(indent)))
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Squish returns the tightest encoding of v.
func Squish(v any) (string, error) {
	b, err := Marshal(v, Tight)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Read decodes the JSON file at path into v.
func Read(path string, v any) error {
	data, err := files.ReadUTF8(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(data), v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// ReadAny decodes the JSON file at path into the generic map/slice form.
func ReadAny(path string) (any, error) {
	var v any
	if err := Read(path, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// Write encodes v and replaces the contents of path.
func Write(path string, v any, indent Indent) error {
	data, err := Marshal(v, indent)
	if err != nil {
		return err
	}
	_, err = files.WriteUTF8(path, string(data))
	return err
}
