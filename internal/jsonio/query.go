// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package jsonio

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"

	"github.com/staranto/stargazers/internal/files"
)

// Query evaluates a gjson path against data.
func Query(data []byte, path string) gjson.Result {
	return gjson.GetBytes(data, path)
}

// QueryFile evaluates a gjson path against the JSON file at file.
func QueryFile(file, path string) (gjson.Result, error) {
	data, err := files.ReadUTF8(file)
	if err != nil {
		return gjson.Result{}, err
	}
	if !gjson.Valid(data) {
		return gjson.Result{}, fmt.Errorf("%s: invalid json", file)
	}
	return gjson.Get(data, path), nil
}

// Diff compares two JSON documents whose top level is an object or an array.
// It returns an ASCII rendering of left with the changes marked, and whether
// anything changed.
func Diff(left, right []byte) (string, bool, error) {
	var l, r any
	if err := json.Unmarshal(left, &l); err != nil {
		return "", false, fmt.Errorf("left: %w", err)
	}
	if err := json.Unmarshal(right, &r); err != nil {
		return "", false, fmt.Errorf("right: %w", err)
	}

	differ := gojsondiff.New()
	var d gojsondiff.Diff
	switch lv := l.(type) {
	case map[string]any:
		rv, ok := r.(map[string]any)
		if !ok {
			return "", false, fmt.Errorf("cannot diff object against %T", r)
		}
		d = differ.CompareObjects(lv, rv)
	case []any:
		rv, ok := r.([]any)
		if !ok {
			return "", false, fmt.Errorf("cannot diff array against %T", r)
		}
		d = differ.CompareArrays(lv, rv)
	default:
		return "", false, fmt.Errorf("top level must be an object or array, got %T", l)
	}

	if !d.Modified() {
		return "", false, nil
	}

	f := formatter.NewAsciiFormatter(l, formatter.AsciiFormatterConfig{ShowArrayIndex: true})
	out, err := f.Format(d)
	if err != nil {
		return "", true, err
	}
	return out, true, nil
}
