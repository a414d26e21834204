// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package jsonio

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture"+DotJSON)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestMarshal(t *testing.T) {
	v := map[string]any{"a": []int{1, 2}, "b": "<ü>"}

	tests := []struct {
		name   string
		indent Indent
		want   string
	}{
		{name: "tight", indent: Tight, want: `{"a":[1,2],"b":"<ü>"}`},
		{name: "loose", indent: Loose, want: "{\n  \"a\": [\n    1,\n    2\n  ],\n  \"b\": \"<ü>\"\n}"},
		{name: "sparse", indent: Sparse, want: "{\n    \"a\": [\n        1,\n        2\n    ],\n    \"b\": \"<ü>\"\n}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Marshal(v, tt.indent)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestSquish(t *testing.T) {
	got, err := Squish([]any{map[string]any{"k": "v"}, 1, nil})
	require.NoError(t, err)
	assert.Equal(t, `[{"k":"v"},1,null]`, got)

	_, err = Squish(func() {})
	assert.Error(t, err)
}

func TestParseIndent(t *testing.T) {
	tests := []struct {
		in      string
		want    Indent
		wantErr bool
	}{
		{in: "tight", want: Tight},
		{in: "LOOSE", want: Loose},
		{in: "sparse", want: Sparse},
		{in: "standard", want: Standard},
		{in: "", want: Standard},
		{in: "3", want: 3},
		{in: "-1", wantErr: true},
		{in: "2x", wantErr: true},
		{in: "wide", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseIndent(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadWrite(t *testing.T) {
	type doc struct {
		Name  string   `json:"name"`
		Stars int      `json:"stars"`
		Tags  []string `json:"tags"`
	}
	path := filepath.Join(t.TempDir(), "doc.json")

	in := doc{Name: "vega", Stars: 3, Tags: []string{"a", "b"}}
	require.NoError(t, Write(path, in, Standard))

	var out doc
	require.NoError(t, Read(path, &out))
	assert.Equal(t, in, out)

	generic, err := ReadAny(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "vega", "stars": float64(3), "tags": []any{"a", "b"}}, generic)
}

func TestRead_Errors(t *testing.T) {
	var v any
	err := Read(filepath.Join(t.TempDir(), "missing.json"), &v)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	path := writeFixture(t, "{not json")
	err = Read(path, &v)
	assert.ErrorContains(t, err, path)
}

func TestUpdate(t *testing.T) {
	path := writeFixture(t, `{"count":1}`)

	err := Update(path, Tight, func(m *map[string]int) error {
		(*m)["count"]++
		(*m)["extra"] = 7
		return nil
	})
	require.NoError(t, err)

	var got map[string]int
	require.NoError(t, Read(path, &got))
	assert.Equal(t, map[string]int{"count": 2, "extra": 7}, got)
}

func TestUpdate_WritesEvenOnError(t *testing.T) {
	path := writeFixture(t, `{"count":1}`)
	boom := errors.New("boom")

	err := Update(path, Tight, func(m *map[string]int) error {
		(*m)["count"] = 5
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var got map[string]int
	require.NoError(t, Read(path, &got))
	assert.Equal(t, 5, got["count"])
}

func TestUpdate_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.json")
	called := false
	err := Update(path, Standard, func(*map[string]any) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.False(t, called)
	assert.NoFileExists(t, path)
}

func TestUpdater_CloseOnce(t *testing.T) {
	path := writeFixture(t, `[1,2]`)

	u, err := Open[[]int](path, Tight)
	require.NoError(t, err)
	assert.Equal(t, path, u.Path())
	u.Data = append(u.Data, 3)

	require.NoError(t, u.Close())
	require.NoError(t, os.WriteFile(path, []byte(`[]`), 0o644))
	require.NoError(t, u.Close())

	var got []int
	require.NoError(t, Read(path, &got))
	assert.Empty(t, got)
}

func TestQuery(t *testing.T) {
	data := []byte(`{"stars":[{"name":"vega","mag":0.03},{"name":"deneb","mag":1.25}]}`)

	assert.Equal(t, "deneb", Query(data, "stars.1.name").String())
	assert.Equal(t, int64(2), Query(data, "stars.#").Int())
	assert.False(t, Query(data, "planets").Exists())

	path := writeFixture(t, string(data))
	r, err := QueryFile(path, "stars.0.mag")
	require.NoError(t, err)
	assert.InDelta(t, 0.03, r.Float(), 1e-9)

	bad := writeFixture(t, "{oops")
	_, err = QueryFile(bad, "x")
	assert.ErrorContains(t, err, "invalid json")
}

func TestDiff(t *testing.T) {
	out, changed, err := Diff([]byte(`{"a":1,"b":2}`), []byte(`{"b":2,"a":1}`))
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Empty(t, out)

	out, changed, err = Diff([]byte(`{"a":1,"b":2}`), []byte(`{"a":1,"b":3,"c":4}`))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Contains(t, out, `"b": 2`)
	assert.Contains(t, out, `"b": 3`)
	assert.Contains(t, out, `"c": 4`)
	assert.Contains(t, out, "+")
	assert.Contains(t, out, "-")

	_, changed, err = Diff([]byte(`[1,2]`), []byte(`[1,2,3]`))
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestDiff_Errors(t *testing.T) {
	_, _, err := Diff([]byte(`{`), []byte(`{}`))
	assert.ErrorContains(t, err, "left")

	_, _, err = Diff([]byte(`{}`), []byte(`[]`))
	assert.Error(t, err)

	_, _, err = Diff([]byte(`1`), []byte(`2`))
	assert.ErrorContains(t, err, "top level")
}
