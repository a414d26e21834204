// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package jsonmap converts structs to and from string-keyed maps and JSON
// objects using a declared field list.
package jsonmap

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	ErrNotStruct    = errors.New("jsonmap: not a struct")
	ErrUnknownField = errors.New("jsonmap: unknown field")
)

// Fielder names the fields ToJSON serializes, in order.
type Fielder interface {
	SerializedFields() []string
}

// ToMap returns the named fields of the struct v (or *struct). A name matches
// a field's json tag name first, then its Go name. With no names, v's
// SerializedFields are used if it is a Fielder, otherwise every exported
// field. Keys are always the json name.
func ToMap(v any, fields ...string) (map[string]any, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, ErrNotStruct
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %T", ErrNotStruct, v)
	}

	if len(fields) == 0 {
		if f, ok := v.(Fielder); ok {
			fields = f.SerializedFields()
		}
	}

	index := fieldIndex(rv.Type())
	out := make(map[string]any)
	if len(fields) == 0 {
		for name, i := range index.byJSON {
			out[name] = rv.Field(i).Interface()
		}
		return out, nil
	}

	for _, name := range fields {
		i, key, ok := index.lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q on %s", ErrUnknownField, name, rv.Type())
		}
		out[key] = rv.Field(i).Interface()
	}
	return out, nil
}

// ToJSON encodes the SerializedFields of f as a JSON object.
func ToJSON(f Fielder) ([]byte, error) {
	m, err := ToMap(f)
	if err != nil {
		return nil, err
	}
	return json.Marshal(m)
}

// FromMap builds a T from m. Keys with no matching field are an error.
func FromMap[T any](m map[string]any) (T, error) {
	var zero T
	data, err := json.Marshal(m)
	if err != nil {
		return zero, err
	}
	return FromJSON[T](string(data))
}

// FromJSON decodes a JSON object into a T. Keys with no matching field are an
// error.
func FromJSON[T any](s string) (T, error) {
	var out T
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		if strings.HasPrefix(err.Error(), "json: unknown field") {
			return out, fmt.Errorf("%w: %s", ErrUnknownField, strings.TrimPrefix(err.Error(), "json: unknown field "))
		}
		return out, err
	}
	return out, nil
}

type index struct {
	byJSON map[string]int
	byGo   map[string]int
	goToJS map[string]string
}

func (x index) lookup(name string) (int, string, bool) {
	if i, ok := x.byJSON[name]; ok {
		return i, name, true
	}
	if i, ok := x.byGo[name]; ok {
		return i, x.goToJS[name], true
	}
	return 0, "", false
}

func fieldIndex(t reflect.Type) index {
	x := index{byJSON: map[string]int{}, byGo: map[string]int{}, goToJS: map[string]string{}}
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup("json"); ok {
			tagName, _, _ := strings.Cut(tag, ",")
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
		}
		x.byJSON[name] = i
		x.byGo[f.Name] = i
		x.goToJS[f.Name] = name
	}
	return x
}
