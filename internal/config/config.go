// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/apex/log"
	"gopkg.in/yaml.v3"
)

const (
	// EnvFile names the env variable that overrides the config file location.
	EnvFile = "SG_CFG"
	// FileName is looked for in each standard location.
	FileName = "stargazers.yaml"
)

// ErrNotFound is returned when no candidate key resolves.
var ErrNotFound = errors.New("config key not found")

// Type is a loaded config file. Namespace, when set, is tried as a prefix
// before the bare key.
type Type struct {
	Source    string
	Namespace string
	Data      map[string]any
}

// Config is the process-wide config, loaded lazily on first lookup.
var Config Type

// Load reads the config file into Config. An explicit path wins over SG_CFG,
// which wins over the standard locations.
func Load(cfgFilePath ...string) (Type, error) {
	path := ""
	if len(cfgFilePath) > 0 {
		path = cfgFilePath[0]
	}
	if path == "" {
		var err error
		if path, err = locate(); err != nil {
			return Type{}, err
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Type{}, err
	}
	var data map[string]any
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return Type{}, fmt.Errorf("%s: %w", path, err)
	}

	Config = Type{Source: path, Namespace: Config.Namespace, Data: data}
	return Config, nil
}

// candidates lists the full keys tried for kspec, most specific first.
func (cfg *Type) candidates(kspec string) []string {
	if cfg.Namespace == "" {
		return []string{kspec}
	}
	return []string{cfg.Namespace + "." + kspec, kspec}
}

func (cfg *Type) get(kspec string) (any, error) {
	keys := cfg.candidates(kspec)
	for _, key := range keys {
		if v, ok := walk(cfg.Data, strings.Split(key, ".")); ok {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, strings.Join(keys, ", "))
}

func walk(node any, path []string) (any, bool) {
	for _, p := range path {
		m, ok := node.(map[string]any)
		if !ok {
			return nil, false
		}
		if node, ok = m[p]; !ok {
			return nil, false
		}
	}
	return node, true
}

// lookupAs finds key and converts it with conv. A missing key yields the
// first default when one is given.
func lookupAs[T any](key string, conv func(any) (T, bool), kind string, defaults []T) (T, error) {
	var zero T
	if len(Config.Data) == 0 {
		_, _ = Load(Config.Source)
	}
	val, err := Config.get(key)
	if err != nil {
		if len(defaults) > 0 {
			return defaults[0], nil
		}
		return zero, err
	}
	out, ok := conv(val)
	if !ok {
		return zero, fmt.Errorf("%s: value is not %s", key, kind)
	}
	return out, nil
}

func GetString(key string, defaultValue ...string) (string, error) {
	return lookupAs(key, func(v any) (string, bool) {
		s, ok := v.(string)
		return s, ok
	}, "a string", defaultValue)
}

func GetBool(key string, defaultValue ...bool) (bool, error) {
	return lookupAs(key, func(v any) (bool, bool) {
		b, ok := v.(bool)
		return b, ok
	}, "a bool", defaultValue)
}

// GetInt truncates a float value.
func GetInt(key string, defaultValue ...int) (int, error) {
	return lookupAs(key, func(v any) (int, bool) {
		switch n := v.(type) {
		case int:
			return n, true
		case int64:
			return int(n), true
		case float64:
			return int(n), true
		}
		return 0, false
	}, "an int", defaultValue)
}

// GetStringSlice returns a YAML sequence of strings. A single string is
// returned as a one-element slice.
func GetStringSlice(key string, defaultValue ...[]string) ([]string, error) {
	return lookupAs(key, func(v any) ([]string, bool) {
		switch s := v.(type) {
		case string:
			return []string{s}, true
		case []any:
			out := make([]string, 0, len(s))
			for _, item := range s {
				str, ok := item.(string)
				if !ok {
					return nil, false
				}
				out = append(out, str)
			}
			return out, true
		}
		return nil, false
	}, "a string slice", defaultValue)
}

// GetDuration accepts a Go duration string ("1500ms") or a bare number of
// seconds.
func GetDuration(key string, defaultValue ...time.Duration) (time.Duration, error) {
	return lookupAs(key, func(v any) (time.Duration, bool) {
		switch d := v.(type) {
		case string:
			parsed, err := time.ParseDuration(d)
			return parsed, err == nil
		case int:
			return time.Duration(d) * time.Second, true
		case float64:
			return time.Duration(d * float64(time.Second)), true
		}
		return 0, false
	}, "a duration", defaultValue)
}

// locate finds the config file: SG_CFG, then stargazers.yaml in
// XDG_CONFIG_HOME, APPDATA and HOME.
func locate() (string, error) {
	if env := os.Getenv(EnvFile); env != "" {
		info, err := os.Stat(env)
		switch {
		case err != nil:
			return "", fmt.Errorf("config file not found: %s=%s", EnvFile, env)
		case info.IsDir():
			return "", fmt.Errorf("%s points to a directory: %s", EnvFile, env)
		}
		log.Debugf("config from %s: %s", EnvFile, env)
		return env, nil
	}

	for _, env := range []string{"XDG_CONFIG_HOME", "APPDATA", "HOME"} {
		dir := os.Getenv(env)
		if dir == "" {
			continue
		}
		file := filepath.Join(dir, FileName)
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			log.Debugf("config: %s", file)
			return file, nil
		}
	}
	return "", errors.New("no config file found in standard locations")
}
