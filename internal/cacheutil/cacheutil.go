// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package cacheutil keeps copies of remote objects on local disk so repeated
// reads of the same s3:// location skip the download.
package cacheutil

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/apex/log"
)

const (
	// EnvDir overrides the cache root.
	EnvDir = "SG_CACHE_DIR"
	// EnvEnabled turns the cache off when set to "0", "false" or "off".
	EnvEnabled = "SG_CACHE"

	entryMode = 0o600
	dirMode   = 0o755
)

// Store is a directory of cached blobs grouped into namespaces such as "s3".
// Each blob is named by the MD5 of its clear-text key.
type Store struct {
	root string
}

// Root returns the directory the Store writes beneath.
func (s *Store) Root() string {
	return s.root
}

// Open returns the Store at SG_CACHE_DIR or UserCacheDir()/stargazers. It
// returns nil when caching is turned off or no root can be resolved; every
// method of a nil Store is a miss or a no-op.
func Open() *Store {
	if v := strings.ToLower(os.Getenv(EnvEnabled)); v == "0" || v == "false" || v == "off" {
		return nil
	}
	if dir := os.Getenv(EnvDir); dir != "" {
		return &Store{root: dir}
	}
	dir, err := os.UserCacheDir()
	if err != nil || dir == "" {
		return nil
	}
	return &Store{root: filepath.Join(dir, "stargazers")}
}

// Init creates the root directory.
func (s *Store) Init() error {
	if s == nil {
		return nil
	}
	if err := os.MkdirAll(s.root, dirMode); err != nil {
		return fmt.Errorf("create cache root: %w", err)
	}
	return nil
}

// Path is where the blob for key in namespace ns lives, whether or not it
// exists yet.
func (s *Store) Path(ns, key string) string {
	sum := md5.Sum([]byte(key))
	return filepath.Join(s.root, ns, hex.EncodeToString(sum[:]))
}

// Get returns the cached blob for key, or false on a miss.
func (s *Store) Get(ns, key string) ([]byte, bool) {
	if s == nil {
		return nil, false
	}
	data, err := os.ReadFile(s.Path(ns, key))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.WithError(err).Debugf("cache read %s", key)
		}
		return nil, false
	}
	return data, true
}

// Put stores data for key, creating the namespace directory as needed.
func (s *Store) Put(ns, key string, data []byte) error {
	if s == nil {
		return nil
	}
	p := s.Path(ns, key)
	if err := os.MkdirAll(filepath.Dir(p), dirMode); err != nil {
		return fmt.Errorf("create cache namespace %s: %w", ns, err)
	}
	if err := os.WriteFile(p, data, entryMode); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

// Fetch serves key from the Store, falling back to load and keeping what it
// returns. A failed Put is logged and the loaded data is still returned.
func (s *Store) Fetch(ns, key string, load func() ([]byte, error)) ([]byte, error) {
	if data, ok := s.Get(ns, key); ok {
		log.Debugf("cache hit: %s", key)
		return data, nil
	}
	data, err := load()
	if err != nil {
		return nil, err
	}
	if err := s.Put(ns, key, data); err != nil {
		log.WithError(err).Warn("cache put")
	}
	return data, nil
}

// Purge deletes blobs last written more than maxAge ago and reports how many
// went. A maxAge of zero or less keeps everything.
func (s *Store) Purge(maxAge time.Duration) (int, error) {
	if s == nil || maxAge <= 0 {
		return 0, nil
	}
	cutoff := time.Now().Add(-maxAge)
	removed := 0
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			return nil
		}
		if err := os.Remove(path); err != nil {
			log.WithError(err).Warnf("purge %s", path)
			return nil
		}
		removed++
		return nil
	})
	if err != nil {
		return removed, fmt.Errorf("purge cache: %w", err)
	}
	log.Debugf("purged %d cache entries", removed)
	return removed, nil
}
