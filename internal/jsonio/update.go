// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package jsonio

import (
	"errors"

	"github.com/apex/log"
)

// Updater holds the decoded contents of a JSON file until Close writes them
// back.
type Updater[T any] struct {
	Data T

	path   string
	indent Indent
	closed bool
}

// Open reads path into a new Updater. The file must already exist.
func Open[T any](path string, indent Indent) (*Updater[T], error) {
	u := &Updater[T]{path: path, indent: indent}
	if err := Read(path, &u.Data); err != nil {
		return nil, err
	}
	return u, nil
}

// Path is the file the Updater writes to.
func (u *Updater[T]) Path() string {
	return u.path
}

// Close writes Data back to the file. Calls after the first do nothing.
func (u *Updater[T]) Close() error {
	if u.closed {
		return nil
	}
	u.closed = true
	return Write(u.path, u.Data, u.indent)
}

// Update reads path, hands a pointer to the decoded value to fn and writes
// the value back. The write happens even when fn fails; both errors are
// returned.
func Update[T any](path string, indent Indent, fn func(*T) error) (err error) {
	u, err := Open[T](path, indent)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := u.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	if err := fn(&u.Data); err != nil {
		log.WithError(err).Debugf("update %s: callback failed, writing anyway", path)
		return err
	}
	return nil
}
