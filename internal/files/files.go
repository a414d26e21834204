// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package files

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"unicode/utf8"
)

// UTF8Encoding is the only encoding these helpers read or write.
const UTF8Encoding = "utf-8"

// Permission bits used when creating files and directories.
const (
	FileMode    fs.FileMode = 0o644
	DirMode     fs.FileMode = 0o755
	PrivateMode fs.FileMode = 0o600
)

// ErrInvalidUTF8 is returned when data does not decode as UTF-8.
var ErrInvalidUTF8 = errors.New("files: invalid utf-8")

// ToUTF8Bytes encodes s, rejecting strings that hold invalid UTF-8.
func ToUTF8Bytes(s string) ([]byte, error) {
	if !utf8.ValidString(s) {
		return nil, ErrInvalidUTF8
	}
	return []byte(s), nil
}

// ReadUTF8 returns the contents of path decoded as UTF-8.
func ReadUTF8(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%s: %w", path, ErrInvalidUTF8)
	}
	return string(data), nil
}

// WriteUTF8 truncates or creates path and writes s, returning the byte count.
func WriteUTF8(path, s string) (int, error) {
	return write(path, s, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
}

// WriteUTF8Exclusive is WriteUTF8 for a file that must not exist yet. An
// existing file yields an error matching fs.ErrExist.
func WriteUTF8Exclusive(path, s string) (int, error) {
	return write(path, s, os.O_WRONLY|os.O_CREATE|os.O_EXCL)
}

func write(path, s string, flag int) (int, error) {
	data, err := ToUTF8Bytes(s)
	if err != nil {
		return 0, err
	}

	f, err := os.OpenFile(path, flag, FileMode)
	if err != nil {
		return 0, err
	}

	n, err := f.Write(data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return n, err
}
