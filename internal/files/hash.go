// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package files

import (
	"fmt"
	"hash/crc32"
	"path/filepath"
)

// DefaultHashMod keeps StrHex output to at most six hex digits.
const DefaultHashMod = 16*16*16*16*16*16 - 1

// StrHex is StrHexMod with DefaultHashMod.
func StrHex(s string) string {
	return StrHexMod(s, DefaultHashMod)
}

// StrHexMod returns crc32(s) % mod as 0x-prefixed hex, left aligned and
// padded to width 6. A mod of zero is treated as DefaultHashMod.
func StrHexMod(s string, mod uint32) string {
	if mod == 0 {
		mod = DefaultHashMod
	}
	return fmt.Sprintf("%-6s", fmt.Sprintf("%#x", crc32.ChecksumIEEE([]byte(s))%mod))
}

// PathBasenameHex hashes only the final element of path.
func PathBasenameHex(path string) string {
	return StrHex(filepath.Base(path))
}
