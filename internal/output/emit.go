// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/term"
	"gopkg.in/yaml.v2"

	"github.com/staranto/stargazers/internal/jsonio"
)

// Supported --output values.
const (
	FormatText  = "text"
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Formats lists every supported --output value.
var Formats = []string{FormatText, FormatTable, FormatJSON, FormatYAML}

// Emit writes v to w in the given format. Table is treated as text here;
// callers with tabular data use TableWriter.
func Emit(w io.Writer, format string, v any) error {
	if w == nil {
		w = os.Stdout
	}

	switch format {
	case FormatJSON:
		b, err := jsonio.Marshal(v, jsonio.Standard)
		if err != nil {
			return fmt.Errorf("emit json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case FormatYAML:
		b, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("emit yaml: %w", err)
		}
		_, err = w.Write(b)
		return err
	case FormatText, FormatTable, "":
		_, err := fmt.Fprintln(w, InterfaceToString(v))
		return err
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

// Duration renders d with an SI prefix, e.g. "1.5 ms".
func Duration(d time.Duration) string {
	if d == 0 {
		return "0 s"
	}
	return humanize.SIWithDigits(d.Seconds(), 3, "s")
}

// Size renders a byte count, e.g. "1.2 kB".
func Size(n int64) string {
	if n < 0 {
		return "-" + humanize.Bytes(uint64(-n))
	}
	return humanize.Bytes(uint64(n))
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// InterfaceToString converts supported primitive or composite values to a
// string. A custom empty value may be provided.
func InterfaceToString(value interface{}, emptyValue ...string) string {
	if len(emptyValue) == 0 {
		emptyValue = []string{""}
	}

	if value == nil || reflect.ValueOf(value).IsZero() {
		return emptyValue[0]
	}

	switch value := value.(type) {
	case string:
		return value
	case int:
		return strconv.Itoa(value)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	case time.Duration:
		return Duration(value)
	case time.Time:
		return value.UTC().Format(time.RFC3339Nano)
	case fmt.Stringer:
		return value.String()
	default:
		jsonBytes, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(jsonBytes)
	}
}
