// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/json"
	"github.com/apex/log/handlers/multi"
)

// Default formats for named loggers.
const (
	DebugFormat = "{name}.{level}-{time}:\n\t{message}{fields}"
	ProdFormat  = "{level}-{time}:\t{message}{fields}"
	DateFormat  = "2006/01/02@15:04:05"
)

// NamedOption configures a logger built by For.
type NamedOption func(*namedOptions)

type namedOptions struct {
	format     string
	dateFormat string
	toFile     bool
	toStderr   bool
	debug      bool
	asJSON     bool
	writer     io.Writer
}

// WithFormat overrides the line template. Recognized placeholders are
// {name}, {level}, {time}, {message} and {fields}.
func WithFormat(tpl string) NamedOption {
	return func(o *namedOptions) { o.format = tpl }
}

// WithDateFormat overrides the time layout used for {time}.
func WithDateFormat(layout string) NamedOption {
	return func(o *namedOptions) { o.dateFormat = layout }
}

// WithFile also writes to <name>.<unix seconds>.log in the working directory.
func WithFile(on bool) NamedOption {
	return func(o *namedOptions) { o.toFile = on }
}

// WithStderr also writes to stderr.
func WithStderr(on bool) NamedOption {
	return func(o *namedOptions) { o.toStderr = on }
}

// WithDebug selects the debug format and level.
func WithDebug(on bool) NamedOption {
	return func(o *namedOptions) { o.debug = on }
}

// WithJSON writes entries as JSON lines instead of formatted text.
func WithJSON(on bool) NamedOption {
	return func(o *namedOptions) { o.asJSON = on }
}

// WithWriter replaces stdout as the primary sink.
func WithWriter(w io.Writer) NamedOption {
	return func(o *namedOptions) { o.writer = w }
}

// For returns a logger tagged with the base name of name. It writes to
// stdout at info level in the prod format unless options say otherwise. A
// log file that cannot be created is reported on the returned logger and
// skipped.
func For(name string, opts ...NamedOption) log.Interface {
	o := namedOptions{writer: os.Stdout}
	for _, opt := range opts {
		opt(&o)
	}

	level := log.InfoLevel
	format := ProdFormat
	if o.debug {
		level = log.DebugLevel
		format = DebugFormat
	}
	if o.format != "" {
		format = o.format
	}
	if o.dateFormat == "" {
		o.dateFormat = DateFormat
	}

	base := filepath.Base(name)
	sink := func(w io.Writer) log.Handler {
		if o.asJSON {
			return json.New(w)
		}
		return &TemplateHandler{Writer: w, Name: base, Format: format, DateFormat: o.dateFormat}
	}

	handlers := []log.Handler{sink(o.writer)}
	if o.toStderr {
		handlers = append(handlers, sink(os.Stderr))
	}

	var fileErr error
	if o.toFile {
		path := fmt.Sprintf("%s.%d.log", name, time.Now().Unix())
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			fileErr = err
		} else {
			handlers = append(handlers, sink(f))
		}
	}

	logger := &log.Logger{Handler: multi.New(handlers...), Level: level}
	entry := logger.WithField("logger", base)
	if fileErr != nil {
		entry.WithError(fileErr).Warn("log file disabled")
	}
	return entry
}

// ShortFor is For fixed to the prod format and info level.
func ShortFor(name string, opts ...NamedOption) log.Interface {
	return For(name, append(opts, WithDebug(false), WithFormat(ProdFormat), WithDateFormat(DateFormat))...)
}

// DebugFor is For fixed to the debug format and level.
func DebugFor(name string, opts ...NamedOption) log.Interface {
	return For(name, append(opts, WithDebug(true), WithFormat(DebugFormat), WithDateFormat(DateFormat))...)
}

// TemplateHandler renders entries through a {placeholder} template.
type TemplateHandler struct {
	Writer     io.Writer
	Name       string
	Format     string
	DateFormat string

	mu sync.Mutex
}

// HandleLog implements log.Handler.
func (h *TemplateHandler) HandleLog(e *log.Entry) error {
	r := strings.NewReplacer(
		"{name}", h.Name,
		"{level}", strings.ToUpper(e.Level.String()),
		"{time}", e.Timestamp.Format(h.DateFormat),
		"{message}", e.Message,
		"{fields}", formatFields(e.Fields),
	)
	line := r.Replace(h.Format)

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintln(h.Writer, line)
	return err
}

// formatFields renders fields as " k=v" pairs, skipping the logger tag.
func formatFields(fields log.Fields) string {
	names := make([]string, 0, len(fields))
	for k := range fields {
		if k == "logger" {
			continue
		}
		names = append(names, k)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, k := range names {
		fmt.Fprintf(&b, " %s=%v", k, fields[k])
	}
	return b.String()
}
