// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package filters implements the --filter expressions that narrow table rows
// and JSON arrays.
package filters

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/tidwall/gjson"
)

// EnvDelim overrides the "," between filter expressions.
const EnvDelim = "SG_FILTER_DELIM"

// filterRegex splits an expression into key, operator and target. Operators
// are one of = ^ ~ < > @ or /, optionally prefixed with '!'.
var filterRegex = regexp.MustCompile(`^(.*?)(!?[=^~<>@/])(.*)$`)

// Filter is a single parsed --filter expression.
type Filter struct {
	Key     string
	Negate  bool
	Operand string
	Target  string
}

// BuildFilters parses a filter specification string into a slice of Filter.
// Malformed expressions are logged and skipped.
func BuildFilters(spec string) []Filter {
	if spec == "" {
		return nil
	}

	delim := ","
	if d := os.Getenv(EnvDelim); d != "" {
		delim = d
	}

	var filters []Filter
	for _, expr := range strings.Split(spec, delim) {
		m := filterRegex.FindStringSubmatch(expr)
		if m == nil || m[1] == "" {
			log.Errorf("invalid filter: %s", expr)
			continue
		}
		op, negate := strings.CutPrefix(m[2], "!")
		filters = append(filters, Filter{Key: m[1], Negate: negate, Operand: op, Target: m[3]})
	}
	return filters
}

// FilterRows returns the rows whose values satisfy every expression in spec.
// Keys are row keys and a key a row lacks is skipped. The input slice is not
// modified.
func FilterRows(rows []map[string]interface{}, spec string) []map[string]interface{} {
	filters := BuildFilters(spec)
	if len(filters) == 0 {
		return rows
	}

	var out []map[string]interface{}
	for _, row := range rows {
		lookup := func(key string) (interface{}, bool) {
			v, ok := row[key]
			return v, ok
		}
		if matchAll(lookup, filters) {
			out = append(out, row)
		}
	}
	return out
}

// FilterResults returns the elements of the candidates array that satisfy
// every expression in spec. Keys are gjson paths relative to each element and
// an element without the path does not match. A non-array candidate is
// treated as a one element array.
func FilterResults(candidates gjson.Result, spec string) []gjson.Result {
	filters := BuildFilters(spec)

	var out []gjson.Result
	for _, candidate := range candidates.Array() {
		lookup := func(key string) (interface{}, bool) {
			return candidate.Get(key).Value(), true
		}
		if matchAll(lookup, filters) {
			out = append(out, candidate)
		}
	}
	return out
}

func matchAll(lookup func(string) (interface{}, bool), filters []Filter) bool {
	for _, f := range filters {
		v, ok := lookup(f.Key)
		if !ok {
			log.Debugf("filter key not found: %s", f.Key)
			continue
		}
		if !f.Match(v) {
			return false
		}
	}
	return true
}

// Match reports whether value satisfies f. Nil never matches. Durations and
// numbers compare numerically, collections support only '@', and anything
// else compares as a string.
func (f Filter) Match(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return f.matchString(v)
	case bool:
		return f.matchString(strconv.FormatBool(v))
	case time.Duration:
		return f.matchDuration(v)
	case time.Time:
		return f.matchString(v.UTC().Format(time.RFC3339Nano))
	case fmt.Stringer:
		return f.matchString(v.String())
	}
	if n, ok := asFloat(value); ok {
		return f.matchNumber(n)
	}
	if f.Operand == "@" {
		return f.matchMember(value)
	}
	return true
}

// outcome applies the negation.
func (f Filter) outcome(b bool) bool {
	return b != f.Negate
}

func (f Filter) matchMember(value interface{}) bool {
	switch val := value.(type) {
	case []any:
		for _, item := range val {
			if fmt.Sprint(item) == f.Target {
				return f.outcome(true)
			}
		}
		return f.outcome(false)
	case map[string]any:
		_, found := val[f.Target]
		return f.outcome(found)
	default:
		log.Errorf("unsupported type for contains filtering: %T", value)
		return false
	}
}

// matchDuration accepts a target such as "1.5s", or a bare number of seconds.
func (f Filter) matchDuration(value time.Duration) bool {
	target := strings.TrimSpace(f.Target)
	want, err := time.ParseDuration(target)
	if err != nil {
		secs, ferr := strconv.ParseFloat(target, 64)
		if ferr != nil {
			log.Errorf("invalid duration target: %s", f.Target)
			return false
		}
		want = time.Duration(secs * float64(time.Second))
	}
	return f.compare(float64(value), float64(want))
}

func (f Filter) matchNumber(value float64) bool {
	want, err := strconv.ParseFloat(strings.TrimSpace(f.Target), 64)
	if err != nil {
		log.Errorf("invalid numeric target: %s", f.Target)
		return false
	}
	return f.compare(value, want)
}

// compare handles the numeric operands =, > and <.
func (f Filter) compare(value, want float64) bool {
	switch f.Operand {
	case "=":
		return f.outcome(value == want)
	case ">":
		return f.outcome(value > want)
	case "<":
		return f.outcome(value < want)
	default:
		log.Errorf("unsupported numeric operand: %s", f.Operand)
		return false
	}
}

func (f Filter) matchString(value string) bool {
	switch f.Operand {
	case "=":
		return f.outcome(value == f.Target)
	case "~":
		return f.outcome(strings.EqualFold(value, f.Target))
	case "^":
		return f.outcome(strings.HasPrefix(value, f.Target))
	case ">":
		return f.outcome(value > f.Target)
	case "<":
		return f.outcome(value < f.Target)
	case "@":
		return f.outcome(strings.Contains(value, f.Target))
	case "/":
		re, err := regexp.Compile(f.Target)
		if err != nil {
			log.Errorf("invalid regex: %s", f.Target)
			return false
		}
		return f.outcome(re.MatchString(value))
	default:
		log.Errorf("unsupported filtering operand: %s", f.Operand)
		return false
	}
}

// asFloat normalizes the numeric kinds found in rows and decoded JSON.
func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
