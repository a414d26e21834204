// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package attrs implements the --attrs column spec: which row keys are
// printed, under what title, and with what transformation.
package attrs

import (
	"fmt"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/apex/log"

	"github.com/staranto/stargazers/internal/config"
)

// LocalTimeFormat is used for times converted by the "t" transformation.
const LocalTimeFormat = "2006-01-02T15:04:05MST"

var lengthRe = regexp.MustCompile(`-?\d+`)

// Attr represents one output column.
type Attr struct {
	// The row key the value is read from.
	Key string `yaml:"key"`
	// Should this Attr be printed or is it only there to be renamed away?
	Include bool `yaml:"include"`
	// The key used in the output, and the column title.
	OutputKey string `yaml:"outputKey"`
	// Transformation spec to apply to the output value.
	TransformSpec string `yaml:"transformSpec"`
}

// Transform applies the spec to value. Letters select conversions: t converts
// times to the zone named by the "timezone" config key or TZ, u and l change
// case (the last one wins). A number truncates strings to that length; a
// negative number elides the middle instead.
func (a *Attr) Transform(value interface{}) interface{} {
	if a.TransformSpec == "" {
		return value
	}

	var result string
	switch v := value.(type) {
	case string:
		result = v
	case time.Time:
		if !strings.ContainsAny(a.TransformSpec, "tT") {
			return value
		}
		result = v.UTC().Format(time.RFC3339Nano)
	default:
		return value
	}

	// Convert UTC time to local.
	if strings.ContainsAny(a.TransformSpec, "tT") {
		// We're only going to convert if we've specifically told what TZ to use.
		if tz := timezone(); tz != "" {
			loc, err := time.LoadLocation(tz)
			if err == nil {
				if t, err := time.Parse(time.RFC3339Nano, result); err == nil {
					result = t.In(loc).Format(LocalTimeFormat)
				} else {
					log.Debug("not a time: " + result)
				}
			} else {
				log.Errorf("unknown timezone %q", tz)
			}
		}
	}

	// The case letter that appears last wins, so an attr's own spec overrides
	// a global one prepended to it.
	lastL := strings.LastIndexAny(a.TransformSpec, "lL")
	lastU := strings.LastIndexAny(a.TransformSpec, "uU")

	if lastL > lastU {
		result = strings.ToLower(result)
	} else if lastU > lastL {
		result = strings.ToUpper(result)
	}

	// Same rule for lengths: the last number wins.
	if match := lengthRe.FindAllString(a.TransformSpec, -1); len(match) != 0 {
		l, _ := strconv.Atoi(match[len(match)-1])
		abs := int(math.Abs(float64(l)))
		if len(result) > abs {
			if l < 0 && abs >= 4 {
				lr := abs/2 - 1
				result = result[:lr] + ".." + result[len(result)-lr:]
			} else {
				result = result[:abs]
			}
		}
	}

	return result
}

func timezone() string {
	if tz, err := config.GetString("timezone"); err == nil && tz != "" {
		return tz
	}
	return os.Getenv("TZ")
}

type AttrList []Attr

// String renders the list back in --attrs form.
func (a *AttrList) String() string {
	result := make([]string, 0, len(*a))
	for _, attr := range *a {
		key := attr.Key
		if !attr.Include {
			key = "!" + key
		}
		result = append(result, fmt.Sprintf("%s:%s:%s", key, attr.OutputKey, attr.TransformSpec))
	}
	return strings.Join(result, ",")
}

// Set parses each comma separated key[:output[:transform]] spec and merges it
// into the list. A leading ! hides the key, "*" carries a transform applied
// to every attr.
func (a *AttrList) Set(value string) error {
	if value == "" || value == "*" {
		return nil
	}

	const (
		keyIdx = iota
		outputIdx
		transformIdx
	)

	specs := strings.Split(value, ",")
specloop:
	for _, spec := range specs {
		attr := Attr{
			Include: true,
		}

		fields := strings.Split(spec, ":")
		if len(fields) > 3 {
			return fmt.Errorf("invalid attr spec %q", spec)
		}

		attr.Key = strings.TrimSpace(fields[keyIdx])
		if strings.HasPrefix(attr.Key, "!") {
			attr.Include = false
			attr.Key = attr.Key[1:]
		}
		if attr.Key == "" {
			return fmt.Errorf("invalid attr spec %q", spec)
		}
		if attr.Key == "*" {
			attr.Include = false
		}

		attr.OutputKey = attr.Key
		if len(fields) > outputIdx && strings.TrimSpace(fields[outputIdx]) != "" {
			attr.OutputKey = strings.TrimSpace(fields[outputIdx])
		}
		if len(fields) > transformIdx {
			attr.TransformSpec = strings.TrimSpace(fields[transformIdx])
		}

		// An attr that is already listed (a default column, or entered twice)
		// takes the new settings in place so column order is kept.
		for i := range *a {
			if (*a)[i].Key == attr.Key || (*a)[i].OutputKey == attr.Key {
				(*a)[i].Include = attr.Include
				if len(fields) > outputIdx {
					(*a)[i].OutputKey = attr.OutputKey
				}
				(*a)[i].TransformSpec = attr.TransformSpec
				continue specloop
			}
		}

		*a = append(*a, attr)
	}

	return nil
}

// SetGlobalTransformSpec prepends the "*" transform, if any, to every attr.
func (alist *AttrList) SetGlobalTransformSpec() error {
	spec := ""
	for a := range *alist {
		if (*alist)[a].Key == "*" {
			spec = (*alist)[a].TransformSpec
			break
		}
	}

	if spec == "" {
		return nil
	}

	for a := range *alist {
		if (*alist)[a].Key == "*" {
			continue
		}
		(*alist)[a].TransformSpec = spec + "," + (*alist)[a].TransformSpec
	}

	return nil
}

func (a *AttrList) Type() string {
	return "list"
}

// Defaults builds an AttrList that prints columns unchanged.
func Defaults(columns []string) AttrList {
	list := make(AttrList, 0, len(columns))
	for _, c := range columns {
		list = append(list, Attr{Key: c, Include: true, OutputKey: c})
	}
	return list
}

// Apply rewrites rows per spec, starting from the given columns. It returns
// the new rows and the titles of the included columns in order.
func Apply(rows []map[string]interface{}, columns []string, spec string) ([]map[string]interface{}, []string, error) {
	if spec == "" {
		return rows, columns, nil
	}

	list := Defaults(columns)
	if err := list.Set(spec); err != nil {
		return nil, nil, err
	}
	if err := list.SetGlobalTransformSpec(); err != nil {
		return nil, nil, err
	}

	var titles []string
	for _, attr := range list {
		if attr.Include {
			titles = append(titles, attr.OutputKey)
		}
	}

	out := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		r := make(map[string]interface{}, len(titles))
		for i := range list {
			if !list[i].Include {
				continue
			}
			r[list[i].OutputKey] = list[i].Transform(row[list[i].Key])
		}
		out = append(out, r)
	}
	return out, titles, nil
}
