// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/staranto/stargazers/internal/timer"
)

// LapColumns are the TableWriter columns of LapRows.
var LapColumns = []string{"lap", "start", "end", "duration"}

// LapReport is one row of a TimerReport.
type LapReport struct {
	Lap        int           `json:"lap" yaml:"lap"`
	Start      time.Time     `json:"start" yaml:"start"`
	End        time.Time     `json:"end" yaml:"end"`
	DurationNs time.Duration `json:"duration_ns" yaml:"duration_ns"`
	Duration   string        `json:"duration" yaml:"duration"`
}

// TimerReport is a serializable snapshot of a stopped or running Timer.
type TimerReport struct {
	State      string        `json:"state" yaml:"state"`
	Start      time.Time     `json:"start" yaml:"start"`
	Stop       *time.Time    `json:"stop,omitempty" yaml:"stop,omitempty"`
	DurationNs time.Duration `json:"duration_ns" yaml:"duration_ns"`
	Duration   string        `json:"duration" yaml:"duration"`
	LapCount   int           `json:"lap_count" yaml:"lap_count"`
	AverageLap string        `json:"average_lap,omitempty" yaml:"average_lap,omitempty"`
	Laps       []LapReport   `json:"laps" yaml:"laps"`
}

// Report snapshots t. An idle Timer has nothing to report.
func Report(t *timer.Timer) (TimerReport, error) {
	d, err := t.Duration()
	if err != nil {
		return TimerReport{}, err
	}

	start, _ := t.StartTime()
	r := TimerReport{
		State:      t.State().String(),
		Start:      start.UTC(),
		DurationNs: d,
		Duration:   Duration(d),
		LapCount:   t.LapCount(),
		Laps:       []LapReport{},
	}
	if stop, ok := t.StopTime(); ok {
		stop = stop.UTC()
		r.Stop = &stop
	}
	if avg, ok := t.AverageLap(); ok {
		r.AverageLap = Duration(avg)
	}

	i := 0
	for lap := range t.Laps() {
		i++
		r.Laps = append(r.Laps, LapReport{
			Lap:        i,
			Start:      lap.Start.UTC(),
			End:        lap.End.UTC(),
			DurationNs: lap.Duration(),
			Duration:   Duration(lap.Duration()),
		})
	}
	return r, nil
}

// LapRows converts the laps of r into TableWriter rows.
func LapRows(r TimerReport) []map[string]interface{} {
	rows := make([]map[string]interface{}, 0, len(r.Laps))
	for _, l := range r.Laps {
		rows = append(rows, map[string]interface{}{
			"lap":      l.Lap,
			"start":    l.Start,
			"end":      l.End,
			"duration": l.DurationNs,
		})
	}
	return rows
}

// Summary is the one-line text form of r.
func (r TimerReport) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s in %d lap", r.Duration, r.LapCount)
	if r.LapCount != 1 {
		b.WriteString("s")
	}
	if r.AverageLap != "" {
		fmt.Fprintf(&b, " (avg %s)", r.AverageLap)
	}
	return b.String()
}

// WriteTimer emits r in format. Table output lists the laps, sorted by
// sortSpec, followed by the summary line.
func WriteTimer(w io.Writer, format string, r TimerReport, sortSpec string, opts TableOptions) error {
	switch format {
	case FormatTable:
		rows := LapRows(r)
		SortDataset(rows, sortSpec)
		TableWriter(rows, LapColumns, opts, w)
		_, err := fmt.Fprintln(w, r.Summary())
		return err
	case FormatText, "":
		return Emit(w, FormatText, r.Summary())
	default:
		return Emit(w, format, r)
	}
}
