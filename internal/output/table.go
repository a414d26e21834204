// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"io"
	"os"

	"github.com/apex/log"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"

	"github.com/staranto/stargazers/internal/attrs"
	"github.com/staranto/stargazers/internal/config"
	"github.com/staranto/stargazers/internal/filters"
)

// TableOptions controls TableWriter.
type TableOptions struct {
	Color  bool
	Titles bool
	// Filter is a --filter spec; rows that do not match are not printed.
	Filter string
	// Attrs is an --attrs spec selecting, renaming and transforming columns.
	Attrs string
}

// TableWriter renders rows as a borderless table with one column per entry in
// columns. Empty cells print as "-".
func TableWriter(rows []map[string]interface{}, columns []string, opts TableOptions, w io.Writer) {
	rows = filters.FilterRows(rows, opts.Filter)
	if projected, titles, err := attrs.Apply(rows, columns, opts.Attrs); err != nil {
		log.WithError(err).Error("ignoring --attrs")
	} else {
		rows, columns = projected, titles
	}
	if len(rows) == 0 {
		return
	}
	if w == nil {
		w = os.Stdout
	}

	pad, _ := config.GetInt("padding", 2)
	styles := newPalette(opts.Color)

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := styles.forRow(row)
			if col > 0 {
				style = style.PaddingLeft(pad)
			}
			return style
		}).
		Rows(cellGrid(rows, columns)...)

	if opts.Titles {
		// https://github.com/charmbracelet/lipgloss/issues/261
		t = t.Headers(columns...).BorderHeader(false)
	}
	fmt.Fprintln(w, t)
}

// cellGrid lays rows out in column order, "-" standing in for empty cells.
func cellGrid(rows []map[string]interface{}, columns []string) [][]string {
	grid := make([][]string, len(rows))
	for i, row := range rows {
		grid[i] = make([]string, len(columns))
		for j, col := range columns {
			grid[i][j] = InterfaceToString(row[col], "-")
		}
	}
	return grid
}

// palette holds the header style and the alternating row styles.
type palette struct {
	header, even, odd lipgloss.Style
}

func newPalette(color bool) palette {
	base := lipgloss.NewStyle().Align(lipgloss.Left)
	p := palette{header: base, even: base, odd: base}
	if !color {
		return p
	}
	header, even, odd := getColors("colors")
	p.header = p.header.Foreground(lipgloss.Color(header))
	p.even = p.even.Foreground(lipgloss.Color(even))
	p.odd = p.odd.Foreground(lipgloss.Color(odd))
	return p
}

func (p palette) forRow(row int) lipgloss.Style {
	switch {
	case row == table.HeaderRow:
		return p.header
	case row%2 == 0:
		return p.even
	default:
		return p.odd
	}
}

// getColors reads the title, even and odd colors under key.
func getColors(key string) (header, even, odd string) {
	header, _ = config.GetString(key+".title", "#f6be00")
	even, _ = config.GetString(key+".even", "#ffffff")
	odd, _ = config.GetString(key+".odd", "#00c8f0")
	return header, even, odd
}
