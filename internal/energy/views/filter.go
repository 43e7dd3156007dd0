package views

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"energydash/internal/energy/dataset"
)

var ErrUnknownColumn = errors.New("unknown column")

// DefaultColumns are used when a Filter selects no columns.
var DefaultColumns = []dataset.Column{dataset.ColumnGasTotal, dataset.ColumnElectricityRTE}

// Filter restricts the records a view aggregates and selects the measured columns.
// Zero Year or Month means all. Values absent from the dataset simply match nothing.
type Filter struct {
	Year    int
	Month   time.Month
	Columns []dataset.Column
}

func (f Filter) matches(r dataset.RawRecord) bool {
	if f.Year != 0 && r.Date.Year() != f.Year {
		return false
	}
	if f.Month != 0 && r.Date.Month() != f.Month {
		return false
	}
	return true
}

func (f Filter) columns() []dataset.Column {
	if len(f.Columns) == 0 {
		return DefaultColumns
	}
	return f.Columns
}

// ParseColumns parses a comma separated list of column names. An empty string yields nil.
func ParseColumns(s string) ([]dataset.Column, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var columns []dataset.Column
	seen := make(map[dataset.Column]bool)
	for _, part := range strings.Split(s, ",") {
		c := dataset.Column(strings.TrimSpace(part))
		if !c.IsValid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, part)
		}
		if !seen[c] {
			seen[c] = true
			columns = append(columns, c)
		}
	}
	return columns, nil
}

func columnNames(columns []dataset.Column) []string {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = string(c)
	}
	return names
}
