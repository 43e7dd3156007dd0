package odre

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/shopspring/decimal"

	"energydash/internal/energy/dataset"
)

var (
	ErrEmptyBody       = errors.New("empty body")
	ErrMissingColumn   = errors.New("missing required column")
	ErrNegativeReading = errors.New("negative reading")
)

const (
	dateLayout      = "2006-01-02"
	timeOfDayLayout = "15:04"
)

// dateTimeLayouts are tried in order for the date_heure column.
var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// naValues are read as missing cells, matching the NA tokens pandas recognises by default.
var naValues = []string{
	"#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan", "1.#IND", "1.#QNAN",
	"<NA>", "N/A", "NA", "NULL", "NaN", "None", "n/a", "nan", "null",
}

// DecodeCSV reads a semicolon-delimited export with a header row.
// Rows with a missing GRTgaz reading are dropped; every retained row must carry valid dates.
func DecodeCSV(r io.Reader) ([]dataset.RawRecord, error) {
	reader := csv.NewReader(r)
	reader.Comma = Delimiter

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &ParseError{Err: ErrEmptyBody}
	}
	if err != nil {
		return nil, &ParseError{Line: 1, Err: err}
	}
	if err := normalizeHeader(header); err != nil {
		return nil, err
	}

	// Rows are tokenized here so each keeps its source line.
	table := [][]string{header}
	var lines []int
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{Err: err}
		}
		line, _ := reader.FieldPos(0)
		table = append(table, row)
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return nil, nil
	}

	df := dataframe.LoadRecords(table,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(naValues),
	)
	if df.Err != nil {
		return nil, &ParseError{Err: df.Err}
	}

	cols := make(frameColumns, len(RequiredHeaders))
	for _, name := range RequiredHeaders {
		cols[name] = df.Col(name)
	}

	records := make([]dataset.RawRecord, 0, len(lines))
	for i, line := range lines {
		record, keep, err := decodeRow(cols, i, line)
		if err != nil {
			return nil, err
		}
		if keep {
			records = append(records, record)
		}
	}

	return records, nil
}

// normalizeHeader trims the header names in place and checks the required columns.
func normalizeHeader(header []string) error {
	seen := make(map[string]bool, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		header[i] = strings.TrimSpace(name)
		seen[header[i]] = true
	}
	for _, name := range RequiredHeaders {
		if !seen[name] {
			return &ParseError{Line: 1, Column: name, Err: ErrMissingColumn}
		}
	}
	return nil
}

// frameColumns holds the required columns of the loaded frame, all typed as strings.
type frameColumns map[string]series.Series

// cell returns the trimmed value of column name in row i. ok is false when the cell is empty or NA.
func (c frameColumns) cell(name string, i int) (value string, ok bool) {
	e := c[name].Elem(i)
	if e.IsNA() {
		return "", false
	}
	value = strings.TrimSpace(e.String())
	if value == "" || slices.Contains(naValues, value) {
		return "", false
	}
	return value, true
}

// decodeRow converts row i. keep is false when the row fails the completeness filter.
func decodeRow(cols frameColumns, i, line int) (record dataset.RawRecord, keep bool, err error) {
	// Completeness filter runs before any other conversion.
	if _, ok := cols.cell(HeaderGasGRTgaz, i); !ok {
		return record, false, nil
	}

	date, _ := cols.cell(HeaderDate, i)
	record.Date, err = time.Parse(dateLayout, date)
	if err != nil {
		return record, false, &ParseError{Line: line, Column: HeaderDate, Err: err}
	}

	dateTime, _ := cols.cell(HeaderDateTime, i)
	record.DateTime, err = parseDateTime(dateTime)
	if err != nil {
		return record, false, &ParseError{Line: line, Column: HeaderDateTime, Err: err}
	}

	hour, _ := cols.cell(HeaderTimeOfDay, i)
	record.Hour, record.HourValid = parseHour(hour)

	for _, column := range dataset.Columns {
		header := measurementHeaders[column]
		reading, err := parseReading(cols.cell(header, i))
		if err != nil {
			return record, false, &ParseError{Line: line, Column: header, Err: err}
		}
		switch column {
		case dataset.ColumnGasGRTgaz:
			record.GasGRTgaz = reading
		case dataset.ColumnGasTerega:
			record.GasTerega = reading
		case dataset.ColumnGasTotal:
			record.GasTotal = reading
		case dataset.ColumnElectricityRTE:
			record.ElectricityRTE = reading
		}
	}

	return record, true, nil
}

func parseDateTime(s string) (time.Time, error) {
	var firstErr error
	for _, layout := range dateTimeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// parseHour extracts the hour from an HH:MM string. ok is false on any other shape.
func parseHour(s string) (hour int, ok bool) {
	t, err := time.Parse(timeOfDayLayout, s)
	if err != nil {
		return 0, false
	}
	return t.Hour(), true
}

func parseReading(s string, present bool) (dataset.Reading, error) {
	if !present {
		return dataset.Reading{}, nil
	}
	d, err := decimal.NewFromString(strings.Replace(s, ",", ".", 1))
	if err != nil {
		return dataset.Reading{}, fmt.Errorf("invalid reading %q: %w", s, err)
	}
	if d.IsNegative() {
		return dataset.Reading{}, fmt.Errorf("%w: %s", ErrNegativeReading, s)
	}
	return dataset.Reading{Decimal: d, Valid: true}, nil
}
