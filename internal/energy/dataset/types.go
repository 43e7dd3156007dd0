package dataset

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reading is an optional MWh measurement. Valid is false when the source cell was empty.
type Reading = decimal.NullDecimal

// RawRecord represents one cleaned row of the daily raw consumption export.
type RawRecord struct {
	Index          int       `json:"index"`          // Dense 0-based position after cleaning
	Date           time.Time `json:"date"`           // Calendar day of the measurement
	DateTime       time.Time `json:"dateTime"`       // Timestamp of the measurement (date_heure)
	Hour           int       `json:"hour"`           // Hour of day parsed from heure, only meaningful when HourValid
	HourValid      bool      `json:"hourValid"`      // False when heure did not match HH:MM
	GasGRTgaz      Reading   `json:"gasGRTgaz"`      // Always valid in a loaded Dataset
	GasTerega      Reading   `json:"gasTerega"`      // Teréga network gas consumption
	GasTotal       Reading   `json:"gasTotal"`       // Total gas consumption
	ElectricityRTE Reading   `json:"electricityRTE"` // RTE electricity consumption
}

// Column identifies one measurement column of a RawRecord.
type Column string

const (
	ColumnGasGRTgaz      Column = "gasGRTgaz"
	ColumnGasTerega      Column = "gasTerega"
	ColumnGasTotal       Column = "gasTotal"
	ColumnElectricityRTE Column = "electricityRTE"
)

// Columns lists every measurement column in schema order.
var Columns = []Column{ColumnGasGRTgaz, ColumnGasTerega, ColumnGasTotal, ColumnElectricityRTE}

// IsValid reports whether c names a known measurement column.
func (c Column) IsValid() bool {
	switch c {
	case ColumnGasGRTgaz, ColumnGasTerega, ColumnGasTotal, ColumnElectricityRTE:
		return true
	}
	return false
}

// Value returns the reading of column c for the record.
func (r RawRecord) Value(c Column) Reading {
	switch c {
	case ColumnGasGRTgaz:
		return r.GasGRTgaz
	case ColumnGasTerega:
		return r.GasTerega
	case ColumnGasTotal:
		return r.GasTotal
	case ColumnElectricityRTE:
		return r.ElectricityRTE
	}
	return Reading{}
}
