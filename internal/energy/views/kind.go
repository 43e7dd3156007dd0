package views

import (
	"errors"
	"fmt"
)

// Kind names one aggregation view.
type Kind string

const (
	KindHourly         Kind = "hourly"
	KindDaily          Kind = "daily"
	KindRatio          Kind = "ratio"
	KindMonthlyAverage Kind = "monthlyAverage"
	KindMonthlyTotal   Kind = "monthlyTotal"
	KindAnnualTrend    Kind = "annualTrend"
	KindSeries         Kind = "series"
	KindProportion     Kind = "proportion"
	KindDistribution   Kind = "distribution"
)

// Dimension is the grouping key of a view.
type Dimension string

const (
	DimensionHour   Dimension = "hour"
	DimensionDay    Dimension = "day"
	DimensionMonth  Dimension = "month"
	DimensionYear   Dimension = "year"
	DimensionDate   Dimension = "date"
	DimensionColumn Dimension = "column"
)

var ErrUnknownKind = errors.New("unknown view kind")

// kindDimensions maps every known kind to its grouping key.
var kindDimensions = map[Kind]Dimension{
	KindHourly:         DimensionHour,
	KindDaily:          DimensionDay,
	KindRatio:          DimensionDay,
	KindMonthlyAverage: DimensionMonth,
	KindMonthlyTotal:   DimensionMonth,
	KindAnnualTrend:    DimensionYear,
	KindSeries:         DimensionDate,
	KindProportion:     DimensionColumn,
	KindDistribution:   DimensionColumn,
}

// Kinds lists the known kinds in a stable order.
var Kinds = []Kind{
	KindHourly,
	KindDaily,
	KindRatio,
	KindMonthlyAverage,
	KindMonthlyTotal,
	KindAnnualTrend,
	KindSeries,
	KindProportion,
	KindDistribution,
}

// IsValid checks if the Kind is one of the predefined views
func (k Kind) IsValid() bool {
	_, ok := kindDimensions[k]
	return ok
}

// Dimension returns the grouping key of k.
func (k Kind) Dimension() Dimension {
	return kindDimensions[k]
}

// ParseKind parses a string into a valid Kind
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("%w: %s", ErrUnknownKind, s)
	}
	return k, nil
}
