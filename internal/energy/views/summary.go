package views

import (
	"math"
	"slices"

	"github.com/shopspring/decimal"

	"energydash/internal/energy/dataset"
)

// Proportion value columns
const (
	ProportionTotal = "total"
	ProportionShare = "share"
)

// Distribution value columns
const (
	DistributionCount  = "count"
	DistributionMin    = "min"
	DistributionQ1     = "q1"
	DistributionMedian = "median"
	DistributionQ3     = "q3"
	DistributionMax    = "max"
)

// Proportion totals each selected column and its share of the grand total.
// Rows are keyed by the column's position in the selection.
func Proportion(ds *dataset.Dataset, f Filter) AggregatedView {
	columns := f.columns()
	totals := make([]decimal.Decimal, len(columns))
	matched := false
	scan(ds, f, func(r dataset.RawRecord) {
		matched = true
		for i, c := range columns {
			if reading := r.Value(c); reading.Valid {
				totals[i] = totals[i].Add(reading.Decimal)
			}
		}
	})
	if !matched {
		return newView(KindProportion, []string{ProportionTotal, ProportionShare}, nil)
	}

	grand := decimal.Sum(decimal.Zero, totals...)
	rows := make([]Row, len(columns))
	for i, c := range columns {
		share := math.NaN()
		if !grand.IsZero() {
			share = totals[i].InexactFloat64() / grand.InexactFloat64()
		}
		rows[i] = Row{Key: i, Label: string(c), Values: []float64{totals[i].InexactFloat64(), share}}
	}
	return newView(KindProportion, []string{ProportionTotal, ProportionShare}, rows)
}

// Distribution summarises each selected column with a five-number summary
// (linear-interpolated quartiles) and the count of valid readings.
func Distribution(ds *dataset.Dataset, f Filter) AggregatedView {
	names := []string{
		DistributionCount,
		DistributionMin,
		DistributionQ1,
		DistributionMedian,
		DistributionQ3,
		DistributionMax,
	}
	columns := f.columns()
	samples := make([][]float64, len(columns))
	matched := false
	scan(ds, f, func(r dataset.RawRecord) {
		matched = true
		for i, c := range columns {
			if reading := r.Value(c); reading.Valid {
				samples[i] = append(samples[i], reading.Decimal.InexactFloat64())
			}
		}
	})
	if !matched {
		return newView(KindDistribution, names, nil)
	}

	rows := make([]Row, len(columns))
	for i, c := range columns {
		values := samples[i]
		slices.Sort(values)
		rows[i] = Row{
			Key:   i,
			Label: string(c),
			Values: []float64{
				float64(len(values)),
				quantile(values, 0),
				quantile(values, 0.25),
				quantile(values, 0.5),
				quantile(values, 0.75),
				quantile(values, 1),
			},
		}
	}
	return newView(KindDistribution, names, rows)
}

// quantile returns the q-th quantile of sorted values by linear interpolation, NaN when empty.
func quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
