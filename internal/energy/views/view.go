package views

import (
	"encoding/json"
	"math"

	"energydash/internal/energy/dataset"
)

// AggregatedView is a small derived table ordered by Key ascending, one row per key.
type AggregatedView struct {
	Kind    Kind      `json:"kind"`
	Key     Dimension `json:"key"`
	Columns []string  `json:"columns"`
	Rows    []Row     `json:"rows"`
}

// Row holds the aggregates of one key, aligned with AggregatedView.Columns.
// Values may be NaN or ±Inf (undefined ratio, mean of no readings).
type Row struct {
	Key    int
	Label  string
	Values []float64
}

// Empty reports whether the filter matched nothing.
func (v AggregatedView) Empty() bool {
	return len(v.Rows) == 0
}

// Value returns the value of column name in row i.
func (v AggregatedView) Value(i int, name string) (float64, bool) {
	if i < 0 || i >= len(v.Rows) {
		return 0, false
	}
	for j, c := range v.Columns {
		if c == name {
			return v.Rows[i].Values[j], true
		}
	}
	return 0, false
}

type rowJSON struct {
	Key    int        `json:"key"`
	Label  string     `json:"label"`
	Values []*float64 `json:"values"`
}

// MarshalJSON encodes non-finite values as null.
func (r Row) MarshalJSON() ([]byte, error) {
	out := rowJSON{Key: r.Key, Label: r.Label, Values: make([]*float64, len(r.Values))}
	for i, v := range r.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		v := v
		out.Values[i] = &v
	}
	return json.Marshal(out)
}

// Build computes the view of the given kind. The only error is ErrUnknownKind;
// a filter matching nothing yields an empty view.
func Build(ds *dataset.Dataset, kind Kind, f Filter) (AggregatedView, error) {
	switch kind {
	case KindHourly:
		return Hourly(ds, f), nil
	case KindDaily:
		return Daily(ds, f), nil
	case KindRatio:
		return Ratio(ds, f), nil
	case KindMonthlyAverage:
		return MonthlyAverage(ds, f), nil
	case KindMonthlyTotal:
		return MonthlyTotal(ds, f), nil
	case KindAnnualTrend:
		return AnnualTrend(ds, f), nil
	case KindSeries:
		return Series(ds, f), nil
	case KindProportion:
		return Proportion(ds, f), nil
	case KindDistribution:
		return Distribution(ds, f), nil
	}
	_, err := ParseKind(string(kind))
	return AggregatedView{}, err
}

// scan feeds every record accepted by f to fn in row order.
func scan(ds *dataset.Dataset, f Filter, fn func(dataset.RawRecord)) {
	ds.Stream().Filter(f.matches).MustConsume(fn)
}

func newView(kind Kind, columns []string, rows []Row) AggregatedView {
	if rows == nil {
		rows = []Row{}
	}
	return AggregatedView{
		Kind:    kind,
		Key:     kind.Dimension(),
		Columns: columns,
		Rows:    rows,
	}
}
