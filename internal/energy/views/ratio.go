package views

import (
	"math"
	"slices"
	"strconv"

	"energydash/internal/energy/dataset"
)

// RatioColumn is the derived column of the ratio view.
const RatioColumn = "gas_to_electricity_ratio"

type ratioBucket struct {
	sum   float64
	count int
}

// Ratio averages, per day of month, the gasTotal / electricityRTE ratio of each record.
// The ratio is taken per record before averaging. Records missing either reading, or with
// 0/0, do not contribute; a zero electricity reading with positive gas contributes +Inf.
// Selected columns are ignored.
func Ratio(ds *dataset.Dataset, f Filter) AggregatedView {
	buckets := make(map[int]*ratioBucket)
	scan(ds, f, func(r dataset.RawRecord) {
		day := r.Date.Day()
		b, ok := buckets[day]
		if !ok {
			b = &ratioBucket{}
			buckets[day] = b
		}
		ratio, ok := recordRatio(r)
		if !ok {
			return
		}
		b.sum += ratio
		b.count++
	})

	days := make([]int, 0, len(buckets))
	for d := range buckets {
		days = append(days, d)
	}
	slices.Sort(days)

	rows := make([]Row, 0, len(days))
	for _, d := range days {
		b := buckets[d]
		mean := math.NaN()
		if b.count > 0 {
			mean = b.sum / float64(b.count)
		}
		rows = append(rows, Row{Key: d, Label: strconv.Itoa(d), Values: []float64{mean}})
	}
	return newView(KindRatio, []string{RatioColumn}, rows)
}

func recordRatio(r dataset.RawRecord) (float64, bool) {
	if !r.GasTotal.Valid || !r.ElectricityRTE.Valid {
		return 0, false
	}
	ratio := r.GasTotal.Decimal.InexactFloat64() / r.ElectricityRTE.Decimal.InexactFloat64()
	if math.IsNaN(ratio) {
		return 0, false
	}
	return ratio, true
}
