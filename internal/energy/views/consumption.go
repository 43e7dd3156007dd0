package views

import (
	"fmt"
	"strconv"

	"energydash/internal/energy/dataset"
)

// Hourly sums the selected columns per hour of day. Records without a parsed hour are skipped.
func Hourly(ds *dataset.Dataset, f Filter) AggregatedView {
	columns := f.columns()
	g := newGrouper(columns)
	scan(ds, f, func(r dataset.RawRecord) {
		if !r.HourValid {
			return
		}
		g.add(r.Hour, fmt.Sprintf("%02d:00", r.Hour), r)
	})
	return newView(KindHourly, columnNames(columns), g.sums())
}

// Daily sums the selected columns per day of month.
func Daily(ds *dataset.Dataset, f Filter) AggregatedView {
	columns := f.columns()
	g := newGrouper(columns)
	scan(ds, f, func(r dataset.RawRecord) {
		day := r.Date.Day()
		g.add(day, strconv.Itoa(day), r)
	})
	return newView(KindDaily, columnNames(columns), g.sums())
}

// MonthlyAverage averages the selected columns per month of year, pooling all years.
func MonthlyAverage(ds *dataset.Dataset, f Filter) AggregatedView {
	columns := f.columns()
	g := newGrouper(columns)
	scan(ds, f, func(r dataset.RawRecord) {
		m := r.Date.Month()
		g.add(int(m), m.String(), r)
	})
	return newView(KindMonthlyAverage, columnNames(columns), g.means())
}

// MonthlyTotal sums the selected columns per month of year, pooling all years.
func MonthlyTotal(ds *dataset.Dataset, f Filter) AggregatedView {
	columns := f.columns()
	g := newGrouper(columns)
	scan(ds, f, func(r dataset.RawRecord) {
		m := r.Date.Month()
		g.add(int(m), m.String(), r)
	})
	return newView(KindMonthlyTotal, columnNames(columns), g.sums())
}

// AnnualTrend sums the selected columns per calendar year.
func AnnualTrend(ds *dataset.Dataset, f Filter) AggregatedView {
	columns := f.columns()
	g := newGrouper(columns)
	scan(ds, f, func(r dataset.RawRecord) {
		y := r.Date.Year()
		g.add(y, strconv.Itoa(y), r)
	})
	return newView(KindAnnualTrend, columnNames(columns), g.sums())
}

// Series sums the selected columns per calendar date. Keys are encoded as yyyymmdd.
func Series(ds *dataset.Dataset, f Filter) AggregatedView {
	columns := f.columns()
	g := newGrouper(columns)
	scan(ds, f, func(r dataset.RawRecord) {
		y, m, d := r.Date.Date()
		g.add(y*10000+int(m)*100+d, r.Date.Format("2006-01-02"), r)
	})
	return newView(KindSeries, columnNames(columns), g.sums())
}
