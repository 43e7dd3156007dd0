package views

import (
	"math"
	"slices"

	"github.com/shopspring/decimal"

	"energydash/internal/energy/dataset"
)

// accumulator keeps per-column sums and counts of valid readings for one key.
type accumulator struct {
	sums   []decimal.Decimal
	counts []int
}

// grouper buckets records by an integer key.
type grouper struct {
	columns []dataset.Column
	groups  map[int]*accumulator
	labels  map[int]string
}

func newGrouper(columns []dataset.Column) *grouper {
	return &grouper{
		columns: columns,
		groups:  make(map[int]*accumulator),
		labels:  make(map[int]string),
	}
}

// add records r under key. A key exists once any record maps to it, even without valid readings.
func (g *grouper) add(key int, label string, r dataset.RawRecord) {
	acc, ok := g.groups[key]
	if !ok {
		acc = &accumulator{
			sums:   make([]decimal.Decimal, len(g.columns)),
			counts: make([]int, len(g.columns)),
		}
		g.groups[key] = acc
		g.labels[key] = label
	}
	for i, c := range g.columns {
		reading := r.Value(c)
		if !reading.Valid {
			continue
		}
		acc.sums[i] = acc.sums[i].Add(reading.Decimal)
		acc.counts[i]++
	}
}

func (g *grouper) sortedKeys() []int {
	keys := make([]int, 0, len(g.groups))
	for k := range g.groups {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// sums emits one row per key with the sum of each column. No readings sum to 0.
func (g *grouper) sums() []Row {
	rows := make([]Row, 0, len(g.groups))
	for _, k := range g.sortedKeys() {
		acc := g.groups[k]
		values := make([]float64, len(g.columns))
		for i := range g.columns {
			values[i] = acc.sums[i].InexactFloat64()
		}
		rows = append(rows, Row{Key: k, Label: g.labels[k], Values: values})
	}
	return rows
}

// means emits one row per key with the mean of each column's valid readings, NaN when there are none.
func (g *grouper) means() []Row {
	rows := make([]Row, 0, len(g.groups))
	for _, k := range g.sortedKeys() {
		acc := g.groups[k]
		values := make([]float64, len(g.columns))
		for i := range g.columns {
			if acc.counts[i] == 0 {
				values[i] = math.NaN()
				continue
			}
			values[i] = acc.sums[i].InexactFloat64() / float64(acc.counts[i])
		}
		rows = append(rows, Row{Key: k, Label: g.labels[k], Values: values})
	}
	return rows
}
