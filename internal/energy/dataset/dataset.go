package dataset

import (
	"slices"
	"time"

	"github.com/shpandrak/shpanstream/stream"
)

// Dataset is the cleaned, immutable table produced by one load of a source URL.
type Dataset struct {
	source    string
	fetchedAt time.Time
	records   []RawRecord
}

// New builds a Dataset and reassigns a dense row index to the given records.
// The slice is owned by the Dataset afterwards.
func New(source string, fetchedAt time.Time, records []RawRecord) *Dataset {
	for i := range records {
		records[i].Index = i
	}
	return &Dataset{
		source:    source,
		fetchedAt: fetchedAt,
		records:   records,
	}
}

func (d *Dataset) Source() string       { return d.source }
func (d *Dataset) FetchedAt() time.Time { return d.fetchedAt }
func (d *Dataset) Len() int             { return len(d.records) }

// Records returns a copy of the records in row order.
func (d *Dataset) Records() []RawRecord {
	return slices.Clone(d.records)
}

// Stream returns a lazy stream over the records in row order.
func (d *Dataset) Stream() stream.Stream[RawRecord] {
	return stream.Just(d.records...)
}

// Years returns the distinct calendar years present, ascending.
func (d *Dataset) Years() []int {
	seen := make(map[int]bool)
	var years []int
	for _, r := range d.records {
		y := r.Date.Year()
		if !seen[y] {
			seen[y] = true
			years = append(years, y)
		}
	}
	slices.Sort(years)
	return years
}

// Months returns the distinct months of year present, ascending.
func (d *Dataset) Months() []time.Month {
	var seen [13]bool
	for _, r := range d.records {
		seen[r.Date.Month()] = true
	}
	var months []time.Month
	for m := time.January; m <= time.December; m++ {
		if seen[m] {
			months = append(months, m)
		}
	}
	return months
}
