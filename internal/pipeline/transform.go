package pipeline

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"wdx/internal"
)

type pairKey struct {
	country string
	series  string
}

// Dataset accumulates the full wide-to-narrow transformation in memory.
// Memory scales with dataset size; the lookup tables can only be written
// once every pair has been seen.
type Dataset struct {
	points    map[pairKey]map[int]*float64
	countries map[string]string
	series    map[string]string
	rows      int
	skipped   int
}

func NewDataset() *Dataset {
	return &Dataset{
		points:    map[pairKey]map[int]*float64{},
		countries: map[string]string{},
		series:    map[string]string{},
	}
}

// Add folds one source row into the dataset. Rows missing either code
// are skipped. Repeated (country, series) keys merge per year: a later
// parsed value overwrites, a later null never clobbers an existing
// value. The source guarantees at most one row per pair, so the merge
// only matters for defensive handling of split exports.
func (d *Dataset) Add(row internal.SourceRow) {
	code := strings.ToUpper(strings.TrimSpace(row.CountryCode))
	seriesCode := strings.TrimSpace(row.SeriesCode)
	if code == "" || seriesCode == "" {
		d.skipped++
		return
	}
	d.rows++

	d.countries[code] = row.CountryName
	d.series[seriesCode] = row.SeriesName

	key := pairKey{country: code, series: seriesCode}
	values, ok := d.points[key]
	if !ok {
		values = make(map[int]*float64, len(row.Cells))
		d.points[key] = values
	}
	for year, raw := range row.Cells {
		v, ok := ParseValue(raw)
		if !ok {
			continue
		}
		if v == nil {
			if _, exists := values[year]; exists {
				continue
			}
		}
		values[year] = v
	}
}

// ParseValue maps a raw cell to a yearly value. Empty and the ".."
// sentinel are null (nil, true). Anything that fails numeric parsing, or
// parses to a non-finite number, is dropped (false).
func ParseValue(raw string) (*float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || s == ".." {
		return nil, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, false
	}
	return &v, true
}

func (d *Dataset) Rows() int    { return d.rows }
func (d *Dataset) Skipped() int { return d.skipped }
func (d *Dataset) Pairs() int   { return len(d.points) }

func (d *Dataset) Countries() []internal.Country {
	out := make([]internal.Country, 0, len(d.countries))
	for code, name := range d.countries {
		out = append(out, internal.Country{Code: code, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func (d *Dataset) Series() []internal.Series {
	out := make([]internal.Series, 0, len(d.series))
	for code, name := range d.series {
		out = append(out, internal.Series{Code: code, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func (d *Dataset) Entries() []internal.IndexEntry {
	out := make([]internal.IndexEntry, 0, len(d.points))
	for key := range d.points {
		out = append(out, internal.IndexEntry{CountryCode: key.country, SeriesCode: key.series})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CountryCode != out[j].CountryCode {
			return out[i].CountryCode < out[j].CountryCode
		}
		return out[i].SeriesCode < out[j].SeriesCode
	})
	return out
}

// PointsFor returns the pair's observations sorted by year ascending.
func (d *Dataset) PointsFor(entry internal.IndexEntry) []internal.Point {
	values := d.points[pairKey{country: entry.CountryCode, series: entry.SeriesCode}]
	out := make([]internal.Point, 0, len(values))
	for year, v := range values {
		out = append(out, internal.Point{Year: year, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}
