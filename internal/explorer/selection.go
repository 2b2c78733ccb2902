package explorer

import (
	"sort"
	"strconv"
	"sync"

	"wdx/internal"
)

type ChartKind string

const (
	ChartLine  ChartKind = "line"
	ChartBar   ChartKind = "bar"
	ChartTable ChartKind = "table"
)

// Selection is the user-driven state of the comparison view.
type Selection struct {
	CountryCodes []string
	SeriesCode   string
	Chart        ChartKind
	Year         int
}

// Model holds the current selection plus the last applied fetch results.
// Every Set bumps the tag; a result arriving with an older tag is
// discarded, so fetches that were superseded mid-flight never land.
type Model struct {
	mu      sync.Mutex
	sel     Selection
	tag     uint64
	results []CountrySeries
}

func NewModel() *Model {
	return &Model{}
}

// Set replaces the selection and returns the tag to attach to the
// fetches issued for it.
func (m *Model) Set(sel Selection) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sel = sel
	m.tag++
	m.results = nil
	return m.tag
}

func (m *Model) Selection() Selection {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sel
}

// Apply stores fetch results if the tag still matches the current
// selection. Returns false for a stale result.
func (m *Model) Apply(tag uint64, results []CountrySeries) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if tag != m.tag {
		return false
	}
	m.results = results
	return true
}

func (m *Model) Results() []CountrySeries {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.results
}

// DistinctYears collects every year present across the fetched results,
// ascending. Feeds the comparison-year selector.
func DistinctYears(results []CountrySeries) []int {
	seen := map[int]struct{}{}
	for _, cs := range results {
		for _, p := range cs.Points {
			seen[p.Year] = struct{}{}
		}
	}
	out := make([]int, 0, len(seen))
	for year := range seen {
		out = append(out, year)
	}
	sort.Ints(out)
	return out
}

// LongRow is one observation in narrow form: country, year, value.
type LongRow struct {
	CountryCode string   `json:"countryCode"`
	Year        int      `json:"year"`
	Value       *float64 `json:"value"`
}

func LongRows(results []CountrySeries) []LongRow {
	out := make([]LongRow, 0)
	for _, cs := range results {
		points := sortedPoints(cs.Points)
		for _, p := range points {
			out = append(out, LongRow{CountryCode: cs.CountryCode, Year: p.Year, Value: p.Value})
		}
	}
	return out
}

// WideTable is a rendered projection: a header row plus body rows of
// preformatted cells.
type WideTable struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// WideByYear projects years as rows with one column per country.
func WideByYear(results []CountrySeries) WideTable {
	years := DistinctYears(results)
	table := WideTable{Columns: []string{"Year"}}
	for _, cs := range results {
		table.Columns = append(table.Columns, cs.CountryCode)
	}

	byCountry := make([]map[int]*float64, len(results))
	for i, cs := range results {
		byCountry[i] = pointMap(cs.Points)
	}

	for _, year := range years {
		row := []string{strconv.Itoa(year)}
		for i := range results {
			row = append(row, formatCell(byCountry[i], year))
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

// WideByCountry projects countries as rows with one column per year.
func WideByCountry(results []CountrySeries) WideTable {
	years := DistinctYears(results)
	table := WideTable{Columns: []string{"Country"}}
	for _, year := range years {
		table.Columns = append(table.Columns, strconv.Itoa(year))
	}

	for _, cs := range results {
		values := pointMap(cs.Points)
		row := []string{cs.CountryCode}
		for _, year := range years {
			row = append(row, formatCell(values, year))
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func sortedPoints(points []internal.Point) []internal.Point {
	out := make([]internal.Point, len(points))
	copy(out, points)
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

func pointMap(points []internal.Point) map[int]*float64 {
	out := make(map[int]*float64, len(points))
	for _, p := range points {
		out[p.Year] = p.Value
	}
	return out
}

func formatCell(values map[int]*float64, year int) string {
	v, ok := values[year]
	if !ok || v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
