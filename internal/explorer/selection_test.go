package explorer

import (
	"testing"

	"wdx/internal"
)

func fp(v float64) *float64 { return &v }

func sampleResults() []CountrySeries {
	return []CountrySeries{
		{CountryCode: "ARG", Points: []internal.Point{
			{Year: 1961, Value: fp(7670.6)},
			{Year: 1960, Value: fp(7397.1)},
		}},
		{CountryCode: "USA", Points: []internal.Point{
			{Year: 1960, Value: fp(17000)},
			{Year: 1962, Value: nil},
		}},
	}
}

func TestStaleSelectionDiscarded(t *testing.T) {
	m := NewModel()

	tagA := m.Set(Selection{CountryCodes: []string{"ARG"}, SeriesCode: "A", Chart: ChartLine})
	tagB := m.Set(Selection{CountryCodes: []string{"ARG"}, SeriesCode: "B", Chart: ChartLine})

	resultsA := []CountrySeries{{CountryCode: "ARG", Points: []internal.Point{{Year: 1960, Value: fp(1)}}}}
	resultsB := []CountrySeries{{CountryCode: "ARG", Points: []internal.Point{{Year: 1960, Value: fp(2)}}}}

	// B's result lands first, then A's stale one must be ignored.
	if !m.Apply(tagB, resultsB) {
		t.Fatal("current tag rejected")
	}
	if m.Apply(tagA, resultsA) {
		t.Fatal("stale tag applied")
	}

	got := m.Results()
	if len(got) != 1 || *got[0].Points[0].Value != 2 {
		t.Fatalf("results = %+v, want series B data", got)
	}
}

func TestSetClearsResults(t *testing.T) {
	m := NewModel()
	tag := m.Set(Selection{SeriesCode: "A"})
	m.Apply(tag, sampleResults())
	m.Set(Selection{SeriesCode: "B"})
	if m.Results() != nil {
		t.Fatal("changing selection should drop the old results")
	}
}

func TestDistinctYears(t *testing.T) {
	years := DistinctYears(sampleResults())
	want := []int{1960, 1961, 1962}
	if len(years) != len(want) {
		t.Fatalf("years = %v", years)
	}
	for i := range want {
		if years[i] != want[i] {
			t.Fatalf("years = %v, want %v", years, want)
		}
	}
}

func TestLongRows(t *testing.T) {
	rows := LongRows(sampleResults())
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want 4", len(rows))
	}
	// Per-country points come out year-ascending even though the fetch
	// layer preserves file order.
	if rows[0].Year != 1960 || rows[0].CountryCode != "ARG" {
		t.Fatalf("rows[0] = %+v", rows[0])
	}
	if rows[1].Year != 1961 {
		t.Fatalf("rows[1] = %+v", rows[1])
	}
}

func TestWideByYear(t *testing.T) {
	table := WideByYear(sampleResults())

	wantCols := []string{"Year", "ARG", "USA"}
	for i, col := range wantCols {
		if table.Columns[i] != col {
			t.Fatalf("columns = %v", table.Columns)
		}
	}
	if len(table.Rows) != 3 {
		t.Fatalf("rows = %v", table.Rows)
	}
	// 1961 has no USA observation; 1962 has a null one. Both render empty.
	if table.Rows[1][2] != "" || table.Rows[2][2] != "" {
		t.Fatalf("rows = %v", table.Rows)
	}
	if table.Rows[0][1] != "7397.1" {
		t.Fatalf("rows[0] = %v", table.Rows[0])
	}
}

func TestWideByCountry(t *testing.T) {
	table := WideByCountry(sampleResults())

	if table.Columns[0] != "Country" || len(table.Columns) != 4 {
		t.Fatalf("columns = %v", table.Columns)
	}
	if len(table.Rows) != 2 || table.Rows[0][0] != "ARG" {
		t.Fatalf("rows = %v", table.Rows)
	}
	if table.Rows[1][1] != "17000" {
		t.Fatalf("USA 1960 = %q", table.Rows[1][1])
	}
}
