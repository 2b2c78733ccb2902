package internal

// SourceRow is one observation group from the wide export: a country and
// an indicator plus the raw cell text for every recognized year column.
// Read once during the pipeline run, never persisted in this form.
type SourceRow struct {
	CountryName string
	CountryCode string
	SeriesName  string
	SeriesCode  string
	Cells       map[int]string
}

type Country struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type Series struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// IndexEntry records that a per-entity data file exists for the pair.
type IndexEntry struct {
	CountryCode string `json:"countryCode"`
	SeriesCode  string `json:"seriesCode"`
}

// Point is a single yearly observation. Value is nil when the source had
// no data for that year.
type Point struct {
	Year  int      `json:"year"`
	Value *float64 `json:"value"`
}

type RunRecord struct {
	ID         int
	TraceID    string
	Input      string
	OutputDir  string
	Rows       int
	Skipped    int
	Files      int
	Countries  int
	Series     int
	DurationMs int64
	CreatedAt  string
}
