package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"wdx/internal"
	"wdx/internal/pipeline"
	"wdx/internal/util"
)

// ErrInconsistent marks an index entry referencing a code that is absent
// from its lookup table. Distinct from a plain not-found: the normalized
// layout itself is corrupt.
var ErrInconsistent = errors.New("index references unknown code")

// Catalog is the in-memory view of the three lookup tables. Immutable
// after Load; safe for concurrent readers.
type Catalog struct {
	countries map[string]internal.Country
	series    map[string]internal.Series
	entries   []internal.IndexEntry
	byCountry map[string][]internal.IndexEntry
	bySeries  map[string][]internal.IndexEntry
}

// PairRef is one (country, series) combination with its resolved data
// file name.
type PairRef struct {
	Country  internal.Country `json:"country"`
	Series   internal.Series  `json:"series"`
	FileName string           `json:"fileName"`
}

type Stats struct {
	Countries           int     `json:"countries"`
	Series              int     `json:"series"`
	Entries             int     `json:"entries"`
	AvgSeriesPerCountry float64 `json:"avgSeriesPerCountry"`
}

// Load reads the lookup tables from a normalized output directory.
func Load(dir string) (*Catalog, error) {
	c := &Catalog{
		countries: map[string]internal.Country{},
		series:    map[string]internal.Series{},
		byCountry: map[string][]internal.IndexEntry{},
		bySeries:  map[string][]internal.IndexEntry{},
	}

	if err := readTable(filepath.Join(dir, pipeline.CountriesFile), func(record []string) {
		c.countries[record[0]] = internal.Country{Code: record[0], Name: record[1]}
	}); err != nil {
		return nil, err
	}
	if err := readTable(filepath.Join(dir, pipeline.SeriesFile), func(record []string) {
		c.series[record[0]] = internal.Series{Code: record[0], Name: record[1]}
	}); err != nil {
		return nil, err
	}
	if err := readTable(filepath.Join(dir, pipeline.IndexFile), func(record []string) {
		entry := internal.IndexEntry{CountryCode: record[0], SeriesCode: record[1]}
		c.entries = append(c.entries, entry)
		c.byCountry[entry.CountryCode] = append(c.byCountry[entry.CountryCode], entry)
		c.bySeries[entry.SeriesCode] = append(c.bySeries[entry.SeriesCode], entry)
	}); err != nil {
		return nil, err
	}

	return c, nil
}

func readTable(path string, fn func(record []string)) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	if _, err := r.Read(); err != nil {
		return fmt.Errorf("read header of %s: %w", filepath.Base(path), err)
	}
	for {
		record, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if len(record) < 2 {
			continue
		}
		fn(record)
	}
}

// Country looks up a country by exact code. A miss is an explicit false,
// never an error.
func (c *Catalog) Country(code string) (internal.Country, bool) {
	country, ok := c.countries[code]
	return country, ok
}

func (c *Catalog) Series(code string) (internal.Series, bool) {
	series, ok := c.series[code]
	return series, ok
}

func (c *Catalog) Entries() []internal.IndexEntry {
	return c.entries
}

// SeriesForCountry lists every series available for a country, each with
// its precomputed data file name.
func (c *Catalog) SeriesForCountry(code string) ([]PairRef, error) {
	return c.resolve(c.byCountry[code])
}

// CountriesForSeries lists every country available for a series.
func (c *Catalog) CountriesForSeries(code string) ([]PairRef, error) {
	return c.resolve(c.bySeries[code])
}

func (c *Catalog) resolve(entries []internal.IndexEntry) ([]PairRef, error) {
	out := make([]PairRef, 0, len(entries))
	for _, entry := range entries {
		country, ok := c.countries[entry.CountryCode]
		if !ok {
			return nil, fmt.Errorf("%w: country %s", ErrInconsistent, entry.CountryCode)
		}
		series, ok := c.series[entry.SeriesCode]
		if !ok {
			return nil, fmt.Errorf("%w: series %s", ErrInconsistent, entry.SeriesCode)
		}
		out = append(out, PairRef{
			Country:  country,
			Series:   series,
			FileName: util.PairFileName(entry.CountryCode, entry.SeriesCode),
		})
	}
	return out, nil
}

// SearchCountries matches the query case-insensitively against country
// display names. An empty query returns everything.
func (c *Catalog) SearchCountries(query string) []internal.Country {
	q := strings.ToLower(query)
	out := make([]internal.Country, 0)
	for _, country := range c.countries {
		if strings.Contains(strings.ToLower(country.Name), q) {
			out = append(out, country)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func (c *Catalog) SearchSeries(query string) []internal.Series {
	q := strings.ToLower(query)
	out := make([]internal.Series, 0)
	for _, series := range c.series {
		if strings.Contains(strings.ToLower(series.Name), q) {
			out = append(out, series)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func (c *Catalog) Stats() Stats {
	s := Stats{
		Countries: len(c.countries),
		Series:    len(c.series),
		Entries:   len(c.entries),
	}
	if s.Countries > 0 {
		s.AvgSeriesPerCountry = float64(s.Entries) / float64(s.Countries)
	}
	return s
}
