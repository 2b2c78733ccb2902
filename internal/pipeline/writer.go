package pipeline

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"wdx/internal"
	"wdx/internal/util"
)

// ErrFilenameCollision marks two distinct (country, series) pairs whose
// codes sanitize to the same data file name. Overwriting silently would
// break the index-to-file invariant, so the run aborts instead.
var ErrFilenameCollision = errors.New("filename collision")

const (
	CountriesFile = "_countries.csv"
	SeriesFile    = "_series.csv"
	IndexFile     = "_index.csv"
)

// WriteNormalized emits the full normalized layout into outDir: one data
// file per pair plus the three lookup tables. Any write failure is fatal;
// partially written directories are left as-is.
func WriteNormalized(ds *Dataset, outDir string, progressEvery int, logf func(format string, args ...any)) error {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	entries := ds.Entries()
	fileOwner := make(map[string]internal.IndexEntry, len(entries))
	for _, entry := range entries {
		name := util.PairFileName(entry.CountryCode, entry.SeriesCode)
		if prev, ok := fileOwner[name]; ok {
			return fmt.Errorf("%w: (%s, %s) and (%s, %s) both map to %s",
				ErrFilenameCollision, prev.CountryCode, prev.SeriesCode, entry.CountryCode, entry.SeriesCode, name)
		}
		fileOwner[name] = entry
	}

	written := 0
	for _, entry := range entries {
		name := util.PairFileName(entry.CountryCode, entry.SeriesCode)
		if err := writeEntityFile(filepath.Join(outDir, name), ds.PointsFor(entry)); err != nil {
			return err
		}
		written++
		if progressEvery > 0 && written%progressEvery == 0 {
			logf("wrote files=%d/%d", written, len(entries))
		}
	}

	if err := writeCSV(filepath.Join(outDir, CountriesFile), []string{"Country Code", "Country Name"}, countryRecords(ds.Countries())); err != nil {
		return err
	}
	if err := writeCSV(filepath.Join(outDir, SeriesFile), []string{"Series Code", "Series Name"}, seriesRecords(ds.Series())); err != nil {
		return err
	}
	if err := writeCSV(filepath.Join(outDir, IndexFile), []string{"Country Code", "Series Code"}, indexRecords(entries)); err != nil {
		return err
	}

	logf("wrote files=%d countries=%d series=%d index=%d", written, len(ds.countries), len(ds.series), len(entries))
	return nil
}

func writeEntityFile(path string, points []internal.Point) error {
	records := make([][]string, 0, len(points))
	for _, p := range points {
		value := ""
		if p.Value != nil {
			value = strconv.FormatFloat(*p.Value, 'f', -1, 64)
		}
		records = append(records, []string{strconv.Itoa(p.Year), value})
	}
	return writeCSV(path, []string{"Year", "Value"}, records)
}

func writeCSV(path string, header []string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		_ = f.Close()
		return err
	}
	for _, record := range records {
		if err := w.Write(record); err != nil {
			_ = f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func countryRecords(countries []internal.Country) [][]string {
	out := make([][]string, 0, len(countries))
	for _, c := range countries {
		out = append(out, []string{c.Code, c.Name})
	}
	return out
}

func seriesRecords(series []internal.Series) [][]string {
	out := make([][]string, 0, len(series))
	for _, s := range series {
		out = append(out, []string{s.Code, s.Name})
	}
	return out
}

func indexRecords(entries []internal.IndexEntry) [][]string {
	out := make([][]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, []string{e.CountryCode, e.SeriesCode})
	}
	return out
}
