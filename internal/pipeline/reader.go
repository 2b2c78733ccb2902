package pipeline

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"wdx/internal"
)

// ErrMissingColumn marks a source header lacking one of the required
// identification columns.
var ErrMissingColumn = errors.New("missing column")

// Year column labels look like "1960 [YR1960]"; some exports drop the
// bracket suffix, so a bare four-digit year is accepted too.
var reYearLabel = regexp.MustCompile(`^(\d{4})(?:\s*\[YR\d{4}\])?$`)

var requiredColumns = []string{"Country Name", "Country Code", "Series Name", "Series Code"}

type sourceHeader struct {
	countryName int
	countryCode int
	seriesName  int
	seriesCode  int
	years       map[int]int // column index -> year
}

func parseSourceHeader(record []string) (sourceHeader, error) {
	h := sourceHeader{countryName: -1, countryCode: -1, seriesName: -1, seriesCode: -1, years: map[int]int{}}
	for i, label := range record {
		label = strings.TrimSpace(label)
		switch label {
		case "Country Name":
			h.countryName = i
		case "Country Code":
			h.countryCode = i
		case "Series Name":
			h.seriesName = i
		case "Series Code":
			h.seriesCode = i
		default:
			if m := reYearLabel.FindStringSubmatch(label); m != nil {
				year, _ := strconv.Atoi(m[1])
				h.years[i] = year
			}
		}
	}

	for _, name := range requiredColumns {
		if !h.has(name) {
			return sourceHeader{}, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}
	return h, nil
}

func (h sourceHeader) has(name string) bool {
	switch name {
	case "Country Name":
		return h.countryName >= 0
	case "Country Code":
		return h.countryCode >= 0
	case "Series Name":
		return h.seriesName >= 0
	case "Series Code":
		return h.seriesCode >= 0
	}
	return false
}

func (h sourceHeader) row(record []string) internal.SourceRow {
	at := func(i int) string {
		if i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}

	row := internal.SourceRow{
		CountryName: at(h.countryName),
		CountryCode: at(h.countryCode),
		SeriesName:  at(h.seriesName),
		SeriesCode:  at(h.seriesCode),
		Cells:       make(map[int]string, len(h.years)),
	}
	for col, year := range h.years {
		row.Cells[year] = at(col)
	}
	return row
}

// ReadSource streams a wide CSV export, invoking fn for every data row.
// The first record is the header; a required column missing there is
// fatal for the whole run.
func ReadSource(r io.Reader, fn func(internal.SourceRow) error) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	first, err := cr.Read()
	if err == io.EOF {
		return fmt.Errorf("%w: empty input", ErrMissingColumn)
	}
	if err != nil {
		return err
	}
	header, err := parseSourceHeader(first)
	if err != nil {
		return err
	}

	for {
		record, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(header.row(record)); err != nil {
			return err
		}
	}
}

// ReadSourceFile dispatches on the file extension: .xlsx workbooks go
// through excelize, everything else is treated as CSV.
func ReadSourceFile(path string, fn func(internal.SourceRow) error) error {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return readSourceXLSX(path, fn)
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return ReadSource(f, fn)
}
