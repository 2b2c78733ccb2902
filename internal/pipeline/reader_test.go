package pipeline

import (
	"errors"
	"strings"
	"testing"

	"wdx/internal"
)

func TestReadSourceYearColumns(t *testing.T) {
	src := strings.Join([]string{
		`Country Name,Country Code,Series Name,Series Code,1960 [YR1960],1961,Extra Notes`,
		`Argentina,ARG,GDP per capita,NY.GDP.PCAP.KD,7397.1,7670.6,ignored`,
	}, "\n")

	var rows []internal.SourceRow
	err := ReadSource(strings.NewReader(src), func(row internal.SourceRow) error {
		rows = append(rows, row)
		return nil
	})
	if err != nil {
		t.Fatalf("ReadSource: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}

	row := rows[0]
	if row.CountryCode != "ARG" || row.SeriesCode != "NY.GDP.PCAP.KD" {
		t.Fatalf("unexpected row: %+v", row)
	}
	if len(row.Cells) != 2 {
		t.Fatalf("cells = %v, want years 1960 and 1961 only", row.Cells)
	}
	if row.Cells[1960] != "7397.1" || row.Cells[1961] != "7670.6" {
		t.Fatalf("cells = %v", row.Cells)
	}
}

func TestReadSourceMissingColumn(t *testing.T) {
	src := "Country Name,Country Code,Series Name,1960 [YR1960]\nArgentina,ARG,GDP,1"

	err := ReadSource(strings.NewReader(src), func(internal.SourceRow) error { return nil })
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("err = %v, want ErrMissingColumn", err)
	}
	if err == nil || !strings.Contains(err.Error(), "Series Code") {
		t.Fatalf("error should name the column: %v", err)
	}
}

func TestReadSourceEmptyInput(t *testing.T) {
	err := ReadSource(strings.NewReader(""), func(internal.SourceRow) error { return nil })
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("err = %v, want ErrMissingColumn", err)
	}
}

func TestReadSourceShortRecords(t *testing.T) {
	// Rows may be shorter than the header; missing cells read as empty.
	src := strings.Join([]string{
		`Country Name,Country Code,Series Name,Series Code,1960 [YR1960]`,
		`Argentina,ARG,GDP,NY.GDP.MKTP.CD`,
	}, "\n")

	var rows []internal.SourceRow
	err := ReadSource(strings.NewReader(src), func(row internal.SourceRow) error {
		rows = append(rows, row)
		return nil
	})
	if err != nil {
		t.Fatalf("ReadSource: %v", err)
	}
	if len(rows) != 1 || rows[0].Cells[1960] != "" {
		t.Fatalf("rows = %+v", rows)
	}
}
