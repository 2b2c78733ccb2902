package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"wdx/internal"
)

func TestReadSourceXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"Country Name", "Country Code", "Series Name", "Series Code", "1960 [YR1960]", "1961 [YR1961]"},
		{"Argentina", "ARG", "GDP per capita", "NY.GDP.PCAP.KD", "7397.1", ".."},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	path := filepath.Join(t.TempDir(), "source.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}

	var got []internal.SourceRow
	err := ReadSourceFile(path, func(row internal.SourceRow) error {
		got = append(got, row)
		return nil
	})
	if err != nil {
		t.Fatalf("ReadSourceFile: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("rows = %d, want 1", len(got))
	}
	if got[0].CountryCode != "ARG" || got[0].Cells[1960] != "7397.1" || got[0].Cells[1961] != ".." {
		t.Fatalf("row = %+v", got[0])
	}
}
