package pipeline

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"wdx/internal"
)

// readSourceXLSX reads the first sheet of a workbook and feeds its rows
// through the same header/row path as the CSV reader.
func readSourceXLSX(path string, fn func(internal.SourceRow) error) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("%w: empty input", ErrMissingColumn)
	}

	header, err := parseSourceHeader(rows[0])
	if err != nil {
		return err
	}
	for _, record := range rows[1:] {
		if err := fn(header.row(record)); err != nil {
			return err
		}
	}
	return nil
}
