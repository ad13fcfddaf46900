package export

import (
	"bytes"

	"github.com/xuri/excelize/v2"

	"github.com/orlic/leadtap/internal/model"
)

const sheetName = "Businesses"

// renderXLSX writes a single-sheet workbook with the shared column order
// and widths sized to the longest cell in each column.
func renderXLSX(records []model.BusinessRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	widths := make([]int, len(columns))
	writeRow := func(rowIdx int, cells []string) error {
		for col, val := range cells {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, val); err != nil {
				return err
			}
			if len(val) > widths[col] {
				widths[col] = len(val)
			}
		}
		return nil
	}

	if err := writeRow(1, columns); err != nil {
		return nil, err
	}
	for i, rec := range records {
		if err := writeRow(i+2, row(rec)); err != nil {
			return nil, err
		}
	}

	for col := range columns {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return nil, err
		}
		width := float64(widths[col]) + 2
		if width > 60 {
			width = 60
		}
		if err := f.SetColWidth(sheetName, name, name, width); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
