package tabular

import (
	"fmt"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
)

func readXLSX(path string, opts Options) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, nil
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheet, err)
	}
	return rows, nil
}

// readXLS reads the first sheet of a legacy workbook.
func readXLS(path string, _ Options) ([][]string, error) {
	wb, err := xls.OpenFile(path)
	if err != nil {
		return nil, err
	}
	if wb.GetNumberSheets() == 0 {
		return nil, nil
	}

	sheet, err := wb.GetSheet(0)
	if err != nil {
		return nil, fmt.Errorf("sheet 0: %w", err)
	}

	var rows [][]string
	for i := 0; i <= int(sheet.GetNumberRows()); i++ {
		row, err := sheet.GetRow(i)
		if err != nil || row == nil {
			continue
		}
		var cells []string
		for _, col := range row.GetCols() {
			if col == nil {
				cells = append(cells, "")
				continue
			}
			cells = append(cells, col.GetString())
		}
		rows = append(rows, cells)
	}
	return rows, nil
}
