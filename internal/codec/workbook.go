package codec

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/salesynth/salesynth/internal/table"
)

// Sheet names are capped by the XLSX format.
const maxSheetName = 31

func sheetName(id table.Identity) string {
	name := id.Name
	if len(name) > maxSheetName {
		name = name[:maxSheetName]
	}
	return name
}

// WriteWorkbook writes all tables into a single XLSX workbook, one sheet
// per table named after the table. Values are written as their canonical
// string form so the workbook round-trips with the CSV export.
func WriteWorkbook(path string, tables []*table.Table) error {
	book := excelize.NewFile()
	defer book.Close()

	for i, t := range tables {
		name := sheetName(t.Identity())
		if i == 0 {
			if err := book.SetSheetName(book.GetSheetName(0), name); err != nil {
				return fmt.Errorf("rename sheet %s: %w", name, err)
			}
		} else {
			if _, err := book.NewSheet(name); err != nil {
				return fmt.Errorf("create sheet %s: %w", name, err)
			}
		}

		columns := t.Columns()
		header := make([]any, len(columns))
		for j, col := range columns {
			header[j] = col.Name
		}
		if err := setRow(book, name, 1, header); err != nil {
			return err
		}
		record := make([]any, len(columns))
		for r := 0; r < t.Len(); r++ {
			row := t.Row(r)
			for j, col := range columns {
				record[j] = table.FormatValue(col.Kind, row[j])
			}
			if err := setRow(book, name, r+2, record); err != nil {
				return err
			}
		}
	}
	if err := book.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func setRow(book *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name for row %d: %w", row, err)
	}
	if err := book.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write sheet %s row %d: %w", sheet, row, err)
	}
	return nil
}
