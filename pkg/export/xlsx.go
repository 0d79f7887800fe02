package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const xlsxSheet = "Assignments"

// XLSXExporter renders datasets into a single-sheet workbook.
type XLSXExporter struct{}

// NewXLSXExporter constructs an XLSX exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// Render writes the title (when set), a bold header row, the rows and a bold footer.
func (e *XLSXExporter) Render(data Dataset) ([]byte, error) {
	if err := data.validate(); err != nil {
		return nil, err
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}

	row := 1
	if data.Title != "" {
		if err := f.SetCellValue(xlsxSheet, "A1", data.Title); err != nil {
			return nil, fmt.Errorf("write title: %w", err)
		}
		if err := f.SetCellStyle(xlsxSheet, "A1", "A1", bold); err != nil {
			return nil, fmt.Errorf("style title: %w", err)
		}
		row = 3
	}

	writeRow := func(values []string, style int) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		record := data.record(values)
		cells := make([]interface{}, len(record))
		for i, v := range record {
			cells[i] = v
		}
		if err := f.SetSheetRow(xlsxSheet, cell, &cells); err != nil {
			return err
		}
		if style != 0 {
			if err := f.SetRowStyle(xlsxSheet, row, row, style); err != nil {
				return err
			}
		}
		row++
		return nil
	}

	if err := writeRow(data.Headers, bold); err != nil {
		return nil, fmt.Errorf("write xlsx headers: %w", err)
	}
	for _, values := range data.Rows {
		if err := writeRow(values, 0); err != nil {
			return nil, fmt.Errorf("write xlsx row: %w", err)
		}
	}
	if len(data.Footer) > 0 {
		if err := writeRow(data.Footer, bold); err != nil {
			return nil, fmt.Errorf("write xlsx footer: %w", err)
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(data.Headers))
	if err != nil {
		return nil, fmt.Errorf("resolve column: %w", err)
	}
	if err := f.SetColWidth(xlsxSheet, "A", lastCol, 18); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
