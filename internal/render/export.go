package render

import (
	"fmt"
	"io"

	"farmadmin/internal/client"
	"farmadmin/internal/page"

	"github.com/xuri/excelize/v2"
)

// Export writes the page's table to w as a single sheet xlsx workbook.
// Numeric cells stay numeric.
func Export(w io.Writer, s page.Schema, items []client.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(s)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	head := make([]any, len(s.Columns))
	for i, c := range s.Columns {
		head[i] = c.Header
	}
	if err := f.SetSheetRow(sheet, "A1", &head); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(max(len(s.Columns), 1), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	for i, rec := range items {
		row := make([]any, len(s.Columns))
		for j, c := range s.Columns {
			row[j] = exportValue(c, rec)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func exportValue(c page.Column, rec client.Record) any {
	if c.Format == nil {
		if v, ok := rec.Lookup(c.Key); ok {
			if n, isNum := v.(float64); isNum {
				return n
			}
		}
	}
	return Cell(c, rec)
}

// sheetName is the page title cut to the 31 characters a sheet name allows.
func sheetName(s page.Schema) string {
	name := s.Title
	if name == "" {
		name = s.Entity
	}
	if name == "" {
		return "Sheet1"
	}
	r := []rune(name)
	if len(r) > 31 {
		r = r[:31]
	}
	return string(r)
}
