package render

import (
	"fmt"
	"io"
	"strings"

	"farmadmin/internal/page"

	"github.com/xuri/excelize/v2"
)

// Sheet is a workbook read back into form values.
type Sheet struct {
	Forms []page.Form
	// Rows maps each form to its 1-based row in the sheet.
	Rows []int
	// Ignored lists header cells that name no field.
	Ignored []string
}

// ReadSheet reads the first sheet of an xlsx workbook into forms of s.
// When the first row names at least one field (by name, label or column
// header) it is taken as the header row; otherwise cells map to s.Fields
// in order. Blank rows are skipped.
func ReadSheet(r io.Reader, s page.Schema) (*Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	out := &Sheet{}
	if len(rows) == 0 {
		return out, nil
	}

	names := fieldIndex(s)
	fields := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		fields = append(fields, f.Name)
	}
	start := 0
	if header, ignored, ok := matchHeader(rows[0], names); ok {
		fields, out.Ignored, start = header, ignored, 1
	}

	for i := start; i < len(rows); i++ {
		form := page.Form{}
		for j, cell := range rows[i] {
			cell = strings.TrimSpace(cell)
			if j >= len(fields) || fields[j] == "" || cell == "" {
				continue
			}
			form[fields[j]] = cell
		}
		if len(form) == 0 {
			continue
		}
		out.Forms = append(out.Forms, form)
		out.Rows = append(out.Rows, i+1)
	}
	return out, nil
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.ReplaceAll(s, "_", " "))), " ")
}

// fieldIndex maps every accepted header spelling to its field name.
func fieldIndex(s page.Schema) map[string]string {
	idx := map[string]string{}
	for _, f := range s.Fields {
		idx[normalize(f.Name)] = f.Name
		if f.Label != "" {
			idx[normalize(f.Label)] = f.Name
		}
	}
	for _, c := range s.Columns {
		if _, ok := s.Field(c.Key); ok {
			if _, taken := idx[normalize(c.Header)]; !taken {
				idx[normalize(c.Header)] = c.Key
			}
		}
	}
	return idx
}

func matchHeader(row []string, idx map[string]string) (fields, ignored []string, ok bool) {
	fields = make([]string, len(row))
	for i, cell := range row {
		if name, found := idx[normalize(cell)]; found {
			fields[i] = name
			ok = true
		} else if strings.TrimSpace(cell) != "" {
			ignored = append(ignored, strings.TrimSpace(cell))
		}
	}
	return fields, ignored, ok
}
