package render

import (
	"bytes"
	"strings"
	"testing"

	"farmadmin/internal/client"
	"farmadmin/internal/page"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var seasons = page.Schema{
	Entity:       "season",
	Title:        "Seasons",
	EmptyMessage: "No seasons found. Create one to get started.",
	Fields: []page.Field{
		{Name: "name", Kind: page.Text},
		{Name: "status", Kind: page.Select},
	},
	Columns: []page.Column{
		{Header: "Name", Key: "name"},
		{Header: "Farm", Key: "farm.name"},
		{Header: "Area", Key: "area"},
		{Header: "Status", Key: "status", Status: true},
	},
}

func records() []client.Record {
	return []client.Record{
		{"id": 1.0, "name": "Season 1 - 2026", "farm": map[string]any{"name": "North"}, "area": 12.5, "status": "ACTIVE"},
		{"id": 2.0, "name": "Season 2 - 2026", "farm": nil, "area": nil, "status": "PLANNED"},
		{"id": 3.0, "name": "Season 1 - 2025", "status": "COMPLETED"},
	}
}

func TestRowsMatchItems(t *testing.T) {
	rows := Rows(seasons, records())
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Season 1 - 2026", "North", "12.5", "ACTIVE"}, rows[0])
	assert.Equal(t, []string{"Season 2 - 2026", "", "", "PLANNED"}, rows[1])

	out := Table(seasons, records())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// title, header, divider, three rows, count
	assert.Len(t, lines, 7)
	assert.Contains(t, out, "Season 1 - 2025")
	assert.Contains(t, out, "3 record(s)")
	assert.NotContains(t, out, seasons.EmptyMessage)
}

func TestEmptyTableShowsMessage(t *testing.T) {
	out := Table(seasons, nil)
	assert.Contains(t, out, "No seasons found. Create one to get started.")
	assert.NotContains(t, out, "Name")

	out = Table(page.Schema{Columns: seasons.Columns}, []client.Record{})
	assert.Contains(t, out, "No records found.")
}

func TestCustomFormat(t *testing.T) {
	col := page.Column{Header: "Customer", Format: func(r client.Record) string {
		if n := r.String("customer_name"); n != "" {
			return n
		}
		return "Walk-in"
	}}
	assert.Equal(t, "Walk-in", Cell(col, client.Record{}))
	assert.Equal(t, "Ada", Cell(col, client.Record{"customer_name": "Ada"}))
}

func TestCard(t *testing.T) {
	out := Card("Gari KPIs", []Stat{{"Total gari", "400 kg"}, {"Yield", "25%"}})
	assert.Contains(t, out, "Gari KPIs")
	assert.Contains(t, out, "400 kg")
	assert.Equal(t, 3, strings.Count(out, "\n"))
}

func TestDetail(t *testing.T) {
	out := Detail(seasons, records()[0])
	assert.Contains(t, out, "Season 1 - 2026")
	assert.Contains(t, out, "North")
}

func TestExport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, seasons, records()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Seasons"}, f.GetSheetList())
	rows, err := f.GetRows("Seasons")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Name", "Farm", "Area", "Status"}, rows[0])
	assert.Equal(t, []string{"Season 1 - 2026", "North", "12.5", "ACTIVE"}, rows[1])
}

func TestExportEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, seasons, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Seasons")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestReadSheetWithHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, seasons, records()))

	sheet, err := ReadSheet(&buf, seasons)
	require.NoError(t, err)
	require.Len(t, sheet.Forms, 3)
	assert.Equal(t, []int{2, 3, 4}, sheet.Rows)
	assert.Equal(t, page.Form{"name": "Season 1 - 2026", "status": "ACTIVE"}, sheet.Forms[0])
	assert.Equal(t, []string{"Farm", "Area"}, sheet.Ignored)
}

func TestReadSheetWithoutHeader(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Season 1 - 2027", "PLANNED"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{" Season 2 - 2027 ", ""}))
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)

	sheet, err := ReadSheet(&buf, seasons)
	require.NoError(t, err)
	want := []page.Form{
		{"name": "Season 1 - 2027", "status": "PLANNED"},
		{"name": "Season 2 - 2027"},
	}
	if diff := cmp.Diff(want, sheet.Forms); diff != "" {
		t.Errorf("forms mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []int{1, 3}, sheet.Rows)
	assert.Empty(t, sheet.Ignored)
}

func TestReadSheetRejectsNonWorkbook(t *testing.T) {
	_, err := ReadSheet(strings.NewReader("name,status\n"), seasons)
	assert.Error(t, err)
}
