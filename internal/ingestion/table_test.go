package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const requirementsTable = `<table id="reqs">
  <tr><th>Specific Requirement</th><th>Files required</th></tr>
  <tr><td>StreetScape</td><td> 1 </td></tr>
  <tr><td>Kitchen</td></tr>
</table>`

func TestParseTables(t *testing.T) {
	tables, err := ParseTables(requirementsTable)
	require.NoError(t, err)
	require.Len(t, tables, 1)

	assert.Equal(t, [][]string{
		{"Specific Requirement", "Files required"},
		{"StreetScape", "1"},
		{"Kitchen"},
	}, tables[0].Rows)
}

func TestParseTables_NoTables(t *testing.T) {
	tables, err := ParseTables("<p>nothing here</p>")
	require.NoError(t, err)
	assert.Empty(t, tables)

	tables, err = ParseTables("")
	require.NoError(t, err)
	assert.Empty(t, tables)
}

func TestParseTables_Nested(t *testing.T) {
	html := `<table>
	  <tr><td>Outer</td><td><table><tr><td>Inner</td></tr></table></td></tr>
	  <tr><td>Second</td><td>row</td></tr>
	</table>`

	tables, err := ParseTables(html)
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Len(t, tables[0].Rows, 2)
	assert.Equal(t, []string{"Second", "row"}, tables[0].Rows[1])
}

func TestTable_Records(t *testing.T) {
	tables, err := ParseTables(requirementsTable)
	require.NoError(t, err)
	tbl := tables[0]

	assert.Equal(t, []string{"Specific Requirement", "Files required"}, tbl.Header())
	assert.Equal(t, []map[string]string{
		{"Specific Requirement": "StreetScape", "Files required": "1"},
		{"Specific Requirement": "Kitchen", "Files required": ""},
	}, tbl.Records())

	assert.True(t, tbl.HasColumns("Files required", "Specific Requirement"))
	assert.False(t, tbl.HasColumns("Note"))
}

func TestTable_Empty(t *testing.T) {
	var tbl Table
	assert.Nil(t, tbl.Header())
	assert.Nil(t, tbl.Records())
	assert.False(t, tbl.HasColumns("x"))
}

func TestTranspose(t *testing.T) {
	html := `<table>
	  <tr><th>Reference</th><td>HSS103120</td></tr>
	  <tr><th>Name</th><td>joe blogs</td></tr>
	</table>
	<table>
	  <tr><th>Name</th><td>someone else</td></tr>
	  <tr><th>Notes</th></tr>
	  <tr><td></td><td>orphan value</td></tr>
	</table>`

	tables, err := ParseTables(html)
	require.NoError(t, err)
	require.Len(t, tables, 2)

	assert.Equal(t, map[string]string{
		"Reference": "HSS103120",
		"Name":      "joe blogs",
		"Notes":     "",
	}, Transpose(tables))
}
