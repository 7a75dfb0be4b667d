package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderCSV(t *testing.T) {
	table := Table{
		Columns: []string{"Ref No", "Title"},
		Rows: []map[string]string{
			{"Ref No": "ADM/MEM/0001", "Title": "Budget memo"},
			{"Ref No": "ADM/MEM/0002", "Title": "With, comma"},
		},
	}

	content, err := RenderCSV(table)
	require.NoError(t, err)

	assert.Equal(t, "Ref No,Title\nADM/MEM/0001,Budget memo\nADM/MEM/0002,\"With, comma\"\n", string(content))
}

func TestRenderCSVMissingCellIsEmpty(t *testing.T) {
	table := Table{
		Columns: []string{"Ref No", "Title"},
		Rows:    []map[string]string{{"Ref No": "ADM/MEM/0001"}},
	}

	content, err := RenderCSV(table)
	require.NoError(t, err)
	assert.Contains(t, string(content), "ADM/MEM/0001,\n")
}

func TestRenderCSVRequiresColumns(t *testing.T) {
	_, err := RenderCSV(Table{})
	assert.Error(t, err)
}

func TestRenderPDF(t *testing.T) {
	table := Table{
		Columns: []string{"Ref No", "Title"},
		Rows:    []map[string]string{{"Ref No": "ADM/MEM/0001", "Title": "Budget memo"}},
	}

	content, err := RenderPDF(table, "Documents")
	require.NoError(t, err)
	require.NotEmpty(t, content)
	assert.Equal(t, "%PDF", string(content[:4]))
}

func TestRenderPDFRequiresColumns(t *testing.T) {
	_, err := RenderPDF(Table{}, "")
	assert.Error(t, err)
}
