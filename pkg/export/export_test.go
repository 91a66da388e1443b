package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	format, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, format)

	format, err = ParseFormat(" PDF ")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, format)

	_, err = ParseFormat("xlsx")
	require.Error(t, err)
}

func TestRenderCSV(t *testing.T) {
	table := Table{
		Columns: []string{"Student", "Plan"},
		Rows: [][]string{
			{"Ana", "Gold"},
			{"Bruno", "Start"},
		},
	}

	doc, err := Render(FormatCSV, table)
	require.NoError(t, err)
	assert.Equal(t, "Student,Plan\nAna,Gold\nBruno,Start\n", string(doc))
}

func TestRenderPDF(t *testing.T) {
	table := Table{
		Title:   "Gympoint registrations",
		Columns: []string{"Student", "Plan"},
		Rows:    [][]string{{"Ana", "Gold"}},
	}

	doc, err := Render(FormatPDF, table)
	require.NoError(t, err)
	assert.True(t, len(doc) > 0)
	assert.Equal(t, "%PDF", string(doc[:4]))
}

func TestRenderRequiresColumns(t *testing.T) {
	_, err := Render(FormatCSV, Table{})
	require.Error(t, err)
}
