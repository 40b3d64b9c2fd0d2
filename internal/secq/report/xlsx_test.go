package report

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.xlsx")
	require.NoError(t, WriteXLSX(path, testData()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"ID", "Question", "Guidance", "Response"}, rows[0])
	assert.Equal(t, []string{"1", "Is data encrypted at rest?", "Algorithms", "Yes.\nAES-256."}, rows[1])
	assert.Equal(t, "Q-2", rows[2][0])
	assert.Equal(t, "risk_overview", rows[3][0])
	assert.Equal(t, "**High** risk", rows[3][3])
}

func TestWriteXLSXWithoutRiskOverview(t *testing.T) {
	data := testData()
	data.RiskOverview = nil

	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, WriteXLSX(path, data))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}
