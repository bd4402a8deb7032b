package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/h200-index/internal/model"
)

func sampleResults() []model.IndexResult {
	return []model.IndexResult{
		{
			ID:         "r1",
			Timestamp:  time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC),
			IndexValue: 6.92,
			Outcome:    model.OutcomePublished,
			Contributions: []model.Contribution{
				{Provider: "B", Tier: model.TierHyperscaler, EffectivePrice: 7.6, Weight: 0.6, Contribution: 4.56},
				{Provider: "A", Tier: model.TierHyperscaler, EffectivePrice: 8.8, Weight: 0.2, Contribution: 1.76},
				{Provider: "C", Tier: model.TierNeocloud, EffectivePrice: 3.0, Weight: 0.2, Contribution: 0.60},
			},
			HyperscalerComponent: 6.32,
			NeocloudComponent:    0.60,
		},
		{
			ID:         "r2",
			Timestamp:  time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC),
			IndexValue: 7.64,
			Outcome:    model.OutcomeFlagged,
			Contributions: []model.Contribution{
				{Provider: "A", Tier: model.TierHyperscaler, EffectivePrice: 8.8, Weight: 0.8, Contribution: 7.04},
				{Provider: "C", Tier: model.TierNeocloud, EffectivePrice: 3.0, Weight: 0.2, Contribution: 0.60},
			},
			Warnings:             []string{"PriceOutOfRange: B at $95.0000/hr (band 0.50-50.00)"},
			HyperscalerComponent: 7.04,
			NeocloudComponent:    0.60,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleResults()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"timestamp", "index_value", "outcome", "hyperscaler_component", "neocloud_component", "providers", "warnings"}, rows[0])
	assert.Equal(t, "2026-08-24T12:00:00Z", rows[1][0])
	assert.Equal(t, "6.9200", rows[1][1])
	assert.Equal(t, "published", rows[1][2])
	assert.Equal(t, "3", rows[1][5])
	assert.Equal(t, "flagged", rows[2][2])
	assert.Contains(t, rows[2][6], "PriceOutOfRange")
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1) // header only
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.xlsx")
	require.NoError(t, WriteXLSX(path, sampleResults()))

	_, err := os.Stat(path)
	require.NoError(t, err)

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 2)

	index := f.Sheets[0]
	assert.Equal(t, "Index", index.Name)
	require.Len(t, index.Rows, 3) // header + 2 results
	assert.Equal(t, "Timestamp", index.Rows[0].Cells[0].String())
	assert.Equal(t, "2026-08-24T12:00:00Z", index.Rows[1].Cells[0].String())
	value, err := index.Rows[1].Cells[1].Float()
	require.NoError(t, err)
	assert.InDelta(t, 6.92, value, 1e-9)

	contribs := f.Sheets[1]
	assert.Equal(t, "Contributions", contribs.Name)
	// header + 3 contributions for r1 + 2 for r2.
	assert.Len(t, contribs.Rows, 6)
	assert.Equal(t, "B", contribs.Rows[1].Cells[1].String())
}
