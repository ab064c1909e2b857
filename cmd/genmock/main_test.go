package main

import (
	"testing"

	"github.com/couchcryptid/rainfall-normals/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStation(status string, gapRate float64) stationDef {
	return stationDef{
		region:  domain.Region{Name: "jalisco", Code: "jal"},
		code:    "14066",
		from:    1961,
		to:      2020,
		status:  status,
		gapRate: gapRate,
		seed:    7,
	}
}

func TestGeneratedReportRoundTrips(t *testing.T) {
	for _, gaps := range []float64{0, 0.1, 0.6} {
		def := testStation("OPERANDO", gaps)
		rows := generateRows(def)
		require.Len(t, rows, 60)

		text := renderReport(def, rows)
		require.NoError(t, checkExtraction(text, rows), "gap rate %v", gaps)
		assert.True(t, domain.IsOperating(text))
	}
}

func TestGeneratedReportStatus(t *testing.T) {
	def := testStation("NO OPERANDO", 0)
	text := renderReport(def, generateRows(def))
	assert.False(t, domain.IsOperating(text))
}

func TestGenerateRowsIsDeterministic(t *testing.T) {
	def := testStation("OPERANDO", 0.2)
	a, b := generateRows(def), generateRows(def)
	require.Len(t, b, len(a))
	for i := range a {
		assert.Equal(t, a[i].year, b[i].year)
		assert.Equal(t, a[i].monthsWithData(), b[i].monthsWithData())
		va, _ := a[i].max()
		vb, _ := b[i].max()
		assert.InDelta(t, va, vb, 0)
	}
}

func TestYearRowMaxAllMissing(t *testing.T) {
	def := testStation("OPERANDO", 1)
	rows := generateRows(def)
	_, idx := rows[0].max()
	assert.Equal(t, -1, idx)
	assert.Zero(t, rows[0].monthsWithData())
}
