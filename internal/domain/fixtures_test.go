package domain

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// scenarioReport is the minimal operating report used by the ranking scenarios.
const scenarioReport = `SITUACIÓN             : OPERANDO

LLUVIA MÁXIMA 24 H.
AÑO    ...   MÁXIMA   MES   MESES
       ...   MM
1985   ...   45.2   9   9
1990   ...   60.0   10   10

EVAPORACIÓN TOTAL
`

// loadReport reads a report fixture from testdata.
func loadReport(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(data)
}
