package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegions(t *testing.T) {
	regions := Regions()

	require.Len(t, regions, 32)
	assert.Equal(t, Region{Name: "aguascalientes", Code: "ags"}, regions[0])
	assert.Equal(t, Region{Name: "zacatecas", Code: "zac"}, regions[len(regions)-1])
	for i := 1; i < len(regions); i++ {
		assert.Less(t, regions[i-1].Name, regions[i].Name)
	}
}

func TestLookupRegion(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"jalisco", "jal"},
		{"Jalisco", "jal"},
		{"  JALISCO ", "jal"},
		{"yucatán", "yuc"},
		{"Yucatan", "yuc"},
		{"YUCATÁN", "yuc"},
		{"michoacán", "mich"},
		{"estado  de  méxico", "mex"},
		{"Estado de Mexico", "mex"},
		{"baja california", "bc"},
		{"baja california sur", "bcs"},
		{"qroo", "qroo"},
		{"df", "df"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			r, err := LookupRegion(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, r.Code)
		})
	}
}

func TestLookupRegion_Unknown(t *testing.T) {
	for _, input := range []string{"", "texas", "baja"} {
		_, err := LookupRegion(input)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnknownRegion)
	}
}

func TestNormalizeStationCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"14066", "14066"},
		{"2001", "02001"},
		{" 7 ", "00007"},
		{"00012", "00012"},
	}
	for _, tt := range tests {
		code, err := NormalizeStationCode(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.expected, code)
	}
}

func TestNormalizeStationCode_Invalid(t *testing.T) {
	for _, input := range []string{"", "   ", "140660", "14a66", "-1234", "1.5"} {
		_, err := NormalizeStationCode(input)
		assert.ErrorIs(t, err, ErrInvalidStationCode, input)
	}
}
