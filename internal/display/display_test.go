package display

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatter_Number(t *testing.T) {
	tests := []struct {
		name  string
		prefs Preferences
		value float64
		want  string
	}{
		{"fixed default", Preferences{}, 0.123456, "0.1235"},
		{"fixed two", Preferences{Rounding: RoundFixed, Digits: 2}, -3.14159, "-3.14"},
		{"sig small", Preferences{Rounding: RoundSignificant, Digits: 3}, 0.00123456, "0.00123"},
		{"sig large", Preferences{Rounding: RoundSignificant, Digits: 3}, 12345, "12300"},
		{"sig carry", Preferences{Rounding: RoundSignificant, Digits: 3}, 9.996, "10.0"},
		{"sig zero", Preferences{Rounding: RoundSignificant, Digits: 3}, 0, "0"},
		{"nan", Preferences{}, math.NaN(), "undefined"},
		{"inf", Preferences{}, math.Inf(-1), "-inf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewFormatter(tt.prefs).Number(tt.value))
		})
	}
}

func TestFormatter_Proportion(t *testing.T) {
	f := NewFormatter(Preferences{Rounding: RoundFixed, Digits: 1, Proportions: ShowPercent})
	assert.Equal(t, "25.0%", f.Proportion(0.25))
	assert.Equal(t, "undefined", f.Proportion(math.NaN()))

	f = NewFormatter(Preferences{Digits: 2})
	assert.Equal(t, "0.25", f.Proportion(0.25))
}

func TestFormatter_PValue(t *testing.T) {
	f := NewFormatter(DefaultPreferences())
	assert.Equal(t, "< 0.001", f.PValue(0, 1000))
	assert.Equal(t, "0.0420", f.PValue(0.042, 1000))
	assert.Equal(t, "undefined", f.PValue(math.NaN(), 1000))
	assert.Equal(t, "[0.1000, 0.9000]", f.Interval(0.1, 0.9))
}

func TestParse(t *testing.T) {
	mode, err := ParseRoundingMode(" Significant ")
	require.NoError(t, err)
	assert.Equal(t, RoundSignificant, mode)
	_, err = ParseRoundingMode("banker")
	assert.Error(t, err)

	disp, err := ParseProportionDisplay("%")
	require.NoError(t, err)
	assert.Equal(t, ShowPercent, disp)
	_, err = ParseProportionDisplay("fraction")
	assert.Error(t, err)
}
