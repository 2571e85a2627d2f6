// Package display formats simulation output according to the user's
// rounding and proportion preferences.
package display

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RoundingMode selects between fixed decimals and significant figures
type RoundingMode string

const (
	RoundFixed       RoundingMode = "fixed"
	RoundSignificant RoundingMode = "sig"
)

// ProportionDisplay selects how proportions are printed
type ProportionDisplay string

const (
	ShowProportion ProportionDisplay = "proportion"
	ShowPercent    ProportionDisplay = "percent"
)

// Preferences are plain values; nothing here is persisted.
type Preferences struct {
	Rounding    RoundingMode
	Digits      int
	Proportions ProportionDisplay
}

// DefaultPreferences returns 4 fixed decimals with proportions as 0..1
func DefaultPreferences() Preferences {
	return Preferences{Rounding: RoundFixed, Digits: 4, Proportions: ShowProportion}
}

// ParseRoundingMode accepts fixed, sig or significant
func ParseRoundingMode(s string) (RoundingMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fixed", "decimals":
		return RoundFixed, nil
	case "sig", "significant":
		return RoundSignificant, nil
	}
	return "", fmt.Errorf("unknown rounding mode %q (want fixed or sig)", s)
}

// ParseProportionDisplay accepts proportion or percent
func ParseProportionDisplay(s string) (ProportionDisplay, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "proportion":
		return ShowProportion, nil
	case "percent", "percentage", "%":
		return ShowPercent, nil
	}
	return "", fmt.Errorf("unknown proportion display %q (want proportion or percent)", s)
}

// Formatter renders numbers with a fixed set of preferences
type Formatter struct {
	prefs Preferences
}

// NewFormatter fills zero-valued preferences with the defaults
func NewFormatter(prefs Preferences) *Formatter {
	def := DefaultPreferences()
	if prefs.Rounding == "" {
		prefs.Rounding = def.Rounding
	}
	if prefs.Digits < 1 {
		prefs.Digits = def.Digits
	}
	if prefs.Proportions == "" {
		prefs.Proportions = def.Proportions
	}
	return &Formatter{prefs: prefs}
}

// Preferences returns the effective preferences
func (f *Formatter) Preferences() Preferences {
	return f.prefs
}

// Number formats v. NaN prints as "undefined".
func (f *Formatter) Number(v float64) string {
	switch {
	case math.IsNaN(v):
		return "undefined"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	if f.prefs.Rounding == RoundSignificant {
		return significant(v, f.prefs.Digits)
	}
	return strconv.FormatFloat(v, 'f', f.prefs.Digits, 64)
}

// Proportion formats a value in [0, 1], as a percentage when preferred
func (f *Formatter) Proportion(v float64) string {
	if f.prefs.Proportions == ShowPercent && !math.IsNaN(v) {
		return f.Number(v*100) + "%"
	}
	return f.Number(v)
}

// PValue formats a simulated p-value. Zero hits out of trials is shown as
// an upper bound since the true p-value is only known to be below 1/trials.
func (f *Formatter) PValue(p float64, trials int) string {
	if p == 0 && trials > 0 {
		return "< " + strconv.FormatFloat(1/float64(trials), 'g', -1, 64)
	}
	return f.Number(p)
}

// Interval formats a confidence interval as [lower, upper]
func (f *Formatter) Interval(lower, upper float64) string {
	return "[" + f.Number(lower) + ", " + f.Number(upper) + "]"
}

func significant(v float64, digits int) string {
	if v == 0 {
		return "0"
	}
	decimals := digits - 1 - magnitude(v)
	rounded := roundTo(v, decimals)
	// 9.996 -> 10.0 gains a digit
	if m := magnitude(rounded); rounded != 0 && digits-1-m != decimals {
		decimals = digits - 1 - m
		rounded = roundTo(v, decimals)
	}
	if decimals < 0 {
		decimals = 0
	}
	return strconv.FormatFloat(rounded, 'f', decimals, 64)
}

func magnitude(v float64) int {
	return int(math.Floor(math.Log10(math.Abs(v))))
}

func roundTo(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}
