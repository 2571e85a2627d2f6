// Package profiling computes the descriptive summary students see before
// running a simulation: centre, spread, quartiles and 1.5*IQR outliers.
package profiling

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
)

// ColumnProfile describes one numeric column
type ColumnProfile struct {
	Name     string
	N        int
	Mean     float64
	StdDev   float64 // sample (n-1)
	Min      float64
	Q1       float64
	Median   float64
	Q3       float64
	Max      float64
	IQR      float64
	Outliers int
	Skewness float64
}

// DataProfiler builds column profiles
type DataProfiler struct{}

// NewDataProfiler creates a new data profiler
func NewDataProfiler() *DataProfiler {
	return &DataProfiler{}
}

// ProfileColumn summarises data. Quartiles use the median-of-halves rule
// taught in introductory courses; statistics that need more points than
// data has are NaN.
func (dp *DataProfiler) ProfileColumn(data []float64, name string) ColumnProfile {
	nan := math.NaN()
	profile := ColumnProfile{
		Name: name, N: len(data),
		Mean: nan, StdDev: nan, Min: nan, Q1: nan, Median: nan, Q3: nan, Max: nan, IQR: nan, Skewness: nan,
	}
	if len(data) == 0 {
		return profile
	}

	profile.Mean, _ = stats.Mean(data)
	profile.Min, _ = stats.Min(data)
	profile.Max, _ = stats.Max(data)
	profile.Median, _ = stats.Median(data)
	if len(data) > 1 {
		profile.StdDev, _ = stats.StandardDeviationSample(data)
		if q, err := stats.Quartile(data); err == nil {
			profile.Q1, profile.Q3 = q.Q1, q.Q3
			profile.IQR = q.Q3 - q.Q1
			profile.Outliers = detectOutliers(data, q.Q1, q.Q3)
		}
	}
	profile.Skewness = calculateSkewness(data, profile.Mean, profile.StdDev)
	return profile
}

// ProfileDataset profiles every column, in name order
func (dp *DataProfiler) ProfileDataset(dataset map[string][]float64) []ColumnProfile {
	names := make([]string, 0, len(dataset))
	for name := range dataset {
		names = append(names, name)
	}
	sort.Strings(names)

	profiles := make([]ColumnProfile, 0, len(names))
	for _, name := range names {
		profiles = append(profiles, dp.ProfileColumn(dataset[name], name))
	}
	return profiles
}

// calculateSkewness computes sample skewness using the adjusted Fisher-Pearson coefficient
func calculateSkewness(data []float64, mean, stdDev float64) float64 {
	if len(data) < 3 || !(stdDev > 0) {
		return math.NaN()
	}

	n := float64(len(data))
	sumCubedDeviations := 0.0
	for _, x := range data {
		deviation := x - mean
		sumCubedDeviations += deviation * deviation * deviation
	}

	// G1 = n / ((n-1)(n-2)) * sum(((x - mean) / s)^3)
	return n / ((n - 1) * (n - 2)) * sumCubedDeviations / (stdDev * stdDev * stdDev)
}

// detectOutliers counts values outside [Q1 - 1.5*IQR, Q3 + 1.5*IQR]
func detectOutliers(data []float64, q1, q3 float64) int {
	iqr := q3 - q1
	lowerBound := q1 - 1.5*iqr
	upperBound := q3 + 1.5*iqr

	outlierCount := 0
	for _, x := range data {
		if x < lowerBound || x > upperBound {
			outlierCount++
		}
	}
	return outlierCount
}
