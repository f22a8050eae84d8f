// File path: internal/benchmarks/benchmarks.go
package benchmarks

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
)

//go:embed data/benchmarks.json
var benchmarkData embed.FS

// ErrStateNotFound is returned when no state statistics match the request.
var ErrStateNotFound = errors.New("state not found")

// NIPUNBenchmarks holds the NIPUN Bharat lakshya targets by grade.
type NIPUNBenchmarks struct {
	Description string                    `json:"description"`
	Grades      map[string]GradeBenchmark `json:"grades"`
}

// GradeBenchmark is the literacy and numeracy target for one grade.
type GradeBenchmark struct {
	Literacy string `json:"literacy"`
	Numeracy string `json:"numeracy"`
}

// StateStats carries the education statistics for one state.
type StateStats struct {
	State             string  `json:"state"`
	Region            string  `json:"region"`
	LiteracyRate      float64 `json:"literacy_rate"`
	FLNProficiency    float64 `json:"fln_proficiency"`
	EnrollmentRate    float64 `json:"enrollment_rate"`
	DropoutRate       float64 `json:"dropout_rate"`
	PupilTeacherRatio float64 `json:"pupil_teacher_ratio"`
}

// NationalAverages is the all-India reference point.
type NationalAverages struct {
	LiteracyRate      float64 `json:"literacy_rate"`
	FLNProficiency    float64 `json:"fln_proficiency"`
	EnrollmentRate    float64 `json:"enrollment_rate"`
	DropoutRate       float64 `json:"dropout_rate"`
	PupilTeacherRatio float64 `json:"pupil_teacher_ratio"`
}

// FLNIndicator is one grade-level FLN indicator benchmark.
type FLNIndicator struct {
	Grade     string `json:"grade"`
	Indicator string `json:"indicator"`
	Benchmark string `json:"benchmark"`
	Tool      string `json:"tool"`
}

type dataset struct {
	NIPUNBharat      NIPUNBenchmarks  `json:"nipun_bharat"`
	NationalAverages NationalAverages `json:"national_averages"`
	StateStatistics  []StateStats     `json:"state_statistics"`
	FLNIndicators    []FLNIndicator   `json:"fln_indicators"`
}

var (
	loadOnce sync.Once
	loaded   dataset
	loadErr  error
)

func data() (dataset, error) {
	loadOnce.Do(func() {
		raw, err := benchmarkData.ReadFile("data/benchmarks.json")
		if err != nil {
			loadErr = fmt.Errorf("read benchmark data: %w", err)
			return
		}
		if err := json.Unmarshal(raw, &loaded); err != nil {
			loadErr = fmt.Errorf("parse benchmark data: %w", err)
		}
	})
	return loaded, loadErr
}

// NIPUN returns the NIPUN Bharat benchmarks by grade.
func NIPUN() (NIPUNBenchmarks, error) {
	d, err := data()
	return d.NIPUNBharat, err
}

// National returns the national average statistics.
func National() (NationalAverages, error) {
	d, err := data()
	return d.NationalAverages, err
}

// States returns state statistics, optionally filtered to a region.
func States(region string) ([]StateStats, error) {
	d, err := data()
	if err != nil {
		return nil, err
	}
	region = strings.TrimSpace(region)
	if region == "" {
		return d.StateStatistics, nil
	}
	var out []StateStats
	for _, s := range d.StateStatistics {
		if strings.EqualFold(s.Region, region) {
			out = append(out, s)
		}
	}
	return out, nil
}

// StateDetail is one state's statistics with the gap to national averages.
type StateDetail struct {
	StateStats
	Comparison StateComparison `json:"comparison"`
}

// StateComparison holds the differences from the national average.
type StateComparison struct {
	LiteracyRateDiff   float64 `json:"literacy_rate_diff"`
	FLNProficiencyDiff float64 `json:"fln_proficiency_diff"`
	DropoutRateDiff    float64 `json:"dropout_rate_diff"`
}

// State returns one state's statistics compared against national averages.
func State(name string) (*StateDetail, error) {
	d, err := data()
	if err != nil {
		return nil, err
	}
	for _, s := range d.StateStatistics {
		if strings.EqualFold(s.State, strings.TrimSpace(name)) {
			return &StateDetail{
				StateStats: s,
				Comparison: StateComparison{
					LiteracyRateDiff:   round1(s.LiteracyRate - d.NationalAverages.LiteracyRate),
					FLNProficiencyDiff: round1(s.FLNProficiency - d.NationalAverages.FLNProficiency),
					DropoutRateDiff:    round1(s.DropoutRate - d.NationalAverages.DropoutRate),
				},
			}, nil
		}
	}
	return nil, ErrStateNotFound
}

// FLNIndicators returns the FLN indicator benchmarks by grade.
func FLNIndicators() ([]FLNIndicator, error) {
	d, err := data()
	return d.FLNIndicators, err
}

// Comparison is a head-to-head of two states on the key metrics.
type Comparison struct {
	State1     StateStats         `json:"state1"`
	State2     StateStats         `json:"state2"`
	Difference map[string]float64 `json:"comparison"`
}

// Compare returns both states' statistics and the metric differences
// (state1 minus state2).
func Compare(state1, state2 string) (*Comparison, error) {
	s1, err := State(state1)
	if err != nil {
		return nil, err
	}
	s2, err := State(state2)
	if err != nil {
		return nil, err
	}
	return &Comparison{
		State1: s1.StateStats,
		State2: s2.StateStats,
		Difference: map[string]float64{
			"literacy_rate":   round1(s1.LiteracyRate - s2.LiteracyRate),
			"fln_proficiency": round1(s1.FLNProficiency - s2.FLNProficiency),
			"enrollment_rate": round1(s1.EnrollmentRate - s2.EnrollmentRate),
			"dropout_rate":    round1(s1.DropoutRate - s2.DropoutRate),
		},
	}, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
