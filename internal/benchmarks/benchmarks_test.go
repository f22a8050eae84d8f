// File path: internal/benchmarks/benchmarks_test.go
package benchmarks

import (
	"errors"
	"math"
	"testing"
)

func TestNIPUNBenchmarksLoad(t *testing.T) {
	nipun, err := NIPUN()
	if err != nil {
		t.Fatalf("nipun: %v", err)
	}
	if len(nipun.Grades) < 4 {
		t.Fatalf("expected grade benchmarks through grade 3, got %d", len(nipun.Grades))
	}
	grade3, ok := nipun.Grades["grade_3"]
	if !ok || grade3.Literacy == "" || grade3.Numeracy == "" {
		t.Fatalf("incomplete grade 3 benchmark: %+v", grade3)
	}
}

func TestStatesRegionFilter(t *testing.T) {
	all, err := States("")
	if err != nil {
		t.Fatalf("states: %v", err)
	}
	if len(all) < 10 {
		t.Fatalf("expected full state list, got %d", len(all))
	}
	south, err := States("south")
	if err != nil {
		t.Fatalf("states south: %v", err)
	}
	if len(south) == 0 {
		t.Fatal("expected southern states")
	}
	for _, s := range south {
		if s.Region != "South" {
			t.Fatalf("region filter leaked %+v", s)
		}
	}
}

func TestStateComparisonAgainstNational(t *testing.T) {
	detail, err := State("Kerala")
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	national, err := National()
	if err != nil {
		t.Fatalf("national: %v", err)
	}
	wantDiff := math.Round((detail.LiteracyRate-national.LiteracyRate)*10) / 10
	if detail.Comparison.LiteracyRateDiff != wantDiff {
		t.Fatalf("literacy diff = %v, want %v", detail.Comparison.LiteracyRateDiff, wantDiff)
	}
	if detail.Comparison.LiteracyRateDiff <= 0 {
		t.Fatal("Kerala should sit above the national literacy average")
	}

	if _, err := State("Atlantis"); !errors.Is(err, ErrStateNotFound) {
		t.Fatalf("expected ErrStateNotFound, got %v", err)
	}
}

func TestCompareStates(t *testing.T) {
	cmp, err := Compare("Kerala", "Bihar")
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if cmp.State1.State != "Kerala" || cmp.State2.State != "Bihar" {
		t.Fatalf("unexpected states: %+v", cmp)
	}
	if cmp.Difference["literacy_rate"] <= 0 {
		t.Fatalf("expected Kerala literacy above Bihar, got %v", cmp.Difference["literacy_rate"])
	}
	if _, err := Compare("Kerala", "Atlantis"); !errors.Is(err, ErrStateNotFound) {
		t.Fatalf("expected ErrStateNotFound, got %v", err)
	}
}

func TestFLNIndicators(t *testing.T) {
	indicators, err := FLNIndicators()
	if err != nil {
		t.Fatalf("fln indicators: %v", err)
	}
	if len(indicators) < 6 {
		t.Fatalf("expected indicator benchmarks, got %d", len(indicators))
	}
	for _, ind := range indicators {
		if ind.Grade == "" || ind.Indicator == "" || ind.Benchmark == "" {
			t.Fatalf("incomplete indicator: %+v", ind)
		}
	}
}
