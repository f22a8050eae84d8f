// File path: internal/search/search_test.go
package search

import (
	"context"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/logicforge/logicforge/internal/llm"
	"github.com/logicforge/logicforge/internal/store"
)

// hashProvider produces deterministic pseudo-embeddings so semantic ranking
// can be exercised without a network dependency. Texts sharing words land
// closer together than unrelated texts.
type hashProvider struct {
	chatErr error
}

func (hashProvider) Name() string { return "hash" }

func (p hashProvider) Chat(ctx context.Context, messages []llm.Message) (string, error) {
	if p.chatErr != nil {
		return "", p.chatErr
	}
	return "", llm.ErrUnavailable
}

func (hashProvider) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	const dims = 32
	out := make([][]float32, len(inputs))
	for i, text := range inputs {
		vec := make([]float32, dims)
		for _, word := range strings.Fields(strings.ToLower(text)) {
			var h uint32 = 2166136261
			for _, r := range word {
				h ^= uint32(r)
				h *= 16777619
			}
			vec[h%dims]++
		}
		out[i] = vec
	}
	return out, nil
}

type unavailableProvider struct{}

func (unavailableProvider) Name() string { return "unavailable" }
func (unavailableProvider) Chat(ctx context.Context, messages []llm.Message) (string, error) {
	return "", llm.ErrUnavailable
}
func (unavailableProvider) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	return nil, llm.ErrUnavailable
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "search_test.db")
	s, err := store.OpenWithConfig(store.Config{Path: path, MaxOpenConns: 1, MaxIdleConns: 1})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSemanticSearchRanksByQueryOverlap(t *testing.T) {
	s := newTestStore(t)
	engine := NewEngine(s, hashProvider{})
	ctx := context.Background()

	if err := engine.SeedEmbeddings(ctx); err != nil {
		t.Fatalf("seed embeddings: %v", err)
	}
	embedded, err := s.ModelsWithEmbeddings(ctx)
	if err != nil {
		t.Fatalf("list embedded: %v", err)
	}
	if len(embedded) == 0 {
		t.Fatal("expected seeded embeddings")
	}

	matches, err := engine.Search(ctx, "foundational literacy reading level", "", 3)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(matches) == 0 {
		t.Fatal("expected matches")
	}
	for _, m := range matches {
		if m.MatchType != "semantic" {
			t.Fatalf("expected semantic match, got %q", m.MatchType)
		}
		if math.IsNaN(m.Similarity) {
			t.Fatal("similarity must be a number")
		}
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].Similarity > matches[i-1].Similarity {
			t.Fatalf("matches not sorted by similarity: %v then %v",
				matches[i-1].Similarity, matches[i].Similarity)
		}
	}
}

func TestSearchThemeFilter(t *testing.T) {
	s := newTestStore(t)
	engine := NewEngine(s, hashProvider{})
	ctx := context.Background()

	if err := engine.SeedEmbeddings(ctx); err != nil {
		t.Fatalf("seed embeddings: %v", err)
	}
	matches, err := engine.Search(ctx, "skills training program", "STEM", 5)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	for _, m := range matches {
		if !hasTheme(m.Model, "STEM") {
			t.Fatalf("theme filter leaked model %s with themes %v", m.Model.Name, m.Model.Themes)
		}
	}
}

func TestSearchFallsBackToKeywords(t *testing.T) {
	s := newTestStore(t)
	engine := NewEngine(s, unavailableProvider{})
	ctx := context.Background()

	// SeedEmbeddings must tolerate a missing provider.
	if err := engine.SeedEmbeddings(ctx); err != nil {
		t.Fatalf("seed embeddings: %v", err)
	}
	matches, err := engine.Search(ctx, "reading", "", 5)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(matches) == 0 {
		t.Fatal("expected keyword matches for 'reading'")
	}
	for _, m := range matches {
		if m.MatchType != "keyword" {
			t.Fatalf("expected keyword match, got %q", m.MatchType)
		}
	}
}

func TestSearchCachesResults(t *testing.T) {
	s := newTestStore(t)
	engine := NewEngine(s, hashProvider{})
	ctx := context.Background()

	if err := engine.SeedEmbeddings(ctx); err != nil {
		t.Fatalf("seed embeddings: %v", err)
	}
	first, err := engine.Search(ctx, "numeracy", "", 3)
	if err != nil {
		t.Fatalf("first search: %v", err)
	}
	if _, ok := engine.cache.Get("numeracy||3"); !ok {
		t.Fatal("expected cached entry for query")
	}
	second, err := engine.Search(ctx, "numeracy", "", 3)
	if err != nil {
		t.Fatalf("second search: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("cached result differs: %d vs %d", len(first), len(second))
	}
}

func TestCosineSimilarity(t *testing.T) {
	if got := cosineSimilarity([]float32{1, 0}, []float32{1, 0}); math.Abs(got-1) > 1e-9 {
		t.Fatalf("identical vectors should score 1, got %v", got)
	}
	if got := cosineSimilarity([]float32{1, 0}, []float32{0, 1}); math.Abs(got) > 1e-9 {
		t.Fatalf("orthogonal vectors should score 0, got %v", got)
	}
	if got := cosineSimilarity(nil, []float32{1}); !math.IsNaN(got) {
		t.Fatalf("mismatched lengths should be NaN, got %v", got)
	}
	if got := cosineSimilarity([]float32{0, 0}, []float32{0, 0}); !math.IsNaN(got) {
		t.Fatalf("zero vectors should be NaN, got %v", got)
	}
}
