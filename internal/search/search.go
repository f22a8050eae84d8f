// File path: internal/search/search.go
package search

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/logicforge/logicforge/internal/common"
	"github.com/logicforge/logicforge/internal/llm"
	"github.com/logicforge/logicforge/internal/store"
)

const defaultLimit = 5

// Match pairs a catalog model with its similarity to the query. Keyword
// matches carry a zero score.
type Match struct {
	Model      store.ProvenModel `json:"model"`
	Similarity float64           `json:"similarity_score"`
	MatchType  string            `json:"match_type"`
}

// Engine ranks the proven model catalog against free-text queries. Semantic
// ranking uses provider embeddings over the stored vectors; when embeddings
// are unavailable it degrades to keyword matching.
type Engine struct {
	store    *store.Store
	provider llm.Provider
	cache    *resultCache
}

// NewEngine constructs a search engine over the catalog.
func NewEngine(st *store.Store, provider llm.Provider) *Engine {
	return &Engine{store: st, provider: provider, cache: newResultCache(128)}
}

// Search returns the catalog models most relevant to the query, optionally
// restricted to a theme.
func (e *Engine) Search(ctx context.Context, query, theme string, limit int) ([]Match, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("search query required")
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	cacheKey := fmt.Sprintf("%s|%s|%d", strings.ToLower(query), strings.ToLower(theme), limit)
	if cached, ok := e.cache.Get(cacheKey); ok {
		return cached, nil
	}

	matches, err := e.semanticSearch(ctx, query, theme, limit)
	if err != nil {
		common.Logger().Debug("search: semantic ranking unavailable, using keywords", "error", err)
		matches, err = e.keywordSearch(ctx, query, theme, limit)
		if err != nil {
			return nil, err
		}
	}
	e.cache.Set(cacheKey, matches)
	return matches, nil
}

func (e *Engine) semanticSearch(ctx context.Context, query, theme string, limit int) ([]Match, error) {
	vectors, err := e.provider.Embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil, errors.New("empty query embedding")
	}
	queryVec := vectors[0]

	models, err := e.store.ModelsWithEmbeddings(ctx)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, errors.New("no embedded catalog models")
	}

	matches := make([]Match, 0, len(models))
	for _, model := range models {
		if theme != "" && !hasTheme(model, theme) {
			continue
		}
		score := cosineSimilarity(queryVec, model.Embedding)
		if math.IsNaN(score) {
			continue
		}
		matches = append(matches, Match{Model: model, Similarity: score, MatchType: "semantic"})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func (e *Engine) keywordSearch(ctx context.Context, query, theme string, limit int) ([]Match, error) {
	models, err := e.store.KeywordSearchModels(ctx, query, theme, limit)
	if err != nil {
		return nil, err
	}
	matches := make([]Match, 0, len(models))
	for _, model := range models {
		matches = append(matches, Match{Model: model, MatchType: "keyword"})
	}
	return matches, nil
}

// SeedEmbeddings computes and stores embeddings for catalog models that do
// not have one yet. Called at startup; a missing provider is not an error.
func (e *Engine) SeedEmbeddings(ctx context.Context) error {
	models, err := e.store.ListProvenModels(ctx, "")
	if err != nil {
		return err
	}
	var pending []store.ProvenModel
	for _, model := range models {
		if len(model.Embedding) == 0 {
			pending = append(pending, model)
		}
	}
	if len(pending) == 0 {
		return nil
	}
	inputs := make([]string, len(pending))
	for i, model := range pending {
		inputs[i] = embeddingText(model)
	}
	vectors, err := e.provider.Embed(ctx, inputs)
	if err != nil {
		if errors.Is(err, llm.ErrUnavailable) {
			common.Logger().Info("search: embeddings unavailable, keyword search only")
			return nil
		}
		return fmt.Errorf("seed embeddings: %w", err)
	}
	if len(vectors) != len(pending) {
		return fmt.Errorf("seed embeddings: want %d vectors, got %d", len(pending), len(vectors))
	}
	for i, model := range pending {
		if err := e.store.UpdateModelEmbedding(ctx, model.ID, store.Vector(vectors[i])); err != nil {
			return err
		}
	}
	e.cache.Purge()
	common.Logger().Info("search: catalog embeddings seeded", "models", len(pending))
	return nil
}

func embeddingText(model store.ProvenModel) string {
	parts := []string{model.Name, model.Description}
	if len(model.TargetOutcomes) > 0 {
		parts = append(parts, strings.Join(model.TargetOutcomes, ", "))
	}
	return strings.Join(parts, "\n")
}

func hasTheme(model store.ProvenModel, theme string) bool {
	for _, t := range model.Themes {
		if strings.EqualFold(t, theme) {
			return true
		}
	}
	return false
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return math.NaN()
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return math.NaN()
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
