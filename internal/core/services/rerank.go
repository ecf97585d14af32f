package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/atelier-labs/showroom/internal/core/domain"
	"github.com/atelier-labs/showroom/internal/core/ports/driven"
	"github.com/atelier-labs/showroom/internal/logger"
)

const (
	// rerankCandidateCap bounds how many candidates are shown to the model.
	rerankCandidateCap = 20

	// rerankResultCap bounds how many indices the rerank may return.
	rerankResultCap = 5
)

// rerank asks the LLM to pick the candidates satisfying the constraints
// implied by the query (colour, material, and similar attributes). Returns
// nil on any failure; the caller keeps the pre-rerank order.
func (s *SearchService) rerank(
	ctx context.Context, query string, candidates []domain.SearchResult,
) []domain.SearchResult {
	pool := candidates
	if len(pool) > rerankCandidateCap {
		pool = pool[:rerankCandidateCap]
	}

	prompt := buildRerankPrompt(query, pool)
	response, err := s.llmService.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   256,
		Temperature: 0,
	})
	if err != nil {
		logger.Warn("Rerank generation failed: %v", err)
		return nil
	}

	indices := decodeIndices(response, len(pool))
	if len(indices) == 0 {
		logger.Debug("Rerank returned no usable indices")
		return nil
	}
	if len(indices) > rerankResultCap {
		indices = indices[:rerankResultCap]
	}

	results := make([]domain.SearchResult, 0, len(indices))
	for _, idx := range indices {
		result := pool[idx]
		result.Stage = domain.StageRerank
		results = append(results, result)
	}
	return results
}

// buildRerankPrompt enumerates the candidates and instructs the model to
// answer with a single JSON object.
func buildRerankPrompt(query string, candidates []domain.SearchResult) string {
	var b strings.Builder
	b.WriteString("You are ranking products for a shopping query.\n")
	b.WriteString("Query: ")
	b.WriteString(query)
	b.WriteString("\n\nCandidates:\n")

	for i, candidate := range candidates {
		p := candidate.Product
		fmt.Fprintf(&b, "%d. %s", i, p.DisplayName)
		if p.Brand != "" {
			fmt.Fprintf(&b, " | brand: %s", p.Brand)
		}
		if p.Category != "" {
			fmt.Fprintf(&b, " | category: %s", p.Category)
		}
		if p.Price != nil {
			fmt.Fprintf(&b, " | price: %s", p.Price)
		}
		if p.Description != "" {
			fmt.Fprintf(&b, " | %s", truncateRunes(p.Description, 200))
		}
		b.WriteByte('\n')
	}

	fmt.Fprintf(&b,
		"\nSelect the candidates that satisfy the query's explicit constraints "+
			"(colour, material, size and similar attributes), best match first. "+
			"Answer with exactly one JSON object of the form "+
			"{\"indices\": [..]} listing at most %d candidate numbers. "+
			"If none match, answer {\"indices\": []}.", rerankResultCap)
	return b.String()
}

// truncateRunes caps text at limit bytes without splitting a multi-byte
// rune, so non-Latin descriptions stay valid UTF-8 in the prompt.
func truncateRunes(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	for limit > 0 && !utf8.RuneStart(text[limit]) {
		limit--
	}
	return text[:limit]
}

// decodeIndices finds the first well-formed JSON object in free text that
// carries an "indices" array and returns its in-range, deduplicated values.
// Model output frequently wraps the object in prose or code fences, so the
// whole text is scanned rather than unmarshalled directly.
func decodeIndices(text string, poolSize int) []int {
	for i := 0; i < len(text); i++ {
		if text[i] != '{' {
			continue
		}

		var payload struct {
			Indices []int `json:"indices"`
		}
		decoder := json.NewDecoder(strings.NewReader(text[i:]))
		if err := decoder.Decode(&payload); err != nil {
			continue
		}
		if payload.Indices == nil {
			// A well-formed object without the field; keep scanning.
			continue
		}

		seen := make(map[int]bool, len(payload.Indices))
		valid := make([]int, 0, len(payload.Indices))
		for _, idx := range payload.Indices {
			if idx < 0 || idx >= poolSize || seen[idx] {
				continue
			}
			seen[idx] = true
			valid = append(valid, idx)
		}
		return valid
	}
	return nil
}
