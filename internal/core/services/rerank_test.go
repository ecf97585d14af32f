package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/atelier-labs/showroom/internal/core/domain"
)

func TestDecodeIndices(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		poolSize int
		want     []int
	}{
		{
			name:     "bare object",
			text:     `{"indices": [2, 0, 1]}`,
			poolSize: 3,
			want:     []int{2, 0, 1},
		},
		{
			name:     "object surrounded by prose",
			text:     `Sure, here is my selection: {"indices": [1]} hope that helps!`,
			poolSize: 3,
			want:     []int{1},
		},
		{
			name:     "code fence",
			text:     "```json\n{\"indices\": [0, 2]}\n```",
			poolSize: 3,
			want:     []int{0, 2},
		},
		{
			name:     "out of range indices dropped",
			text:     `{"indices": [0, 7, -1, 2]}`,
			poolSize: 3,
			want:     []int{0, 2},
		},
		{
			name:     "duplicates dropped",
			text:     `{"indices": [1, 1, 2]}`,
			poolSize: 3,
			want:     []int{1, 2},
		},
		{
			name:     "first object lacks the field, second carries it",
			text:     `{"note": "ok"} then {"indices": [0]}`,
			poolSize: 3,
			want:     []int{0},
		},
		{
			name:     "empty selection",
			text:     `{"indices": []}`,
			poolSize: 3,
			want:     []int{},
		},
		{
			name:     "no json at all",
			text:     "none of the candidates match",
			poolSize: 3,
			want:     nil,
		},
		{
			name:     "malformed json",
			text:     `{"indices": [1, 2`,
			poolSize: 3,
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decodeIndices(tt.text, tt.poolSize)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildRerankPrompt(t *testing.T) {
	price := &domain.Price{Amount: 100, Currency: "EUR"}
	candidates := []domain.SearchResult{
		{Product: &domain.ProductRecord{
			DisplayName: "Red Chair", Brand: "Acme", Category: "chairs", Price: price,
		}},
		{Product: &domain.ProductRecord{DisplayName: "Blue Sofa"}},
	}

	prompt := buildRerankPrompt("red oak chair", candidates)

	assert.Contains(t, prompt, "Query: red oak chair")
	assert.Contains(t, prompt, "0. Red Chair")
	assert.Contains(t, prompt, "brand: Acme")
	assert.Contains(t, prompt, "price: 100 EUR")
	assert.Contains(t, prompt, "1. Blue Sofa")
	assert.Contains(t, prompt, `{"indices": [..]}`)
}

func TestBuildRerankPrompt_TruncatesCyrillicDescriptionCleanly(t *testing.T) {
	// Each Cyrillic letter is two bytes, so a naive byte cut at 200 would
	// land mid-rune.
	candidates := []domain.SearchResult{
		{Product: &domain.ProductRecord{
			DisplayName: "Кресло", Description: strings.Repeat("я", 150),
		}},
	}

	prompt := buildRerankPrompt("красное кресло", candidates)

	assert.True(t, utf8.ValidString(prompt))
	assert.NotContains(t, prompt, string(utf8.RuneError))
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "short", truncateRunes("short", 200))
	assert.Equal(t, "abc", truncateRunes("abcdef", 3))

	cut := truncateRunes(strings.Repeat("я", 10), 9)
	assert.True(t, utf8.ValidString(cut))
	assert.Equal(t, strings.Repeat("я", 4), cut)
}
