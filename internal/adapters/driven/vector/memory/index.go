// Package memory provides an in-memory vector index used in tests and as a
// fallback when no persistent index is configured. Similarity is approximated
// by token overlap between the query and the stored document text, which is
// deterministic and needs no embedding service.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/atelier-labs/showroom/internal/core/domain"
	"github.com/atelier-labs/showroom/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is an in-memory implementation of driven.VectorIndex.
type Index struct {
	mu      sync.RWMutex
	records map[string]domain.VectorRecord
	order   []string
}

// NewIndex creates an empty in-memory index.
func NewIndex() *Index {
	return &Index{
		records: make(map[string]domain.VectorRecord),
	}
}

// Upsert inserts or replaces one record.
func (x *Index) Upsert(_ context.Context, record domain.VectorRecord) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.put(record)
	return nil
}

// UpsertBatch inserts or replaces records in bulk.
func (x *Index) UpsertBatch(_ context.Context, records []domain.VectorRecord) (int, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	for _, record := range records {
		x.put(record)
	}
	return len(records), nil
}

func (x *Index) put(record domain.VectorRecord) {
	if _, ok := x.records[record.Key]; !ok {
		x.order = append(x.order, record.Key)
	}
	x.records[record.Key] = record
}

// Query returns the n records whose document text shares the most tokens
// with the query, ordered by ascending distance. Ties keep insertion order.
func (x *Index) Query(
	_ context.Context, text string, n int, filter driven.MetadataFilter,
) ([]driven.VectorHit, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	queryTokens := tokenize(text)
	if len(queryTokens) == 0 {
		return nil, nil
	}

	var hits []driven.VectorHit
	for _, key := range x.order {
		record := x.records[key]
		if !matches(record.Metadata, filter) {
			continue
		}
		overlap := 0
		docTokens := tokenize(record.DocumentText)
		for token := range queryTokens {
			if docTokens[token] {
				overlap++
			}
		}
		if overlap == 0 {
			continue
		}
		hits = append(hits, driven.VectorHit{
			Key:      key,
			Metadata: record.Metadata,
			Distance: 1 - float64(overlap)/float64(len(queryTokens)),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
	if n > 0 && len(hits) > n {
		hits = hits[:n]
	}
	return hits, nil
}

// DeleteByKey removes the record for a key.
func (x *Index) DeleteByKey(_ context.Context, key string) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if _, ok := x.records[key]; !ok {
		return nil
	}
	delete(x.records, key)
	x.dropFromOrder(key)
	return nil
}

// DeleteWhere removes all records matching the filter. A nil filter matches
// every record.
func (x *Index) DeleteWhere(_ context.Context, filter driven.MetadataFilter) (int, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	removed := 0
	for _, key := range x.order {
		record := x.records[key]
		if !matches(record.Metadata, filter) {
			continue
		}
		delete(x.records, key)
		removed++
	}
	if removed > 0 {
		kept := x.order[:0]
		for _, key := range x.order {
			if _, ok := x.records[key]; ok {
				kept = append(kept, key)
			}
		}
		x.order = kept
	}
	return removed, nil
}

// Keys returns all indexed record keys in insertion order.
func (x *Index) Keys(_ context.Context) ([]string, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	keys := make([]string, len(x.order))
	copy(keys, x.order)
	return keys, nil
}

// Count returns the total number of indexed records.
func (x *Index) Count(_ context.Context) (int, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.records), nil
}

// Close releases resources (no-op for memory index).
func (x *Index) Close() error {
	return nil
}

func (x *Index) dropFromOrder(key string) {
	for i, k := range x.order {
		if k == key {
			x.order = append(x.order[:i], x.order[i+1:]...)
			return
		}
	}
}

func matches(metadata map[string]string, filter driven.MetadataFilter) bool {
	for field, values := range filter {
		got, ok := metadata[field]
		if !ok {
			return false
		}
		found := false
		for _, want := range values {
			if got == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func tokenize(text string) map[string]bool {
	tokens := make(map[string]bool)
	for _, field := range strings.Fields(strings.ToLower(text)) {
		token := strings.Trim(field, ".,;:!?()[]\"'")
		if token != "" {
			tokens[token] = true
		}
	}
	return tokens
}
