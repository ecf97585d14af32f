// Package sqlite provides a persistent vector index backed by SQLite.
//
// Each record stores the embedded document text, its vector as a float32
// little-endian blob and a JSON metadata object. Similarity search is a
// brute-force cosine scan over the collection, which is more than fast
// enough for catalogs of tens of thousands of records and keeps the index a
// single dependency-free file on disk.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/atelier-labs/showroom/internal/adapters/driven/vector/sqlite/migrations"
	"github.com/atelier-labs/showroom/internal/core/domain"
	"github.com/atelier-labs/showroom/internal/core/ports/driven"
	"github.com/atelier-labs/showroom/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is a SQLite-backed implementation of driven.VectorIndex.
// The embedding dimensionality is fixed per collection; switching embedding
// models requires a new collection name.
type Index struct {
	db         *sql.DB
	path       string
	collection string
	embedder   driven.EmbeddingService
}

// NewIndex opens (or creates) the vector database in dataDir and binds to
// the named collection. If dataDir is empty, defaults to ~/.showroom/data.
func NewIndex(dataDir, collection string, embedder driven.EmbeddingService) (*Index, error) {
	if embedder == nil {
		return nil, fmt.Errorf("vector index requires an embedding service: %w",
			domain.ErrEmbeddingUnavailable)
	}
	if collection == "" {
		return nil, fmt.Errorf("collection name is required: %w", domain.ErrInvalidInput)
	}
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".showroom", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "vectors.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	x := &Index{
		db:         db,
		path:       dbPath,
		collection: collection,
		embedder:   embedder,
	}

	if err := x.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return x, nil
}

// migrate runs all pending migrations.
func (x *Index) migrate(fsys embed.FS) error {
	_, err := x.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := x.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := x.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := x.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Upsert inserts or replaces one record, embedding its document text.
func (x *Index) Upsert(ctx context.Context, record domain.VectorRecord) error {
	vector, err := x.embedder.Embed(ctx, record.DocumentText)
	if err != nil {
		// The adapter degrades to zero vectors itself; an error here is
		// unexpected but must not lose the record.
		logger.Warn("Embedding %q failed, storing zero vector: %v", record.Key, err)
		vector = make([]float32, x.embedder.Dimensions())
	}
	return x.write(ctx, record, vector)
}

// UpsertBatch inserts or replaces records in bulk. The whole batch is
// embedded first (the adapter bounds its own request sizes), then each
// record is written individually so a failing row never undoes its
// neighbours. The returned count is the number of records that persisted;
// the first row error, if any, is reported alongside it.
func (x *Index) UpsertBatch(ctx context.Context, records []domain.VectorRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	texts := make([]string, len(records))
	for i, record := range records {
		texts[i] = record.DocumentText
	}
	vectors, err := x.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed batch: %w", err)
	}

	count := 0
	var firstErr error
	for i, record := range records {
		if err := x.write(ctx, record, vectors[i]); err != nil {
			logger.Warn("Indexing %q failed: %v", record.Key, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		count++
	}
	return count, firstErr
}

// write stores one embedded record.
func (x *Index) write(ctx context.Context, record domain.VectorRecord, vector []float32) error {
	metadata, err := json.Marshal(record.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata for %s: %w", record.Key, err)
	}

	_, err = x.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO vectors (collection, key, document, embedding, metadata, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, x.collection, record.Key, record.DocumentText, float32SliceToBytes(vector), string(metadata))
	if err != nil {
		return fmt.Errorf("upsert %s: %w", record.Key, err)
	}
	return nil
}

// Query embeds the text and returns the n nearest records matching the
// filter, ordered by ascending cosine distance.
func (x *Index) Query(
	ctx context.Context, text string, n int, filter driven.MetadataFilter,
) ([]driven.VectorHit, error) {
	queryVector, err := x.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	rows, err := x.db.QueryContext(ctx,
		"SELECT key, embedding, metadata FROM vectors WHERE collection = ?", x.collection)
	if err != nil {
		return nil, fmt.Errorf("query vectors: %w", err)
	}
	defer rows.Close()

	var hits []driven.VectorHit
	for rows.Next() {
		var key string
		var blob []byte
		var metadataJSON string
		if err := rows.Scan(&key, &blob, &metadataJSON); err != nil {
			return nil, fmt.Errorf("scan vector row: %w", err)
		}

		metadata := make(map[string]string)
		if err := json.Unmarshal([]byte(metadataJSON), &metadata); err != nil {
			logger.Warn("Malformed metadata for %q, skipping", key)
			continue
		}
		if !matchesFilter(metadata, filter) {
			continue
		}

		hits = append(hits, driven.VectorHit{
			Key:      key,
			Metadata: metadata,
			Distance: cosineDistance(queryVector, bytesToFloat32Slice(blob)),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vector rows: %w", err)
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
	if n > 0 && len(hits) > n {
		hits = hits[:n]
	}
	return hits, nil
}

// DeleteByKey removes the record for a key. Missing keys are not an error.
func (x *Index) DeleteByKey(ctx context.Context, key string) error {
	_, err := x.db.ExecContext(ctx,
		"DELETE FROM vectors WHERE collection = ? AND key = ?", x.collection, key)
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// DeleteWhere removes all records matching the filter. A nil filter clears
// the whole collection.
func (x *Index) DeleteWhere(ctx context.Context, filter driven.MetadataFilter) (int, error) {
	if filter == nil {
		result, err := x.db.ExecContext(ctx,
			"DELETE FROM vectors WHERE collection = ?", x.collection)
		if err != nil {
			return 0, fmt.Errorf("clear collection: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("count deleted rows: %w", err)
		}
		return int(affected), nil
	}

	rows, err := x.db.QueryContext(ctx,
		"SELECT key, metadata FROM vectors WHERE collection = ?", x.collection)
	if err != nil {
		return 0, fmt.Errorf("query vectors: %w", err)
	}
	defer rows.Close()

	var doomed []string
	for rows.Next() {
		var key, metadataJSON string
		if err := rows.Scan(&key, &metadataJSON); err != nil {
			return 0, fmt.Errorf("scan vector row: %w", err)
		}
		metadata := make(map[string]string)
		if err := json.Unmarshal([]byte(metadataJSON), &metadata); err != nil {
			continue
		}
		if matchesFilter(metadata, filter) {
			doomed = append(doomed, key)
		}
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("iterate vector rows: %w", err)
	}

	for _, key := range doomed {
		if err := x.DeleteByKey(ctx, key); err != nil {
			return 0, err
		}
	}
	return len(doomed), nil
}

// Keys returns all indexed record keys in the collection.
func (x *Index) Keys(ctx context.Context) ([]string, error) {
	rows, err := x.db.QueryContext(ctx,
		"SELECT key FROM vectors WHERE collection = ? ORDER BY key", x.collection)
	if err != nil {
		return nil, fmt.Errorf("query keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate keys: %w", err)
	}
	return keys, nil
}

// Count returns the total number of indexed records in the collection.
func (x *Index) Count(ctx context.Context) (int, error) {
	var count int
	row := x.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM vectors WHERE collection = ?", x.collection)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count vectors: %w", err)
	}
	return count, nil
}

// Path returns the database file path.
func (x *Index) Path() string {
	return x.path
}

// Close closes the database connection.
func (x *Index) Close() error {
	return x.db.Close()
}

// matchesFilter reports whether metadata satisfies every filter predicate.
func matchesFilter(metadata map[string]string, filter driven.MetadataFilter) bool {
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

// cosineDistance returns 1 - cosine similarity. Zero-norm vectors (the
// degradation fallback) are maximally distant rather than undefined.
func cosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 1
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
