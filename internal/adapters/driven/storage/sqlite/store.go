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

	"github.com/custodia-labs/arielle-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/arielle-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/arielle-cli/internal/core/domain"
	"github.com/custodia-labs/arielle-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// DatabaseFile is the file name created inside the data directory.
const DatabaseFile = "vectors.db"

// Store is a SQLite-based vector store. Records are partitioned by collection.
type Store struct {
	db         *sql.DB
	path       string
	collection string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.arielle/data/vectors.db.
func NewStore(dataDir, collection string) (*Store, error) {
	if collection == "" {
		collection = domain.DefaultCollection
	}
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".arielle", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:         db,
		path:       dbPath,
		collection: collection,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Collection returns the collection this store reads and writes.
func (s *Store) Collection() string {
	return s.collection
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_vectors.up.sql" -> 1)
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
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// Upsert inserts or replaces records by ID in a single transaction.
func (s *Store) Upsert(ctx context.Context, records []driven.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO vectors (collection, id, document, metadata, embedding, dimensions, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(collection, id) DO UPDATE SET
			document = excluded.document,
			metadata = excluded.metadata,
			embedding = excluded.embedding,
			dimensions = excluded.dimensions,
			updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if r.ID == "" {
			return fmt.Errorf("%w: record without id", domain.ErrInvalidInput)
		}
		metadata, err := json.Marshal(nonNil(r.Metadata))
		if err != nil {
			return fmt.Errorf("marshal metadata for %s: %w", r.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, s.collection, r.ID, r.Document, string(metadata),
			encodeVector(r.Embedding), len(r.Embedding)); err != nil {
			return fmt.Errorf("upsert %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert: %w", err)
	}
	return nil
}

// Query returns up to q.Limit records closest to q.Embedding, nearest first.
// Metadata filters are applied in SQL; distances are computed in Go.
func (s *Store) Query(ctx context.Context, q driven.VectorQuery) ([]driven.VectorMatch, error) {
	where, args := filterClause(s.collection, q.Filter)
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, document, metadata, embedding FROM vectors WHERE "+where, args...)
	if err != nil {
		return nil, fmt.Errorf("query vectors: %w", err)
	}
	defer rows.Close()

	var matches []driven.VectorMatch
	for rows.Next() {
		var (
			id, document, metadata string
			blob                   []byte
		)
		if err := rows.Scan(&id, &document, &metadata, &blob); err != nil {
			return nil, fmt.Errorf("scan vector: %w", err)
		}
		meta := map[string]string{}
		if err := json.Unmarshal([]byte(metadata), &meta); err != nil {
			return nil, fmt.Errorf("decode metadata for %s: %w", id, err)
		}
		matches = append(matches, driven.VectorMatch{
			ID:       id,
			Document: document,
			Metadata: meta,
			Distance: domain.CosineDistance(q.Embedding, decodeVector(blob)),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vectors: %w", err)
	}

	memory.SortMatches(matches)
	if q.Limit > 0 && len(matches) > q.Limit {
		matches = matches[:q.Limit]
	}
	return matches, nil
}

// Count returns the number of records in the collection.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM vectors WHERE collection = ?", s.collection).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count vectors: %w", err)
	}
	return count, nil
}

// Delete removes records whose metadata matches every filter entry.
// An empty filter removes the whole collection.
func (s *Store) Delete(ctx context.Context, filter map[string]string) error {
	where, args := filterClause(s.collection, filter)
	if _, err := s.db.ExecContext(ctx, "DELETE FROM vectors WHERE "+where, args...); err != nil {
		return fmt.Errorf("delete vectors: %w", err)
	}
	return nil
}

// filterClause builds a WHERE clause matching the collection and every
// metadata entry. Keys are sorted so the statement text is stable.
func filterClause(collection string, filter map[string]string) (string, []any) {
	clauses := []string{"collection = ?"}
	args := []any{collection}

	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		clauses = append(clauses, "json_extract(metadata, ?) = ?")
		args = append(args, jsonPath(k), filter[k])
	}
	return strings.Join(clauses, " AND "), args
}

// jsonPath quotes key so that dots and spaces are treated literally.
func jsonPath(key string) string {
	return `$."` + strings.ReplaceAll(key, `"`, `\"`) + `"`
}

func nonNil(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

// encodeVector stores v as little-endian float32 values.
func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(f))
	}
	return buf
}

// decodeVector is the inverse of encodeVector. A trailing partial value is ignored.
func decodeVector(b []byte) []float32 {
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return v
}

