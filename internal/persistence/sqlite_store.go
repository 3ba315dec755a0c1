package persistence

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/petrijr/aslflow/pkg/api"
)

// SQLiteDefinitionStore is a DefinitionStore backed by SQLite.
//
// It expects an *sql.DB that uses a SQLite driver (for example,
// "modernc.org/sqlite"). The caller is responsible for importing
// the driver, e.g.:
//
//	import _ "modernc.org/sqlite"
type SQLiteDefinitionStore struct {
	db *sql.DB
}

// Ensure SQLiteDefinitionStore implements DefinitionStore.
var _ DefinitionStore = (*SQLiteDefinitionStore)(nil)

// NewSQLiteDefinitionStore initializes the required schema in the given
// database and returns a new SQLiteDefinitionStore.
func NewSQLiteDefinitionStore(db *sql.DB) (*SQLiteDefinitionStore, error) {
	s := &SQLiteDefinitionStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLiteDefinitionStore) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS definitions (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			revision TEXT NOT NULL,
			fingerprint TEXT NOT NULL,
			document TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			UNIQUE (name, revision)
		);`,
	)
	return err
}

func (s *SQLiteDefinitionStore) SaveDefinition(ctx context.Context, def api.StoredDefinition) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO definitions (name, revision, fingerprint, document, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		def.Name,
		def.Revision,
		def.Fingerprint,
		def.Document,
		def.CreatedAt.UTC().UnixNano(),
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrRevisionExists
	}
	return err
}

func (s *SQLiteDefinitionStore) GetDefinition(ctx context.Context, name, revision string) (api.StoredDefinition, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT name, revision, fingerprint, document, created_at
		FROM definitions
		WHERE name = ? AND revision = ?`,
		name, revision,
	)
	return scanSQLiteDefinition(row)
}

func (s *SQLiteDefinitionStore) GetLatestDefinition(ctx context.Context, name string) (api.StoredDefinition, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT name, revision, fingerprint, document, created_at
		FROM definitions
		WHERE name = ?
		ORDER BY seq DESC
		LIMIT 1`,
		name,
	)
	return scanSQLiteDefinition(row)
}

func (s *SQLiteDefinitionStore) ListRevisions(ctx context.Context, name string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT revision FROM definitions WHERE name = ? ORDER BY seq ASC`,
		name,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	revs := make([]string, 0)
	for rows.Next() {
		var rev string
		if err := rows.Scan(&rev); err != nil {
			return nil, err
		}
		revs = append(revs, rev)
	}
	return revs, rows.Err()
}

func scanSQLiteDefinition(row *sql.Row) (api.StoredDefinition, error) {
	var (
		def       api.StoredDefinition
		createdNs int64
	)
	err := row.Scan(&def.Name, &def.Revision, &def.Fingerprint, &def.Document, &createdNs)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return api.StoredDefinition{}, ErrDefinitionNotFound
		}
		return api.StoredDefinition{}, err
	}
	def.CreatedAt = time.Unix(0, createdNs).UTC()
	return def, nil
}
