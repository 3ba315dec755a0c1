package persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/petrijr/aslflow/pkg/api"
)

// pgUniqueViolation is the SQLSTATE of a unique constraint violation.
const pgUniqueViolation = "23505"

// PostgresDefinitionStore is a DefinitionStore backed by PostgreSQL.
//
// It expects an *sql.DB opened with the pgx driver:
//
//	import _ "github.com/jackc/pgx/v5/stdlib"
//	db, err := sql.Open("pgx", dsn)
type PostgresDefinitionStore struct {
	db *sql.DB
}

// Ensure PostgresDefinitionStore implements DefinitionStore.
var _ DefinitionStore = (*PostgresDefinitionStore)(nil)

// NewPostgresDefinitionStore initializes the required schema in the given
// database and returns a new PostgresDefinitionStore.
func NewPostgresDefinitionStore(db *sql.DB) (*PostgresDefinitionStore, error) {
	s := &PostgresDefinitionStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *PostgresDefinitionStore) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS definitions (
			seq BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			revision TEXT NOT NULL,
			fingerprint TEXT NOT NULL,
			document TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			UNIQUE (name, revision)
		);
	`)
	return err
}

func (s *PostgresDefinitionStore) SaveDefinition(ctx context.Context, def api.StoredDefinition) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO definitions (name, revision, fingerprint, document, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		def.Name,
		def.Revision,
		def.Fingerprint,
		def.Document,
		def.CreatedAt.UTC(),
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrRevisionExists
	}
	return err
}

func (s *PostgresDefinitionStore) GetDefinition(ctx context.Context, name, revision string) (api.StoredDefinition, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT name, revision, fingerprint, document, created_at
		FROM definitions
		WHERE name = $1 AND revision = $2`,
		name, revision,
	)
	return scanPostgresDefinition(row)
}

func (s *PostgresDefinitionStore) GetLatestDefinition(ctx context.Context, name string) (api.StoredDefinition, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT name, revision, fingerprint, document, created_at
		FROM definitions
		WHERE name = $1
		ORDER BY seq DESC
		LIMIT 1`,
		name,
	)
	return scanPostgresDefinition(row)
}

func (s *PostgresDefinitionStore) ListRevisions(ctx context.Context, name string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT revision FROM definitions WHERE name = $1 ORDER BY seq ASC`,
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

func scanPostgresDefinition(row *sql.Row) (api.StoredDefinition, error) {
	var def api.StoredDefinition
	err := row.Scan(&def.Name, &def.Revision, &def.Fingerprint, &def.Document, &def.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return api.StoredDefinition{}, ErrDefinitionNotFound
		}
		return api.StoredDefinition{}, err
	}
	def.CreatedAt = def.CreatedAt.UTC()
	return def, nil
}
