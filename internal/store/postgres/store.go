// Package postgres provides a PostgreSQL-backed translation store.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/davidbz/polyglot/internal/domain"
	"github.com/davidbz/polyglot/internal/observability"
)

// Config contains PostgreSQL store settings.
type Config struct {
	DSN            string        `env:"POSTGRES_DSN"`
	Table          string        `env:"POSTGRES_TABLE"           envDefault:"translation"`
	ConnectTimeout time.Duration `env:"POSTGRES_CONNECT_TIMEOUT" envDefault:"5s"`
	MaxOpenConns   int           `env:"POSTGRES_MAX_OPEN_CONNS"  envDefault:"10"`
}

// Store is a PostgreSQL-backed TranslationStore. Rows are never overwritten: the
// first translation saved for a (languages, text, engine, version, alignment) tuple wins.
type Store struct {
	db    *sql.DB
	table string
}

// NewStore opens the database, verifies the connection and creates the schema.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, errors.New("postgres dsn is required")
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	if err = db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := NewStoreFromDB(db, cfg.Table)
	if err = store.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	observability.FromContext(ctx).Info("database connection established",
		observability.String("table", cfg.Table))

	return store, nil
}

// NewStoreFromDB creates a store from an open database handle.
func NewStoreFromDB(db *sql.DB, table string) *Store {
	if table == "" {
		table = "translation"
	}

	return &Store{
		db:    db,
		table: pq.QuoteIdentifier(table),
	}
}

// Migrate creates the translation table when it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS ` + s.table + ` (
			id SERIAL PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			from_was_specified BOOLEAN NOT NULL,
			from_language VARCHAR(2),
			to_language VARCHAR(2) NOT NULL,
			source_text TEXT NOT NULL,
			translated_text TEXT NOT NULL,
			translation_engine VARCHAR(32) NOT NULL,
			translation_engine_version VARCHAR(32) NOT NULL,
			has_alignment_info BOOLEAN NOT NULL,
			alignment JSONB,
			detection_confidence DOUBLE PRECISION,
			CONSTRAINT unique_translation_constraint UNIQUE (
				from_language, to_language, source_text,
				translation_engine, translation_engine_version, has_alignment_info
			)
		)
	`

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create translation table: %w", err)
	}

	return nil
}

// Lookup returns the oldest stored translation matching the fingerprint.
func (s *Store) Lookup(ctx context.Context, fp domain.Fingerprint) (*domain.TranslationResult, error) {
	conditions := []string{"to_language = $1", "source_text = $2", "translation_engine = $3"}
	args := []interface{}{fp.ToLanguage, fp.SourceText, fp.Engine}

	if fp.WithAlignment {
		conditions = append(conditions, "has_alignment_info = true")
	}

	if fp.FromWasSpecified() {
		args = append(args, fp.FromLanguage)
		conditions = append(conditions, "from_language = $"+strconv.Itoa(len(args)))
	} else {
		conditions = append(conditions, "from_was_specified = false")
	}

	query := `
		SELECT translation_engine_version, from_language, translated_text,
		       detection_confidence, alignment
		FROM ` + s.table + `
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY id
		LIMIT 1
	`

	var (
		version    string
		from       sql.NullString
		translated string
		confidence sql.NullFloat64
		alignment  []byte
	)

	err := s.db.QueryRowContext(ctx, query, args...).Scan(&version, &from, &translated, &confidence, &alignment)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query translation: %w", err)
	}

	result := &domain.TranslationResult{
		Engine:         fp.Engine,
		EngineVersion:  version,
		FromLanguage:   from.String,
		ToLanguage:     fp.ToLanguage,
		SourceText:     fp.SourceText,
		TranslatedText: translated,
	}

	if confidence.Valid {
		result.DetectedLanguageConfidence = &confidence.Float64
	}

	if fp.WithAlignment && len(alignment) > 0 {
		if err = json.Unmarshal(alignment, &result.Alignment); err != nil {
			return nil, fmt.Errorf("failed to decode alignment: %w", err)
		}
	}

	return result, nil
}

// Save inserts a translation unless an identical one is already stored.
func (s *Store) Save(ctx context.Context, result *domain.TranslationResult, fromWasSpecified bool) error {
	// An empty alignment still counts as alignment information.
	var alignment interface{}
	if result.Alignment != nil {
		data, err := json.Marshal(result.Alignment)
		if err != nil {
			return fmt.Errorf("failed to encode alignment: %w", err)
		}
		alignment = string(data)
	}

	var confidence sql.NullFloat64
	if result.DetectedLanguageConfidence != nil {
		confidence = sql.NullFloat64{Float64: *result.DetectedLanguageConfidence, Valid: true}
	}

	query := `
		INSERT INTO ` + s.table + ` (
			from_was_specified, from_language, to_language, source_text, translated_text,
			translation_engine, translation_engine_version, has_alignment_info, alignment,
			detection_confidence
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT ON CONSTRAINT unique_translation_constraint DO NOTHING
	`

	_, err := s.db.ExecContext(ctx, query,
		fromWasSpecified,
		sql.NullString{String: result.FromLanguage, Valid: result.FromLanguage != ""},
		result.ToLanguage,
		result.SourceText,
		result.TranslatedText,
		result.Engine,
		result.EngineVersion,
		alignment != nil,
		alignment,
		confidence,
	)
	if err != nil {
		return fmt.Errorf("failed to insert translation: %w", err)
	}

	return nil
}

// Close closes the database connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
