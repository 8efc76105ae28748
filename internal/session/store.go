// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session persists the analysis session: the current analysis
// document, the original listing it was produced from, and any derived
// content generated off it. Each analyze action inserts a new row that
// supersedes the previous current analysis; derived actions in later
// invocations read the newest row.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/listing-lens/pkg/types"
)

const dbFile = "session.db"

// ErrNoAnalysis is returned when a derived action runs before any
// analyze action has stored a document.
var ErrNoAnalysis = errors.New("no analysis in session: run analyze first")

// Store manages the session SQLite database.
type Store struct {
	db *sql.DB
}

// Analysis is one stored analyze result: the parsed document plus the
// listing text it was parsed from.
type Analysis struct {
	ID        int64
	CreatedAt time.Time
	Listing   string
	Document  types.AnalysisDocument
}

// Summary is one history listing entry.
type Summary struct {
	ID              int64
	CreatedAt       time.Time
	ListingPreview  string
	Recommendations int
}

// NewStore opens or creates the session database at
// dataDir/session.db, creating the schema if it does not exist.
func NewStore(cfg types.SessionConfig) (*Store, error) {
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = ".listing-lens"
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS analyses (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at TEXT NOT NULL,
			listing TEXT NOT NULL,
			overall_assessment TEXT NOT NULL,
			price_analysis TEXT NOT NULL DEFAULT '',
			keywords TEXT NOT NULL DEFAULT '[]',
			sources TEXT NOT NULL DEFAULT '[]'
		)`,
		`CREATE TABLE IF NOT EXISTS recommendations (
			analysis_id INTEGER NOT NULL REFERENCES analyses(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			element TEXT NOT NULL,
			suggestion TEXT NOT NULL DEFAULT '',
			reasoning TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_recommendations_analysis ON recommendations(analysis_id)`,
		`CREATE TABLE IF NOT EXISTS derived (
			analysis_id INTEGER NOT NULL REFERENCES analyses(id) ON DELETE CASCADE,
			kind TEXT NOT NULL,
			payload TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_derived_analysis_kind ON derived(analysis_id, kind)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save stores a new analysis as the current one. Previous analyses are
// kept as history; nothing is merged.
func (s *Store) Save(ctx context.Context, listing string, doc *types.AnalysisDocument) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	keywordsJSON, _ := json.Marshal(doc.SuggestedKeywords)
	sourcesJSON, _ := json.Marshal(doc.Sources)
	createdAt := time.Now().UTC().Format(time.RFC3339Nano)

	res, err := tx.ExecContext(ctx,
		`INSERT INTO analyses (created_at, listing, overall_assessment, price_analysis, keywords, sources)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		createdAt, listing, doc.OverallAssessment, doc.PriceAnalysis,
		string(keywordsJSON), string(sourcesJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting analysis: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading analysis id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO recommendations (analysis_id, position, element, suggestion, reasoning)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range doc.Recommendations {
		if _, err := stmt.ExecContext(ctx, id, i, rec.Element, rec.Suggestion, rec.Reasoning); err != nil {
			return 0, fmt.Errorf("inserting recommendation %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing analysis: %w", err)
	}
	return id, nil
}

// Current returns the newest stored analysis, or ErrNoAnalysis when
// the session is empty.
func (s *Store) Current(ctx context.Context) (*Analysis, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, listing, overall_assessment, price_analysis, keywords, sources
		 FROM analyses ORDER BY id DESC LIMIT 1`)

	var (
		a            Analysis
		createdAt    string
		keywordsJSON string
		sourcesJSON  string
	)
	err := row.Scan(&a.ID, &createdAt, &a.Listing,
		&a.Document.OverallAssessment, &a.Document.PriceAnalysis,
		&keywordsJSON, &sourcesJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoAnalysis
	}
	if err != nil {
		return nil, fmt.Errorf("reading current analysis: %w", err)
	}

	a.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	if err := json.Unmarshal([]byte(keywordsJSON), &a.Document.SuggestedKeywords); err != nil {
		return nil, fmt.Errorf("parsing stored keywords: %w", err)
	}
	if err := json.Unmarshal([]byte(sourcesJSON), &a.Document.Sources); err != nil {
		return nil, fmt.Errorf("parsing stored sources: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT element, suggestion, reasoning FROM recommendations
		 WHERE analysis_id = ? ORDER BY position`, a.ID)
	if err != nil {
		return nil, fmt.Errorf("reading recommendations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec types.RecommendationItem
		if err := rows.Scan(&rec.Element, &rec.Suggestion, &rec.Reasoning); err != nil {
			return nil, fmt.Errorf("scanning recommendation: %w", err)
		}
		a.Document.Recommendations = append(a.Document.Recommendations, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading recommendations: %w", err)
	}

	return &a, nil
}

// SaveDerived stores derived content for an analysis. Later saves of
// the same kind supersede earlier ones on load.
func (s *Store) SaveDerived(ctx context.Context, analysisID int64, kind types.DerivedKind, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling %s payload: %w", kind, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO derived (analysis_id, kind, payload, created_at) VALUES (?, ?, ?, ?)`,
		analysisID, string(kind), string(data), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("inserting %s payload: %w", kind, err)
	}
	return nil
}

// LoadDerived fetches the newest derived payload of the given kind for
// an analysis into out. It reports whether one was found.
func (s *Store) LoadDerived(ctx context.Context, analysisID int64, kind types.DerivedKind, out any) (bool, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM derived WHERE analysis_id = ? AND kind = ?
		 ORDER BY rowid DESC LIMIT 1`, analysisID, string(kind)).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading %s payload: %w", kind, err)
	}
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return false, fmt.Errorf("parsing stored %s payload: %w", kind, err)
	}
	return true, nil
}

// History lists stored analyses, newest first, up to limit.
func (s *Store) History(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT a.id, a.created_at, a.listing,
			(SELECT count(*) FROM recommendations r WHERE r.analysis_id = a.id)
		 FROM analyses a ORDER BY a.id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var (
			sum       Summary
			createdAt string
			listing   string
		)
		if err := rows.Scan(&sum.ID, &createdAt, &listing, &sum.Recommendations); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		sum.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		sum.ListingPreview = preview(listing, 60)
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

// Prune deletes all but the newest keep analyses, cascading to their
// recommendations and derived content. It returns the number removed.
func (s *Store) Prune(ctx context.Context, keep int) (int, error) {
	if keep < 1 {
		keep = 1
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM analyses WHERE id NOT IN
			(SELECT id FROM analyses ORDER BY id DESC LIMIT ?)`, keep)
	if err != nil {
		return 0, fmt.Errorf("pruning analyses: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// exportRecord is the YAML shape written by ExportYAML.
type exportRecord struct {
	ID        int64                  `yaml:"id"`
	CreatedAt time.Time              `yaml:"created_at"`
	Listing   string                 `yaml:"listing"`
	Analysis  types.AnalysisDocument `yaml:"analysis"`
}

// ExportYAML writes the current analysis as YAML.
func (s *Store) ExportYAML(ctx context.Context, w io.Writer) error {
	a, err := s.Current(ctx)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(exportRecord{
		ID:        a.ID,
		CreatedAt: a.CreatedAt,
		Listing:   a.Listing,
		Analysis:  a.Document,
	})
	if err != nil {
		return fmt.Errorf("marshaling export: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// preview trims a listing to its first line, capped at max runes.
func preview(listing string, max int) string {
	if i := strings.IndexByte(listing, '\n'); i >= 0 {
		listing = listing[:i]
	}
	runes := []rune(listing)
	if len(runes) > max {
		return string(runes[:max-3]) + "..."
	}
	return listing
}
