package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/tempodl/internal/models"
	"github.com/desertthunder/tempodl/internal/shared"
)

var _ models.Repository[*models.TempoEntry] = (*TempoRepository)(nil)

// ErrTempoNotFound is returned when no cache row matches.
var ErrTempoNotFound = errors.New("tempo entry not found")

const tempoColumns = "id, sequence, track_id, tempo, created_at, updated_at"

// TempoRepository implements models.Repository[*models.TempoEntry] for the tempo cache.
type TempoRepository struct {
	db *sql.DB
}

// NewTempoRepository creates a new TempoRepository with the given database connection
func NewTempoRepository(db *sql.DB) *TempoRepository {
	return &TempoRepository{db: db}
}

// Create inserts a new [models.TempoEntry] with generated ID and sequence
func (r *TempoRepository) Create(entry *models.TempoEntry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "tempo_cache")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	entry.SetID(shared.GenerateID())
	entry.SetSequence(sequence)

	_, err = r.db.Exec(
		`INSERT INTO tempo_cache (`+tempoColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID(), entry.Sequence(), entry.TrackID(), entry.Tempo(), entry.CreatedAt(), entry.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert tempo entry: %w", err)
	}
	return nil
}

// Get retrieves an entry by its row ID
func (r *TempoRepository) Get(id string) (*models.TempoEntry, error) {
	return scanTempo(r.db.QueryRow(`SELECT `+tempoColumns+` FROM tempo_cache WHERE id = ?`, id))
}

// GetByTrackID retrieves the entry for a Spotify track ID
func (r *TempoRepository) GetByTrackID(trackID string) (*models.TempoEntry, error) {
	return scanTempo(r.db.QueryRow(`SELECT `+tempoColumns+` FROM tempo_cache WHERE track_id = ?`, trackID))
}

// Update stores a new tempo for an existing entry
func (r *TempoRepository) Update(entry *models.TempoEntry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	entry.SetUpdatedAt(now)

	result, err := r.db.Exec(`UPDATE tempo_cache SET tempo = ?, updated_at = ? WHERE id = ?`, entry.Tempo(), now, entry.ID())
	if err != nil {
		return fmt.Errorf("failed to update tempo entry: %w", err)
	}
	return requireAffected(result, entry.ID())
}

// Delete removes an entry by row ID
func (r *TempoRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM tempo_cache WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete tempo entry: %w", err)
	}
	return requireAffected(result, id)
}

// List retrieves entries in insertion order.
//
// Supported criteria: "track_id" (string), "min_tempo" and "max_tempo" (float64).
func (r *TempoRepository) List(criteria map[string]any) ([]*models.TempoEntry, error) {
	query := `SELECT ` + tempoColumns + ` FROM tempo_cache WHERE 1 = 1`
	args := []any{}

	if trackID, ok := criteria["track_id"].(string); ok && trackID != "" {
		query += " AND track_id = ?"
		args = append(args, trackID)
	}
	if lo, ok := criteria["min_tempo"].(float64); ok {
		query += " AND tempo >= ?"
		args = append(args, lo)
	}
	if hi, ok := criteria["max_tempo"].(float64); ok {
		query += " AND tempo <= ?"
		args = append(args, hi)
	}
	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tempo entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.TempoEntry
	for rows.Next() {
		entry, err := scanTempo(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return entries, nil
}

// Prune deletes entries not refreshed since before and returns how many were removed.
func (r *TempoRepository) Prune(before time.Time) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM tempo_cache WHERE updated_at < ?`, before)
	if err != nil {
		return 0, fmt.Errorf("failed to prune tempo cache: %w", err)
	}
	return result.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTempo(row scanner) (*models.TempoEntry, error) {
	var (
		id        string
		sequence  int
		trackID   string
		tempo     float64
		createdAt time.Time
		updatedAt time.Time
	)

	err := row.Scan(&id, &sequence, &trackID, &tempo, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTempoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan tempo entry: %w", err)
	}

	return models.RestoreTempoEntry(id, sequence, trackID, tempo, createdAt, updatedAt), nil
}

func requireAffected(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrTempoNotFound, id)
	}
	return nil
}
