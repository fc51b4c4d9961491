package repositories

import (
	"errors"
	"fmt"
	"sync"

	"github.com/desertthunder/tempodl/internal/models"
)

// TempoCacheAdapter exposes [TempoRepository] as the tempo cache used by the Spotify reader.
//
// Safe for concurrent use; writes are serialized.
type TempoCacheAdapter struct {
	mu   sync.Mutex
	repo *TempoRepository
}

// NewTempoCacheAdapter creates a new TempoCacheAdapter with the given repository
func NewTempoCacheAdapter(repo *TempoRepository) *TempoCacheAdapter {
	return &TempoCacheAdapter{repo: repo}
}

// LookupTempo returns the cached tempo for trackID. ok is false on a cache miss.
func (a *TempoCacheAdapter) LookupTempo(trackID string) (tempo float64, ok bool, err error) {
	entry, err := a.repo.GetByTrackID(trackID)
	if errors.Is(err, ErrTempoNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return entry.Tempo(), true, nil
}

// StoreTempo inserts or refreshes the cached tempo for trackID. A refresh always bumps updated_at.
func (a *TempoCacheAdapter) StoreTempo(trackID string, tempo float64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	existing, err := a.repo.GetByTrackID(trackID)
	switch {
	case errors.Is(err, ErrTempoNotFound):
		entry := models.NewTempoEntry(trackID, tempo)
		if err := a.repo.Create(entry); err != nil {
			return fmt.Errorf("failed to cache tempo: %w", err)
		}
		return nil
	case err != nil:
		return err
	}

	existing.SetTempo(tempo)
	return a.repo.Update(existing)
}
