package models

import (
	"fmt"
	"time"
)

var _ Model = (*TempoEntry)(nil)

// TempoEntry is a cached tempo value for one Spotify track.
type TempoEntry struct {
	id        string
	sequence  int
	trackID   string
	tempo     float64
	createdAt time.Time
	updatedAt time.Time
}

// NewTempoEntry creates an unsaved [TempoEntry].
func NewTempoEntry(trackID string, tempo float64) *TempoEntry {
	now := time.Now()
	return &TempoEntry{trackID: trackID, tempo: tempo, createdAt: now, updatedAt: now}
}

// RestoreTempoEntry rebuilds a [TempoEntry] from stored columns.
func RestoreTempoEntry(id string, sequence int, trackID string, tempo float64, createdAt, updatedAt time.Time) *TempoEntry {
	return &TempoEntry{
		id:        id,
		sequence:  sequence,
		trackID:   trackID,
		tempo:     tempo,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (e *TempoEntry) ID() string           { return e.id }
func (e *TempoEntry) Sequence() int        { return e.sequence }
func (e *TempoEntry) TrackID() string      { return e.trackID }
func (e *TempoEntry) Tempo() float64       { return e.tempo }
func (e *TempoEntry) CreatedAt() time.Time { return e.createdAt }
func (e *TempoEntry) UpdatedAt() time.Time { return e.updatedAt }

func (e *TempoEntry) SetID(id string)           { e.id = id }
func (e *TempoEntry) SetSequence(seq int)       { e.sequence = seq }
func (e *TempoEntry) SetTempo(tempo float64)    { e.tempo = tempo }
func (e *TempoEntry) SetUpdatedAt(at time.Time) { e.updatedAt = at }

// Validate requires a track ID and a positive tempo.
func (e *TempoEntry) Validate() error {
	if e.trackID == "" {
		return fmt.Errorf("track ID is required")
	}
	if e.tempo <= 0 {
		return fmt.Errorf("tempo must be positive, got %v", e.tempo)
	}
	return nil
}
