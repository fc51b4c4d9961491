package repositories

import (
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/tempodl/internal/models"
	"github.com/desertthunder/tempodl/internal/shared"
)

func TestTempoRepositoryErrors(t *testing.T) {
	closedRepo := func(t *testing.T) *TempoRepository {
		t.Helper()
		db, err := shared.NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create test database: %v", err)
		}
		if err := shared.RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}
		db.Close()
		return NewTempoRepository(db)
	}

	t.Run("ClosedDatabase", func(t *testing.T) {
		repo := closedRepo(t)

		if err := repo.Create(models.NewTempoEntry("track1", 120)); err == nil {
			t.Error("expected Create to fail on closed database")
		}
		if _, err := repo.Get("id"); err == nil || errors.Is(err, ErrTempoNotFound) {
			t.Errorf("expected a database error from Get, got %v", err)
		}
		if _, err := repo.GetByTrackID("track1"); err == nil || errors.Is(err, ErrTempoNotFound) {
			t.Errorf("expected a database error from GetByTrackID, got %v", err)
		}
		if err := repo.Update(models.RestoreTempoEntry("id", 1, "track1", 120, time.Now(), time.Now())); err == nil {
			t.Error("expected Update to fail on closed database")
		}
		if err := repo.Delete("id"); err == nil {
			t.Error("expected Delete to fail on closed database")
		}
		if _, err := repo.List(nil); err == nil {
			t.Error("expected List to fail on closed database")
		}
		if _, err := repo.Prune(time.Now()); err == nil {
			t.Error("expected Prune to fail on closed database")
		}
	})

	t.Run("Update ValidationError", func(t *testing.T) {
		repo := NewTempoRepository(setupTestDB(t))
		entry := models.NewTempoEntry("track1", 120)
		if err := repo.Create(entry); err != nil {
			t.Fatalf("failed to create entry: %v", err)
		}

		entry.SetTempo(0)
		if err := repo.Update(entry); err == nil {
			t.Fatal("expected validation error for zero tempo")
		}
	})

	t.Run("Delete NotFound", func(t *testing.T) {
		repo := NewTempoRepository(setupTestDB(t))

		if err := repo.Delete("nonexistent-id"); !errors.Is(err, ErrTempoNotFound) {
			t.Errorf("expected ErrTempoNotFound, got %v", err)
		}
	})

	t.Run("NextSequence Unknown Table", func(t *testing.T) {
		if _, err := NextSequence(setupTestDB(t), "nope"); err == nil {
			t.Fatal("expected error for missing sequence table")
		}
	})
}

func TestTempoCacheAdapterErrors(t *testing.T) {
	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	cache := NewTempoCacheAdapter(NewTempoRepository(db))
	db.Close()

	if _, ok, err := cache.LookupTempo("track1"); err == nil || ok {
		t.Errorf("expected lookup error on closed database, got ok=%v err=%v", ok, err)
	}
	if err := cache.StoreTempo("track1", 120); err == nil {
		t.Error("expected store error on closed database")
	}
}
