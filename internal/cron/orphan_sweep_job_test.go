package cron

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/temankemah/temankemah-backend/pkg/db/models"
	"github.com/temankemah/temankemah-backend/pkg/logger"
)

type fakeOrphanStore struct {
	rows    []models.AssetOrphan
	deleted []uuid.UUID
}

func (f *fakeOrphanStore) ListBatch(_ context.Context, limit int) ([]models.AssetOrphan, error) {
	if limit > len(f.rows) {
		limit = len(f.rows)
	}
	return f.rows[:limit], nil
}

func (f *fakeOrphanStore) Delete(_ context.Context, id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeDestroyer struct {
	destroyed []string
	failFor   map[string]bool
}

func (f *fakeDestroyer) Destroy(_ context.Context, publicID string) error {
	if f.failFor[publicID] {
		return errors.New("cdn unavailable")
	}
	f.destroyed = append(f.destroyed, publicID)
	return nil
}

func TestOrphanSweepDropsRowsEitherWay(t *testing.T) {
	store := &fakeOrphanStore{rows: []models.AssetOrphan{
		{ID: uuid.New(), PublicID: "temankemah/a", Source: "activities"},
		{ID: uuid.New(), PublicID: "temankemah/b", Source: "events"},
	}}
	cdn := &fakeDestroyer{failFor: map[string]bool{"temankemah/b": true}}

	job, err := NewOrphanSweepJob(OrphanSweepJobParams{
		Logger:  logger.New(logger.Options{ServiceName: "cron-test"}),
		Orphans: store,
		CDN:     cdn,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}

	runErr := job.Run(context.Background())
	if runErr == nil {
		t.Fatal("expected the failed destroy to surface")
	}
	if len(cdn.destroyed) != 1 || cdn.destroyed[0] != "temankemah/a" {
		t.Fatalf("unexpected destroys: %v", cdn.destroyed)
	}
	// both rows are dropped regardless of destroy outcome
	if len(store.deleted) != 2 {
		t.Fatalf("expected 2 dropped rows, got %d", len(store.deleted))
	}
}

func TestOrphanSweepHonorsBatchSize(t *testing.T) {
	store := &fakeOrphanStore{}
	for i := 0; i < 5; i++ {
		store.rows = append(store.rows, models.AssetOrphan{ID: uuid.New(), PublicID: uuid.NewString()})
	}
	cdn := &fakeDestroyer{}

	job, err := NewOrphanSweepJob(OrphanSweepJobParams{
		Logger:    logger.New(logger.Options{ServiceName: "cron-test"}),
		Orphans:   store,
		CDN:       cdn,
		BatchSize: 3,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run job: %v", err)
	}
	if len(cdn.destroyed) != 3 {
		t.Fatalf("expected 3 destroys, got %d", len(cdn.destroyed))
	}
}
