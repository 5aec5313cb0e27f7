package cron

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/temankemah/temankemah-backend/pkg/db/models"
	"github.com/temankemah/temankemah-backend/pkg/logger"
)

const (
	orphanSweepJobName      = "asset_orphan_sweep"
	defaultOrphanSweepBatch = 100
)

type orphanStore interface {
	ListBatch(ctx context.Context, limit int) ([]models.AssetOrphan, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type assetDestroyer interface {
	Destroy(ctx context.Context, publicID string) error
}

// OrphanSweepJobParams configure the CDN orphan retry sweep.
type OrphanSweepJobParams struct {
	Logger    *logger.Logger
	Orphans   orphanStore
	CDN       assetDestroyer
	BatchSize int
}

type orphanSweepJob struct {
	logg      *logger.Logger
	orphans   orphanStore
	cdn       assetDestroyer
	batchSize int
}

// NewOrphanSweepJob builds the cron job that retries failed CDN deletions.
// Each orphan row gets exactly one retry per cycle and is dropped either way.
func NewOrphanSweepJob(params OrphanSweepJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Orphans == nil {
		return nil, fmt.Errorf("orphan repository required")
	}
	if params.CDN == nil {
		return nil, fmt.Errorf("cdn client required")
	}
	batchSize := params.BatchSize
	if batchSize <= 0 {
		batchSize = defaultOrphanSweepBatch
	}
	return &orphanSweepJob{
		logg:      params.Logger,
		orphans:   params.Orphans,
		cdn:       params.CDN,
		batchSize: batchSize,
	}, nil
}

func (j *orphanSweepJob) Name() string { return orphanSweepJobName }

func (j *orphanSweepJob) Run(ctx context.Context) error {
	batch, err := j.orphans.ListBatch(ctx, j.batchSize)
	if err != nil {
		return fmt.Errorf("list asset orphans: %w", err)
	}

	var errs error
	destroyed := 0
	for _, orphan := range batch {
		rowCtx := j.logg.WithFields(ctx, map[string]any{
			"public_id": orphan.PublicID,
			"source":    orphan.Source,
		})
		if destroyErr := j.cdn.Destroy(ctx, orphan.PublicID); destroyErr != nil {
			j.logg.Error(rowCtx, "orphan destroy retry failed", destroyErr)
			errs = multierr.Append(errs, fmt.Errorf("destroy %s: %w", orphan.PublicID, destroyErr))
		} else {
			destroyed++
		}
		if delErr := j.orphans.Delete(ctx, orphan.ID); delErr != nil {
			errs = multierr.Append(errs, fmt.Errorf("drop orphan row %s: %w", orphan.ID, delErr))
		}
	}

	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"batch":     len(batch),
		"destroyed": destroyed,
	}), "asset orphan sweep complete")
	return errs
}
