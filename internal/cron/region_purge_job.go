package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/temankemah/temankemah-backend/pkg/logger"
)

const regionPurgeJobName = "region_purge"

type rejectedRegionPurger interface {
	DeleteRejectedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// RegionPurgeJobParams configure the rejected-region cleanup.
type RegionPurgeJobParams struct {
	Logger        *logger.Logger
	Regions       rejectedRegionPurger
	RetentionDays int
	Now           func() time.Time
}

type regionPurgeJob struct {
	logg          *logger.Logger
	regions       rejectedRegionPurger
	retentionDays int
	now           func() time.Time
}

// NewRegionPurgeJob builds the cron job that removes rejected regions once the
// retention window has passed.
func NewRegionPurgeJob(params RegionPurgeJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Regions == nil {
		return nil, fmt.Errorf("regions repository required")
	}
	if params.RetentionDays <= 0 {
		return nil, fmt.Errorf("retention days must be positive")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &regionPurgeJob{
		logg:          params.Logger,
		regions:       params.Regions,
		retentionDays: params.RetentionDays,
		now:           now,
	}, nil
}

func (j *regionPurgeJob) Name() string { return regionPurgeJobName }

func (j *regionPurgeJob) Run(ctx context.Context) error {
	cutoff := j.now().AddDate(0, 0, -j.retentionDays)
	purged, err := j.regions.DeleteRejectedBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("purge rejected regions: %w", err)
	}
	j.logg.Info(j.logg.WithField(ctx, "purged", purged), "rejected regions purged")
	return nil
}
