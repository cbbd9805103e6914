package ports

import (
	"context"

	"github.com/uhndata/delirium-scorecard/internal/core/domain"
)

// ScorecardService serves the shaped, read-only dashboard datasets.
type ScorecardService interface {
	DeliriumRates(ctx context.Context) ([]domain.DeliriumRate, error)
	TimeTrends(ctx context.Context) ([]domain.TimeSeriesPoint, error)
	Demographics(ctx context.Context) (*domain.PatientDemographics, error)
}

// ObjectStore fetches raw dataset objects from the scorecard bucket.
type ObjectStore interface {
	Fetch(ctx context.Context, object string) ([]byte, error)
}

// DatasetCache stores shaped responses between requests. Get reports a miss
// as (false, nil); cache failures must not fail the request.
type DatasetCache interface {
	Get(ctx context.Context, key string, value any) (bool, error)
	Set(ctx context.Context, key string, value any) error
}
