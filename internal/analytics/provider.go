package analytics

import (
	"context"

	"github.com/google/uuid"
)

// Provider supplies the raw series behind the dashboard. Implementations may
// return rows outside the requested range; callers always filter again.
type Provider interface {
	DailyMetrics(ctx context.Context, merchantID uuid.UUID, r DateRange) ([]DailyMetric, error)
	DealPerformance(ctx context.Context, merchantID uuid.UUID, r DateRange) ([]DealPerformance, error)
}

// FixtureProvider serves the built-in read-only dataset to every merchant.
type FixtureProvider struct{}

func NewFixtureProvider() FixtureProvider {
	return FixtureProvider{}
}

func (FixtureProvider) DailyMetrics(ctx context.Context, _ uuid.UUID, _ DateRange) ([]DailyMetric, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return FixtureDailyMetrics(), nil
}

func (FixtureProvider) DealPerformance(ctx context.Context, _ uuid.UUID, _ DateRange) ([]DealPerformance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return FixtureDealPerformance(), nil
}
