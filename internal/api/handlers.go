package api

import (
	"context"

	"github.com/ignite/student-registry/internal/domain"
	"github.com/ignite/student-registry/internal/service/audience"
	"github.com/ignite/student-registry/internal/service/statistics"
)

// StatisticsService is the part of the statistics service the handlers use.
type StatisticsService interface {
	Report(ctx context.Context, f domain.FilterRequest) (*statistics.Report, error)
	DeliverySummary(ctx context.Context, campaignID string) (*statistics.DeliverySummary, error)
}

// AudienceService is the part of the audience service the handlers use.
type AudienceService interface {
	Resolve(ctx context.Context, a audience.Audience) (*audience.Resolution, error)
}

// Handlers contains all HTTP handlers
type Handlers struct {
	statistics StatisticsService
	audience   AudienceService
}

// NewHandlers creates a new Handlers instance
func NewHandlers(stats StatisticsService, aud AudienceService) *Handlers {
	return &Handlers{
		statistics: stats,
		audience:   aud,
	}
}
