package driving

import (
	"context"

	"github.com/custodia-labs/regdoc-cli/internal/core/domain"
)

// StatsService aggregates tenant usage figures.
type StatsService interface {
	// Usage returns document, chunk, session, message, and feedback
	// counts plus the accuracy percentage derived from feedback.
	Usage(ctx context.Context, tenantID string) (*domain.UsageStats, error)
}
