package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/regdoc-cli/internal/core/domain"
	"github.com/custodia-labs/regdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/regdoc-cli/internal/core/ports/driving"
)

// Ensure StatsService implements the interface.
var _ driving.StatsService = (*StatsService)(nil)

// StatsService aggregates tenant usage figures.
type StatsService struct {
	docStore     driven.DocumentStore
	sessionStore driven.SessionStore
}

// NewStatsService creates a new stats service.
func NewStatsService(docStore driven.DocumentStore, sessionStore driven.SessionStore) *StatsService {
	return &StatsService{
		docStore:     docStore,
		sessionStore: sessionStore,
	}
}

// Usage returns a tenant's usage summary. The accuracy percentage maps
// the 1-5 mean feedback score onto a 0-100 scale.
func (s *StatsService) Usage(ctx context.Context, tenantID string) (*domain.UsageStats, error) {
	if strings.TrimSpace(tenantID) == "" {
		return nil, fmt.Errorf("%w: tenant id is required", domain.ErrInvalidInput)
	}

	docs, err := s.docStore.ListDocuments(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	indexed := 0
	for _, doc := range docs {
		if doc.Status == domain.StatusIndexed {
			indexed++
		}
	}

	chunks, err := s.docStore.CountChunks(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("counting chunks: %w", err)
	}

	sessions, messages, feedback, meanScore, err := s.sessionStore.Stats(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("aggregating sessions: %w", err)
	}

	stats := &domain.UsageStats{
		Documents:        len(docs),
		IndexedDocuments: indexed,
		Chunks:           chunks,
		Sessions:         sessions,
		Messages:         messages,
		FeedbackCount:    feedback,
		MeanScore:        meanScore,
	}
	if feedback > 0 {
		stats.AccuracyPercent = meanScore / float64(domain.MaxFeedbackScore) * 100
	}
	return stats, nil
}
