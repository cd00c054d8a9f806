package mcp

import (
	"github.com/custodia-labs/regdoc-cli/internal/core/ports/driving"
)

// defaultTenantID is used when no tenant is configured.
const defaultTenantID = "default"

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Answer answers grounded questions.
	Answer driving.AnswerService

	// Document manages stored documents.
	Document driving.DocumentService

	// Stats aggregates usage figures.
	Stats driving.StatsService

	// TenantID scopes all tool calls. Defaults to "default".
	TenantID string
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Answer == nil {
		return ErrMissingAnswerService
	}
	// Document and Stats are optional
	if p.TenantID == "" {
		p.TenantID = defaultTenantID
	}
	return nil
}
