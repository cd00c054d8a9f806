package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/regdoc-cli/internal/core/ports/driving"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question  string `json:"question" jsonschema:"the question to answer from the uploaded documents"`
	SessionID string `json:"session_id,omitempty" jsonschema:"session to continue; a new session is opened when omitted"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer    string         `json:"answer"`
	SessionID string         `json:"session_id"`
	MessageID string         `json:"message_id"`
	Sources   []SourceOutput `json:"sources,omitempty"`
	Abstained bool           `json:"abstained"`
	Failed    bool           `json:"failed"`
}

// SourceOutput is one citation in an answer.
type SourceOutput struct {
	DocumentID string  `json:"document_id"`
	Filename   string  `json:"filename"`
	Excerpt    string  `json:"excerpt,omitempty"`
	Similarity float64 `json:"similarity"`
}

// ListDocumentsOutput is the output schema for the list_documents tool.
type ListDocumentsOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Count     int              `json:"count"`
}

// DocumentOutput represents a single stored document.
type DocumentOutput struct {
	ID         string `json:"id"`
	Filename   string `json:"filename"`
	Status     string `json:"status"`
	ChunkCount int    `json:"chunk_count"`
	Error      string `json:"error,omitempty"`
}

// SuggestedQuestionsInput is the input schema for the
// suggested_questions tool.
type SuggestedQuestionsInput struct{}

// SuggestedQuestionsOutput is the output schema for the
// suggested_questions tool.
type SuggestedQuestionsOutput struct {
	Questions []string `json:"questions"`
}

// ListDocumentsInput is the input schema for the list_documents tool.
type ListDocumentsInput struct{}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Ask a question answered strictly from the uploaded documents, with citations",
	}, s.handleAsk)

	if s.ports.Document != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "list_documents",
			Description: "List uploaded documents with their indexing status",
		}, s.handleListDocuments)
	}

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "suggested_questions",
		Description: "Questions the user might ask, based on recent activity",
	}, s.handleSuggestedQuestions)
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer, err := s.ports.Answer.Ask(ctx, driving.AskRequest{
		TenantID:  s.ports.TenantID,
		SessionID: input.SessionID,
		Question:  input.Question,
	})
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Answer:    answer.Text,
		SessionID: answer.SessionID,
		MessageID: answer.MessageID,
		Abstained: answer.Abstained,
		Failed:    answer.Failed,
		Sources:   make([]SourceOutput, len(answer.Sources)),
	}
	for i, src := range answer.Sources {
		output.Sources[i] = SourceOutput{
			DocumentID: src.DocumentID,
			Filename:   src.Filename,
			Excerpt:    src.Excerpt,
			Similarity: src.Similarity,
		}
	}

	return nil, output, nil
}

// handleListDocuments handles the list_documents tool invocation.
func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListDocumentsInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	docs, err := s.ports.Document.List(ctx, s.ports.TenantID)
	if err != nil {
		return nil, ListDocumentsOutput{}, err
	}

	output := ListDocumentsOutput{
		Documents: make([]DocumentOutput, len(docs)),
		Count:     len(docs),
	}
	for i := range docs {
		output.Documents[i] = DocumentOutput{
			ID:         docs[i].ID,
			Filename:   docs[i].Filename,
			Status:     string(docs[i].Status),
			ChunkCount: docs[i].ChunkCount,
			Error:      docs[i].ErrorMessage,
		}
	}

	return nil, output, nil
}

// handleSuggestedQuestions handles the suggested_questions tool invocation.
func (s *Server) handleSuggestedQuestions(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ SuggestedQuestionsInput,
) (*mcp.CallToolResult, SuggestedQuestionsOutput, error) {
	questions, err := s.ports.Answer.SuggestedQuestions(ctx, s.ports.TenantID)
	if err != nil {
		return nil, SuggestedQuestionsOutput{}, err
	}
	return nil, SuggestedQuestionsOutput{Questions: questions}, nil
}
