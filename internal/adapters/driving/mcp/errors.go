// Package mcp provides an MCP (Model Context Protocol) server adapter
// for regdoc. It lets AI assistants ask document-grounded questions and
// browse the indexed document set.
package mcp

import "errors"

// ErrMissingAnswerService is returned when the answer service is not provided.
var ErrMissingAnswerService = errors.New("mcp: answer service is required")
