package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/regdoc-cli/internal/core/domain"
	"github.com/custodia-labs/regdoc-cli/internal/core/ports/driving"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Upload and index documents",
	Long: `Uploads one or more files and runs them through the ingestion
pipeline: text extraction, chunking, embedding, and indexing.
Supported formats: PDF, DOCX, TXT, MD, HTML.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	ctx := context.Background()
	failures := 0

	for _, path := range args {
		payload, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		doc, err := ingestService.Upload(ctx, driving.UploadRequest{
			TenantID: tenantID,
			Filename: filepath.Base(path),
			Payload:  payload,
		})
		if err != nil {
			return fmt.Errorf("uploading %s: %w", path, err)
		}

		switch doc.Status {
		case domain.StatusIndexed:
			cmd.Printf("Indexed %s: %d chunks (document %s)\n", doc.Filename, doc.ChunkCount, doc.ID)
		case domain.StatusFailed:
			failures++
			cmd.Printf("Failed %s: %s (document %s)\n", doc.Filename, doc.ErrorMessage, doc.ID)
		default:
			cmd.Printf("Uploaded %s: status %s (document %s)\n", doc.Filename, doc.Status, doc.ID)
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d documents failed ingestion", failures, len(args))
	}
	return nil
}
