// Package cli provides the cobra command surface for regdoc.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/regdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/regdoc-cli/internal/core/ports/driving"
	"github.com/custodia-labs/regdoc-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "0.1.0"

// Services injected by the composition root before Execute runs.
var (
	ingestService   driving.IngestService
	answerService   driving.AnswerService
	documentService driving.DocumentService
	feedbackService driving.FeedbackService
	statsService    driving.StatsService
	configStore     driven.ConfigStore
)

// Persistent flags.
var (
	verbose  bool
	tenantID string
)

var rootCmd = &cobra.Command{
	Use:   "regdoc",
	Short: "Ask questions answered strictly from your own documents",
	Long: `regdoc ingests company documents (PDF, DOCX, TXT, MD, HTML) and
answers questions grounded exclusively in them. When no document
supports an answer, it says so instead of guessing.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging to stderr")
	rootCmd.PersistentFlags().StringVar(&tenantID, "tenant", "default", "tenant the command operates on")
}

// Services bundles everything the CLI needs.
type Services struct {
	Ingest   driving.IngestService
	Answer   driving.AnswerService
	Document driving.DocumentService
	Feedback driving.FeedbackService
	Stats    driving.StatsService
	Config   driven.ConfigStore
}

// SetServices injects the service implementations used by commands.
func SetServices(s Services) {
	ingestService = s.Ingest
	answerService = s.Answer
	documentService = s.Document
	feedbackService = s.Feedback
	statsService = s.Stats
	configStore = s.Config
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
