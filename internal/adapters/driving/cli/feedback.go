package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/regdoc-cli/internal/core/ports/driving"
)

var (
	feedbackSessionID string
	feedbackScore     int
	feedbackComment   string
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback [message-id]",
	Short: "Rate an answer or a session",
	Long: `Records a 1-5 rating. With a message ID (printed after every
'regdoc ask') the rating targets that answer; without one it applies
to the whole session.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFeedback,
}

func init() {
	feedbackCmd.Flags().StringVarP(&feedbackSessionID, "session", "s", "", "session the message belongs to (required)")
	feedbackCmd.Flags().IntVarP(&feedbackScore, "score", "r", 0, "rating from 1 (poor) to 5 (excellent) (required)")
	feedbackCmd.Flags().StringVarP(&feedbackComment, "comment", "c", "", "optional comment")
	feedbackCmd.MarkFlagRequired("session") //nolint:errcheck
	feedbackCmd.MarkFlagRequired("score")   //nolint:errcheck
	rootCmd.AddCommand(feedbackCmd)
}

func runFeedback(cmd *cobra.Command, args []string) error {
	if feedbackService == nil {
		return errors.New("feedback service not configured")
	}

	messageID := ""
	if len(args) > 0 {
		messageID = args[0]
	}

	ctx := context.Background()
	fb, err := feedbackService.Submit(ctx, driving.FeedbackRequest{
		SessionID: feedbackSessionID,
		MessageID: messageID,
		Score:     feedbackScore,
		Comment:   feedbackComment,
	})
	if err != nil {
		return fmt.Errorf("feedback failed: %w", err)
	}

	cmd.Printf("Recorded feedback %s: score %d\n", fb.ID, fb.Score)
	return nil
}
