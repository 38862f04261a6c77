package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/danielpatrickdp/dosha-lens/internal/feedback"
	"github.com/spf13/cobra"
)

var feedbackJSON bool

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Record or show feedback ratings",
	Long:  "Ratings are kept in a bounded log; once it is full the oldest rating is dropped.",
}

var feedbackAddCmd = &cobra.Command{
	Use:   "add <rating>",
	Short: "Record a rating (1-5)",
	Args:  cobra.ExactArgs(1),
	RunE:  runFeedbackAdd,
}

var feedbackListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show all recorded ratings, oldest first",
	Args:  cobra.NoArgs,
	RunE:  runFeedbackList,
}

var feedbackClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all recorded ratings",
	Args:  cobra.NoArgs,
	RunE:  runFeedbackClear,
}

func init() {
	feedbackListCmd.Flags().BoolVar(&feedbackJSON, "json", false, "Output as JSON")
	feedbackCmd.AddCommand(feedbackAddCmd)
	feedbackCmd.AddCommand(feedbackListCmd)
	feedbackCmd.AddCommand(feedbackClearCmd)
}

func openFeedback() (*feedback.Store, error) {
	store, err := feedback.NewStore(cfg.FeedbackDBPath, cfg.FeedbackCapacity)
	if err != nil {
		return nil, fmt.Errorf("open feedback %s: %w", cfg.FeedbackDBPath, err)
	}
	return store, nil
}

func runFeedbackAdd(cmd *cobra.Command, args []string) error {
	value, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("rating must be an integer, got %q", args[0])
	}
	store, err := openFeedback()
	if err != nil {
		return err
	}
	defer store.Close()

	rec, err := store.Append(value, time.Now())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Thanks for your feedback! (%d at %s)\n", rec.Value, rec.Timestamp)
	return nil
}

func runFeedbackList(cmd *cobra.Command, args []string) error {
	store, err := openFeedback()
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.List()
	if err != nil {
		return err
	}
	if feedbackJSON {
		return writer(cmd).JSON(records)
	}
	writer(cmd).Feedback(records)
	return nil
}

func runFeedbackClear(cmd *cobra.Command, args []string) error {
	store, err := openFeedback()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "feedback cleared")
	return nil
}
