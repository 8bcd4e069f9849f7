package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Yzori/Critvue-sub003/pkg/domain/review"
)

var (
	verdictRating   int
	verdictSummary  string
	takeawaySlot  int
	takeawayIssue string
	takeawayFix   string
)

var verdictCmd = &cobra.Command{
	Use:   "verdict",
	Short: "Set the overall rating and summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		patch := review.VerdictPatch{}
		if cmd.Flags().Changed("rating") {
			if verdictRating < 1 || verdictRating > 5 {
				return fmt.Errorf("rating must be between 1 and 5")
			}
			patch.Rating = &verdictRating
		}
		if cmd.Flags().Changed("summary") {
			patch.Summary = &verdictSummary
		}
		if patch.Rating == nil && patch.Summary == nil {
			return fmt.Errorf("nothing to set (use --rating and/or --summary)")
		}

		svc, _, err := openService(cmd.Context())
		if err != nil {
			return err
		}
		defer svc.Close()

		svc.Dispatch(review.UpdateVerdict{Patch: patch})
		if err := svc.Save(cmd.Context()); err != nil {
			return err
		}

		fmt.Println("Verdict updated")
		return nil
	},
}

var takeawayCmd = &cobra.Command{
	Use:   "takeaway",
	Short: "Fill one of the three top takeaway slots",
	RunE: func(cmd *cobra.Command, args []string) error {
		if takeawaySlot < 1 || takeawaySlot > 3 {
			return fmt.Errorf("takeaway slot must be 1, 2 or 3")
		}

		svc, _, err := openService(cmd.Context())
		if err != nil {
			return err
		}
		defer svc.Close()

		doc := svc.Document()
		takeaways := make([]review.TopTakeaway, len(doc.Verdict.TopTakeaways))
		copy(takeaways, doc.Verdict.TopTakeaways)
		for len(takeaways) < 3 {
			takeaways = append(takeaways, review.TopTakeaway{})
		}
		takeaways[takeawaySlot-1] = review.TopTakeaway{
			Issue: takeawayIssue,
			Fix:   takeawayFix,
		}

		svc.Dispatch(review.UpdateVerdict{Patch: review.VerdictPatch{TopTakeaways: takeaways}})
		if err := svc.Save(cmd.Context()); err != nil {
			return err
		}

		fmt.Printf("Takeaway %d updated\n", takeawaySlot)
		return nil
	},
}

func init() {
	verdictCmd.Flags().IntVar(&verdictRating, "rating", 0, "Overall rating (1-5 stars)")
	verdictCmd.Flags().StringVar(&verdictSummary, "summary", "", "Overall summary")
	addSlotFlags(verdictCmd)

	takeawayCmd.Flags().IntVar(&takeawaySlot, "n", 1, "Takeaway slot (1-3)")
	takeawayCmd.Flags().StringVar(&takeawayIssue, "issue", "", "Key issue to take away")
	takeawayCmd.Flags().StringVar(&takeawayFix, "fix", "", "How to address it")
	addSlotFlags(takeawayCmd)

	RootCmd.AddCommand(verdictCmd)
	RootCmd.AddCommand(takeawayCmd)
}
