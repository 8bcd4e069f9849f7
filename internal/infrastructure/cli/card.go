package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Yzori/Critvue-sub003/pkg/domain/review"
)

var (
	cardIssue    string
	cardFix      string
	cardPriority string
	cardSeverity string
	cardCategory string
	cardWhat     string
	cardWhy      string
	cardImpact   string
)

var addIssueCmd = &cobra.Command{
	Use:   "add-issue",
	Short: "Add an issue card to the draft",
	RunE: func(cmd *cobra.Command, args []string) error {
		seed := review.CardPatch{}
		if cardIssue != "" {
			seed.Issue = &cardIssue
		}
		if cardFix != "" {
			seed.Fix = &cardFix
		}
		if cardPriority != "" {
			p := review.Priority(cardPriority)
			switch p {
			case review.PriorityCritical, review.PriorityImportant, review.PriorityNiceToHave:
				seed.Priority = &p
			default:
				return fmt.Errorf("invalid priority %q", cardPriority)
			}
		}
		if cardSeverity != "" {
			s := review.Severity(cardSeverity)
			switch s {
			case review.SeverityCritical, review.SeverityMajor, review.SeverityMinor, review.SeveritySuggestion:
				seed.Severity = &s
			default:
				return fmt.Errorf("invalid severity %q", cardSeverity)
			}
		}
		if cardCategory != "" {
			c := review.Category(cardCategory)
			seed.Category = &c
		}

		svc, _, err := openService(cmd.Context())
		if err != nil {
			return err
		}
		defer svc.Close()

		id := review.NewCardID(review.KindIssue)
		svc.Dispatch(review.AddIssueCard{ID: id, Seed: &seed})
		if err := svc.Save(cmd.Context()); err != nil {
			return err
		}

		fmt.Printf("Added issue card %s\n", id)
		return nil
	},
}

var addStrengthCmd = &cobra.Command{
	Use:   "add-strength",
	Short: "Add a strength card to the draft",
	RunE: func(cmd *cobra.Command, args []string) error {
		seed := review.CardPatch{}
		if cardWhat != "" {
			seed.What = &cardWhat
		}
		if cardWhy != "" {
			seed.Why = &cardWhy
		}
		if cardImpact != "" {
			seed.Impact = &cardImpact
		}

		svc, _, err := openService(cmd.Context())
		if err != nil {
			return err
		}
		defer svc.Close()

		id := review.NewCardID(review.KindStrength)
		svc.Dispatch(review.AddStrengthCard{ID: id, Seed: &seed})
		if err := svc.Save(cmd.Context()); err != nil {
			return err
		}

		fmt.Printf("Added strength card %s\n", id)
		return nil
	},
}

var deleteCardCmd = &cobra.Command{
	Use:   "delete-card <card-id>",
	Short: "Delete a card from the draft",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := openService(cmd.Context())
		if err != nil {
			return err
		}
		defer svc.Close()

		svc.Dispatch(review.DeleteCard{ID: args[0]})
		if err := svc.Save(cmd.Context()); err != nil {
			return err
		}

		fmt.Printf("Deleted card %s\n", args[0])
		return nil
	},
}

func init() {
	addIssueCmd.Flags().StringVar(&cardIssue, "issue", "", "What the problem is")
	addIssueCmd.Flags().StringVar(&cardFix, "fix", "", "How to fix it")
	addIssueCmd.Flags().StringVar(&cardPriority, "priority", "", "critical, important or nice-to-have")
	addIssueCmd.Flags().StringVar(&cardSeverity, "severity", "", "critical, major, minor or suggestion")
	addIssueCmd.Flags().StringVar(&cardCategory, "category", "", "Issue category")
	addSlotFlags(addIssueCmd)

	addStrengthCmd.Flags().StringVar(&cardWhat, "what", "", "What works well")
	addStrengthCmd.Flags().StringVar(&cardWhy, "why", "", "Why it works")
	addStrengthCmd.Flags().StringVar(&cardImpact, "impact", "", "Impact of the strength")
	addSlotFlags(addStrengthCmd)

	addSlotFlags(deleteCardCmd)

	RootCmd.AddCommand(addIssueCmd)
	RootCmd.AddCommand(addStrengthCmd)
	RootCmd.AddCommand(deleteCardCmd)
}
