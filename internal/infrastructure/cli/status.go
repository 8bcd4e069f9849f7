package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Yzori/Critvue-sub003/pkg/domain/review"
)

var statusJSON bool

// Styles
var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#7D56F4")).
	PaddingLeft(1).
	PaddingRight(1)

var readyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
var pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
var errStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

type statusJSONOutput struct {
	SlotID        string   `json:"slot_id"`
	ContentType   string   `json:"content_type"`
	Mode          string   `json:"mode"`
	IssueCards    int      `json:"issue_cards"`
	StrengthCards int      `json:"strength_cards"`
	CompleteCards int      `json:"complete_cards"`
	Annotations   int      `json:"annotations"`
	Rating        int      `json:"rating"`
	TimeSpent     int      `json:"time_spent_seconds"`
	Ready         bool     `json:"ready"`
	Problems      []string `json:"problems,omitempty"`
	LastSavedAt   string   `json:"last_saved_at,omitempty"`
	SaveError     string   `json:"save_error,omitempty"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show a summary of the draft for a slot",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := openService(cmd.Context())
		if err != nil {
			return err
		}
		defer svc.Close()

		doc := svc.Document()
		save := svc.SaveState()
		problems := review.ValidationErrors(doc)
		completeIssues, completeStrengths := doc.CompleteCardCount()

		if statusJSON {
			out := statusJSONOutput{
				SlotID:        doc.SlotID,
				ContentType:   doc.ContentType,
				Mode:          string(svc.Mode()),
				IssueCards:    len(doc.IssueCards),
				StrengthCards: len(doc.StrengthCards),
				CompleteCards: completeIssues + completeStrengths,
				Annotations:   len(doc.Annotations),
				Rating:        doc.Verdict.Rating,
				TimeSpent:     doc.TimeSpentSeconds,
				Ready:         len(problems) == 0,
				Problems:      problems,
				SaveError:     save.SaveError,
			}
			if save.LastSavedAt != nil {
				out.LastSavedAt = save.LastSavedAt.Format("2006-01-02 15:04:05")
			}
			data, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		var b strings.Builder
		b.WriteString(headerStyle.Render(fmt.Sprintf("Review: %s (%s)", doc.SlotID, doc.ContentType)))
		b.WriteString("\n\n")
		fmt.Fprintf(&b, "Mode:          %s\n", svc.Mode())
		fmt.Fprintf(&b, "Issue cards:   %d\n", len(doc.IssueCards))
		fmt.Fprintf(&b, "Strengths:     %d\n", len(doc.StrengthCards))
		fmt.Fprintf(&b, "Complete:      %d\n", completeIssues+completeStrengths)
		fmt.Fprintf(&b, "Annotations:   %d\n", len(doc.Annotations))
		if doc.Verdict.Rating > 0 {
			fmt.Fprintf(&b, "Rating:        %d/5\n", doc.Verdict.Rating)
		} else {
			fmt.Fprintf(&b, "Rating:        %s\n", pendingStyle.Render("not set"))
		}
		fmt.Fprintf(&b, "Time spent:    %ds\n", doc.TimeSpentSeconds)

		if save.LastSavedAt != nil {
			fmt.Fprintf(&b, "Last saved:    %s\n", save.LastSavedAt.Format("15:04:05"))
		}
		if save.SaveError != "" {
			fmt.Fprintf(&b, "Save error:    %s\n", errStyle.Render(save.SaveError))
		}

		b.WriteString("\n")
		if len(problems) == 0 {
			b.WriteString(readyStyle.Render("Ready to submit"))
		} else {
			b.WriteString(pendingStyle.Render("Not ready:"))
			for _, p := range problems {
				fmt.Fprintf(&b, "\n  - %s", p)
			}
		}
		fmt.Println(b.String())
		return nil
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output in JSON format")
	addSlotFlags(statusCmd)
	RootCmd.AddCommand(statusCmd)
}
