package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Yzori/Critvue-sub003/internal/infrastructure/watch"
	"github.com/Yzori/Critvue-sub003/pkg/domain/review"
	"github.com/Yzori/Critvue-sub003/pkg/storage"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow a slot's draft as the reviewer writes it",
	Long: `Follow a slot's draft as the reviewer writes it.

The draft file is watched for changes and a short summary is printed whenever
the reviewer saves. Intended for recipient mode; blocks until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := workspaceRoot()
		if err != nil {
			return err
		}
		repo := storage.NewFilesystemRepository(root)
		if !repo.IsInitialized() {
			return fmt.Errorf("no critvue workspace found in %s (run 'critvue init' first)", root)
		}
		if slotID == "" {
			return fmt.Errorf("a slot id is required (use --slot)")
		}

		draftPath, err := repo.DraftPath(slotID)
		if err != nil {
			return err
		}

		printSummary := func() {
			raw, err := repo.LoadDraft(cmd.Context(), slotID)
			if err != nil {
				fmt.Printf("%s draft unavailable: %v\n", time.Now().Format("15:04:05"), err)
				return
			}
			doc := review.Reduce(review.NewDocument(slotID, contentType), review.BulkLoad{
				Partial: review.ToCurrent(raw, slotID, contentType),
			})
			issues, strengths := doc.CompleteCardCount()
			fmt.Printf("%s draft updated: %d issue cards (%d complete), %d strengths (%d complete), %d annotations, rating %d/5\n",
				time.Now().Format("15:04:05"),
				len(doc.IssueCards), issues,
				len(doc.StrengthCards), strengths,
				len(doc.Annotations), doc.Verdict.Rating)
		}

		w, err := watch.NewDraftWatcher(draftPath, 500*time.Millisecond, func(e watch.ChangeEvent) {
			if e.ChangeType == "remove" {
				fmt.Printf("%s draft removed\n", time.Now().Format("15:04:05"))
				return
			}
			printSummary()
		})
		if err != nil {
			return err
		}

		fmt.Printf("Watching draft for slot %s...\n", slotID)
		printSummary()
		return w.Run(cmd.Context())
	},
}

func init() {
	addSlotFlags(watchCmd)
	RootCmd.AddCommand(watchCmd)
}
