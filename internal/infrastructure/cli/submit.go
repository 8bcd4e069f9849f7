package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Yzori/Critvue-sub003/pkg/domain/review"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check whether the draft is ready to submit",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := openService(cmd.Context())
		if err != nil {
			return err
		}
		defer svc.Close()

		problems := review.ValidationErrors(svc.Document())
		if len(problems) == 0 {
			fmt.Println(readyStyle.Render("Ready to submit"))
			return nil
		}

		for _, p := range problems {
			fmt.Printf("- %s\n", p)
		}
		return fmt.Errorf("draft is not ready to submit")
	},
}

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit the finished review",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := openService(cmd.Context())
		if err != nil {
			return err
		}
		defer svc.Close()

		if problems := review.ValidationErrors(svc.Document()); len(problems) > 0 {
			for _, p := range problems {
				fmt.Printf("- %s\n", p)
			}
			return fmt.Errorf("draft is not ready to submit")
		}

		if err := svc.Submit(cmd.Context()); err != nil {
			return fmt.Errorf("submission failed: %w", err)
		}

		fmt.Println(readyStyle.Render("Review submitted"))
		return nil
	},
}

func init() {
	addSlotFlags(validateCmd)
	addSlotFlags(submitCmd)
	RootCmd.AddCommand(validateCmd)
	RootCmd.AddCommand(submitCmd)
}
