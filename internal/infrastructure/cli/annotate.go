package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Yzori/Critvue-sub003/pkg/domain/review"
)

var (
	annotateX       float64
	annotateY       float64
	annotateAt      float64
	annotateComment string
	annotateCard    string
)

var annotateCmd = &cobra.Command{
	Use:   "annotate",
	Short: "Pin an annotation on the reviewed work",
	Long: `Pin an annotation on the reviewed work.

Visual work takes a pin position (--x and --y, in percent of the canvas);
time-based work takes a playback offset (--at, in seconds). An annotation can
optionally be linked to an issue card with --card.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		hasPin := cmd.Flags().Changed("x") || cmd.Flags().Changed("y")
		hasTimestamp := cmd.Flags().Changed("at")
		if hasPin == hasTimestamp {
			return fmt.Errorf("provide either a pin position (--x, --y) or a timestamp (--at)")
		}
		if hasPin && (annotateX < 0 || annotateX > 100 || annotateY < 0 || annotateY > 100) {
			return fmt.Errorf("pin position must be within 0-100 percent")
		}
		if hasTimestamp && annotateAt < 0 {
			return fmt.Errorf("timestamp must not be negative")
		}

		svc, _, err := openService(cmd.Context())
		if err != nil {
			return err
		}
		defer svc.Close()

		id := review.NewAnnotationID()
		action := review.AddAnnotation{ID: id, Comment: annotateComment}
		if hasPin {
			action.Pin = &review.Pin{X: annotateX, Y: annotateY}
		} else {
			ts := annotateAt
			action.Timestamp = &ts
		}
		svc.Dispatch(action)

		if annotateCard != "" {
			svc.Dispatch(review.LinkAnnotation{AnnotationID: id, CardID: annotateCard})
		}

		if err := svc.Save(cmd.Context()); err != nil {
			return err
		}

		doc := svc.Document()
		for _, a := range doc.Annotations {
			if a.ID == id {
				fmt.Printf("Added annotation #%d (%s)\n", a.Number, id)
				break
			}
		}
		return nil
	},
}

var linkCmd = &cobra.Command{
	Use:   "link <annotation-id> <card-id>",
	Short: "Link an annotation to an issue card",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := openService(cmd.Context())
		if err != nil {
			return err
		}
		defer svc.Close()

		svc.Dispatch(review.LinkAnnotation{AnnotationID: args[0], CardID: args[1]})
		if err := svc.Save(cmd.Context()); err != nil {
			return err
		}

		fmt.Printf("Linked %s to %s\n", args[0], args[1])
		return nil
	},
}

var unlinkCmd = &cobra.Command{
	Use:   "unlink <annotation-id>",
	Short: "Remove an annotation's card link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := openService(cmd.Context())
		if err != nil {
			return err
		}
		defer svc.Close()

		svc.Dispatch(review.UnlinkAnnotation{AnnotationID: args[0]})
		if err := svc.Save(cmd.Context()); err != nil {
			return err
		}

		fmt.Printf("Unlinked %s\n", args[0])
		return nil
	},
}

func init() {
	annotateCmd.Flags().Float64Var(&annotateX, "x", 0, "Pin X position in percent (0-100)")
	annotateCmd.Flags().Float64Var(&annotateY, "y", 0, "Pin Y position in percent (0-100)")
	annotateCmd.Flags().Float64Var(&annotateAt, "at", 0, "Playback offset in seconds")
	annotateCmd.Flags().StringVar(&annotateComment, "comment", "", "Annotation comment")
	annotateCmd.Flags().StringVar(&annotateCard, "card", "", "Issue card to link the annotation to")
	addSlotFlags(annotateCmd)
	addSlotFlags(linkCmd)
	addSlotFlags(unlinkCmd)

	RootCmd.AddCommand(annotateCmd)
	RootCmd.AddCommand(linkCmd)
	RootCmd.AddCommand(unlinkCmd)
}
