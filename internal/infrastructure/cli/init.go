package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Yzori/Critvue-sub003/internal/infrastructure/config"
	"github.com/Yzori/Critvue-sub003/pkg/storage"
)

var (
	initMode     string
	initReviewer string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a critvue workspace in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := workspaceRoot()
		if err != nil {
			return err
		}

		repo := storage.NewFilesystemRepository(root)
		if err := repo.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize workspace: %w", err)
		}

		cfg := config.DefaultClientConfig()
		cfg.Mode = initMode
		cfg.Reviewer = initReviewer
		if err := config.SaveClientConfig(root, cfg); err != nil {
			return err
		}

		fmt.Printf("Initialized critvue workspace in %s (mode: %s)\n", root, cfg.Mode)
		return nil
	},
}

func init() {
	initCmd.Flags().StringVar(&initMode, "mode", "author", "Workspace mode: author or recipient")
	initCmd.Flags().StringVar(&initReviewer, "reviewer", "", "Reviewer display name")
	RootCmd.AddCommand(initCmd)
}
