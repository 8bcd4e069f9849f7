package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Yzori/Critvue-sub003/internal/infrastructure/config"
	"github.com/Yzori/Critvue-sub003/pkg/application"
	"github.com/Yzori/Critvue-sub003/pkg/storage"
)

var (
	workspacePath string
	slotID        string
	contentType   string
)

func workspaceRoot() (string, error) {
	if workspacePath != "" {
		abs, err := filepath.Abs(workspacePath)
		if err != nil {
			return "", fmt.Errorf("invalid workspace path %q: %w", workspacePath, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return "", fmt.Errorf("workspace path %q: %w", abs, err)
		}
		if !info.IsDir() {
			return "", fmt.Errorf("workspace path %q is not a directory", abs)
		}
		return abs, nil
	}
	return os.Getwd()
}

// openService builds a draft service for the configured slot and loads any
// existing draft. Callers own Close.
func openService(ctx context.Context) (*application.DraftService, *storage.FilesystemRepository, error) {
	root, err := workspaceRoot()
	if err != nil {
		return nil, nil, err
	}

	repo := storage.NewFilesystemRepository(root)
	if !repo.IsInitialized() {
		return nil, nil, fmt.Errorf("no critvue workspace found in %s (run 'critvue init' first)", root)
	}

	cfg, err := config.LoadClientConfig(root)
	if err != nil {
		return nil, nil, err
	}
	mode, err := cfg.DocumentMode()
	if err != nil {
		return nil, nil, err
	}

	if slotID == "" {
		return nil, nil, fmt.Errorf("a slot id is required (use --slot)")
	}

	svc, err := application.NewDraftService(repo, slotID, contentType,
		application.WithMode(mode),
		application.WithLogger(log.With().Str("cmp", "draft").Logger()),
		application.WithAutosaveWindow(cfg.AutosaveWindow()),
	)
	if err != nil {
		return nil, nil, err
	}

	if err := svc.Load(ctx); err != nil {
		svc.Close()
		return nil, nil, err
	}
	return svc, repo, nil
}

func addSlotFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&slotID, "slot", "s", "", "Review slot id")
	cmd.Flags().StringVar(&contentType, "content-type", "design", "Type of the reviewed work")
}
