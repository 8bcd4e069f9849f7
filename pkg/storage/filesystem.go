// Package storage persists feedback drafts on the local filesystem, mirroring
// the layout conventions of the .critvue workspace directory.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/retry"

	"github.com/Yzori/Critvue-sub003/pkg/domain/review"
)

const CritvueDir = ".critvue"
const ConfigFile = "config.yaml"

var slotIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// FilesystemRepository implements review.DraftRepository on top of a
// .critvue directory under the workspace root.
type FilesystemRepository struct {
	root        string
	retryConfig retry.Config
}

func NewFilesystemRepository(root string) *FilesystemRepository {
	return &FilesystemRepository{
		root: root,
		retryConfig: retry.Config{
			MaxAttempts:   3,
			InitialDelay:  10 * time.Millisecond,
			BackoffPolicy: retry.BackoffExponential,
		},
	}
}

// Root returns the workspace root directory.
func (r *FilesystemRepository) Root() string {
	return r.root
}

// ResolvePath ensures the path is within the .critvue directory and prevents traversal.
func (r *FilesystemRepository) ResolvePath(filename string) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("filename cannot be empty")
	}

	baseDir := filepath.Join(r.root, CritvueDir)
	fullPath := filepath.Join(baseDir, filename)
	cleanPath := filepath.Clean(fullPath)

	// Check for traversal and ensure it's a direct child (no nested subdirs in .critvue)
	if !strings.HasPrefix(cleanPath, baseDir) || filepath.Dir(cleanPath) != baseDir {
		return "", fmt.Errorf("invalid file path: %s", filename)
	}

	return cleanPath, nil
}

func (r *FilesystemRepository) Initialize() error {
	path := filepath.Join(r.root, CritvueDir)
	// G301: Use 0700 for directories
	if err := os.MkdirAll(path, 0700); err != nil {
		return fmt.Errorf("failed to create .critvue directory: %w", err)
	}
	return nil
}

func (r *FilesystemRepository) IsInitialized() bool {
	_, err := os.Stat(filepath.Join(r.root, CritvueDir))
	return err == nil
}

func draftFile(slotID string) string {
	return fmt.Sprintf("draft-%s.json", slotID)
}

func submissionFile(slotID string) string {
	return fmt.Sprintf("review-%s.json", slotID)
}

func validateSlotID(slotID string) error {
	if !slotIDPattern.MatchString(slotID) {
		return fmt.Errorf("invalid slot id: %q", slotID)
	}
	return nil
}

// LoadDraft reads and schema-checks the persisted payload for a slot. Reads
// are retried because a concurrent writer may be mid-replace; a payload that
// exists but fails the schema is corrupt, not retryable.
func (r *FilesystemRepository) LoadDraft(ctx context.Context, slotID string) (*review.RawDraft, error) {
	if err := validateSlotID(slotID); err != nil {
		return nil, err
	}
	path, err := r.ResolvePath(draftFile(slotID))
	if err != nil {
		return nil, err
	}

	retryer := retry.New[*review.RawDraft](r.retryConfig)

	return retryer.Do(ctx, func(ctx context.Context) (*review.RawDraft, error) {
		// #nosec G304 -- Path is resolved and validated via ResolvePath
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, review.ErrDraftNotFound
			}
			return nil, fmt.Errorf("%w: read draft file: %v", review.ErrTransient, err)
		}

		if err := review.ValidateRawDraft(data); err != nil {
			return nil, err
		}

		var raw review.RawDraft
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: unmarshal draft: %v", review.ErrDraftCorrupt, err)
		}

		return &raw, nil
	})
}

// SaveDraft persists the superset payload for a slot.
func (r *FilesystemRepository) SaveDraft(_ context.Context, slotID string, payload *review.RawDraft) error {
	if err := validateSlotID(slotID); err != nil {
		return err
	}
	path, err := r.ResolvePath(draftFile(slotID))
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}

	// G306: Use 0600 for files
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("%w: write draft file: %v", review.ErrTransient, err)
	}
	return nil
}

// SubmitReview finalizes the review by writing the submission payload. The
// draft file is kept so a failed downstream sync can be replayed.
func (r *FilesystemRepository) SubmitReview(_ context.Context, slotID string, payload *review.RawDraft) error {
	if err := validateSlotID(slotID); err != nil {
		return err
	}
	if r.IsSubmitted(slotID) {
		return fmt.Errorf("%w: review for slot %s was already submitted", review.ErrUnauthorized, slotID)
	}
	path, err := r.ResolvePath(submissionFile(slotID))
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal submission: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("%w: write submission file: %v", review.ErrTransient, err)
	}
	return nil
}

// IsSubmitted reports whether a finalized review already exists for the slot.
func (r *FilesystemRepository) IsSubmitted(slotID string) bool {
	path, err := r.ResolvePath(submissionFile(slotID))
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// DraftPath returns the absolute path of the slot's draft file, which is what
// a recipient-mode watcher observes for external changes.
func (r *FilesystemRepository) DraftPath(slotID string) (string, error) {
	if err := validateSlotID(slotID); err != nil {
		return "", err
	}
	return r.ResolvePath(draftFile(slotID))
}

var _ review.DraftRepository = (*FilesystemRepository)(nil)
