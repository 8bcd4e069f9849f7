package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Yzori/Critvue-sub003/pkg/domain/review"
	"github.com/Yzori/Critvue-sub003/pkg/storage"
)

// ClientConfig stores workspace-level reviewer settings.
type ClientConfig struct {
	Mode                  string `yaml:"mode"`
	Reviewer              string `yaml:"reviewer"`
	AutosaveWindowSeconds int    `yaml:"autosaveWindowSeconds"`
}

// DefaultClientConfig returns the settings used when no config file exists.
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		Mode:                  string(review.ModeAuthor),
		AutosaveWindowSeconds: 3,
	}
}

// DocumentMode converts the configured mode string into the domain type.
func (c *ClientConfig) DocumentMode() (review.Mode, error) {
	switch review.Mode(c.Mode) {
	case review.ModeAuthor, review.ModeRecipient:
		return review.Mode(c.Mode), nil
	default:
		return "", fmt.Errorf("invalid mode %q: must be %q or %q", c.Mode, review.ModeAuthor, review.ModeRecipient)
	}
}

// AutosaveWindow returns the debounce window as a duration.
func (c *ClientConfig) AutosaveWindow() time.Duration {
	if c.AutosaveWindowSeconds <= 0 {
		return 3 * time.Second
	}
	return time.Duration(c.AutosaveWindowSeconds) * time.Second
}

func LoadClientConfig(root string) (*ClientConfig, error) {
	repo := storage.NewFilesystemRepository(root)
	path, err := repo.ResolvePath(storage.ConfigFile)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultClientConfig(), nil
		}
		return nil, fmt.Errorf("failed to read client config: %w", err)
	}

	cfg := DefaultClientConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal client config: %w", err)
	}

	if _, err := cfg.DocumentMode(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func SaveClientConfig(root string, cfg *ClientConfig) error {
	if cfg == nil {
		return fmt.Errorf("client config is nil")
	}
	if _, err := cfg.DocumentMode(); err != nil {
		return err
	}

	repo := storage.NewFilesystemRepository(root)
	path, err := repo.ResolvePath(storage.ConfigFile)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal client config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}
