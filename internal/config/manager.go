package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/penwyp/svnstage/internal/errors"
	"gopkg.in/yaml.v3"
)

// Format represents the configuration file format
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// EnvConfigPath overrides the default config location.
const EnvConfigPath = "SVNSTAGE_CONFIG"

// DefaultPath returns the config file location, honoring SVNSTAGE_CONFIG
// and XDG_CONFIG_HOME.
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "svnstage", "config.yaml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "svnstage", "config.yaml"), nil
}

// fileManager reads and writes the config in the format implied by the file extension
type fileManager struct {
	configPath string
	format     Format
}

// NewManager creates a config manager for configPath.
func NewManager(configPath string) (Manager, error) {
	if configPath == "" {
		return nil, errors.New(errors.ErrTypeConfig, "config path cannot be empty")
	}
	return &fileManager{
		configPath: configPath,
		format:     formatFor(configPath),
	}, nil
}

func formatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".toml":
		return FormatTOML
	default:
		// Default to YAML for new files
		return FormatYAML
	}
}

func (m *fileManager) Path() string { return m.configPath }

// Load loads the configuration on top of Default() and validates it
func (m *fileManager) Load() (*Config, error) {
	data, err := os.ReadFile(m.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err // Return the raw error for IsNotExist checks
		}
		return nil, errors.Wrap(errors.ErrTypeConfig, "failed to read config file", err)
	}

	cfg := Default()
	if err := m.unmarshal(data, cfg); err != nil {
		return nil, errors.ErrConfigParse.WithPath(m.configPath).WithCause(err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.ErrInvalidConfig.WithPath(m.configPath).WithCause(err)
	}
	return cfg, nil
}

// LoadOrDefault is Load, except a missing file yields Default().
func (m *fileManager) LoadOrDefault() (*Config, error) {
	cfg, err := m.Load()
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

func (m *fileManager) unmarshal(data []byte, cfg *Config) error {
	switch m.format {
	case FormatJSON:
		return json.Unmarshal(data, cfg)
	case FormatTOML:
		_, err := toml.Decode(string(data), cfg)
		return err
	default:
		return yaml.Unmarshal(data, cfg)
	}
}

func (m *fileManager) marshal(cfg *Config) ([]byte, error) {
	switch m.format {
	case FormatJSON:
		return json.MarshalIndent(cfg, "", "  ")
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return yaml.Marshal(cfg)
	}
}

// Save saves the configuration file in the appropriate format
func (m *fileManager) Save(cfg *Config) error {
	data, err := m.marshal(cfg)
	if err != nil {
		return errors.ErrConfigWrite.WithCause(err)
	}
	return m.write(data)
}

// CreateDefaultConfig writes Default(), with a comment header for YAML and TOML
func (m *fileManager) CreateDefaultConfig() error {
	data, err := m.marshal(Default())
	if err != nil {
		return errors.ErrConfigWrite.WithCause(err)
	}
	if m.format != FormatJSON {
		header := `# svnstage configuration
# ignore_changelist: files in this changelist that svn reports as normal are never shown
# prune_stale_staged: drop staged paths that no longer have pending changes

`
		data = append([]byte(header), data...)
	}
	return m.write(data)
}

func (m *fileManager) write(data []byte) error {
	// Ensure directory exists
	dir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.ErrConfigWrite.WithCause(err)
	}

	// Atomic write: write to temp file then rename
	tmpFile := m.configPath + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return errors.ErrConfigWrite.WithCause(err)
	}
	if err := os.Rename(tmpFile, m.configPath); err != nil {
		os.Remove(tmpFile)
		return errors.ErrConfigWrite.WithCause(err)
	}
	return nil
}
