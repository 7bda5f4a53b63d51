package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/harrison/tracelint/internal/source"
)

// FileName is the optional per-repository overlay read from the repository root
const FileName = ".tracelint.yaml"

// Search backends for anchor search
const (
	BackendGrep = "grep" // External grep, bounded by SearchTimeout
	BackendScan = "scan" // In-process walk of the search roots
)

// Config represents tracelint configuration options
type Config struct {
	// SpecDir is the directory holding specification documents, relative to the repo root
	SpecDir string `yaml:"spec_dir"`

	// SpecExtension is the one file extension recognized as a specification document
	SpecExtension string `yaml:"spec_extension"`

	// IDPrefixes are the acceptance identifier namespace prefixes, e.g. "S1-M"
	IDPrefixes []string `yaml:"id_prefixes"`

	// SearchRoots are searched for anchors; doublestar globs are allowed
	SearchRoots []string `yaml:"search_roots"`

	// AnchorExtensions is the allow-list of file types an anchor may live in
	AnchorExtensions []string `yaml:"anchor_extensions"`

	// ResolutionRoots are searched for bare pointer filenames; doublestar globs are allowed
	ResolutionRoots []string `yaml:"resolution_roots"`

	// ExcludeDirs are directory names skipped while searching for bare filenames
	ExcludeDirs []string `yaml:"exclude_dirs"`

	// Language selects the implementation extension and function declaration syntax
	Language string `yaml:"language"`

	// SearchBackend is "grep" or "scan"
	SearchBackend string `yaml:"search_backend"`

	// SearchTimeout bounds every external search invocation
	SearchTimeout time.Duration `yaml:"search_timeout"`

	// StrictAnchors requires anchors to match as whole words
	StrictAnchors bool `yaml:"strict_anchors"`

	// Jobs bounds concurrent anchor searches and document pipelines
	Jobs int `yaml:"jobs"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	return &Config{
		SpecDir:          ".caws/specs",
		SpecExtension:    ".yaml",
		IDPrefixes:       []string{"S1-M"},
		SearchRoots:      []string{"kernel/", "harness/", "tests/", ".github/"},
		AnchorExtensions: []string{".rs", ".yml", ".yaml", ".toml", ".md"},
		ResolutionRoots:  []string{"*/src", "tests/*/src", "tests/*/tests"},
		ExcludeDirs:      []string{"target", "node_modules", "vendor"},
		Language:         "rust",
		SearchBackend:    BackendGrep,
		SearchTimeout:    30 * time.Second,
		StrictAnchors:    false,
		Jobs:             4,
		LogLevel:         "warn",
	}
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Use a temporary struct to handle duration parsing and to detect
	// booleans that were explicitly set
	type yamlConfig struct {
		SpecDir          string   `yaml:"spec_dir"`
		SpecExtension    string   `yaml:"spec_extension"`
		IDPrefixes       []string `yaml:"id_prefixes"`
		SearchRoots      []string `yaml:"search_roots"`
		AnchorExtensions []string `yaml:"anchor_extensions"`
		ResolutionRoots  []string `yaml:"resolution_roots"`
		ExcludeDirs      []string `yaml:"exclude_dirs"`
		Language         string   `yaml:"language"`
		SearchBackend    string   `yaml:"search_backend"`
		SearchTimeout    string   `yaml:"search_timeout"`
		StrictAnchors    *bool    `yaml:"strict_anchors"`
		Jobs             int      `yaml:"jobs"`
		LogLevel         string   `yaml:"log_level"`
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply non-zero values from file (merging with defaults)
	if yamlCfg.SpecDir != "" {
		cfg.SpecDir = yamlCfg.SpecDir
	}
	if yamlCfg.SpecExtension != "" {
		cfg.SpecExtension = yamlCfg.SpecExtension
	}
	if len(yamlCfg.IDPrefixes) > 0 {
		cfg.IDPrefixes = yamlCfg.IDPrefixes
	}
	if len(yamlCfg.SearchRoots) > 0 {
		cfg.SearchRoots = yamlCfg.SearchRoots
	}
	if len(yamlCfg.AnchorExtensions) > 0 {
		cfg.AnchorExtensions = yamlCfg.AnchorExtensions
	}
	if len(yamlCfg.ResolutionRoots) > 0 {
		cfg.ResolutionRoots = yamlCfg.ResolutionRoots
	}
	// exclude_dirs may be set to an empty list on purpose
	if yamlCfg.ExcludeDirs != nil {
		cfg.ExcludeDirs = yamlCfg.ExcludeDirs
	}
	if yamlCfg.Language != "" {
		cfg.Language = yamlCfg.Language
	}
	if yamlCfg.SearchBackend != "" {
		cfg.SearchBackend = yamlCfg.SearchBackend
	}
	if yamlCfg.SearchTimeout != "" {
		timeout, err := time.ParseDuration(yamlCfg.SearchTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid search_timeout format %q: %w", yamlCfg.SearchTimeout, err)
		}
		cfg.SearchTimeout = timeout
	}
	if yamlCfg.StrictAnchors != nil {
		cfg.StrictAnchors = *yamlCfg.StrictAnchors
	}
	if yamlCfg.Jobs != 0 {
		cfg.Jobs = yamlCfg.Jobs
	}
	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from .tracelint.yaml in the specified directory
// If the file doesn't exist, returns default configuration without error
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, FileName))
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
func (c *Config) MergeWithFlags(specDir *string, backend *string, jobs *int, strict *bool, logLevel *string) {
	if specDir != nil {
		c.SpecDir = *specDir
	}
	if backend != nil {
		c.SearchBackend = *backend
	}
	if jobs != nil {
		c.Jobs = *jobs
	}
	if strict != nil {
		c.StrictAnchors = *strict
	}
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
}

// Validate validates the configuration values
// Returns an error if any values are invalid
func (c *Config) Validate() error {
	if c.SpecDir == "" {
		return fmt.Errorf("spec_dir cannot be empty")
	}
	if c.SpecExtension == "" {
		return fmt.Errorf("spec_extension cannot be empty")
	}
	if len(c.IDPrefixes) == 0 {
		return fmt.Errorf("id_prefixes must contain at least one prefix")
	}
	for _, p := range c.IDPrefixes {
		if p == "" {
			return fmt.Errorf("id_prefixes cannot contain an empty prefix")
		}
	}
	if len(c.AnchorExtensions) == 0 {
		return fmt.Errorf("anchor_extensions must contain at least one extension")
	}

	if _, ok := source.Lookup(c.Language); !ok {
		return fmt.Errorf("unknown language %q, must be one of: %v", c.Language, source.Names())
	}

	if c.SearchBackend != BackendGrep && c.SearchBackend != BackendScan {
		return fmt.Errorf("invalid search_backend %q, must be one of: grep, scan", c.SearchBackend)
	}
	if c.SearchTimeout <= 0 {
		return fmt.Errorf("search_timeout must be > 0, got %v", c.SearchTimeout)
	}
	if c.Jobs <= 0 {
		return fmt.Errorf("jobs must be > 0, got %d", c.Jobs)
	}

	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	return nil
}
