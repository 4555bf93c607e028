// Package data provides configuration management and file-based collaborators
// for the arenarank engine: YAML application settings with environment
// overrides, match descriptor files, and player rating stores.
package data

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wcarena/arenarank/pkg/rank"
	"github.com/wcarena/arenarank/pkg/rating"
)

// Error types for configuration validation
var (
	ErrInvalidRatingConfig = errors.New("invalid rating configuration")
	ErrInvalidRankConfig   = errors.New("invalid rank configuration")
	ErrInvalidStoreConfig  = errors.New("invalid store configuration")
	ErrInvalidAuditConfig  = errors.New("invalid audit configuration")
	ErrInvalidExportConfig = errors.New("invalid export configuration")
	ErrConfigNotFound      = errors.New("configuration file not found")
	ErrConfigParseError    = errors.New("failed to parse configuration file")
)

// Store backends
const (
	BackendCSV  = "csv"
	BackendBolt = "bolt"
)

// AppConfig is the top-level configuration of an arenarank installation
type AppConfig struct {
	Rating rating.Config `yaml:"rating" json:"rating"`
	Ranks  []rank.Tier   `yaml:"ranks" json:"ranks"`
	Store  StoreConfig   `yaml:"store" json:"store"`
	Audit  AuditConfig   `yaml:"audit" json:"audit"`
	Export ExportConfig  `yaml:"export" json:"export"`
}

// StoreConfig selects the player rating store
type StoreConfig struct {
	Backend string `yaml:"backend" json:"backend"` // csv or bolt
	Path    string `yaml:"path" json:"path"`       // File holding player ratings
}

// AuditConfig controls the match audit journal
type AuditConfig struct {
	Enabled   bool   `yaml:"enabled" json:"enabled"`
	Directory string `yaml:"directory" json:"directory"`
	LeagueID  string `yaml:"league_id" json:"league_id"` // Journal name, one file per league
}

// ExportConfig holds result output settings
type ExportConfig struct {
	Format string `yaml:"format" json:"format"` // csv, json or text
}

// DefaultAppConfig returns a configuration with the standard ladder
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Rating: rating.DefaultConfig(),
		Ranks:  rank.DefaultTiers(),
		Store:  DefaultStoreConfig(),
		Audit:  DefaultAuditConfig(),
		Export: DefaultExportConfig(),
	}
}

// DefaultStoreConfig returns player store defaults
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		Backend: BackendCSV,
		Path:    "players.csv",
	}
}

// DefaultAuditConfig returns audit journal defaults
func DefaultAuditConfig() AuditConfig {
	return AuditConfig{
		Enabled:   true,
		Directory: "audit",
		LeagueID:  "ladder",
	}
}

// DefaultExportConfig returns export defaults
func DefaultExportConfig() ExportConfig {
	return ExportConfig{
		Format: "text",
	}
}

// Validate checks that the application configuration is valid
func (c *AppConfig) Validate() error {
	if err := c.Rating.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRatingConfig, err)
	}

	if _, err := rank.NewLadder(c.Ranks); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRankConfig, err)
	}

	if err := c.Store.Validate(); err != nil {
		return fmt.Errorf("store config validation failed: %w", err)
	}

	if err := c.Audit.Validate(); err != nil {
		return fmt.Errorf("audit config validation failed: %w", err)
	}

	if err := c.Export.Validate(); err != nil {
		return fmt.Errorf("export config validation failed: %w", err)
	}

	return nil
}

// Validate checks that the store configuration is valid
func (s *StoreConfig) Validate() error {
	if s.Backend != BackendCSV && s.Backend != BackendBolt {
		return fmt.Errorf("%w: backend '%s' must be one of: csv, bolt", ErrInvalidStoreConfig, s.Backend)
	}
	if strings.TrimSpace(s.Path) == "" {
		return fmt.Errorf("%w: path is required", ErrInvalidStoreConfig)
	}
	return nil
}

// Validate checks that the audit configuration is valid
func (a *AuditConfig) Validate() error {
	if !a.Enabled {
		return nil
	}
	if strings.TrimSpace(a.Directory) == "" {
		return fmt.Errorf("%w: directory is required when audit is enabled", ErrInvalidAuditConfig)
	}
	if strings.TrimSpace(a.LeagueID) == "" {
		return fmt.Errorf("%w: league_id is required when audit is enabled", ErrInvalidAuditConfig)
	}
	return nil
}

// Validate checks that the export configuration is valid
func (e *ExportConfig) Validate() error {
	validFormats := map[string]bool{
		"csv":  true,
		"json": true,
		"text": true,
	}

	if !validFormats[e.Format] {
		return fmt.Errorf("%w: format '%s' must be one of: csv, json, text", ErrInvalidExportConfig, e.Format)
	}
	return nil
}

// Ladder builds the rank ladder described by the configuration
func (c *AppConfig) Ladder() (*rank.Ladder, error) {
	return rank.NewLadder(c.Ranks)
}

// NewEngine builds the rating engine described by the configuration
func (c *AppConfig) NewEngine() (*rating.Engine, error) {
	ladder, err := c.Ladder()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRankConfig, err)
	}
	return rating.NewEngine(c.Rating, ladder)
}

// LoadFromFile loads configuration from a YAML file.
// Keys missing from the file keep their default values.
func LoadFromFile(filename string) (*AppConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, filename)
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	config := DefaultAppConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParseError, filename, err)
	}

	config = mergeWithDefaults(config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", filename, err)
	}

	return &config, nil
}

// LoadWithEnvironment loads configuration from file and applies environment variable overrides
func LoadWithEnvironment(filename string) (*AppConfig, error) {
	config := DefaultAppConfig()

	if filename != "" {
		fileConfig, err := LoadFromFile(filename)
		if err != nil && !errors.Is(err, ErrConfigNotFound) {
			return nil, err
		}
		if err == nil {
			config = *fileConfig
		}
	}

	applyEnvironmentOverrides(&config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid final configuration: %w", err)
	}

	return &config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *AppConfig) SaveToFile(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", filename, err)
	}

	return nil
}

// mergeWithDefaults restores defaults for values a file blanked out
func mergeWithDefaults(config AppConfig) AppConfig {
	defaults := DefaultAppConfig()

	if len(config.Ranks) == 0 {
		config.Ranks = defaults.Ranks
	}
	if config.Rating.TeamMultipliers == nil {
		config.Rating.TeamMultipliers = defaults.Rating.TeamMultipliers
	}
	if config.Rating.FFAMultipliers == nil {
		config.Rating.FFAMultipliers = defaults.Rating.FFAMultipliers
	}
	if config.Rating.AIRatings == nil {
		config.Rating.AIRatings = defaults.Rating.AIRatings
	}
	if config.Store.Backend == "" {
		config.Store.Backend = defaults.Store.Backend
	}
	if config.Store.Path == "" {
		config.Store.Path = defaults.Store.Path
	}
	if config.Audit.LeagueID == "" {
		config.Audit.LeagueID = defaults.Audit.LeagueID
	}
	if config.Export.Format == "" {
		config.Export.Format = defaults.Export.Format
	}

	return config
}

// applyEnvironmentOverrides applies ARENARANK_* environment variable overrides
func applyEnvironmentOverrides(config *AppConfig) {
	intOverrides := []struct {
		name   string
		target *int
	}{
		{"ARENARANK_RATING_BASE", &config.Rating.BaseRating},
		{"ARENARANK_RATING_MIN", &config.Rating.MinRating},
		{"ARENARANK_RATING_MAX", &config.Rating.MaxRating},
		{"ARENARANK_K_LOW", &config.Rating.KFactors.Low},
		{"ARENARANK_K_MID", &config.Rating.KFactors.Mid},
		{"ARENARANK_K_HIGH", &config.Rating.KFactors.High},
		{"ARENARANK_PLACEMENT_GAMES", &config.Rating.Placement.Games},
		{"ARENARANK_PLACEMENT_K", &config.Rating.Placement.KFactor},
		{"ARENARANK_AI_MAX_GAIN", &config.Rating.AIGainCap.MaxGain},
	}
	for _, o := range intOverrides {
		if val := os.Getenv(o.name); val != "" {
			if parsed, err := strconv.Atoi(val); err == nil {
				*o.target = parsed
			}
		}
	}

	if val := os.Getenv("ARENARANK_AI_GAIN_CAP"); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			config.Rating.AIGainCap.Enabled = parsed
		}
	}
	if val := os.Getenv("ARENARANK_UNDERDOG_BONUS"); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			config.Rating.UnderdogBonus = parsed
		}
	}
	if val := os.Getenv("ARENARANK_FAVORITE_PENALTY"); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			config.Rating.FavoritePenalty = parsed
		}
	}

	if val := os.Getenv("ARENARANK_STORE_BACKEND"); val != "" {
		config.Store.Backend = val
	}
	if val := os.Getenv("ARENARANK_STORE_PATH"); val != "" {
		config.Store.Path = val
	}

	if val := os.Getenv("ARENARANK_AUDIT_ENABLED"); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			config.Audit.Enabled = parsed
		}
	}
	if val := os.Getenv("ARENARANK_AUDIT_DIR"); val != "" {
		config.Audit.Directory = val
	}
	if val := os.Getenv("ARENARANK_LEAGUE"); val != "" {
		config.Audit.LeagueID = val
	}

	if val := os.Getenv("ARENARANK_EXPORT_FORMAT"); val != "" {
		config.Export.Format = val
	}
}
