package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wcarena/arenarank/pkg/rank"
	"github.com/wcarena/arenarank/pkg/rating"
)

func TestDefaultConfigs(t *testing.T) {
	t.Run("DefaultAppConfig", func(t *testing.T) {
		config := DefaultAppConfig()

		assert.Equal(t, 1200, config.Rating.BaseRating)
		assert.Len(t, config.Ranks, 10)
		assert.NotZero(t, config.Store)
		assert.NotZero(t, config.Audit)
		assert.NotZero(t, config.Export)

		assert.NoError(t, config.Validate())
	})

	t.Run("DefaultStoreConfig", func(t *testing.T) {
		config := DefaultStoreConfig()

		assert.Equal(t, BackendCSV, config.Backend)
		assert.Equal(t, "players.csv", config.Path)
		assert.NoError(t, config.Validate())
	})

	t.Run("DefaultAuditConfig", func(t *testing.T) {
		config := DefaultAuditConfig()

		assert.True(t, config.Enabled)
		assert.Equal(t, "audit", config.Directory)
		assert.Equal(t, "ladder", config.LeagueID)
		assert.NoError(t, config.Validate())
	})

	t.Run("DefaultExportConfig", func(t *testing.T) {
		config := DefaultExportConfig()

		assert.Equal(t, "text", config.Format)
		assert.NoError(t, config.Validate())
	})
}

func TestAppConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *AppConfig)
		wantErr error
	}{
		{
			name:   "defaults",
			mutate: func(c *AppConfig) {},
		},
		{
			name:    "zero k-factor",
			mutate:  func(c *AppConfig) { c.Rating.KFactors.Low = 0 },
			wantErr: ErrInvalidRatingConfig,
		},
		{
			name:    "inverted bounds",
			mutate:  func(c *AppConfig) { c.Rating.MinRating = 3000; c.Rating.MaxRating = 100 },
			wantErr: rating.ErrInvalidBounds,
		},
		{
			name:    "empty ladder",
			mutate:  func(c *AppConfig) { c.Ranks = nil },
			wantErr: ErrInvalidRankConfig,
		},
		{
			name: "duplicate tier threshold",
			mutate: func(c *AppConfig) {
				c.Ranks = []rank.Tier{{Name: "Peasant", Threshold: 0}, {Name: "Footman", Threshold: 0}}
			},
			wantErr: rank.ErrDuplicateThreshold,
		},
		{
			name:    "unknown store backend",
			mutate:  func(c *AppConfig) { c.Store.Backend = "redis" },
			wantErr: ErrInvalidStoreConfig,
		},
		{
			name:    "missing store path",
			mutate:  func(c *AppConfig) { c.Store.Path = "  " },
			wantErr: ErrInvalidStoreConfig,
		},
		{
			name:    "audit without directory",
			mutate:  func(c *AppConfig) { c.Audit.Directory = "" },
			wantErr: ErrInvalidAuditConfig,
		},
		{
			name:    "audit without league",
			mutate:  func(c *AppConfig) { c.Audit.LeagueID = "" },
			wantErr: ErrInvalidAuditConfig,
		},
		{
			name:   "disabled audit skips checks",
			mutate: func(c *AppConfig) { c.Audit = AuditConfig{Enabled: false} },
		},
		{
			name:    "unknown export format",
			mutate:  func(c *AppConfig) { c.Export.Format = "xml" },
			wantErr: ErrInvalidExportConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultAppConfig()
			tt.mutate(&config)

			err := config.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAppConfigEngine(t *testing.T) {
	config := DefaultAppConfig()

	engine, err := config.NewEngine()
	require.NoError(t, err)
	assert.Equal(t, "Knight", engine.RankFor(1300).Name)

	config.Ranks = nil
	_, err = config.NewEngine()
	assert.ErrorIs(t, err, ErrInvalidRankConfig)
}

func TestLoadFromFile(t *testing.T) {
	tempDir := t.TempDir()

	write := func(t *testing.T, name, content string) string {
		t.Helper()
		path := filepath.Join(tempDir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		return path
	}

	t.Run("partial file keeps defaults", func(t *testing.T) {
		path := write(t, "partial.yaml", `
rating:
  base_rating: 1300
  k_factors:
    low: 40
    mid: 24
    high: 16
    mid_floor: 1400
    high_floor: 1600
store:
  backend: bolt
  path: ratings.db
`)
		config, err := LoadFromFile(path)
		require.NoError(t, err)

		assert.Equal(t, 1300, config.Rating.BaseRating)
		assert.Equal(t, 40, config.Rating.KFactors.Low)
		assert.Equal(t, 48, config.Rating.Placement.KFactor)
		assert.Equal(t, 0.85, config.Rating.TeamMultipliers["2v2"])
		assert.Equal(t, BackendBolt, config.Store.Backend)
		assert.Equal(t, "ratings.db", config.Store.Path)
		assert.Len(t, config.Ranks, 10)
		assert.Equal(t, "text", config.Export.Format)
	})

	t.Run("custom ladder replaces default", func(t *testing.T) {
		path := write(t, "ladder.yaml", `
ranks:
  - name: Bronze
    threshold: 0
  - name: Silver
    threshold: 1200
  - name: Gold
    threshold: 1500
`)
		config, err := LoadFromFile(path)
		require.NoError(t, err)
		require.Len(t, config.Ranks, 3)

		ladder, err := config.Ladder()
		require.NoError(t, err)
		assert.Equal(t, "Silver", ladder.RankFor(1499).Name)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFromFile(filepath.Join(tempDir, "nope.yaml"))
		assert.ErrorIs(t, err, ErrConfigNotFound)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := write(t, "broken.yaml", "rating: [unclosed")
		_, err := LoadFromFile(path)
		assert.ErrorIs(t, err, ErrConfigParseError)
	})

	t.Run("invalid values", func(t *testing.T) {
		path := write(t, "invalid.yaml", "export:\n  format: xml\n")
		_, err := LoadFromFile(path)
		assert.ErrorIs(t, err, ErrInvalidExportConfig)
	})
}

func TestLoadWithEnvironment(t *testing.T) {
	t.Run("overrides applied", func(t *testing.T) {
		t.Setenv("ARENARANK_K_LOW", "40")
		t.Setenv("ARENARANK_PLACEMENT_GAMES", "5")
		t.Setenv("ARENARANK_AI_GAIN_CAP", "true")
		t.Setenv("ARENARANK_AI_MAX_GAIN", "6")
		t.Setenv("ARENARANK_UNDERDOG_BONUS", "1.5")
		t.Setenv("ARENARANK_STORE_BACKEND", "bolt")
		t.Setenv("ARENARANK_STORE_PATH", "ladder.db")
		t.Setenv("ARENARANK_AUDIT_ENABLED", "false")
		t.Setenv("ARENARANK_LEAGUE", "season-4")
		t.Setenv("ARENARANK_EXPORT_FORMAT", "json")

		config, err := LoadWithEnvironment("")
		require.NoError(t, err)

		assert.Equal(t, 40, config.Rating.KFactors.Low)
		assert.Equal(t, 5, config.Rating.Placement.Games)
		assert.True(t, config.Rating.AIGainCap.Enabled)
		assert.Equal(t, 6, config.Rating.AIGainCap.MaxGain)
		assert.Equal(t, 1.5, config.Rating.UnderdogBonus)
		assert.Equal(t, BackendBolt, config.Store.Backend)
		assert.Equal(t, "ladder.db", config.Store.Path)
		assert.False(t, config.Audit.Enabled)
		assert.Equal(t, "season-4", config.Audit.LeagueID)
		assert.Equal(t, "json", config.Export.Format)
	})

	t.Run("environment wins over file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "arenarank.yaml")
		require.NoError(t, os.WriteFile(path, []byte("rating:\n  base_rating: 1300\n"), 0644))
		t.Setenv("ARENARANK_RATING_BASE", "1250")

		config, err := LoadWithEnvironment(path)
		require.NoError(t, err)
		assert.Equal(t, 1250, config.Rating.BaseRating)
	})

	t.Run("missing file falls back to defaults", func(t *testing.T) {
		config, err := LoadWithEnvironment(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, DefaultAppConfig(), *config)
	})

	t.Run("unparsable values ignored", func(t *testing.T) {
		t.Setenv("ARENARANK_RATING_BASE", "invalid_number")
		t.Setenv("ARENARANK_AI_GAIN_CAP", "maybe")

		config, err := LoadWithEnvironment("")
		require.NoError(t, err)
		assert.Equal(t, 1200, config.Rating.BaseRating)
		assert.False(t, config.Rating.AIGainCap.Enabled)
	})

	t.Run("override producing invalid config", func(t *testing.T) {
		t.Setenv("ARENARANK_STORE_BACKEND", "sqlite")

		_, err := LoadWithEnvironment("")
		assert.ErrorIs(t, err, ErrInvalidStoreConfig)
	})
}

func TestSaveToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yaml")

	config := DefaultAppConfig()
	config.Rating.AIGainCap.Enabled = true
	config.Store = StoreConfig{Backend: BackendBolt, Path: "ratings.db"}
	config.Audit.LeagueID = "cup"

	require.NoError(t, config.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, config, *loaded)
}

func TestConfigPaths(t *testing.T) {
	t.Run("search paths start with the name", func(t *testing.T) {
		paths := GetConfigSearchPaths("arenarank.yaml")
		require.NotEmpty(t, paths)
		assert.Equal(t, "arenarank.yaml", paths[0])
		assert.Equal(t, filepath.Join("/etc", "arenarank", "arenarank.yaml"), paths[len(paths)-1])
	})

	t.Run("create and find default config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dir", "arenarank.yaml")
		assert.Empty(t, FindConfig(path))

		require.NoError(t, CreateDefaultConfig(path))
		assert.Equal(t, path, FindConfig(path))

		config, err := LoadFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, DefaultAppConfig(), *config)
	})
}
