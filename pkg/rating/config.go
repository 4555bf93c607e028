package rating

import (
	"errors"
	"fmt"
	"maps"
)

// Error types for configuration validation
var (
	ErrInvalidKFactor    = errors.New("k-factor must be positive")
	ErrInvalidBounds     = errors.New("min rating must be less than max rating")
	ErrInvalidBrackets   = errors.New("k-factor bracket floors must be ascending")
	ErrInvalidMultiplier = errors.New("multiplier must be positive")
	ErrInvalidBaseRating = errors.New("base rating must lie within rating bounds")
	ErrInvalidPlacement  = errors.New("placement game count cannot be negative")
)

// KFactorTiers holds the three rating-bracket K-factors
type KFactorTiers struct {
	Low       int `yaml:"low" json:"low"`               // Below MidFloor, most volatile
	Mid       int `yaml:"mid" json:"mid"`               // MidFloor up to HighFloor-1
	High      int `yaml:"high" json:"high"`             // HighFloor and above, most stable
	MidFloor  int `yaml:"mid_floor" json:"mid_floor"`   // First rating of the mid bracket
	HighFloor int `yaml:"high_floor" json:"high_floor"` // First rating of the high bracket
}

// PlacementConfig describes the placement period
type PlacementConfig struct {
	Games   int `yaml:"games" json:"games"`       // Ranked games played before leaving placement
	KFactor int `yaml:"k_factor" json:"k_factor"` // Flat K-factor used during placement
}

// AIGainCap is the historical cap on rating gained from beating AI opponents.
// It is disabled by default.
type AIGainCap struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
	MaxGain int  `yaml:"max_gain" json:"max_gain"`
}

// Config is the immutable rating configuration handed to NewEngine
type Config struct {
	BaseRating           int                `yaml:"base_rating" json:"base_rating"`
	KFactors             KFactorTiers       `yaml:"k_factors" json:"k_factors"`
	Placement            PlacementConfig    `yaml:"placement" json:"placement"`
	TeamMultipliers      map[string]float64 `yaml:"team_multipliers" json:"team_multipliers"` // Keyed by "WvL" label
	FFAMultipliers       map[int]float64    `yaml:"ffa_multipliers" json:"ffa_multipliers"`   // Keyed by player count
	FFADefaultMultiplier float64            `yaml:"ffa_default_multiplier" json:"ffa_default_multiplier"`
	AIRatings            map[string]int     `yaml:"ai_ratings" json:"ai_ratings"` // Difficulty to equivalent rating
	AIGainCap            AIGainCap          `yaml:"ai_gain_cap" json:"ai_gain_cap"`
	MinRating            int                `yaml:"min_rating" json:"min_rating"`
	MaxRating            int                `yaml:"max_rating" json:"max_rating"`
	UnderdogBonus        float64            `yaml:"underdog_bonus" json:"underdog_bonus"`     // Smaller team won
	FavoritePenalty      float64            `yaml:"favorite_penalty" json:"favorite_penalty"` // Larger team won
}

// DefaultConfig returns the standard ladder constants
func DefaultConfig() Config {
	return Config{
		BaseRating: 1200,
		KFactors: KFactorTiers{
			Low:       32,
			Mid:       24,
			High:      16,
			MidFloor:  1400,
			HighFloor: 1600,
		},
		Placement: PlacementConfig{
			Games:   10,
			KFactor: 48,
		},
		TeamMultipliers: map[string]float64{
			"1v1": 1.0,
			"2v2": 0.85,
			"3v3": 0.75,
			"4v4": 0.65,
		},
		FFAMultipliers: map[int]float64{
			3: 0.8,
			4: 0.7,
			5: 0.65,
			6: 0.6,
			7: 0.55,
			8: 0.5,
		},
		FFADefaultMultiplier: 0.5,
		AIRatings: map[string]int{
			"easy":   900,
			"normal": 1100,
			"hard":   1300,
			"insane": 1500,
		},
		AIGainCap: AIGainCap{
			Enabled: false,
			MaxGain: 8,
		},
		MinRating:       100,
		MaxRating:       3000,
		UnderdogBonus:   1.25,
		FavoritePenalty: 0.8,
	}
}

// Validate checks that the configuration is internally consistent
func (c *Config) Validate() error {
	if c.KFactors.Low <= 0 || c.KFactors.Mid <= 0 || c.KFactors.High <= 0 {
		return fmt.Errorf("%w: bracket k-factors %d/%d/%d", ErrInvalidKFactor,
			c.KFactors.Low, c.KFactors.Mid, c.KFactors.High)
	}
	if c.KFactors.MidFloor >= c.KFactors.HighFloor {
		return fmt.Errorf("%w: mid_floor %d, high_floor %d", ErrInvalidBrackets,
			c.KFactors.MidFloor, c.KFactors.HighFloor)
	}
	if c.Placement.Games < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPlacement, c.Placement.Games)
	}
	if c.Placement.Games > 0 && c.Placement.KFactor <= 0 {
		return fmt.Errorf("%w: placement k_factor %d", ErrInvalidKFactor, c.Placement.KFactor)
	}
	if c.MinRating >= c.MaxRating {
		return fmt.Errorf("%w: min %d, max %d", ErrInvalidBounds, c.MinRating, c.MaxRating)
	}
	if c.BaseRating < c.MinRating || c.BaseRating > c.MaxRating {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidBaseRating, c.BaseRating, c.MinRating, c.MaxRating)
	}
	for label, m := range c.TeamMultipliers {
		if m <= 0 {
			return fmt.Errorf("%w: team multiplier %s = %v", ErrInvalidMultiplier, label, m)
		}
	}
	for n, m := range c.FFAMultipliers {
		if m <= 0 {
			return fmt.Errorf("%w: ffa multiplier for %d players = %v", ErrInvalidMultiplier, n, m)
		}
	}
	if c.FFADefaultMultiplier <= 0 {
		return fmt.Errorf("%w: ffa_default_multiplier %v", ErrInvalidMultiplier, c.FFADefaultMultiplier)
	}
	if c.UnderdogBonus <= 0 || c.FavoritePenalty <= 0 {
		return fmt.Errorf("%w: underdog %v, favorite %v", ErrInvalidMultiplier, c.UnderdogBonus, c.FavoritePenalty)
	}
	if c.AIGainCap.Enabled && c.AIGainCap.MaxGain < 0 {
		return fmt.Errorf("%w: ai max_gain %d", ErrInvalidMultiplier, c.AIGainCap.MaxGain)
	}
	return nil
}

// clone returns a deep copy so the engine never shares maps with the caller
func (c Config) clone() Config {
	out := c
	out.TeamMultipliers = maps.Clone(c.TeamMultipliers)
	out.FFAMultipliers = maps.Clone(c.FFAMultipliers)
	out.AIRatings = maps.Clone(c.AIRatings)
	return out
}
