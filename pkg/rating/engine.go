// Package rating converts match outcomes into integer rating deltas.
// It implements an Elo-style calculator for 1v1, team, free-for-all and
// human-vs-AI matches, validated per match shape and resolved against a rank
// ladder. The Engine is immutable and safe for concurrent use.
package rating

import (
	"errors"
	"fmt"
	"math"

	"github.com/wcarena/arenarank/pkg/rank"
)

// ErrNilLadder is returned by NewEngine when no rank ladder is supplied
var ErrNilLadder = errors.New("rank ladder is required")

// Engine computes rating deltas from match descriptors
type Engine struct {
	config Config
	ladder *rank.Ladder
}

// contribution is the unrounded delta of one human participant
type contribution struct {
	participant Participant
	kFactor     int
	raw         float64
}

// NewEngine creates an engine from a validated configuration and rank ladder
func NewEngine(config Config, ladder *rank.Ladder) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if ladder == nil {
		return nil, ErrNilLadder
	}

	return &Engine{
		config: config.clone(),
		ladder: ladder,
	}, nil
}

// Config returns a copy of the engine configuration
func (e *Engine) Config() Config {
	return e.config.clone()
}

// Ladder returns the rank ladder used to resolve tiers
func (e *Engine) Ladder() *rank.Ladder {
	return e.ladder
}

// RankFor resolves the tier for a rating
func (e *Engine) RankFor(rating int) rank.Tier {
	return e.ladder.RankFor(rating)
}

// TierChanged reports whether moving between two ratings crosses a tier boundary
func (e *Engine) TierChanged(oldRating, newRating int) bool {
	return e.ladder.TierChanged(oldRating, newRating)
}

// Tiers returns the full ladder ordered by descending threshold
func (e *Engine) Tiers() []rank.Tier {
	return e.ladder.Tiers()
}

// ComputeDelta validates the descriptor and returns a delta for every human
// participant, in descriptor order. On error no deltas are returned.
func (e *Engine) ComputeDelta(d MatchDescriptor) ([]RatingDelta, error) {
	if err := e.Validate(d); err != nil {
		return nil, err
	}

	var (
		contributions []contribution
		err           error
	)

	switch {
	case d.Type == OneVOne:
		contributions, err = e.calculateDuel(d)
	case d.Type == FFA:
		contributions, err = e.calculateFFA(d)
	case d.Type.IsTeam():
		contributions, err = e.calculateTeam(d)
	default:
		err = invalid(ReasonUnknownMatchType, "%q", d.Type)
	}
	if err != nil {
		return nil, err
	}

	return e.finalize(contributions), nil
}

// ExpectedScore is the Elo probability that a player rated a beats one rated b
func ExpectedScore(a, b float64) float64 {
	return 1.0 / (1.0 + math.Pow(10.0, (b-a)/400.0))
}

// KFactor returns the K-factor for a player. A non-nil gamesPlayed below the
// placement game count selects the placement K-factor.
func (e *Engine) KFactor(rating int, gamesPlayed *int) int {
	if gamesPlayed != nil && *gamesPlayed < e.config.Placement.Games {
		return e.config.Placement.KFactor
	}
	switch {
	case rating >= e.config.KFactors.HighFloor:
		return e.config.KFactors.High
	case rating >= e.config.KFactors.MidFloor:
		return e.config.KFactors.Mid
	default:
		return e.config.KFactors.Low
	}
}

// aiRating looks up the equivalent rating of an AI difficulty
func (e *Engine) aiRating(p Participant) (int, error) {
	r, ok := e.config.AIRatings[p.AIDifficulty]
	if !ok {
		return 0, invalid(ReasonUnknownAIDifficulty, "participant %q has difficulty %q", p.ID, p.AIDifficulty)
	}
	return r, nil
}

// effectiveRating returns the rating the calculator uses for p
func (e *Engine) effectiveRating(d *MatchDescriptor, p Participant) (int, error) {
	if d.IsAI(p) {
		return e.aiRating(p)
	}
	return p.Rating, nil
}

// clampRating keeps a rating within the configured bounds
func (e *Engine) clampRating(rating int) int {
	if rating < e.config.MinRating {
		return e.config.MinRating
	}
	if rating > e.config.MaxRating {
		return e.config.MaxRating
	}
	return rating
}

// roundDelta rounds half away from zero, so -2.5 becomes -3
func roundDelta(raw float64) int {
	return int(math.Round(raw))
}

// finalize rounds, clamps and resolves tiers
func (e *Engine) finalize(contributions []contribution) []RatingDelta {
	deltas := make([]RatingDelta, 0, len(contributions))
	for _, c := range contributions {
		old := c.participant.Rating
		change := roundDelta(c.raw)
		updated := e.clampRating(old + change)
		oldTier := e.ladder.RankFor(old)
		newTier := e.ladder.RankFor(updated)

		deltas = append(deltas, RatingDelta{
			ID:          c.participant.ID,
			OldRating:   old,
			NewRating:   updated,
			Change:      change,
			RawChange:   c.raw,
			KFactor:     c.kFactor,
			OldTier:     oldTier,
			NewTier:     newTier,
			TierChanged: oldTier.Name != newTier.Name,
		})
	}
	return deltas
}

// String describes the engine configuration
func (e *Engine) String() string {
	return fmt.Sprintf("rating engine (k=%d/%d/%d, bounds=[%d,%d], tiers=%d)",
		e.config.KFactors.Low, e.config.KFactors.Mid, e.config.KFactors.High,
		e.config.MinRating, e.config.MaxRating, len(e.ladder.Tiers()))
}
