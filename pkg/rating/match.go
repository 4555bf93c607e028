package rating

import (
	"fmt"

	"github.com/wcarena/arenarank/pkg/rank"
)

// MatchType is the declared shape of a match
type MatchType string

// Supported match types
const (
	OneVOne     MatchType = "1v1"
	TwoV2       MatchType = "2v2"
	ThreeV3     MatchType = "3v3"
	FourV4      MatchType = "4v4"
	FFA         MatchType = "ffa"
	TeamGeneric MatchType = "team"
)

// teamSize returns the per-team size a fixed team shape requires, or 0
func (m MatchType) teamSize() int {
	switch m {
	case TwoV2:
		return 2
	case ThreeV3:
		return 3
	case FourV4:
		return 4
	default:
		return 0
	}
}

// IsTeam reports whether the match type is one of the team shapes
func (m MatchType) IsTeam() bool {
	return m == TeamGeneric || m.teamSize() > 0
}

// Participant is a rating snapshot of one player in a match.
// Optional fields are nil when the caller did not supply them.
type Participant struct {
	ID           string `yaml:"id" json:"id"`
	Rating       int    `yaml:"rating" json:"rating"`
	Placement    *int   `yaml:"placement,omitempty" json:"placement,omitempty"`       // FFA finishing position, 1 is best
	Team         *int   `yaml:"team,omitempty" json:"team,omitempty"`                 // Team number in team matches
	GamesPlayed  *int   `yaml:"games_played,omitempty" json:"games_played,omitempty"` // Ranked games before this match
	IsAI         bool   `yaml:"ai,omitempty" json:"ai,omitempty"`
	AIDifficulty string `yaml:"ai_difficulty,omitempty" json:"ai_difficulty,omitempty"`
}

// MatchDescriptor is a single match submitted for rating
type MatchDescriptor struct {
	ID            string        `yaml:"id,omitempty" json:"id,omitempty"`
	Type          MatchType     `yaml:"type" json:"type"`
	Participants  []Participant `yaml:"participants" json:"participants"`
	WinnerID      string        `yaml:"winner,omitempty" json:"winner,omitempty"`
	WinningTeam   *int          `yaml:"winning_team,omitempty" json:"winning_team,omitempty"`
	AIOpponentIDs []string      `yaml:"ai_opponents,omitempty" json:"ai_opponents,omitempty"`
}

// IsAI reports whether p is controlled by the computer in match d
func (d *MatchDescriptor) IsAI(p Participant) bool {
	if p.IsAI {
		return true
	}
	for _, id := range d.AIOpponentIDs {
		if id == p.ID {
			return true
		}
	}
	return false
}

// HumanIDs lists the participants that receive a rating delta
func (d *MatchDescriptor) HumanIDs() []string {
	ids := make([]string, 0, len(d.Participants))
	for _, p := range d.Participants {
		if !d.IsAI(p) {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// RatingDelta is the result of rating one human participant
type RatingDelta struct {
	ID          string    `json:"id"`
	OldRating   int       `json:"old_rating"`
	NewRating   int       `json:"new_rating"`   // Clamped to the configured bounds
	Change      int       `json:"change"`       // Rounded, unclamped delta
	RawChange   float64   `json:"raw_change"`   // Delta before rounding
	KFactor     int       `json:"k_factor"`     // K-factor applied to this participant
	OldTier     rank.Tier `json:"old_tier"`
	NewTier     rank.Tier `json:"new_tier"`
	TierChanged bool      `json:"tier_changed"`
}

// Clamped reports whether the reported change differs from the applied one
func (r RatingDelta) Clamped() bool {
	return r.NewRating-r.OldRating != r.Change
}

// String renders a compact one-line summary
func (r RatingDelta) String() string {
	return fmt.Sprintf("%s %d -> %d (%+d) %s", r.ID, r.OldRating, r.NewRating, r.Change, r.NewTier.Name)
}
