// Package rank maps numeric ratings onto named rank tiers.
// A Ladder is built once at startup and is read-only afterwards, so it can be
// shared freely between goroutines.
package rank

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error types for ladder construction
var (
	ErrEmptyLadder        = errors.New("ladder must contain at least one tier")
	ErrDuplicateThreshold = errors.New("tier thresholds must be distinct")
	ErrDuplicateName      = errors.New("tier names must be distinct")
	ErrInvalidTierName    = errors.New("tier name cannot be empty")
)

// Tier is a named band of the rating scale
type Tier struct {
	Name      string `yaml:"name" json:"name"`           // Display name of the tier
	Threshold int    `yaml:"threshold" json:"threshold"` // Lowest rating that belongs to this tier
	ImageRef  string `yaml:"image" json:"image"`         // Badge reference used by presentation layers
}

// Ladder is an ordered, immutable set of tiers
type Ladder struct {
	tiers []Tier // sorted descending by threshold
}

// NewLadder builds a ladder from an unordered tier list
func NewLadder(tiers []Tier) (*Ladder, error) {
	if len(tiers) == 0 {
		return nil, ErrEmptyLadder
	}

	sorted := make([]Tier, len(tiers))
	copy(sorted, tiers)

	thresholds := make(map[int]string, len(sorted))
	names := make(map[string]bool, len(sorted))
	for _, t := range sorted {
		if strings.TrimSpace(t.Name) == "" {
			return nil, ErrInvalidTierName
		}
		if other, ok := thresholds[t.Threshold]; ok {
			return nil, fmt.Errorf("%w: %q and %q share threshold %d", ErrDuplicateThreshold, other, t.Name, t.Threshold)
		}
		if names[t.Name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, t.Name)
		}
		thresholds[t.Threshold] = t.Name
		names[t.Name] = true
	}

	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Threshold > sorted[j].Threshold
	})

	return &Ladder{tiers: sorted}, nil
}

// DefaultTiers returns the standard arena ladder
func DefaultTiers() []Tier {
	return []Tier{
		{Name: "Peasant", Threshold: 0, ImageRef: "ranks/peasant.png"},
		{Name: "Footman", Threshold: 1000, ImageRef: "ranks/footman.png"},
		{Name: "Archer", Threshold: 1100, ImageRef: "ranks/archer.png"},
		{Name: "Knight", Threshold: 1250, ImageRef: "ranks/knight.png"},
		{Name: "Ranger", Threshold: 1400, ImageRef: "ranks/ranger.png"},
		{Name: "Paladin", Threshold: 1550, ImageRef: "ranks/paladin.png"},
		{Name: "Mage", Threshold: 1700, ImageRef: "ranks/mage.png"},
		{Name: "Gryphon Rider", Threshold: 1850, ImageRef: "ranks/gryphon_rider.png"},
		{Name: "Warlord", Threshold: 2000, ImageRef: "ranks/warlord.png"},
		{Name: "Dragon Lord", Threshold: 2200, ImageRef: "ranks/dragon_lord.png"},
	}
}

// MustDefaultLadder returns a ladder built from DefaultTiers
func MustDefaultLadder() *Ladder {
	l, err := NewLadder(DefaultTiers())
	if err != nil {
		panic(err)
	}
	return l
}

// RankFor returns the tier with the highest threshold not above rating.
// Ratings below every threshold fall back to the lowest tier.
func (l *Ladder) RankFor(rating int) Tier {
	for _, t := range l.tiers {
		if t.Threshold <= rating {
			return t
		}
	}
	return l.tiers[len(l.tiers)-1]
}

// TierChanged reports whether two ratings resolve to different tiers
func (l *Ladder) TierChanged(oldRating, newRating int) bool {
	return l.RankFor(oldRating).Name != l.RankFor(newRating).Name
}

// Tiers returns a copy of the ladder ordered by descending threshold
func (l *Ladder) Tiers() []Tier {
	out := make([]Tier, len(l.tiers))
	copy(out, l.tiers)
	return out
}

// Next returns the tier directly above the one rating resolves to.
// The second value is false when rating is already in the top tier.
func (l *Ladder) Next(rating int) (Tier, bool) {
	current := l.RankFor(rating)
	for i, t := range l.tiers {
		if t.Name == current.Name {
			if i == 0 {
				return Tier{}, false
			}
			return l.tiers[i-1], true
		}
	}
	return Tier{}, false
}

// Lowest returns the fallback tier
func (l *Ladder) Lowest() Tier {
	return l.tiers[len(l.tiers)-1]
}
