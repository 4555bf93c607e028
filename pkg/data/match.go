package data

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/oklog/ulid/v2"
	"gopkg.in/yaml.v3"

	"github.com/wcarena/arenarank/pkg/rating"
)

// Error types for match files
var (
	ErrMatchFormat      = errors.New("match file format error")
	ErrUnsupportedInput = errors.New("unsupported match file extension")
	ErrNoMatches        = errors.New("match file contains no matches")
)

// LoadMatches reads match descriptors from a .yaml, .yml or .json file.
// The file holds either a single descriptor or a list of them. Matches
// without an ID are assigned a fresh ULID.
func LoadMatches(filename string) ([]rating.MatchDescriptor, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read %s: %v", ErrMatchFormat, filename, err)
	}

	var matches []rating.MatchDescriptor
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		matches, err = decodeYAMLMatches(raw)
	case ".json":
		matches, err = decodeJSONMatches(raw)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedInput, filename)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMatchFormat, filename, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoMatches, filename)
	}

	for i := range matches {
		if matches[i].ID == "" {
			matches[i].ID = ulid.Make().String()
		}
	}
	return matches, nil
}

func decodeYAMLMatches(raw []byte) ([]rating.MatchDescriptor, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return nil, nil
	}

	if node.Content[0].Kind == yaml.SequenceNode {
		var list []rating.MatchDescriptor
		if err := node.Decode(&list); err != nil {
			return nil, err
		}
		return list, nil
	}

	var single rating.MatchDescriptor
	if err := node.Decode(&single); err != nil {
		return nil, err
	}
	return []rating.MatchDescriptor{single}, nil
}

func decodeJSONMatches(raw []byte) ([]rating.MatchDescriptor, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var list []rating.MatchDescriptor
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, err
		}
		return list, nil
	}

	var single rating.MatchDescriptor
	if err := json.Unmarshal(trimmed, &single); err != nil {
		return nil, err
	}
	return []rating.MatchDescriptor{single}, nil
}

// SaveMatches writes descriptors as a YAML list
func SaveMatches(matches []rating.MatchDescriptor, filename string) error {
	out, err := yaml.Marshal(matches)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMatchFormat, err)
	}
	return os.WriteFile(filename, out, 0644)
}

// ApplyRatings copies stored ratings and game counts onto the human
// participants of d. AI participants are left untouched.
func ApplyRatings(d *rating.MatchDescriptor, records map[string]PlayerRecord) {
	for i := range d.Participants {
		p := &d.Participants[i]
		if d.IsAI(*p) {
			continue
		}
		record, ok := records[p.ID]
		if !ok {
			continue
		}
		games := record.GamesPlayed
		p.Rating = record.Rating
		p.GamesPlayed = &games
	}
}

// ApplyResults folds computed deltas into player records, counting one more
// ranked game for every rated player.
func ApplyResults(records map[string]PlayerRecord, deltas []rating.RatingDelta) []PlayerRecord {
	updated := make([]PlayerRecord, 0, len(deltas))
	for _, d := range deltas {
		record := records[d.ID]
		record.ID = d.ID
		record.Rating = d.NewRating
		record.GamesPlayed++
		records[d.ID] = record
		updated = append(updated, record)
	}
	return updated
}
