package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wcarena/arenarank/pkg/rating"
)

func intPtr(v int) *int { return &v }

func TestLoadMatches(t *testing.T) {
	tempDir := t.TempDir()

	tests := []struct {
		name     string
		file     string
		content  string
		wantLen  int
		wantErr  error
		validate func(t *testing.T, matches []rating.MatchDescriptor)
	}{
		{
			name: "single yaml descriptor",
			file: "duel.yaml",
			content: `
id: m-1
type: 1v1
winner: grom
participants:
  - id: grom
    rating: 1200
  - id: jaina
    rating: 1200
    games_played: 4
`,
			wantLen: 1,
			validate: func(t *testing.T, matches []rating.MatchDescriptor) {
				m := matches[0]
				assert.Equal(t, "m-1", m.ID)
				assert.Equal(t, rating.OneVOne, m.Type)
				assert.Equal(t, "grom", m.WinnerID)
				require.Len(t, m.Participants, 2)
				assert.Nil(t, m.Participants[0].GamesPlayed)
				require.NotNil(t, m.Participants[1].GamesPlayed)
				assert.Equal(t, 4, *m.Participants[1].GamesPlayed)
			},
		},
		{
			name: "yaml list with team and ffa",
			file: "night.yml",
			content: `
- id: t-1
  type: 2v2
  winning_team: 1
  participants:
    - {id: a, rating: 1200, team: 1}
    - {id: b, rating: 1200, team: 1}
    - {id: c, rating: 1200, team: 2}
    - {id: d, rating: 1200, team: 2, ai: true, ai_difficulty: hard}
- id: f-1
  type: ffa
  participants:
    - {id: a, rating: 1200, placement: 1}
    - {id: b, rating: 1200, placement: 2}
    - {id: c, rating: 1200, placement: 3}
`,
			wantLen: 2,
			validate: func(t *testing.T, matches []rating.MatchDescriptor) {
				team := matches[0]
				require.NotNil(t, team.WinningTeam)
				assert.Equal(t, 1, *team.WinningTeam)
				assert.True(t, team.Participants[3].IsAI)
				assert.Equal(t, "hard", team.Participants[3].AIDifficulty)

				ffa := matches[1]
				assert.Equal(t, rating.FFA, ffa.Type)
				require.NotNil(t, ffa.Participants[2].Placement)
				assert.Equal(t, 3, *ffa.Participants[2].Placement)
			},
		},
		{
			name:    "json object",
			file:    "duel.json",
			content: `{"id":"j-1","type":"1v1","winner":"grom","ai_opponents":["bot"],"participants":[{"id":"grom","rating":1200},{"id":"bot","rating":0,"ai_difficulty":"normal"}]}`,
			wantLen: 1,
			validate: func(t *testing.T, matches []rating.MatchDescriptor) {
				assert.Equal(t, []string{"bot"}, matches[0].AIOpponentIDs)
				assert.Equal(t, []string{"grom"}, matches[0].HumanIDs())
			},
		},
		{
			name:    "json array",
			file:    "list.json",
			content: ` [{"id":"a","type":"1v1"},{"id":"b","type":"ffa"}]`,
			wantLen: 2,
		},
		{
			name:    "missing ids get ulids",
			file:    "anon.yaml",
			content: "- type: 1v1\n- type: ffa\n",
			wantLen: 2,
			validate: func(t *testing.T, matches []rating.MatchDescriptor) {
				for _, m := range matches {
					_, err := ulid.Parse(m.ID)
					assert.NoError(t, err, "id %q", m.ID)
				}
				assert.NotEqual(t, matches[0].ID, matches[1].ID)
			},
		},
		{
			name:    "unsupported extension",
			file:    "matches.txt",
			content: "whatever",
			wantErr: ErrUnsupportedInput,
		},
		{
			name:    "empty yaml",
			file:    "empty.yaml",
			content: "",
			wantErr: ErrNoMatches,
		},
		{
			name:    "empty json list",
			file:    "empty.json",
			content: "[]",
			wantErr: ErrNoMatches,
		},
		{
			name:    "malformed json",
			file:    "bad.json",
			content: `{"id":`,
			wantErr: ErrMatchFormat,
		},
		{
			name:    "wrong yaml shape",
			file:    "bad.yaml",
			content: "participants: nope\n",
			wantErr: ErrMatchFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tempDir, tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			matches, err := LoadMatches(path)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, matches, tt.wantLen)
			if tt.validate != nil {
				tt.validate(t, matches)
			}
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadMatches(filepath.Join(tempDir, "absent.yaml"))
		assert.ErrorIs(t, err, ErrMatchFormat)
	})
}

func TestSaveMatches(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	matches := []rating.MatchDescriptor{
		{
			ID:       "m-1",
			Type:     rating.OneVOne,
			WinnerID: "grom",
			Participants: []rating.Participant{
				{ID: "grom", Rating: 1200, GamesPlayed: intPtr(3)},
				{ID: "jaina", Rating: 1210},
			},
		},
		{
			ID:          "m-2",
			Type:        rating.TwoV2,
			WinningTeam: intPtr(2),
			Participants: []rating.Participant{
				{ID: "a", Rating: 1200, Team: intPtr(1)},
				{ID: "b", Rating: 1200, Team: intPtr(1)},
				{ID: "c", Rating: 1200, Team: intPtr(2)},
				{ID: "d", Rating: 1200, Team: intPtr(2)},
			},
		},
	}

	require.NoError(t, SaveMatches(matches, path))

	loaded, err := LoadMatches(path)
	require.NoError(t, err)
	assert.Equal(t, matches, loaded)
}

func TestApplyRatings(t *testing.T) {
	d := rating.MatchDescriptor{
		Type:          rating.OneVOne,
		WinnerID:      "grom",
		AIOpponentIDs: []string{"bot"},
		Participants: []rating.Participant{
			{ID: "grom", Rating: 0},
			{ID: "newbie", Rating: 1111},
			{ID: "bot", Rating: 1100},
		},
	}
	records := map[string]PlayerRecord{
		"grom": {ID: "grom", Rating: 1416, GamesPlayed: 12},
		"bot":  {ID: "bot", Rating: 2000, GamesPlayed: 99},
	}

	ApplyRatings(&d, records)

	assert.Equal(t, 1416, d.Participants[0].Rating)
	require.NotNil(t, d.Participants[0].GamesPlayed)
	assert.Equal(t, 12, *d.Participants[0].GamesPlayed)

	assert.Equal(t, 1111, d.Participants[1].Rating)
	assert.Nil(t, d.Participants[1].GamesPlayed)

	assert.Equal(t, 1100, d.Participants[2].Rating)
	assert.Nil(t, d.Participants[2].GamesPlayed)
}

func TestApplyResults(t *testing.T) {
	records := map[string]PlayerRecord{
		"grom": {ID: "grom", Rating: 1200, GamesPlayed: 4},
	}
	deltas := []rating.RatingDelta{
		{ID: "grom", OldRating: 1200, NewRating: 1216, Change: 16},
		{ID: "jaina", OldRating: 1200, NewRating: 1184, Change: -16},
	}

	updated := ApplyResults(records, deltas)

	assert.Equal(t, []PlayerRecord{
		{ID: "grom", Rating: 1216, GamesPlayed: 5},
		{ID: "jaina", Rating: 1184, GamesPlayed: 1},
	}, updated)
	assert.Equal(t, 5, records["grom"].GamesPlayed)
	assert.Equal(t, 1184, records["jaina"].Rating)
}
