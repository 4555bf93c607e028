package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	engine := createTestEngine(t)

	testCases := []struct {
		name     string
		match    MatchDescriptor
		expected Reason
	}{
		{
			name:     "no participants",
			match:    MatchDescriptor{Type: OneVOne},
			expected: ReasonNoParticipants,
		},
		{
			name:     "unknown match type",
			match:    MatchDescriptor{Type: "5v5v5", Participants: []Participant{{ID: "a"}, {ID: "b"}}},
			expected: ReasonUnknownMatchType,
		},
		{
			name:     "unknown match type without participants",
			match:    MatchDescriptor{Type: "koth"},
			expected: ReasonUnknownMatchType,
		},
		{
			name: "1v1 against unknown AI difficulty",
			match: MatchDescriptor{Type: OneVOne, WinnerID: "grom", Participants: []Participant{
				{ID: "grom"},
				{ID: "cpu", IsAI: true, AIDifficulty: "nightmare"},
			}},
			expected: ReasonUnknownAIDifficulty,
		},
		{
			name: "ffa with AI named in ai_opponents but no difficulty",
			match: MatchDescriptor{Type: FFA, AIOpponentIDs: []string{"cpu"}, Participants: []Participant{
				{ID: "a", Placement: intPtr(1)},
				{ID: "b", Placement: intPtr(2)},
				{ID: "cpu", Placement: intPtr(3)},
			}},
			expected: ReasonUnknownAIDifficulty,
		},
		{
			name:     "duplicate participant",
			match:    MatchDescriptor{Type: OneVOne, Participants: []Participant{{ID: "a"}, {ID: "a"}}, WinnerID: "a"},
			expected: ReasonDuplicateParticipant,
		},
		{
			name:     "1v1 with three players",
			match:    MatchDescriptor{Type: OneVOne, Participants: []Participant{{ID: "a"}, {ID: "b"}, {ID: "c"}}, WinnerID: "a"},
			expected: ReasonInvalidTeamSize,
		},
		{
			name:     "1v1 without winner",
			match:    MatchDescriptor{Type: OneVOne, Participants: []Participant{{ID: "a"}, {ID: "b"}}},
			expected: ReasonMissingWinner,
		},
		{
			name:     "1v1 winner not a participant",
			match:    MatchDescriptor{Type: OneVOne, Participants: []Participant{{ID: "a"}, {ID: "b"}}, WinnerID: "z"},
			expected: ReasonMissingWinner,
		},
		{
			name: "1v1 between two AIs",
			match: MatchDescriptor{Type: OneVOne, WinnerID: "a", Participants: []Participant{
				{ID: "a", IsAI: true, AIDifficulty: "easy"},
				{ID: "b", IsAI: true, AIDifficulty: "hard"},
			}},
			expected: ReasonNoHumanParticipants,
		},
		{
			name: "ffa with two players",
			match: MatchDescriptor{Type: FFA, Participants: []Participant{
				{ID: "a", Placement: intPtr(1)},
				{ID: "b", Placement: intPtr(2)},
			}},
			expected: ReasonFFATooFewPlayers,
		},
		{
			name: "ffa missing placement",
			match: MatchDescriptor{Type: FFA, Participants: []Participant{
				{ID: "a", Placement: intPtr(1)},
				{ID: "b"},
				{ID: "c", Placement: intPtr(3)},
			}},
			expected: ReasonMissingPlacement,
		},
		{
			name: "ffa shared placement",
			match: MatchDescriptor{Type: FFA, Participants: []Participant{
				{ID: "a", Placement: intPtr(1)},
				{ID: "b", Placement: intPtr(2)},
				{ID: "c", Placement: intPtr(2)},
			}},
			expected: ReasonDuplicatePlacement,
		},
		{
			name: "team missing assignment",
			match: MatchDescriptor{Type: TwoV2, WinningTeam: intPtr(1), Participants: []Participant{
				{ID: "a", Team: intPtr(1)},
				{ID: "b", Team: intPtr(1)},
				{ID: "c", Team: intPtr(2)},
				{ID: "d"},
			}},
			expected: ReasonMissingTeamAssignment,
		},
		{
			name: "team missing winning team",
			match: MatchDescriptor{Type: TwoV2, Participants: []Participant{
				{ID: "a", Team: intPtr(1)},
				{ID: "b", Team: intPtr(1)},
				{ID: "c", Team: intPtr(2)},
				{ID: "d", Team: intPtr(2)},
			}},
			expected: ReasonMissingWinner,
		},
		{
			name: "winning team without players",
			match: MatchDescriptor{Type: TwoV2, WinningTeam: intPtr(7), Participants: []Participant{
				{ID: "a", Team: intPtr(1)},
				{ID: "b", Team: intPtr(1)},
				{ID: "c", Team: intPtr(2)},
				{ID: "d", Team: intPtr(2)},
			}},
			expected: ReasonMissingWinner,
		},
		{
			name: "2v2 with uneven teams",
			match: MatchDescriptor{Type: TwoV2, WinningTeam: intPtr(1), Participants: []Participant{
				{ID: "a", Team: intPtr(1)},
				{ID: "b", Team: intPtr(2)},
				{ID: "c", Team: intPtr(2)},
				{ID: "d", Team: intPtr(2)},
			}},
			expected: ReasonInvalidTeamSize,
		},
		{
			name: "three teams",
			match: MatchDescriptor{Type: TeamGeneric, WinningTeam: intPtr(1), Participants: []Participant{
				{ID: "a", Team: intPtr(1)},
				{ID: "b", Team: intPtr(2)},
				{ID: "c", Team: intPtr(3)},
			}},
			expected: ReasonInvalidTeamSize,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := engine.Validate(tc.match)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, tc.expected, ReasonOf(err))

			// ComputeDelta fails the same way and returns nothing
			deltas, computeErr := engine.ComputeDelta(tc.match)
			assert.Nil(t, deltas)
			assert.Equal(t, tc.expected, ReasonOf(computeErr))
		})
	}
}

func TestValidateAcceptsWellFormedMatches(t *testing.T) {
	engine := createTestEngine(t)

	valid := []MatchDescriptor{
		duel(Participant{ID: "a"}, Participant{ID: "b"}, "b"),
		{Type: FFA, Participants: []Participant{
			{ID: "a", Placement: intPtr(3)},
			{ID: "b", Placement: intPtr(1)},
			{ID: "c", Placement: intPtr(2)},
		}},
		{Type: TeamGeneric, WinningTeam: intPtr(2), Participants: []Participant{
			{ID: "a", Team: intPtr(1)},
			{ID: "b", Team: intPtr(2)},
			{ID: "c", Team: intPtr(2)},
		}},
		{Type: ThreeV3, WinningTeam: intPtr(0), Participants: []Participant{
			{ID: "a", Team: intPtr(0)}, {ID: "b", Team: intPtr(0)}, {ID: "c", Team: intPtr(0)},
			{ID: "d", Team: intPtr(1)}, {ID: "e", Team: intPtr(1)}, {ID: "f", Team: intPtr(1)},
		}},
	}

	for _, d := range valid {
		assert.NoError(t, engine.Validate(d), "type %s", d.Type)
	}
}

func TestValidationErrorFormatting(t *testing.T) {
	err := &ValidationError{Reason: ReasonMissingWinner}
	assert.Equal(t, "invalid match descriptor: missing_winner", err.Error())

	err = &ValidationError{Reason: ReasonMissingWinner, Detail: "no winner declared"}
	assert.Equal(t, "invalid match descriptor: missing_winner: no winner declared", err.Error())

	assert.Equal(t, Reason(""), ReasonOf(assert.AnError))
}
