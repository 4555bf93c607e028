package rating

import (
	"errors"
	"fmt"
)

// ErrValidation is matched by every *ValidationError via errors.Is
var ErrValidation = errors.New("invalid match descriptor")

// Reason is a machine-readable validation failure code
type Reason string

// Validation reason codes
const (
	ReasonUnknownMatchType      Reason = "unknown_match_type"
	ReasonFFATooFewPlayers      Reason = "ffa_too_few_players"
	ReasonMissingWinner         Reason = "missing_winner"
	ReasonMissingPlacement      Reason = "missing_placement"
	ReasonMissingTeamAssignment Reason = "missing_team_assignment"
	ReasonUnknownAIDifficulty   Reason = "unknown_ai_difficulty"
	ReasonNoParticipants        Reason = "no_participants"
	ReasonDuplicateParticipant  Reason = "duplicate_participant"
	ReasonDuplicatePlacement    Reason = "duplicate_placement"
	ReasonInvalidTeamSize       Reason = "invalid_team_size"
	ReasonNoHumanParticipants   Reason = "no_human_participants"
)

// ValidationError is returned when a match descriptor cannot be rated
type ValidationError struct {
	Reason Reason
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %s", ErrValidation, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrValidation, e.Reason, e.Detail)
}

// Is lets errors.Is(err, ErrValidation) match any validation error
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(reason Reason, format string, args ...any) error {
	return &ValidationError{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// ReasonOf extracts the reason code from err, or "" if err is not a validation error
func ReasonOf(err error) Reason {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Reason
	}
	return ""
}
