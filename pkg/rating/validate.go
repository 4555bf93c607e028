package rating

// Validate checks that a descriptor is structurally consistent for its
// declared match type and that every AI difficulty is known. It never looks
// at ratings.
func (e *Engine) Validate(d MatchDescriptor) error {
	if d.Type != OneVOne && d.Type != FFA && !d.Type.IsTeam() {
		return invalid(ReasonUnknownMatchType, "%q", d.Type)
	}
	if len(d.Participants) == 0 {
		return invalid(ReasonNoParticipants, "match %q has no participants", d.ID)
	}

	seen := make(map[string]bool, len(d.Participants))
	humans := 0
	for _, p := range d.Participants {
		if seen[p.ID] {
			return invalid(ReasonDuplicateParticipant, "participant %q listed more than once", p.ID)
		}
		seen[p.ID] = true
		if !d.IsAI(p) {
			humans++
		}
	}

	switch {
	case d.Type == OneVOne:
		if err := validateDuel(d, seen); err != nil {
			return err
		}
	case d.Type == FFA:
		if err := validateFFA(d); err != nil {
			return err
		}
	case d.Type.IsTeam():
		if err := validateTeams(d); err != nil {
			return err
		}
	}

	for _, p := range d.Participants {
		if !d.IsAI(p) {
			continue
		}
		if _, err := e.aiRating(p); err != nil {
			return err
		}
	}

	if humans == 0 {
		return invalid(ReasonNoHumanParticipants, "match %q has only AI participants", d.ID)
	}
	return nil
}

func validateDuel(d MatchDescriptor, ids map[string]bool) error {
	if len(d.Participants) != 2 {
		return invalid(ReasonInvalidTeamSize, "1v1 needs exactly 2 participants, got %d", len(d.Participants))
	}
	if d.WinnerID == "" {
		return invalid(ReasonMissingWinner, "no winner declared")
	}
	if !ids[d.WinnerID] {
		return invalid(ReasonMissingWinner, "winner %q is not a participant", d.WinnerID)
	}
	return nil
}

func validateFFA(d MatchDescriptor) error {
	if len(d.Participants) < 3 {
		return invalid(ReasonFFATooFewPlayers, "free-for-all needs at least 3 players, got %d", len(d.Participants))
	}
	placements := make(map[int]string, len(d.Participants))
	for _, p := range d.Participants {
		if p.Placement == nil {
			return invalid(ReasonMissingPlacement, "participant %q has no placement", p.ID)
		}
		if other, ok := placements[*p.Placement]; ok {
			return invalid(ReasonDuplicatePlacement, "%q and %q share placement %d", other, p.ID, *p.Placement)
		}
		placements[*p.Placement] = p.ID
	}
	return nil
}

func validateTeams(d MatchDescriptor) error {
	sizes := make(map[int]int)
	for _, p := range d.Participants {
		if p.Team == nil {
			return invalid(ReasonMissingTeamAssignment, "participant %q has no team", p.ID)
		}
		sizes[*p.Team]++
	}
	if d.WinningTeam == nil {
		return invalid(ReasonMissingWinner, "no winning team declared")
	}
	if _, ok := sizes[*d.WinningTeam]; !ok {
		return invalid(ReasonMissingWinner, "winning team %d has no players", *d.WinningTeam)
	}
	if len(sizes) != 2 {
		return invalid(ReasonInvalidTeamSize, "team match needs exactly 2 teams, got %d", len(sizes))
	}
	if want := d.Type.teamSize(); want > 0 {
		for team, n := range sizes {
			if n != want {
				return invalid(ReasonInvalidTeamSize, "%s team %d has %d players", d.Type, team, n)
			}
		}
	}
	return nil
}
