package rating

import "fmt"

// teamSide groups the participants of one team
type teamSide struct {
	id      int
	members []Participant
	mean    float64
}

// calculateTeam rates a two-team match. Every player on a side shares the
// side's expected score but keeps their own K-factor.
func (e *Engine) calculateTeam(d MatchDescriptor) ([]contribution, error) {
	winners, losers, err := e.splitTeams(d)
	if err != nil {
		return nil, err
	}

	expectedWin := ExpectedScore(winners.mean, losers.mean)
	expectedLoss := ExpectedScore(losers.mean, winners.mean)

	multiplier := e.teamMultiplier(len(winners.members), len(losers.members)) *
		e.unevenMultiplier(len(winners.members), len(losers.members))

	byID := make(map[string]contribution, len(d.Participants))
	for _, p := range winners.members {
		k := e.KFactor(p.Rating, p.GamesPlayed)
		byID[p.ID] = contribution{participant: p, kFactor: k, raw: float64(k) * (1.0 - expectedWin) * multiplier}
	}
	for _, p := range losers.members {
		k := e.KFactor(p.Rating, p.GamesPlayed)
		byID[p.ID] = contribution{participant: p, kFactor: k, raw: float64(k) * (0.0 - expectedLoss) * multiplier}
	}

	out := make([]contribution, 0, len(byID))
	for _, p := range d.Participants {
		if d.IsAI(p) {
			continue
		}
		out = append(out, byID[p.ID])
	}
	return out, nil
}

// splitTeams separates winners from losers and computes each side's mean
// rating. AI members count at their difficulty rating.
func (e *Engine) splitTeams(d MatchDescriptor) (teamSide, teamSide, error) {
	winners := teamSide{id: *d.WinningTeam}
	losers := teamSide{id: -1}

	var winSum, loseSum float64
	for _, p := range d.Participants {
		r, err := e.effectiveRating(&d, p)
		if err != nil {
			return teamSide{}, teamSide{}, err
		}
		if *p.Team == winners.id {
			winners.members = append(winners.members, p)
			winSum += float64(r)
			continue
		}
		losers.id = *p.Team
		losers.members = append(losers.members, p)
		loseSum += float64(r)
	}

	if len(winners.members) == 0 || len(losers.members) == 0 {
		return teamSide{}, teamSide{}, invalid(ReasonInvalidTeamSize, "both teams need players")
	}

	winners.mean = winSum / float64(len(winners.members))
	losers.mean = loseSum / float64(len(losers.members))
	return winners, losers, nil
}

// teamMultiplier looks up damping by the exact "WvL" label. Unknown labels
// fall back to "NvN" where N is the larger side capped at 4.
func (e *Engine) teamMultiplier(winnerSize, loserSize int) float64 {
	if m, ok := e.config.TeamMultipliers[fmt.Sprintf("%dv%d", winnerSize, loserSize)]; ok {
		return m
	}
	n := max(winnerSize, loserSize)
	n = min(n, 4)
	if m, ok := e.config.TeamMultipliers[fmt.Sprintf("%dv%d", n, n)]; ok {
		return m
	}
	return 1.0
}

// unevenMultiplier scales the match when team sizes differ
func (e *Engine) unevenMultiplier(winnerSize, loserSize int) float64 {
	switch {
	case winnerSize < loserSize:
		return e.config.UnderdogBonus
	case winnerSize > loserSize:
		return e.config.FavoritePenalty
	default:
		return 1.0
	}
}
