package rating

// calculateFFA rates a free-for-all as every ordered pair of players.
// Pairwise terms are summed as floats and rounded once in finalize;
// rounding per pair would bias the totals.
func (e *Engine) calculateFFA(d MatchDescriptor) ([]contribution, error) {
	n := len(d.Participants)
	if n < 3 {
		return nil, invalid(ReasonFFATooFewPlayers, "free-for-all needs at least 3 players, got %d", n)
	}

	ratings := make([]float64, n)
	for i, p := range d.Participants {
		r, err := e.effectiveRating(&d, p)
		if err != nil {
			return nil, err
		}
		ratings[i] = float64(r)
	}

	multiplier := e.ffaMultiplier(n)
	normalizer := float64(n - 1)

	out := make([]contribution, 0, n)
	for i, p := range d.Participants {
		if d.IsAI(p) {
			continue
		}

		k := e.KFactor(p.Rating, p.GamesPlayed)
		total := 0.0
		for j, q := range d.Participants {
			if i == j {
				continue
			}
			actual := 0.0
			if *p.Placement < *q.Placement {
				actual = 1.0
			}
			expected := ExpectedScore(ratings[i], ratings[j])
			total += float64(k) * (actual - expected) * multiplier / normalizer
		}

		out = append(out, contribution{participant: p, kFactor: k, raw: total})
	}
	return out, nil
}

// ffaMultiplier returns the damping for a player count
func (e *Engine) ffaMultiplier(players int) float64 {
	if m, ok := e.config.FFAMultipliers[players]; ok {
		return m
	}
	return e.config.FFADefaultMultiplier
}
