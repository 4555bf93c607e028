package rating

// calculateDuel rates a 1v1 match. Each side uses its own K-factor, so the
// two deltas are only mirror images when the K-factors agree.
func (e *Engine) calculateDuel(d MatchDescriptor) ([]contribution, error) {
	a, b := d.Participants[0], d.Participants[1]

	if d.IsAI(a) {
		return e.calculateVersusAI(d, b, a)
	}
	if d.IsAI(b) {
		return e.calculateVersusAI(d, a, b)
	}

	actualA, actualB := 0.0, 1.0
	if d.WinnerID == a.ID {
		actualA, actualB = 1.0, 0.0
	}

	expectedA := ExpectedScore(float64(a.Rating), float64(b.Rating))
	expectedB := ExpectedScore(float64(b.Rating), float64(a.Rating))

	kA := e.KFactor(a.Rating, a.GamesPlayed)
	kB := e.KFactor(b.Rating, b.GamesPlayed)

	return []contribution{
		{participant: a, kFactor: kA, raw: float64(kA) * (actualA - expectedA)},
		{participant: b, kFactor: kB, raw: float64(kB) * (actualB - expectedB)},
	}, nil
}

// calculateVersusAI rates a human against a computer opponent whose rating
// comes from the difficulty table. Only the human receives a delta.
func (e *Engine) calculateVersusAI(d MatchDescriptor, human, ai Participant) ([]contribution, error) {
	aiRating, err := e.aiRating(ai)
	if err != nil {
		return nil, err
	}

	actual := 0.0
	if d.WinnerID == human.ID {
		actual = 1.0
	}

	k := e.KFactor(human.Rating, human.GamesPlayed)
	raw := float64(k) * (actual - ExpectedScore(float64(human.Rating), float64(aiRating)))

	if gainCap := e.config.AIGainCap; gainCap.Enabled && raw > float64(gainCap.MaxGain) {
		raw = float64(gainCap.MaxGain)
	}

	return []contribution{{participant: human, kFactor: k, raw: raw}}, nil
}
