package rating

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeBatch(t *testing.T) {
	engine := createTestEngine(t)

	matches := make([]MatchDescriptor, 0, 40)
	for i := 0; i < 40; i++ {
		matches = append(matches, duel(
			Participant{ID: fmt.Sprintf("a%d", i), Rating: 1000 + i*10},
			Participant{ID: fmt.Sprintf("b%d", i), Rating: 1000 + i*10},
			fmt.Sprintf("a%d", i),
		))
	}

	t.Run("results keep input order", func(t *testing.T) {
		results, err := ComputeBatch(context.Background(), engine, matches, 4)
		require.NoError(t, err)
		require.Len(t, results, len(matches))

		for i, deltas := range results {
			require.Len(t, deltas, 2)
			assert.Equal(t, fmt.Sprintf("a%d", i), deltas[0].ID)
			sequential, err := engine.ComputeDelta(matches[i])
			require.NoError(t, err)
			assert.Equal(t, sequential, deltas)
		}
	})

	t.Run("zero workers still runs", func(t *testing.T) {
		results, err := ComputeBatch(context.Background(), engine, matches[:3], 0)
		require.NoError(t, err)
		assert.Len(t, results, 3)
	})

	t.Run("invalid match fails the batch", func(t *testing.T) {
		broken := append([]MatchDescriptor{}, matches[:5]...)
		broken[3] = MatchDescriptor{ID: "bad", Type: FFA, Participants: []Participant{{ID: "x"}}}

		results, err := ComputeBatch(context.Background(), engine, broken, 2)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, ReasonFFATooFewPlayers, ReasonOf(err))
		assert.Contains(t, err.Error(), "match 3 (bad)")
		assert.Nil(t, results)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		results, err := ComputeBatch(ctx, engine, matches, 4)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, results)
	})
}
