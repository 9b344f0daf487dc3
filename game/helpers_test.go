package game

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func mustCard(t testing.TB, name string) *Card {
	t.Helper()
	card, err := CardByName(name)
	require.NoError(t, err)
	return card
}

func mustParse(t testing.TB, board string, red, blue [2]string, neutral string, turn Side) *State {
	t.Helper()
	s, err := ParseState(board, red, blue, neutral, turn)
	require.NoError(t, err)
	return s
}

// randomPositions plays up to maxPlies random legal moves from random deals
// and collects every position visited.
func randomPositions(seed uint64, games, maxPlies int) []*State {
	rng := rand.New(rand.NewSource(seed))
	var states []*State
	for g := 0; g < games; g++ {
		s := NewRandomState(rng)
		states = append(states, s.Copy())
		plies := rng.Intn(maxPlies + 1)
		for i := 0; i < plies && s.Winner() == NoWinner; i++ {
			moves := s.LegalMoves()
			s.Apply(moves[rng.Intn(len(moves))])
			states = append(states, s.Copy())
		}
	}
	return states
}

func cardSet(s *State) map[*Card]int {
	set := map[*Card]int{s.Neutral: 1}
	for _, side := range []Side{Red, Blue} {
		for _, c := range s.Hands[side] {
			set[c]++
		}
	}
	return set
}
