package agent

import (
	"onitama/experiments/metrics"
	"onitama/game"

	"golang.org/x/exp/rand"
)

type randomAgent struct {
	rng *rand.Rand
}

// NewRandomAgent returns a baseline agent that plays uniformly random legal
// moves.
func NewRandomAgent(rng *rand.Rand) Agent {
	return randomAgent{rng: rng}
}

func (a randomAgent) FindMove(state *game.State) (game.Move, metrics.SearchMetric) {
	moves := state.LegalMoves()
	if len(moves) == 0 {
		panic("No legal moves")
	}
	move := moves[a.rng.Intn(len(moves))]
	return move, metrics.SearchMetric{Score: state.Play(move).Evaluate(game.MaterialEval)}
}
