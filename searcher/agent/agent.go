package agent

import (
	"onitama/experiments/metrics"
	"onitama/game"
)

type Agent interface {
	// FindMove returns a legal move for the side to move and performance
	// metrics (if collected) from the search
	FindMove(state *game.State) (game.Move, metrics.SearchMetric)
}
