package engine

import (
	"context"
	"onitama/experiments/metrics"
	"onitama/game"
)

type Runner interface {
	// Run plays a game till there's a winner, the move ceiling is reached or
	// ctx is done
	Run(ctx context.Context) (winner game.Result, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric)
}
