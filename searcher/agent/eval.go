package agent

import (
	"onitama/experiments/metrics"
	"onitama/game"
	"onitama/searcher"
)

type evaluationAgent struct {
	searcher *searcher.Searcher
}

// NewEvaluationAgent returns an agent that plays the searcher's decision.
func NewEvaluationAgent(s *searcher.Searcher) Agent {
	return evaluationAgent{searcher: s}
}

func (a evaluationAgent) FindMove(state *game.State) (game.Move, metrics.SearchMetric) {
	decision, metric := a.searcher.FindMove(state)
	return decision.Move, metric
}
