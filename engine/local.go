package engine

import (
	"context"
	"onitama/experiments/metrics"
	"onitama/game"
	"onitama/meta"
	"onitama/searcher/agent"
	"time"

	"github.com/rs/zerolog/log"
)

type Engine struct {
	State    *game.State
	Agents   [2]agent.Agent // Indexed by game.Side
	MaxTurns int
	History  []game.Move
}

// LocalEngine pits red against blue from state. A game that reaches maxTurns
// moves without a winner is a draw; maxTurns <= 0 uses meta.MAX_TURNS.
func LocalEngine(red, blue agent.Agent, state *game.State, maxTurns int) *Engine {
	if red == nil || blue == nil {
		panic("need two agents")
	}
	if maxTurns <= 0 {
		maxTurns = meta.MAX_TURNS
	}
	return &Engine{
		State:    state.Copy(),
		Agents:   [2]agent.Agent{game.Red: red, game.Blue: blue},
		MaxTurns: maxTurns,
	}
}

var _ Runner = (*Engine)(nil)

// Run executes the entire game loop until a winner is found or the move
// ceiling is reached. Cancelling ctx stops the game between turns without a
// winner; a search already in progress still runs to its budget.
func (e *Engine) Run(ctx context.Context) (game.Result, metrics.GameMetric, []metrics.MoveMetric) {
	gameMetric := metrics.GameMetric{
		StartingPlayer: e.State.Turn,
		StartTime:      time.Now(),
	}
	log.Info().Msgf("%s is starting", e.State.Player())

	var moveMetrics []metrics.MoveMetric
	turnCount := 1
	for e.State.Winner() == game.NoWinner && turnCount <= e.MaxTurns {
		if err := ctx.Err(); err != nil {
			log.Info().Err(err).Msgf("game interrupted after %d moves", len(e.History))
			break
		}
		side := e.State.Turn
		move, searchMetric := e.Agents[side].FindMove(e.State)

		next, err := e.State.PlayChecked(move)
		if err != nil {
			// Keep the game going with the first legal move
			log.Warn().Err(err).Msgf("%s agent returned an illegal move", side)
			move = e.State.LegalMoves()[0]
			next = e.State.Play(move)
		}
		log.Debug().
			Int("turn", turnCount).
			Str("player", side.String()).
			Str("move", move.String()).
			Float64("score", searchMetric.Score).
			Int("depth", searchMetric.Depth).
			Msg("turn")

		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         turnCount,
			Player:       side,
			Move:         move.String(),
			SearchMetric: searchMetric,
		})
		e.History = append(e.History, move)
		e.State = next
		turnCount++
	}

	winner := e.State.Winner()
	if winner != game.NoWinner {
		log.Info().Msgf("game ended with winner %s after %d moves", winner, len(e.History))
	} else {
		log.Info().Msgf("stopped after %d moves without a winner", len(e.History))
	}

	gameMetric.Winner = winner
	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = len(e.History)
	return winner, gameMetric, moveMetrics
}
