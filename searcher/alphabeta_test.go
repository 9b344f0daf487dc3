package searcher

import (
	"onitama/game"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

// fullMinimax is plain minimax without pruning or caching.
func fullMinimax(s *game.State, depth int, evaluate game.Evaluate) float64 {
	if depth <= 0 || s.Winner() != game.NoWinner {
		return evaluate(s)
	}
	scores := lo.Map(s.LegalMoves(), func(m game.Move, _ int) float64 {
		return fullMinimax(s.Play(m), depth-1, evaluate)
	})
	if s.Turn == game.Blue {
		return lo.Max(scores)
	}
	return lo.Min(scores)
}

// midgameStates returns non-terminal positions reached by random play.
func midgameStates(seed uint64, n, maxPlies int) []*game.State {
	rng := rand.New(rand.NewSource(seed))
	states := make([]*game.State, 0, n)
	for len(states) < n {
		s := game.NewRandomState(rng)
		plies := rng.Intn(maxPlies + 1)
		for i := 0; i < plies && s.Winner() == game.NoWinner; i++ {
			moves := s.LegalMoves()
			s.Apply(moves[rng.Intn(len(moves))])
		}
		if s.Winner() == game.NoWinner {
			states = append(states, s)
		}
	}
	return states
}

func parse(t *testing.T, board string, red, blue [2]string, neutral string, turn game.Side) *game.State {
	t.Helper()
	s, err := game.ParseState(board, red, blue, neutral, turn)
	require.NoError(t, err)
	return s
}

func startState(t *testing.T) *game.State {
	return parse(t, "rrRrr\n.....\n.....\n.....\nbbBbb",
		[2]string{"dragon", "crab"}, [2]string{"tiger", "boar"}, "monkey", game.Blue)
}

func seeded(seed uint64) Option {
	return WithRand(rand.New(rand.NewSource(seed)))
}

func TestDepthOneMatchesOnePly(t *testing.T) {
	// Lone kings: blue has four moves.
	s := parse(t, "..R..\n.....\n.....\n.....\n..B..",
		[2]string{"monkey", "dragon"}, [2]string{"tiger", "crab"}, "boar", game.Blue)
	moves := s.LegalMoves()
	require.LessOrEqual(t, len(moves), 6)

	for _, mode := range []game.EvalMode{game.MaterialEval, game.PositionalEval, game.CombinedEval} {
		t.Run(mode.String(), func(t *testing.T) {
			scores := lo.Map(moves, func(m game.Move, _ int) float64 { return s.Play(m).Evaluate(mode) })
			d, _ := NewSearcher(WithDepthLimit(1), WithDuration(time.Minute), WithEvaluationMode(mode), seeded(1)).FindMove(s)

			assert.Equal(t, lo.Max(scores), d.Score)
			assert.Equal(t, 1, d.Depth)
			assert.Equal(t, d.Score, s.Play(d.Move).Evaluate(mode))
		})
	}
}

func TestDepthOneOnRandomPositions(t *testing.T) {
	for _, s := range midgameStates(2, 50, 20) {
		d, _ := NewSearcher(WithDepthLimit(1), seeded(2)).FindMove(s)
		require.Equal(t, fullMinimax(s, 1, game.EvaluateMaterial), d.Score, s.String())
		require.True(t, s.IsLegal(d.Move))
	}
}

func TestPruningMatchesFullMinimax(t *testing.T) {
	variants := map[string][]Option{
		"pruning and cache": {},
		"pruning only":      {WithCache(false)},
		"cache only":        {WithPruning(false)},
		"plain":             {WithPruning(false), WithCache(false)},
		"tiny cache":        {WithCacheLimit(8)},
	}
	states := midgameStates(3, 15, 16)
	for name, options := range variants {
		t.Run(name, func(t *testing.T) {
			for depth := 1; depth <= 3; depth++ {
				for i, s := range states {
					mode := game.EvalMode(i % 3)
					want := fullMinimax(s, depth, mode.Func())
					opts := append([]Option{WithDepthLimit(depth), WithEvaluationMode(mode), seeded(uint64(i))}, options...)
					d, _ := NewSearcher(opts...).FindMove(s)
					require.Equal(t, want, d.Score, "depth %d mode %s\n%s", depth, mode, s)
				}
			}
		})
	}
}

func TestPruningMatchesFullMinimaxAtDepthFour(t *testing.T) {
	// Sparse boards keep plain minimax cheap.
	boards := []string{
		"..R..\n.r...\n.....\n...b.\n..B..",
		"r.R..\n.....\n..b..\n.....\nB...b",
		".R...\n...r.\n.b...\n.....\n...B.",
	}
	for i, board := range boards {
		s := parse(t, board, [2]string{"monkey", "dragon"}, [2]string{"tiger", "crab"}, "boar", game.Side(i%2))
		want := fullMinimax(s, 4, game.EvaluateCombined)
		d, _ := NewSearcher(WithDepthLimit(4), WithEvaluationMode(game.CombinedEval), seeded(4)).FindMove(s)
		require.Equal(t, want, d.Score, board)
	}
}

func TestFindsWinInOne(t *testing.T) {
	board := "..R..\n..B..\n.....\n.....\n....."

	t.Run("blue", func(t *testing.T) {
		s := parse(t, board, [2]string{"monkey", "dragon"}, [2]string{"crab", "tiger"}, "boar", game.Blue)
		d, _ := NewSearcher(WithDepthLimit(4), seeded(5)).FindMove(s)
		assert.Equal(t, "crab c4 c5", d.Move.String())
		assert.Equal(t, game.WinScore, d.Score)
		assert.Equal(t, 1, d.Depth, "a proven win stops deepening")
	})
	t.Run("red", func(t *testing.T) {
		s := parse(t, board, [2]string{"crab", "tiger"}, [2]string{"monkey", "dragon"}, "boar", game.Red)
		d, _ := NewSearcher(WithDepthLimit(4), seeded(5)).FindMove(s)
		assert.Equal(t, "crab c5 c4", d.Move.String())
		assert.Equal(t, -game.WinScore, d.Score)
	})
}

func TestTiesAreBrokenRandomly(t *testing.T) {
	s := startState(t)
	chosen := map[game.Move]bool{}
	for seed := uint64(0); seed < 40; seed++ {
		d, _ := NewSearcher(WithDepthLimit(1), seeded(seed)).FindMove(s)
		require.Equal(t, 0.0, d.Score)
		chosen[d.Move] = true
	}
	assert.Greater(t, len(chosen), 1)

	first, _ := NewSearcher(WithDepthLimit(1), seeded(9)).FindMove(s)
	second, _ := NewSearcher(WithDepthLimit(1), seeded(9)).FindMove(s)
	assert.Equal(t, first.Move, second.Move)
}

func TestReportsDeepestIteration(t *testing.T) {
	d, m := NewSearcher(WithDepthLimit(3), WithMetrics(), seeded(6)).FindMove(startState(t))
	assert.Equal(t, 3, d.Depth)
	assert.Equal(t, 3, m.Iterations)
	assert.Equal(t, 3, m.Depth)
	assert.Equal(t, d.Score, m.Score)
	assert.Positive(t, m.Nodes)
	assert.Positive(t, m.CacheSize)
}

func TestDoesNotMutateCallerState(t *testing.T) {
	s := startState(t)
	before := *s
	NewSearcher(WithDepthLimit(3), seeded(7)).FindMove(s)
	assert.Equal(t, before, *s)
}

func TestTinyBudgetStillReturnsLegalMove(t *testing.T) {
	for _, s := range midgameStates(8, 10, 10) {
		d, _ := NewSearcher(WithDuration(time.Nanosecond), seeded(8)).FindMove(s)
		require.True(t, s.IsLegal(d.Move))
		require.GreaterOrEqual(t, d.Depth, 1)
	}
}

func TestStopsAtDeadline(t *testing.T) {
	start := time.Now()
	d, _ := NewSearcher(WithDuration(50*time.Millisecond), seeded(9)).FindMove(startState(t))
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.GreaterOrEqual(t, d.Depth, 1)
}

func TestInterruptedIterationKeepsEarlierRecords(t *testing.T) {
	root := startState(t)
	moves := root.LegalMoves()
	require.Equal(t, "tiger e1 e3", moves[0].String())
	require.Equal(t, "boar e1 e2", moves[1].String())

	// Red only holds the boar at the third ply below a boar root move, so
	// the depth-3 iteration finishes moves[0] and stalls inside moves[1].
	boar, err := game.CardByName("boar")
	require.NoError(t, err)
	const budget = 200 * time.Millisecond
	stalling := func(s *game.State) float64 {
		if s.Turn == game.Red && lo.Contains(s.Hands[game.Red][:], boar) {
			time.Sleep(budget + 100*time.Millisecond)
		}
		return game.EvaluateMaterial(s)
	}

	previous, _ := NewSearcher(WithDepthLimit(2), WithEvaluationFn(game.EvaluateMaterial)).deepen(root)
	records, _ := NewSearcher(WithDuration(budget), WithEvaluationFn(stalling), seeded(12)).deepen(root)
	require.Len(t, records, len(moves))

	assert.Equal(t, 3, records[0].depth)
	assert.Equal(t, fullMinimax(root.Play(moves[0]), 2, game.EvaluateMaterial), records[0].score)
	for i := 1; i < len(records); i++ {
		require.Equal(t, 2, records[i].depth, "move %s", records[i].move)
		require.Equal(t, previous[i].score, records[i].score, "move %s", records[i].move)
	}

	d, m := NewSearcher(WithDuration(budget), WithEvaluationFn(stalling), WithMetrics(), seeded(12)).FindMove(root)
	want := 2
	if d.Move == moves[0] {
		want = 3
	}
	assert.Equal(t, want, d.Depth)
	assert.Equal(t, 2, m.Iterations)
	assert.Equal(t, game.CustomEval, m.EvalMode)
}

func TestEvaluationModeIsReported(t *testing.T) {
	_, m := NewSearcher(WithDepthLimit(1), WithEvaluationMode(game.PositionalEval), WithMetrics()).FindMove(startState(t))
	assert.Equal(t, game.PositionalEval, m.EvalMode)

	_, m = NewSearcher(WithDepthLimit(1), WithEvaluationFn(game.EvaluatePosition), WithMetrics()).FindMove(startState(t))
	assert.Equal(t, game.CustomEval, m.EvalMode)

	_, m = NewSearcher(WithDepthLimit(1), WithEvaluationFn(game.EvaluatePosition), WithEvaluationMode(game.CombinedEval), WithMetrics()).FindMove(startState(t))
	assert.Equal(t, game.CombinedEval, m.EvalMode)
}

func TestPassOnlyRoot(t *testing.T) {
	s := parse(t, "Bbbbb\n.....\nR....\n.....\n.....",
		[2]string{"tiger", "dragon"}, [2]string{"crab", "boar"}, "monkey", game.Blue)
	d, _ := NewSearcher(WithDepthLimit(3), seeded(10)).FindMove(s)
	assert.True(t, d.Move.IsPass())
	assert.True(t, s.IsLegal(d.Move))
}

func TestNewSearcherNeedsABudget(t *testing.T) {
	assert.Panics(t, func() { NewSearcher() })
	assert.NotPanics(t, func() { NewSearcher(WithDepthLimit(1)) })
	assert.NotPanics(t, func() { NewSearcher(WithDuration(time.Millisecond)) })
}

func TestDecideMove(t *testing.T) {
	s := startState(t)
	move, score, depth := DecideMove(s, 2, 0, seeded(11))
	assert.True(t, s.IsLegal(move))
	assert.Equal(t, fullMinimax(s, 2, game.EvaluateMaterial), score)
	assert.Equal(t, 2, depth)
}
