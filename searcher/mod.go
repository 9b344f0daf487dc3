package searcher

import (
	"math"
	"onitama/experiments/metrics"
	"onitama/game"
	"time"

	"golang.org/x/exp/rand"
	"lukechampine.com/frand"
)

// MaxDepth bounds iterative deepening when no depth limit is given.
const MaxDepth = 64

var (
	posInf = math.Inf(1)
	negInf = math.Inf(-1)
)

type Option func(s *Searcher)

// Searcher picks moves by iterative-deepening alpha-beta minimax. Blue
// maximizes and Red minimizes the evaluation.
type Searcher struct {
	duration   time.Duration
	depthLimit int
	mode       game.EvalMode
	evaluate   game.Evaluate
	rng        *rand.Rand
	prune      bool
	useCache   bool
	cacheLimit int
	metrics    metrics.Collector
}

func WithDuration(duration time.Duration) Option {
	return func(s *Searcher) {
		if duration > 0 {
			s.duration = duration
		}
	}
}

func WithDepthLimit(depth int) Option {
	return func(s *Searcher) {
		if depth > 0 {
			s.depthLimit = depth
		}
	}
}

func WithEvaluationMode(mode game.EvalMode) Option {
	return func(s *Searcher) {
		s.mode = mode
		s.evaluate = mode.Func()
	}
}

func WithEvaluationFn(evaluate game.Evaluate) Option {
	return func(s *Searcher) {
		if evaluate != nil {
			s.mode = game.CustomEval
			s.evaluate = evaluate
		}
	}
}

// WithRand seeds the tie-break among equally scored root moves.
func WithRand(rng *rand.Rand) Option {
	return func(s *Searcher) {
		if rng != nil {
			s.rng = rng
		}
	}
}

func WithPruning(enabled bool) Option {
	return func(s *Searcher) {
		s.prune = enabled
	}
}

func WithCache(enabled bool) Option {
	return func(s *Searcher) {
		s.useCache = enabled
	}
}

// WithCacheLimit caps the number of transposition entries kept per search.
func WithCacheLimit(entries int) Option {
	return func(s *Searcher) {
		if entries > 0 {
			s.cacheLimit = entries
		}
	}
}

// WithCacheMemory sizes the transposition cache as a fraction of system memory.
func WithCacheMemory(fraction float64) Option {
	return func(s *Searcher) {
		if fraction > 0 {
			s.cacheLimit = cacheLimitFor(fraction)
		}
	}
}

func WithMetrics() Option {
	return func(s *Searcher) {
		s.metrics = metrics.NewCollector()
	}
}

func NewSearcher(options ...Option) *Searcher {
	s := &Searcher{ // Default values
		mode:     game.MaterialEval,
		evaluate: game.EvaluateMaterial,
		prune:    true,
		useCache: true,
		metrics:  metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(s)
	}
	if s.duration <= 0 && s.depthLimit <= 0 {
		panic("Must specify search duration or depth limit")
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(frand.Uint64n(1 << 63)))
	}
	if s.cacheLimit <= 0 {
		s.cacheLimit = cacheLimitFor(defaultCacheFraction)
	}
	return s
}

// DecideMove searches state for at most thinkTime and depthLimit plies (zero
// disables either bound) and returns the chosen move, its score and the depth
// it was evaluated at.
func DecideMove(state *game.State, depthLimit int, thinkTime time.Duration, options ...Option) (game.Move, float64, int) {
	options = append([]Option{WithDepthLimit(depthLimit), WithDuration(thinkTime)}, options...)
	d, _ := NewSearcher(options...).FindMove(state)
	return d.Move, d.Score, d.Depth
}
