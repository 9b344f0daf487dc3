package searcher

import (
	"onitama/experiments/metrics"
	"onitama/game"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// Decision is the move chosen by a search, its score and the depth of the
// evaluation that produced the score.
type Decision struct {
	Move  game.Move
	Score float64
	Depth int
}

// record is the latest completed evaluation of one root move.
type record struct {
	move  game.Move
	score float64
	depth int
}

// control bounds a single minimax call. It is passed by value so every
// recursion level owns its window.
type control struct {
	depth    int
	alpha    float64
	beta     float64
	deadline time.Time // zero means no deadline
}

func (c control) expired() bool {
	return !c.deadline.IsZero() && time.Now().After(c.deadline)
}

func (c control) child(alpha, beta float64) control {
	return control{depth: c.depth - 1, alpha: alpha, beta: beta, deadline: c.deadline}
}

// run holds the state of one FindMove call.
type run struct {
	evaluate game.Evaluate
	prune    bool
	cache    *cache // nil when caching is disabled
	metrics  metrics.Collector
}

// FindMove searches state with iterative deepening and returns the decision.
// state is never modified. The depth-1 iteration always completes, deeper
// iterations stop at the deadline and their unfinished evaluations are
// discarded.
func (s *Searcher) FindMove(state *game.State) (Decision, metrics.SearchMetric) {
	root := state.Copy()
	s.metrics.Start(s.mode, s.duration, s.depthLimit)
	records, r := s.deepen(root)

	d := s.choose(root.Turn, records)
	log.Debug().
		Str("player", root.Player()).
		Str("move", d.Move.String()).
		Float64("score", d.Score).
		Int("depth", d.Depth).
		Msg("decide-move")
	return d, s.metrics.Complete(d.Score, d.Depth, r.cacheSize())
}

// deepen runs the deepening iterations on root and returns the latest record
// of every root move.
func (s *Searcher) deepen(root *game.State) ([]record, *run) {
	moves := root.LegalMoves()
	if len(moves) == 0 {
		panic("No legal moves at the root")
	}

	start := time.Now()
	var deadline time.Time
	if s.duration > 0 {
		deadline = start.Add(s.duration)
	}
	maxDepth := s.depthLimit
	if maxDepth <= 0 {
		maxDepth = MaxDepth
	}

	r := &run{evaluate: s.evaluate, prune: s.prune, metrics: s.metrics}
	if s.useCache {
		r.cache = newCache(s.cacheLimit)
	}

	records := lo.Map(moves, func(m game.Move, _ int) record { return record{move: m} })
	for depth := 1; depth <= maxDepth; depth++ {
		c := control{depth: depth - 1, alpha: negInf, beta: posInf}
		if depth > 1 {
			c.deadline = deadline
			if c.expired() {
				break
			}
		}
		if !r.searchRoot(root, records, depth, c) {
			log.Debug().Int("depth", depth).Msg("iteration-interrupted")
			break
		}
		s.metrics.AddIteration()

		best := bestScore(root.Turn, records)
		log.Debug().
			Int("depth", depth).
			Float64("best", best).
			Dur("elapsed", time.Since(start)).
			Int("cache-size", r.cacheSize()).
			Msg("iteration-complete")
		if proven(root.Turn, best) {
			break
		}
	}
	return records, r
}

// searchRoot evaluates every root move with a full window to c.depth and
// overwrites its record. It reports false if the deadline cut it short.
func (r *run) searchRoot(root *game.State, records []record, depth int, c control) bool {
	for i := range records {
		if c.expired() {
			return false
		}
		score, ok := r.visit(root.Play(records[i].move), c)
		if !ok {
			return false
		}
		records[i].score = score
		records[i].depth = depth
	}
	return true
}

// visit consults the cache before running minimax on state.
func (r *run) visit(state *game.State, c control) (float64, bool) {
	r.metrics.AddNode()
	if r.cache == nil {
		return r.minimax(state, c)
	}

	key := cacheKey{depth: c.depth, enc: state.Encode()}
	if e, ok := r.cache.lookup(key); ok && e.usable(c.alpha, c.beta) {
		r.metrics.AddCacheHit()
		return e.score, true
	}
	score, ok := r.minimax(state, c)
	if !ok {
		return 0, false
	}
	b := exact
	if r.prune {
		b = classify(score, c.alpha, c.beta)
	}
	r.cache.store(key, cacheEntry{score: score, bound: b})
	return score, true
}

// minimax returns the fail-soft value of state within (c.alpha, c.beta).
// ok is false when the deadline passed before all children were searched.
func (r *run) minimax(state *game.State, c control) (float64, bool) {
	if c.depth <= 0 || state.Winner() != game.NoWinner {
		return r.evaluate(state), true
	}

	maximizing := state.Turn == game.Blue
	alpha, beta := c.alpha, c.beta
	best := posInf
	if maximizing {
		best = negInf
	}
	for _, move := range state.LegalMoves() {
		if c.expired() {
			return 0, false
		}
		score, ok := r.visit(state.Play(move), c.child(alpha, beta))
		if !ok {
			return 0, false
		}
		if maximizing {
			best = max(best, score)
			alpha = max(alpha, best)
		} else {
			best = min(best, score)
			beta = min(beta, best)
		}
		if r.prune && beta <= alpha {
			break
		}
	}
	return best, true
}

func (r *run) cacheSize() int {
	if r.cache == nil {
		return 0
	}
	return r.cache.size()
}

func bestScore(turn game.Side, records []record) float64 {
	if turn == game.Blue {
		return lo.MaxBy(records, func(a, b record) bool { return a.score > b.score }).score
	}
	return lo.MinBy(records, func(a, b record) bool { return a.score < b.score }).score
}

// proven reports whether score is a forced win for turn.
func proven(turn game.Side, score float64) bool {
	if turn == game.Blue {
		return score >= game.WinScore
	}
	return score <= -game.WinScore
}

// choose picks uniformly among the root moves sharing the best score.
func (s *Searcher) choose(turn game.Side, records []record) Decision {
	best := bestScore(turn, records)
	ties := lo.Filter(records, func(r record, _ int) bool { return r.score == best })
	pick := ties[s.rng.Intn(len(ties))]
	return Decision{Move: pick.move, Score: pick.score, Depth: pick.depth}
}
