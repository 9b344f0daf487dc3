package metrics

import (
	"onitama/game"
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	EvalMode   game.EvalMode
	ThinkTime  time.Duration
	DepthLimit int
	Duration   time.Duration
	Depth      int     // Depth of the chosen move's evaluation
	Score      float64 // Score of the chosen move, positive favors blue
	Iterations int     // Completed deepening iterations
	Nodes      int
	CacheHits  int
	CacheSize  int
}

type MoveMetric struct {
	Step   int
	Player game.Side
	Move   string
	SearchMetric
}

type GameMetric struct {
	StartingPlayer game.Side
	Winner         game.Result
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

type Collector interface {
	Start(mode game.EvalMode, thinkTime time.Duration, depthLimit int)
	AddNode()
	AddCacheHit()
	AddIteration()
	Complete(score float64, depth, cacheSize int) SearchMetric
}

type collector struct {
	mode       game.EvalMode
	thinkTime  time.Duration
	depthLimit int
	startTime  time.Time
	iterations atomic.Int32
	nodes      atomic.Int64
	cacheHits  atomic.Int64
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(mode game.EvalMode, thinkTime time.Duration, depthLimit int) {
	m.startTime = time.Now()
	m.mode = mode
	m.thinkTime = thinkTime
	m.depthLimit = depthLimit
	m.iterations.Store(0)
	m.nodes.Store(0)
	m.cacheHits.Store(0)
}

func (m *collector) AddNode() {
	m.nodes.Add(1)
}

func (m *collector) AddCacheHit() {
	m.cacheHits.Add(1)
}

func (m *collector) AddIteration() {
	m.iterations.Add(1)
}

func (m *collector) Complete(score float64, depth, cacheSize int) SearchMetric {
	return SearchMetric{
		EvalMode:   m.mode,
		ThinkTime:  m.thinkTime,
		DepthLimit: m.depthLimit,
		Duration:   time.Since(m.startTime),
		Depth:      depth,
		Score:      score,
		Iterations: int(m.iterations.Load()),
		Nodes:      int(m.nodes.Load()),
		CacheHits:  int(m.cacheHits.Load()),
		CacheSize:  cacheSize,
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(mode game.EvalMode, thinkTime time.Duration, depthLimit int) {}
func (m *dummyCollector) AddNode()                                                          {}
func (m *dummyCollector) AddCacheHit()                                                      {}
func (m *dummyCollector) AddIteration()                                                     {}
func (m *dummyCollector) Complete(score float64, depth, cacheSize int) SearchMetric {
	return SearchMetric{Score: score, Depth: depth}
}
