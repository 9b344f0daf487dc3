package experiments

import (
	"context"
	"fmt"
	"onitama/engine"
	"onitama/experiments/metrics"
	"onitama/game"
	"onitama/meta"
	"onitama/searcher"
	"onitama/searcher/agent"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

type Settings struct {
	Games               int // Per match up
	ThinkTime           time.Duration
	DepthLimit          int
	MaxTurns            int
	CacheMemoryFraction float64
	OutputDir           string
	Parallelism         int // Concurrent games, defaults to the CPU count
}

// Tally counts one agent's results across an experiment.
type Tally struct {
	Wins   int
	Losses int
	Draws  int
}

type Results struct {
	Dir     string
	Games   []metrics.GameRecord
	Moves   []metrics.MoveRecord
	Tallies map[int]*Tally // By AgentConfig.ID
}

// RunBattleRoyale plays every evaluation mode against every other, each
// pairing from both sides.
func RunBattleRoyale(ctx context.Context, settings Settings) (*Results, error) {
	modes := []game.EvalMode{game.MaterialEval, game.PositionalEval, game.CombinedEval}
	configs := lo.Map(modes, func(mode game.EvalMode, i int) metrics.AgentConfig {
		return metrics.AgentConfig{ID: i, Mode: mode, ThinkTime: settings.ThinkTime, DepthLimit: settings.DepthLimit}
	})

	matchUps := [][2]metrics.AgentConfig{}
	for _, red := range configs {
		for _, blue := range configs {
			if red.ID != blue.ID {
				matchUps = append(matchUps, [2]metrics.AgentConfig{red, blue})
			}
		}
	}

	return runExperiment(ctx, "battle_royale", configs, matchUps, settings)
}

// RunThinkTimeExperiment pairs a baseline material agent against material
// agents given multiples of its think time.
func RunThinkTimeExperiment(ctx context.Context, settings Settings, multiples []int) (*Results, error) {
	baseline := metrics.AgentConfig{ID: 0, Mode: game.MaterialEval, ThinkTime: settings.ThinkTime, DepthLimit: settings.DepthLimit}
	configs := []metrics.AgentConfig{baseline}
	matchUps := [][2]metrics.AgentConfig{}
	for i, multiple := range multiples {
		config := baseline
		config.ID = i + 1
		config.ThinkTime = time.Duration(multiple) * settings.ThinkTime
		configs = append(configs, config)
		matchUps = append(matchUps, [2]metrics.AgentConfig{baseline, config}, [2]metrics.AgentConfig{config, baseline})
	}

	return runExperiment(ctx, "think_time", configs, matchUps, settings)
}

type gameResult struct {
	record metrics.GameRecord
	moves  []metrics.MoveMetric
}

func runExperiment(ctx context.Context, name string, configs []metrics.AgentConfig, matchUps [][2]metrics.AgentConfig, settings Settings) (*Results, error) {
	if settings.Games <= 0 {
		settings.Games = meta.GAMES
	}
	if settings.MaxTurns <= 0 {
		settings.MaxTurns = meta.MAX_TURNS
	}
	if settings.OutputDir == "" {
		settings.OutputDir = meta.OUTPUT_DIR
	}
	if settings.Parallelism <= 0 {
		settings.Parallelism = runtime.NumCPU()
	}

	log.Info().Msgf("starting %s experiment with %d match ups of %d games...", name, len(matchUps), settings.Games)

	// Each game owns its agents, so games run independently
	results := make([]gameResult, len(matchUps)*settings.Games)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(settings.Parallelism)
	for mi, matchUp := range matchUps {
		for i := 0; i < settings.Games; i++ {
			slot := mi*settings.Games + i
			red, blue := matchUp[0], matchUp[1]
			mi, i := mi, i
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				results[slot] = runGame(ctx, red, blue, settings)
				if err := ctx.Err(); err != nil {
					return err
				}
				log.Info().Msgf("completed match up %d of %d game %d with winner: %s",
					mi+1, len(matchUps), i+1, results[slot].record.Winner)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s experiment interrupted: %w", name, err)
	}

	log.Info().Msgf("completed %s experiment", name)

	res := &Results{Tallies: map[int]*Tally{}}
	for _, config := range configs {
		res.Tallies[config.ID] = &Tally{}
	}
	for _, result := range results {
		res.Games = append(res.Games, result.record)
		for _, mm := range result.moves {
			res.Moves = append(res.Moves, metrics.MoveRecord{Game: result.record.ID, MoveMetric: mm})
		}
		tally(res.Tallies, result.record)
	}

	writer, err := metrics.NewWriter(settings.OutputDir, name)
	if err != nil {
		return nil, err
	}
	res.Dir = writer.Dir()
	if err := writer.WriteAgentConfigs(configs); err != nil {
		return nil, fmt.Errorf("failed to store agent configs: %w", err)
	}
	if err := writer.WriteGameRecords(res.Games); err != nil {
		return nil, fmt.Errorf("failed to write game records: %w", err)
	}
	if err := writer.WriteMoveRecords(res.Moves); err != nil {
		return nil, fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Str("dir", res.Dir).Msg("stored experiment records")

	log.Info().Msg("results:\n" + Summary(configs, res.Tallies))
	return res, nil
}

func tally(tallies map[int]*Tally, record metrics.GameRecord) {
	switch record.Winner {
	case game.RedWins:
		tallies[record.Red].Wins++
		tallies[record.Blue].Losses++
	case game.BlueWins:
		tallies[record.Blue].Wins++
		tallies[record.Red].Losses++
	default:
		tallies[record.Red].Draws++
		tallies[record.Blue].Draws++
	}
}

// Summary renders one line per agent with its wins, losses and draws.
func Summary(configs []metrics.AgentConfig, tallies map[int]*Tally) string {
	configs = append([]metrics.AgentConfig(nil), configs...)
	sort.Slice(configs, func(i, j int) bool { return configs[i].ID < configs[j].ID })

	var b strings.Builder
	fmt.Fprintf(&b, "%-4s %-10s %-10s %5s %6s %5s\n", "id", "mode", "think", "wins", "losses", "draws")
	for _, config := range configs {
		t := tallies[config.ID]
		fmt.Fprintf(&b, "%-4d %-10s %-10s %5d %6d %5d\n", config.ID, config.Mode, config.ThinkTime, t.Wins, t.Losses, t.Draws)
	}
	return b.String()
}

// runGame executes a single game between two agents from a fresh deal
func runGame(ctx context.Context, red, blue metrics.AgentConfig, settings Settings) gameResult {
	e := engine.LocalEngine(
		agent.NewEvaluationAgent(createSearcher(red, settings)),
		agent.NewEvaluationAgent(createSearcher(blue, settings)),
		game.NewGame(),
		settings.MaxTurns,
	)
	_, gameMetric, moveMetrics := e.Run(ctx)

	return gameResult{
		record: metrics.GameRecord{
			ID:         uuid.New(),
			Red:        red.ID,
			Blue:       blue.ID,
			GameMetric: gameMetric,
		},
		moves: moveMetrics,
	}
}

func createSearcher(config metrics.AgentConfig, settings Settings) *searcher.Searcher {
	options := []searcher.Option{
		searcher.WithEvaluationMode(config.Mode),
		searcher.WithMetrics(),
	}
	if config.ThinkTime > 0 {
		options = append(options, searcher.WithDuration(config.ThinkTime))
	}
	if config.DepthLimit > 0 {
		options = append(options, searcher.WithDepthLimit(config.DepthLimit))
	}
	if settings.CacheMemoryFraction > 0 {
		options = append(options, searcher.WithCacheMemory(cacheFraction(settings)))
	}
	return searcher.NewSearcher(options...)
}

// cacheFraction is the share of memory one searcher may cache into. Each of
// the parallel games runs two searchers.
func cacheFraction(settings Settings) float64 {
	parallelism := max(settings.Parallelism, 1)
	return settings.CacheMemoryFraction / float64(2*parallelism)
}
