package main

import (
	"context"
	"errors"
	"fmt"
	"onitama/config"
	"onitama/engine"
	"onitama/experiments"
	"onitama/game"
	"onitama/searcher"
	"onitama/searcher/agent"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var cfg config.Config
	if err := cfg.Load(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		log.Fatal().Err(err).Msg("failed to load config")
	}
	zerolog.SetGlobalLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch cfg.Mode {
	case config.ModeTournament:
		runTournament(ctx, cfg)
	default:
		runMatch(ctx, cfg)
	}
}

func runMatch(ctx context.Context, cfg config.Config) {
	state := game.NewGame()
	if cfg.LoadState != "" {
		loaded, err := game.Deserialize(cfg.LoadState)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load state")
		}
		state = loaded
	}
	fmt.Println(state)

	red := agent.NewEvaluationAgent(createSearcher(cfg, cfg.RedMode))
	blue := agent.NewEvaluationAgent(createSearcher(cfg, cfg.BlueMode))
	e := engine.LocalEngine(red, blue, state, cfg.MaxTurns)
	winner, gameMetric, _ := e.Run(ctx)

	fmt.Println(e.State)
	for i, move := range e.History {
		fmt.Printf("%3d. %s\n", i+1, move)
	}
	if winner == game.NoWinner {
		fmt.Printf("draw after %d moves (%s)\n", gameMetric.TotalMoves, gameMetric.Duration)
		return
	}
	fmt.Printf("%s wins after %d moves (%s)\n", winner, gameMetric.TotalMoves, gameMetric.Duration)
}

func runTournament(ctx context.Context, cfg config.Config) {
	_, err := experiments.RunBattleRoyale(ctx, experiments.Settings{
		Games:               cfg.Games,
		ThinkTime:           cfg.ThinkTime,
		DepthLimit:          cfg.DepthLimit,
		MaxTurns:            cfg.MaxTurns,
		CacheMemoryFraction: cfg.CacheMemoryFraction,
		OutputDir:           cfg.OutputDir,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("tournament failed")
	}
}

func createSearcher(cfg config.Config, mode game.EvalMode) *searcher.Searcher {
	return searcher.NewSearcher(
		searcher.WithDuration(cfg.ThinkTime),
		searcher.WithDepthLimit(cfg.DepthLimit),
		searcher.WithEvaluationMode(mode),
		searcher.WithCacheMemory(cfg.CacheMemoryFraction),
		searcher.WithMetrics(),
	)
}
