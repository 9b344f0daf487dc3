package metrics

import (
	"encoding/csv"
	"fmt"
	"onitama/game"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
)

type AgentConfig struct {
	ID         int
	Mode       game.EvalMode
	ThinkTime  time.Duration
	DepthLimit int
}

type GameRecord struct {
	ID   uuid.UUID
	Red  int // AgentConfig.ID
	Blue int // AgentConfig.ID
	GameMetric
}

type MoveRecord struct {
	Game uuid.UUID // GameRecord.ID
	MoveMetric
}

type Writer struct {
	baseDir string
}

// NewWriter creates baseDir/name/<timestamp> to hold one experiment's records.
func NewWriter(baseDir, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	dir := filepath.Join(baseDir, name, timestamp)
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: dir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	header := []string{"id", "eval_mode", "think_time", "depth_limit"}
	return w.write("agent_configs.csv", header, len(configs), func(i int) []string {
		config := configs[i]
		return []string{
			strconv.Itoa(config.ID),
			config.Mode.String(),
			config.ThinkTime.String(),
			strconv.Itoa(config.DepthLimit),
		}
	})
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{"id", "red", "blue", "starting_player", "winner", "start_time", "end_time", "duration", "total_moves"}
	return w.write("game_records.csv", header, len(records), func(i int) []string {
		record := records[i]
		return []string{
			record.ID.String(),
			strconv.Itoa(record.Red),
			strconv.Itoa(record.Blue),
			record.StartingPlayer.String(),
			record.Winner.String(),
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
			strconv.Itoa(record.TotalMoves),
		}
	})
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	header := []string{"game", "step", "player", "move", "score", "depth", "iterations", "nodes", "cache_hits", "cache_size", "duration"}
	return w.write("move_records.csv", header, len(records), func(i int) []string {
		record := records[i]
		return []string{
			record.Game.String(),
			strconv.Itoa(record.Step),
			record.Player.String(),
			record.Move,
			strconv.FormatFloat(record.Score, 'f', -1, 64),
			strconv.Itoa(record.Depth),
			strconv.Itoa(record.Iterations),
			strconv.Itoa(record.Nodes),
			strconv.Itoa(record.CacheHits),
			strconv.Itoa(record.CacheSize),
			record.Duration.String(),
		}
	})
}

func (w *Writer) write(file string, header []string, rows int, row func(i int) []string) error {
	path := filepath.Join(w.baseDir, file)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", file, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write %s header: %w", file, err)
	}
	for i := 0; i < rows; i++ {
		err = writer.Write(row(i))
		if err != nil {
			return fmt.Errorf("failed to write %s row: %w", file, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
