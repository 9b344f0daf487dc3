package metrics

import (
	"encoding/csv"
	"onitama/game"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriter(t *testing.T) {
	w, err := NewWriter(t.TempDir(), "battle_royale")
	require.NoError(t, err)

	require.NoError(t, w.WriteAgentConfigs([]AgentConfig{
		{ID: 0, Mode: game.MaterialEval, ThinkTime: time.Second},
		{ID: 1, Mode: game.CombinedEval, DepthLimit: 4},
	}))
	rows := readCSV(t, filepath.Join(w.Dir(), "agent_configs.csv"))
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"id", "eval_mode", "think_time", "depth_limit"}, rows[0])
	assert.Equal(t, []string{"1", "combined", "0s", "4"}, rows[2])

	id := uuid.New()
	require.NoError(t, w.WriteGameRecords([]GameRecord{
		{
			ID: id, Red: 0, Blue: 1,
			GameMetric: GameMetric{StartingPlayer: game.Blue, Winner: game.RedWins, TotalMoves: 17},
		},
		{
			ID: uuid.New(), Red: 1, Blue: 0,
			GameMetric: GameMetric{StartingPlayer: game.Red, Winner: game.NoWinner, TotalMoves: 100},
		},
	}))
	rows = readCSV(t, filepath.Join(w.Dir(), "game_records.csv"))
	require.Len(t, rows, 3)
	assert.Equal(t, id.String(), rows[1][0])
	assert.Equal(t, "blue", rows[1][3])
	assert.Equal(t, "red", rows[1][4])
	assert.Equal(t, "17", rows[1][8])
	assert.Equal(t, "draw", rows[2][4])

	require.NoError(t, w.WriteMoveRecords([]MoveRecord{{
		Game: id,
		MoveMetric: MoveMetric{
			Step: 1, Player: game.Blue, Move: "tiger c1 c3",
			SearchMetric: SearchMetric{Score: 1.5, Depth: 3, Nodes: 120},
		},
	}}))
	rows = readCSV(t, filepath.Join(w.Dir(), "move_records.csv"))
	require.Len(t, rows, 2)
	assert.Equal(t, []string{id.String(), "1", "blue", "tiger c1 c3", "1.5", "3", "0", "120", "0", "0", "0s"}, rows[1])
}

func TestCollector(t *testing.T) {
	c := NewCollector()
	c.Start(game.PositionalEval, time.Second, 5)
	c.AddNode()
	c.AddNode()
	c.AddCacheHit()
	c.AddIteration()
	m := c.Complete(-2, 1, 9)
	assert.Equal(t, game.PositionalEval, m.EvalMode)
	assert.Equal(t, 5, m.DepthLimit)
	assert.Equal(t, 2, m.Nodes)
	assert.Equal(t, 1, m.CacheHits)
	assert.Equal(t, 1, m.Iterations)
	assert.Equal(t, -2.0, m.Score)
	assert.Equal(t, 9, m.CacheSize)

	c.Start(game.MaterialEval, 0, 1)
	assert.Zero(t, c.Complete(0, 1, 0).Nodes)
}
