package game

import "fmt"

// Evaluate scores a position from a fixed perspective: positive favors Blue,
// negative favors Red. Won positions score ±WinScore.
type Evaluate func(*State) float64

// EvalMode selects one of the static heuristics.
type EvalMode int

const (
	MaterialEval EvalMode = iota
	PositionalEval
	CombinedEval
)

// CustomEval marks a caller-supplied Evaluate that is none of the modes.
const CustomEval EvalMode = -1

func (m EvalMode) String() string {
	switch m {
	case MaterialEval:
		return "material"
	case PositionalEval:
		return "positional"
	case CombinedEval:
		return "combined"
	case CustomEval:
		return "custom"
	}
	return fmt.Sprintf("EvalMode(%d)", int(m))
}

// Func returns the evaluation function for the mode, defaulting to material.
func (m EvalMode) Func() Evaluate {
	switch m {
	case PositionalEval:
		return EvaluatePosition
	case CombinedEval:
		return EvaluateCombined
	}
	return EvaluateMaterial
}

const (
	pawnValue = 2
	kingValue = 4
)

// Concentric rings around the centre, in reading order.
var centreGrid = [BoardHeight][BoardWidth]int{
	{0, 1, 2, 1, 0},
	{1, 2, 3, 2, 1},
	{2, 3, 4, 3, 2},
	{1, 2, 3, 2, 1},
	{0, 1, 2, 1, 0},
}

// squareWeights is centreGrid laid out by square index.
var squareWeights = func() (w [NumSquares]int) {
	for i := range w {
		p := PointFromIndex(i)
		w[i] = centreGrid[p.Y][p.X]
	}
	return w
}()

// EvaluateMaterial counts 2 per pawn and 4 per king.
func EvaluateMaterial(s *State) float64 {
	if w := s.Winner(); w != NoWinner {
		return float64(w) * WinScore
	}
	return float64(s.materialScore())
}

// EvaluatePosition sums the centre weight of every piece's square.
func EvaluatePosition(s *State) float64 {
	if w := s.Winner(); w != NoWinner {
		return float64(w) * WinScore
	}
	return float64(s.positionScore())
}

// EvaluateCombined averages material and position.
func EvaluateCombined(s *State) float64 {
	if w := s.Winner(); w != NoWinner {
		return float64(w) * WinScore
	}
	return float64(s.materialScore()+s.positionScore()) / 2
}

// Evaluate scores s with the given mode.
func (s *State) Evaluate(mode EvalMode) float64 {
	return mode.Func()(s)
}

func (s *State) materialScore() int {
	blue := pawnValue*s.Pawns[Blue].Count() + kingValue*s.Kings[Blue].Count()
	red := pawnValue*s.Pawns[Red].Count() + kingValue*s.Kings[Red].Count()
	return blue - red
}

func (s *State) positionScore() int {
	score := 0
	for _, sq := range s.pieces(Blue).Squares() {
		score += squareWeights[sq]
	}
	for _, sq := range s.pieces(Red).Squares() {
		score -= squareWeights[sq]
	}
	return score
}
