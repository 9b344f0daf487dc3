package game

import "errors"

// Side identifies one of the two players. Red starts on the top row and
// moves down the board, Blue starts on the bottom row and moves up.
type Side uint8

const (
	Red Side = iota
	Blue
)

// sideCodes maps each Side to its numeric encoding at serialization boundaries.
var sideCodes = [2]uint64{Red: 0, Blue: 1}

func (s Side) Opponent() Side {
	return 1 - s
}

func (s Side) String() string {
	if s == Red {
		return "red"
	}
	return "blue"
}

// Result is the outcome of a position. Its sign matches the evaluation
// perspective: Blue positive, Red negative.
type Result int8

const (
	RedWins  Result = -1
	NoWinner Result = 0
	BlueWins Result = 1
)

func resultFor(winner Side) Result {
	if winner == Red {
		return RedWins
	}
	return BlueWins
}

// Side returns the winning side. ok is false when there is no winner yet.
func (r Result) Side() (side Side, ok bool) {
	switch r {
	case RedWins:
		return Red, true
	case BlueWins:
		return Blue, true
	}
	return Red, false
}

func (r Result) String() string {
	switch r {
	case RedWins:
		return "red"
	case BlueWins:
		return "blue"
	}
	return "draw"
}

// WinScore is the evaluation of a won position. It dominates any material or
// positional score reachable on a 5x5 board.
const WinScore = 50.0

var (
	ErrUnknownCard     = errors.New("unknown card")
	ErrMalformedBoard  = errors.New("malformed board")
	ErrInvalidSquare   = errors.New("invalid square")
	ErrInvalidEncoding = errors.New("invalid state encoding")
	ErrIllegalMove     = errors.New("illegal move")
)
