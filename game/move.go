package game

import (
	"fmt"
	"strings"
)

// Move plays Card to take the piece on Start to End. A move with Start and
// End both 0 is a pass: the mover has no piece move and only swaps Card for
// the neutral card.
type Move struct {
	Start int
	End   int
	Card  *Card
}

func PassMove(card *Card) Move {
	return Move{Card: card}
}

func (m Move) IsPass() bool {
	return m.Start == 0 && m.End == 0
}

// String renders the move as "<card> <start> <end>", e.g. "tiger a5 a3".
// Passes render as "<card> pass".
func (m Move) String() string {
	if m.IsPass() {
		return m.Card.Name + " pass"
	}
	return fmt.Sprintf("%s %s %s", m.Card.Name, PointFromIndex(m.Start), PointFromIndex(m.End))
}

const (
	squareBits = 5
	cardBits   = 4
)

// Compact packs the move as start, end and card index into one integer.
func (m Move) Compact() uint16 {
	return uint16(m.Start)<<(squareBits+cardBits) | uint16(m.End)<<cardBits | uint16(m.Card.Index)
}

// MoveFromCompact reverses Compact.
func MoveFromCompact(compact uint16) (Move, error) {
	card, err := CardByIndex(int(compact & (1<<cardBits - 1)))
	if err != nil {
		return Move{}, err
	}
	end := int(compact>>cardBits) & (1<<squareBits - 1)
	start := int(compact >> (squareBits + cardBits))
	if start >= NumSquares || end >= NumSquares {
		return Move{}, fmt.Errorf("%w: compact move %d out of range", ErrIllegalMove, compact)
	}
	return Move{Start: start, End: end, Card: card}, nil
}

// ParseMove resolves notation such as "tiger a5 a3" or "crab pass" to one of
// the legal moves of s.
func ParseMove(s *State, notation string) (Move, error) {
	fields := strings.Fields(notation)
	if len(fields) < 2 || len(fields) > 3 {
		return Move{}, fmt.Errorf("%w: %q: want \"<card> <start> <end>\"", ErrIllegalMove, notation)
	}
	card, err := CardByName(fields[0])
	if err != nil {
		return Move{}, err
	}
	var move Move
	switch {
	case len(fields) == 2 && fields[1] == "pass":
		move = PassMove(card)
	case len(fields) == 3:
		start, err := ParseSquare(fields[1])
		if err != nil {
			return Move{}, err
		}
		end, err := ParseSquare(fields[2])
		if err != nil {
			return Move{}, err
		}
		move = Move{Start: start.Index(), End: end.Index(), Card: card}
	default:
		return Move{}, fmt.Errorf("%w: %q", ErrIllegalMove, notation)
	}
	if !s.IsLegal(move) {
		return Move{}, fmt.Errorf("%w: %s", ErrIllegalMove, move)
	}
	return move, nil
}
