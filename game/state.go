package game

import (
	"fmt"
	"math/bits"

	"golang.org/x/exp/rand"
	"lukechampine.com/frand"
)

// Starting formation: each side has four pawns flanking a king on its back row.
const (
	redKingStart  Bitboard = 0b00100 << 20
	redPawnStart  Bitboard = 0b11011 << 20
	blueKingStart Bitboard = 0b00100
	bluePawnStart Bitboard = 0b11011
)

// streamTargets[side] is the square side's king must reach to win by the Way
// of the Stream: the centre of the opponent's back row.
var streamTargets = [2]Bitboard{Red: blueKingStart, Blue: redKingStart}

// State represents a position: piece placement, the cards each side holds,
// the neutral card and the side to move. A State is a plain value; copying it
// copies everything (cards are shared immutable catalog entries).
type State struct {
	Kings   [2]Bitboard // Indexed by Side, at most one bit each
	Pawns   [2]Bitboard // Indexed by Side
	Hands   [2][2]*Card // Cards held by each side
	Neutral *Card       // The fifth card, held by neither side
	Turn    Side        // The side to move
}

// NewState returns the starting formation with the given cards.
func NewState(red, blue [2]*Card, neutral *Card, starting Side) *State {
	return &State{
		Kings:   [2]Bitboard{Red: redKingStart, Blue: blueKingStart},
		Pawns:   [2]Bitboard{Red: redPawnStart, Blue: bluePawnStart},
		Hands:   [2][2]*Card{Red: red, Blue: blue},
		Neutral: neutral,
		Turn:    starting,
	}
}

// NewRandomState deals five distinct cards with rng. The neutral card decides
// who moves first.
func NewRandomState(rng *rand.Rand) *State {
	perm := rng.Perm(len(catalog))
	red := [2]*Card{catalog[perm[0]], catalog[perm[1]]}
	blue := [2]*Card{catalog[perm[2]], catalog[perm[3]]}
	neutral := catalog[perm[4]]
	return NewState(red, blue, neutral, neutral.StartingSide)
}

// NewGame deals a fresh random game.
func NewGame() *State {
	return NewRandomState(rand.New(rand.NewSource(frand.Uint64n(1 << 63))))
}

// Copy returns an independent copy of the state.
func (s *State) Copy() *State {
	c := *s
	return &c
}

// Player returns the name of the side to move.
func (s *State) Player() string {
	return s.Turn.String()
}

func (s *State) pieces(side Side) Bitboard {
	return s.Kings[side] | s.Pawns[side]
}

func (s *State) occupied() Bitboard {
	return s.pieces(Red) | s.pieces(Blue)
}

// LegalMoves returns all legal moves for the side to move, ordered by origin
// square, then card in holding order, then destination square. When no piece
// can move the side must still swap a card, so one pass per held card is
// returned instead.
func (s *State) LegalMoves() []Move {
	side := s.Turn
	own := s.pieces(side)
	moves := make([]Move, 0, 16)
	for _, start := range own.Squares() {
		for _, card := range s.Hands[side] {
			dests := card.Moves(side, start) &^ own
			for dests != 0 {
				end := bits.TrailingZeros32(uint32(dests))
				dests &= dests - 1
				moves = append(moves, Move{Start: start, End: end, Card: card})
			}
		}
	}
	if len(moves) == 0 {
		for _, card := range s.Hands[side] {
			moves = append(moves, PassMove(card))
		}
	}
	return moves
}

// IsLegal reports whether move is one of LegalMoves.
func (s *State) IsLegal(move Move) bool {
	for _, m := range s.LegalMoves() {
		if m == move {
			return true
		}
	}
	return false
}

func (s *State) handSlot(side Side, card *Card) int {
	for i, held := range s.Hands[side] {
		if held == card {
			return i
		}
	}
	return -1
}

// canMove reports whether any of side's pieces has a destination under either
// held card.
func (s *State) canMove(side Side) bool {
	own := s.pieces(side)
	for _, start := range own.Squares() {
		for _, card := range s.Hands[side] {
			if card.Moves(side, start)&^own != 0 {
				return true
			}
		}
	}
	return false
}

// Apply plays move in place: captures whatever stands on the destination,
// moves the piece, swaps the played card with the neutral card and passes the
// turn. Moves the rules do not allow panic.
func (s *State) Apply(move Move) {
	side, opponent := s.Turn, s.Turn.Opponent()
	slot := s.handSlot(side, move.Card)
	if slot < 0 {
		panic(fmt.Sprintf("card %v is not held by %s", move.Card, side))
	}

	if move.IsPass() {
		if s.canMove(side) {
			panic(fmt.Sprintf("%s cannot pass with piece moves available", side))
		}
	} else {
		if move.Start < 0 || move.Start >= NumSquares || move.End < 0 || move.End >= NumSquares {
			panic(fmt.Sprintf("move %d->%d is off the board", move.Start, move.End))
		}
		from, to := SquareMask(move.Start), SquareMask(move.End)
		if move.Card.Moves(side, move.Start)&to == 0 {
			panic(fmt.Sprintf("move %s is not offered by the card", move))
		}
		if s.pieces(side)&to != 0 {
			panic(fmt.Sprintf("move %s lands on a %s piece", move, side))
		}
		// Capture
		s.Pawns[opponent] &^= to
		s.Kings[opponent] &^= to

		switch {
		case s.Pawns[side]&from != 0:
			s.Pawns[side] = s.Pawns[side]&^from | to
		case s.Kings[side]&from != 0:
			s.Kings[side] = s.Kings[side]&^from | to
		default:
			panic(fmt.Sprintf("move %s starts on a square without a %s piece", move, side))
		}
	}

	s.Hands[side][slot], s.Neutral = s.Neutral, move.Card
	s.Turn = opponent
}

// Play returns a new state with move applied, leaving s untouched.
func (s *State) Play(move Move) *State {
	next := s.Copy()
	next.Apply(move)
	return next
}

// PlayChecked is Play for untrusted moves: it returns ErrIllegalMove instead
// of applying a move that is not in LegalMoves.
func (s *State) PlayChecked(move Move) (*State, error) {
	if move.Card == nil || !s.IsLegal(move) {
		return nil, fmt.Errorf("%w: %v for %s", ErrIllegalMove, move, s.Turn)
	}
	return s.Play(move), nil
}

// Winner checks both victory conditions for both sides. The Way of the Stone
// (a side's king was captured) and the Way of the Stream (a side's king stands
// on the opponent's back row centre) are checked in that order, Red first.
func (s *State) Winner() Result {
	for _, side := range []Side{Red, Blue} {
		if s.Kings[side] == 0 {
			return resultFor(side.Opponent())
		}
		if s.Kings[side] == streamTargets[side] {
			return resultFor(side)
		}
	}
	return NoWinner
}

// Validate checks the structural invariants: at most one king per side, no
// square claimed twice and five distinct cards.
func (s *State) Validate() error {
	for _, side := range []Side{Red, Blue} {
		if s.Kings[side].Count() > 1 {
			return fmt.Errorf("%s has %d kings", side, s.Kings[side].Count())
		}
		if s.Kings[side]&s.Pawns[side] != 0 {
			return fmt.Errorf("%s king and pawn share a square", side)
		}
		if (s.Kings[side]|s.Pawns[side])&^fullBoard != 0 {
			return fmt.Errorf("%s pieces lie off the board", side)
		}
	}
	if s.pieces(Red)&s.pieces(Blue) != 0 {
		return fmt.Errorf("red and blue pieces share a square")
	}
	if s.Turn != Red && s.Turn != Blue {
		return fmt.Errorf("unknown side to move %d", s.Turn)
	}
	seen := make(map[*Card]bool, 5)
	for _, card := range []*Card{s.Hands[Red][0], s.Hands[Red][1], s.Hands[Blue][0], s.Hands[Blue][1], s.Neutral} {
		if card == nil {
			return fmt.Errorf("missing card")
		}
		if seen[card] {
			return fmt.Errorf("card %s is dealt twice", card.Name)
		}
		seen[card] = true
	}
	return nil
}
