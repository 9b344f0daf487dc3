package game

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

const (
	redKingChar  = 'R'
	redPawnChar  = 'r'
	blueKingChar = 'B'
	bluePawnChar = 'b'
	emptyChar    = '.'
)

// ParseState builds a position from a 5-line board using R/r for Red's king
// and pawns, B/b for Blue's and '.' for empty squares, plus explicit cards and
// the side to move.
func ParseState(board string, red, blue [2]string, neutral string, turn Side) (*State, error) {
	s := &State{Turn: turn}

	rows := strings.Split(strings.TrimSpace(board), "\n")
	if len(rows) != BoardHeight {
		return nil, fmt.Errorf("%w: %d rows, want %d", ErrMalformedBoard, len(rows), BoardHeight)
	}
	for y, row := range rows {
		row = strings.TrimSpace(row)
		if len(row) != BoardWidth {
			return nil, fmt.Errorf("%w: row %d is %q", ErrMalformedBoard, y+1, row)
		}
		for x := 0; x < BoardWidth; x++ {
			square := SquareMask(Point{X: x, Y: y}.Index())
			switch row[x] {
			case redKingChar:
				s.Kings[Red] |= square
			case redPawnChar:
				s.Pawns[Red] |= square
			case blueKingChar:
				s.Kings[Blue] |= square
			case bluePawnChar:
				s.Pawns[Blue] |= square
			case emptyChar:
			default:
				return nil, fmt.Errorf("%w: unexpected %q in row %d", ErrMalformedBoard, row[x], y+1)
			}
		}
	}

	names := []string{red[0], red[1], blue[0], blue[1], neutral}
	if dups := lo.FindDuplicates(lo.Map(names, func(n string, _ int) string { return strings.ToLower(n) })); len(dups) > 0 {
		return nil, fmt.Errorf("%w: card %q dealt twice", ErrMalformedBoard, dups[0])
	}
	cards := make([]*Card, len(names))
	for i, name := range names {
		card, err := CardByName(name)
		if err != nil {
			return nil, err
		}
		cards[i] = card
	}
	s.Hands[Red] = [2]*Card{cards[0], cards[1]}
	s.Hands[Blue] = [2]*Card{cards[2], cards[3]}
	s.Neutral = cards[4]

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBoard, err)
	}
	return s, nil
}

// Board returns the 5-line piece placement accepted by ParseState.
func (s *State) Board() string {
	rows := make([]string, BoardHeight)
	for y := 0; y < BoardHeight; y++ {
		var row [BoardWidth]byte
		for x := 0; x < BoardWidth; x++ {
			row[x] = s.pieceChar(Point{X: x, Y: y}.Index())
		}
		rows[y] = string(row[:])
	}
	return strings.Join(rows, "\n")
}

func (s *State) pieceChar(index int) byte {
	switch {
	case s.Kings[Red].Has(index):
		return redKingChar
	case s.Pawns[Red].Has(index):
		return redPawnChar
	case s.Kings[Blue].Has(index):
		return blueKingChar
	case s.Pawns[Blue].Has(index):
		return bluePawnChar
	}
	return emptyChar
}

func cardNames(hand [2]*Card) string {
	return hand[0].Name + " " + hand[1].Name
}

// String renders the board with algebraic borders followed by the cards.
func (s *State) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "current_player: %s\n", s.Turn)
	fmt.Fprintf(&b, "red_cards: %s\n", cardNames(s.Hands[Red]))
	b.WriteString("  abcde\n")
	for y, row := range strings.Split(s.Board(), "\n") {
		fmt.Fprintf(&b, "%d %s %d\n", BoardHeight-y, row, BoardHeight-y)
	}
	b.WriteString("  abcde\n")
	fmt.Fprintf(&b, "neutral_card: %s\n", s.Neutral.Name)
	fmt.Fprintf(&b, "blue_cards: %s", cardNames(s.Hands[Blue]))
	return b.String()
}
