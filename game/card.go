package game

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Card is a movement card. Offsets are written for Blue, for whom negative y
// is forward; Red uses them mirrored through the centre of the board.
type Card struct {
	Name         string
	Index        int  // position in the catalog, 4 bits in encodings
	StartingSide Side // side that moves first when this is the neutral card
	Offsets      []Point

	// moves[side][origin] is the set of destinations reachable from origin.
	moves [2][NumSquares]Bitboard
}

func newCard(name string, starting Side, offsets ...Point) *Card {
	c := &Card{Name: name, StartingSide: starting, Offsets: offsets}
	for _, side := range []Side{Red, Blue} {
		direction := 1
		if side == Red {
			direction = -1
		}
		for origin := 0; origin < NumSquares; origin++ {
			from := PointFromIndex(origin)
			var dests Bitboard
			for _, o := range offsets {
				to := Point{X: from.X + direction*o.X, Y: from.Y + direction*o.Y}
				if to.InBounds() {
					dests |= SquareMask(to.Index())
				}
			}
			c.moves[side][origin] = dests
		}
	}
	return c
}

// Moves returns the destinations this card offers side from the origin square.
func (c *Card) Moves(side Side, origin int) Bitboard {
	return c.moves[side][origin]
}

// String draws the card as seen by Blue, the piece at the centre marked O and
// its targets marked X.
func (c *Card) String() string {
	return c.Diagram(Blue)
}

// Diagram draws the card from side's point of view.
func (c *Card) Diagram(side Side) string {
	grid := [BoardHeight][BoardWidth]byte{}
	for y := range grid {
		for x := range grid[y] {
			grid[y][x] = '.'
		}
	}
	grid[BoardHeight/2][BoardWidth/2] = 'O'
	for _, o := range c.Offsets {
		if side == Red {
			o = Point{X: -o.X, Y: -o.Y}
		}
		grid[BoardHeight/2+o.Y][BoardWidth/2+o.X] = 'X'
	}
	rows := make([]string, BoardHeight)
	for y := range grid {
		rows[y] = string(grid[y][:])
	}
	return strings.Join(rows, "\n")
}

// The catalog is built once and never mutated; cards are shared by pointer.
var catalog = indexed([]*Card{
	// symmetrical
	newCard("tiger", Blue, Point{0, -2}, Point{0, 1}),
	newCard("dragon", Red, Point{-2, -1}, Point{2, -1}, Point{-1, 1}, Point{1, 1}),
	newCard("crab", Blue, Point{0, -1}, Point{-2, 0}, Point{2, 0}),
	newCard("elephant", Red, Point{-1, -1}, Point{1, -1}, Point{-1, 0}, Point{1, 0}),
	newCard("monkey", Blue, Point{-1, -1}, Point{1, -1}, Point{-1, 1}, Point{1, 1}),
	newCard("mantis", Red, Point{-1, -1}, Point{1, -1}, Point{0, 1}),
	newCard("crane", Blue, Point{0, -1}, Point{-1, 1}, Point{1, 1}),
	newCard("boar", Red, Point{0, -1}, Point{-1, 0}, Point{1, 0}),
	// left-leaning
	newCard("frog", Red, Point{-1, -1}, Point{-2, 0}, Point{1, 1}),
	newCard("goose", Blue, Point{-1, -1}, Point{-1, 0}, Point{1, 0}, Point{1, 1}),
	newCard("horse", Red, Point{0, -1}, Point{-1, 0}, Point{0, 1}),
	newCard("eel", Blue, Point{-1, -1}, Point{1, 0}, Point{-1, 1}),
	// right-leaning
	newCard("rabbit", Blue, Point{1, -1}, Point{2, 0}, Point{-1, 1}),
	newCard("rooster", Red, Point{1, -1}, Point{-1, 0}, Point{1, 0}, Point{-1, 1}),
	newCard("ox", Blue, Point{0, -1}, Point{1, 0}, Point{0, 1}),
	newCard("cobra", Red, Point{1, -1}, Point{-1, 0}, Point{1, 1}),
})

var cardsByName = lo.KeyBy(catalog, func(c *Card) string { return c.Name })

func indexed(cards []*Card) []*Card {
	for i, c := range cards {
		c.Index = i
	}
	return cards
}

// NumCards is the size of the catalog.
const NumCards = 16

// Cards returns the full catalog in index order.
func Cards() []*Card {
	return append([]*Card(nil), catalog...)
}

func CardNames() []string {
	return lo.Map(catalog, func(c *Card, _ int) string { return c.Name })
}

func CardByName(name string) (*Card, error) {
	c, ok := cardsByName[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCard, name)
	}
	return c, nil
}

func CardByIndex(index int) (*Card, error) {
	if index < 0 || index >= len(catalog) {
		return nil, fmt.Errorf("%w: index %d", ErrUnknownCard, index)
	}
	return catalog[index], nil
}
