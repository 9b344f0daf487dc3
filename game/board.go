package game

import (
	"fmt"
	"math/bits"
)

const (
	BoardWidth  = 5
	BoardHeight = 5
	NumSquares  = BoardWidth * BoardHeight
)

// Point is a board coordinate, x going right and y going down. The top row
// (y=0) is row 5 in algebraic notation.
type Point struct {
	X int
	Y int
}

func (p Point) InBounds() bool {
	return p.X >= 0 && p.X < BoardWidth && p.Y >= 0 && p.Y < BoardHeight
}

// Index returns the bit index of p. Indices run from the bottom right square
// (0) leftward then upward to the top left square (24).
func (p Point) Index() int {
	return (BoardHeight-1-p.Y)*BoardWidth + (BoardWidth - 1 - p.X)
}

func PointFromIndex(index int) Point {
	return Point{
		X: BoardWidth - 1 - index%BoardWidth,
		Y: BoardHeight - 1 - index/BoardWidth,
	}
}

// Mirror reflects p through the centre of the board.
func (p Point) Mirror() Point {
	return Point{X: BoardWidth - 1 - p.X, Y: BoardHeight - 1 - p.Y}
}

// String returns p in algebraic notation, e.g. "c1".
func (p Point) String() string {
	return fmt.Sprintf("%c%d", 'a'+p.X, BoardHeight-p.Y)
}

// ParseSquare parses algebraic notation ("a1".."e5").
func ParseSquare(s string) (Point, error) {
	if len(s) != 2 {
		return Point{}, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	p := Point{X: int(s[0] - 'a'), Y: BoardHeight - int(s[1]-'0')}
	if s[0] < 'a' || s[1] < '0' || s[1] > '9' || !p.InBounds() {
		return Point{}, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	return p, nil
}

// Bitboard is a set of squares, one bit per square index.
type Bitboard uint32

const fullBoard Bitboard = 1<<NumSquares - 1

func SquareMask(index int) Bitboard {
	return 1 << index
}

func (b Bitboard) Has(index int) bool {
	return b&SquareMask(index) != 0
}

func (b Bitboard) Count() int {
	return bits.OnesCount32(uint32(b))
}

// Squares lists the set square indices from low to high.
func (b Bitboard) Squares() []int {
	squares := make([]int, 0, b.Count())
	for b != 0 {
		squares = append(squares, bits.TrailingZeros32(uint32(b)))
		b &= b - 1
	}
	return squares
}

// Mirror reflects every square through the centre of the board.
func (b Bitboard) Mirror() Bitboard {
	return Bitboard(bits.Reverse32(uint32(b)) >> (32 - NumSquares))
}
