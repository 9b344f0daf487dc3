package game

import (
	"errors"
	"testing"

	"github.com/matryer/is"
)

func TestPointIndexRoundTrip(t *testing.T) {
	is := is.New(t)
	for i := 0; i < NumSquares; i++ {
		is.Equal(PointFromIndex(i).Index(), i)
	}
	for y := 0; y < BoardHeight; y++ {
		for x := 0; x < BoardWidth; x++ {
			p := Point{X: x, Y: y}
			is.Equal(PointFromIndex(p.Index()), p)
		}
	}
}

func TestIndexOrdering(t *testing.T) {
	is := is.New(t)
	is.Equal(Point{X: 4, Y: 4}.Index(), 0)  // bottom right
	is.Equal(Point{X: 3, Y: 4}.Index(), 1)  // leftward
	is.Equal(Point{X: 4, Y: 3}.Index(), 5)  // upward
	is.Equal(Point{X: 0, Y: 0}.Index(), 24) // top left
}

func TestAlgebraicNotation(t *testing.T) {
	is := is.New(t)
	is.Equal(Point{X: 0, Y: 0}.String(), "a5")
	is.Equal(Point{X: 2, Y: 4}.String(), "c1")
	is.Equal(Point{X: 4, Y: 2}.String(), "e3")

	for i := 0; i < NumSquares; i++ {
		p := PointFromIndex(i)
		parsed, err := ParseSquare(p.String())
		is.NoErr(err)
		is.Equal(parsed, p)
	}
}

func TestParseSquareRejectsGarbage(t *testing.T) {
	is := is.New(t)
	for _, s := range []string{"", "a", "f1", "a0", "a6", "A1", "1a", "a10", "`3"} {
		_, err := ParseSquare(s)
		is.True(errors.Is(err, ErrInvalidSquare))
	}
}

func TestBitboardMirror(t *testing.T) {
	is := is.New(t)
	for i := 0; i < NumSquares; i++ {
		mirrored := SquareMask(i).Mirror()
		is.Equal(mirrored, SquareMask(PointFromIndex(i).Mirror().Index()))
	}
	is.Equal(redKingStart.Mirror(), blueKingStart)
	is.Equal(redPawnStart.Mirror(), bluePawnStart)
}

func TestBitboardSquares(t *testing.T) {
	is := is.New(t)
	b := SquareMask(3) | SquareMask(0) | SquareMask(24)
	is.Equal(b.Squares(), []int{0, 3, 24})
	is.Equal(b.Count(), 3)
	is.True(b.Has(24))
	is.True(!b.Has(1))
}
