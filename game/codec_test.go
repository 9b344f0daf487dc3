package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sameState(t *testing.T, want, got *State) {
	t.Helper()
	require.Equal(t, want.Kings, got.Kings)
	require.Equal(t, want.Pawns, got.Pawns)
	require.Equal(t, want.Turn, got.Turn)
	require.Same(t, want.Neutral, got.Neutral)
	for _, side := range []Side{Red, Blue} {
		require.ElementsMatch(t, want.Hands[side][:], got.Hands[side][:])
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	states := randomPositions(11, 250, 25)
	require.GreaterOrEqual(t, len(states), 1000)
	for _, s := range states[:1000] {
		decoded, err := Decode(s.Encode())
		require.NoError(t, err)
		sameState(t, s, decoded)
		require.Equal(t, s.Encode(), decoded.Encode())

		fromString, err := Deserialize(s.Serialize())
		require.NoError(t, err)
		sameState(t, s, fromString)
	}
}

func TestEncodingIgnoresHandOrder(t *testing.T) {
	s := startState(t)
	swapped := s.Copy()
	swapped.Hands[Red][0], swapped.Hands[Red][1] = swapped.Hands[Red][1], swapped.Hands[Red][0]
	swapped.Hands[Blue][0], swapped.Hands[Blue][1] = swapped.Hands[Blue][1], swapped.Hands[Blue][0]
	assert.Equal(t, s.Encode(), swapped.Encode())

	other := s.Copy()
	other.Turn = Red
	assert.NotEqual(t, s.Encode(), other.Encode())
}

func TestEncodingFitsInWidth(t *testing.T) {
	for _, s := range randomPositions(5, 50, 25) {
		assert.LessOrEqual(t, s.Encode().BigInt().BitLen(), encodingBits)
	}
}

func TestDecodeRejectsInvalidEncodings(t *testing.T) {
	t.Run("too wide", func(t *testing.T) {
		e := startState(t).Encode()
		e.Hi |= 1 << 62
		_, err := Decode(e)
		require.ErrorIs(t, err, ErrInvalidEncoding)
	})
	t.Run("overlapping pieces", func(t *testing.T) {
		s := startState(t)
		s.Pawns[Red] |= SquareMask(0)
		_, err := Decode(s.Encode())
		require.ErrorIs(t, err, ErrInvalidEncoding)
	})
	t.Run("repeated card", func(t *testing.T) {
		s := startState(t)
		s.Neutral = s.Hands[Red][0]
		_, err := Decode(s.Encode())
		require.ErrorIs(t, err, ErrInvalidEncoding)
	})
	t.Run("not a number", func(t *testing.T) {
		_, err := Deserialize("onitama")
		require.ErrorIs(t, err, ErrInvalidEncoding)
	})
	t.Run("negative", func(t *testing.T) {
		_, err := Deserialize("-5")
		require.ErrorIs(t, err, ErrInvalidEncoding)
	})
}
