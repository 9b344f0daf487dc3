package game

import (
	"fmt"
	"math/big"
)

// Encoding is the canonical integer form of a State, 121 bits wide. From the
// most significant end it packs the side to move, Red's king and pawn masks,
// Blue's king and pawn masks, Red's two card indices, Blue's two card indices
// and the neutral card index. Each side's card pair is sorted, so the same
// position always encodes the same way regardless of holding order.
type Encoding struct {
	Hi uint64
	Lo uint64
}

const (
	turnBits     = 1
	encodingBits = turnBits + 4*NumSquares + 5*cardBits
)

func (e Encoding) push(width uint, v uint64) Encoding {
	e.Hi = e.Hi<<width | e.Lo>>(64-width)
	e.Lo = e.Lo<<width | v
	return e
}

func (e *Encoding) pop(width uint) uint64 {
	v := e.Lo & (1<<width - 1)
	e.Lo = e.Lo>>width | e.Hi<<(64-width)
	e.Hi >>= width
	return v
}

func sortedPair(hand [2]*Card) (uint64, uint64) {
	a, b := uint64(hand[0].Index), uint64(hand[1].Index)
	if a > b {
		return b, a
	}
	return a, b
}

// Encode returns the canonical encoding of s.
func (s *State) Encode() Encoding {
	e := Encoding{Lo: sideCodes[s.Turn]}
	for _, side := range []Side{Red, Blue} {
		e = e.push(NumSquares, uint64(s.Kings[side]))
		e = e.push(NumSquares, uint64(s.Pawns[side]))
	}
	for _, side := range []Side{Red, Blue} {
		first, second := sortedPair(s.Hands[side])
		e = e.push(cardBits, first)
		e = e.push(cardBits, second)
	}
	return e.push(cardBits, uint64(s.Neutral.Index))
}

// Decode rebuilds a State from its encoding. Encodings that do not describe a
// valid position are rejected with ErrInvalidEncoding.
func Decode(e Encoding) (*State, error) {
	s := &State{}
	var err error
	if s.Neutral, err = CardByIndex(int(e.pop(cardBits))); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	for _, side := range []Side{Blue, Red} {
		for slot := 1; slot >= 0; slot-- {
			if s.Hands[side][slot], err = CardByIndex(int(e.pop(cardBits))); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
			}
		}
	}
	for _, side := range []Side{Blue, Red} {
		s.Pawns[side] = Bitboard(e.pop(NumSquares))
		s.Kings[side] = Bitboard(e.pop(NumSquares))
	}
	turn := e.pop(turnBits)
	if e.Hi != 0 || e.Lo != 0 {
		return nil, fmt.Errorf("%w: wider than %d bits", ErrInvalidEncoding, encodingBits)
	}
	s.Turn = Red
	if turn == sideCodes[Blue] {
		s.Turn = Blue
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	return s, nil
}

// BigInt returns the encoding as a single integer.
func (e Encoding) BigInt() *big.Int {
	n := new(big.Int).SetUint64(e.Hi)
	n.Lsh(n, 64)
	return n.Or(n, new(big.Int).SetUint64(e.Lo))
}

func (e Encoding) String() string {
	return e.BigInt().String()
}

// ParseEncoding parses the decimal form produced by Encoding.String.
func ParseEncoding(s string) (Encoding, error) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok || n.Sign() < 0 || n.BitLen() > encodingBits {
		return Encoding{}, fmt.Errorf("%w: %q", ErrInvalidEncoding, s)
	}
	lo := new(big.Int).And(n, new(big.Int).SetUint64(^uint64(0)))
	return Encoding{Hi: new(big.Int).Rsh(n, 64).Uint64(), Lo: lo.Uint64()}, nil
}

// Serialize returns the decimal canonical encoding of s.
func (s *State) Serialize() string {
	return s.Encode().String()
}

// Deserialize parses and decodes a decimal canonical encoding.
func Deserialize(s string) (*State, error) {
	e, err := ParseEncoding(s)
	if err != nil {
		return nil, err
	}
	return Decode(e)
}
