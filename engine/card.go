// Package engine implements the German Bridge card game rules.
//
// The package is pure: it performs no I/O, spawns no goroutines, and holds
// no global state. A Game is a flat value type; the service layer owns
// concurrency, identity mapping, and persistence.
package engine

// Suit constants, packed into the upper bits of Card.
const (
	SuitHearts uint8 = iota
	SuitDiamonds
	SuitClubs
	SuitSpades
	NumSuits = 4
)

// Rank constants in trick order: Seven is lowest, Ace highest. Ten ranks
// between Nine and Jack even though it scores ten points.
const (
	RankSeven uint8 = iota
	RankEight
	RankNine
	RankTen
	RankJack
	RankQueen
	RankKing
	RankAce
	NumRanks = 8
)

// Card is a packed uint8: upper bits = suit, lower 3 bits = rank.
type Card uint8

// EmptyCard represents the absence of a card.
const EmptyCard Card = 0xFF

// NewCard constructs a Card from suit and rank.
func NewCard(suit, rank uint8) Card {
	return Card((suit << 3) | (rank & 0x07))
}

// Suit returns the suit bits (upper).
func (c Card) Suit() uint8 { return uint8(c) >> 3 }

// Rank returns the rank bits (lower 3).
func (c Card) Rank() uint8 { return uint8(c) & 0x07 }

// Value returns the point value of the card for trick scoring:
// Seven/Eight/Nine → 0, Jack → 2, Queen → 3, King → 4, Ten → 10, Ace → 11.
func (c Card) Value() int16 {
	switch c.Rank() {
	case RankJack:
		return 2
	case RankQueen:
		return 3
	case RankKing:
		return 4
	case RankTen:
		return 10
	case RankAce:
		return 11
	}
	// Seven, Eight, Nine, or EmptyCard/malformed.
	return 0
}

var suitNames = [NumSuits]string{"hearts", "diamonds", "clubs", "spades"}
var rankNames = [NumRanks]string{"7", "8", "9", "10", "J", "Q", "K", "A"}

// SuitName returns the lowercase suit name used on the wire ("hearts", ...).
func SuitName(suit uint8) string {
	if suit >= NumSuits {
		return "?"
	}
	return suitNames[suit]
}

// RankName returns the rank string used on the wire ("7".."10", "J", "Q", "K", "A").
func RankName(rank uint8) string {
	if rank >= NumRanks {
		return "?"
	}
	return rankNames[rank]
}

// String renders the card as rank+suit, e.g. "10♥" renders as "10hearts"
// would on the wire; used mostly in test failure output.
func (c Card) String() string {
	if c == EmptyCard {
		return "empty"
	}
	return RankName(c.Rank()) + " of " + SuitName(c.Suit())
}

// ParseSuit resolves a wire suit name to its constant.
func ParseSuit(name string) (uint8, error) {
	for s := uint8(0); s < NumSuits; s++ {
		if suitNames[s] == name {
			return s, nil
		}
	}
	return 0, ErrInvalidCard
}

// ParseCard resolves wire suit and rank names to a Card.
func ParseCard(suit, rank string) (Card, error) {
	s, err := ParseSuit(suit)
	if err != nil {
		return EmptyCard, err
	}
	for r := uint8(0); r < NumRanks; r++ {
		if rankNames[r] == rank {
			return NewCard(s, r), nil
		}
	}
	return EmptyCard, ErrInvalidCard
}
