package engine

const (
	NumSeats = 4
	HandSize = 8
	DeckSize = NumSeats * HandSize // 32
)

// NewDeck returns the 32 unique German Bridge cards in suit-major order.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for suit := uint8(0); suit < NumSuits; suit++ {
		for rank := uint8(0); rank < NumRanks; rank++ {
			deck = append(deck, NewCard(suit, rank))
		}
	}
	return deck
}

// xorshift64, inlined with no interface.
func nextRand(x *uint64) uint64 {
	v := *x
	v ^= v << 13
	v ^= v >> 7
	v ^= v << 17
	*x = v
	return v
}

// Shuffle permutes deck in place with a Fisher-Yates walk from the last
// index down, driven by a seeded xorshift64 stream. The same seed always
// yields the same permutation.
func Shuffle(deck []Card, seed uint64) {
	if seed == 0 {
		seed = 1 // xorshift can't start at 0
	}
	for i := len(deck) - 1; i > 0; i-- {
		j := int(nextRand(&seed) % uint64(i+1))
		deck[i], deck[j] = deck[j], deck[i]
	}
}

// Deal partitions a 32-card deck into four 8-card hands, one per seat.
// Returns ErrDeckSizeMismatch if the deck is not exactly seats×hand cards.
func Deal(deck []Card) ([NumSeats][]Card, error) {
	var hands [NumSeats][]Card
	if len(deck) != DeckSize {
		return hands, ErrDeckSizeMismatch
	}
	for seat := 0; seat < NumSeats; seat++ {
		hand := make([]Card, HandSize)
		copy(hand, deck[seat*HandSize:(seat+1)*HandSize])
		hands[seat] = hand
	}
	return hands, nil
}
