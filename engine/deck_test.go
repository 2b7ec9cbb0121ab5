package engine

import "testing"

// TestNewDeckUnique verifies the deck holds exactly the 32 unique cards.
func TestNewDeckUnique(t *testing.T) {
	deck := NewDeck()
	if len(deck) != DeckSize {
		t.Fatalf("len(deck) = %d, want %d", len(deck), DeckSize)
	}
	seen := make(map[Card]bool)
	for i, c := range deck {
		if c == EmptyCard {
			t.Errorf("deck[%d] is EmptyCard", i)
			continue
		}
		if seen[c] {
			t.Errorf("duplicate card at index %d: %s", i, c)
		}
		seen[c] = true
	}
	if len(seen) != DeckSize {
		t.Errorf("got %d unique cards, want %d", len(seen), DeckSize)
	}
}

// TestShuffleDeterministic verifies the same seed produces the same
// permutation, and that shuffling preserves the card set.
func TestShuffleDeterministic(t *testing.T) {
	a := NewDeck()
	b := NewDeck()
	Shuffle(a, 99)
	Shuffle(b, 99)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed diverged at index %d: %s vs %s", i, a[i], b[i])
		}
	}

	c := NewDeck()
	Shuffle(c, 7)
	seen := make(map[Card]bool, DeckSize)
	for _, card := range c {
		seen[card] = true
	}
	if len(seen) != DeckSize {
		t.Errorf("shuffle lost cards: %d unique, want %d", len(seen), DeckSize)
	}
}

// TestShuffleSeedZero verifies seed 0 is usable (corrected internally).
func TestShuffleSeedZero(t *testing.T) {
	a := NewDeck()
	Shuffle(a, 0)
	ordered := NewDeck()
	same := true
	for i := range a {
		if a[i] != ordered[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("Shuffle with seed 0 left the deck in initial order")
	}
}

// TestDealPartition verifies the union of the four hands equals the deck
// with no duplicates and no omissions.
func TestDealPartition(t *testing.T) {
	deck := NewDeck()
	Shuffle(deck, 42)
	hands, err := Deal(deck)
	if err != nil {
		t.Fatalf("Deal: %v", err)
	}

	seen := make(map[Card]int)
	for seat, hand := range hands {
		if len(hand) != HandSize {
			t.Errorf("seat %d hand size = %d, want %d", seat, len(hand), HandSize)
		}
		for _, c := range hand {
			seen[c]++
		}
	}
	if len(seen) != DeckSize {
		t.Errorf("hands cover %d unique cards, want %d", len(seen), DeckSize)
	}
	for c, n := range seen {
		if n != 1 {
			t.Errorf("card %s dealt %d times", c, n)
		}
	}
}

// TestDealSizeMismatch verifies a short or long deck is rejected.
func TestDealSizeMismatch(t *testing.T) {
	if _, err := Deal(NewDeck()[:31]); err != ErrDeckSizeMismatch {
		t.Errorf("Deal(31 cards): err = %v, want ErrDeckSizeMismatch", err)
	}
	long := append(NewDeck(), NewCard(SuitHearts, RankAce))
	if _, err := Deal(long); err != ErrDeckSizeMismatch {
		t.Errorf("Deal(33 cards): err = %v, want ErrDeckSizeMismatch", err)
	}
}
