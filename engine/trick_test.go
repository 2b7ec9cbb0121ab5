package engine

import "testing"

// card is shorthand for test fixtures.
func card(suit, rank uint8) Card { return NewCard(suit, rank) }

// TestBeatsComparator exercises the single comparator used by legality and
// winner determination.
func TestBeatsComparator(t *testing.T) {
	const lead = SuitSpades
	const trump = SuitHearts

	cases := []struct {
		name    string
		c, best Card
		want    bool
	}{
		{"trump beats non-trump", card(SuitHearts, RankSeven), card(SuitSpades, RankAce), true},
		{"non-trump loses to trump", card(SuitSpades, RankAce), card(SuitHearts, RankSeven), false},
		{"higher rank same suit", card(SuitSpades, RankKing), card(SuitSpades, RankNine), true},
		{"lower rank same suit", card(SuitSpades, RankNine), card(SuitSpades, RankKing), false},
		{"ten below jack in rank", card(SuitSpades, RankTen), card(SuitSpades, RankJack), false},
		{"off-suit off-trump never wins", card(SuitClubs, RankAce), card(SuitSpades, RankSeven), false},
		{"higher trump beats lower trump", card(SuitHearts, RankAce), card(SuitHearts, RankKing), true},
	}
	for _, tc := range cases {
		if got := beats(tc.c, tc.best, lead, trump); got != tc.want {
			t.Errorf("%s: beats(%s, %s) = %v, want %v", tc.name, tc.c, tc.best, got, tc.want)
		}
	}
}

// TestTrickWinnerSoleTrump replays the reference trick: 7♠ led, K♠,
// A♥ (trump hearts), 9♠: the ace of hearts takes it as the only trump.
func TestTrickWinnerSoleTrump(t *testing.T) {
	trick := Trick{
		Plays: [NumSeats]Play{
			{Seat: 0, Card: card(SuitSpades, RankSeven)},
			{Seat: 1, Card: card(SuitSpades, RankKing)},
			{Seat: 2, Card: card(SuitHearts, RankAce)},
			{Seat: 3, Card: card(SuitSpades, RankNine)},
		},
		Len: NumSeats,
	}
	if winner := trick.resolve(SuitHearts); winner != 2 {
		t.Errorf("winner = seat %d, want seat 2 (sole trump)", winner)
	}
}

// TestTrickWinnerNoTrumpPlayed verifies highest card of the lead suit wins
// when nobody trumps.
func TestTrickWinnerNoTrumpPlayed(t *testing.T) {
	trick := Trick{
		Plays: [NumSeats]Play{
			{Seat: 0, Card: card(SuitClubs, RankTen)},
			{Seat: 1, Card: card(SuitClubs, RankQueen)},
			{Seat: 2, Card: card(SuitDiamonds, RankAce)}, // off-suit, cannot win
			{Seat: 3, Card: card(SuitClubs, RankAce)},
		},
		Len: NumSeats,
	}
	if winner := trick.resolve(SuitHearts); winner != 3 {
		t.Errorf("winner = seat %d, want seat 3 (ace of the led suit)", winner)
	}
}

// TestTrickPoints verifies per-trick point summation.
func TestTrickPoints(t *testing.T) {
	trick := Trick{
		Plays: [NumSeats]Play{
			{Seat: 0, Card: card(SuitSpades, RankSeven)}, // 0
			{Seat: 1, Card: card(SuitSpades, RankEight)}, // 0
			{Seat: 2, Card: card(SuitHearts, RankTen)},   // 10
			{Seat: 3, Card: card(SuitSpades, RankAce)},   // 11
		},
		Len: NumSeats,
	}
	if got := trick.Points(); got != 21 {
		t.Errorf("Points() = %d, want 21", got)
	}
}
