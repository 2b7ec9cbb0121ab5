package engine

// Play is one card played by one seat within a trick.
type Play struct {
	Seat uint8
	Card Card
}

// Trick is one round of four plays. It is immutable once resolved and moved
// into the game's history; Winner is only meaningful for resolved tricks.
type Trick struct {
	Plays  [NumSeats]Play
	Len    uint8
	Winner uint8
}

// LeadSuit returns the suit of the first card played. ok is false while the
// trick is empty.
func (t *Trick) LeadSuit() (uint8, bool) {
	if t.Len == 0 {
		return 0, false
	}
	return t.Plays[0].Card.Suit(), true
}

// Points returns the summed point value of the cards played so far.
func (t *Trick) Points() int16 {
	var sum int16
	for i := uint8(0); i < t.Len; i++ {
		sum += t.Plays[i].Card.Value()
	}
	return sum
}

// beats reports whether c wins over best, given the trick's lead suit and
// the contract trump suit. This is the single total-order comparator used by
// both legality checks and winner determination:
//   - trump beats any non-trump regardless of rank
//   - within one suit, higher rank wins (7<8<9<10<J<Q<K<A)
//   - a card that is neither trump nor of the lead suit never wins
func beats(c, best Card, lead, trump uint8) bool {
	if c.Suit() == trump && best.Suit() != trump {
		return true
	}
	if best.Suit() == trump && c.Suit() != trump {
		return false
	}
	if c.Suit() == best.Suit() {
		return c.Rank() > best.Rank()
	}
	// Off-suit, off-trump cards cannot take the trick.
	_ = lead
	return false
}

// resolve returns the winning seat of a completed trick. Ties cannot occur
// because all 32 cards are distinct.
func (t *Trick) resolve(trump uint8) uint8 {
	lead := t.Plays[0].Card.Suit()
	best := t.Plays[0]
	for i := uint8(1); i < t.Len; i++ {
		if beats(t.Plays[i].Card, best.Card, lead, trump) {
			best = t.Plays[i]
		}
	}
	return best.Seat
}

// legalPlay reports whether the acting seat may play card into the current
// trick: any card on an empty trick, otherwise the lead suit must be
// followed whenever the hand still holds it.
func (g *Game) legalPlay(seat uint8, card Card) bool {
	lead, ok := g.Current.LeadSuit()
	if !ok {
		return true
	}
	if card.Suit() == lead {
		return true
	}
	return !g.holdsSuit(seat, lead)
}

// holdsSuit reports whether the seat's hand contains any card of suit.
func (g *Game) holdsSuit(seat uint8, suit uint8) bool {
	for i := uint8(0); i < g.Seats[seat].HandLen; i++ {
		if g.Seats[seat].Hand[i].Suit() == suit {
			return true
		}
	}
	return false
}

// LegalPlays returns the cards the seat may currently play. Empty outside
// the playing phase or off turn.
func (g *Game) LegalPlays(seat uint8) []Card {
	if g.Phase != PhasePlaying || seat >= NumSeats || seat != g.Turn {
		return nil
	}
	var legal []Card
	for i := uint8(0); i < g.Seats[seat].HandLen; i++ {
		if c := g.Seats[seat].Hand[i]; g.legalPlay(seat, c) {
			legal = append(legal, c)
		}
	}
	return legal
}
