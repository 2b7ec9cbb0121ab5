package engine

// Phase is the game lifecycle state. Sessions are created already dealt,
// so play starts in PhaseBidding.
type Phase uint8

const (
	PhaseBidding Phase = iota
	PhasePlaying
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseBidding:
		return "bidding"
	case PhasePlaying:
		return "playing"
	case PhaseFinished:
		return "finished"
	}
	return "unknown"
}

// SeatState holds one seat's hand and running tally.
type SeatState struct {
	Hand      [HandSize]Card
	HandLen   uint8
	TricksWon uint8
	Score     int16
}

// Contract is the trump declaration fixed at the bidding→playing
// transition. Immutable for the rest of the game.
type Contract struct {
	Declarer uint8
	Trump    uint8
	Level    uint8
}

// Game holds the complete, self-contained state of one German Bridge deal.
// It is a flat value type: a plain struct copy is a full snapshot, and two
// Games are comparable with ==.
type Game struct {
	Seats       [NumSeats]SeatState
	Phase       Phase
	Turn        uint8
	Current     Trick
	History     [HandSize]Trick
	HistoryLen  uint8
	Contract    Contract
	HasContract bool
}

// NewGame builds, shuffles and deals a fresh 32-card deck from the given
// seed and opens bidding with seat 0 to act.
func NewGame(seed uint64) Game {
	deck := NewDeck()
	Shuffle(deck, seed)
	hands, _ := Deal(deck) // NewDeck is always exactly NumSeats*HandSize cards

	var g Game
	for seat := 0; seat < NumSeats; seat++ {
		copy(g.Seats[seat].Hand[:], hands[seat])
		g.Seats[seat].HandLen = HandSize
	}
	g.Phase = PhaseBidding
	g.Turn = 0
	return g
}

// checkTurn validates the common guards on every inbound action: seat range,
// terminal phase, expected phase, and the turn pointer.
func (g *Game) checkTurn(seat uint8, want Phase) error {
	if seat >= NumSeats {
		return ErrInvalidSeat
	}
	if g.Phase == PhaseFinished {
		return ErrGameFinished
	}
	if g.Phase != want {
		return ErrWrongPhase
	}
	if seat != g.Turn {
		return ErrNotYourTurn
	}
	return nil
}

// Pass advances the bidding turn to the next seat without declaring.
func (g *Game) Pass(seat uint8) error {
	if err := g.checkTurn(seat, PhaseBidding); err != nil {
		return err
	}
	g.Turn = (g.Turn + 1) % NumSeats
	return nil
}

// Declare fixes the contract and moves the game into the playing phase.
// The declarer leads the first trick.
func (g *Game) Declare(seat uint8, trump uint8, level uint8) error {
	if err := g.checkTurn(seat, PhaseBidding); err != nil {
		return err
	}
	if trump >= NumSuits {
		return ErrInvalidCard
	}
	g.Contract = Contract{Declarer: seat, Trump: trump, Level: level}
	g.HasContract = true
	g.Phase = PhasePlaying
	g.Turn = seat
	return nil
}

// PlayCard plays the given card from the acting seat's hand into the
// current trick. On the fourth card the trick is resolved: its points are
// credited to the winning seat immediately, the trick moves to history, and
// the winner leads the next trick. The play that empties the last hand on a
// completed trick finishes the game.
//
// A returned error means nothing changed.
func (g *Game) PlayCard(seat uint8, card Card) error {
	if err := g.checkTurn(seat, PhasePlaying); err != nil {
		return err
	}
	idx, held := g.handIndex(seat, card)
	if !held {
		return ErrCardNotInHand
	}
	if !g.legalPlay(seat, card) {
		return ErrIllegalCard
	}

	g.removeFromHand(seat, idx)
	g.Current.Plays[g.Current.Len] = Play{Seat: seat, Card: card}
	g.Current.Len++

	if g.Current.Len < NumSeats {
		g.Turn = (g.Turn + 1) % NumSeats
		return nil
	}

	// Trick complete: resolve, score, archive, winner leads.
	winner := g.Current.resolve(g.Contract.Trump)
	g.Current.Winner = winner
	g.Seats[winner].Score += g.Current.Points()
	g.Seats[winner].TricksWon++
	g.History[g.HistoryLen] = g.Current
	g.HistoryLen++
	g.Current = Trick{}
	g.Turn = winner

	if g.Seats[seat].HandLen == 0 {
		g.Phase = PhaseFinished
	}
	return nil
}

// handIndex locates card in the seat's hand.
func (g *Game) handIndex(seat uint8, card Card) (uint8, bool) {
	for i := uint8(0); i < g.Seats[seat].HandLen; i++ {
		if g.Seats[seat].Hand[i] == card {
			return i, true
		}
	}
	return 0, false
}

// removeFromHand deletes the card at idx, preserving hand order.
func (g *Game) removeFromHand(seat uint8, idx uint8) {
	s := &g.Seats[seat]
	copy(s.Hand[idx:s.HandLen-1], s.Hand[idx+1:s.HandLen])
	s.HandLen--
	s.Hand[s.HandLen] = EmptyCard
}

// IsTerminal returns true when the game is over.
func (g *Game) IsTerminal() bool { return g.Phase == PhaseFinished }

// Winner returns the seat with the highest final score. A tie breaks to the
// lowest seat index. ok is false until the game is finished.
func (g *Game) Winner() (uint8, bool) {
	if g.Phase != PhaseFinished {
		return 0, false
	}
	best := uint8(0)
	for seat := uint8(1); seat < NumSeats; seat++ {
		if g.Seats[seat].Score > g.Seats[best].Score {
			best = seat
		}
	}
	return best, true
}

// Scores returns the running score per seat.
func (g *Game) Scores() [NumSeats]int16 {
	var s [NumSeats]int16
	for seat := uint8(0); seat < NumSeats; seat++ {
		s[seat] = g.Seats[seat].Score
	}
	return s
}

// CardsAccounted returns hand + current trick + history card counts. It is
// DeckSize at every point in a well-formed game.
func (g *Game) CardsAccounted() int {
	n := int(g.Current.Len)
	for seat := uint8(0); seat < NumSeats; seat++ {
		n += int(g.Seats[seat].HandLen)
	}
	for i := uint8(0); i < g.HistoryLen; i++ {
		n += int(g.History[i].Len)
	}
	return n
}
