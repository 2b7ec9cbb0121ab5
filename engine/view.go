package engine

// CardView is a card as serialized to clients.
type CardView struct {
	Suit  string `json:"suit"`
	Rank  string `json:"rank"`
	Value int    `json:"value"`
}

// PlayView is one play within the current trick.
type PlayView struct {
	Seat int      `json:"seat"`
	Card CardView `json:"card"`
}

// SeatView is one seat as seen by the viewer. Hand is populated only for
// the viewer's own seat; other seats expose hand size alone.
type SeatView struct {
	Seat      int        `json:"seat"`
	HandSize  int        `json:"handSize"`
	TricksWon int        `json:"tricksWon"`
	Score     int        `json:"score"`
	Hand      []CardView `json:"hand,omitempty"`
}

// ContractView is the declared contract.
type ContractView struct {
	Declarer int    `json:"declarer"`
	Trump    string `json:"trump"`
	Level    int    `json:"level"`
}

// View is one seat's redacted projection of the game. Recomputed fresh on
// every transition and pushed to all four participants.
type View struct {
	Phase        string             `json:"phase"`
	Turn         int                `json:"turn"`
	Viewer       int                `json:"viewer"`
	Contract     *ContractView      `json:"contract,omitempty"`
	CurrentTrick []PlayView         `json:"currentTrick"`
	LeadSuit     string             `json:"leadSuit,omitempty"`
	TricksPlayed int                `json:"tricksPlayed"`
	StockSize    int                `json:"stockSize"`
	Scores       [NumSeats]int      `json:"scores"`
	Seats        [NumSeats]SeatView `json:"seats"`
	Winner       *int               `json:"winner,omitempty"`
}

func cardView(c Card) CardView {
	return CardView{
		Suit:  SuitName(c.Suit()),
		Rank:  RankName(c.Rank()),
		Value: int(c.Value()),
	}
}

// Project derives the viewer's redacted view of the game. It is a pure
// function of the game value: it never mutates and shares no memory with
// the game state, so callers may hand the result to other goroutines.
func (g *Game) Project(viewer uint8) View {
	v := View{
		Phase:        g.Phase.String(),
		Turn:         int(g.Turn),
		Viewer:       int(viewer),
		TricksPlayed: int(g.HistoryLen),
		StockSize:    0, // the full deck is dealt; no undealt stock in German Bridge
	}

	if g.HasContract {
		v.Contract = &ContractView{
			Declarer: int(g.Contract.Declarer),
			Trump:    SuitName(g.Contract.Trump),
			Level:    int(g.Contract.Level),
		}
	}

	v.CurrentTrick = make([]PlayView, 0, g.Current.Len)
	for i := uint8(0); i < g.Current.Len; i++ {
		p := g.Current.Plays[i]
		v.CurrentTrick = append(v.CurrentTrick, PlayView{Seat: int(p.Seat), Card: cardView(p.Card)})
	}
	if lead, ok := g.Current.LeadSuit(); ok {
		v.LeadSuit = SuitName(lead)
	}

	for seat := uint8(0); seat < NumSeats; seat++ {
		s := &g.Seats[seat]
		sv := SeatView{
			Seat:      int(seat),
			HandSize:  int(s.HandLen),
			TricksWon: int(s.TricksWon),
			Score:     int(s.Score),
		}
		if seat == viewer {
			sv.Hand = make([]CardView, 0, s.HandLen)
			for i := uint8(0); i < s.HandLen; i++ {
				sv.Hand = append(sv.Hand, cardView(s.Hand[i]))
			}
		}
		v.Seats[seat] = sv
		v.Scores[seat] = int(s.Score)
	}

	if winner, ok := g.Winner(); ok {
		w := int(winner)
		v.Winner = &w
	}
	return v
}
