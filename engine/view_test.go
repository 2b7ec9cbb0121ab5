package engine

import "testing"

// TestProjectRedactsOtherHands verifies only the viewer's hand is revealed;
// other seats expose cardinality alone.
func TestProjectRedactsOtherHands(t *testing.T) {
	g := NewGame(77)
	v := g.Project(2)

	if v.Viewer != 2 {
		t.Errorf("Viewer = %d, want 2", v.Viewer)
	}
	for seat := 0; seat < NumSeats; seat++ {
		sv := v.Seats[seat]
		if sv.HandSize != HandSize {
			t.Errorf("seat %d HandSize = %d, want %d", seat, sv.HandSize, HandSize)
		}
		if seat == 2 {
			if len(sv.Hand) != HandSize {
				t.Errorf("own hand length = %d, want %d", len(sv.Hand), HandSize)
			}
		} else if sv.Hand != nil {
			t.Errorf("seat %d hand leaked to viewer 2", seat)
		}
	}
}

// TestProjectIsPure verifies projection never mutates the game.
func TestProjectIsPure(t *testing.T) {
	g := NewGame(13)
	snapshot := g
	for seat := uint8(0); seat < NumSeats; seat++ {
		_ = g.Project(seat)
	}
	if g != snapshot {
		t.Error("Project mutated the game")
	}
}

// TestProjectTrickAndContract verifies the mid-trick view carries the
// contract, plays so far, and the lead suit.
func TestProjectTrickAndContract(t *testing.T) {
	g := suitPerSeatGame(SuitClubs, 1)
	if err := g.PlayCard(1, NewCard(SuitDiamonds, RankQueen)); err != nil {
		t.Fatalf("lead: %v", err)
	}

	v := g.Project(0)
	if v.Phase != "playing" {
		t.Errorf("Phase = %q, want playing", v.Phase)
	}
	if v.Contract == nil || v.Contract.Trump != "clubs" || v.Contract.Declarer != 1 {
		t.Errorf("Contract = %+v", v.Contract)
	}
	if len(v.CurrentTrick) != 1 || v.CurrentTrick[0].Card.Rank != "Q" {
		t.Errorf("CurrentTrick = %+v", v.CurrentTrick)
	}
	if v.LeadSuit != "diamonds" {
		t.Errorf("LeadSuit = %q, want diamonds", v.LeadSuit)
	}
	if v.Winner != nil {
		t.Error("Winner set before the game finished")
	}
}

// TestProjectWinner verifies the terminal view names the winning seat.
func TestProjectWinner(t *testing.T) {
	var g Game
	g.Phase = PhaseFinished
	g.Seats[3].Score = 80
	v := g.Project(0)
	if v.Phase != "finished" {
		t.Errorf("Phase = %q, want finished", v.Phase)
	}
	if v.Winner == nil || *v.Winner != 3 {
		t.Errorf("Winner = %v, want 3", v.Winner)
	}
	if v.Scores[3] != 80 {
		t.Errorf("Scores[3] = %d, want 80", v.Scores[3])
	}
}
