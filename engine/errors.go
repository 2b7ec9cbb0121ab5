package engine

// RuleError is the stable code the engine reports when it rejects an
// action. A rejection never mutates game state.
type RuleError string

func (e RuleError) Error() string { return string(e) }

const (
	// ErrNotYourTurn: the acting seat does not match the turn pointer.
	ErrNotYourTurn RuleError = "not_your_turn"
	// ErrWrongPhase: the action kind is not accepted in the current phase.
	ErrWrongPhase RuleError = "wrong_phase"
	// ErrGameFinished: the game reached its terminal phase; no further moves.
	ErrGameFinished RuleError = "game_finished"
	// ErrCardNotInHand: the played card is not held by the acting seat.
	ErrCardNotInHand RuleError = "card_not_in_hand"
	// ErrIllegalCard: the played card violates the follow-suit rule.
	ErrIllegalCard RuleError = "illegal_card"
	// ErrInvalidSeat: seat index outside 0..3.
	ErrInvalidSeat RuleError = "invalid_seat"
	// ErrInvalidCard: malformed suit or rank identifier.
	ErrInvalidCard RuleError = "invalid_card"
	// ErrDeckSizeMismatch: deal attempted on a deck that is not seats×hand cards.
	ErrDeckSizeMismatch RuleError = "deck_size_mismatch"
)
