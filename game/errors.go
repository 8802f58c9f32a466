package game

import "fmt"

type ValidationCode string

const (
	CodeMalformed         ValidationCode = "MALFORMED"
	CodeUnknownPlayer     ValidationCode = "UNKNOWN_PLAYER"
	CodeNotYourTurn       ValidationCode = "NOT_YOUR_TURN"
	CodeWrongStage        ValidationCode = "WRONG_STAGE"
	CodeIllegalBet        ValidationCode = "ILLEGAL_BET"
	CodeInsufficientChips ValidationCode = "INSUFFICIENT_CHIPS"
	CodeSeatTaken         ValidationCode = "SEAT_TAKEN"
	CodeInvalidSeat       ValidationCode = "INVALID_SEAT"
	CodeAlreadySeated     ValidationCode = "ALREADY_SEATED"
	CodeInvalidBuyIn      ValidationCode = "INVALID_BUY_IN"
	CodeNoTimeBank        ValidationCode = "NO_TIME_BANK"
	CodeInvalidParameters ValidationCode = "INVALID_PARAMETERS"
	CodeCannotShowCards   ValidationCode = "CANNOT_SHOW_CARDS"
	CodeDuplicatePlayer   ValidationCode = "DUPLICATE_PLAYER"
)

// ValidationError rejects an inbound event. The table state is never
// mutated when one is returned.
type ValidationError struct {
	Code ValidationCode
	Msg  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func reject(code ValidationCode, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// InvariantError is an engine bug. The table cannot continue once one is raised.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string {
	return "invariant violated: " + e.Msg
}

func invariantf(format string, args ...interface{}) *InvariantError {
	return &InvariantError{Msg: fmt.Sprintf(format, args...)}
}
