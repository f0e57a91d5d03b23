/*
errors.go - Error taxonomy for the assignment and pay engine

ERROR CATEGORIES:
  1. Rejections - an assignment would break a staffing rule (user-correctable)
  2. Unresolvable rate - no pay rate covers the game date
  3. Concurrency - another writer changed the game first (retry from a fresh read)
  4. Lookups and input - missing records, malformed values

Nothing here is fatal. Every failure is an expected, data-driven outcome
that the caller reports verbatim.

USAGE:
  if errors.Is(err, league.ErrDoubleBooked) { ... }

  var rej *league.RejectionError
  if errors.As(err, &rej) {
      fmt.Println(rej.Reason) // "umpire double-booked"
  }
*/
package league

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrAssignmentRejected matches every RejectionError.
	ErrAssignmentRejected = errors.New("assignment rejected")

	ErrGameFull        = errors.New(string(ReasonGameFull))
	ErrIllegalPosition = errors.New(string(ReasonIllegalPosition))
	ErrPositionFilled  = errors.New(string(ReasonPositionFilled))
	ErrDoubleBooked    = errors.New(string(ReasonDoubleBooked))

	// ErrRateUnresolvable is returned when no pay rate is effective on the
	// game date. The assignment's amount stays NULL.
	ErrRateUnresolvable = errors.New("no applicable pay rate")

	// ErrConcurrentModification is returned when the game's version moved
	// between read and write.
	ErrConcurrentModification = errors.New("concurrent modification detected")

	ErrGameNotFound       = errors.New("game not found")
	ErrUmpireNotFound     = errors.New("umpire not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrPayRateNotFound    = errors.New("pay rate not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrTownNotFound       = errors.New("town not found")

	// ErrSlotTaken is returned when a game already occupies the field at
	// that date and time.
	ErrSlotTaken = errors.New("field already booked at that date and time")

	// ErrDuplicate is returned for other uniqueness violations (email, town name).
	ErrDuplicate = errors.New("duplicate record")

	ErrInvalidInput = errors.New("invalid input")

	// ErrAlreadyPaid is returned when a change would alter a paid assignment.
	ErrAlreadyPaid = errors.New("assignment already paid")

	// ErrUnresolvedPayment is returned when marking paid an assignment that
	// has no amount.
	ErrUnresolvedPayment = errors.New("assignment has no resolved amount")
)

// =============================================================================
// REJECTION - Staffing rule violations
// =============================================================================

type Reason string

const (
	ReasonGameFull        Reason = "game full"
	ReasonIllegalPosition Reason = "illegal position for current occupancy"
	ReasonPositionFilled  Reason = "position already filled"
	ReasonDoubleBooked    Reason = "umpire double-booked"
)

func (r Reason) sentinel() error {
	switch r {
	case ReasonGameFull:
		return ErrGameFull
	case ReasonIllegalPosition:
		return ErrIllegalPosition
	case ReasonPositionFilled:
		return ErrPositionFilled
	case ReasonDoubleBooked:
		return ErrDoubleBooked
	}
	return nil
}

// RejectionError explains which staffing rule a candidate assignment broke.
type RejectionError struct {
	Reason   Reason
	GameID   GameID
	UmpireID UmpireID
	Position Position
	Detail   string

	// ConflictGameID is set for double-booking.
	ConflictGameID GameID
}

func (e *RejectionError) Error() string {
	if e.Detail == "" {
		return string(e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Detail)
}

func (e *RejectionError) Unwrap() []error {
	return []error{ErrAssignmentRejected, e.Reason.sentinel()}
}

func reject(reason Reason, c Candidate, detail string) *RejectionError {
	return &RejectionError{
		Reason:   reason,
		GameID:   c.GameID,
		UmpireID: c.UmpireID,
		Position: c.Position,
		Detail:   detail,
	}
}

// =============================================================================
// UNRESOLVABLE RATE
// =============================================================================

type UnresolvableRateError struct {
	Date Date
}

func (e *UnresolvableRateError) Error() string {
	return fmt.Sprintf("no applicable pay rate on %s", e.Date)
}

func (e *UnresolvableRateError) Unwrap() error { return ErrRateUnresolvable }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsRetryable returns true if the whole operation may succeed when replayed
// from a fresh read.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrentModification)
}

// IsClientError returns true if the caller can fix the request.
func IsClientError(err error) bool {
	return errors.Is(err, ErrAssignmentRejected) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrSlotTaken) ||
		errors.Is(err, ErrDuplicate) ||
		errors.Is(err, ErrAlreadyPaid) ||
		errors.Is(err, ErrUnresolvedPayment)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrGameNotFound) ||
		errors.Is(err, ErrUmpireNotFound) ||
		errors.Is(err, ErrAssignmentNotFound) ||
		errors.Is(err, ErrPayRateNotFound) ||
		errors.Is(err, ErrTeamNotFound) ||
		errors.Is(err, ErrTownNotFound)
}
