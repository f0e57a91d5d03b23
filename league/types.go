/*
Package league provides the umpire assignment and pay engine.

PURPOSE:
  Games are staffed by at most two umpires. This package decides which
  umpire-to-game configurations are legal and what each assignment pays,
  using a pay-rate table that is versioned by effective date.

KEY CONCEPTS IN THIS FILE (types.go):
  - Umpire, Town, Team, Game: reference data handed in by the surrounding app
  - Assignment: one umpire on one game in one position
  - PayRate: one version of the pay table, keyed by effective date
  - Availability: an umpire's stated availability for a date and slot
  - Typed IDs so game/umpire/assignment ids cannot be mixed up

MONEY:
  All amounts are decimal.Decimal with at most two decimal places. An
  Assignment's AmountOwed is a decimal.NullDecimal: Valid=false means "no
  applicable pay rate", which is never the same thing as zero. A resolved
  zero comes from a no-show or a cancelled seat.

SEE ALSO:
  - validator.go: assignment legality checks
  - payrate.go: effective-date resolution
  - payment.go: amount owed and summaries
  - service.go: transactional operations
*/
package league

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type UmpireID string
type GameID string
type AssignmentID string
type TeamID string
type TownID string

// PayRateID is a monotonic sequence assigned by the store on insert.
// Higher ids were created later, which is what breaks effective-date ties.
type PayRateID int64

func NewUmpireID() UmpireID         { return UmpireID(uuid.NewString()) }
func NewGameID() GameID             { return GameID(uuid.NewString()) }
func NewAssignmentID() AssignmentID { return AssignmentID(uuid.NewString()) }
func NewTeamID() TeamID             { return TeamID(uuid.NewString()) }
func NewTownID() TownID             { return TownID(uuid.NewString()) }

// =============================================================================
// ENUMERATIONS
// =============================================================================

// TimeSlot is one of the four daily start times.
type TimeSlot string

const (
	Slot0800 TimeSlot = "8:00"
	Slot1015 TimeSlot = "10:15"
	Slot1230 TimeSlot = "12:30"
	Slot1445 TimeSlot = "2:45"
)

// TimeSlots lists the slots in chronological order.
var TimeSlots = []TimeSlot{Slot0800, Slot1015, Slot1230, Slot1445}

// Order returns the chronological index of the slot, or -1 if unknown.
func (s TimeSlot) Order() int {
	for i, slot := range TimeSlots {
		if slot == s {
			return i
		}
	}
	return -1
}

func (s TimeSlot) Valid() bool { return s.Order() >= 0 }

// Label is the human form used on schedules ("10:15 AM").
func (s TimeSlot) Label() string {
	switch s {
	case Slot0800:
		return "8:00 AM"
	case Slot1015:
		return "10:15 AM"
	case Slot1230:
		return "12:30 PM"
	case Slot1445:
		return "2:45 PM"
	}
	return string(s)
}

type Field string

const (
	FieldA Field = "A"
	FieldB Field = "B"
	FieldC Field = "C"
	FieldD Field = "D"
	FieldE Field = "E"
)

var Fields = []Field{FieldA, FieldB, FieldC, FieldD, FieldE}

func (f Field) Valid() bool {
	for _, v := range Fields {
		if v == f {
			return true
		}
	}
	return false
}

type Position string

const (
	PositionPlate Position = "plate"
	PositionBase  Position = "base"
	PositionSolo  Position = "solo"
)

func (p Position) Valid() bool {
	return p == PositionPlate || p == PositionBase || p == PositionSolo
}

// Complement returns the partner seat for plate/base, and "" for solo.
func (p Position) Complement() Position {
	switch p {
	case PositionPlate:
		return PositionBase
	case PositionBase:
		return PositionPlate
	}
	return ""
}

type Level string

const (
	LevelAAA    Level = "AAA"
	LevelMinors Level = "Minors"
	LevelMajors Level = "Majors"
)

func (l Level) Valid() bool {
	return l == LevelAAA || l == LevelMinors || l == LevelMajors
}

// GameStatus records what happened to a scheduled game.
type GameStatus string

const (
	GameScheduled GameStatus = "scheduled"
	GameCompleted GameStatus = "completed"
	GamePostponed GameStatus = "postponed"
	GameCancelled GameStatus = "cancelled"
)

func (s GameStatus) Valid() bool {
	switch s {
	case GameScheduled, GameCompleted, GamePostponed, GameCancelled:
		return true
	}
	return false
}

// NeedsCrew reports whether the game still has to be staffed.
func (s GameStatus) NeedsCrew() bool {
	return s == GameScheduled || s == GameCompleted || s == ""
}

// WorkStatus records whether the umpire actually worked the game.
type WorkStatus string

const (
	WorkAssigned  WorkStatus = "assigned"
	WorkWorked    WorkStatus = "worked"
	WorkNoShow    WorkStatus = "no_show"
	WorkCancelled WorkStatus = "cancelled"
)

func (w WorkStatus) Valid() bool {
	switch w {
	case WorkAssigned, WorkWorked, WorkNoShow, WorkCancelled:
		return true
	}
	return false
}

// Payable is false for seats that are owed nothing: no-shows and
// cancellations.
func (w WorkStatus) Payable() bool {
	return w != WorkNoShow && w != WorkCancelled
}

type AvailabilityStatus string

const (
	Available   AvailabilityStatus = "available"
	Unavailable AvailabilityStatus = "unavailable"
	Preferred   AvailabilityStatus = "preferred"
)

func (a AvailabilityStatus) Valid() bool {
	return a == Available || a == Unavailable || a == Preferred
}

// SlotAllDay is the availability slot that covers every game on a date.
const SlotAllDay TimeSlot = "all"

// =============================================================================
// REFERENCE DATA
// =============================================================================

type Umpire struct {
	ID        UmpireID
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Adult     bool
	Patched   bool
}

func (u Umpire) Name() string { return u.FirstName + " " + u.LastName }

type Town struct {
	ID   TownID
	Name string
}

type Team struct {
	ID     TeamID
	TownID TownID
	Level  Level
	Name   string
}

// Game is uniquely identified by (Date, Slot, Field).
type Game struct {
	ID         GameID
	Date       Date
	Slot       TimeSlot
	Field      Field
	HomeTeamID TeamID
	AwayTeamID TeamID
	Status     GameStatus

	// Version is bumped on every change to the game's assignments and is
	// compared-and-set by the store to detect concurrent writers.
	Version int64
}

func (g Game) String() string {
	return fmt.Sprintf("%s %s field %s", g.Date, g.Slot, g.Field)
}

// SameSlot reports whether two games start at the same date and time.
func (g Game) SameSlot(other Game) bool {
	return g.Date.Equal(other.Date) && g.Slot == other.Slot
}

// =============================================================================
// ASSIGNMENT
// =============================================================================

type Assignment struct {
	ID       AssignmentID
	GameID   GameID
	UmpireID UmpireID
	Position Position

	// AmountOwed is NULL when no pay rate covers the game date.
	AmountOwed decimal.NullDecimal
	// PayRateID is the rate AmountOwed was computed from (0 when unresolved).
	PayRateID PayRateID
	// Paid freezes AmountOwed. Only MarkPaid changes it.
	Paid bool

	Work WorkStatus
	// PayOverride marks AmountOwed as set by hand. Recompute leaves it alone
	// until the override is cleared.
	PayOverride bool
}

// Resolved reports whether an amount has been computed.
func (a Assignment) Resolved() bool { return a.AmountOwed.Valid }

// Booking is an assignment seen from the umpire's side, with the date and
// slot of its game. Used for double-booking checks.
type Booking struct {
	AssignmentID AssignmentID
	GameID       GameID
	Date         Date
	Slot         TimeSlot
}

// AssignmentFilter narrows ListAssignments. Zero values mean "any".
type AssignmentFilter struct {
	UmpireID   UmpireID
	From       *Date // inclusive, on game date
	Until      *Date // exclusive, on game date
	UnpaidOnly bool
}

// Availability is one umpire's answer for a date, either for a single slot
// or for the whole day (Slot == SlotAllDay). An entry for the exact slot
// wins over the all-day entry.
type Availability struct {
	UmpireID UmpireID
	Date     Date
	Slot     TimeSlot
	Status   AvailabilityStatus
	Notes    string
}

func (a Availability) Validate() error {
	switch {
	case a.Date.IsZero():
		return fmt.Errorf("%w: availability needs a date", ErrInvalidInput)
	case a.Slot != SlotAllDay && !a.Slot.Valid():
		return fmt.Errorf("%w: unknown time slot %q", ErrInvalidInput, a.Slot)
	case !a.Status.Valid():
		return fmt.Errorf("%w: unknown availability %q", ErrInvalidInput, a.Status)
	}
	return nil
}

// AvailabilityFilter narrows ListAvailability. Zero values mean "any".
type AvailabilityFilter struct {
	UmpireID UmpireID
	From     *Date // inclusive
	To       *Date // inclusive
}

// GameFilter narrows ListGames. Zero values mean "any".
type GameFilter struct {
	From  *Date // inclusive
	To    *Date // inclusive
	Field Field
}

// =============================================================================
// PAY RATE
// =============================================================================

// PayRate is one version of the pay table. Base pays the same whether or
// not the umpire is patched.
type PayRate struct {
	ID             PayRateID
	EffectiveDate  Date
	SoloPatched    decimal.Decimal
	SoloUnpatched  decimal.Decimal
	PlatePatched   decimal.Decimal
	PlateUnpatched decimal.Decimal
	Base           decimal.Decimal
}

// DefaultPayRate returns the league's starting rates effective on the given date.
func DefaultPayRate(effective Date) PayRate {
	return PayRate{
		EffectiveDate:  effective,
		SoloPatched:    decimal.RequireFromString("50.00"),
		SoloUnpatched:  decimal.RequireFromString("40.00"),
		PlatePatched:   decimal.RequireFromString("35.00"),
		PlateUnpatched: decimal.RequireFromString("30.00"),
		Base:           decimal.RequireFromString("25.00"),
	}
}

// Validate checks that every amount is non-negative and in whole cents.
func (r PayRate) Validate() error {
	if r.EffectiveDate.IsZero() {
		return fmt.Errorf("%w: pay rate needs an effective date", ErrInvalidInput)
	}
	amounts := map[string]decimal.Decimal{
		"solo_patched":    r.SoloPatched,
		"solo_unpatched":  r.SoloUnpatched,
		"plate_patched":   r.PlatePatched,
		"plate_unpatched": r.PlateUnpatched,
		"base":            r.Base,
	}
	for name, v := range amounts {
		if err := ValidateAmount(name, v); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAmount rejects negative amounts and fractions of a cent.
func ValidateAmount(name string, v decimal.Decimal) error {
	if v.IsNegative() {
		return fmt.Errorf("%w: %s cannot be negative", ErrInvalidInput, name)
	}
	if !v.Equal(v.Round(2)) {
		return fmt.Errorf("%w: %s has more than two decimal places", ErrInvalidInput, name)
	}
	return nil
}
