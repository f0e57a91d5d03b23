/*
store.go - Persistence interface for the assignment and pay engine

PURPOSE:
  The engine never talks to a database directly. It reads games, umpires,
  assignments, availability and pay rates through Store and writes back validated
  assignments and computed amounts.

KEY INTERFACES:
  Store:   reads and writes used by the service
  TxStore: Store plus WithTx for all-or-nothing units of work

LOOKUPS:
  Get* methods return the matching Err*NotFound sentinel when the record is
  missing, never (zero, nil).

CONCURRENCY:
  BumpGameVersion is a compare-and-set on Game.Version. Every write that
  changes a game's assignments calls it with the version read at the start
  of the unit of work, so two writers racing for the last seat cannot both
  commit.

IMPLEMENTATIONS:
  - league/store/memory.go: in-memory, for tests and dev
  - store/sqlite/sqlite.go: SQLite
*/
package league

import "context"

// Store handles persistence of league records.
type Store interface {
	SaveTown(ctx context.Context, town Town) error
	GetTown(ctx context.Context, id TownID) (Town, error)
	ListTowns(ctx context.Context) ([]Town, error)

	SaveTeam(ctx context.Context, team Team) error
	GetTeam(ctx context.Context, id TeamID) (Team, error)
	ListTeams(ctx context.Context) ([]Team, error)

	// SaveUmpire inserts or updates an umpire. Returns ErrDuplicate on email collision.
	SaveUmpire(ctx context.Context, umpire Umpire) error
	GetUmpire(ctx context.Context, id UmpireID) (Umpire, error)
	ListUmpires(ctx context.Context) ([]Umpire, error)

	// SaveGame inserts or updates a game. Version is not written on update.
	// Returns ErrSlotTaken when another game holds (date, slot, field).
	SaveGame(ctx context.Context, game Game) error
	GetGame(ctx context.Context, id GameID) (Game, error)
	ListGames(ctx context.Context, filter GameFilter) ([]Game, error)

	// BumpGameVersion increments the version if it still equals expected.
	// Returns ErrConcurrentModification otherwise.
	BumpGameVersion(ctx context.Context, id GameID, expected int64) error

	GetAssignment(ctx context.Context, id AssignmentID) (Assignment, error)
	AssignmentsForGame(ctx context.Context, gameID GameID) ([]Assignment, error)
	// BookingsForUmpire returns every assignment of the umpire with its game's date and slot.
	BookingsForUmpire(ctx context.Context, umpireID UmpireID) ([]Booking, error)
	ListAssignments(ctx context.Context, filter AssignmentFilter) ([]Assignment, error)
	InsertAssignment(ctx context.Context, a Assignment) error
	UpdateAssignment(ctx context.Context, a Assignment) error
	DeleteAssignment(ctx context.Context, id AssignmentID) error

	// ListPayRates returns the whole rate log.
	ListPayRates(ctx context.Context) ([]PayRate, error)
	GetPayRate(ctx context.Context, id PayRateID) (PayRate, error)
	// SavePayRate inserts when rate.ID is zero and updates otherwise.
	// Returns the stored id.
	SavePayRate(ctx context.Context, rate PayRate) (PayRateID, error)

	// SaveAvailability inserts or replaces the entry for (umpire, date, slot).
	SaveAvailability(ctx context.Context, av Availability) error
	ListAvailability(ctx context.Context, filter AvailabilityFilter) ([]Availability, error)
}

// TxStore wraps Store with transaction support.
type TxStore interface {
	Store

	// WithTx executes fn within a transaction.
	// If fn returns error, transaction is rolled back.
	// If fn returns nil, transaction is committed.
	WithTx(ctx context.Context, fn func(Store) error) error
}
