/*
Package sqlite provides a SQLite-backed implementation of league.TxStore.

PURPOSE:
  Persists towns, teams, umpires, games, assignments and the pay rate log.
  The same schema ports to PostgreSQL with minor dialect changes.

KEY TABLES:
  games:       one row per scheduled game; UNIQUE(date, slot, field)
  umpires:     officials; email is unique, case-insensitive
  assignments: umpire seats on games; amount_owed is NULL when no pay
               rate covered the game date
  pay_rates:   append-mostly rate log; ids are AUTOINCREMENT so a later
               row always has a higher id (the same-date tie-break)
  availability: one row per (umpire, date, slot); slot 'all' covers the day

CONSTRAINT MAPPING:
  UNIQUE violations are surfaced as league sentinels:
  games(date, slot, field) -> league.ErrSlotTaken
  everything else          -> league.ErrDuplicate

CONCURRENCY:
  WithTx holds a process-wide write lock for the life of the transaction.
  Across processes, BumpGameVersion's compare-and-set on games.version is
  what stops two writers seating the same game from both committing.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time
  - busy_timeout lets a second writer wait instead of failing at once

USAGE:
  store, err := sqlite.New("./data/umpires.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  svc := league.NewService(store)

SEE ALSO:
  - league/store.go: interface definitions
  - league/store/memory.go: in-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/warp/umpire-engine/league"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store implements league.TxStore using SQLite.
type Store struct {
	*queries
	db *sql.DB
	mu sync.Mutex
}

var _ league.TxStore = (*Store)(nil)

// New creates a SQLite store at dbPath and migrates the schema.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Every pooled connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db, queries: &queries{db: db}}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database is reachable. Used by the health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS towns (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE COLLATE NOCASE
	);

	CREATE TABLE IF NOT EXISTS teams (
		id TEXT PRIMARY KEY,
		town_id TEXT NOT NULL REFERENCES towns(id),
		level TEXT NOT NULL,
		name TEXT NOT NULL,
		UNIQUE(town_id, level, name)
	);

	CREATE TABLE IF NOT EXISTS umpires (
		id TEXT PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE COLLATE NOCASE,
		phone TEXT NOT NULL DEFAULT '',
		adult BOOLEAN NOT NULL DEFAULT FALSE,
		patched BOOLEAN NOT NULL DEFAULT FALSE
	);

	CREATE TABLE IF NOT EXISTS games (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		slot TEXT NOT NULL,
		field TEXT NOT NULL,
		home_team_id TEXT NOT NULL DEFAULT '',
		away_team_id TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'scheduled',
		version INTEGER NOT NULL DEFAULT 0,
		UNIQUE(date, slot, field)
	);

	CREATE INDEX IF NOT EXISTS idx_games_date ON games(date);

	CREATE TABLE IF NOT EXISTS assignments (
		id TEXT PRIMARY KEY,
		game_id TEXT NOT NULL REFERENCES games(id),
		umpire_id TEXT NOT NULL REFERENCES umpires(id),
		position TEXT NOT NULL,
		amount_owed TEXT,
		pay_rate_id INTEGER,
		paid BOOLEAN NOT NULL DEFAULT FALSE,
		work_status TEXT NOT NULL DEFAULT 'assigned',
		pay_override BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_assignments_game ON assignments(game_id);
	-- Hot path for double-booking checks and per-umpire summaries
	CREATE INDEX IF NOT EXISTS idx_assignments_umpire ON assignments(umpire_id);

	CREATE TABLE IF NOT EXISTS pay_rates (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		effective_date TEXT NOT NULL,
		solo_patched TEXT NOT NULL,
		solo_unpatched TEXT NOT NULL,
		plate_patched TEXT NOT NULL,
		plate_unpatched TEXT NOT NULL,
		base TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_pay_rates_effective ON pay_rates(effective_date, id);

	CREATE TABLE IF NOT EXISTS availability (
		umpire_id TEXT NOT NULL REFERENCES umpires(id),
		date TEXT NOT NULL,
		slot TEXT NOT NULL,
		status TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (umpire_id, date, slot)
	);

	CREATE INDEX IF NOT EXISTS idx_availability_date ON availability(date);
	`
	_, err := s.db.Exec(schema)
	return err
}

// WithTx executes fn within a database transaction.
func (s *Store) WithTx(ctx context.Context, fn func(store league.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&queries{db: sqlTx}); err != nil {
		return err
	}
	return sqlTx.Commit()
}

// queries implements league.Store over either the pool or an open transaction.
type queries struct {
	db querier
}

func isUnique(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique
}

// mapUnique turns a UNIQUE violation into the given sentinel.
func mapUnique(err error, sentinel error) error {
	if err == nil {
		return nil
	}
	if isUnique(err) {
		return fmt.Errorf("%w: %v", sentinel, err)
	}
	return err
}

func now() string { return time.Now().UTC().Format(time.RFC3339) }

// =============================================================================
// TOWNS AND TEAMS
// =============================================================================

func (q *queries) SaveTown(ctx context.Context, t league.Town) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO towns (id, name) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name`,
		t.ID, t.Name,
	)
	return mapUnique(err, league.ErrDuplicate)
}

func (q *queries) GetTown(ctx context.Context, id league.TownID) (league.Town, error) {
	var t league.Town
	err := q.db.QueryRowContext(ctx, "SELECT id, name FROM towns WHERE id = ?", id).Scan(&t.ID, &t.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return league.Town{}, league.ErrTownNotFound
	}
	return t, err
}

func (q *queries) ListTowns(ctx context.Context) ([]league.Town, error) {
	rows, err := q.db.QueryContext(ctx, "SELECT id, name FROM towns ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []league.Town
	for rows.Next() {
		var t league.Town
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (q *queries) SaveTeam(ctx context.Context, t league.Team) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO teams (id, town_id, level, name) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			town_id = excluded.town_id,
			level = excluded.level,
			name = excluded.name`,
		t.ID, t.TownID, t.Level, t.Name,
	)
	return mapUnique(err, league.ErrDuplicate)
}

func (q *queries) GetTeam(ctx context.Context, id league.TeamID) (league.Team, error) {
	var t league.Team
	err := q.db.QueryRowContext(ctx,
		"SELECT id, town_id, level, name FROM teams WHERE id = ?", id,
	).Scan(&t.ID, &t.TownID, &t.Level, &t.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return league.Team{}, league.ErrTeamNotFound
	}
	return t, err
}

func (q *queries) ListTeams(ctx context.Context) ([]league.Team, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT id, town_id, level, name FROM teams ORDER BY town_id, level, name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []league.Team
	for rows.Next() {
		var t league.Team
		if err := rows.Scan(&t.ID, &t.TownID, &t.Level, &t.Name); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// =============================================================================
// UMPIRES
// =============================================================================

const umpireColumns = "id, first_name, last_name, email, phone, adult, patched"

func scanUmpire(row interface{ Scan(...any) error }) (league.Umpire, error) {
	var u league.Umpire
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Phone, &u.Adult, &u.Patched)
	return u, err
}

func (q *queries) SaveUmpire(ctx context.Context, u league.Umpire) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO umpires (`+umpireColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			email = excluded.email,
			phone = excluded.phone,
			adult = excluded.adult,
			patched = excluded.patched`,
		u.ID, u.FirstName, u.LastName, u.Email, u.Phone, u.Adult, u.Patched,
	)
	return mapUnique(err, league.ErrDuplicate)
}

func (q *queries) GetUmpire(ctx context.Context, id league.UmpireID) (league.Umpire, error) {
	u, err := scanUmpire(q.db.QueryRowContext(ctx,
		"SELECT "+umpireColumns+" FROM umpires WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return league.Umpire{}, league.ErrUmpireNotFound
	}
	return u, err
}

func (q *queries) ListUmpires(ctx context.Context) ([]league.Umpire, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+umpireColumns+" FROM umpires ORDER BY last_name, first_name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []league.Umpire
	for rows.Next() {
		u, err := scanUmpire(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// =============================================================================
// GAMES
// =============================================================================

const gameColumns = "g.id, g.date, g.slot, g.field, g.home_team_id, g.away_team_id, g.status, g.version"

// slotOrder sorts the wall-clock slot labels chronologically.
const slotOrder = `CASE g.slot
	WHEN '8:00' THEN 0 WHEN '10:15' THEN 1 WHEN '12:30' THEN 2 WHEN '2:45' THEN 3 ELSE 4 END`

func scanGame(row interface{ Scan(...any) error }) (league.Game, error) {
	var (
		g    league.Game
		date string
	)
	if err := row.Scan(&g.ID, &date, &g.Slot, &g.Field, &g.HomeTeamID, &g.AwayTeamID, &g.Status, &g.Version); err != nil {
		return league.Game{}, err
	}
	d, err := league.ParseDate(date)
	if err != nil {
		return league.Game{}, fmt.Errorf("game %s: %w", g.ID, err)
	}
	g.Date = d
	return g, nil
}

func (q *queries) SaveGame(ctx context.Context, g league.Game) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO games (id, date, slot, field, home_team_id, away_team_id, status, version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date = excluded.date,
			slot = excluded.slot,
			field = excluded.field,
			home_team_id = excluded.home_team_id,
			away_team_id = excluded.away_team_id,
			status = excluded.status`,
		g.ID, g.Date.String(), g.Slot, g.Field, g.HomeTeamID, g.AwayTeamID, g.Status, g.Version,
	)
	return mapUnique(err, league.ErrSlotTaken)
}

func (q *queries) GetGame(ctx context.Context, id league.GameID) (league.Game, error) {
	g, err := scanGame(q.db.QueryRowContext(ctx,
		"SELECT "+gameColumns+" FROM games g WHERE g.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return league.Game{}, league.ErrGameNotFound
	}
	return g, err
}

func (q *queries) ListGames(ctx context.Context, f league.GameFilter) ([]league.Game, error) {
	var (
		where []string
		args  []any
	)
	if f.From != nil {
		where = append(where, "g.date >= ?")
		args = append(args, f.From.String())
	}
	if f.To != nil {
		where = append(where, "g.date <= ?")
		args = append(args, f.To.String())
	}
	if f.Field != "" {
		where = append(where, "g.field = ?")
		args = append(args, f.Field)
	}

	query := "SELECT " + gameColumns + " FROM games g" + whereClause(where) +
		" ORDER BY g.date, " + slotOrder + ", g.field"
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []league.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (q *queries) BumpGameVersion(ctx context.Context, id league.GameID, expected int64) error {
	res, err := q.db.ExecContext(ctx,
		"UPDATE games SET version = version + 1 WHERE id = ? AND version = ?", id, expected)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}
	if _, err := q.GetGame(ctx, id); err != nil {
		return err
	}
	return league.ErrConcurrentModification
}

// =============================================================================
// ASSIGNMENTS
// =============================================================================

const assignmentColumns = "a.id, a.game_id, a.umpire_id, a.position, a.amount_owed, a.pay_rate_id, a.paid, a.work_status, a.pay_override"

func scanAssignment(row interface{ Scan(...any) error }) (league.Assignment, error) {
	var (
		a      league.Assignment
		rateID sql.NullInt64
	)
	if err := row.Scan(&a.ID, &a.GameID, &a.UmpireID, &a.Position, &a.AmountOwed, &rateID, &a.Paid, &a.Work, &a.PayOverride); err != nil {
		return league.Assignment{}, err
	}
	a.PayRateID = league.PayRateID(rateID.Int64)
	return a, nil
}

func nullRateID(id league.PayRateID) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(id), Valid: id != 0}
}

func workStatus(w league.WorkStatus) league.WorkStatus {
	if w == "" {
		return league.WorkAssigned
	}
	return w
}

func (q *queries) GetAssignment(ctx context.Context, id league.AssignmentID) (league.Assignment, error) {
	a, err := scanAssignment(q.db.QueryRowContext(ctx,
		"SELECT "+assignmentColumns+" FROM assignments a WHERE a.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return league.Assignment{}, league.ErrAssignmentNotFound
	}
	return a, err
}

func (q *queries) AssignmentsForGame(ctx context.Context, gameID league.GameID) ([]league.Assignment, error) {
	return q.queryAssignments(ctx,
		"SELECT "+assignmentColumns+" FROM assignments a WHERE a.game_id = ? ORDER BY a.id", gameID)
}

func (q *queries) BookingsForUmpire(ctx context.Context, umpireID league.UmpireID) ([]league.Booking, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT a.id, a.game_id, g.date, g.slot
		FROM assignments a JOIN games g ON g.id = a.game_id
		WHERE a.umpire_id = ?
		ORDER BY g.date`, umpireID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []league.Booking
	for rows.Next() {
		var (
			b    league.Booking
			date string
		)
		if err := rows.Scan(&b.AssignmentID, &b.GameID, &date, &b.Slot); err != nil {
			return nil, err
		}
		if b.Date, err = league.ParseDate(date); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (q *queries) ListAssignments(ctx context.Context, f league.AssignmentFilter) ([]league.Assignment, error) {
	var (
		where []string
		args  []any
	)
	if f.UmpireID != "" {
		where = append(where, "a.umpire_id = ?")
		args = append(args, f.UmpireID)
	}
	if f.From != nil {
		where = append(where, "g.date >= ?")
		args = append(args, f.From.String())
	}
	if f.Until != nil {
		where = append(where, "g.date < ?")
		args = append(args, f.Until.String())
	}
	if f.UnpaidOnly {
		where = append(where, "a.paid = FALSE")
	}
	query := "SELECT " + assignmentColumns +
		" FROM assignments a JOIN games g ON g.id = a.game_id" + whereClause(where) +
		" ORDER BY a.id"
	return q.queryAssignments(ctx, query, args...)
}

func (q *queries) queryAssignments(ctx context.Context, query string, args ...any) ([]league.Assignment, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []league.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (q *queries) InsertAssignment(ctx context.Context, a league.Assignment) error {
	if _, err := q.GetGame(ctx, a.GameID); err != nil {
		return err
	}
	if _, err := q.GetUmpire(ctx, a.UmpireID); err != nil {
		return err
	}
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO assignments (id, game_id, umpire_id, position, amount_owed, pay_rate_id, paid, work_status, pay_override, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.GameID, a.UmpireID, a.Position, a.AmountOwed, nullRateID(a.PayRateID), a.Paid, workStatus(a.Work), a.PayOverride, now(),
	)
	return mapUnique(err, league.ErrDuplicate)
}

func (q *queries) UpdateAssignment(ctx context.Context, a league.Assignment) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE assignments
		SET game_id = ?, umpire_id = ?, position = ?, amount_owed = ?, pay_rate_id = ?, paid = ?,
			work_status = ?, pay_override = ?
		WHERE id = ?`,
		a.GameID, a.UmpireID, a.Position, a.AmountOwed, nullRateID(a.PayRateID), a.Paid,
		workStatus(a.Work), a.PayOverride, a.ID,
	)
	return affectedOne(res, err, league.ErrAssignmentNotFound)
}

func (q *queries) DeleteAssignment(ctx context.Context, id league.AssignmentID) error {
	res, err := q.db.ExecContext(ctx, "DELETE FROM assignments WHERE id = ?", id)
	return affectedOne(res, err, league.ErrAssignmentNotFound)
}

// =============================================================================
// PAY RATES
// =============================================================================

const payRateColumns = "id, effective_date, solo_patched, solo_unpatched, plate_patched, plate_unpatched, base"

func scanPayRate(row interface{ Scan(...any) error }) (league.PayRate, error) {
	var (
		r    league.PayRate
		date string
	)
	err := row.Scan(&r.ID, &date, &r.SoloPatched, &r.SoloUnpatched, &r.PlatePatched, &r.PlateUnpatched, &r.Base)
	if err != nil {
		return league.PayRate{}, err
	}
	if r.EffectiveDate, err = league.ParseDate(date); err != nil {
		return league.PayRate{}, err
	}
	return r, nil
}

func (q *queries) ListPayRates(ctx context.Context) ([]league.PayRate, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+payRateColumns+" FROM pay_rates ORDER BY effective_date, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []league.PayRate
	for rows.Next() {
		r, err := scanPayRate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (q *queries) GetPayRate(ctx context.Context, id league.PayRateID) (league.PayRate, error) {
	r, err := scanPayRate(q.db.QueryRowContext(ctx,
		"SELECT "+payRateColumns+" FROM pay_rates WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return league.PayRate{}, league.ErrPayRateNotFound
	}
	return r, err
}

func (q *queries) SavePayRate(ctx context.Context, r league.PayRate) (league.PayRateID, error) {
	if r.ID == 0 {
		res, err := q.db.ExecContext(ctx, `
			INSERT INTO pay_rates (effective_date, solo_patched, solo_unpatched, plate_patched, plate_unpatched, base, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			r.EffectiveDate.String(), r.SoloPatched, r.SoloUnpatched, r.PlatePatched, r.PlateUnpatched, r.Base, now(),
		)
		if err != nil {
			return 0, err
		}
		id, err := res.LastInsertId()
		return league.PayRateID(id), err
	}

	res, err := q.db.ExecContext(ctx, `
		UPDATE pay_rates
		SET effective_date = ?, solo_patched = ?, solo_unpatched = ?, plate_patched = ?, plate_unpatched = ?, base = ?
		WHERE id = ?`,
		r.EffectiveDate.String(), r.SoloPatched, r.SoloUnpatched, r.PlatePatched, r.PlateUnpatched, r.Base, r.ID,
	)
	if err := affectedOne(res, err, league.ErrPayRateNotFound); err != nil {
		return 0, err
	}
	return r.ID, nil
}

// =============================================================================
// AVAILABILITY
// =============================================================================

// availabilitySlotOrder puts the all-day entry before the slots.
const availabilitySlotOrder = `CASE slot WHEN 'all' THEN -1
	WHEN '8:00' THEN 0 WHEN '10:15' THEN 1 WHEN '12:30' THEN 2 WHEN '2:45' THEN 3 ELSE 4 END`

func (q *queries) SaveAvailability(ctx context.Context, av league.Availability) error {
	if _, err := q.GetUmpire(ctx, av.UmpireID); err != nil {
		return err
	}
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO availability (umpire_id, date, slot, status, notes) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(umpire_id, date, slot) DO UPDATE SET
			status = excluded.status,
			notes = excluded.notes`,
		av.UmpireID, av.Date.String(), av.Slot, av.Status, av.Notes,
	)
	return err
}

func (q *queries) ListAvailability(ctx context.Context, f league.AvailabilityFilter) ([]league.Availability, error) {
	var (
		where []string
		args  []any
	)
	if f.UmpireID != "" {
		where = append(where, "umpire_id = ?")
		args = append(args, f.UmpireID)
	}
	if f.From != nil {
		where = append(where, "date >= ?")
		args = append(args, f.From.String())
	}
	if f.To != nil {
		where = append(where, "date <= ?")
		args = append(args, f.To.String())
	}
	query := "SELECT umpire_id, date, slot, status, notes FROM availability" + whereClause(where) +
		" ORDER BY date, umpire_id, " + availabilitySlotOrder
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []league.Availability
	for rows.Next() {
		var (
			av   league.Availability
			date string
		)
		if err := rows.Scan(&av.UmpireID, &date, &av.Slot, &av.Status, &av.Notes); err != nil {
			return nil, err
		}
		if av.Date, err = league.ParseDate(date); err != nil {
			return nil, err
		}
		out = append(out, av)
	}
	return out, rows.Err()
}

// =============================================================================
// HELPERS
// =============================================================================

func whereClause(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

// affectedOne maps "no row matched" to notFound.
func affectedOne(res sql.Result, err error, notFound error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
