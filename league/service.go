/*
service.go - Transactional operations for assignments and pay

PURPOSE:
  The entry point collaborators call. Every mutating operation is one unit
  of work: read a fresh snapshot, validate, write, recompute, and bump the
  game version. If any step fails nothing is written.

OPERATIONS:
  CreateAssignment   validate then seat an umpire, computing the amount
  EditPosition       move an assignment to another seat (re-validated)
  ReassignUmpire     give the seat to another umpire (re-validated)
  RemoveAssignment   free a seat
  ComputeAmount      read-only amount for an assignment
  SavePayRate        write a rate version and recompute what it affects
  RecomputeAll       bulk recompute of unpaid assignments
  UpdateUmpire       administrative edit; patched changes trigger recompute
  RescheduleGame     move a game; assigned umpires are re-checked for conflicts
  MarkPaid           freeze or unfreeze an amount; unfreezing re-prices
  OverridePay        set or clear a hand-entered amount
  CompleteGame       record the game outcome and who actually worked
  SetAvailability    record an umpire's availability for a date and slot
  SummarizePayments  earned / paid / balance for one umpire

RECOMPUTE:
  Paid assignments are never recomputed. A pay rate save only touches
  assignments whose game date falls in the rate change's affected window.
*/
package league

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
)

// Recorder receives engine events for metrics. See metrics.Prometheus.
type Recorder interface {
	AssignmentRejected(reason Reason)
	AssignmentWritten(op string)
	AmountsRecomputed(n int)
	RateUnresolved()
}

type nopRecorder struct{}

func (nopRecorder) AssignmentRejected(Reason) {}
func (nopRecorder) AssignmentWritten(string)  {}
func (nopRecorder) AmountsRecomputed(int)     {}
func (nopRecorder) RateUnresolved()           {}

type Service struct {
	Store   TxStore
	Logger  *slog.Logger
	Metrics Recorder
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option { return func(s *Service) { s.Logger = l } }
func WithRecorder(r Recorder) Option   { return func(s *Service) { s.Metrics = r } }

func NewService(store TxStore, opts ...Option) *Service {
	s := &Service{
		Store:   store,
		Logger:  slog.Default(),
		Metrics: nopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// =============================================================================
// REFERENCE DATA
// =============================================================================

func (s *Service) CreateTown(ctx context.Context, name string) (Town, error) {
	if name == "" {
		return Town{}, fmt.Errorf("%w: town name is required", ErrInvalidInput)
	}
	town := Town{ID: NewTownID(), Name: name}
	if err := s.Store.SaveTown(ctx, town); err != nil {
		return Town{}, err
	}
	return town, nil
}

func (s *Service) CreateTeam(ctx context.Context, team Team) (Team, error) {
	if !team.Level.Valid() {
		return Team{}, fmt.Errorf("%w: unknown level %q", ErrInvalidInput, team.Level)
	}
	if _, err := s.Store.GetTown(ctx, team.TownID); err != nil {
		return Team{}, err
	}
	if team.ID == "" {
		team.ID = NewTeamID()
	}
	if err := s.Store.SaveTeam(ctx, team); err != nil {
		return Team{}, err
	}
	return team, nil
}

func (s *Service) CreateUmpire(ctx context.Context, u Umpire) (Umpire, error) {
	if u.FirstName == "" || u.LastName == "" || u.Email == "" {
		return Umpire{}, fmt.Errorf("%w: umpire needs first name, last name and email", ErrInvalidInput)
	}
	if u.ID == "" {
		u.ID = NewUmpireID()
	}
	if err := s.Store.SaveUmpire(ctx, u); err != nil {
		return Umpire{}, err
	}
	return u, nil
}

// CreateGame stores a new game. Returns ErrSlotTaken if the field is
// already booked at that date and slot.
func (s *Service) CreateGame(ctx context.Context, g Game) (Game, error) {
	if err := validateGameShape(g); err != nil {
		return Game{}, err
	}
	if _, err := s.Store.GetTeam(ctx, g.HomeTeamID); err != nil {
		return Game{}, fmt.Errorf("home team: %w", err)
	}
	if _, err := s.Store.GetTeam(ctx, g.AwayTeamID); err != nil {
		return Game{}, fmt.Errorf("away team: %w", err)
	}
	if g.ID == "" {
		g.ID = NewGameID()
	}
	if g.Status == "" {
		g.Status = GameScheduled
	}
	if !g.Status.Valid() {
		return Game{}, fmt.Errorf("%w: unknown game status %q", ErrInvalidInput, g.Status)
	}
	g.Version = 0
	if err := s.Store.SaveGame(ctx, g); err != nil {
		return Game{}, err
	}
	return g, nil
}

func validateGameShape(g Game) error {
	switch {
	case g.Date.IsZero():
		return fmt.Errorf("%w: game needs a date", ErrInvalidInput)
	case !g.Slot.Valid():
		return fmt.Errorf("%w: unknown time slot %q", ErrInvalidInput, g.Slot)
	case !g.Field.Valid():
		return fmt.Errorf("%w: unknown field %q", ErrInvalidInput, g.Field)
	case g.HomeTeamID != "" && g.HomeTeamID == g.AwayTeamID:
		return fmt.Errorf("%w: a team cannot play itself", ErrInvalidInput)
	}
	return nil
}

// =============================================================================
// ASSIGNMENTS
// =============================================================================

// CreateAssignment validates and seats an umpire on a game. When no pay
// rate covers the game date the assignment is still created, with an
// unresolved amount.
func (s *Service) CreateAssignment(ctx context.Context, gameID GameID, umpireID UmpireID, position Position) (Assignment, error) {
	var created Assignment
	err := s.Store.WithTx(ctx, func(st Store) error {
		game, err := st.GetGame(ctx, gameID)
		if err != nil {
			return err
		}
		umpire, err := st.GetUmpire(ctx, umpireID)
		if err != nil {
			return err
		}
		occupants, err := st.AssignmentsForGame(ctx, gameID)
		if err != nil {
			return err
		}
		bookings, err := st.BookingsForUmpire(ctx, umpireID)
		if err != nil {
			return err
		}

		c := Candidate{GameID: gameID, UmpireID: umpireID, Position: position}
		if err := Validate(game, occupants, bookings, c); err != nil {
			return err
		}

		a := Assignment{
			ID:       NewAssignmentID(),
			GameID:   gameID,
			UmpireID: umpireID,
			Position: position,
			Work:     WorkAssigned,
		}
		if err := s.price(ctx, st, &a, game, umpire); err != nil {
			return err
		}
		if err := st.InsertAssignment(ctx, a); err != nil {
			return err
		}
		if err := st.BumpGameVersion(ctx, gameID, game.Version); err != nil {
			return err
		}
		created = a
		return nil
	})
	if err != nil {
		s.recordFailure(ctx, "create", err)
		return Assignment{}, err
	}

	s.Metrics.AssignmentWritten("create")
	s.Logger.InfoContext(ctx, "assignment created",
		"assignment_id", created.ID,
		"game_id", created.GameID,
		"umpire_id", created.UmpireID,
		"position", created.Position,
		"resolved", created.Resolved(),
	)
	return created, nil
}

// EditPosition moves an assignment to another seat on the same game.
func (s *Service) EditPosition(ctx context.Context, id AssignmentID, position Position) (Assignment, error) {
	return s.edit(ctx, "edit_position", id, func(a *Assignment) {
		a.Position = position
	})
}

// ReassignUmpire gives an assignment's seat to a different umpire.
func (s *Service) ReassignUmpire(ctx context.Context, id AssignmentID, umpireID UmpireID) (Assignment, error) {
	return s.edit(ctx, "reassign", id, func(a *Assignment) {
		a.UmpireID = umpireID
	})
}

// edit re-runs validation against the game's other assignments and the
// (possibly new) umpire's other bookings, then recomputes the amount.
func (s *Service) edit(ctx context.Context, op string, id AssignmentID, mutate func(*Assignment)) (Assignment, error) {
	var updated Assignment
	err := s.Store.WithTx(ctx, func(st Store) error {
		current, err := st.GetAssignment(ctx, id)
		if err != nil {
			return err
		}
		if current.Paid {
			return fmt.Errorf("%w: unmark payment before editing", ErrAlreadyPaid)
		}
		next := current
		mutate(&next)
		// A new seat or umpire is priced from the rate log again.
		next.PayOverride = false

		game, err := st.GetGame(ctx, next.GameID)
		if err != nil {
			return err
		}
		umpire, err := st.GetUmpire(ctx, next.UmpireID)
		if err != nil {
			return err
		}
		onGame, err := st.AssignmentsForGame(ctx, next.GameID)
		if err != nil {
			return err
		}
		bookings, err := st.BookingsForUmpire(ctx, next.UmpireID)
		if err != nil {
			return err
		}

		c := Candidate{GameID: next.GameID, UmpireID: next.UmpireID, Position: next.Position}
		if err := Validate(game, others(onGame, id), bookings, c); err != nil {
			return err
		}

		if err := s.price(ctx, st, &next, game, umpire); err != nil {
			return err
		}
		if err := st.UpdateAssignment(ctx, next); err != nil {
			return err
		}
		if err := st.BumpGameVersion(ctx, game.ID, game.Version); err != nil {
			return err
		}
		updated = next
		return nil
	})
	if err != nil {
		s.recordFailure(ctx, op, err)
		return Assignment{}, err
	}

	s.Metrics.AssignmentWritten(op)
	s.Logger.InfoContext(ctx, "assignment updated",
		"op", op,
		"assignment_id", updated.ID,
		"umpire_id", updated.UmpireID,
		"position", updated.Position,
		"resolved", updated.Resolved(),
	)
	return updated, nil
}

// RemoveAssignment frees a seat. The only check is that the assignment exists.
func (s *Service) RemoveAssignment(ctx context.Context, id AssignmentID) error {
	err := s.Store.WithTx(ctx, func(st Store) error {
		a, err := st.GetAssignment(ctx, id)
		if err != nil {
			return err
		}
		if a.Paid {
			return fmt.Errorf("%w: unmark payment before removing", ErrAlreadyPaid)
		}
		game, err := st.GetGame(ctx, a.GameID)
		if err != nil {
			return err
		}
		if err := st.DeleteAssignment(ctx, id); err != nil {
			return err
		}
		return st.BumpGameVersion(ctx, game.ID, game.Version)
	})
	if err != nil {
		s.recordFailure(ctx, "remove", err)
		return err
	}
	s.Metrics.AssignmentWritten("remove")
	s.Logger.InfoContext(ctx, "assignment removed", "assignment_id", id)
	return nil
}

// MarkPaid sets or clears the paid flag. Paying an unresolved assignment
// is refused. Clearing the flag re-prices the assignment, since rates or the
// umpire may have changed while it was frozen.
func (s *Service) MarkPaid(ctx context.Context, id AssignmentID, paid bool) (Assignment, error) {
	var updated Assignment
	err := s.Store.WithTx(ctx, func(st Store) error {
		a, err := st.GetAssignment(ctx, id)
		if err != nil {
			return err
		}
		if paid && !a.Resolved() {
			return ErrUnresolvedPayment
		}
		a.Paid = paid
		if !paid {
			game, err := st.GetGame(ctx, a.GameID)
			if err != nil {
				return err
			}
			umpire, err := st.GetUmpire(ctx, a.UmpireID)
			if err != nil {
				return err
			}
			if err := s.price(ctx, st, &a, game, umpire); err != nil {
				return err
			}
		}
		if err := st.UpdateAssignment(ctx, a); err != nil {
			return err
		}
		updated = a
		return nil
	})
	if err != nil {
		return Assignment{}, err
	}
	s.Logger.InfoContext(ctx, "payment marked", "assignment_id", id, "paid", paid)
	return updated, nil
}

// OverridePay sets a hand-entered amount that recompute will not touch.
// A nil amount clears the override and re-prices from the rate log.
func (s *Service) OverridePay(ctx context.Context, id AssignmentID, amount *decimal.Decimal) (Assignment, error) {
	if amount != nil {
		if err := ValidateAmount("amount", *amount); err != nil {
			return Assignment{}, err
		}
	}
	var updated Assignment
	err := s.Store.WithTx(ctx, func(st Store) error {
		a, err := st.GetAssignment(ctx, id)
		if err != nil {
			return err
		}
		if a.Paid {
			return fmt.Errorf("%w: unmark payment before changing the amount", ErrAlreadyPaid)
		}
		if amount != nil {
			a.PayOverride = true
			a.AmountOwed = decimal.NewNullDecimal(*amount)
			a.PayRateID = 0
		} else {
			a.PayOverride = false
			game, err := st.GetGame(ctx, a.GameID)
			if err != nil {
				return err
			}
			umpire, err := st.GetUmpire(ctx, a.UmpireID)
			if err != nil {
				return err
			}
			if err := s.price(ctx, st, &a, game, umpire); err != nil {
				return err
			}
		}
		if err := st.UpdateAssignment(ctx, a); err != nil {
			return err
		}
		updated = a
		return nil
	})
	if err != nil {
		s.recordFailure(ctx, "override", err)
		return Assignment{}, err
	}
	s.Metrics.AssignmentWritten("override")
	s.Logger.InfoContext(ctx, "pay override set",
		"assignment_id", id,
		"override", updated.PayOverride,
		"resolved", updated.Resolved(),
	)
	return updated, nil
}

// ComputeAmount resolves what an assignment pays right now without
// writing anything.
func (s *Service) ComputeAmount(ctx context.Context, id AssignmentID) (Payment, error) {
	a, err := s.Store.GetAssignment(ctx, id)
	if err != nil {
		return Payment{}, err
	}
	game, err := s.Store.GetGame(ctx, a.GameID)
	if err != nil {
		return Payment{}, err
	}
	umpire, err := s.Store.GetUmpire(ctx, a.UmpireID)
	if err != nil {
		return Payment{}, err
	}
	rates, err := s.Store.ListPayRates(ctx)
	if err != nil {
		return Payment{}, err
	}
	return NewCalculator(rates).Owed(a, game, umpire)
}

// price computes a's amount from the current rate log. An unresolvable
// rate leaves the amount NULL and is not an error.
func (s *Service) price(ctx context.Context, st Store, a *Assignment, game Game, umpire Umpire) error {
	rates, err := st.ListPayRates(ctx)
	if err != nil {
		return err
	}
	if _, err := NewCalculator(rates).Apply(a, game, umpire); err != nil {
		if !errors.Is(err, ErrRateUnresolvable) {
			return err
		}
		s.Metrics.RateUnresolved()
		s.Logger.WarnContext(ctx, "no applicable pay rate",
			"assignment_id", a.ID,
			"game_date", game.Date.String(),
		)
	}
	return nil
}

func (s *Service) recordFailure(ctx context.Context, op string, err error) {
	var rej *RejectionError
	if errors.As(err, &rej) {
		s.Metrics.AssignmentRejected(rej.Reason)
		s.Logger.InfoContext(ctx, "assignment rejected",
			"op", op,
			"reason", string(rej.Reason),
			"game_id", rej.GameID,
			"umpire_id", rej.UmpireID,
			"position", rej.Position,
		)
		return
	}
	if IsRetryable(err) {
		s.Logger.WarnContext(ctx, "assignment write lost a race", "op", op, "error", err)
		return
	}
	s.Logger.ErrorContext(ctx, "assignment write failed", "op", op, "error", err)
}

// =============================================================================
// PAY RATES AND RECOMPUTE
// =============================================================================

// SavePayRate stores a rate version and recomputes the unpaid assignments
// whose resolved rate may have changed, in the same unit of work.
// Returns the stored rate and the number of assignments updated.
func (s *Service) SavePayRate(ctx context.Context, rate PayRate) (PayRate, int, error) {
	if err := rate.Validate(); err != nil {
		return PayRate{}, 0, err
	}
	var updated int
	err := s.Store.WithTx(ctx, func(st Store) error {
		change := RateChange{Current: rate.EffectiveDate}
		if rate.ID != 0 {
			previous, err := st.GetPayRate(ctx, rate.ID)
			if err != nil {
				return err
			}
			prevDate := previous.EffectiveDate
			change.Previous = &prevDate
		}
		id, err := st.SavePayRate(ctx, rate)
		if err != nil {
			return err
		}
		rate.ID = id
		change.PayRateID = id

		updated, err = s.recompute(ctx, st, &change, "")
		return err
	})
	if err != nil {
		return PayRate{}, 0, err
	}
	s.Metrics.AmountsRecomputed(updated)
	s.Logger.InfoContext(ctx, "pay rate saved",
		"pay_rate_id", rate.ID,
		"effective_date", rate.EffectiveDate.String(),
		"recomputed", updated,
	)
	return rate, updated, nil
}

// RecomputeAll recomputes unpaid assignments. A nil change recomputes all
// of them; otherwise only the change's affected window. Returns how many
// assignments changed amount or rate.
func (s *Service) RecomputeAll(ctx context.Context, change *RateChange) (int, error) {
	var updated int
	err := s.Store.WithTx(ctx, func(st Store) error {
		var err error
		updated, err = s.recompute(ctx, st, change, "")
		return err
	})
	if err != nil {
		return 0, err
	}
	s.Metrics.AmountsRecomputed(updated)
	s.Logger.InfoContext(ctx, "amounts recomputed", "updated", updated)
	return updated, nil
}

func (s *Service) recompute(ctx context.Context, st Store, change *RateChange, umpireID UmpireID) (int, error) {
	rates, err := st.ListPayRates(ctx)
	if err != nil {
		return 0, err
	}
	calc := NewCalculator(rates)

	filter := AssignmentFilter{UmpireID: umpireID, UnpaidOnly: true}
	if change != nil {
		w := change.AffectedWindow(calc.Rates)
		filter.From = &w.From
		filter.Until = w.Until
	}
	assignments, err := st.ListAssignments(ctx, filter)
	if err != nil {
		return 0, err
	}

	games := make(map[GameID]Game)
	umpires := make(map[UmpireID]Umpire)
	updated := 0
	for _, a := range assignments {
		game, ok := games[a.GameID]
		if !ok {
			if game, err = st.GetGame(ctx, a.GameID); err != nil {
				return 0, err
			}
			games[a.GameID] = game
		}
		umpire, ok := umpires[a.UmpireID]
		if !ok {
			if umpire, err = st.GetUmpire(ctx, a.UmpireID); err != nil {
				return 0, err
			}
			umpires[a.UmpireID] = umpire
		}

		changed, err := calc.Apply(&a, game, umpire)
		if err != nil && !errors.Is(err, ErrRateUnresolvable) {
			return 0, err
		}
		if !changed {
			continue
		}
		if err := st.UpdateAssignment(ctx, a); err != nil {
			return 0, err
		}
		updated++
	}
	return updated, nil
}

// =============================================================================
// REFERENCE DATA EDITS THAT TRIGGER RECOMPUTE
// =============================================================================

// UpdateUmpire applies an administrative edit. Identity fields are kept
// from the stored record; Adult, Patched and Phone are taken from u.
// Returns the number of assignments recomputed.
func (s *Service) UpdateUmpire(ctx context.Context, u Umpire) (Umpire, int, error) {
	var (
		saved   Umpire
		updated int
	)
	err := s.Store.WithTx(ctx, func(st Store) error {
		current, err := st.GetUmpire(ctx, u.ID)
		if err != nil {
			return err
		}
		next := current
		next.Adult = u.Adult
		next.Patched = u.Patched
		if u.Phone != "" {
			next.Phone = u.Phone
		}
		if err := st.SaveUmpire(ctx, next); err != nil {
			return err
		}
		saved = next
		if current.Patched == next.Patched {
			return nil
		}
		updated, err = s.recompute(ctx, st, nil, next.ID)
		return err
	})
	if err != nil {
		return Umpire{}, 0, err
	}
	if updated > 0 {
		s.Metrics.AmountsRecomputed(updated)
	}
	s.Logger.InfoContext(ctx, "umpire updated",
		"umpire_id", saved.ID,
		"patched", saved.Patched,
		"recomputed", updated,
	)
	return saved, updated, nil
}

// RescheduleGame moves a game to a new date, slot or field. Every umpire
// already on the game must be free at the new slot. Amounts are
// recomputed against the new date.
func (s *Service) RescheduleGame(ctx context.Context, id GameID, date Date, slot TimeSlot, field Field) (Game, int, error) {
	var (
		moved   Game
		updated int
	)
	err := s.Store.WithTx(ctx, func(st Store) error {
		game, err := st.GetGame(ctx, id)
		if err != nil {
			return err
		}
		next := game
		next.Date, next.Slot, next.Field = date, slot, field
		if next.Status == GamePostponed {
			next.Status = GameScheduled
		}
		if err := validateGameShape(next); err != nil {
			return err
		}

		seated, err := st.AssignmentsForGame(ctx, id)
		if err != nil {
			return err
		}
		for _, a := range seated {
			bookings, err := st.BookingsForUmpire(ctx, a.UmpireID)
			if err != nil {
				return err
			}
			c := Candidate{GameID: id, UmpireID: a.UmpireID, Position: a.Position}
			// Only the double-booking check applies: the crew itself is unchanged.
			if err := Validate(next, nil, bookings, c); err != nil {
				return err
			}
		}

		if err := st.SaveGame(ctx, next); err != nil {
			return err
		}
		if err := st.BumpGameVersion(ctx, id, game.Version); err != nil {
			return err
		}
		next.Version = game.Version + 1
		moved = next

		if game.Date.Equal(next.Date) {
			return nil
		}
		rates, err := st.ListPayRates(ctx)
		if err != nil {
			return err
		}
		calc := NewCalculator(rates)
		for _, a := range seated {
			umpire, err := st.GetUmpire(ctx, a.UmpireID)
			if err != nil {
				return err
			}
			changed, err := calc.Apply(&a, next, umpire)
			if err != nil && !errors.Is(err, ErrRateUnresolvable) {
				return err
			}
			if !changed {
				continue
			}
			if err := st.UpdateAssignment(ctx, a); err != nil {
				return err
			}
			updated++
		}
		return nil
	})
	if err != nil {
		s.recordFailure(ctx, "reschedule", err)
		return Game{}, 0, err
	}
	s.Logger.InfoContext(ctx, "game rescheduled",
		"game_id", moved.ID,
		"date", moved.Date.String(),
		"slot", string(moved.Slot),
		"field", string(moved.Field),
		"recomputed", updated,
	)
	return moved, updated, nil
}

// CompleteGame records what happened to a game. work maps assignments on
// the game to what their umpire did; a cancelled game cancels every unpaid
// assignment not listed. Changed assignments lose any manual override and
// are re-priced: worked seats from the rate log, the rest at zero.
func (s *Service) CompleteGame(ctx context.Context, id GameID, status GameStatus, work map[AssignmentID]WorkStatus) (Game, []Assignment, error) {
	if status != GameCompleted && status != GamePostponed && status != GameCancelled {
		return Game{}, nil, fmt.Errorf("%w: cannot complete a game as %q", ErrInvalidInput, status)
	}
	for aid, w := range work {
		if w != WorkWorked && w != WorkNoShow && w != WorkCancelled {
			return Game{}, nil, fmt.Errorf("%w: assignment %s: unknown work status %q", ErrInvalidInput, aid, w)
		}
	}

	var (
		done  Game
		crew  []Assignment
		moved int
	)
	err := s.Store.WithTx(ctx, func(st Store) error {
		game, err := st.GetGame(ctx, id)
		if err != nil {
			return err
		}
		seated, err := st.AssignmentsForGame(ctx, id)
		if err != nil {
			return err
		}
		onGame := make(map[AssignmentID]bool, len(seated))
		for _, a := range seated {
			onGame[a.ID] = true
		}
		for aid := range work {
			if !onGame[aid] {
				return fmt.Errorf("%w: assignment %s is not on game %s", ErrInvalidInput, aid, id)
			}
		}

		rates, err := st.ListPayRates(ctx)
		if err != nil {
			return err
		}
		calc := NewCalculator(rates)

		game.Status = status
		for _, a := range seated {
			next, ok := work[a.ID]
			if !ok && status == GameCancelled && !a.Paid {
				next, ok = WorkCancelled, true
			}
			if !ok || next == a.Work {
				crew = append(crew, a)
				continue
			}
			if a.Paid {
				return fmt.Errorf("%w: assignment %s", ErrAlreadyPaid, a.ID)
			}
			umpire, err := st.GetUmpire(ctx, a.UmpireID)
			if err != nil {
				return err
			}
			a.Work = next
			a.PayOverride = false
			if _, err := calc.Apply(&a, game, umpire); err != nil {
				if !errors.Is(err, ErrRateUnresolvable) {
					return err
				}
				s.Metrics.RateUnresolved()
			}
			if err := st.UpdateAssignment(ctx, a); err != nil {
				return err
			}
			moved++
			crew = append(crew, a)
		}

		if err := st.SaveGame(ctx, game); err != nil {
			return err
		}
		if err := st.BumpGameVersion(ctx, id, game.Version); err != nil {
			return err
		}
		game.Version++
		done = game
		return nil
	})
	if err != nil {
		s.recordFailure(ctx, "complete", err)
		return Game{}, nil, err
	}
	s.Metrics.AssignmentWritten("complete")
	s.Logger.InfoContext(ctx, "game completed",
		"game_id", done.ID,
		"status", string(done.Status),
		"assignments_changed", moved,
	)
	return done, crew, nil
}

// =============================================================================
// AVAILABILITY
// =============================================================================

// SetAvailability records an umpire's answer for a date and slot, replacing
// any earlier answer for the same slot.
func (s *Service) SetAvailability(ctx context.Context, av Availability) (Availability, error) {
	if err := av.Validate(); err != nil {
		return Availability{}, err
	}
	if _, err := s.Store.GetUmpire(ctx, av.UmpireID); err != nil {
		return Availability{}, err
	}
	if err := s.Store.SaveAvailability(ctx, av); err != nil {
		return Availability{}, err
	}
	s.Logger.InfoContext(ctx, "availability set",
		"umpire_id", av.UmpireID,
		"date", av.Date.String(),
		"slot", string(av.Slot),
		"status", string(av.Status),
	)
	return av, nil
}

func (s *Service) ListAvailability(ctx context.Context, filter AvailabilityFilter) ([]Availability, error) {
	if filter.UmpireID != "" {
		if _, err := s.Store.GetUmpire(ctx, filter.UmpireID); err != nil {
			return nil, err
		}
	}
	return s.Store.ListAvailability(ctx, filter)
}

// =============================================================================
// REPORTING
// =============================================================================

// SummarizePayments returns earned, paid and balance for one umpire.
func (s *Service) SummarizePayments(ctx context.Context, umpireID UmpireID) (PaymentSummary, error) {
	if _, err := s.Store.GetUmpire(ctx, umpireID); err != nil {
		return PaymentSummary{}, err
	}
	assignments, err := s.Store.ListAssignments(ctx, AssignmentFilter{UmpireID: umpireID})
	if err != nil {
		return PaymentSummary{}, err
	}
	return Summarize(umpireID, assignments), nil
}

// WeeklyTotals reports per-week earned, paid and due between from and to
// (inclusive). Nil bounds are open.
func (s *Service) WeeklyTotals(ctx context.Context, from, to *Date) ([]WeekTotal, error) {
	games, err := s.Store.ListGames(ctx, GameFilter{From: from, To: to})
	if err != nil {
		return nil, err
	}
	filter := AssignmentFilter{From: from}
	if to != nil {
		until := to.AddDays(1)
		filter.Until = &until
	}
	assignments, err := s.Store.ListAssignments(ctx, filter)
	if err != nil {
		return nil, err
	}
	return WeeklyTotals(games, assignments), nil
}

// Coverage reports games that still need umpires, each with the umpires
// who said they can work it and are not booked elsewhere at that time.
func (s *Service) Coverage(ctx context.Context, filter GameFilter) (CoverageReport, error) {
	games, err := s.Store.ListGames(ctx, filter)
	if err != nil {
		return CoverageReport{}, err
	}
	// Bookings on other fields still make an umpire busy, so the roster
	// sees every game in the date range.
	all := games
	if filter.Field != "" {
		if all, err = s.Store.ListGames(ctx, GameFilter{From: filter.From, To: filter.To}); err != nil {
			return CoverageReport{}, err
		}
	}
	af := AssignmentFilter{From: filter.From}
	if filter.To != nil {
		until := filter.To.AddDays(1)
		af.Until = &until
	}
	assignments, err := s.Store.ListAssignments(ctx, af)
	if err != nil {
		return CoverageReport{}, err
	}
	report := Coverage(games, assignments)
	if len(report.Unassigned) == 0 && len(report.PartiallyStaffed) == 0 {
		return report, nil
	}

	umpires, err := s.Store.ListUmpires(ctx)
	if err != nil {
		return CoverageReport{}, err
	}
	availability, err := s.Store.ListAvailability(ctx, AvailabilityFilter{From: filter.From, To: filter.To})
	if err != nil {
		return CoverageReport{}, err
	}
	roster := NewRoster(umpires, availability, all, assignments)
	for i := range report.Unassigned {
		report.Unassigned[i].Available = roster.AvailableFor(report.Unassigned[i].Game)
	}
	for i := range report.PartiallyStaffed {
		report.PartiallyStaffed[i].Available = roster.AvailableFor(report.PartiallyStaffed[i].Game)
	}
	return report, nil
}
