// Package store provides in-memory league.Store implementations.
package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/warp/umpire-engine/league"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory is a league.TxStore backed by maps. WithTx holds the write lock
// for the whole unit of work and restores a snapshot on error.
type Memory struct {
	mu sync.RWMutex
	st *state
}

type state struct {
	towns       map[league.TownID]league.Town
	teams       map[league.TeamID]league.Team
	umpires     map[league.UmpireID]league.Umpire
	games       map[league.GameID]league.Game
	assignments map[league.AssignmentID]league.Assignment
	rates       map[league.PayRateID]league.PayRate
	nextRateID  league.PayRateID
	available   map[availabilityKey]league.Availability
}

type availabilityKey struct {
	umpire league.UmpireID
	date   league.Date
	slot   league.TimeSlot
}

var (
	_ league.TxStore = (*Memory)(nil)
	_ league.Store   = (*state)(nil)
)

func newState() *state {
	return &state{
		towns:       make(map[league.TownID]league.Town),
		teams:       make(map[league.TeamID]league.Team),
		umpires:     make(map[league.UmpireID]league.Umpire),
		games:       make(map[league.GameID]league.Game),
		assignments: make(map[league.AssignmentID]league.Assignment),
		rates:       make(map[league.PayRateID]league.PayRate),
		nextRateID:  1,
		available:   make(map[availabilityKey]league.Availability),
	}
}

func NewMemory() *Memory {
	return &Memory{st: newState()}
}

// WithTx executes fn within a transaction.
// For memory store, this is simulated with a snapshot + rollback on error.
func (m *Memory) WithTx(ctx context.Context, fn func(league.Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.st.clone()
	if err := fn(m.st); err != nil {
		m.st = snapshot
		return err
	}
	return nil
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.towns {
		c.towns[k] = v
	}
	for k, v := range s.teams {
		c.teams[k] = v
	}
	for k, v := range s.umpires {
		c.umpires[k] = v
	}
	for k, v := range s.games {
		c.games[k] = v
	}
	for k, v := range s.assignments {
		c.assignments[k] = v
	}
	for k, v := range s.rates {
		c.rates[k] = v
	}
	for k, v := range s.available {
		c.available[k] = v
	}
	c.nextRateID = s.nextRateID
	return c
}

// =============================================================================
// LOCKED ENTRY POINTS
// =============================================================================

func (m *Memory) read(fn func(*state) error) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fn(m.st)
}

func (m *Memory) write(fn func(*state) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(m.st)
}

func (m *Memory) SaveTown(ctx context.Context, t league.Town) error {
	return m.write(func(s *state) error { return s.SaveTown(ctx, t) })
}

func (m *Memory) GetTown(ctx context.Context, id league.TownID) (t league.Town, err error) {
	err = m.read(func(s *state) error { t, err = s.GetTown(ctx, id); return err })
	return t, err
}

func (m *Memory) ListTowns(ctx context.Context) (out []league.Town, err error) {
	err = m.read(func(s *state) error { out, err = s.ListTowns(ctx); return err })
	return out, err
}

func (m *Memory) SaveTeam(ctx context.Context, t league.Team) error {
	return m.write(func(s *state) error { return s.SaveTeam(ctx, t) })
}

func (m *Memory) GetTeam(ctx context.Context, id league.TeamID) (t league.Team, err error) {
	err = m.read(func(s *state) error { t, err = s.GetTeam(ctx, id); return err })
	return t, err
}

func (m *Memory) ListTeams(ctx context.Context) (out []league.Team, err error) {
	err = m.read(func(s *state) error { out, err = s.ListTeams(ctx); return err })
	return out, err
}

func (m *Memory) SaveUmpire(ctx context.Context, u league.Umpire) error {
	return m.write(func(s *state) error { return s.SaveUmpire(ctx, u) })
}

func (m *Memory) GetUmpire(ctx context.Context, id league.UmpireID) (u league.Umpire, err error) {
	err = m.read(func(s *state) error { u, err = s.GetUmpire(ctx, id); return err })
	return u, err
}

func (m *Memory) ListUmpires(ctx context.Context) (out []league.Umpire, err error) {
	err = m.read(func(s *state) error { out, err = s.ListUmpires(ctx); return err })
	return out, err
}

func (m *Memory) SaveGame(ctx context.Context, g league.Game) error {
	return m.write(func(s *state) error { return s.SaveGame(ctx, g) })
}

func (m *Memory) GetGame(ctx context.Context, id league.GameID) (g league.Game, err error) {
	err = m.read(func(s *state) error { g, err = s.GetGame(ctx, id); return err })
	return g, err
}

func (m *Memory) ListGames(ctx context.Context, f league.GameFilter) (out []league.Game, err error) {
	err = m.read(func(s *state) error { out, err = s.ListGames(ctx, f); return err })
	return out, err
}

func (m *Memory) BumpGameVersion(ctx context.Context, id league.GameID, expected int64) error {
	return m.write(func(s *state) error { return s.BumpGameVersion(ctx, id, expected) })
}

func (m *Memory) GetAssignment(ctx context.Context, id league.AssignmentID) (a league.Assignment, err error) {
	err = m.read(func(s *state) error { a, err = s.GetAssignment(ctx, id); return err })
	return a, err
}

func (m *Memory) AssignmentsForGame(ctx context.Context, id league.GameID) (out []league.Assignment, err error) {
	err = m.read(func(s *state) error { out, err = s.AssignmentsForGame(ctx, id); return err })
	return out, err
}

func (m *Memory) BookingsForUmpire(ctx context.Context, id league.UmpireID) (out []league.Booking, err error) {
	err = m.read(func(s *state) error { out, err = s.BookingsForUmpire(ctx, id); return err })
	return out, err
}

func (m *Memory) ListAssignments(ctx context.Context, f league.AssignmentFilter) (out []league.Assignment, err error) {
	err = m.read(func(s *state) error { out, err = s.ListAssignments(ctx, f); return err })
	return out, err
}

func (m *Memory) InsertAssignment(ctx context.Context, a league.Assignment) error {
	return m.write(func(s *state) error { return s.InsertAssignment(ctx, a) })
}

func (m *Memory) UpdateAssignment(ctx context.Context, a league.Assignment) error {
	return m.write(func(s *state) error { return s.UpdateAssignment(ctx, a) })
}

func (m *Memory) DeleteAssignment(ctx context.Context, id league.AssignmentID) error {
	return m.write(func(s *state) error { return s.DeleteAssignment(ctx, id) })
}

func (m *Memory) ListPayRates(ctx context.Context) (out []league.PayRate, err error) {
	err = m.read(func(s *state) error { out, err = s.ListPayRates(ctx); return err })
	return out, err
}

func (m *Memory) GetPayRate(ctx context.Context, id league.PayRateID) (r league.PayRate, err error) {
	err = m.read(func(s *state) error { r, err = s.GetPayRate(ctx, id); return err })
	return r, err
}

func (m *Memory) SavePayRate(ctx context.Context, r league.PayRate) (id league.PayRateID, err error) {
	err = m.write(func(s *state) error { id, err = s.SavePayRate(ctx, r); return err })
	return id, err
}

func (m *Memory) SaveAvailability(ctx context.Context, av league.Availability) error {
	return m.write(func(s *state) error { return s.SaveAvailability(ctx, av) })
}

func (m *Memory) ListAvailability(ctx context.Context, f league.AvailabilityFilter) (out []league.Availability, err error) {
	err = m.read(func(s *state) error { out, err = s.ListAvailability(ctx, f); return err })
	return out, err
}

// =============================================================================
// UNLOCKED STATE - Also the transactional view handed to WithTx callbacks
// =============================================================================

func (s *state) SaveTown(_ context.Context, t league.Town) error {
	for id, other := range s.towns {
		if id != t.ID && strings.EqualFold(other.Name, t.Name) {
			return league.ErrDuplicate
		}
	}
	s.towns[t.ID] = t
	return nil
}

func (s *state) GetTown(_ context.Context, id league.TownID) (league.Town, error) {
	t, ok := s.towns[id]
	if !ok {
		return league.Town{}, league.ErrTownNotFound
	}
	return t, nil
}

func (s *state) ListTowns(_ context.Context) ([]league.Town, error) {
	out := make([]league.Town, 0, len(s.towns))
	for _, t := range s.towns {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *state) SaveTeam(_ context.Context, t league.Team) error {
	if _, ok := s.towns[t.TownID]; !ok {
		return league.ErrTownNotFound
	}
	for id, other := range s.teams {
		if id != t.ID && other.TownID == t.TownID && other.Level == t.Level && other.Name == t.Name {
			return league.ErrDuplicate
		}
	}
	s.teams[t.ID] = t
	return nil
}

func (s *state) GetTeam(_ context.Context, id league.TeamID) (league.Team, error) {
	t, ok := s.teams[id]
	if !ok {
		return league.Team{}, league.ErrTeamNotFound
	}
	return t, nil
}

func (s *state) ListTeams(_ context.Context) ([]league.Team, error) {
	out := make([]league.Team, 0, len(s.teams))
	for _, t := range s.teams {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TownID != out[j].TownID {
			return out[i].TownID < out[j].TownID
		}
		return out[i].Level < out[j].Level
	})
	return out, nil
}

func (s *state) SaveUmpire(_ context.Context, u league.Umpire) error {
	for id, other := range s.umpires {
		if id != u.ID && strings.EqualFold(other.Email, u.Email) {
			return league.ErrDuplicate
		}
	}
	s.umpires[u.ID] = u
	return nil
}

func (s *state) GetUmpire(_ context.Context, id league.UmpireID) (league.Umpire, error) {
	u, ok := s.umpires[id]
	if !ok {
		return league.Umpire{}, league.ErrUmpireNotFound
	}
	return u, nil
}

func (s *state) ListUmpires(_ context.Context) ([]league.Umpire, error) {
	out := make([]league.Umpire, 0, len(s.umpires))
	for _, u := range s.umpires {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		return out[i].FirstName < out[j].FirstName
	})
	return out, nil
}

func (s *state) SaveGame(_ context.Context, g league.Game) error {
	for id, other := range s.games {
		if id != g.ID && other.Date.Equal(g.Date) && other.Slot == g.Slot && other.Field == g.Field {
			return league.ErrSlotTaken
		}
	}
	if existing, ok := s.games[g.ID]; ok {
		g.Version = existing.Version
	}
	s.games[g.ID] = g
	return nil
}

func (s *state) GetGame(_ context.Context, id league.GameID) (league.Game, error) {
	g, ok := s.games[id]
	if !ok {
		return league.Game{}, league.ErrGameNotFound
	}
	return g, nil
}

func (s *state) ListGames(_ context.Context, f league.GameFilter) ([]league.Game, error) {
	var out []league.Game
	for _, g := range s.games {
		if f.From != nil && g.Date.Before(*f.From) {
			continue
		}
		if f.To != nil && g.Date.After(*f.To) {
			continue
		}
		if f.Field != "" && g.Field != f.Field {
			continue
		}
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.Slot != b.Slot {
			return a.Slot.Order() < b.Slot.Order()
		}
		return a.Field < b.Field
	})
	return out, nil
}

func (s *state) BumpGameVersion(_ context.Context, id league.GameID, expected int64) error {
	g, ok := s.games[id]
	if !ok {
		return league.ErrGameNotFound
	}
	if g.Version != expected {
		return league.ErrConcurrentModification
	}
	g.Version++
	s.games[id] = g
	return nil
}

func (s *state) GetAssignment(_ context.Context, id league.AssignmentID) (league.Assignment, error) {
	a, ok := s.assignments[id]
	if !ok {
		return league.Assignment{}, league.ErrAssignmentNotFound
	}
	return a, nil
}

func (s *state) AssignmentsForGame(_ context.Context, id league.GameID) ([]league.Assignment, error) {
	var out []league.Assignment
	for _, a := range s.assignments {
		if a.GameID == id {
			out = append(out, a)
		}
	}
	sortAssignments(out)
	return out, nil
}

func (s *state) BookingsForUmpire(_ context.Context, id league.UmpireID) ([]league.Booking, error) {
	var out []league.Booking
	for _, a := range s.assignments {
		if a.UmpireID != id {
			continue
		}
		g := s.games[a.GameID]
		out = append(out, league.Booking{
			AssignmentID: a.ID,
			GameID:       a.GameID,
			Date:         g.Date,
			Slot:         g.Slot,
		})
	}
	return out, nil
}

func (s *state) ListAssignments(_ context.Context, f league.AssignmentFilter) ([]league.Assignment, error) {
	var out []league.Assignment
	for _, a := range s.assignments {
		if f.UmpireID != "" && a.UmpireID != f.UmpireID {
			continue
		}
		if f.UnpaidOnly && a.Paid {
			continue
		}
		g := s.games[a.GameID]
		if f.From != nil && g.Date.Before(*f.From) {
			continue
		}
		if f.Until != nil && !g.Date.Before(*f.Until) {
			continue
		}
		out = append(out, a)
	}
	sortAssignments(out)
	return out, nil
}

func (s *state) InsertAssignment(_ context.Context, a league.Assignment) error {
	if _, ok := s.assignments[a.ID]; ok {
		return league.ErrDuplicate
	}
	if _, ok := s.games[a.GameID]; !ok {
		return league.ErrGameNotFound
	}
	if _, ok := s.umpires[a.UmpireID]; !ok {
		return league.ErrUmpireNotFound
	}
	s.assignments[a.ID] = a
	return nil
}

func (s *state) UpdateAssignment(_ context.Context, a league.Assignment) error {
	if _, ok := s.assignments[a.ID]; !ok {
		return league.ErrAssignmentNotFound
	}
	s.assignments[a.ID] = a
	return nil
}

func (s *state) DeleteAssignment(_ context.Context, id league.AssignmentID) error {
	if _, ok := s.assignments[id]; !ok {
		return league.ErrAssignmentNotFound
	}
	delete(s.assignments, id)
	return nil
}

func (s *state) ListPayRates(_ context.Context) ([]league.PayRate, error) {
	out := make([]league.PayRate, 0, len(s.rates))
	for _, r := range s.rates {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *state) GetPayRate(_ context.Context, id league.PayRateID) (league.PayRate, error) {
	r, ok := s.rates[id]
	if !ok {
		return league.PayRate{}, league.ErrPayRateNotFound
	}
	return r, nil
}

func (s *state) SavePayRate(_ context.Context, r league.PayRate) (league.PayRateID, error) {
	if r.ID == 0 {
		r.ID = s.nextRateID
		s.nextRateID++
	} else if _, ok := s.rates[r.ID]; !ok {
		return 0, league.ErrPayRateNotFound
	}
	s.rates[r.ID] = r
	return r.ID, nil
}

func (s *state) SaveAvailability(_ context.Context, av league.Availability) error {
	if _, ok := s.umpires[av.UmpireID]; !ok {
		return league.ErrUmpireNotFound
	}
	s.available[availabilityKey{av.UmpireID, av.Date, av.Slot}] = av
	return nil
}

func (s *state) ListAvailability(_ context.Context, f league.AvailabilityFilter) ([]league.Availability, error) {
	var out []league.Availability
	for _, av := range s.available {
		if f.UmpireID != "" && av.UmpireID != f.UmpireID {
			continue
		}
		if f.From != nil && av.Date.Before(*f.From) {
			continue
		}
		if f.To != nil && av.Date.After(*f.To) {
			continue
		}
		out = append(out, av)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.UmpireID != b.UmpireID {
			return a.UmpireID < b.UmpireID
		}
		return a.Slot.Order() < b.Slot.Order()
	})
	return out, nil
}

// sortAssignments orders by id so reads are deterministic.
func sortAssignments(as []league.Assignment) {
	sort.Slice(as, func(i, j int) bool { return as[i].ID < as[j].ID })
}
