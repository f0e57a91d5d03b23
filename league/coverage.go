package league

import "sort"

// GameCoverage is one game that still needs umpires.
type GameCoverage struct {
	Game        Game
	Occupancy   Occupancy
	Assignments []Assignment
	Open        []Position
	Needed      int

	// Available is filled by Service.Coverage when a roster is at hand.
	Available []AvailableUmpire
}

// CoverageReport summarizes staffing across a set of games. Solo games
// count as fully covered. Postponed and cancelled games are left out.
type CoverageReport struct {
	Unassigned       []GameCoverage
	PartiallyStaffed []GameCoverage
	TotalGames       int
	FullyCovered     int
	CoveragePercent  float64
}

// Coverage builds the report from games and their assignments.
func Coverage(games []Game, assignments []Assignment) CoverageReport {
	byGame := make(map[GameID][]Assignment)
	for _, a := range assignments {
		byGame[a.GameID] = append(byGame[a.GameID], a)
	}

	sorted := make([]Game, 0, len(games))
	for _, g := range games {
		if g.Status.NeedsCrew() {
			sorted = append(sorted, g)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.Slot != b.Slot {
			return a.Slot.Order() < b.Slot.Order()
		}
		return a.Field < b.Field
	})

	report := CoverageReport{TotalGames: len(sorted)}
	for _, g := range sorted {
		current := byGame[g.ID]
		occ := OccupancyOf(current)
		if occ.Covered() {
			report.FullyCovered++
			continue
		}
		gc := GameCoverage{
			Game:        g,
			Occupancy:   occ,
			Assignments: current,
			Open:        occ.Open(),
			Needed:      2 - len(current),
		}
		if occ == OccupancyEmpty {
			report.Unassigned = append(report.Unassigned, gc)
		} else {
			report.PartiallyStaffed = append(report.PartiallyStaffed, gc)
		}
	}
	if report.TotalGames > 0 {
		pct := float64(report.FullyCovered) / float64(report.TotalGames) * 100
		report.CoveragePercent = float64(int(pct*10+0.5)) / 10
	}
	return report
}

// AvailableUmpire is an umpire who said yes to a game's slot and is not
// booked elsewhere at that time.
type AvailableUmpire struct {
	Umpire    Umpire
	Preferred bool
}

type availabilityKey struct {
	umpire UmpireID
	date   Date
	slot   TimeSlot
}

type slotKey struct {
	date Date
	slot TimeSlot
}

// Roster answers "who can work this game" from availability and the
// current bookings.
type Roster struct {
	umpires      []Umpire
	availability map[availabilityKey]AvailabilityStatus
	busy         map[slotKey]map[UmpireID]bool
}

// NewRoster indexes availability and bookings. games must contain every
// game referenced by assignments.
func NewRoster(umpires []Umpire, availability []Availability, games []Game, assignments []Assignment) *Roster {
	r := &Roster{
		umpires:      umpires,
		availability: make(map[availabilityKey]AvailabilityStatus, len(availability)),
		busy:         make(map[slotKey]map[UmpireID]bool),
	}
	for _, av := range availability {
		r.availability[availabilityKey{av.UmpireID, av.Date, av.Slot}] = av.Status
	}
	gameByID := make(map[GameID]Game, len(games))
	for _, g := range games {
		gameByID[g.ID] = g
	}
	for _, a := range assignments {
		g, ok := gameByID[a.GameID]
		if !ok {
			continue
		}
		k := slotKey{g.Date, g.Slot}
		if r.busy[k] == nil {
			r.busy[k] = make(map[UmpireID]bool)
		}
		r.busy[k][a.UmpireID] = true
	}
	return r
}

// status returns the umpire's answer for the slot. An exact slot entry
// wins over an all-day one.
func (r *Roster) status(id UmpireID, date Date, slot TimeSlot) (AvailabilityStatus, bool) {
	if st, ok := r.availability[availabilityKey{id, date, slot}]; ok {
		return st, true
	}
	st, ok := r.availability[availabilityKey{id, date, SlotAllDay}]
	return st, ok
}

// AvailableFor lists umpires who can take a seat on game, preferred
// first, then by last and first name. Umpires already on the game count
// as busy.
func (r *Roster) AvailableFor(game Game) []AvailableUmpire {
	busy := r.busy[slotKey{game.Date, game.Slot}]
	var out []AvailableUmpire
	for _, u := range r.umpires {
		if busy[u.ID] {
			continue
		}
		st, ok := r.status(u.ID, game.Date, game.Slot)
		if !ok || st == Unavailable {
			continue
		}
		out = append(out, AvailableUmpire{Umpire: u, Preferred: st == Preferred})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Preferred != b.Preferred {
			return a.Preferred
		}
		if a.Umpire.LastName != b.Umpire.LastName {
			return a.Umpire.LastName < b.Umpire.LastName
		}
		return a.Umpire.FirstName < b.Umpire.FirstName
	})
	return out
}
