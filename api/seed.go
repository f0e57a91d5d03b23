/*
seed.go - Sample season loaders for demos and local development

PURPOSE:
  Populates an empty store with a realistic league so the API and reports
  have something to show. Every record goes through league.Service, so
  seeded data obeys the same staffing and pay rules as live data.

AVAILABLE SCENARIOS:
  sample-season: three towns, a team per town and level, eight umpires,
                 a month of Saturday games with a mix of solo and two-man
                 crews, one pay raise mid-season, the first Saturday
                 completed with one no-show, and availability for the
                 unstaffed last Saturday
  empty-league:  towns, teams, umpires and the opening pay rate only

USAGE VIA API:
  POST /api/admin/seed
  {"scenario_id": "sample-season"}

USAGE VIA CLI:
  umpire-engine seed --scenario sample-season

NOTE:
  Loaders do not reset the store. Seeding twice fails with a duplicate
  town error.
*/
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/umpire-engine/league"
)

// ScenarioDTO describes a loadable scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// SeedResult counts what a loader created.
type SeedResult struct {
	Scenario     string `json:"scenario"`
	Towns        int    `json:"towns"`
	Teams        int    `json:"teams"`
	Umpires      int    `json:"umpires"`
	Games        int    `json:"games"`
	Assignments  int    `json:"assignments"`
	PayRates     int    `json:"pay_rates"`
	Completed    int    `json:"completed_games"`
	Availability int    `json:"availability"`
}

var Scenarios = []ScenarioDTO{
	{
		ID:          "sample-season",
		Name:        "Sample Season",
		Description: "Four Saturdays of games on fields A to C, partly staffed, with a mid-season raise",
	},
	{
		ID:          "empty-league",
		Name:        "Empty League",
		Description: "Towns, teams, umpires and an opening pay rate; no games",
	},
}

// ListScenarios returns the available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Scenarios)
}

// LoadScenario seeds the store with the requested scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := Seed(r.Context(), h.Service, req.ScenarioID)
	if err != nil {
		h.fail(w, r, "Failed to load scenario", err)
		return
	}
	h.Logger.InfoContext(r.Context(), "scenario loaded", "scenario", res.Scenario,
		"games", res.Games, "assignments", res.Assignments)
	writeJSON(w, http.StatusCreated, res)
}

// Seed runs the named scenario against svc.
func Seed(ctx context.Context, svc *league.Service, scenarioID string) (SeedResult, error) {
	s := &seeder{svc: svc, res: SeedResult{Scenario: scenarioID}}
	var err error
	switch scenarioID {
	case "sample-season":
		err = s.sampleSeason(ctx)
	case "empty-league":
		err = s.league(ctx)
	default:
		return SeedResult{}, fmt.Errorf("%w: unknown scenario %q", league.ErrInvalidInput, scenarioID)
	}
	return s.res, err
}

type seeder struct {
	svc     *league.Service
	res     SeedResult
	teams   []league.Team
	umpires []league.Umpire
	crews   map[league.GameID][]league.Assignment
}

var seasonOpener = league.NewDate(2025, time.April, 1)

func (s *seeder) league(ctx context.Context) error {
	for _, name := range []string{"Springfield", "Shelbyville", "Capital City"} {
		town, err := s.svc.CreateTown(ctx, name)
		if err != nil {
			return fmt.Errorf("town %s: %w", name, err)
		}
		s.res.Towns++
		for _, level := range []league.Level{league.LevelAAA, league.LevelMinors, league.LevelMajors} {
			team, err := s.svc.CreateTeam(ctx, league.Team{
				TownID: town.ID,
				Level:  level,
				Name:   fmt.Sprintf("%s %s", name, level),
			})
			if err != nil {
				return fmt.Errorf("team %s %s: %w", name, level, err)
			}
			s.teams = append(s.teams, team)
			s.res.Teams++
		}
	}

	roster := []struct {
		first, last    string
		adult, patched bool
	}{
		{"Dana", "Whitfield", true, true},
		{"Marcus", "Oyelaran", true, true},
		{"Priya", "Natarajan", true, false},
		{"Tomás", "Reyes", true, true},
		{"Hannah", "Kowalski", false, false},
		{"Eli", "Brandt", false, false},
		{"June", "Park", true, false},
		{"Sam", "Okafor", false, true},
	}
	for _, p := range roster {
		u, err := s.svc.CreateUmpire(ctx, league.Umpire{
			FirstName: p.first,
			LastName:  p.last,
			Email:     fmt.Sprintf("%s.%s@umpires.example.org", p.first, p.last),
			Adult:     p.adult,
			Patched:   p.patched,
		})
		if err != nil {
			return fmt.Errorf("umpire %s %s: %w", p.first, p.last, err)
		}
		s.umpires = append(s.umpires, u)
		s.res.Umpires++
	}

	if _, _, err := s.svc.SavePayRate(ctx, league.DefaultPayRate(seasonOpener)); err != nil {
		return fmt.Errorf("opening pay rate: %w", err)
	}
	s.res.PayRates++
	return nil
}

func (s *seeder) sampleSeason(ctx context.Context) error {
	if err := s.league(ctx); err != nil {
		return err
	}

	// Four Saturdays in May 2025; each slot uses fields A-C, matching up
	// teams of the same level from different towns.
	saturday := league.NewDate(2025, time.May, 3)
	levels := []league.Level{league.LevelAAA, league.LevelMinors, league.LevelMajors}
	var games []league.Game
	for week := 0; week < 4; week++ {
		date := saturday.AddDays(7 * week)
		for si, slot := range league.TimeSlots {
			for fi, field := range league.Fields[:3] {
				level := levels[(si+fi)%len(levels)]
				home, away := s.pairing(level, week+si+fi)
				g, err := s.svc.CreateGame(ctx, league.Game{
					Date:       date,
					Slot:       slot,
					Field:      field,
					HomeTeamID: home.ID,
					AwayTeamID: away.ID,
				})
				if err != nil {
					return fmt.Errorf("game %s %s %s: %w", date, slot, field, err)
				}
				games = append(games, g)
				s.res.Games++
			}
		}
	}

	// Staff the first three weeks; the last week stays open for the
	// coverage report. Within a slot every umpire works at most one game.
	for i, g := range games {
		if g.Date.After(saturday.AddDays(14)) {
			break
		}
		fieldIdx := i % 3
		crew := s.crewFor(i)
		switch fieldIdx {
		case 0:
			if err := s.assign(ctx, g, crew[0], league.PositionSolo); err != nil {
				return err
			}
		case 1:
			if err := s.assign(ctx, g, crew[1], league.PositionPlate); err != nil {
				return err
			}
			if err := s.assign(ctx, g, crew[2], league.PositionBase); err != nil {
				return err
			}
		case 2:
			// Plate only: shows up as partially staffed.
			if err := s.assign(ctx, g, crew[3], league.PositionPlate); err != nil {
				return err
			}
		}
	}

	if err := s.completeOpeningDay(ctx, games, saturday); err != nil {
		return err
	}
	if err := s.lastSaturdayAvailability(ctx, saturday.AddDays(21)); err != nil {
		return err
	}

	raise := league.DefaultPayRate(league.NewDate(2025, time.May, 15))
	raise.SoloPatched = decimal.RequireFromString("55.00")
	raise.PlatePatched = decimal.RequireFromString("38.00")
	if _, _, err := s.svc.SavePayRate(ctx, raise); err != nil {
		return fmt.Errorf("mid-season raise: %w", err)
	}
	s.res.PayRates++
	return nil
}

// completeOpeningDay marks the first Saturday played. The umpire on the
// first game did not show up.
func (s *seeder) completeOpeningDay(ctx context.Context, games []league.Game, day league.Date) error {
	for i, g := range games {
		if !g.Date.Equal(day) {
			continue
		}
		work := make(map[league.AssignmentID]league.WorkStatus)
		for _, a := range s.crews[g.ID] {
			work[a.ID] = league.WorkWorked
			if i == 0 {
				work[a.ID] = league.WorkNoShow
			}
		}
		if _, _, err := s.svc.CompleteGame(ctx, g.ID, league.GameCompleted, work); err != nil {
			return fmt.Errorf("complete %s: %w", g, err)
		}
		s.res.Completed++
	}
	return nil
}

// lastSaturdayAvailability has everyone free all day except one umpire
// who is away, and one who would rather take the early slot.
func (s *seeder) lastSaturdayAvailability(ctx context.Context, day league.Date) error {
	entries := make([]league.Availability, 0, len(s.umpires)+1)
	for i, u := range s.umpires {
		status := league.Available
		if i == 4 {
			status = league.Unavailable
		}
		entries = append(entries, league.Availability{UmpireID: u.ID, Date: day, Slot: league.SlotAllDay, Status: status})
	}
	entries = append(entries, league.Availability{
		UmpireID: s.umpires[0].ID,
		Date:     day,
		Slot:     league.Slot0800,
		Status:   league.Preferred,
		Notes:    "early games only if possible",
	})
	for _, av := range entries {
		if _, err := s.svc.SetAvailability(ctx, av); err != nil {
			return fmt.Errorf("availability %s %s: %w", av.UmpireID, av.Date, err)
		}
		s.res.Availability++
	}
	return nil
}

// pairing picks two teams of the level from different towns.
func (s *seeder) pairing(level league.Level, n int) (league.Team, league.Team) {
	var same []league.Team
	for _, t := range s.teams {
		if t.Level == level {
			same = append(same, t)
		}
	}
	home := same[n%len(same)]
	away := same[(n+1)%len(same)]
	return home, away
}

// crewFor rotates the roster so the four umpires used for one slot are
// distinct and the rotation shifts between slots.
func (s *seeder) crewFor(gameIdx int) [4]league.Umpire {
	slot := gameIdx / 3
	var crew [4]league.Umpire
	for k := range crew {
		crew[k] = s.umpires[(slot*2+k)%len(s.umpires)]
	}
	return crew
}

func (s *seeder) assign(ctx context.Context, g league.Game, u league.Umpire, p league.Position) error {
	a, err := s.svc.CreateAssignment(ctx, g.ID, u.ID, p)
	if err != nil {
		return fmt.Errorf("assign %s to %s as %s: %w", u.Name(), g, p, err)
	}
	if s.crews == nil {
		s.crews = make(map[league.GameID][]league.Assignment)
	}
	s.crews[g.ID] = append(s.crews[g.ID], a)
	s.res.Assignments++
	return nil
}
