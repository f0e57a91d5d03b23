/*
handlers_test.go - HTTP tests for the API handlers

Tests run the full router against an in-memory SQLite store so status
codes, error bodies and JSON shapes are checked end to end.
*/
package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/umpire-engine/league"
	"github.com/warp/umpire-engine/metrics"
	"github.com/warp/umpire-engine/store/sqlite"
)

type testAPI struct {
	t       *testing.T
	handler *Handler
	router  http.Handler
}

func newTestAPI(t *testing.T, opts RouterOptions) *testAPI {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	logger := slogDiscard()
	h := NewHandler(league.NewService(store, league.WithLogger(logger)), logger)
	h.Health = store
	return &testAPI{t: t, handler: h, router: NewRouter(h, opts)}
}

func (a *testAPI) do(method, path string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

// expect performs the request, checks the status and decodes the body into out.
func (a *testAPI) expect(status int, method, path string, body, out any) {
	a.t.Helper()
	rec := a.do(method, path, body)
	require.Equal(a.t, status, rec.Code, "%s %s: %s", method, path, rec.Body.String())
	if out != nil {
		require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), out))
	}
}

// league creates one town, two teams and the given umpires. It returns the
// team ids and the umpire DTOs in order.
func (a *testAPI) league(umpires ...CreateUmpireRequest) (home, away string, out []UmpireDTO) {
	a.t.Helper()
	var town TownDTO
	a.expect(http.StatusCreated, "POST", "/api/towns", CreateTownRequest{Name: "Springfield"}, &town)

	var t1, t2 TeamDTO
	a.expect(http.StatusCreated, "POST", "/api/teams", CreateTeamRequest{TownID: town.ID, Level: "Majors", Name: "Isotopes"}, &t1)
	a.expect(http.StatusCreated, "POST", "/api/teams", CreateTeamRequest{TownID: town.ID, Level: "Majors", Name: "Shelbyvillians"}, &t2)

	for _, u := range umpires {
		var dto UmpireDTO
		a.expect(http.StatusCreated, "POST", "/api/umpires", u, &dto)
		out = append(out, dto)
	}
	return t1.ID, t2.ID, out
}

func (a *testAPI) game(home, away, date, slot, field string) GameDTO {
	a.t.Helper()
	var g GameDTO
	a.expect(http.StatusCreated, "POST", "/api/games", CreateGameRequest{
		Date: date, Slot: slot, Field: field, HomeTeamID: home, AwayTeamID: away,
	}, &g)
	return g
}

func openingRate(date string) SavePayRateRequest {
	return SavePayRateRequest{
		EffectiveDate:  date,
		SoloPatched:    "50.00",
		SoloUnpatched:  "40.00",
		PlatePatched:   "35.00",
		PlateUnpatched: "30.00",
		Base:           "25.00",
	}
}

func umpire(first string, patched bool) CreateUmpireRequest {
	return CreateUmpireRequest{
		FirstName: first,
		LastName:  "Ump",
		Email:     strings.ToLower(first) + "@example.com",
		Adult:     true,
		Patched:   patched,
	}
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

// =============================================================================
// TESTS
// =============================================================================

func TestHealthz(t *testing.T) {
	api := newTestAPI(t, RouterOptions{})
	var body map[string]string
	api.expect(http.StatusOK, "GET", "/healthz", nil, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestAssignmentLifecycle(t *testing.T) {
	api := newTestAPI(t, RouterOptions{})
	home, away, umps := api.league(umpire("Alice", true), umpire("Bob", false), umpire("Cara", true))
	alice, bob, cara := umps[0], umps[1], umps[2]

	var saved SavePayRateResponse
	api.expect(http.StatusCreated, "POST", "/api/pay-rates", openingRate("2025-01-01"), &saved)
	assert.Equal(t, 0, saved.Recomputed)

	g := api.game(home, away, "2025-05-03", "8:00", "A")

	var plate, base AssignmentDTO
	api.expect(http.StatusCreated, "POST", "/api/assignments",
		CreateAssignmentRequest{GameID: g.ID, UmpireID: alice.ID, Position: "plate"}, &plate)
	require.NotNil(t, plate.AmountOwed)
	assert.Equal(t, "35.00", *plate.AmountOwed)
	require.NotNil(t, plate.PayRateID)
	assert.Equal(t, saved.PayRate.ID, *plate.PayRateID)

	api.expect(http.StatusCreated, "POST", "/api/assignments",
		CreateAssignmentRequest{GameID: g.ID, UmpireID: bob.ID, Position: "base"}, &base)
	assert.Equal(t, "25.00", *base.AmountOwed)

	// Full crew: a third umpire is refused with the reason in the body.
	rec := api.do("POST", "/api/assignments", CreateAssignmentRequest{GameID: g.ID, UmpireID: cara.ID, Position: "solo"})
	require.Equal(t, http.StatusConflict, rec.Code)
	resp := errorBody(t, rec)
	assert.Equal(t, "rejected", resp.Code)
	details := resp.Details.(map[string]any)
	assert.Equal(t, string(league.ReasonGameFull), details["reason"])

	var detail GameDetailDTO
	api.expect(http.StatusOK, "GET", "/api/games/"+g.ID, nil, &detail)
	assert.Equal(t, "plate+base", detail.Occupancy)
	assert.Empty(t, detail.Open)
	assert.Len(t, detail.Assignments, 2)

	// Swap Bob for Cara on base; Cara is patched but base pays the same.
	var swapped AssignmentDTO
	api.expect(http.StatusOK, "PUT", "/api/assignments/"+base.ID+"/umpire", ReassignRequest{UmpireID: cara.ID}, &swapped)
	assert.Equal(t, cara.ID, swapped.UmpireID)
	assert.Equal(t, "25.00", *swapped.AmountOwed)

	var paid AssignmentDTO
	api.expect(http.StatusOK, "PUT", "/api/assignments/"+plate.ID+"/paid", MarkPaidRequest{Paid: true}, &paid)
	assert.True(t, paid.Paid)

	rec = api.do("PUT", "/api/assignments/"+plate.ID+"/position", EditPositionRequest{Position: "solo"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	var summary PaymentSummaryDTO
	api.expect(http.StatusOK, "GET", "/api/umpires/"+alice.ID+"/summary", nil, &summary)
	assert.Equal(t, "35.00", summary.Earned)
	assert.Equal(t, "35.00", summary.Paid)
	assert.Equal(t, "0.00", summary.Balance)

	api.expect(http.StatusNoContent, "DELETE", "/api/assignments/"+swapped.ID, nil, nil)
	api.expect(http.StatusOK, "GET", "/api/games/"+g.ID, nil, &detail)
	assert.Equal(t, "plate", detail.Occupancy)
	assert.Equal(t, []string{"base"}, detail.Open)
}

func TestCreateAssignment_DoubleBookedNamesConflict(t *testing.T) {
	api := newTestAPI(t, RouterOptions{})
	home, away, umps := api.league(umpire("Alice", true))
	api.expect(http.StatusCreated, "POST", "/api/pay-rates", openingRate("2025-01-01"), nil)

	g1 := api.game(home, away, "2025-05-03", "10:15", "A")
	g2 := api.game(home, away, "2025-05-03", "10:15", "B")

	api.expect(http.StatusCreated, "POST", "/api/assignments",
		CreateAssignmentRequest{GameID: g1.ID, UmpireID: umps[0].ID, Position: "solo"}, nil)

	rec := api.do("POST", "/api/assignments", CreateAssignmentRequest{GameID: g2.ID, UmpireID: umps[0].ID, Position: "solo"})
	require.Equal(t, http.StatusConflict, rec.Code)
	details := errorBody(t, rec).Details.(map[string]any)
	assert.Equal(t, string(league.ReasonDoubleBooked), details["reason"])
	assert.Equal(t, g1.ID, details["conflict_game_id"])
}

func TestErrors_StatusCodes(t *testing.T) {
	api := newTestAPI(t, RouterOptions{})
	home, away, umps := api.league(umpire("Alice", true))
	g := api.game(home, away, "2025-05-03", "8:00", "A")

	t.Run("unknown umpire is 404", func(t *testing.T) {
		rec := api.do("GET", "/api/umpires/nobody", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "not_found", errorBody(t, rec).Code)
	})

	t.Run("unknown position is 400", func(t *testing.T) {
		rec := api.do("POST", "/api/assignments", CreateAssignmentRequest{GameID: g.ID, UmpireID: umps[0].ID, Position: "catcher"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "invalid", errorBody(t, rec).Code)
	})

	t.Run("malformed body is 400", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/towns", strings.NewReader("{"))
		rec := httptest.NewRecorder()
		api.router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad date filter is 400", func(t *testing.T) {
		rec := api.do("GET", "/api/games?from=last-week", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("slot already booked is 409", func(t *testing.T) {
		rec := api.do("POST", "/api/games", CreateGameRequest{
			Date: "2025-05-03", Slot: "8:00", Field: "A", HomeTeamID: home, AwayTeamID: away,
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("bad pay rate id is 400", func(t *testing.T) {
		rec := api.do("PUT", "/api/pay-rates/abc", openingRate("2025-01-01"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUnresolvedAmount_NullUntilRateExists(t *testing.T) {
	api := newTestAPI(t, RouterOptions{})
	home, away, umps := api.league(umpire("Alice", true))
	g := api.game(home, away, "2025-05-03", "8:00", "A")

	var a AssignmentDTO
	api.expect(http.StatusCreated, "POST", "/api/assignments",
		CreateAssignmentRequest{GameID: g.ID, UmpireID: umps[0].ID, Position: "solo"}, &a)
	assert.Nil(t, a.AmountOwed)
	assert.Nil(t, a.PayRateID)

	// The raw JSON carries an explicit null.
	rec := api.do("GET", "/api/assignments/"+a.ID, nil)
	assert.Contains(t, rec.Body.String(), `"amount_owed":null`)

	rec = api.do("GET", "/api/assignments/"+a.ID+"/amount", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = api.do("PUT", "/api/assignments/"+a.ID+"/paid", MarkPaidRequest{Paid: true})
	assert.Equal(t, http.StatusConflict, rec.Code)

	var saved SavePayRateResponse
	api.expect(http.StatusCreated, "POST", "/api/pay-rates", openingRate("2025-04-01"), &saved)
	assert.Equal(t, 1, saved.Recomputed)

	api.expect(http.StatusOK, "GET", "/api/assignments/"+a.ID, nil, &a)
	require.NotNil(t, a.AmountOwed)
	assert.Equal(t, "50.00", *a.AmountOwed)

	var p PaymentDTO
	api.expect(http.StatusOK, "GET", "/api/assignments/"+a.ID+"/amount", nil, &p)
	assert.Equal(t, "50.00", p.Amount)
	assert.Equal(t, saved.PayRate.ID, p.PayRateID)
}

func TestUpdatePayRate_RecomputesAffectedGames(t *testing.T) {
	api := newTestAPI(t, RouterOptions{})
	home, away, umps := api.league(umpire("Alice", true))

	var opening SavePayRateResponse
	api.expect(http.StatusCreated, "POST", "/api/pay-rates", openingRate("2025-01-01"), &opening)
	g := api.game(home, away, "2025-05-03", "8:00", "A")
	var a AssignmentDTO
	api.expect(http.StatusCreated, "POST", "/api/assignments",
		CreateAssignmentRequest{GameID: g.ID, UmpireID: umps[0].ID, Position: "solo"}, &a)

	raised := openingRate("2025-01-01")
	raised.SoloPatched = "60.00"
	var saved SavePayRateResponse
	api.expect(http.StatusOK, "PUT", "/api/pay-rates/"+itoa(opening.PayRate.ID), raised, &saved)
	assert.Equal(t, 1, saved.Recomputed)

	api.expect(http.StatusOK, "GET", "/api/assignments/"+a.ID, nil, &a)
	assert.Equal(t, "60.00", *a.AmountOwed)

	var rates []PayRateDTO
	api.expect(http.StatusOK, "GET", "/api/pay-rates", nil, &rates)
	require.Len(t, rates, 1)
	assert.Equal(t, "60.00", rates[0].SoloPatched)

	rec := api.do("POST", "/api/pay-rates", SavePayRateRequest{EffectiveDate: "2025-06-01", SoloPatched: "lots"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	fractional := openingRate("2025-06-01")
	fractional.Base = "30.125"
	rec = api.do("POST", "/api/pay-rates", fractional)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorBody(t, rec).Details, "two decimal places")
}

func TestAvailability_FeedsCoverage(t *testing.T) {
	api := newTestAPI(t, RouterOptions{})
	home, away, umps := api.league(umpire("Alice", true), umpire("Bob", false), umpire("Cara", true))
	alice, bob, cara := umps[0], umps[1], umps[2]
	api.expect(http.StatusCreated, "POST", "/api/pay-rates", openingRate("2025-01-01"), nil)

	early := api.game(home, away, "2025-05-03", "8:00", "A")
	other := api.game(home, away, "2025-05-03", "8:00", "B")

	var av AvailabilityDTO
	api.expect(http.StatusOK, "PUT", "/api/umpires/"+alice.ID+"/availability",
		SetAvailabilityRequest{Date: "2025-05-03", Slot: "all", Status: "available"}, &av)
	assert.Equal(t, "all", av.Slot)
	api.expect(http.StatusOK, "PUT", "/api/umpires/"+bob.ID+"/availability",
		SetAvailabilityRequest{Date: "2025-05-03", Slot: "8:00", Status: "preferred", Notes: "mornings"}, nil)
	api.expect(http.StatusOK, "PUT", "/api/umpires/"+cara.ID+"/availability",
		SetAvailabilityRequest{Date: "2025-05-03", Slot: "all", Status: "unavailable"}, nil)

	var cov CoverageDTO
	api.expect(http.StatusOK, "GET", "/api/reports/coverage?from=2025-05-03&to=2025-05-03", nil, &cov)
	require.Len(t, cov.Unassigned, 2)
	avail := cov.Unassigned[0].Available
	require.Len(t, avail, 2)
	assert.Equal(t, bob.ID, avail[0].UmpireID, "preferred umpires are listed first")
	assert.True(t, avail[0].Preferred)
	assert.Equal(t, alice.ID, avail[1].UmpireID)

	// Once Bob works field B he is no longer free for field A at 8:00.
	api.expect(http.StatusCreated, "POST", "/api/assignments",
		CreateAssignmentRequest{GameID: other.ID, UmpireID: bob.ID, Position: "plate"}, nil)
	api.expect(http.StatusOK, "GET", "/api/reports/coverage?field=A", nil, &cov)
	require.Len(t, cov.Unassigned, 1)
	assert.Equal(t, early.ID, cov.Unassigned[0].Game.ID)
	require.Len(t, cov.Unassigned[0].Available, 1)
	assert.Equal(t, alice.ID, cov.Unassigned[0].Available[0].UmpireID)

	var list []AvailabilityDTO
	api.expect(http.StatusOK, "GET", "/api/umpires/"+bob.ID+"/availability?from=2025-05-01", nil, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "mornings", list[0].Notes)

	rec := api.do("PUT", "/api/umpires/"+alice.ID+"/availability",
		SetAvailabilityRequest{Date: "2025-05-03", Slot: "all", Status: "maybe"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = api.do("PUT", "/api/umpires/nobody/availability",
		SetAvailabilityRequest{Date: "2025-05-03", Slot: "all", Status: "available"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCompleteGame_WorkedStatusPricesSeats(t *testing.T) {
	api := newTestAPI(t, RouterOptions{})
	home, away, umps := api.league(umpire("Alice", true), umpire("Bob", false))
	api.expect(http.StatusCreated, "POST", "/api/pay-rates", openingRate("2025-01-01"), nil)
	g := api.game(home, away, "2025-05-03", "8:00", "A")

	var plate, base AssignmentDTO
	api.expect(http.StatusCreated, "POST", "/api/assignments",
		CreateAssignmentRequest{GameID: g.ID, UmpireID: umps[0].ID, Position: "plate"}, &plate)
	api.expect(http.StatusCreated, "POST", "/api/assignments",
		CreateAssignmentRequest{GameID: g.ID, UmpireID: umps[1].ID, Position: "base"}, &base)
	assert.Equal(t, "assigned", plate.WorkStatus)

	var done CompleteGameResponse
	api.expect(http.StatusOK, "PUT", "/api/games/"+g.ID+"/complete", CompleteGameRequest{
		Status:      "completed",
		Assignments: map[string]string{plate.ID: "worked", base.ID: "no_show"},
	}, &done)
	assert.Equal(t, "completed", done.Game.Status)
	require.Len(t, done.Assignments, 2)

	api.expect(http.StatusOK, "GET", "/api/assignments/"+plate.ID, nil, &plate)
	assert.Equal(t, "worked", plate.WorkStatus)
	assert.Equal(t, "35.00", *plate.AmountOwed)
	api.expect(http.StatusOK, "GET", "/api/assignments/"+base.ID, nil, &base)
	assert.Equal(t, "no_show", base.WorkStatus)
	require.NotNil(t, base.AmountOwed)
	assert.Equal(t, "0.00", *base.AmountOwed)

	rec := api.do("PUT", "/api/games/"+g.ID+"/complete", CompleteGameRequest{Status: "scheduled"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = api.do("PUT", "/api/games/"+g.ID+"/complete", CompleteGameRequest{
		Status: "completed", Assignments: map[string]string{plate.ID: "napping"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOverridePay(t *testing.T) {
	api := newTestAPI(t, RouterOptions{})
	home, away, umps := api.league(umpire("Alice", true))
	var opening SavePayRateResponse
	api.expect(http.StatusCreated, "POST", "/api/pay-rates", openingRate("2025-01-01"), &opening)
	g := api.game(home, away, "2025-05-03", "8:00", "A")

	var a AssignmentDTO
	api.expect(http.StatusCreated, "POST", "/api/assignments",
		CreateAssignmentRequest{GameID: g.ID, UmpireID: umps[0].ID, Position: "solo"}, &a)

	amount := "62.50"
	api.expect(http.StatusOK, "PUT", "/api/assignments/"+a.ID+"/pay", OverridePayRequest{Amount: &amount}, &a)
	assert.True(t, a.PayOverride)
	assert.Equal(t, "62.50", *a.AmountOwed)
	assert.Nil(t, a.PayRateID)

	// A rate change does not touch the hand-entered amount.
	raised := openingRate("2025-01-01")
	raised.SoloPatched = "70.00"
	var saved SavePayRateResponse
	api.expect(http.StatusOK, "PUT", "/api/pay-rates/"+itoa(opening.PayRate.ID), raised, &saved)
	assert.Equal(t, 0, saved.Recomputed)

	for _, bad := range []string{"-1.00", "10.005", "ten"} {
		rec := api.do("PUT", "/api/assignments/"+a.ID+"/pay", OverridePayRequest{Amount: &bad})
		assert.Equal(t, http.StatusBadRequest, rec.Code, bad)
	}

	api.expect(http.StatusOK, "PUT", "/api/assignments/"+a.ID+"/pay", OverridePayRequest{}, &a)
	assert.False(t, a.PayOverride)
	assert.Equal(t, "70.00", *a.AmountOwed)
}

func TestSeed_SampleSeason(t *testing.T) {
	api := newTestAPI(t, RouterOptions{})

	var scenarios []ScenarioDTO
	api.expect(http.StatusOK, "GET", "/api/scenarios", nil, &scenarios)
	assert.Len(t, scenarios, len(Scenarios))

	var res SeedResult
	api.expect(http.StatusCreated, "POST", "/api/admin/seed", LoadScenarioRequest{ScenarioID: "sample-season"}, &res)
	assert.Equal(t, SeedResult{
		Scenario:     "sample-season",
		Towns:        3,
		Teams:        9,
		Umpires:      8,
		Games:        48,
		Assignments:  48,
		PayRates:     2,
		Completed:    12,
		Availability: 9,
	}, res)

	var cov CoverageDTO
	api.expect(http.StatusOK, "GET", "/api/reports/coverage", nil, &cov)
	assert.Equal(t, 48, cov.TotalGames)
	assert.Equal(t, 24, cov.FullyCovered)
	assert.Len(t, cov.Unassigned, 12)
	assert.Len(t, cov.PartiallyStaffed, 12)
	assert.InDelta(t, 50.0, cov.CoveragePercent, 0.01)

	// Last Saturday: seven umpires free all day, the early-slot volunteer first.
	first := cov.Unassigned[0]
	assert.Equal(t, "2025-05-24", first.Game.Date)
	assert.Equal(t, "8:00", first.Game.Slot)
	require.Len(t, first.Available, 7)
	assert.Equal(t, "Dana Whitfield", first.Available[0].Name)
	assert.True(t, first.Available[0].Preferred)
	later := cov.Unassigned[3]
	assert.Equal(t, "10:15", later.Game.Slot)
	require.Len(t, later.Available, 7)
	assert.Equal(t, "Eli Brandt", later.Available[0].Name)
	assert.False(t, later.Available[0].Preferred)

	var opener GameDetailDTO
	api.expect(http.StatusOK, "GET", "/api/games/"+first.Game.ID, nil, &opener)
	assert.Equal(t, "scheduled", opener.Status)

	var weeks []WeekTotalDTO
	api.expect(http.StatusOK, "GET", "/api/reports/weekly", nil, &weeks)
	require.Len(t, weeks, 4)
	assert.Equal(t, "2025-04-28", weeks[0].WeekStart)
	assert.Equal(t, 12, weeks[0].Games)
	assert.Equal(t, 16, weeks[0].Assignments)
	assert.Equal(t, 0, weeks[3].Assignments)

	// Loaders never reset: a second run collides on town names.
	rec := api.do("POST", "/api/admin/seed", LoadScenarioRequest{ScenarioID: "sample-season"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = api.do("POST", "/api/admin/seed", LoadScenarioRequest{ScenarioID: "world-series"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecompute_Endpoints(t *testing.T) {
	api := newTestAPI(t, RouterOptions{})

	var status SweepStatusDTO
	api.expect(http.StatusOK, "GET", "/api/admin/recompute", nil, &status)
	assert.False(t, status.Enabled)
	assert.Nil(t, status.LastRun)

	var out RecomputeResponse
	api.expect(http.StatusOK, "POST", "/api/admin/recompute", nil, &out)
	assert.Equal(t, 0, out.Updated)
}

func TestMetrics_Mounted(t *testing.T) {
	m := metrics.New()
	api := newTestAPI(t, RouterOptions{Metrics: m.Handler(), MetricsPath: "/metrics"})

	rec := api.do("GET", "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "umpire_engine_")
}

func TestMetrics_NotMountedByDefault(t *testing.T) {
	api := newTestAPI(t, RouterOptions{})
	rec := api.do("GET", "/metrics", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
