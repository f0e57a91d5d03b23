/*
handlers.go - HTTP API handlers for the umpire assignment and pay engine

PURPOSE:
  Exposes league.Service via a JSON API. Handles HTTP request/response and
  JSON serialization; every rule lives in the league package.

ENDPOINTS:
  Reference data:
    GET|POST /api/towns
    GET|POST /api/teams
    GET|POST /api/umpires
    GET|PUT  /api/umpires/{id}
    GET      /api/umpires/{id}/summary       earned / paid / balance
    GET      /api/umpires/{id}/assignments
    GET|PUT  /api/umpires/{id}/availability  ?from=&to= / one date and slot

  Games:
    GET|POST /api/games                      ?from=&to=&field=
    GET      /api/games/{id}                 game with crew and open seats
    PUT      /api/games/{id}/schedule        reschedule
    PUT      /api/games/{id}/complete        outcome and worked status

  Assignments:
    POST   /api/assignments
    GET    /api/assignments/{id}
    GET    /api/assignments/{id}/amount      read-only recompute
    PUT    /api/assignments/{id}/position
    PUT    /api/assignments/{id}/umpire
    PUT    /api/assignments/{id}/paid
    PUT    /api/assignments/{id}/pay         manual amount, null clears
    DELETE /api/assignments/{id}

  Pay rates:
    GET|POST /api/pay-rates
    PUT      /api/pay-rates/{id}

  Reports and admin:
    GET  /api/reports/weekly                 ?from=&to=
    GET  /api/reports/coverage               ?from=&to=&field=
    GET|POST /api/admin/recompute            sweep status / run now
    GET      /api/scenarios
    POST     /api/admin/seed

ERROR HANDLING:
  Errors are returned as JSON with an HTTP status from statusFor:
  - 400: invalid input
  - 404: record not found
  - 409: staffing rejection, slot taken, duplicate, paid/unresolved state,
         concurrent modification (retryable: true)
  - 422: no pay rate covers the game date (read-only amount)
  - 500: everything else

SECURITY NOTE:
  No authentication. Deploy behind the league's admin proxy.

SEE ALSO:
  - dto.go: Request/response data structures
  - seed.go: Sample season loader
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/warp/umpire-engine/league"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service *league.Service
	Logger  *slog.Logger
	Health  Pinger // optional

	Scheduler *RecomputeScheduler // optional
}

func NewHandler(svc *league.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{Service: svc, Logger: logger}
}

func (h *Handler) store() league.TxStore { return h.Service.Store }

// =============================================================================
// HEALTH
// =============================================================================

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	if h.Health != nil {
		if err := h.Health.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "Store unavailable", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// TOWNS AND TEAMS
// =============================================================================

func (h *Handler) ListTowns(w http.ResponseWriter, r *http.Request) {
	towns, err := h.store().ListTowns(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to list towns", err)
		return
	}
	dtos := make([]TownDTO, len(towns))
	for i, t := range towns {
		dtos[i] = toTownDTO(t)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateTown(w http.ResponseWriter, r *http.Request) {
	var req CreateTownRequest
	if !decode(w, r, &req) {
		return
	}
	town, err := h.Service.CreateTown(r.Context(), req.Name)
	if err != nil {
		h.fail(w, r, "Failed to create town", err)
		return
	}
	writeJSON(w, http.StatusCreated, toTownDTO(town))
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.store().ListTeams(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to list teams", err)
		return
	}
	dtos := make([]TeamDTO, len(teams))
	for i, t := range teams {
		dtos[i] = toTeamDTO(t)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var req CreateTeamRequest
	if !decode(w, r, &req) {
		return
	}
	team, err := h.Service.CreateTeam(r.Context(), league.Team{
		TownID: league.TownID(req.TownID),
		Level:  league.Level(req.Level),
		Name:   req.Name,
	})
	if err != nil {
		h.fail(w, r, "Failed to create team", err)
		return
	}
	writeJSON(w, http.StatusCreated, toTeamDTO(team))
}

// =============================================================================
// UMPIRES
// =============================================================================

func (h *Handler) ListUmpires(w http.ResponseWriter, r *http.Request) {
	umpires, err := h.store().ListUmpires(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to list umpires", err)
		return
	}
	dtos := make([]UmpireDTO, len(umpires))
	for i, u := range umpires {
		dtos[i] = toUmpireDTO(u)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateUmpire(w http.ResponseWriter, r *http.Request) {
	var req CreateUmpireRequest
	if !decode(w, r, &req) {
		return
	}
	u, err := h.Service.CreateUmpire(r.Context(), league.Umpire{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Adult:     req.Adult,
		Patched:   req.Patched,
	})
	if err != nil {
		h.fail(w, r, "Failed to create umpire", err)
		return
	}
	writeJSON(w, http.StatusCreated, toUmpireDTO(u))
}

func (h *Handler) GetUmpire(w http.ResponseWriter, r *http.Request) {
	u, err := h.store().GetUmpire(r.Context(), league.UmpireID(chi.URLParam(r, "id")))
	if err != nil {
		h.fail(w, r, "Failed to get umpire", err)
		return
	}
	writeJSON(w, http.StatusOK, toUmpireDTO(u))
}

func (h *Handler) UpdateUmpire(w http.ResponseWriter, r *http.Request) {
	var req UpdateUmpireRequest
	if !decode(w, r, &req) {
		return
	}
	u, n, err := h.Service.UpdateUmpire(r.Context(), league.Umpire{
		ID:      league.UmpireID(chi.URLParam(r, "id")),
		Phone:   req.Phone,
		Adult:   req.Adult,
		Patched: req.Patched,
	})
	if err != nil {
		h.fail(w, r, "Failed to update umpire", err)
		return
	}
	writeJSON(w, http.StatusOK, UpdateUmpireResponse{Umpire: toUmpireDTO(u), Recomputed: n})
}

func (h *Handler) GetUmpireSummary(w http.ResponseWriter, r *http.Request) {
	s, err := h.Service.SummarizePayments(r.Context(), league.UmpireID(chi.URLParam(r, "id")))
	if err != nil {
		h.fail(w, r, "Failed to summarize payments", err)
		return
	}
	writeJSON(w, http.StatusOK, PaymentSummaryDTO{
		UmpireID:    string(s.UmpireID),
		Earned:      money(s.Earned),
		Paid:        money(s.Paid),
		Balance:     money(s.Balance),
		Assignments: s.Assignments,
		Unresolved:  s.Unresolved,
	})
}

func (h *Handler) GetUmpireAssignments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := league.UmpireID(chi.URLParam(r, "id"))
	if _, err := h.store().GetUmpire(ctx, id); err != nil {
		h.fail(w, r, "Failed to get umpire", err)
		return
	}
	filter := league.AssignmentFilter{UmpireID: id, UnpaidOnly: r.URL.Query().Get("unpaid") == "true"}
	as, err := h.store().ListAssignments(ctx, filter)
	if err != nil {
		h.fail(w, r, "Failed to list assignments", err)
		return
	}
	writeJSON(w, http.StatusOK, toAssignmentDTOs(as))
}

func (h *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	filter, ok := gameFilter(w, r)
	if !ok {
		return
	}
	avs, err := h.Service.ListAvailability(r.Context(), league.AvailabilityFilter{
		UmpireID: league.UmpireID(chi.URLParam(r, "id")),
		From:     filter.From,
		To:       filter.To,
	})
	if err != nil {
		h.fail(w, r, "Failed to list availability", err)
		return
	}
	dtos := make([]AvailabilityDTO, len(avs))
	for i, av := range avs {
		dtos[i] = toAvailabilityDTO(av)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	var req SetAvailabilityRequest
	if !decode(w, r, &req) {
		return
	}
	date, err := league.ParseDate(req.Date)
	if err != nil {
		h.fail(w, r, "Invalid date", err)
		return
	}
	av, err := h.Service.SetAvailability(r.Context(), league.Availability{
		UmpireID: league.UmpireID(chi.URLParam(r, "id")),
		Date:     date,
		Slot:     league.TimeSlot(req.Slot),
		Status:   league.AvailabilityStatus(req.Status),
		Notes:    req.Notes,
	})
	if err != nil {
		h.fail(w, r, "Availability not saved", err)
		return
	}
	writeJSON(w, http.StatusOK, toAvailabilityDTO(av))
}

// =============================================================================
// GAMES
// =============================================================================

func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	filter, ok := gameFilter(w, r)
	if !ok {
		return
	}
	games, err := h.store().ListGames(r.Context(), filter)
	if err != nil {
		h.fail(w, r, "Failed to list games", err)
		return
	}
	dtos := make([]GameDTO, len(games))
	for i, g := range games {
		dtos[i] = toGameDTO(g)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateGame(w http.ResponseWriter, r *http.Request) {
	var req CreateGameRequest
	if !decode(w, r, &req) {
		return
	}
	date, err := league.ParseDate(req.Date)
	if err != nil {
		h.fail(w, r, "Invalid date", err)
		return
	}
	g, err := h.Service.CreateGame(r.Context(), league.Game{
		Date:       date,
		Slot:       league.TimeSlot(req.Slot),
		Field:      league.Field(req.Field),
		HomeTeamID: league.TeamID(req.HomeTeamID),
		AwayTeamID: league.TeamID(req.AwayTeamID),
	})
	if err != nil {
		h.fail(w, r, "Failed to create game", err)
		return
	}
	writeJSON(w, http.StatusCreated, toGameDTO(g))
}

func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := league.GameID(chi.URLParam(r, "id"))
	g, err := h.store().GetGame(ctx, id)
	if err != nil {
		h.fail(w, r, "Failed to get game", err)
		return
	}
	as, err := h.store().AssignmentsForGame(ctx, id)
	if err != nil {
		h.fail(w, r, "Failed to list assignments", err)
		return
	}
	occ := league.OccupancyOf(as)
	writeJSON(w, http.StatusOK, GameDetailDTO{
		GameDTO:     toGameDTO(g),
		Occupancy:   occ.String(),
		Open:        positions(occ.Open()),
		Assignments: toAssignmentDTOs(as),
	})
}

func (h *Handler) RescheduleGame(w http.ResponseWriter, r *http.Request) {
	var req RescheduleGameRequest
	if !decode(w, r, &req) {
		return
	}
	date, err := league.ParseDate(req.Date)
	if err != nil {
		h.fail(w, r, "Invalid date", err)
		return
	}
	g, n, err := h.Service.RescheduleGame(r.Context(),
		league.GameID(chi.URLParam(r, "id")), date,
		league.TimeSlot(req.Slot), league.Field(req.Field))
	if err != nil {
		h.fail(w, r, "Failed to reschedule game", err)
		return
	}
	writeJSON(w, http.StatusOK, RescheduleGameResponse{Game: toGameDTO(g), Recomputed: n})
}

func (h *Handler) CompleteGame(w http.ResponseWriter, r *http.Request) {
	var req CompleteGameRequest
	if !decode(w, r, &req) {
		return
	}
	work := make(map[league.AssignmentID]league.WorkStatus, len(req.Assignments))
	for id, ws := range req.Assignments {
		work[league.AssignmentID(id)] = league.WorkStatus(ws)
	}
	g, crew, err := h.Service.CompleteGame(r.Context(),
		league.GameID(chi.URLParam(r, "id")), league.GameStatus(req.Status), work)
	if err != nil {
		h.fail(w, r, "Game not completed", err)
		return
	}
	writeJSON(w, http.StatusOK, CompleteGameResponse{Game: toGameDTO(g), Assignments: toAssignmentDTOs(crew)})
}

// =============================================================================
// ASSIGNMENTS
// =============================================================================

func (h *Handler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	var req CreateAssignmentRequest
	if !decode(w, r, &req) {
		return
	}
	a, err := h.Service.CreateAssignment(r.Context(),
		league.GameID(req.GameID), league.UmpireID(req.UmpireID), league.Position(req.Position))
	if err != nil {
		h.fail(w, r, "Assignment not created", err)
		return
	}
	writeJSON(w, http.StatusCreated, toAssignmentDTO(a))
}

func (h *Handler) GetAssignment(w http.ResponseWriter, r *http.Request) {
	a, err := h.store().GetAssignment(r.Context(), league.AssignmentID(chi.URLParam(r, "id")))
	if err != nil {
		h.fail(w, r, "Failed to get assignment", err)
		return
	}
	writeJSON(w, http.StatusOK, toAssignmentDTO(a))
}

func (h *Handler) ComputeAmount(w http.ResponseWriter, r *http.Request) {
	id := league.AssignmentID(chi.URLParam(r, "id"))
	p, err := h.Service.ComputeAmount(r.Context(), id)
	if err != nil {
		h.fail(w, r, "Failed to compute amount", err)
		return
	}
	writeJSON(w, http.StatusOK, PaymentDTO{
		AssignmentID: string(id),
		Amount:       money(p.Amount),
		PayRateID:    int64(p.PayRateID),
	})
}

func (h *Handler) EditPosition(w http.ResponseWriter, r *http.Request) {
	var req EditPositionRequest
	if !decode(w, r, &req) {
		return
	}
	a, err := h.Service.EditPosition(r.Context(),
		league.AssignmentID(chi.URLParam(r, "id")), league.Position(req.Position))
	if err != nil {
		h.fail(w, r, "Assignment not updated", err)
		return
	}
	writeJSON(w, http.StatusOK, toAssignmentDTO(a))
}

func (h *Handler) ReassignUmpire(w http.ResponseWriter, r *http.Request) {
	var req ReassignRequest
	if !decode(w, r, &req) {
		return
	}
	a, err := h.Service.ReassignUmpire(r.Context(),
		league.AssignmentID(chi.URLParam(r, "id")), league.UmpireID(req.UmpireID))
	if err != nil {
		h.fail(w, r, "Assignment not updated", err)
		return
	}
	writeJSON(w, http.StatusOK, toAssignmentDTO(a))
}

func (h *Handler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	var req MarkPaidRequest
	if !decode(w, r, &req) {
		return
	}
	a, err := h.Service.MarkPaid(r.Context(), league.AssignmentID(chi.URLParam(r, "id")), req.Paid)
	if err != nil {
		h.fail(w, r, "Payment not recorded", err)
		return
	}
	writeJSON(w, http.StatusOK, toAssignmentDTO(a))
}

func (h *Handler) OverridePay(w http.ResponseWriter, r *http.Request) {
	var req OverridePayRequest
	if !decode(w, r, &req) {
		return
	}
	var amount *decimal.Decimal
	if req.Amount != nil {
		d, err := decimal.NewFromString(*req.Amount)
		if err != nil {
			h.fail(w, r, "Invalid amount", fmt.Errorf("%w: amount must be a decimal", league.ErrInvalidInput))
			return
		}
		amount = &d
	}
	a, err := h.Service.OverridePay(r.Context(), league.AssignmentID(chi.URLParam(r, "id")), amount)
	if err != nil {
		h.fail(w, r, "Amount not updated", err)
		return
	}
	writeJSON(w, http.StatusOK, toAssignmentDTO(a))
}

func (h *Handler) RemoveAssignment(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.RemoveAssignment(r.Context(), league.AssignmentID(chi.URLParam(r, "id"))); err != nil {
		h.fail(w, r, "Assignment not removed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// PAY RATES
// =============================================================================

func (h *Handler) ListPayRates(w http.ResponseWriter, r *http.Request) {
	rates, err := h.store().ListPayRates(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to list pay rates", err)
		return
	}
	ordered := league.NewRateTable(rates).Rates()
	dtos := make([]PayRateDTO, len(ordered))
	for i, rate := range ordered {
		dtos[i] = toPayRateDTO(rate)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreatePayRate(w http.ResponseWriter, r *http.Request) {
	h.savePayRate(w, r, 0, http.StatusCreated)
}

func (h *Handler) UpdatePayRate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid pay rate id", err)
		return
	}
	h.savePayRate(w, r, league.PayRateID(id), http.StatusOK)
}

func (h *Handler) savePayRate(w http.ResponseWriter, r *http.Request, id league.PayRateID, status int) {
	var req SavePayRateRequest
	if !decode(w, r, &req) {
		return
	}
	rate, err := req.toPayRate(id)
	if err != nil {
		h.fail(w, r, "Invalid pay rate", err)
		return
	}
	saved, n, err := h.Service.SavePayRate(r.Context(), rate)
	if err != nil {
		h.fail(w, r, "Pay rate not saved", err)
		return
	}
	writeJSON(w, status, SavePayRateResponse{PayRate: toPayRateDTO(saved), Recomputed: n})
}

func (req SavePayRateRequest) toPayRate(id league.PayRateID) (league.PayRate, error) {
	date, err := league.ParseDate(req.EffectiveDate)
	if err != nil {
		return league.PayRate{}, err
	}
	rate := league.PayRate{ID: id, EffectiveDate: date}
	fields := []struct {
		name string
		raw  string
		dst  *decimal.Decimal
	}{
		{"solo_patched", req.SoloPatched, &rate.SoloPatched},
		{"solo_unpatched", req.SoloUnpatched, &rate.SoloUnpatched},
		{"plate_patched", req.PlatePatched, &rate.PlatePatched},
		{"plate_unpatched", req.PlateUnpatched, &rate.PlateUnpatched},
		{"base", req.Base, &rate.Base},
	}
	for _, f := range fields {
		d, err := decimal.NewFromString(f.raw)
		if err != nil {
			return league.PayRate{}, fmt.Errorf("%w: %s must be a decimal amount", league.ErrInvalidInput, f.name)
		}
		*f.dst = d
	}
	return rate, nil
}

// =============================================================================
// REPORTS AND ADMIN
// =============================================================================

func (h *Handler) WeeklyTotals(w http.ResponseWriter, r *http.Request) {
	filter, ok := gameFilter(w, r)
	if !ok {
		return
	}
	weeks, err := h.Service.WeeklyTotals(r.Context(), filter.From, filter.To)
	if err != nil {
		h.fail(w, r, "Failed to total weeks", err)
		return
	}
	dtos := make([]WeekTotalDTO, len(weeks))
	for i, wk := range weeks {
		dtos[i] = WeekTotalDTO{
			WeekStart:   wk.WeekStart.String(),
			WeekEnd:     wk.WeekEnd.String(),
			Earned:      money(wk.Earned),
			Paid:        money(wk.Paid),
			Due:         money(wk.Due),
			Games:       wk.Games,
			Assignments: wk.Assignments,
			Umpires:     wk.Umpires,
			Unresolved:  wk.Unresolved,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) Coverage(w http.ResponseWriter, r *http.Request) {
	filter, ok := gameFilter(w, r)
	if !ok {
		return
	}
	report, err := h.Service.Coverage(r.Context(), filter)
	if err != nil {
		h.fail(w, r, "Failed to build coverage", err)
		return
	}
	writeJSON(w, http.StatusOK, CoverageDTO{
		TotalGames:       report.TotalGames,
		FullyCovered:     report.FullyCovered,
		CoveragePercent:  report.CoveragePercent,
		Unassigned:       toCoverageGames(report.Unassigned),
		PartiallyStaffed: toCoverageGames(report.PartiallyStaffed),
	})
}

// Recompute re-prices every unpaid assignment against the current rate log.
func (h *Handler) Recompute(w http.ResponseWriter, r *http.Request) {
	n, err := h.Service.RecomputeAll(r.Context(), nil)
	if err != nil {
		h.fail(w, r, "Recompute failed", err)
		return
	}
	writeJSON(w, http.StatusOK, RecomputeResponse{Updated: n})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// fail maps a service error to its HTTP status and writes it.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, message string, err error) {
	status := statusFor(err)
	resp := ErrorResponse{Error: message, Details: err.Error()}

	var rej *league.RejectionError
	switch {
	case errors.As(err, &rej):
		resp.Code = "rejected"
		resp.Details = RejectionDetails{
			Reason:         string(rej.Reason),
			GameID:         string(rej.GameID),
			UmpireID:       string(rej.UmpireID),
			Position:       string(rej.Position),
			ConflictGameID: string(rej.ConflictGameID),
		}
	case league.IsRetryable(err):
		resp.Code = "conflict"
		resp.Retryable = true
	case league.IsNotFound(err):
		resp.Code = "not_found"
	case status == http.StatusBadRequest:
		resp.Code = "invalid"
	}

	if status >= http.StatusInternalServerError {
		h.Logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, resp)
}

func statusFor(err error) int {
	switch {
	case league.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, league.ErrInvalidInput):
		return http.StatusBadRequest
	case league.IsRetryable(err), league.IsClientError(err):
		return http.StatusConflict
	case errors.Is(err, league.ErrRateUnresolvable):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	return true
}

// gameFilter reads ?from=, ?to= (inclusive, YYYY-MM-DD) and ?field=.
func gameFilter(w http.ResponseWriter, r *http.Request) (league.GameFilter, bool) {
	var f league.GameFilter
	q := r.URL.Query()
	for _, p := range []struct {
		name string
		dst  **league.Date
	}{{"from", &f.From}, {"to", &f.To}} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		d, err := league.ParseDate(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid "+p.name+" date", err)
			return f, false
		}
		*p.dst = &d
	}
	f.Field = league.Field(q.Get("field"))
	return f, true
}
