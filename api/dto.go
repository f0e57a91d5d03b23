/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication, decoupling the league
  domain types from the external contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY AND DATES:
  Amounts are decimal strings with two places ("35.00"); an unresolved
  amount is JSON null. Dates are YYYY-MM-DD.

VALIDATION:
  Validation is done in handlers and the league service, not in DTOs.
*/
package api

import (
	"github.com/shopspring/decimal"
	"github.com/warp/umpire-engine/league"
)

// =============================================================================
// REFERENCE DATA
// =============================================================================

type TownDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CreateTownRequest struct {
	Name string `json:"name"`
}

type TeamDTO struct {
	ID     string `json:"id"`
	TownID string `json:"town_id"`
	Level  string `json:"level"`
	Name   string `json:"name"`
}

type CreateTeamRequest struct {
	TownID string `json:"town_id"`
	Level  string `json:"level"`
	Name   string `json:"name"`
}

type UmpireDTO struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Adult     bool   `json:"adult"`
	Patched   bool   `json:"patched"`
}

type CreateUmpireRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Adult     bool   `json:"adult"`
	Patched   bool   `json:"patched"`
}

// UpdateUmpireRequest is an administrative edit. Only these fields change.
type UpdateUmpireRequest struct {
	Phone   string `json:"phone"`
	Adult   bool   `json:"adult"`
	Patched bool   `json:"patched"`
}

type UpdateUmpireResponse struct {
	Umpire     UmpireDTO `json:"umpire"`
	Recomputed int       `json:"recomputed"`
}

// =============================================================================
// GAMES
// =============================================================================

type GameDTO struct {
	ID         string `json:"id"`
	Date       string `json:"date"`
	Slot       string `json:"slot"`
	Field      string `json:"field"`
	HomeTeamID string `json:"home_team_id"`
	AwayTeamID string `json:"away_team_id"`
	Status     string `json:"status"`
	Version    int64  `json:"version"`
}

// GameDetailDTO is a game with its crew and open seats.
type GameDetailDTO struct {
	GameDTO
	Occupancy   string          `json:"occupancy"`
	Open        []string        `json:"open_positions"`
	Assignments []AssignmentDTO `json:"assignments"`
}

type CreateGameRequest struct {
	Date       string `json:"date"`
	Slot       string `json:"slot"`
	Field      string `json:"field"`
	HomeTeamID string `json:"home_team_id"`
	AwayTeamID string `json:"away_team_id"`
}

type RescheduleGameRequest struct {
	Date  string `json:"date"`
	Slot  string `json:"slot"`
	Field string `json:"field"`
}

type RescheduleGameResponse struct {
	Game       GameDTO `json:"game"`
	Recomputed int     `json:"recomputed"`
}

// CompleteGameRequest records a game's outcome. Assignments maps
// assignment ids to worked, no_show or cancelled.
type CompleteGameRequest struct {
	Status      string            `json:"status"`
	Assignments map[string]string `json:"assignments"`
}

type CompleteGameResponse struct {
	Game        GameDTO         `json:"game"`
	Assignments []AssignmentDTO `json:"assignments"`
}

// =============================================================================
// ASSIGNMENTS
// =============================================================================

type AssignmentDTO struct {
	ID          string  `json:"id"`
	GameID      string  `json:"game_id"`
	UmpireID    string  `json:"umpire_id"`
	Position    string  `json:"position"`
	AmountOwed  *string `json:"amount_owed"` // null when no pay rate applies
	PayRateID   *int64  `json:"pay_rate_id"`
	Paid        bool    `json:"paid"`
	WorkStatus  string  `json:"work_status"`
	PayOverride bool    `json:"pay_override"`
}

type CreateAssignmentRequest struct {
	GameID   string `json:"game_id"`
	UmpireID string `json:"umpire_id"`
	Position string `json:"position"`
}

type EditPositionRequest struct {
	Position string `json:"position"`
}

type ReassignRequest struct {
	UmpireID string `json:"umpire_id"`
}

type MarkPaidRequest struct {
	Paid bool `json:"paid"`
}

// OverridePayRequest sets a manual amount; a null amount clears it.
type OverridePayRequest struct {
	Amount *string `json:"amount"`
}

// =============================================================================
// AVAILABILITY
// =============================================================================

type AvailabilityDTO struct {
	UmpireID string `json:"umpire_id"`
	Date     string `json:"date"`
	Slot     string `json:"slot"` // a time slot or "all"
	Status   string `json:"status"`
	Notes    string `json:"notes,omitempty"`
}

type SetAvailabilityRequest struct {
	Date   string `json:"date"`
	Slot   string `json:"slot"`
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

type PaymentDTO struct {
	AssignmentID string `json:"assignment_id"`
	Amount       string `json:"amount"`
	PayRateID    int64  `json:"pay_rate_id"`
}

// =============================================================================
// PAY RATES
// =============================================================================

type PayRateDTO struct {
	ID             int64  `json:"id"`
	EffectiveDate  string `json:"effective_date"`
	SoloPatched    string `json:"solo_patched"`
	SoloUnpatched  string `json:"solo_unpatched"`
	PlatePatched   string `json:"plate_patched"`
	PlateUnpatched string `json:"plate_unpatched"`
	Base           string `json:"base"`
}

// SavePayRateRequest creates a rate when posted to the collection and
// replaces one when put to /pay-rates/{id}.
type SavePayRateRequest struct {
	EffectiveDate  string `json:"effective_date"`
	SoloPatched    string `json:"solo_patched"`
	SoloUnpatched  string `json:"solo_unpatched"`
	PlatePatched   string `json:"plate_patched"`
	PlateUnpatched string `json:"plate_unpatched"`
	Base           string `json:"base"`
}

type SavePayRateResponse struct {
	PayRate    PayRateDTO `json:"pay_rate"`
	Recomputed int        `json:"recomputed"`
}

// =============================================================================
// REPORTS
// =============================================================================

type PaymentSummaryDTO struct {
	UmpireID    string `json:"umpire_id"`
	Earned      string `json:"earned"`
	Paid        string `json:"paid"`
	Balance     string `json:"balance"`
	Assignments int    `json:"assignments"`
	Unresolved  int    `json:"unresolved"`
}

type WeekTotalDTO struct {
	WeekStart   string `json:"week_start"`
	WeekEnd     string `json:"week_end"`
	Earned      string `json:"earned"`
	Paid        string `json:"paid"`
	Due         string `json:"due"`
	Games       int    `json:"games"`
	Assignments int    `json:"assignments"`
	Umpires     int    `json:"umpires"`
	Unresolved  int    `json:"unresolved"`
}

type CoverageGameDTO struct {
	Game      GameDTO              `json:"game"`
	Occupancy string               `json:"occupancy"`
	Open      []string             `json:"open_positions"`
	Needed    int                  `json:"needed"`
	Available []AvailableUmpireDTO `json:"available_umpires"`
}

type AvailableUmpireDTO struct {
	UmpireID  string `json:"umpire_id"`
	Name      string `json:"name"`
	Patched   bool   `json:"patched"`
	Preferred bool   `json:"preferred"`
}

type CoverageDTO struct {
	TotalGames       int               `json:"total_games"`
	FullyCovered     int               `json:"fully_covered"`
	CoveragePercent  float64           `json:"coverage_percent"`
	Unassigned       []CoverageGameDTO `json:"unassigned"`
	PartiallyStaffed []CoverageGameDTO `json:"partially_staffed"`
}

type RecomputeResponse struct {
	Updated int `json:"updated"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Details   any    `json:"details,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
}

// RejectionDetails is carried in ErrorResponse.Details for staffing rejections.
type RejectionDetails struct {
	Reason         string `json:"reason"`
	GameID         string `json:"game_id,omitempty"`
	UmpireID       string `json:"umpire_id,omitempty"`
	Position       string `json:"position,omitempty"`
	ConflictGameID string `json:"conflict_game_id,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func money(d decimal.Decimal) string { return d.StringFixed(2) }

func toTownDTO(t league.Town) TownDTO { return TownDTO{ID: string(t.ID), Name: t.Name} }

func toTeamDTO(t league.Team) TeamDTO {
	return TeamDTO{ID: string(t.ID), TownID: string(t.TownID), Level: string(t.Level), Name: t.Name}
}

func toUmpireDTO(u league.Umpire) UmpireDTO {
	return UmpireDTO{
		ID:        string(u.ID),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
		Adult:     u.Adult,
		Patched:   u.Patched,
	}
}

func toGameDTO(g league.Game) GameDTO {
	return GameDTO{
		ID:         string(g.ID),
		Date:       g.Date.String(),
		Slot:       string(g.Slot),
		Field:      string(g.Field),
		HomeTeamID: string(g.HomeTeamID),
		AwayTeamID: string(g.AwayTeamID),
		Status:     string(g.Status),
		Version:    g.Version,
	}
}

func toAssignmentDTO(a league.Assignment) AssignmentDTO {
	dto := AssignmentDTO{
		ID:       string(a.ID),
		GameID:   string(a.GameID),
		UmpireID: string(a.UmpireID),
		Position: string(a.Position),
		Paid:     a.Paid,

		WorkStatus:  string(a.Work),
		PayOverride: a.PayOverride,
	}
	if dto.WorkStatus == "" {
		dto.WorkStatus = string(league.WorkAssigned)
	}
	if a.AmountOwed.Valid {
		s := money(a.AmountOwed.Decimal)
		dto.AmountOwed = &s
	}
	if a.PayRateID != 0 {
		id := int64(a.PayRateID)
		dto.PayRateID = &id
	}
	return dto
}

func toAssignmentDTOs(as []league.Assignment) []AssignmentDTO {
	out := make([]AssignmentDTO, len(as))
	for i, a := range as {
		out[i] = toAssignmentDTO(a)
	}
	return out
}

func toPayRateDTO(r league.PayRate) PayRateDTO {
	return PayRateDTO{
		ID:             int64(r.ID),
		EffectiveDate:  r.EffectiveDate.String(),
		SoloPatched:    money(r.SoloPatched),
		SoloUnpatched:  money(r.SoloUnpatched),
		PlatePatched:   money(r.PlatePatched),
		PlateUnpatched: money(r.PlateUnpatched),
		Base:           money(r.Base),
	}
}

func positions(ps []league.Position) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = string(p)
	}
	return out
}

func toCoverageGames(gcs []league.GameCoverage) []CoverageGameDTO {
	out := make([]CoverageGameDTO, len(gcs))
	for i, gc := range gcs {
		out[i] = CoverageGameDTO{
			Game:      toGameDTO(gc.Game),
			Occupancy: gc.Occupancy.String(),
			Open:      positions(gc.Open),
			Needed:    gc.Needed,
			Available: make([]AvailableUmpireDTO, len(gc.Available)),
		}
		for j, au := range gc.Available {
			out[i].Available[j] = AvailableUmpireDTO{
				UmpireID:  string(au.Umpire.ID),
				Name:      au.Umpire.Name(),
				Patched:   au.Umpire.Patched,
				Preferred: au.Preferred,
			}
		}
	}
	return out
}

func toAvailabilityDTO(av league.Availability) AvailabilityDTO {
	return AvailabilityDTO{
		UmpireID: string(av.UmpireID),
		Date:     av.Date.String(),
		Slot:     string(av.Slot),
		Status:   string(av.Status),
		Notes:    av.Notes,
	}
}
