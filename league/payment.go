/*
payment.go - Amount owed and payment aggregation

PURPOSE:
  Turns (position, patched, resolved rate) into the amount an umpire is
  owed, and folds stored amounts into per-umpire and per-week totals.

AMOUNT SELECTION:
  solo  -> patched ? SoloPatched  : SoloUnpatched
  plate -> patched ? PlatePatched : PlateUnpatched
  base  -> Base (patched status ignored)

WHAT IS OWED (Calculator.Owed):
  manual override   -> the amount set by hand, no rate
  no_show/cancelled -> 0.00, no rate
  otherwise         -> Compute against the rate resolved for the game date

INVARIANTS:
  - Compute is pure: same inputs, same amount, regardless of history.
  - Paid assignments are frozen; aggregation trusts their stored amount.
  - An unresolved assignment contributes nothing to totals and is counted
    separately, so a missing rate never reads as "$0 owed".

SEE ALSO:
  - payrate.go: rate resolution
  - service.go: when amounts are (re)computed and written back
*/
package league

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Compute selects the amount for a position from a resolved rate.
func Compute(rate PayRate, position Position, patched bool) decimal.Decimal {
	switch position {
	case PositionSolo:
		if patched {
			return rate.SoloPatched
		}
		return rate.SoloUnpatched
	case PositionPlate:
		if patched {
			return rate.PlatePatched
		}
		return rate.PlateUnpatched
	case PositionBase:
		return rate.Base
	}
	return decimal.Zero
}

// Payment is a computed amount and the rate it came from.
type Payment struct {
	Amount    decimal.Decimal
	PayRateID PayRateID
}

// Calculator resolves the rate for a game date and computes the amount.
type Calculator struct {
	Rates *RateTable
}

func NewCalculator(rates []PayRate) *Calculator {
	return &Calculator{Rates: NewRateTable(rates)}
}

// ComputeFor returns what the umpire is owed for working the assignment.
// Returns an error wrapping ErrRateUnresolvable when no rate covers game.Date.
func (c *Calculator) ComputeFor(a Assignment, game Game, umpire Umpire) (Payment, error) {
	rate, err := c.Rates.Resolve(game.Date)
	if err != nil {
		return Payment{}, err
	}
	return Payment{
		Amount:    Compute(rate, a.Position, umpire.Patched),
		PayRateID: rate.ID,
	}, nil
}

// Owed is ComputeFor after manual overrides and work status are taken
// into account.
func (c *Calculator) Owed(a Assignment, game Game, umpire Umpire) (Payment, error) {
	switch {
	case a.PayOverride && a.AmountOwed.Valid:
		return Payment{Amount: a.AmountOwed.Decimal}, nil
	case !a.Work.Payable():
		return Payment{Amount: decimal.Zero}, nil
	}
	return c.ComputeFor(a, game, umpire)
}

// Apply recomputes an unpaid assignment in place and reports whether the
// stored amount or rate changed. Paid assignments are left alone.
func (c *Calculator) Apply(a *Assignment, game Game, umpire Umpire) (changed bool, err error) {
	if a.Paid {
		return false, nil
	}
	before := *a
	p, err := c.Owed(*a, game, umpire)
	if err != nil {
		a.AmountOwed = decimal.NullDecimal{}
		a.PayRateID = 0
	} else {
		a.AmountOwed = decimal.NewNullDecimal(p.Amount)
		a.PayRateID = p.PayRateID
	}
	return !sameAmount(before, *a), err
}

func sameAmount(a, b Assignment) bool {
	if a.AmountOwed.Valid != b.AmountOwed.Valid || a.PayRateID != b.PayRateID {
		return false
	}
	return !a.AmountOwed.Valid || a.AmountOwed.Decimal.Equal(b.AmountOwed.Decimal)
}

// =============================================================================
// PAYMENT SUMMARY - Per-umpire fold
// =============================================================================

type PaymentSummary struct {
	UmpireID    UmpireID
	Earned      decimal.Decimal // all resolved amounts
	Paid        decimal.Decimal // resolved amounts on paid assignments
	Balance     decimal.Decimal // Earned - Paid
	Assignments int
	Unresolved  int // assignments with no applicable pay rate
}

// Summarize folds one umpire's assignments.
func Summarize(umpireID UmpireID, assignments []Assignment) PaymentSummary {
	s := PaymentSummary{
		UmpireID: umpireID,
		Earned:   decimal.Zero,
		Paid:     decimal.Zero,
	}
	for _, a := range assignments {
		if a.UmpireID != umpireID {
			continue
		}
		s.Assignments++
		if !a.AmountOwed.Valid {
			s.Unresolved++
			continue
		}
		s.Earned = s.Earned.Add(a.AmountOwed.Decimal)
		if a.Paid {
			s.Paid = s.Paid.Add(a.AmountOwed.Decimal)
		}
	}
	s.Balance = s.Earned.Sub(s.Paid)
	return s
}

// =============================================================================
// WEEKLY TOTALS - Monday-start weeks across all umpires
// =============================================================================

type WeekTotal struct {
	WeekStart   Date
	WeekEnd     Date
	Earned      decimal.Decimal
	Paid        decimal.Decimal
	Due         decimal.Decimal
	Games       int
	Assignments int
	Umpires     int
	Unresolved  int
}

// WeeklyTotals groups assignments by the week of their game. games must
// contain every game referenced by assignments; games without assignments
// still count toward their week so empty weeks with games are reported.
func WeeklyTotals(games []Game, assignments []Assignment) []WeekTotal {
	gameByID := make(map[GameID]Game, len(games))
	weeks := make(map[Date]*WeekTotal)
	umpires := make(map[Date]map[UmpireID]bool)

	week := func(d Date) *WeekTotal {
		start := d.StartOfWeek()
		w, ok := weeks[start]
		if !ok {
			w = &WeekTotal{
				WeekStart: start,
				WeekEnd:   start.AddDays(6),
				Earned:    decimal.Zero,
				Paid:      decimal.Zero,
			}
			weeks[start] = w
			umpires[start] = make(map[UmpireID]bool)
		}
		return w
	}

	for _, g := range games {
		gameByID[g.ID] = g
		week(g.Date).Games++
	}

	for _, a := range assignments {
		g, ok := gameByID[a.GameID]
		if !ok {
			continue
		}
		w := week(g.Date)
		w.Assignments++
		umpires[w.WeekStart][a.UmpireID] = true
		if !a.AmountOwed.Valid {
			w.Unresolved++
			continue
		}
		w.Earned = w.Earned.Add(a.AmountOwed.Decimal)
		if a.Paid {
			w.Paid = w.Paid.Add(a.AmountOwed.Decimal)
		}
	}

	out := make([]WeekTotal, 0, len(weeks))
	for start, w := range weeks {
		w.Due = w.Earned.Sub(w.Paid)
		w.Umpires = len(umpires[start])
		out = append(out, *w)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].WeekStart.Before(out[j].WeekStart)
	})
	return out
}
