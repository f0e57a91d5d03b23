package league_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/umpire-engine/league"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func owed(s string) decimal.NullDecimal { return decimal.NewNullDecimal(dec(s)) }

// =============================================================================
// COMPUTE - Amount selection table
// =============================================================================

func TestCompute_SelectsByPositionAndPatch(t *testing.T) {
	r := league.DefaultPayRate(june1)

	tests := []struct {
		pos     league.Position
		patched bool
		want    string
	}{
		{league.PositionSolo, true, "50"},
		{league.PositionSolo, false, "40"},
		{league.PositionPlate, true, "35"},
		{league.PositionPlate, false, "30"},
		{league.PositionBase, true, "25"},
		{league.PositionBase, false, "25"},
	}
	for _, tt := range tests {
		got := league.Compute(r, tt.pos, tt.patched)
		assert.True(t, got.Equal(dec(tt.want)), "%s patched=%v: got %s", tt.pos, tt.patched, got)
	}
}

func TestCompute_IsPure(t *testing.T) {
	r := league.DefaultPayRate(june1)
	first := league.Compute(r, league.PositionPlate, true)
	for i := 0; i < 5; i++ {
		assert.True(t, first.Equal(league.Compute(r, league.PositionPlate, true)))
	}
}

// =============================================================================
// CALCULATOR
// =============================================================================

func TestCalculator_ComputeFor(t *testing.T) {
	old := league.DefaultPayRate(league.MustParseDate("2024-01-01"))
	old.ID = 1
	raise := league.DefaultPayRate(league.MustParseDate("2024-06-01"))
	raise.ID = 2
	raise.PlatePatched = dec("38")
	calc := league.NewCalculator([]league.PayRate{old, raise})

	umpire := league.Umpire{ID: "u", Patched: true}
	a := seat("x", "g", "u", league.PositionPlate)

	before := league.Game{ID: "g", Date: league.MustParseDate("2024-05-31")}
	p, err := calc.ComputeFor(a, before, umpire)
	require.NoError(t, err)
	assert.Equal(t, league.PayRateID(1), p.PayRateID)
	assert.True(t, p.Amount.Equal(dec("35")))

	on := league.Game{ID: "g", Date: league.MustParseDate("2024-06-01")}
	p, err = calc.ComputeFor(a, on, umpire)
	require.NoError(t, err)
	assert.Equal(t, league.PayRateID(2), p.PayRateID)
	assert.True(t, p.Amount.Equal(dec("38")))
}

func TestCalculator_ApplyLeavesUnresolvedAmountNull(t *testing.T) {
	r := league.DefaultPayRate(league.MustParseDate("2024-06-01"))
	r.ID = 1
	calc := league.NewCalculator([]league.PayRate{r})

	a := seat("x", "g", "u", league.PositionSolo)
	a.AmountOwed = owed("40")
	a.PayRateID = 1
	game := league.Game{ID: "g", Date: league.MustParseDate("2024-05-01")}

	changed, err := calc.Apply(&a, game, league.Umpire{ID: "u"})

	assert.ErrorIs(t, err, league.ErrRateUnresolvable)
	assert.True(t, changed)
	assert.False(t, a.AmountOwed.Valid, "missing rate must never become 0")
	assert.Zero(t, a.PayRateID)
}

func TestCalculator_ApplySkipsPaid(t *testing.T) {
	r := league.DefaultPayRate(june1)
	r.ID = 1
	r.SoloPatched = dec("99")
	calc := league.NewCalculator([]league.PayRate{r})

	a := seat("x", "g", "u", league.PositionSolo)
	a.AmountOwed = owed("50")
	a.PayRateID = 1
	a.Paid = true

	changed, err := calc.Apply(&a, league.Game{ID: "g", Date: june1}, league.Umpire{ID: "u", Patched: true})

	require.NoError(t, err)
	assert.False(t, changed)
	assert.True(t, a.AmountOwed.Decimal.Equal(dec("50")))
}

func TestCalculator_ApplyUnchanged(t *testing.T) {
	r := league.DefaultPayRate(june1)
	r.ID = 1
	calc := league.NewCalculator([]league.PayRate{r})

	a := seat("x", "g", "u", league.PositionBase)
	a.AmountOwed = owed("25.00")
	a.PayRateID = 1

	changed, err := calc.Apply(&a, league.Game{ID: "g", Date: june1}, league.Umpire{ID: "u"})

	require.NoError(t, err)
	assert.False(t, changed)
}

func TestCalculator_Owed(t *testing.T) {
	r := league.DefaultPayRate(june1)
	r.ID = 1
	calc := league.NewCalculator([]league.PayRate{r})
	game := league.Game{ID: "g", Date: june1}
	umpire := league.Umpire{ID: "u", Patched: true}

	tests := []struct {
		name     string
		work     league.WorkStatus
		override string
		want     string
		rateID   league.PayRateID
	}{
		{"assigned uses the rate", league.WorkAssigned, "", "50", 1},
		{"worked uses the rate", league.WorkWorked, "", "50", 1},
		{"unset work status is payable", "", "", "50", 1},
		{"no-show is owed nothing", league.WorkNoShow, "", "0", 0},
		{"cancelled is owed nothing", league.WorkCancelled, "", "0", 0},
		{"override wins", league.WorkWorked, "12.50", "12.50", 0},
		{"override wins over no-show", league.WorkNoShow, "5", "5", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := seat("x", "g", "u", league.PositionSolo)
			a.Work = tt.work
			if tt.override != "" {
				a.PayOverride = true
				a.AmountOwed = owed(tt.override)
			}
			p, err := calc.Owed(a, game, umpire)
			require.NoError(t, err)
			assert.True(t, p.Amount.Equal(dec(tt.want)), "got %s", p.Amount)
			assert.Equal(t, tt.rateID, p.PayRateID)
		})
	}
}

func TestCalculator_ApplyNoShowResolvesWithoutRate(t *testing.T) {
	calc := league.NewCalculator(nil)

	a := seat("x", "g", "u", league.PositionSolo)
	a.Work = league.WorkNoShow
	changed, err := calc.Apply(&a, league.Game{ID: "g", Date: june1}, league.Umpire{ID: "u"})

	require.NoError(t, err)
	assert.True(t, changed)
	require.True(t, a.AmountOwed.Valid, "a no-show is a known zero")
	assert.True(t, a.AmountOwed.Decimal.IsZero())
}

// =============================================================================
// SUMMARIES
// =============================================================================

func TestSummarize(t *testing.T) {
	paid := seat("1", "g1", "u", league.PositionSolo)
	paid.AmountOwed, paid.Paid = owed("50"), true
	due := seat("2", "g2", "u", league.PositionPlate)
	due.AmountOwed = owed("35")
	unresolved := seat("3", "g3", "u", league.PositionBase)
	someoneElse := seat("4", "g1", "v", league.PositionBase)
	someoneElse.AmountOwed = owed("25")

	s := league.Summarize("u", []league.Assignment{paid, due, unresolved, someoneElse})

	assert.Equal(t, 3, s.Assignments)
	assert.Equal(t, 1, s.Unresolved)
	assert.True(t, s.Earned.Equal(dec("85")))
	assert.True(t, s.Paid.Equal(dec("50")))
	assert.True(t, s.Balance.Equal(dec("35")))
}

func TestWeeklyTotals(t *testing.T) {
	// 2024-06-01 is a Saturday, 2024-06-03 a Monday.
	sat := league.Game{ID: "sat", Date: league.MustParseDate("2024-06-01")}
	mon := league.Game{ID: "mon", Date: league.MustParseDate("2024-06-03")}
	sun := league.Game{ID: "sun", Date: league.MustParseDate("2024-06-09")}

	a1 := seat("1", "sat", "u", league.PositionSolo)
	a1.AmountOwed, a1.Paid = owed("50"), true
	a2 := seat("2", "mon", "u", league.PositionPlate)
	a2.AmountOwed = owed("35")
	a3 := seat("3", "mon", "v", league.PositionBase)
	a3.AmountOwed = owed("25")
	a4 := seat("4", "sun", "v", league.PositionSolo)

	weeks := league.WeeklyTotals([]league.Game{sun, sat, mon}, []league.Assignment{a1, a2, a3, a4})

	type row struct {
		Start, End               string
		Earned, Paid, Due        string
		Games, Assigned, Umpires int
		Unresolved               int
	}
	got := make([]row, 0, len(weeks))
	for _, w := range weeks {
		got = append(got, row{
			Start: w.WeekStart.String(), End: w.WeekEnd.String(),
			Earned: w.Earned.StringFixed(2), Paid: w.Paid.StringFixed(2), Due: w.Due.StringFixed(2),
			Games: w.Games, Assigned: w.Assignments, Umpires: w.Umpires, Unresolved: w.Unresolved,
		})
	}
	want := []row{
		{"2024-05-27", "2024-06-02", "50.00", "50.00", "0.00", 1, 1, 1, 0},
		{"2024-06-03", "2024-06-09", "60.00", "0.00", "60.00", 2, 3, 2, 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("weekly totals mismatch (-want +got):\n%s", diff)
	}
}

// =============================================================================
// COVERAGE
// =============================================================================

func TestCoverage(t *testing.T) {
	g1 := league.Game{ID: "g1", Date: june1, Slot: league.Slot0800, Field: league.FieldA}
	g2 := league.Game{ID: "g2", Date: june1, Slot: league.Slot1015, Field: league.FieldA}
	g3 := league.Game{ID: "g3", Date: june1, Slot: league.Slot1230, Field: league.FieldB}
	g4 := league.Game{ID: "g4", Date: june1.AddDays(7), Slot: league.Slot0800, Field: league.FieldA}

	report := league.Coverage([]league.Game{g4, g3, g2, g1}, []league.Assignment{
		seat("1", "g1", "a", league.PositionSolo),
		seat("2", "g2", "a", league.PositionPlate),
		seat("3", "g3", "b", league.PositionPlate),
		seat("4", "g3", "c", league.PositionBase),
	})

	assert.Equal(t, 4, report.TotalGames)
	assert.Equal(t, 2, report.FullyCovered)
	assert.Equal(t, 50.0, report.CoveragePercent)

	require.Len(t, report.PartiallyStaffed, 1)
	assert.Equal(t, league.GameID("g2"), report.PartiallyStaffed[0].Game.ID)
	assert.Equal(t, []league.Position{league.PositionBase}, report.PartiallyStaffed[0].Open)
	assert.Equal(t, 1, report.PartiallyStaffed[0].Needed)

	require.Len(t, report.Unassigned, 1)
	assert.Equal(t, league.GameID("g4"), report.Unassigned[0].Game.ID)
}

func TestCoverage_SkipsCancelledAndPostponed(t *testing.T) {
	played := league.Game{ID: "g1", Date: june1, Slot: league.Slot0800, Field: league.FieldA, Status: league.GameCompleted}
	rained := league.Game{ID: "g2", Date: june1, Slot: league.Slot1015, Field: league.FieldA, Status: league.GamePostponed}
	called := league.Game{ID: "g3", Date: june1, Slot: league.Slot1230, Field: league.FieldA, Status: league.GameCancelled}

	report := league.Coverage([]league.Game{played, rained, called}, nil)

	assert.Equal(t, 1, report.TotalGames)
	require.Len(t, report.Unassigned, 1)
	assert.Equal(t, league.GameID("g1"), report.Unassigned[0].Game.ID)
}

func TestRoster_AvailableFor(t *testing.T) {
	ann := league.Umpire{ID: "ann", FirstName: "Ann", LastName: "Zed"}
	bea := league.Umpire{ID: "bea", FirstName: "Bea", LastName: "Young"}
	cal := league.Umpire{ID: "cal", FirstName: "Cal", LastName: "Young"}
	dee := league.Umpire{ID: "dee", FirstName: "Dee", LastName: "Xu"}
	eve := league.Umpire{ID: "eve", FirstName: "Eve", LastName: "Wu"}

	early := league.Game{ID: "g1", Date: june1, Slot: league.Slot0800, Field: league.FieldA}
	beside := league.Game{ID: "g2", Date: june1, Slot: league.Slot0800, Field: league.FieldB}
	late := league.Game{ID: "g3", Date: june1, Slot: league.Slot1445, Field: league.FieldA}

	availability := []league.Availability{
		{UmpireID: "ann", Date: june1, Slot: league.SlotAllDay, Status: league.Available},
		{UmpireID: "bea", Date: june1, Slot: league.SlotAllDay, Status: league.Available},
		{UmpireID: "cal", Date: june1, Slot: league.SlotAllDay, Status: league.Available},
		// Dee prefers the late game and cannot do the early one.
		{UmpireID: "dee", Date: june1, Slot: league.SlotAllDay, Status: league.Unavailable},
		{UmpireID: "dee", Date: june1, Slot: league.Slot1445, Status: league.Preferred},
		// Eve is busy beside the early game.
		{UmpireID: "eve", Date: june1, Slot: league.SlotAllDay, Status: league.Preferred},
		// A different day says nothing about june1.
		{UmpireID: "ann", Date: june1.AddDays(1), Slot: league.SlotAllDay, Status: league.Unavailable},
	}
	roster := league.NewRoster(
		[]league.Umpire{ann, bea, cal, dee, eve},
		availability,
		[]league.Game{early, beside, late},
		[]league.Assignment{seat("1", "g2", "eve", league.PositionSolo)},
	)

	names := func(avs []league.AvailableUmpire) []string {
		var out []string
		for _, av := range avs {
			out = append(out, string(av.Umpire.ID))
		}
		return out
	}

	assert.Equal(t, []string{"bea", "cal", "ann"}, names(roster.AvailableFor(early)))

	lateCrew := roster.AvailableFor(late)
	assert.Equal(t, []string{"eve", "dee", "bea", "cal", "ann"}, names(lateCrew))
	assert.True(t, lateCrew[0].Preferred)
	assert.True(t, lateCrew[1].Preferred)
	assert.False(t, lateCrew[2].Preferred)

	// Eve is seated on g2, so she is not offered for it either.
	assert.Equal(t, []string{"bea", "cal", "ann"}, names(roster.AvailableFor(beside)))

	assert.Empty(t, roster.AvailableFor(league.Game{ID: "g9", Date: june1.AddDays(2), Slot: league.Slot0800}))
}
