/*
payrate.go - Effective-date resolution over the pay rate log

PURPOSE:
  Pay rates are an append-mostly log of versions. Resolution is a pure
  query over that log: there is no cached "current rate".

RESOLUTION RULE:
  For a date d, the applicable rate is the one with the latest
  EffectiveDate <= d. Two rates with the same EffectiveDate are ordered by
  id, and the higher id (created later) wins.

EXAMPLE:
  table := league.NewRateTable(rates)
  rate, err := table.Resolve(league.NewDate(2024, time.March, 1))
  if errors.Is(err, league.ErrRateUnresolvable) {
      // leave the amount NULL
  }
*/
package league

import "sort"

// RateTable is an immutable, sorted view of the pay rate log.
type RateTable struct {
	rates []PayRate // ascending by (EffectiveDate, ID)
}

func NewRateTable(rates []PayRate) *RateTable {
	sorted := make([]PayRate, len(rates))
	copy(sorted, rates)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].EffectiveDate.Equal(sorted[j].EffectiveDate) {
			return sorted[i].ID < sorted[j].ID
		}
		return sorted[i].EffectiveDate.Before(sorted[j].EffectiveDate)
	})
	return &RateTable{rates: sorted}
}

func (t *RateTable) Len() int { return len(t.rates) }

// Rates returns the log in resolution order.
func (t *RateTable) Rates() []PayRate {
	out := make([]PayRate, len(t.rates))
	copy(out, t.rates)
	return out
}

// Resolve returns the rate in effect on d.
func (t *RateTable) Resolve(d Date) (PayRate, error) {
	// First index whose effective date is after d; the one before it wins.
	i := sort.Search(len(t.rates), func(i int) bool {
		return t.rates[i].EffectiveDate.After(d)
	})
	if i == 0 {
		return PayRate{}, &UnresolvableRateError{Date: d}
	}
	return t.rates[i-1], nil
}

// Current is Resolve for today.
func (t *RateTable) Current() (PayRate, error) {
	return t.Resolve(Today())
}

// NextAfter returns the earliest effective date strictly after d, if any.
func (t *RateTable) NextAfter(d Date) (Date, bool) {
	i := sort.Search(len(t.rates), func(i int) bool {
		return t.rates[i].EffectiveDate.After(d)
	})
	if i == len(t.rates) {
		return Date{}, false
	}
	return t.rates[i].EffectiveDate, true
}

// Window is a half-open date range [From, Until). A nil Until is open-ended.
type Window struct {
	From  Date
	Until *Date
}

func (w Window) Contains(d Date) bool {
	if d.Before(w.From) {
		return false
	}
	return w.Until == nil || d.Before(*w.Until)
}

// Window returns the dates on which the given rate is the resolved one.
// A rate shadowed by a later-created rate with the same effective date
// resolves nowhere and reports ok=false.
func (t *RateTable) Window(id PayRateID) (Window, bool) {
	for i, r := range t.rates {
		if r.ID != id {
			continue
		}
		if i+1 < len(t.rates) && t.rates[i+1].EffectiveDate.Equal(r.EffectiveDate) {
			return Window{}, false
		}
		w := Window{From: r.EffectiveDate}
		if next, ok := t.NextAfter(r.EffectiveDate); ok {
			w.Until = &next
		}
		return w, true
	}
	return Window{}, false
}

// =============================================================================
// RATE CHANGE - The event emitted when an administrator saves a pay rate
// =============================================================================

// RateChange describes a saved pay rate. Previous is the rate's effective
// date before the edit, nil for a new rate.
type RateChange struct {
	PayRateID PayRateID
	Previous  *Date
	Current   Date
}

// AffectedWindow returns the game dates whose resolved rate may have changed:
// from the earlier of the old and new effective dates up to the next
// effective date after the later of the two.
func (c RateChange) AffectedWindow(t *RateTable) Window {
	from, to := c.Current, c.Current
	if c.Previous != nil {
		from = MinDate(*c.Previous, c.Current)
		to = MaxDate(*c.Previous, c.Current)
	}
	w := Window{From: from}
	if next, ok := t.NextAfter(to); ok {
		w.Until = &next
	}
	return w
}
