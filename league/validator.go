/*
validator.go - Assignment legality checks

CHECK ORDER (first failure wins):
  1. game full                                 the game already has two umpires
  2. illegal position for current occupancy    solo next to anyone, or anyone next to solo
  3. position already filled                   the seat (or the umpire) is already on the game
  4. umpire double-booked                      the umpire works another game in the same slot

EDITING:
  When an existing assignment changes position or umpire, the caller passes
  the game's OTHER assignments as occupants and the umpire's OTHER bookings,
  so the assignment never conflicts with itself.
*/
package league

import "fmt"

// Candidate is a proposed seat on a game.
type Candidate struct {
	GameID   GameID
	UmpireID UmpireID
	Position Position
}

// Validate decides whether the candidate may be seated.
//
// occupants are the assignments already on the game (excluding the one being
// edited). bookings are the candidate umpire's assignments (the game itself
// is skipped). A nil return authorizes the write.
func Validate(game Game, occupants []Assignment, bookings []Booking, c Candidate) error {
	if !c.Position.Valid() {
		return fmt.Errorf("%w: unknown position %q", ErrInvalidInput, c.Position)
	}
	c.GameID = game.ID

	occ := OccupancyOf(occupants)

	// 1. Capacity
	if occ == OccupancyFull {
		return reject(ReasonGameFull, c, fmt.Sprintf("%s already has two umpires", game))
	}

	// 2 + 3. Position against occupancy
	if _, ok := occ.Next(c.Position); !ok {
		if occ != OccupancySolo && c.Position != PositionSolo && occ.Holds(c.Position) {
			return reject(ReasonPositionFilled, c,
				fmt.Sprintf("game already has a %s umpire", c.Position))
		}
		return reject(ReasonIllegalPosition, c,
			fmt.Sprintf("cannot seat %s on a game that is %s", c.Position, occ))
	}

	for _, a := range occupants {
		if a.UmpireID == c.UmpireID {
			return reject(ReasonPositionFilled, c,
				fmt.Sprintf("umpire already holds the %s position on this game", a.Position))
		}
	}

	// 4. Double booking
	for _, b := range bookings {
		if b.GameID == game.ID {
			continue
		}
		if b.Date.Equal(game.Date) && b.Slot == game.Slot {
			rej := reject(ReasonDoubleBooked, c,
				fmt.Sprintf("already assigned to another game at %s %s", b.Date, b.Slot.Label()))
			rej.ConflictGameID = b.GameID
			return rej
		}
	}

	return nil
}

// others returns assignments without the one identified by skip.
func others(assignments []Assignment, skip AssignmentID) []Assignment {
	out := make([]Assignment, 0, len(assignments))
	for _, a := range assignments {
		if a.ID != skip {
			out = append(out, a)
		}
	}
	return out
}
