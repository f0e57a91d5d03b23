package league

// =============================================================================
// OCCUPANCY - Per-game staffing state machine
// =============================================================================
//
//   empty ──solo──▶ solo
//   empty ──plate─▶ plate ──base──▶ full
//   empty ──base──▶ base  ──plate─▶ full
//
// Any (state, position) pair missing from the table is an illegal move.
// Removing an assignment walks the same edges backwards.

type Occupancy int

const (
	OccupancyEmpty Occupancy = iota
	OccupancySolo
	OccupancyPlate
	OccupancyBase
	OccupancyFull
)

var occupancyNames = map[Occupancy]string{
	OccupancyEmpty: "empty",
	OccupancySolo:  "solo",
	OccupancyPlate: "plate",
	OccupancyBase:  "base",
	OccupancyFull:  "plate+base",
}

func (o Occupancy) String() string { return occupancyNames[o] }

var transitions = map[Occupancy]map[Position]Occupancy{
	OccupancyEmpty: {
		PositionSolo:  OccupancySolo,
		PositionPlate: OccupancyPlate,
		PositionBase:  OccupancyBase,
	},
	OccupancyPlate: {PositionBase: OccupancyFull},
	OccupancyBase:  {PositionPlate: OccupancyFull},
}

// Next returns the state reached by seating an umpire at p.
func (o Occupancy) Next(p Position) (Occupancy, bool) {
	next, ok := transitions[o][p]
	return next, ok
}

// Holds reports whether the state already has someone at p.
func (o Occupancy) Holds(p Position) bool {
	switch o {
	case OccupancySolo:
		return p == PositionSolo
	case OccupancyPlate:
		return p == PositionPlate
	case OccupancyBase:
		return p == PositionBase
	case OccupancyFull:
		return p == PositionPlate || p == PositionBase
	}
	return false
}

// Open returns the positions that can still be filled.
func (o Occupancy) Open() []Position {
	var open []Position
	for _, p := range []Position{PositionSolo, PositionPlate, PositionBase} {
		if _, ok := o.Next(p); ok {
			open = append(open, p)
		}
	}
	return open
}

// Covered reports whether the game has a complete crew.
func (o Occupancy) Covered() bool {
	return o == OccupancySolo || o == OccupancyFull
}

// OccupancyOf derives the state from the assignments currently on a game.
// Two or more assignments are always full; the validator never lets a
// game reach a two-seat configuration other than plate+base.
func OccupancyOf(assignments []Assignment) Occupancy {
	switch len(assignments) {
	case 0:
		return OccupancyEmpty
	case 1:
		switch assignments[0].Position {
		case PositionSolo:
			return OccupancySolo
		case PositionPlate:
			return OccupancyPlate
		case PositionBase:
			return OccupancyBase
		}
		return OccupancyEmpty
	}
	return OccupancyFull
}
