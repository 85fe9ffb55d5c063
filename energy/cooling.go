// SPDX-License-Identifier: MIT

package energy

import (
	"fmt"
	"math"
)

// Default cooling schedule.
const (
	DefaultStartTemperature = 10000.0
	DefaultCoolingPeriod    = 2
	DefaultCoolingStep      = 10.0
	DefaultFloorTemperature = 10.0
)

// Cooling is a staircase annealing schedule: the temperature starts at Start,
// drops by Step every Period iterations and never falls below Floor.
type Cooling struct {
	Start  float64
	Period int
	Step   float64
	Floor  float64
}

// DefaultCooling returns the 10000 → 10 schedule stepping by 10 every two
// iterations.
func DefaultCooling() Cooling {
	return Cooling{
		Start:  DefaultStartTemperature,
		Period: DefaultCoolingPeriod,
		Step:   DefaultCoolingStep,
		Floor:  DefaultFloorTemperature,
	}
}

// Validate reports ErrBadCooling when the schedule could reach a
// non-positive temperature or never advance.
func (c Cooling) Validate() error {
	switch {
	case !(c.Floor > 0) || math.IsInf(c.Floor, 0):
		return fmt.Errorf("%w: floor %v must be positive", ErrBadCooling, c.Floor)
	case c.Start < c.Floor || math.IsInf(c.Start, 0):
		return fmt.Errorf("%w: start %v below floor %v", ErrBadCooling, c.Start, c.Floor)
	case c.Period < 1:
		return fmt.Errorf("%w: period %d", ErrBadCooling, c.Period)
	case c.Step < 0 || math.IsNaN(c.Step):
		return fmt.Errorf("%w: step %v", ErrBadCooling, c.Step)
	}

	return nil
}

// Temperature returns max(Floor, Start − ⌊iteration/Period⌋·Step).
// Negative iterations are treated as 0.
func (c Cooling) Temperature(iteration int) float64 {
	if iteration < 0 {
		iteration = 0
	}
	t := c.Start - float64(iteration/c.Period)*c.Step
	if t <= c.Floor {
		return c.Floor
	}

	return t
}
