// Package units provides the scalar types and unit labels used for frame
// geometry. Lengths are carried as opaque meters; nothing here converts
// between unit systems.
package units

import "fmt"

// Length unit labels accepted in frame configuration files.
const (
	Meter = "m"
)

// ValidUnits contains all valid length unit labels
var ValidUnits = []string{Meter}

// IsValid checks if the given unit label is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "m"
}

// Meters is a length in meters.
type Meters float64

// Float64 returns the raw scalar.
func (m Meters) Float64() float64 { return float64(m) }

func (m Meters) String() string {
	return fmt.Sprintf("%.4fm", float64(m))
}

// Radians is an angle in radians. Values are never wrapped.
type Radians float64

// Float64 returns the raw scalar.
func (r Radians) Float64() float64 { return float64(r) }

func (r Radians) String() string {
	return fmt.Sprintf("%.4frad", float64(r))
}
