package lifecycle

import (
	"GiveShare-Backend/domain"
)

// CanMarkDonated reports whether an item in the given status may be marked
// donated. Only an accepted item qualifies; donated itself is terminal.
func CanMarkDonated(status string) bool {
	return status == domain.ItemStatusAccepted
}

// CanRequest reports whether an item in the given status accepts a new
// request. A requested item blocks further requests until the owner decides.
func CanRequest(status string) bool {
	return status == domain.ItemStatusAvailable
}
