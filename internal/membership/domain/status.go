package domain

import (
	"math"
	"time"
)

// Status is a membership's temporal state. It is always derived from the
// expiration instant and never stored.
type Status string

const (
	StatusActive   Status = "Active"
	StatusExpiring Status = "Expiring"
	StatusExpired  Status = "Expired"
)

// expiringWindowDays is how close to expiration a membership is reported
// as Expiring.
const expiringWindowDays = 7

// ResolveStatus derives the membership status at the supplied instant.
// Expired when now is strictly after the expiration; Expiring within the
// final seven days (counted as ceil of the remaining time); Active otherwise.
func ResolveStatus(expiration, now time.Time) Status {
	if now.After(expiration) {
		return StatusExpired
	}

	diffDays := int(math.Ceil(expiration.Sub(now).Hours() / 24))
	if diffDays <= expiringWindowDays {
		return StatusExpiring
	}

	return StatusActive
}
