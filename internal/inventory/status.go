// internal/inventory/status.go
package inventory

import (
	"math"
	"time"

	"github.com/freshsense/freshsense/internal/models"
)

const millisPerDay = 24 * 60 * 60 * 1000

// ComputeStatus maps an expiry date and the current time to a freshness
// state. A nil expiry never expires. The remaining time is rounded up to
// whole days, so an item expiring in 30 minutes and one expiring in 23
// hours both count as 1 day remaining.
func ComputeStatus(expiry *time.Time, now time.Time) models.ItemStatus {
	if expiry == nil {
		return models.StatusFresh
	}

	diffDays := int(math.Ceil(float64(expiry.Sub(now).Milliseconds()) / millisPerDay))

	switch {
	case diffDays < 0:
		return models.StatusExpired
	case diffDays <= 3:
		return models.StatusExpiring
	default:
		return models.StatusFresh
	}
}
