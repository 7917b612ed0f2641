package ingredient

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/lromero/pantryflow-backend/pkg/enums"
)

// Expiry windows in days. A date inside a window takes the tightest
// classification that still covers it.
const (
	criticalWindowDays     = 1
	expiringSoonWindowDays = 3
	nearExpiryWindowDays   = 7
)

// StockStatusFor derives the stock classification from the current quantity
// and the optional low-stock threshold. Never persisted, always computed.
func StockStatusFor(quantity decimal.Decimal, threshold *decimal.Decimal) enums.StockStatus {
	if quantity.IsZero() {
		return enums.StockStatusOutOfStock
	}
	if threshold != nil && quantity.Cmp(*threshold) <= 0 {
		return enums.StockStatusLowStock
	}
	return enums.StockStatusInStock
}

// ExpiryStatusFor derives the expiry classification from whichever of the two
// dates is set. Use-by wins when both are present. No dates means fresh; an
// unknown expiry is not an error.
func ExpiryStatusFor(bestBefore, useBy *time.Time, now time.Time) enums.ExpiryStatus {
	relevant := bestBefore
	if useBy != nil {
		relevant = useBy
	}
	if relevant == nil {
		return enums.ExpiryStatusFresh
	}

	days := daysBetween(now, *relevant)
	switch {
	case days < 0:
		return enums.ExpiryStatusExpired
	case days <= criticalWindowDays:
		return enums.ExpiryStatusCritical
	case days <= expiringSoonWindowDays:
		return enums.ExpiryStatusExpiringSoon
	case days <= nearExpiryWindowDays:
		return enums.ExpiryStatusNearExpiry
	default:
		return enums.ExpiryStatusFresh
	}
}

// daysBetween counts whole calendar days from a to b in UTC. Negative when b
// is before a's date.
func daysBetween(a, b time.Time) int {
	return int(startOfDay(b).Sub(startOfDay(a)).Hours() / 24)
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
