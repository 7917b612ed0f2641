package enums

import "fmt"

// ExpiryStatus classifies an ingredient's freshness from its expiry dates.
type ExpiryStatus string

const (
	ExpiryStatusFresh        ExpiryStatus = "fresh"
	ExpiryStatusNearExpiry   ExpiryStatus = "near_expiry"
	ExpiryStatusExpiringSoon ExpiryStatus = "expiring_soon"
	ExpiryStatusCritical     ExpiryStatus = "critical"
	ExpiryStatusExpired      ExpiryStatus = "expired"
)

var validExpiryStatuses = []ExpiryStatus{
	ExpiryStatusFresh,
	ExpiryStatusNearExpiry,
	ExpiryStatusExpiringSoon,
	ExpiryStatusCritical,
	ExpiryStatusExpired,
}

// String implements fmt.Stringer.
func (e ExpiryStatus) String() string {
	return string(e)
}

// IsValid reports whether the value is a known ExpiryStatus.
func (e ExpiryStatus) IsValid() bool {
	for _, candidate := range validExpiryStatuses {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseExpiryStatus converts raw input into an ExpiryStatus.
func ParseExpiryStatus(value string) (ExpiryStatus, error) {
	for _, candidate := range validExpiryStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid expiry status %q", value)
}
