package enums

import "fmt"

// StorageLocation identifies where an ingredient is kept.
type StorageLocation string

const (
	StorageLocationRefrigerated    StorageLocation = "refrigerated"
	StorageLocationFrozen          StorageLocation = "frozen"
	StorageLocationRoomTemperature StorageLocation = "room_temperature"
)

var validStorageLocations = []StorageLocation{
	StorageLocationRefrigerated,
	StorageLocationFrozen,
	StorageLocationRoomTemperature,
}

// String implements fmt.Stringer.
func (s StorageLocation) String() string {
	return string(s)
}

// IsValid reports whether the value is a known StorageLocation.
func (s StorageLocation) IsValid() bool {
	for _, candidate := range validStorageLocations {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStorageLocation converts raw input into a StorageLocation.
func ParseStorageLocation(value string) (StorageLocation, error) {
	for _, candidate := range validStorageLocations {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid storage location %q", value)
}
