package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// GeoPoint captures where a shopping session was started.
// Stored as jsonb; precision beyond coarse store location is not needed.
type GeoPoint struct {
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	PlaceName *string `json:"place_name,omitempty"`
}

// Validate checks the coordinates are on the globe.
func (g GeoPoint) Validate() error {
	if g.Lat < -90 || g.Lat > 90 {
		return fmt.Errorf("latitude %f out of range", g.Lat)
	}
	if g.Lng < -180 || g.Lng > 180 {
		return fmt.Errorf("longitude %f out of range", g.Lng)
	}
	return nil
}

// Value serializes the point for a jsonb column.
func (g GeoPoint) Value() (driver.Value, error) {
	return json.Marshal(g)
}

// Scan accepts jsonb bytes or text returned by the driver.
func (g *GeoPoint) Scan(value interface{}) error {
	if value == nil {
		*g = GeoPoint{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, g)
	case string:
		return json.Unmarshal([]byte(v), g)
	default:
		return fmt.Errorf("geo point: unsupported scan type %T", value)
	}
}
