package models

import (
	"time"

	"github.com/google/uuid"
)

// Unit is a measurement unit for ingredient quantities (g, ml, pieces, ...).
type Unit struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;size:30;not null;uniqueIndex:units_name_key"`
	Symbol    string    `gorm:"column:symbol;size:10;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
