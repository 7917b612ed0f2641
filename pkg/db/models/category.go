package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is a fixed ingredient grouping (vegetables, dairy, ...).
type Category struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;size:50;not null;uniqueIndex:categories_name_key"`
	SortOrder int       `gorm:"column:sort_order;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
