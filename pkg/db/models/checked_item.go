package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/lromero/pantryflow-backend/pkg/enums"
)

// CheckedItem is a point-in-time snapshot of one ingredient's classification
// taken during a session. Later ingredient edits never alter past snapshots.
// One row per (session, ingredient); re-checking replaces the snapshot.
type CheckedItem struct {
	ID             uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SessionID      uuid.UUID          `gorm:"column:session_id;type:uuid;not null;index:checked_items_session_id_idx;uniqueIndex:checked_items_session_ingredient_key"`
	IngredientID   uuid.UUID          `gorm:"column:ingredient_id;type:uuid;not null;uniqueIndex:checked_items_session_ingredient_key"`
	IngredientName string             `gorm:"column:ingredient_name;size:50;not null"`
	StockStatus    enums.StockStatus  `gorm:"column:stock_status;not null"`
	ExpiryStatus   enums.ExpiryStatus `gorm:"column:expiry_status;not null"`
	CheckedAt      time.Time          `gorm:"column:checked_at;not null"`
	CreatedAt      time.Time          `gorm:"column:created_at;autoCreateTime"`
}
