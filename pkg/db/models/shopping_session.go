package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/lromero/pantryflow-backend/pkg/enums"
	"github.com/lromero/pantryflow-backend/pkg/types"
)

// ShoppingSession is one continuous shopping trip for one user. A partial
// unique index keeps at most one active session per user.
type ShoppingSession struct {
	ID           uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index:shopping_sessions_user_id_idx"`
	Status       enums.SessionStatus `gorm:"column:status;not null;default:'active'"`
	StartedAt    time.Time           `gorm:"column:started_at;not null"`
	CompletedAt  *time.Time          `gorm:"column:completed_at"`
	DeviceType   *enums.DeviceType   `gorm:"column:device_type"`
	Location     *types.GeoPoint     `gorm:"column:location;type:jsonb"`
	CheckedItems []CheckedItem       `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
