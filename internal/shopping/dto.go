package shopping

import (
	"time"

	"github.com/google/uuid"

	"github.com/lromero/pantryflow-backend/pkg/db/models"
	"github.com/lromero/pantryflow-backend/pkg/enums"
	"github.com/lromero/pantryflow-backend/pkg/pagination"
	"github.com/lromero/pantryflow-backend/pkg/types"
)

// ShoppingSessionDTO represents the trip payload returned to clients.
type ShoppingSessionDTO struct {
	ID                uuid.UUID           `json:"id"`
	Status            enums.SessionStatus `json:"status"`
	StartedAt         time.Time           `json:"started_at"`
	CompletedAt       *time.Time          `json:"completed_at,omitempty"`
	DeviceType        *enums.DeviceType   `json:"device_type,omitempty"`
	Location          *types.GeoPoint     `json:"location,omitempty"`
	DurationSeconds   int64               `json:"duration_seconds"`
	CheckedItemsCount int                 `json:"checked_items_count"`
	CheckedItems      []CheckedItemDTO    `json:"checked_items,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

// CheckedItemDTO is one snapshot taken during the session.
type CheckedItemDTO struct {
	IngredientID   uuid.UUID          `json:"ingredient_id"`
	IngredientName string             `json:"ingredient_name"`
	StockStatus    enums.StockStatus  `json:"stock_status"`
	ExpiryStatus   enums.ExpiryStatus `json:"expiry_status"`
	CheckedAt      time.Time          `json:"checked_at"`
}

// ListFilters narrows a session listing.
type ListFilters struct {
	Status *enums.SessionStatus
	From   *time.Time
	To     *time.Time
}

// ListSessionsInput bundles pagination and filters for a listing call.
type ListSessionsInput struct {
	Pagination pagination.Params
	Filters    ListFilters
}

// SessionListResult is one page of sessions plus the next cursor.
type SessionListResult struct {
	Sessions   []ShoppingSessionDTO `json:"sessions"`
	NextCursor string               `json:"next_cursor,omitempty"`
}

// NewSessionDTO builds a DTO from the persisted row, deriving the duration
// against the provided clock.
func NewSessionDTO(row *models.ShoppingSession, now time.Time) *ShoppingSessionDTO {
	dto := &ShoppingSessionDTO{
		ID:                row.ID,
		Status:            row.Status,
		StartedAt:         row.StartedAt,
		CompletedAt:       row.CompletedAt,
		DeviceType:        row.DeviceType,
		Location:          row.Location,
		DurationSeconds:   durationSeconds(row.StartedAt, row.CompletedAt, now),
		CheckedItemsCount: len(row.CheckedItems),
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
	}

	if len(row.CheckedItems) > 0 {
		dto.CheckedItems = make([]CheckedItemDTO, len(row.CheckedItems))
		for i, item := range row.CheckedItems {
			dto.CheckedItems[i] = CheckedItemDTO{
				IngredientID:   item.IngredientID,
				IngredientName: item.IngredientName,
				StockStatus:    item.StockStatus,
				ExpiryStatus:   item.ExpiryStatus,
				CheckedAt:      item.CheckedAt,
			}
		}
	}

	return dto
}
