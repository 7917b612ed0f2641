package ingredient

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lromero/pantryflow-backend/pkg/db/models"
	"github.com/lromero/pantryflow-backend/pkg/enums"
)

// IngredientDTO represents the pantry item payload returned to clients. Stock
// and expiry statuses are derived at read time, never stored.
type IngredientDTO struct {
	ID                uuid.UUID             `json:"id"`
	Name              string                `json:"name"`
	CategoryID        uuid.UUID             `json:"category_id"`
	CategoryName      *string               `json:"category_name,omitempty"`
	Memo              *string               `json:"memo,omitempty"`
	Price             *decimal.Decimal      `json:"price,omitempty"`
	PurchaseDate      time.Time             `json:"purchase_date"`
	BestBeforeDate    *time.Time            `json:"best_before_date,omitempty"`
	UseByDate         *time.Time            `json:"use_by_date,omitempty"`
	Quantity          decimal.Decimal       `json:"quantity"`
	UnitID            uuid.UUID             `json:"unit_id"`
	UnitName          *string               `json:"unit_name,omitempty"`
	UnitSymbol        *string               `json:"unit_symbol,omitempty"`
	StorageLocation   enums.StorageLocation `json:"storage_location"`
	StorageDetail     *string               `json:"storage_detail,omitempty"`
	LowStockThreshold *decimal.Decimal      `json:"low_stock_threshold,omitempty"`
	StockStatus       enums.StockStatus     `json:"stock_status"`
	ExpiryStatus      enums.ExpiryStatus    `json:"expiry_status"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
}

// CategoryDTO is a catalog category entry.
type CategoryDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// UnitDTO is a catalog measurement unit entry.
type UnitDTO struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Symbol string    `json:"symbol"`
}

// NewIngredientDTO builds a DTO from the persisted row, classifying stock and
// expiry against the provided clock.
func NewIngredientDTO(row *models.Ingredient, now time.Time) *IngredientDTO {
	dto := &IngredientDTO{
		ID:                row.ID,
		Name:              row.Name,
		CategoryID:        row.CategoryID,
		Memo:              row.Memo,
		Price:             row.Price,
		PurchaseDate:      row.PurchaseDate,
		BestBeforeDate:    row.BestBeforeDate,
		UseByDate:         row.UseByDate,
		Quantity:          row.Quantity,
		UnitID:            row.UnitID,
		StorageLocation:   row.StorageLocation,
		StorageDetail:     row.StorageDetail,
		LowStockThreshold: row.LowStockThreshold,
		StockStatus:       StockStatusFor(row.Quantity, row.LowStockThreshold),
		ExpiryStatus:      ExpiryStatusFor(row.BestBeforeDate, row.UseByDate, now),
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
	}

	if row.Category != nil {
		name := row.Category.Name
		dto.CategoryName = &name
	}
	if row.Unit != nil {
		name := row.Unit.Name
		symbol := row.Unit.Symbol
		dto.UnitName = &name
		dto.UnitSymbol = &symbol
	}

	return dto
}
