package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lromero/pantryflow-backend/pkg/enums"
)

// Ingredient is one pantry item owned by exactly one user. UserID never
// changes after creation; every lookup is scoped by (id, user_id).
type Ingredient struct {
	ID                uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID            uuid.UUID             `gorm:"column:user_id;type:uuid;not null;index:ingredients_user_id_idx"`
	CategoryID        uuid.UUID             `gorm:"column:category_id;type:uuid;not null"`
	Name              string                `gorm:"column:name;size:50;not null"`
	Memo              *string               `gorm:"column:memo;size:200"`
	Price             *decimal.Decimal      `gorm:"column:price;type:numeric(10,2)"`
	PurchaseDate      time.Time             `gorm:"column:purchase_date;not null"`
	BestBeforeDate    *time.Time            `gorm:"column:best_before_date"`
	UseByDate         *time.Time            `gorm:"column:use_by_date"`
	Quantity          decimal.Decimal       `gorm:"column:quantity;type:numeric(10,2);not null"`
	UnitID            uuid.UUID             `gorm:"column:unit_id;type:uuid;not null"`
	StorageLocation   enums.StorageLocation `gorm:"column:storage_location;not null"`
	StorageDetail     *string               `gorm:"column:storage_detail;size:50"`
	LowStockThreshold *decimal.Decimal      `gorm:"column:low_stock_threshold;type:numeric(10,2)"`
	Category          *Category             `gorm:"foreignKey:CategoryID"`
	Unit              *Unit                 `gorm:"foreignKey:UnitID"`
	CreatedAt         time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time             `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt         gorm.DeletedAt        `gorm:"column:deleted_at;index:ingredients_deleted_at_idx"`
}
