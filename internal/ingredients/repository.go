package ingredient

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lromero/pantryflow-backend/pkg/db/models"
	"github.com/lromero/pantryflow-backend/pkg/enums"
	"github.com/lromero/pantryflow-backend/pkg/pagination"
)

// IngredientRepository defines persistence operations for pantry items. All
// lookups are scoped by (user_id, id) so a cross-owner read behaves exactly
// like a missing row.
type IngredientRepository interface {
	FindByID(ctx context.Context, userID, id uuid.UUID) (*models.Ingredient, error)
	HasDuplicate(ctx context.Context, userID uuid.UUID, key DuplicateKey, excludeID *uuid.UUID) (bool, error)
	Create(ctx context.Context, row *models.Ingredient) (*models.Ingredient, error)
	Update(ctx context.Context, row *models.Ingredient) (*models.Ingredient, error)
	SoftDelete(ctx context.Context, row *models.Ingredient) error
}

// DuplicateKey is the tuple that identifies the same physical item recorded
// twice: name plus expiry info plus storage location, per owning user.
type DuplicateKey struct {
	Name            string
	BestBeforeDate  *time.Time
	UseByDate       *time.Time
	StorageLocation enums.StorageLocation
}

// Repository wires together ingredient and catalog persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads the ingredient without associations. Soft-deleted rows and
// rows owned by another user are both a record-not-found.
func (r *Repository) FindByID(ctx context.Context, userID, id uuid.UUID) (*models.Ingredient, error) {
	var row models.Ingredient
	err := r.db.WithContext(ctx).
		First(&row, "id = ? AND user_id = ?", id, userID).
		Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// GetDetail loads the ingredient with its catalog relations for read paths.
func (r *Repository) GetDetail(ctx context.Context, userID, id uuid.UUID) (*models.Ingredient, error) {
	var row models.Ingredient
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Unit").
		First(&row, "id = ? AND user_id = ?", id, userID).
		Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Create inserts a new ingredient row.
func (r *Repository) Create(ctx context.Context, row *models.Ingredient) (*models.Ingredient, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// Update persists the full ingredient row.
func (r *Repository) Update(ctx context.Context, row *models.Ingredient) (*models.Ingredient, error) {
	if err := r.db.WithContext(ctx).Save(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// SoftDelete stamps the tombstone timestamp. The row is never removed; every
// finder excludes it from then on.
func (r *Repository) SoftDelete(ctx context.Context, row *models.Ingredient) error {
	return r.db.WithContext(ctx).Delete(row).Error
}

// HasDuplicate reports whether the user already has a live ingredient with the
// same (name, expiry info, storage location) tuple, excluding the given id.
func (r *Repository) HasDuplicate(ctx context.Context, userID uuid.UUID, key DuplicateKey, excludeID *uuid.UUID) (bool, error) {
	qb := r.db.WithContext(ctx).
		Model(&models.Ingredient{}).
		Where("user_id = ? AND name = ? AND storage_location = ?", userID, key.Name, key.StorageLocation)

	if key.BestBeforeDate != nil {
		qb = qb.Where("best_before_date = ?", *key.BestBeforeDate)
	} else {
		qb = qb.Where("best_before_date IS NULL")
	}
	if key.UseByDate != nil {
		qb = qb.Where("use_by_date = ?", *key.UseByDate)
	} else {
		qb = qb.Where("use_by_date IS NULL")
	}
	if excludeID != nil {
		qb = qb.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := qb.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

type ingredientListQuery struct {
	Pagination     pagination.Params
	Filters        ListFilters
	ExpiringBefore *time.Time
}

// ListByUser pages through the user's live ingredients newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, query ingredientListQuery) (*IngredientListResult, error) {
	pageSize := pagination.NormalizeLimit(query.Pagination.Limit)

	cursor, err := pagination.ParseCursor(query.Pagination.Cursor)
	if err != nil {
		return nil, err
	}

	qb := r.db.WithContext(ctx).
		Model(&models.Ingredient{}).
		Preload("Category").
		Preload("Unit").
		Where("user_id = ?", userID)

	filter := query.Filters
	if filter.CategoryID != nil {
		qb = qb.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.StockStatus != nil {
		switch *filter.StockStatus {
		case enums.StockStatusOutOfStock:
			qb = qb.Where("quantity = 0")
		case enums.StockStatusLowStock:
			qb = qb.Where("quantity > 0 AND low_stock_threshold IS NOT NULL AND quantity <= low_stock_threshold")
		case enums.StockStatusInStock:
			qb = qb.Where("quantity > 0 AND (low_stock_threshold IS NULL OR quantity > low_stock_threshold)")
		}
	}
	if query.ExpiringBefore != nil {
		qb = qb.Where("COALESCE(use_by_date, best_before_date) IS NOT NULL").
			Where("COALESCE(use_by_date, best_before_date) <= ?", *query.ExpiringBefore)
	}
	if search := strings.TrimSpace(filter.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("LOWER(name) LIKE ?", pattern)
	}

	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Ingredient
	err = qb.Order("created_at DESC").Order("id DESC").
		Limit(pageSize + 1).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}

	rows, hasMore := pagination.TrimPage(rows, pageSize)
	nextCursor := ""
	if hasMore {
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	now := time.Now().UTC()
	dtos := make([]IngredientDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewIngredientDTO(&rows[i], now))
	}

	return &IngredientListResult{
		Ingredients: dtos,
		NextCursor:  nextCursor,
	}, nil
}

// FindCategoryByID loads a catalog category.
func (r *Repository) FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var row models.Category
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindUnitByID loads a catalog unit.
func (r *Repository) FindUnitByID(ctx context.Context, id uuid.UUID) (*models.Unit, error) {
	var row models.Unit
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// ListCategories returns all catalog categories in display order.
func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	err := r.db.WithContext(ctx).Order("sort_order ASC").Order("name ASC").Find(&rows).Error
	return rows, err
}

// ListUnits returns all catalog units.
func (r *Repository) ListUnits(ctx context.Context) ([]models.Unit, error) {
	var rows []models.Unit
	err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}
