package ingredient

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lromero/pantryflow-backend/pkg/db/models"
	"github.com/lromero/pantryflow-backend/pkg/enums"
	pkgerrors "github.com/lromero/pantryflow-backend/pkg/errors"
	"github.com/lromero/pantryflow-backend/pkg/types"
)

const (
	maxNameLength          = 50
	maxMemoLength          = 200
	maxStorageDetailLength = 50
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes pantry ingredient commands and queries.
type Service interface {
	CreateIngredient(ctx context.Context, userID uuid.UUID, input CreateIngredientInput) (*IngredientDTO, error)
	UpdateIngredient(ctx context.Context, userID, ingredientID uuid.UUID, input UpdateIngredientInput) (*IngredientDTO, error)
	DeleteIngredient(ctx context.Context, userID, ingredientID uuid.UUID) error
	GetIngredient(ctx context.Context, userID, ingredientID uuid.UUID) (*IngredientDTO, error)
	ListIngredients(ctx context.Context, userID uuid.UUID, input ListIngredientsInput) (*IngredientListResult, error)
	ListCategories(ctx context.Context) ([]CategoryDTO, error)
	ListUnits(ctx context.Context) ([]UnitDTO, error)
}

// CreateIngredientInput holds the validated payload to create an ingredient.
type CreateIngredientInput struct {
	Name              string
	CategoryID        uuid.UUID
	Memo              *string
	Price             *decimal.Decimal
	PurchaseDate      time.Time
	BestBeforeDate    *time.Time
	UseByDate         *time.Time
	Quantity          decimal.Decimal
	UnitID            uuid.UUID
	StorageLocation   enums.StorageLocation
	StorageDetail     *string
	LowStockThreshold *decimal.Decimal
}

// UpdateIngredientInput holds a partial mutation. Pointer fields are
// keep-when-nil; Optional fields additionally distinguish explicit null,
// which clears the stored value.
type UpdateIngredientInput struct {
	Name              *string
	CategoryID        *uuid.UUID
	Memo              types.Optional[string]
	Price             types.Optional[decimal.Decimal]
	PurchaseDate      *time.Time
	BestBeforeDate    types.Optional[time.Time]
	UseByDate         types.Optional[time.Time]
	Quantity          *decimal.Decimal
	UnitID            *uuid.UUID
	StorageLocation   *enums.StorageLocation
	StorageDetail     types.Optional[string]
	LowStockThreshold types.Optional[decimal.Decimal]
}

// service implements the ingredient service.
type service struct {
	repo *Repository
	tx   txRunner
}

// NewService constructs an ingredient service instance.
func NewService(repo *Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ingredient repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

// CreateIngredient validates the payload, checks for a duplicate recording of
// the same physical item, and persists the new row.
func (s *service) CreateIngredient(ctx context.Context, userID uuid.UUID, input CreateIngredientInput) (*IngredientDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	input.Name = strings.TrimSpace(input.Name)
	if err := validateName(input.Name); err != nil {
		return nil, err
	}
	if err := validateMemo(input.Memo); err != nil {
		return nil, err
	}
	if err := validatePrice(input.Price); err != nil {
		return nil, err
	}
	if err := validateQuantity(input.Quantity); err != nil {
		return nil, err
	}
	if err := validateThreshold(input.LowStockThreshold); err != nil {
		return nil, err
	}
	if err := validateStorage(input.StorageLocation, input.StorageDetail); err != nil {
		return nil, err
	}
	if input.PurchaseDate.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "purchase_date is required")
	}
	if input.CategoryID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category_id is required")
	}
	if input.UnitID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit_id is required")
	}

	if err := s.ensureCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}
	if err := s.ensureUnit(ctx, input.UnitID); err != nil {
		return nil, err
	}

	key := DuplicateKey{
		Name:            input.Name,
		BestBeforeDate:  input.BestBeforeDate,
		UseByDate:       input.UseByDate,
		StorageLocation: input.StorageLocation,
	}
	duplicate, err := s.repo.HasDuplicate(ctx, userID, key, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check duplicate ingredient")
	}
	if duplicate {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "ingredient with the same name, expiry, and storage already exists")
	}

	var createdID uuid.UUID
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		row := &models.Ingredient{
			ID:                uuid.New(),
			UserID:            userID,
			CategoryID:        input.CategoryID,
			Name:              input.Name,
			Memo:              input.Memo,
			Price:             input.Price,
			PurchaseDate:      input.PurchaseDate,
			BestBeforeDate:    input.BestBeforeDate,
			UseByDate:         input.UseByDate,
			Quantity:          input.Quantity,
			UnitID:            input.UnitID,
			StorageLocation:   input.StorageLocation,
			StorageDetail:     input.StorageDetail,
			LowStockThreshold: input.LowStockThreshold,
		}
		created, err := txRepo.Create(ctx, row)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert ingredient")
		}
		createdID = created.ID
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create ingredient")
	}

	return s.GetIngredient(ctx, userID, createdID)
}

// UpdateIngredient applies a partial merge. The duplicate check only reruns
// when the identifying tuple actually changed; category and unit existence is
// only rechecked when those references changed.
func (s *service) UpdateIngredient(ctx context.Context, userID, ingredientID uuid.UUID, input UpdateIngredientInput) (*IngredientDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if ingredientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ingredient id required")
	}

	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		input.Name = &trimmed
		if err := validateName(trimmed); err != nil {
			return nil, err
		}
	}
	if input.Memo.Present && input.Memo.Value != nil {
		if err := validateMemo(input.Memo.Value); err != nil {
			return nil, err
		}
	}
	if input.Price.Present && input.Price.Value != nil {
		if err := validatePrice(input.Price.Value); err != nil {
			return nil, err
		}
	}
	if input.Quantity != nil {
		if err := validateQuantity(*input.Quantity); err != nil {
			return nil, err
		}
	}
	if input.LowStockThreshold.Present && input.LowStockThreshold.Value != nil {
		if err := validateThreshold(input.LowStockThreshold.Value); err != nil {
			return nil, err
		}
	}
	if input.StorageLocation != nil && !input.StorageLocation.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid storage_location")
	}
	if input.StorageDetail.Present && input.StorageDetail.Value != nil && len(*input.StorageDetail.Value) > maxStorageDetailLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("storage_detail must be at most %d characters", maxStorageDetailLength))
	}
	if input.PurchaseDate != nil && input.PurchaseDate.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "purchase_date cannot be empty")
	}

	row, err := s.repo.FindByID(ctx, userID, ingredientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ingredient not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ingredient")
	}

	if input.CategoryID != nil && *input.CategoryID != row.CategoryID {
		if err := s.ensureCategory(ctx, *input.CategoryID); err != nil {
			return nil, err
		}
	}
	if input.UnitID != nil && *input.UnitID != row.UnitID {
		if err := s.ensureUnit(ctx, *input.UnitID); err != nil {
			return nil, err
		}
	}

	before := duplicateKeyOf(row)
	applyUpdateToIngredient(row, input)
	after := duplicateKeyOf(row)

	if !duplicateKeysEqual(before, after) {
		duplicate, err := s.repo.HasDuplicate(ctx, userID, after, &row.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check duplicate ingredient")
		}
		if duplicate {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "ingredient with the same name, expiry, and storage already exists")
		}
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.Update(ctx, row); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update ingredient")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update ingredient")
	}

	return s.GetIngredient(ctx, userID, row.ID)
}

// DeleteIngredient stamps the soft-delete tombstone. An already-deleted row is
// invisible to the scoped lookup, so deleting twice reports not found.
func (s *service) DeleteIngredient(ctx context.Context, userID, ingredientID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if ingredientID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "ingredient id required")
	}

	row, err := s.repo.FindByID(ctx, userID, ingredientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "ingredient not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ingredient")
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.SoftDelete(ctx, row); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: soft delete ingredient")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return err
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete ingredient")
	}
	return nil
}

// GetIngredient loads one ingredient scoped to its owner.
func (s *service) GetIngredient(ctx context.Context, userID, ingredientID uuid.UUID) (*IngredientDTO, error) {
	row, err := s.repo.GetDetail(ctx, userID, ingredientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ingredient not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ingredient")
	}
	return NewIngredientDTO(row, time.Now().UTC()), nil
}

// ListIngredients pages through the user's pantry with optional filters.
func (s *service) ListIngredients(ctx context.Context, userID uuid.UUID, input ListIngredientsInput) (*IngredientListResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.Filters.StockStatus != nil && !input.Filters.StockStatus.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid stock_status filter")
	}

	query := ingredientListQuery{
		Pagination: input.Pagination,
		Filters:    input.Filters,
	}
	if input.Filters.ExpiringWithinDays != nil {
		days := *input.Filters.ExpiringWithinDays
		if days < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "expiring_within_days must be non-negative")
		}
		cutoff := startOfDay(time.Now()).AddDate(0, 0, days)
		query.ExpiringBefore = &cutoff
	}

	result, err := s.repo.ListByUser(ctx, userID, query)
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list ingredients")
	}
	return result, nil
}

// ListCategories returns the catalog categories.
func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	rows, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	dtos := make([]CategoryDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, CategoryDTO{ID: row.ID, Name: row.Name})
	}
	return dtos, nil
}

// ListUnits returns the catalog units.
func (s *service) ListUnits(ctx context.Context) ([]UnitDTO, error) {
	rows, err := s.repo.ListUnits(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list units")
	}
	dtos := make([]UnitDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, UnitDTO{ID: row.ID, Name: row.Name, Symbol: row.Symbol})
	}
	return dtos, nil
}

func (s *service) ensureCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindCategoryByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	return nil
}

func (s *service) ensureUnit(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindUnitByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "unit not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load unit")
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if len(name) > maxNameLength {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("name must be at most %d characters", maxNameLength))
	}
	return nil
}

func validateMemo(memo *string) error {
	if memo != nil && len(*memo) > maxMemoLength {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("memo must be at most %d characters", maxMemoLength))
	}
	return nil
}

func validatePrice(price *decimal.Decimal) error {
	if price == nil {
		return nil
	}
	if price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be non-negative")
	}
	if price.Exponent() < -2 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price can have at most 2 decimal places")
	}
	return nil
}

func validateQuantity(quantity decimal.Decimal) error {
	if quantity.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be non-negative")
	}
	return nil
}

func validateThreshold(threshold *decimal.Decimal) error {
	if threshold != nil && threshold.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "low_stock_threshold must be non-negative")
	}
	return nil
}

func validateStorage(location enums.StorageLocation, detail *string) error {
	if !location.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid storage_location")
	}
	if detail != nil && len(*detail) > maxStorageDetailLength {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("storage_detail must be at most %d characters", maxStorageDetailLength))
	}
	return nil
}

func duplicateKeyOf(row *models.Ingredient) DuplicateKey {
	return DuplicateKey{
		Name:            row.Name,
		BestBeforeDate:  row.BestBeforeDate,
		UseByDate:       row.UseByDate,
		StorageLocation: row.StorageLocation,
	}
}

func duplicateKeysEqual(a, b DuplicateKey) bool {
	return a.Name == b.Name &&
		a.StorageLocation == b.StorageLocation &&
		timePtrEqual(a.BestBeforeDate, b.BestBeforeDate) &&
		timePtrEqual(a.UseByDate, b.UseByDate)
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func applyUpdateToIngredient(row *models.Ingredient, input UpdateIngredientInput) {
	if input.Name != nil {
		row.Name = *input.Name
	}
	if input.CategoryID != nil {
		row.CategoryID = *input.CategoryID
	}
	if input.Memo.Present {
		row.Memo = input.Memo.Value
	}
	if input.Price.Present {
		row.Price = input.Price.Value
	}
	if input.PurchaseDate != nil {
		row.PurchaseDate = *input.PurchaseDate
	}
	if input.BestBeforeDate.Present {
		row.BestBeforeDate = input.BestBeforeDate.Value
	}
	if input.UseByDate.Present {
		row.UseByDate = input.UseByDate.Value
	}
	if input.Quantity != nil {
		row.Quantity = *input.Quantity
	}
	if input.UnitID != nil {
		row.UnitID = *input.UnitID
	}
	if input.StorageLocation != nil {
		row.StorageLocation = *input.StorageLocation
	}
	if input.StorageDetail.Present {
		row.StorageDetail = input.StorageDetail.Value
	}
	if input.LowStockThreshold.Present {
		row.LowStockThreshold = input.LowStockThreshold.Value
	}
}
