package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lromero/pantryflow-backend/api/responses"
	"github.com/lromero/pantryflow-backend/api/validators"
	ingredientsvc "github.com/lromero/pantryflow-backend/internal/ingredients"
	"github.com/lromero/pantryflow-backend/pkg/enums"
	pkgerrors "github.com/lromero/pantryflow-backend/pkg/errors"
	"github.com/lromero/pantryflow-backend/pkg/logger"
	"github.com/lromero/pantryflow-backend/pkg/pagination"
	"github.com/lromero/pantryflow-backend/pkg/types"
)

// IngredientCreate handles pantry item creation.
func IngredientCreate(svc ingredientsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ingredient service unavailable"))
			return
		}

		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createIngredientRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toCreateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.CreateIngredient(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// IngredientUpdate applies a partial mutation to one pantry item.
func IngredientUpdate(svc ingredientsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ingredient service unavailable"))
			return
		}

		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ingredientID, err := pathUUID(r, "ingredientId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateIngredientRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toUpdateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.UpdateIngredient(r.Context(), userID, ingredientID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, updated)
	}
}

// IngredientDelete soft-deletes one pantry item.
func IngredientDelete(svc ingredientsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ingredient service unavailable"))
			return
		}

		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ingredientID, err := pathUUID(r, "ingredientId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteIngredient(r.Context(), userID, ingredientID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// IngredientDetail returns one pantry item with derived statuses.
func IngredientDetail(svc ingredientsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ingredient service unavailable"))
			return
		}

		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ingredientID, err := pathUUID(r, "ingredientId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		found, err := svc.GetIngredient(r.Context(), userID, ingredientID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, found)
	}
}

// IngredientList returns one cursor page of the user's pantry.
func IngredientList(svc ingredientsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ingredient service unavailable"))
			return
		}

		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := parseIngredientListQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListIngredients(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

// CategoryList returns the shared ingredient category catalog.
func CategoryList(svc ingredientsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ingredient service unavailable"))
			return
		}

		categories, err := svc.ListCategories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"categories": categories})
	}
}

// UnitList returns the shared measurement unit catalog.
func UnitList(svc ingredientsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ingredient service unavailable"))
			return
		}

		units, err := svc.ListUnits(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"units": units})
	}
}

type createIngredientRequest struct {
	Name              string           `json:"name" validate:"required"`
	CategoryID        uuid.UUID        `json:"category_id" validate:"required"`
	Memo              *string          `json:"memo,omitempty"`
	Price             *decimal.Decimal `json:"price,omitempty"`
	PurchaseDate      string           `json:"purchase_date" validate:"required"`
	BestBeforeDate    *string          `json:"best_before_date,omitempty"`
	UseByDate         *string          `json:"use_by_date,omitempty"`
	Quantity          decimal.Decimal  `json:"quantity"`
	UnitID            uuid.UUID        `json:"unit_id" validate:"required"`
	StorageLocation   string           `json:"storage_location" validate:"required"`
	StorageDetail     *string          `json:"storage_detail,omitempty"`
	LowStockThreshold *decimal.Decimal `json:"low_stock_threshold,omitempty"`
}

func (p createIngredientRequest) toCreateInput() (ingredientsvc.CreateIngredientInput, error) {
	location, err := enums.ParseStorageLocation(strings.TrimSpace(p.StorageLocation))
	if err != nil {
		return ingredientsvc.CreateIngredientInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid storage location")
	}

	purchaseDate, err := parseBodyDate("purchase_date", p.PurchaseDate)
	if err != nil {
		return ingredientsvc.CreateIngredientInput{}, err
	}
	bestBefore, err := parseBodyDatePtr("best_before_date", p.BestBeforeDate)
	if err != nil {
		return ingredientsvc.CreateIngredientInput{}, err
	}
	useBy, err := parseBodyDatePtr("use_by_date", p.UseByDate)
	if err != nil {
		return ingredientsvc.CreateIngredientInput{}, err
	}

	return ingredientsvc.CreateIngredientInput{
		Name:              p.Name,
		CategoryID:        p.CategoryID,
		Memo:              p.Memo,
		Price:             p.Price,
		PurchaseDate:      purchaseDate,
		BestBeforeDate:    bestBefore,
		UseByDate:         useBy,
		Quantity:          p.Quantity,
		UnitID:            p.UnitID,
		StorageLocation:   location,
		StorageDetail:     p.StorageDetail,
		LowStockThreshold: p.LowStockThreshold,
	}, nil
}

type updateIngredientRequest struct {
	Name              *string                         `json:"name,omitempty"`
	CategoryID        *uuid.UUID                      `json:"category_id,omitempty"`
	Memo              types.Optional[string]          `json:"memo"`
	Price             types.Optional[decimal.Decimal] `json:"price"`
	PurchaseDate      *string                         `json:"purchase_date,omitempty"`
	BestBeforeDate    types.Optional[string]          `json:"best_before_date"`
	UseByDate         types.Optional[string]          `json:"use_by_date"`
	Quantity          *decimal.Decimal                `json:"quantity,omitempty"`
	UnitID            *uuid.UUID                      `json:"unit_id,omitempty"`
	StorageLocation   *string                         `json:"storage_location,omitempty"`
	StorageDetail     types.Optional[string]          `json:"storage_detail"`
	LowStockThreshold types.Optional[decimal.Decimal] `json:"low_stock_threshold"`
}

func (p updateIngredientRequest) toUpdateInput() (ingredientsvc.UpdateIngredientInput, error) {
	input := ingredientsvc.UpdateIngredientInput{
		Name:              p.Name,
		CategoryID:        p.CategoryID,
		Memo:              p.Memo,
		Price:             p.Price,
		Quantity:          p.Quantity,
		UnitID:            p.UnitID,
		StorageDetail:     p.StorageDetail,
		LowStockThreshold: p.LowStockThreshold,
	}

	if p.StorageLocation != nil {
		location, err := enums.ParseStorageLocation(strings.TrimSpace(*p.StorageLocation))
		if err != nil {
			return ingredientsvc.UpdateIngredientInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid storage location")
		}
		input.StorageLocation = &location
	}

	if p.PurchaseDate != nil {
		purchaseDate, err := parseBodyDate("purchase_date", *p.PurchaseDate)
		if err != nil {
			return ingredientsvc.UpdateIngredientInput{}, err
		}
		input.PurchaseDate = &purchaseDate
	}

	bestBefore, err := optionalDate("best_before_date", p.BestBeforeDate)
	if err != nil {
		return ingredientsvc.UpdateIngredientInput{}, err
	}
	input.BestBeforeDate = bestBefore

	useBy, err := optionalDate("use_by_date", p.UseByDate)
	if err != nil {
		return ingredientsvc.UpdateIngredientInput{}, err
	}
	input.UseByDate = useBy

	return input, nil
}

func parseIngredientListQuery(r *http.Request) (ingredientsvc.ListIngredientsInput, error) {
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return ingredientsvc.ListIngredientsInput{}, err
	}

	input := ingredientsvc.ListIngredientsInput{
		Pagination: pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		},
		Filters: ingredientsvc.ListFilters{
			Query: validators.SanitizeString(r.URL.Query().Get("q"), 50),
		},
	}

	categoryID, err := validators.ParseQueryUUID(r, "category_id")
	if err != nil {
		return ingredientsvc.ListIngredientsInput{}, err
	}
	input.Filters.CategoryID = categoryID

	if raw := strings.TrimSpace(r.URL.Query().Get("stock_status")); raw != "" {
		status, err := enums.ParseStockStatus(raw)
		if err != nil {
			return ingredientsvc.ListIngredientsInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid stock status")
		}
		input.Filters.StockStatus = &status
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("expiring_within_days")); raw != "" {
		days, err := validators.ParseQueryInt(r, "expiring_within_days", 0, 0, 365)
		if err != nil {
			return ingredientsvc.ListIngredientsInput{}, err
		}
		input.Filters.ExpiringWithinDays = &days
	}

	return input, nil
}

func parseBodyDate(field, raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "field must be a date").WithDetails(map[string]any{"field": field})
	}
	return t, nil
}

func parseBodyDatePtr(field string, raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	t, err := parseBodyDate(field, *raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func optionalDate(field string, raw types.Optional[string]) (types.Optional[time.Time], error) {
	if !raw.Present {
		return types.Optional[time.Time]{}, nil
	}
	if raw.Value == nil {
		return types.Null[time.Time](), nil
	}
	t, err := parseBodyDate(field, *raw.Value)
	if err != nil {
		return types.Optional[time.Time]{}, err
	}
	return types.Some(t), nil
}
