package ingredient

import (
	"github.com/google/uuid"

	"github.com/lromero/pantryflow-backend/pkg/enums"
	"github.com/lromero/pantryflow-backend/pkg/pagination"
)

// ListFilters narrows an ingredient listing. Stock status and expiry window
// filter on the derived classification, expressed as SQL over the raw columns.
type ListFilters struct {
	CategoryID         *uuid.UUID
	StockStatus        *enums.StockStatus
	ExpiringWithinDays *int
	Query              string
}

// ListIngredientsInput bundles pagination and filters for a listing call.
type ListIngredientsInput struct {
	Pagination pagination.Params
	Filters    ListFilters
}

// IngredientListResult is one page of ingredients plus the next cursor.
type IngredientListResult struct {
	Ingredients []IngredientDTO `json:"ingredients"`
	NextCursor  string          `json:"next_cursor,omitempty"`
}
