package shopping

import (
	"time"

	"github.com/google/uuid"

	ingredient "github.com/lromero/pantryflow-backend/internal/ingredients"
	"github.com/lromero/pantryflow-backend/pkg/db/models"
	"github.com/lromero/pantryflow-backend/pkg/enums"
)

// canTransition reports whether a session may move to the target status.
// Active is the only non-terminal state; completed and abandoned admit no
// further transitions.
func canTransition(current, target enums.SessionStatus) bool {
	if current != enums.SessionStatusActive {
		return false
	}
	return target == enums.SessionStatusCompleted || target == enums.SessionStatusAbandoned
}

// durationSeconds derives the session length: completed_at - started_at once
// terminal, now - started_at while still active.
func durationSeconds(startedAt time.Time, completedAt *time.Time, now time.Time) int64 {
	end := now
	if completedAt != nil {
		end = *completedAt
	}
	seconds := int64(end.Sub(startedAt).Seconds())
	if seconds < 0 {
		return 0
	}
	return seconds
}

// newCheckedItem snapshots the ingredient's classification at check time. The
// name is denormalized so later ingredient edits never rewrite history.
func newCheckedItem(sessionID uuid.UUID, row *models.Ingredient, now time.Time) *models.CheckedItem {
	return &models.CheckedItem{
		ID:             uuid.New(),
		SessionID:      sessionID,
		IngredientID:   row.ID,
		IngredientName: row.Name,
		StockStatus:    ingredient.StockStatusFor(row.Quantity, row.LowStockThreshold),
		ExpiryStatus:   ingredient.ExpiryStatusFor(row.BestBeforeDate, row.UseByDate, now),
		CheckedAt:      now,
	}
}
