package stats

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lromero/pantryflow-backend/pkg/db/models"
)

const topCheckedSQL = `
SELECT ci.ingredient_id,
       ci.ingredient_name,
       COUNT(*) AS check_count
FROM checked_items ci
JOIN shopping_sessions s ON s.id = ci.session_id
WHERE s.user_id = ?
GROUP BY ci.ingredient_id, ci.ingredient_name
ORDER BY check_count DESC, ci.ingredient_name ASC
LIMIT ?
`

// sessionSpan is the temporal extent of one session, used to derive averages
// and monthly buckets without leaning on dialect-specific date functions.
type sessionSpan struct {
	StartedAt   time.Time
	CompletedAt *time.Time
}

type topCheckedRow struct {
	IngredientID   uuid.UUID
	IngredientName string
	CheckCount     int64
}

type statusCountRow struct {
	Status string
	Count  int64
}

// Repository reads shopping history aggregates. It performs no mutation.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CountSessionsByStatus returns session counts grouped by status.
func (r *Repository) CountSessionsByStatus(ctx context.Context, userID uuid.UUID) (map[string]int64, error) {
	var rows []statusCountRow
	err := r.db.WithContext(ctx).
		Model(&models.ShoppingSession{}).
		Select("status, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// CountChecks returns the total number of checked-item snapshots across the
// user's sessions.
func (r *Repository) CountChecks(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CheckedItem{}).
		Joins("JOIN shopping_sessions s ON s.id = checked_items.session_id").
		Where("s.user_id = ?", userID).
		Count(&count).
		Error
	return count, err
}

// SessionSpans returns start/completion pairs for the user's sessions started
// on or after the cutoff, newest first.
func (r *Repository) SessionSpans(ctx context.Context, userID uuid.UUID, since time.Time) ([]sessionSpan, error) {
	var spans []sessionSpan
	err := r.db.WithContext(ctx).
		Model(&models.ShoppingSession{}).
		Select("started_at, completed_at").
		Where("user_id = ? AND started_at >= ?", userID, since).
		Order("started_at DESC").
		Scan(&spans).
		Error
	return spans, err
}

// TopCheckedIngredients returns the most frequently checked ingredients with
// their check counts.
func (r *Repository) TopCheckedIngredients(ctx context.Context, userID uuid.UUID, limit int) ([]topCheckedRow, error) {
	var rows []topCheckedRow
	err := r.db.WithContext(ctx).
		Raw(topCheckedSQL, userID, limit).
		Scan(&rows).
		Error
	return rows, err
}
