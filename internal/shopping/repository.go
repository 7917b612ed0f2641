package shopping

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lromero/pantryflow-backend/pkg/db/models"
	"github.com/lromero/pantryflow-backend/pkg/enums"
	"github.com/lromero/pantryflow-backend/pkg/pagination"
)

// SessionRepository defines persistence operations for shopping sessions.
type SessionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.ShoppingSession, error)
	FindOwnedByID(ctx context.Context, userID, id uuid.UUID) (*models.ShoppingSession, error)
	FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.ShoppingSession, error)
	Create(ctx context.Context, row *models.ShoppingSession) (*models.ShoppingSession, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.SessionStatus, completedAt time.Time) error
	UpsertCheckedItem(ctx context.Context, item *models.CheckedItem) error
}

// Repository wires together session and checked-item persistence helpers.
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

// FindByID loads the session regardless of owner. Callers compare the owner
// themselves when they need to report an ownership violation rather than a
// missing row.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ShoppingSession, error) {
	var row models.ShoppingSession
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindOwnedByID loads the session scoped to its owner. A cross-owner read is
// a record-not-found.
func (r *Repository) FindOwnedByID(ctx context.Context, userID, id uuid.UUID) (*models.ShoppingSession, error) {
	var row models.ShoppingSession
	err := r.db.WithContext(ctx).
		First(&row, "id = ? AND user_id = ?", id, userID).
		Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// GetDetail loads the owner-scoped session with checked items newest first.
func (r *Repository) GetDetail(ctx context.Context, userID, id uuid.UUID) (*models.ShoppingSession, error) {
	var row models.ShoppingSession
	err := r.db.WithContext(ctx).
		Preload("CheckedItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("checked_at DESC")
		}).
		First(&row, "id = ? AND user_id = ?", id, userID).
		Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// FindActiveByUser returns the user's active session, if any.
func (r *Repository) FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.ShoppingSession, error) {
	var row models.ShoppingSession
	err := r.db.WithContext(ctx).
		First(&row, "user_id = ? AND status = ?", userID, enums.SessionStatusActive).
		Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Create inserts a new session row.
func (r *Repository) Create(ctx context.Context, row *models.ShoppingSession) (*models.ShoppingSession, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// UpdateStatus stamps the terminal status and completion timestamp.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.SessionStatus, completedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.ShoppingSession{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":       status,
			"completed_at": completedAt,
		}).
		Error
}

// UpsertCheckedItem inserts the snapshot, replacing any prior snapshot for the
// same ingredient in the same session. This is the single enforcement point
// for the replace-by-ingredient rule.
func (r *Repository) UpsertCheckedItem(ctx context.Context, item *models.CheckedItem) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "session_id"}, {Name: "ingredient_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"ingredient_name",
				"stock_status",
				"expiry_status",
				"checked_at",
			}),
		}).
		Create(item).
		Error
}

// FindIngredientByID loads an ingredient regardless of owner so the caller
// can report ownership violations distinctly. Soft-deleted rows stay hidden.
func (r *Repository) FindIngredientByID(ctx context.Context, id uuid.UUID) (*models.Ingredient, error) {
	var row models.Ingredient
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

type sessionListQuery struct {
	Pagination pagination.Params
	Filters    ListFilters
}

// ListByUser pages through the user's sessions newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, query sessionListQuery) (*SessionListResult, error) {
	pageSize := pagination.NormalizeLimit(query.Pagination.Limit)

	cursor, err := pagination.ParseCursor(query.Pagination.Cursor)
	if err != nil {
		return nil, err
	}

	qb := r.db.WithContext(ctx).
		Model(&models.ShoppingSession{}).
		Preload("CheckedItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("checked_at DESC")
		}).
		Where("user_id = ?", userID)

	filter := query.Filters
	if filter.Status != nil {
		qb = qb.Where("status = ?", *filter.Status)
	}
	if filter.From != nil {
		qb = qb.Where("started_at >= ?", *filter.From)
	}
	if filter.To != nil {
		qb = qb.Where("started_at <= ?", *filter.To)
	}

	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.ShoppingSession
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
	dtos := make([]ShoppingSessionDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewSessionDTO(&rows[i], now))
	}

	return &SessionListResult{
		Sessions:   dtos,
		NextCursor: nextCursor,
	}, nil
}
