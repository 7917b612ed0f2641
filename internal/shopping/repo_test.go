package shopping

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lromero/pantryflow-backend/pkg/db/models"
	"github.com/lromero/pantryflow-backend/pkg/enums"
	pkgerrors "github.com/lromero/pantryflow-backend/pkg/errors"
	"github.com/lromero/pantryflow-backend/pkg/pagination"
)

func setupShoppingTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	sessions := `
CREATE TABLE IF NOT EXISTS shopping_sessions (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'active',
  started_at DATETIME NOT NULL,
  completed_at DATETIME,
  device_type TEXT,
  location TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	oneActive := `
CREATE UNIQUE INDEX IF NOT EXISTS shopping_sessions_one_active_key
  ON shopping_sessions (user_id) WHERE status = 'active';`
	checkedItems := `
CREATE TABLE IF NOT EXISTS checked_items (
  id TEXT PRIMARY KEY,
  session_id TEXT NOT NULL,
  ingredient_id TEXT NOT NULL,
  ingredient_name TEXT NOT NULL,
  stock_status TEXT NOT NULL,
  expiry_status TEXT NOT NULL,
  checked_at DATETIME NOT NULL,
  created_at DATETIME,
  UNIQUE (session_id, ingredient_id)
);`
	ingredients := `
CREATE TABLE IF NOT EXISTS ingredients (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  category_id TEXT NOT NULL,
  name TEXT NOT NULL,
  memo TEXT,
  price NUMERIC,
  purchase_date DATETIME NOT NULL,
  best_before_date DATETIME,
  use_by_date DATETIME,
  quantity NUMERIC NOT NULL,
  unit_id TEXT NOT NULL,
  storage_location TEXT NOT NULL,
  storage_detail TEXT,
  low_stock_threshold NUMERIC,
  created_at DATETIME,
  updated_at DATETIME,
  deleted_at DATETIME
);`
	require.NoError(t, db.Exec(sessions).Error)
	require.NoError(t, db.Exec(oneActive).Error)
	require.NoError(t, db.Exec(checkedItems).Error)
	require.NoError(t, db.Exec(ingredients).Error)
	return db
}

type testTxRunner struct {
	db *gorm.DB
}

func (r testTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func newTestService(t *testing.T, db *gorm.DB) Service {
	t.Helper()

	svc, err := NewService(NewRepository(db), testTxRunner{db: db})
	require.NoError(t, err)
	return svc
}

func seedIngredient(t *testing.T, db *gorm.DB, userID uuid.UUID, name string, qty int64) *models.Ingredient {
	t.Helper()

	row := &models.Ingredient{
		ID:              uuid.New(),
		UserID:          userID,
		CategoryID:      uuid.New(),
		Name:            name,
		PurchaseDate:    time.Now().UTC(),
		Quantity:        decimal.NewFromInt(qty),
		UnitID:          uuid.New(),
		StorageLocation: enums.StorageLocationRefrigerated,
	}
	require.NoError(t, db.Create(row).Error)
	return row
}

func TestServiceStartSession(t *testing.T) {
	db := setupShoppingTestDB(t)
	svc := newTestService(t, db)

	owner := uuid.New()
	device := enums.DeviceTypeMobile

	dto, err := svc.StartSession(context.Background(), owner, StartSessionInput{DeviceType: &device})
	require.NoError(t, err)
	assert.Equal(t, enums.SessionStatusActive, dto.Status)
	assert.Nil(t, dto.CompletedAt)
	require.NotNil(t, dto.DeviceType)
	assert.Equal(t, enums.DeviceTypeMobile, *dto.DeviceType)

	_, err = svc.StartSession(context.Background(), owner, StartSessionInput{})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())

	// A different user is unaffected.
	_, err = svc.StartSession(context.Background(), uuid.New(), StartSessionInput{})
	require.NoError(t, err)
}

func TestServiceStartSessionAfterCompletion(t *testing.T) {
	db := setupShoppingTestDB(t)
	svc := newTestService(t, db)

	owner := uuid.New()
	first, err := svc.StartSession(context.Background(), owner, StartSessionInput{})
	require.NoError(t, err)

	_, err = svc.CompleteSession(context.Background(), owner, first.ID)
	require.NoError(t, err)

	second, err := svc.StartSession(context.Background(), owner, StartSessionInput{})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestServiceCheckItemReplacesSnapshot(t *testing.T) {
	db := setupShoppingTestDB(t)
	svc := newTestService(t, db)

	owner := uuid.New()
	row := seedIngredient(t, db, owner, "Tomato", 5)

	session, err := svc.StartSession(context.Background(), owner, StartSessionInput{})
	require.NoError(t, err)

	dto, err := svc.CheckItem(context.Background(), owner, session.ID, row.ID)
	require.NoError(t, err)
	require.Equal(t, 1, dto.CheckedItemsCount)
	assert.Equal(t, enums.StockStatusInStock, dto.CheckedItems[0].StockStatus)

	// Re-checking the same ingredient replaces the snapshot, not duplicates it.
	row.Quantity = decimal.Zero
	require.NoError(t, db.Save(row).Error)

	dto, err = svc.CheckItem(context.Background(), owner, session.ID, row.ID)
	require.NoError(t, err)
	require.Equal(t, 1, dto.CheckedItemsCount)
	assert.Equal(t, enums.StockStatusOutOfStock, dto.CheckedItems[0].StockStatus)
}

func TestServiceCheckItemSnapshotSurvivesIngredientEdits(t *testing.T) {
	db := setupShoppingTestDB(t)
	svc := newTestService(t, db)

	owner := uuid.New()
	row := seedIngredient(t, db, owner, "Tomato", 5)

	session, err := svc.StartSession(context.Background(), owner, StartSessionInput{})
	require.NoError(t, err)

	_, err = svc.CheckItem(context.Background(), owner, session.ID, row.ID)
	require.NoError(t, err)

	row.Name = "Roma Tomato"
	row.Quantity = decimal.Zero
	require.NoError(t, db.Save(row).Error)

	dto, err := svc.GetSession(context.Background(), owner, session.ID)
	require.NoError(t, err)
	require.Equal(t, 1, dto.CheckedItemsCount)
	assert.Equal(t, "Tomato", dto.CheckedItems[0].IngredientName)
	assert.Equal(t, enums.StockStatusInStock, dto.CheckedItems[0].StockStatus)
}

func TestServiceCheckItemOwnershipAndState(t *testing.T) {
	db := setupShoppingTestDB(t)
	svc := newTestService(t, db)

	userA := uuid.New()
	userB := uuid.New()
	ingredientA := seedIngredient(t, db, userA, "Tomato", 5)
	ingredientB := seedIngredient(t, db, userB, "Milk", 2)

	session, err := svc.StartSession(context.Background(), userA, StartSessionInput{})
	require.NoError(t, err)

	// Another user cannot check into this session.
	_, err = svc.CheckItem(context.Background(), userB, session.ID, ingredientB.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())
	assert.Equal(t, "session does not belong to user", typed.Message())

	// The owner cannot check someone else's ingredient.
	_, err = svc.CheckItem(context.Background(), userA, session.ID, ingredientB.ID)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())
	assert.Equal(t, "ingredient does not belong to user", typed.Message())

	// A terminal session rejects further checks.
	_, err = svc.CompleteSession(context.Background(), userA, session.ID)
	require.NoError(t, err)

	_, err = svc.CheckItem(context.Background(), userA, session.ID, ingredientA.ID)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestServiceCompleteAndAbandon(t *testing.T) {
	db := setupShoppingTestDB(t)
	svc := newTestService(t, db)

	owner := uuid.New()
	session, err := svc.StartSession(context.Background(), owner, StartSessionInput{})
	require.NoError(t, err)

	completed, err := svc.CompleteSession(context.Background(), owner, session.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.SessionStatusCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)

	// Completing twice is a state conflict.
	_, err = svc.CompleteSession(context.Background(), owner, session.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())

	// So is abandoning a completed session.
	_, err = svc.AbandonSession(context.Background(), owner, session.ID)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())

	// Cross-owner transition reads as not found.
	other, err := svc.StartSession(context.Background(), uuid.New(), StartSessionInput{})
	require.NoError(t, err)
	_, err = svc.CompleteSession(context.Background(), owner, other.ID)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestServiceSessionDuration(t *testing.T) {
	db := setupShoppingTestDB(t)
	svc := newTestService(t, db)

	owner := uuid.New()
	session, err := svc.StartSession(context.Background(), owner, StartSessionInput{})
	require.NoError(t, err)

	// Backdate the start to get a deterministic lower bound.
	started := time.Now().UTC().Add(-20 * time.Minute)
	require.NoError(t, db.Model(&models.ShoppingSession{}).
		Where("id = ?", session.ID).
		Update("started_at", started).Error)

	completed, err := svc.CompleteSession(context.Background(), owner, session.ID)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, completed.DurationSeconds, int64(1200))
	assert.Less(t, completed.DurationSeconds, int64(1260))
}

func TestRepositoryListByUserFiltersAndPagination(t *testing.T) {
	db := setupShoppingTestDB(t)
	repo := NewRepository(db)

	owner := uuid.New()
	now := time.Now().UTC()

	mkSession := func(status enums.SessionStatus, started time.Time) *models.ShoppingSession {
		completedAt := started.Add(10 * time.Minute)
		row := &models.ShoppingSession{
			ID:        uuid.New(),
			UserID:    owner,
			Status:    status,
			StartedAt: started,
			CreatedAt: started,
			UpdatedAt: started,
		}
		if status != enums.SessionStatusActive {
			row.CompletedAt = &completedAt
		}
		require.NoError(t, db.Create(row).Error)
		return row
	}

	oldest := mkSession(enums.SessionStatusCompleted, now.Add(-48*time.Hour))
	middle := mkSession(enums.SessionStatusAbandoned, now.Add(-24*time.Hour))
	newest := mkSession(enums.SessionStatusActive, now)

	page, err := repo.ListByUser(context.Background(), owner, sessionListQuery{Pagination: pagination.Params{Limit: 2}})
	require.NoError(t, err)
	require.Len(t, page.Sessions, 2)
	assert.Equal(t, newest.ID, page.Sessions[0].ID)
	assert.Equal(t, middle.ID, page.Sessions[1].ID)
	assert.NotEmpty(t, page.NextCursor)

	rest, err := repo.ListByUser(context.Background(), owner, sessionListQuery{Pagination: pagination.Params{Limit: 2, Cursor: page.NextCursor}})
	require.NoError(t, err)
	require.Len(t, rest.Sessions, 1)
	assert.Equal(t, oldest.ID, rest.Sessions[0].ID)
	assert.Empty(t, rest.NextCursor)

	completedStatus := enums.SessionStatusCompleted
	byStatus, err := repo.ListByUser(context.Background(), owner, sessionListQuery{
		Pagination: pagination.Params{Limit: 10},
		Filters:    ListFilters{Status: &completedStatus},
	})
	require.NoError(t, err)
	require.Len(t, byStatus.Sessions, 1)
	assert.Equal(t, oldest.ID, byStatus.Sessions[0].ID)

	from := now.Add(-30 * time.Hour)
	byRange, err := repo.ListByUser(context.Background(), owner, sessionListQuery{
		Pagination: pagination.Params{Limit: 10},
		Filters:    ListFilters{From: &from},
	})
	require.NoError(t, err)
	assert.Len(t, byRange.Sessions, 2)
}
