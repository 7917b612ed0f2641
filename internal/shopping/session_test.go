package shopping

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lromero/pantryflow-backend/pkg/db/models"
	"github.com/lromero/pantryflow-backend/pkg/enums"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		name    string
		current enums.SessionStatus
		target  enums.SessionStatus
		want    bool
	}{
		{"activeToCompleted", enums.SessionStatusActive, enums.SessionStatusCompleted, true},
		{"activeToAbandoned", enums.SessionStatusActive, enums.SessionStatusAbandoned, true},
		{"completedToCompleted", enums.SessionStatusCompleted, enums.SessionStatusCompleted, false},
		{"completedToAbandoned", enums.SessionStatusCompleted, enums.SessionStatusAbandoned, false},
		{"abandonedToCompleted", enums.SessionStatusAbandoned, enums.SessionStatusCompleted, false},
		{"activeToActive", enums.SessionStatusActive, enums.SessionStatusActive, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := canTransition(tc.current, tc.target); got != tc.want {
				t.Fatalf("canTransition(%s, %s) = %v, want %v", tc.current, tc.target, got, tc.want)
			}
		})
	}
}

func TestDurationSeconds(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	completed := start.Add(20 * time.Minute)
	now := start.Add(time.Hour)

	if got := durationSeconds(start, &completed, now); got != 1200 {
		t.Fatalf("expected 1200 seconds for a completed session, got %d", got)
	}
	if got := durationSeconds(start, nil, start.Add(5*time.Minute)); got != 300 {
		t.Fatalf("expected 300 seconds while active, got %d", got)
	}
	if got := durationSeconds(start, nil, start.Add(-time.Minute)); got != 0 {
		t.Fatalf("expected clamped duration for a skewed clock, got %d", got)
	}
}

func TestNewCheckedItemSnapshotsClassification(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	useBy := now.AddDate(0, 0, 2)
	threshold := decimal.NewFromInt(3)

	row := &models.Ingredient{
		ID:                uuid.New(),
		Name:              "Spinach",
		Quantity:          decimal.NewFromInt(2),
		LowStockThreshold: &threshold,
		UseByDate:         &useBy,
	}
	sessionID := uuid.New()

	item := newCheckedItem(sessionID, row, now)

	if item.SessionID != sessionID || item.IngredientID != row.ID {
		t.Fatal("expected snapshot to reference session and ingredient")
	}
	if item.IngredientName != "Spinach" {
		t.Fatalf("expected denormalized name, got %s", item.IngredientName)
	}
	if item.StockStatus != enums.StockStatusLowStock {
		t.Fatalf("expected low_stock snapshot, got %s", item.StockStatus)
	}
	if item.ExpiryStatus != enums.ExpiryStatusExpiringSoon {
		t.Fatalf("expected expiring_soon snapshot, got %s", item.ExpiryStatus)
	}
	if !item.CheckedAt.Equal(now) {
		t.Fatalf("expected checked_at %v, got %v", now, item.CheckedAt)
	}
}

func TestNewSessionDTOCounts(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	completed := start.Add(20 * time.Minute)
	row := &models.ShoppingSession{
		ID:          uuid.New(),
		Status:      enums.SessionStatusCompleted,
		StartedAt:   start,
		CompletedAt: &completed,
		CheckedItems: []models.CheckedItem{
			{IngredientName: "Tomato", CheckedAt: start.Add(5 * time.Minute)},
		},
	}

	dto := NewSessionDTO(row, completed.Add(time.Hour))
	if dto.DurationSeconds != 1200 {
		t.Fatalf("expected duration 1200, got %d", dto.DurationSeconds)
	}
	if dto.CheckedItemsCount != 1 {
		t.Fatalf("expected 1 checked item, got %d", dto.CheckedItemsCount)
	}
	if len(dto.CheckedItems) != 1 || dto.CheckedItems[0].IngredientName != "Tomato" {
		t.Fatal("expected checked item payload")
	}
}

func TestNewServiceRequiresDeps(t *testing.T) {
	if _, err := NewService(nil, nil); err == nil {
		t.Fatal("expected error for missing repository")
	}
	if _, err := NewService(NewRepository(nil), nil); err == nil {
		t.Fatal("expected error for missing transaction runner")
	}
}
