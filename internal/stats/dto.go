package stats

import (
	"github.com/google/uuid"
)

// StatsDTO aggregates a user's shopping history.
type StatsDTO struct {
	TotalSessions          int64               `json:"total_sessions"`
	ActiveSessions         int64               `json:"active_sessions"`
	CompletedSessions      int64               `json:"completed_sessions"`
	AbandonedSessions      int64               `json:"abandoned_sessions"`
	TotalChecks            int64               `json:"total_checks"`
	AverageDurationSeconds float64             `json:"average_duration_seconds"`
	TopIngredients         []TopIngredientDTO  `json:"top_ingredients"`
	MonthlySessions        []MonthlySessionDTO `json:"monthly_sessions"`
}

// TopIngredientDTO is one frequently checked ingredient. CheckRate is the
// share of the user's sessions in which the ingredient was checked.
type TopIngredientDTO struct {
	IngredientID   uuid.UUID `json:"ingredient_id"`
	IngredientName string    `json:"ingredient_name"`
	CheckCount     int64     `json:"check_count"`
	CheckRate      float64   `json:"check_rate"`
}

// MonthlySessionDTO counts the sessions started in one calendar month.
type MonthlySessionDTO struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}
