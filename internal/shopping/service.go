package shopping

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lromero/pantryflow-backend/pkg/db"
	"github.com/lromero/pantryflow-backend/pkg/db/models"
	"github.com/lromero/pantryflow-backend/pkg/enums"
	pkgerrors "github.com/lromero/pantryflow-backend/pkg/errors"
	"github.com/lromero/pantryflow-backend/pkg/types"
)

// oneActiveSessionConstraint is the partial unique index that backstops the
// check-then-create on session start.
const oneActiveSessionConstraint = "shopping_sessions_one_active_key"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes shopping session commands and queries.
type Service interface {
	StartSession(ctx context.Context, userID uuid.UUID, input StartSessionInput) (*ShoppingSessionDTO, error)
	CheckItem(ctx context.Context, userID, sessionID, ingredientID uuid.UUID) (*ShoppingSessionDTO, error)
	CompleteSession(ctx context.Context, userID, sessionID uuid.UUID) (*ShoppingSessionDTO, error)
	AbandonSession(ctx context.Context, userID, sessionID uuid.UUID) (*ShoppingSessionDTO, error)
	GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*ShoppingSessionDTO, error)
	ListSessions(ctx context.Context, userID uuid.UUID, input ListSessionsInput) (*SessionListResult, error)
}

// StartSessionInput carries the optional trip metadata captured at start.
type StartSessionInput struct {
	DeviceType *enums.DeviceType
	Location   *types.GeoPoint
}

// service implements the shopping session service.
type service struct {
	repo *Repository
	tx   txRunner
}

// NewService constructs a shopping session service instance.
func NewService(repo *Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("shopping repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

// StartSession opens a new trip. The in-transaction lookup gives a friendly
// error for the common case; the partial unique index closes the concurrent
// start race the lookup alone cannot.
func (s *service) StartSession(ctx context.Context, userID uuid.UUID, input StartSessionInput) (*ShoppingSessionDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.DeviceType != nil && !input.DeviceType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid device_type")
	}
	if input.Location != nil {
		if err := input.Location.Validate(); err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
	}

	now := time.Now().UTC()
	var createdID uuid.UUID
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		_, err := txRepo.FindActiveByUser(ctx, userID)
		if err == nil {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "an active shopping session already exists")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find active session")
		}

		row := &models.ShoppingSession{
			ID:         uuid.New(),
			UserID:     userID,
			Status:     enums.SessionStatusActive,
			StartedAt:  now,
			DeviceType: input.DeviceType,
			Location:   input.Location,
		}
		created, err := txRepo.Create(ctx, row)
		if err != nil {
			if db.IsUniqueViolation(err, oneActiveSessionConstraint) {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "an active shopping session already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert session")
		}
		createdID = created.ID
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "start session")
	}

	return s.GetSession(ctx, userID, createdID)
}

// CheckItem snapshots the ingredient's current classification into the
// session. Session and ingredient ownership violations are reported
// distinctly so operators can tell them apart; both are access failures, not
// missing rows.
func (s *service) CheckItem(ctx context.Context, userID, sessionID, ingredientID uuid.UUID) (*ShoppingSessionDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if sessionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id required")
	}
	if ingredientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ingredient id required")
	}

	now := time.Now().UTC()
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		session, err := txRepo.FindByID(ctx, sessionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "session not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session")
		}
		if session.UserID != userID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "session does not belong to user")
		}
		if session.Status != enums.SessionStatusActive {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "items can only be checked in an active session")
		}

		row, err := txRepo.FindIngredientByID(ctx, ingredientID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "ingredient not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ingredient")
		}
		if row.UserID != userID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "ingredient does not belong to user")
		}

		if err := txRepo.UpsertCheckedItem(ctx, newCheckedItem(session.ID, row, now)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: upsert checked item")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check item")
	}

	return s.GetSession(ctx, userID, sessionID)
}

// CompleteSession closes an active trip.
func (s *service) CompleteSession(ctx context.Context, userID, sessionID uuid.UUID) (*ShoppingSessionDTO, error) {
	return s.transition(ctx, userID, sessionID, enums.SessionStatusCompleted)
}

// AbandonSession discards an active trip.
func (s *service) AbandonSession(ctx context.Context, userID, sessionID uuid.UUID) (*ShoppingSessionDTO, error) {
	return s.transition(ctx, userID, sessionID, enums.SessionStatusAbandoned)
}

func (s *service) transition(ctx context.Context, userID, sessionID uuid.UUID, target enums.SessionStatus) (*ShoppingSessionDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if sessionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id required")
	}

	now := time.Now().UTC()
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		session, err := txRepo.FindOwnedByID(ctx, userID, sessionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "session not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session")
		}
		if !canTransition(session.Status, target) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "session is not active")
		}

		if err := txRepo.UpdateStatus(ctx, session.ID, target, now); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update session status")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "transition session")
	}

	return s.GetSession(ctx, userID, sessionID)
}

// GetSession loads one session scoped to its owner, checked items newest
// first.
func (s *service) GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*ShoppingSessionDTO, error) {
	row, err := s.repo.GetDetail(ctx, userID, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "session not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session")
	}
	return NewSessionDTO(row, time.Now().UTC()), nil
}

// ListSessions pages through the user's trips with optional status and date
// filters.
func (s *service) ListSessions(ctx context.Context, userID uuid.UUID, input ListSessionsInput) (*SessionListResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.Filters.Status != nil && !input.Filters.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}
	if input.Filters.From != nil && input.Filters.To != nil && input.Filters.To.Before(*input.Filters.From) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date range end is before start")
	}

	result, err := s.repo.ListByUser(ctx, userID, sessionListQuery{
		Pagination: input.Pagination,
		Filters:    input.Filters,
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sessions")
	}
	return result, nil
}
