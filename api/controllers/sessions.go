package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/lromero/pantryflow-backend/api/responses"
	"github.com/lromero/pantryflow-backend/api/validators"
	"github.com/lromero/pantryflow-backend/internal/shopping"
	"github.com/lromero/pantryflow-backend/pkg/enums"
	pkgerrors "github.com/lromero/pantryflow-backend/pkg/errors"
	"github.com/lromero/pantryflow-backend/pkg/logger"
	"github.com/lromero/pantryflow-backend/pkg/pagination"
	"github.com/lromero/pantryflow-backend/pkg/types"
)

// SessionStart opens a shopping session for the authenticated user.
func SessionStart(svc shopping.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shopping service unavailable"))
			return
		}

		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload startSessionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toStartInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.StartSession(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, session)
	}
}

// SessionCheckItem records (or refreshes) an ingredient snapshot in a session.
func SessionCheckItem(svc shopping.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shopping service unavailable"))
			return
		}

		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sessionID, err := pathUUID(r, "sessionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.CheckItem(r.Context(), userID, sessionID, payload.IngredientID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, session)
	}
}

// SessionComplete finishes an active session.
func SessionComplete(svc shopping.Service, logg *logger.Logger) http.HandlerFunc {
	return sessionTransition(svc, logg, func(svc shopping.Service, r *http.Request, userID, sessionID uuid.UUID) (*shopping.ShoppingSessionDTO, error) {
		return svc.CompleteSession(r.Context(), userID, sessionID)
	})
}

// SessionAbandon discards an active session.
func SessionAbandon(svc shopping.Service, logg *logger.Logger) http.HandlerFunc {
	return sessionTransition(svc, logg, func(svc shopping.Service, r *http.Request, userID, sessionID uuid.UUID) (*shopping.ShoppingSessionDTO, error) {
		return svc.AbandonSession(r.Context(), userID, sessionID)
	})
}

func sessionTransition(
	svc shopping.Service,
	logg *logger.Logger,
	apply func(shopping.Service, *http.Request, uuid.UUID, uuid.UUID) (*shopping.ShoppingSessionDTO, error),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shopping service unavailable"))
			return
		}

		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sessionID, err := pathUUID(r, "sessionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := apply(svc, r, userID, sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, session)
	}
}

// SessionDetail returns one session with its checked items.
func SessionDetail(svc shopping.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shopping service unavailable"))
			return
		}

		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sessionID, err := pathUUID(r, "sessionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.GetSession(r.Context(), userID, sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, session)
	}
}

// SessionList returns one cursor page of the user's session history.
func SessionList(svc shopping.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shopping service unavailable"))
			return
		}

		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := parseSessionListQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListSessions(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

type startSessionRequest struct {
	DeviceType *string         `json:"device_type,omitempty"`
	Location   *types.GeoPoint `json:"location,omitempty"`
}

func (p startSessionRequest) toStartInput() (shopping.StartSessionInput, error) {
	input := shopping.StartSessionInput{Location: p.Location}

	if p.DeviceType != nil {
		device, err := enums.ParseDeviceType(strings.TrimSpace(*p.DeviceType))
		if err != nil {
			return shopping.StartSessionInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid device type")
		}
		input.DeviceType = &device
	}

	return input, nil
}

type checkItemRequest struct {
	IngredientID uuid.UUID `json:"ingredient_id" validate:"required"`
}

func parseSessionListQuery(r *http.Request) (shopping.ListSessionsInput, error) {
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return shopping.ListSessionsInput{}, err
	}

	input := shopping.ListSessionsInput{
		Pagination: pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		},
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status, err := enums.ParseSessionStatus(raw)
		if err != nil {
			return shopping.ListSessionsInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid session status")
		}
		input.Filters.Status = &status
	}

	from, err := validators.ParseQueryDate(r, "from")
	if err != nil {
		return shopping.ListSessionsInput{}, err
	}
	input.Filters.From = from

	to, err := validators.ParseQueryDate(r, "to")
	if err != nil {
		return shopping.ListSessionsInput{}, err
	}
	input.Filters.To = to

	return input, nil
}
