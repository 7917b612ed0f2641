package controllers

import (
	"net/http"

	"github.com/lromero/pantryflow-backend/api/responses"
	"github.com/lromero/pantryflow-backend/internal/stats"
	pkgerrors "github.com/lromero/pantryflow-backend/pkg/errors"
	"github.com/lromero/pantryflow-backend/pkg/logger"
)

// ShoppingStats returns aggregated shopping history for the authenticated user.
func ShoppingStats(svc stats.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stats service unavailable"))
			return
		}

		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.GetStats(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
