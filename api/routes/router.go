package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lromero/pantryflow-backend/api/controllers"
	"github.com/lromero/pantryflow-backend/api/middleware"
	ingredientsvc "github.com/lromero/pantryflow-backend/internal/ingredients"
	"github.com/lromero/pantryflow-backend/internal/shopping"
	"github.com/lromero/pantryflow-backend/internal/stats"
	"github.com/lromero/pantryflow-backend/pkg/config"
	"github.com/lromero/pantryflow-backend/pkg/db"
	"github.com/lromero/pantryflow-backend/pkg/logger"
	"github.com/lromero/pantryflow-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	ingredientService ingredientsvc.Service,
	shoppingService shopping.Service,
	statsService stats.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/v1/ingredients", func(r chi.Router) {
			r.Get("/", controllers.IngredientList(ingredientService, logg))
			r.Post("/", controllers.IngredientCreate(ingredientService, logg))
			r.Get("/{ingredientId}", controllers.IngredientDetail(ingredientService, logg))
			r.Patch("/{ingredientId}", controllers.IngredientUpdate(ingredientService, logg))
			r.Delete("/{ingredientId}", controllers.IngredientDelete(ingredientService, logg))
		})

		r.Get("/v1/categories", controllers.CategoryList(ingredientService, logg))
		r.Get("/v1/units", controllers.UnitList(ingredientService, logg))

		r.Route("/v1/shopping", func(r chi.Router) {
			r.Route("/sessions", func(r chi.Router) {
				r.Get("/", controllers.SessionList(shoppingService, logg))
				r.Post("/", controllers.SessionStart(shoppingService, logg))
				r.Get("/{sessionId}", controllers.SessionDetail(shoppingService, logg))
				r.Post("/{sessionId}/items", controllers.SessionCheckItem(shoppingService, logg))
				r.Post("/{sessionId}/complete", controllers.SessionComplete(shoppingService, logg))
				r.Post("/{sessionId}/abandon", controllers.SessionAbandon(shoppingService, logg))
			})
			r.Get("/stats", controllers.ShoppingStats(statsService, logg))
		})
	})

	return r
}
