package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	ingredientsvc "github.com/lromero/pantryflow-backend/internal/ingredients"
	"github.com/lromero/pantryflow-backend/internal/shopping"
	"github.com/lromero/pantryflow-backend/internal/stats"
	pkgAuth "github.com/lromero/pantryflow-backend/pkg/auth"
	"github.com/lromero/pantryflow-backend/pkg/config"
	"github.com/lromero/pantryflow-backend/pkg/enums"
	pkgerrors "github.com/lromero/pantryflow-backend/pkg/errors"
	"github.com/lromero/pantryflow-backend/pkg/logger"
	"github.com/lromero/pantryflow-backend/pkg/types"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubIngredientService struct {
	created *ingredientsvc.IngredientDTO
}

func (s stubIngredientService) CreateIngredient(ctx context.Context, userID uuid.UUID, input ingredientsvc.CreateIngredientInput) (*ingredientsvc.IngredientDTO, error) {
	if s.created != nil {
		return s.created, nil
	}
	return &ingredientsvc.IngredientDTO{ID: uuid.New(), Name: input.Name}, nil
}

func (stubIngredientService) UpdateIngredient(ctx context.Context, userID, ingredientID uuid.UUID, input ingredientsvc.UpdateIngredientInput) (*ingredientsvc.IngredientDTO, error) {
	return &ingredientsvc.IngredientDTO{ID: ingredientID}, nil
}

func (stubIngredientService) DeleteIngredient(ctx context.Context, userID, ingredientID uuid.UUID) error {
	return nil
}

func (stubIngredientService) GetIngredient(ctx context.Context, userID, ingredientID uuid.UUID) (*ingredientsvc.IngredientDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ingredient not found")
}

func (stubIngredientService) ListIngredients(ctx context.Context, userID uuid.UUID, input ingredientsvc.ListIngredientsInput) (*ingredientsvc.IngredientListResult, error) {
	return &ingredientsvc.IngredientListResult{}, nil
}

func (stubIngredientService) ListCategories(ctx context.Context) ([]ingredientsvc.CategoryDTO, error) {
	return nil, nil
}

func (stubIngredientService) ListUnits(ctx context.Context) ([]ingredientsvc.UnitDTO, error) {
	return nil, nil
}

type stubShoppingService struct{}

func (stubShoppingService) StartSession(ctx context.Context, userID uuid.UUID, input shopping.StartSessionInput) (*shopping.ShoppingSessionDTO, error) {
	return &shopping.ShoppingSessionDTO{ID: uuid.New(), Status: enums.SessionStatusActive}, nil
}

func (stubShoppingService) CheckItem(ctx context.Context, userID, sessionID, ingredientID uuid.UUID) (*shopping.ShoppingSessionDTO, error) {
	return &shopping.ShoppingSessionDTO{ID: sessionID, Status: enums.SessionStatusActive}, nil
}

func (stubShoppingService) CompleteSession(ctx context.Context, userID, sessionID uuid.UUID) (*shopping.ShoppingSessionDTO, error) {
	return &shopping.ShoppingSessionDTO{ID: sessionID, Status: enums.SessionStatusCompleted}, nil
}

func (stubShoppingService) AbandonSession(ctx context.Context, userID, sessionID uuid.UUID) (*shopping.ShoppingSessionDTO, error) {
	return &shopping.ShoppingSessionDTO{ID: sessionID, Status: enums.SessionStatusAbandoned}, nil
}

func (stubShoppingService) GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*shopping.ShoppingSessionDTO, error) {
	return &shopping.ShoppingSessionDTO{ID: sessionID, Status: enums.SessionStatusActive}, nil
}

func (stubShoppingService) ListSessions(ctx context.Context, userID uuid.UUID, input shopping.ListSessionsInput) (*shopping.SessionListResult, error) {
	return &shopping.SessionListResult{}, nil
}

type stubStatsService struct{}

func (stubStatsService) GetStats(ctx context.Context, userID uuid.UUID) (*stats.StatsDTO, error) {
	return &stats.StatsDTO{TotalSessions: 3}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		stubPinger{},
		stubIngredientService{},
		stubShoppingService{},
		stubStatsService{},
	)
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for liveness got %d", resp.Code)
	}
}

func TestPrivateGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestPrivateGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, uuid.New()))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for private ping got %d", resp.Code)
	}
}

func TestIngredientListRequiresToken(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ingredients", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}

	authed := httptest.NewRequest(http.MethodGet, "/api/v1/ingredients", nil)
	authed.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, uuid.New()))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, authed)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for authed list got %d", resp.Code)
	}
}

func TestIngredientCreateRejectsBadJSON(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ingredients", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, uuid.New()))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid payload got %d", resp.Code)
	}
}

func TestIngredientCreateAcceptsValidPayload(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	body := `{
		"name": "Tomato",
		"category_id": "` + uuid.NewString() + `",
		"purchase_date": "2025-03-10",
		"quantity": 3,
		"unit_id": "` + uuid.NewString() + `",
		"storage_location": "refrigerated"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ingredients", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, uuid.New()))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for valid payload got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope types.SuccessEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestSessionRoutesAreWired(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	token := buildToken(t, cfg, uuid.New())
	sessionID := uuid.NewString()

	cases := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodPost, "/api/v1/shopping/sessions", `{}`, http.StatusCreated},
		{http.MethodGet, "/api/v1/shopping/sessions", "", http.StatusOK},
		{http.MethodGet, "/api/v1/shopping/sessions/" + sessionID, "", http.StatusOK},
		{http.MethodPost, "/api/v1/shopping/sessions/" + sessionID + "/items", `{"ingredient_id":"` + uuid.NewString() + `"}`, http.StatusOK},
		{http.MethodPost, "/api/v1/shopping/sessions/" + sessionID + "/complete", "", http.StatusOK},
		{http.MethodPost, "/api/v1/shopping/sessions/" + sessionID + "/abandon", "", http.StatusOK},
		{http.MethodGet, "/api/v1/shopping/stats", "", http.StatusOK},
	}

	for _, tc := range cases {
		var req *http.Request
		if tc.body != "" {
			req = httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
		} else {
			req = httptest.NewRequest(tc.method, tc.path, nil)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != tc.want {
			t.Fatalf("%s %s: expected %d got %d: %s", tc.method, tc.path, tc.want, resp.Code, resp.Body.String())
		}
	}
}

func buildToken(t *testing.T, cfg *config.Config, userID uuid.UUID) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{UserID: userID})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}
