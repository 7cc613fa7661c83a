package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/cors"

	"github.com/dukerupert/recipebox/internal/account"
	"github.com/dukerupert/recipebox/internal/auth"
	"github.com/dukerupert/recipebox/internal/export"
	"github.com/dukerupert/recipebox/internal/handler"
	"github.com/dukerupert/recipebox/internal/imagestore"
	"github.com/dukerupert/recipebox/internal/middleware"
	"github.com/dukerupert/recipebox/internal/store"
	ws "github.com/dukerupert/recipebox/internal/websocket"
)

// Login and registration attempts allowed per client IP.
const (
	authAttempts = 10
	authWindow   = time.Minute
	authBurst    = 5
)

// Options carries the collaborators and settings the server needs beyond
// the database.
type Options struct {
	Tokens         *auth.Tokens
	Hasher         account.Hasher
	Images         imagestore.Store
	BaseURL        string
	CookieSecure   bool
	AllowedOrigins []string
	Logger         *slog.Logger
}

type Server struct {
	db             *sql.DB
	hub            *ws.Hub
	tokens         *auth.Tokens
	userStore      *store.UserStore
	authH          *handler.AuthHandler
	accountH       *handler.AccountHandler
	recipeH        *handler.RecipeHandler
	pantryH        *handler.PantryHandler
	shoppingH      *handler.ShoppingHandler
	mealPlanH      *handler.MealPlanHandler
	dashboardH     *handler.DashboardHandler
	exportH        *handler.ExportHandler
	rateLimiter    *middleware.RateLimiter
	allowedOrigins []string
	logger         *slog.Logger
}

func New(db *sql.DB, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	hasher := opts.Hasher
	if hasher == nil {
		hasher = account.BcryptHasher{}
	}
	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db)
	recipeStore := store.NewRecipeStore(db)
	pantryStore := store.NewPantryStore(db)
	shoppingStore := store.NewShoppingStore(db)
	mealPlanStore := store.NewMealPlanStore(db)

	accounts := account.NewService(userStore, hasher, logger.With("component", "account"))
	exportSource := export.Source{
		Users:    userStore,
		Recipes:  recipeStore,
		Pantry:   pantryStore,
		Shopping: shoppingStore,
		MealPlan: mealPlanStore,
	}

	return &Server{
		db:             db,
		hub:            hub,
		tokens:         opts.Tokens,
		userStore:      userStore,
		authH:          handler.NewAuthHandler(accounts, userStore, opts.Tokens, opts.CookieSecure, logger.With("component", "auth")),
		accountH:       handler.NewAccountHandler(accounts, userStore, recipeStore, opts.Images, hub, logger.With("component", "account")),
		recipeH:        handler.NewRecipeHandler(recipeStore, opts.Images, hub, logger.With("component", "recipe")),
		pantryH:        handler.NewPantryHandler(pantryStore, hub, logger.With("component", "pantry")),
		shoppingH:      handler.NewShoppingHandler(shoppingStore, hub, logger.With("component", "shopping")),
		mealPlanH:      handler.NewMealPlanHandler(mealPlanStore, hub, logger.With("component", "meal_plan")),
		dashboardH:     handler.NewDashboardHandler(recipeStore, pantryStore, shoppingStore, mealPlanStore, logger.With("component", "dashboard")),
		exportH:        handler.NewExportHandler(exportSource, opts.BaseURL, logger.With("component", "export")),
		rateLimiter:    middleware.NewRateLimiter(authAttempts, authWindow, authBurst),
		allowedOrigins: opts.AllowedOrigins,
		logger:         logger,
	}
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// Hub returns the live update hub.
func (s *Server) Hub() *ws.Hub {
	return s.hub
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("POST /api/register", s.rateLimitedHandler(s.authH.Register))
	outerMux.HandleFunc("POST /api/login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("POST /api/logout", s.authH.Logout)
	outerMux.HandleFunc("GET /health", s.healthHandler)

	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.tokens, s.userStore)
	outerMux.Handle("/", authMiddleware(protectedMux))

	var h http.Handler = outerMux
	if len(s.allowedOrigins) > 0 {
		h = cors.New(cors.Options{
			AllowedOrigins:   s.allowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Content-Type", "Authorization"},
			ExposedHeaders:   []string{"X-Request-ID", "Content-Disposition"},
			AllowCredentials: true,
		}).Handler(h)
	}

	return middleware.RequestLogger(s.logger.With("component", "http"))(h)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if err := s.db.PingContext(r.Context()); err != nil {
		s.logger.Error("health check", "error", err)
		status, code = "unavailable", http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"status": status})
}

// originHosts turns configured origins into the host patterns the websocket
// upgrader matches against.
func originHosts(origins []string) []string {
	var hosts []string
	for _, o := range origins {
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			hosts = append(hosts, u.Host)
		} else if o != "" {
			hosts = append(hosts, o)
		}
	}
	return hosts
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	return middleware.RateLimit(s.rateLimiter, middleware.RealIP)(h).ServeHTTP
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/me", s.authH.Me)
	mux.HandleFunc("GET /api/dashboard", s.dashboardH.Get)

	// Account and settings
	mux.HandleFunc("GET /api/settings", s.accountH.GetSettings)
	mux.HandleFunc("PUT /api/settings", s.accountH.UpdateSettings)
	mux.HandleFunc("PUT /api/settings/units", s.accountH.UpdateUnits)
	mux.HandleFunc("GET /api/account/stats", s.accountH.Stats)
	mux.HandleFunc("PUT /api/account/username", s.accountH.ChangeUsername)
	mux.HandleFunc("PUT /api/account/password", s.accountH.ChangePassword)
	mux.HandleFunc("POST /api/account/reset", s.accountH.ResetData)
	mux.HandleFunc("POST /api/account/delete", s.accountH.DeleteAccount)

	// Recipes
	mux.HandleFunc("GET /api/recipes", s.recipeH.ListMine)
	mux.HandleFunc("POST /api/recipes", s.recipeH.Create)
	mux.HandleFunc("GET /api/recipes/public", s.recipeH.ListPublic)
	mux.HandleFunc("GET /api/recipes/saved", s.recipeH.ListSaved)
	mux.HandleFunc("GET /api/recipes/{id}", s.recipeH.Get)
	mux.HandleFunc("PUT /api/recipes/{id}", s.recipeH.Update)
	mux.HandleFunc("DELETE /api/recipes/{id}", s.recipeH.Delete)
	mux.HandleFunc("GET /api/recipes/{id}/ingredients", s.recipeH.Ingredients)
	mux.HandleFunc("POST /api/recipes/{id}/save", s.recipeH.Save)
	mux.HandleFunc("DELETE /api/recipes/{id}/save", s.recipeH.Unsave)
	mux.HandleFunc("GET /api/recipes/{id}/image", s.recipeH.Image)
	mux.HandleFunc("POST /api/recipes/{id}/image", s.recipeH.UploadImage)
	mux.HandleFunc("GET /api/recipes/{id}/card", s.exportH.RecipeCard)

	// Pantry
	mux.HandleFunc("GET /api/pantry", s.pantryH.List)
	mux.HandleFunc("POST /api/pantry", s.pantryH.Create)
	mux.HandleFunc("GET /api/pantry/{id}", s.pantryH.Get)
	mux.HandleFunc("PUT /api/pantry/{id}", s.pantryH.Update)
	mux.HandleFunc("DELETE /api/pantry/{id}", s.pantryH.Delete)

	// Shopping list
	mux.HandleFunc("GET /api/shopping", s.shoppingH.List)
	mux.HandleFunc("POST /api/shopping", s.shoppingH.Create)
	mux.HandleFunc("PUT /api/shopping/{id}", s.shoppingH.Update)
	mux.HandleFunc("DELETE /api/shopping/{id}", s.shoppingH.Delete)
	mux.HandleFunc("POST /api/shopping/{id}/check", s.shoppingH.ToggleChecked)
	mux.HandleFunc("POST /api/shopping/clear-checked", s.shoppingH.ClearChecked)
	mux.HandleFunc("POST /api/shopping/promote", s.shoppingH.Promote)

	// Meal plan
	mux.HandleFunc("GET /api/meal-plan", s.mealPlanH.List)
	mux.HandleFunc("POST /api/meal-plan", s.mealPlanH.Create)
	mux.HandleFunc("PUT /api/meal-plan/{id}", s.mealPlanH.Update)
	mux.HandleFunc("DELETE /api/meal-plan/{id}", s.mealPlanH.Delete)

	// Export
	mux.HandleFunc("GET /api/export", s.exportH.Archive)

	// Live updates
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, originHosts(s.allowedOrigins), s.logger.With("component", "websocket")))
}
