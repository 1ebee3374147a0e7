package httpserver

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/jakeb7757/evolve/internal/http/handlers"
	"github.com/jakeb7757/evolve/internal/http/middleware"
)

// RouterDeps collects handler dependencies.
type RouterDeps struct {
	Signup             http.HandlerFunc
	Login              http.HandlerFunc
	VehicleHandlers    *handlers.VehicleHandlers
	CalculatorHandlers *handlers.CalculatorHandlers
	StationsHandlers   *handlers.StationsHandlers
	AdminHandlers      *handlers.AdminHandlers
	Health             http.HandlerFunc

	Tokens       middleware.TokenValidator
	ListingCache middleware.ResponseStore
	Logger       *zap.Logger
}

// NewRouter wires HTTP routes with middleware. The station listing is
// wrapped in the response-cache middleware; ListingCache may be nil to
// disable caching.
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	requireAuth := middleware.RequireAuth(deps.Tokens)
	optionalAuth := middleware.OptionalAuth(deps.Tokens)

	mux.Handle("/health", method(http.MethodGet, deps.Health))

	mux.Handle("/api/auth/signup", method(http.MethodPost, deps.Signup))
	mux.Handle("/api/auth/login", method(http.MethodPost, deps.Login))

	mux.Handle("/api/vehicles/years", method(http.MethodGet, http.HandlerFunc(deps.VehicleHandlers.Years)))
	mux.Handle("/api/vehicles/manufacturers", method(http.MethodGet, http.HandlerFunc(deps.VehicleHandlers.Manufacturers)))
	mux.Handle("/api/vehicles/models", method(http.MethodGet, http.HandlerFunc(deps.VehicleHandlers.Models)))

	mux.Handle("/api/calculator/fuel-savings", method(http.MethodPost, http.HandlerFunc(deps.CalculatorHandlers.FuelSavings)))
	mux.Handle("/api/calculator/level2", method(http.MethodPost,
		middleware.Chain(http.HandlerFunc(deps.CalculatorHandlers.Level2), optionalAuth)))

	listing := middleware.Chain(
		http.HandlerFunc(deps.StationsHandlers.List),
		optionalAuth,
		middleware.SessionCookie,
		middleware.ResponseCache(deps.ListingCache, middleware.ListingKey, deps.Logger),
	)
	mux.Handle("/api/stations", method(http.MethodGet, listing))
	mux.Handle("/api/stations/history", method(http.MethodGet, http.HandlerFunc(deps.StationsHandlers.History)))
	mux.Handle("/api/stations/status", method(http.MethodPost,
		middleware.Chain(http.HandlerFunc(deps.StationsHandlers.SubmitStatus), requireAuth)))

	staff := func(handler http.Handler) http.Handler {
		return middleware.Chain(handler, requireAuth, middleware.RequireStaff)
	}
	mux.Handle("/api/admin/schema/", method(http.MethodGet, staff(http.HandlerFunc(deps.AdminHandlers.Schema))))
	mux.Handle("/api/admin/submissions", method(http.MethodGet, staff(http.HandlerFunc(deps.AdminHandlers.Submissions))))
	mux.Handle("/api/admin/vehicles", staff(http.HandlerFunc(deps.AdminHandlers.Vehicles)))
	mux.Handle("/api/admin/vehicles/", staff(http.HandlerFunc(deps.AdminHandlers.Vehicles)))
	mux.Handle("/api/admin/stations", staff(http.HandlerFunc(deps.AdminHandlers.Stations)))

	return middleware.Chain(mux, middleware.RequestID)
}

func method(expected string, handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != expected {
			w.Header().Set("Allow", expected)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handler.ServeHTTP(w, r)
	})
}
