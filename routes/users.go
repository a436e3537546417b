package routes

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"satmine/controllers/auth"
	"satmine/controllers/users"
	"satmine/middleware"
)

// UsersRoutes registers every player-facing route on the given subrouter.
func UsersRoutes(api *mux.Router) {
	// Login/register: 60 per IP per 5 minutes.
	loginLimiter := middleware.NewIPRateLimiter(60, 5*time.Minute)
	// Session traffic: 300 per IP per minute; the mining tick polls often.
	userLimiter := middleware.NewIPRateLimiter(300, time.Minute)

	// Register & Login
	api.Handle("/register", loginLimiter.Middleware(http.HandlerFunc(auth.RegisterHandler))).Methods(http.MethodPost)
	api.Handle("/login", loginLimiter.Middleware(http.HandlerFunc(auth.LoginHandler))).Methods(http.MethodPost)
	api.Handle("/logout", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(auth.LogoutHandler)))).Methods(http.MethodPost)

	// Device store
	api.Handle("/catalog", userLimiter.Middleware(http.HandlerFunc(users.CatalogHandler))).Methods(http.MethodGet)
	api.Handle("/users/devices", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.ListDevicesHandler)))).Methods(http.MethodGet)
	api.Handle("/users/devices", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.BuyDeviceHandler)))).Methods(http.MethodPost)
	api.Handle("/devices/{id}/power", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.TogglePowerHandler)))).Methods(http.MethodPost)
	api.Handle("/devices/{id}/mining", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.ToggleMiningHandler)))).Methods(http.MethodPost)

	// Mining session
	api.Handle("/mining/start", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.StartMiningHandler)))).Methods(http.MethodPost)
	api.Handle("/mining/stop", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.StopMiningHandler)))).Methods(http.MethodPost)
	api.Handle("/mining/tick", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.MiningTickHandler)))).Methods(http.MethodPost)

	// Profile
	api.Handle("/users/dashboard", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.DashboardHandler)))).Methods(http.MethodGet)
	api.Handle("/users/settings", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.SettingsHandler)))).Methods(http.MethodPut)
	api.Handle("/users/account", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.DeleteAccountHandler)))).Methods(http.MethodDelete)
	api.Handle("/users/withdraw", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.WithdrawHandler)))).Methods(http.MethodPost)
	api.Handle("/users/transactions", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.TransactionsHandler)))).Methods(http.MethodGet)

	// Tasks
	api.Handle("/users/tasks", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.ListTasksHandler)))).Methods(http.MethodGet)
	api.Handle("/users/tasks/complete", userLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(users.CompleteTaskHandler)))).Methods(http.MethodPost)
}
