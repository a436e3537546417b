package routes

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"satmine/controllers/admins"
	"satmine/middleware"
)

// SetAdminRoutes registers the moderation surface on the given subrouter.
func SetAdminRoutes(api *mux.Router) {
	adminLoginLimiter := middleware.NewIPRateLimiter(20, 5*time.Minute)
	adminLimiter := middleware.NewIPRateLimiter(120, time.Minute)

	api.Handle("/admin/login", adminLoginLimiter.Middleware(http.HandlerFunc(admins.LoginHandler))).Methods(http.MethodPost)

	api.Handle("/admin/users", adminLimiter.Middleware(middleware.AdminAuthMiddleware(http.HandlerFunc(admins.ListUsersHandler)))).Methods(http.MethodGet)
	api.Handle("/admin/users/{username}", adminLimiter.Middleware(middleware.AdminAuthMiddleware(http.HandlerFunc(admins.UserDetailHandler)))).Methods(http.MethodGet)
	api.Handle("/admin/users/{username}/block", adminLimiter.Middleware(middleware.AdminAuthMiddleware(http.HandlerFunc(admins.BlockUserHandler)))).Methods(http.MethodPost)
	api.Handle("/admin/users/{username}", adminLimiter.Middleware(middleware.AdminAuthMiddleware(http.HandlerFunc(admins.AdjustUserHandler)))).Methods(http.MethodPut)
	api.Handle("/admin/users/{username}", adminLimiter.Middleware(middleware.AdminAuthMiddleware(http.HandlerFunc(admins.DeleteUserHandler)))).Methods(http.MethodDelete)
}
