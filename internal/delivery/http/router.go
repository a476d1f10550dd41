package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"evently/internal/delivery/http/controllers"
	"evently/internal/delivery/http/middleware"
	"evently/internal/domain"
)

// RouterDeps bundles everything the router needs to wire up routes.
type RouterDeps struct {
	Logger        *slog.Logger
	TokenVerifier domain.TokenVerifier

	Auth          *controllers.AuthController
	User          *controllers.UserController
	Catalog       *controllers.CatalogController
	Attendee      *controllers.AttendeeController
	Organizer     *controllers.OrganizerController
	Event         *controllers.EventController
	Admin         *controllers.AdminController
	Notifications *controllers.NotificationController
}

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(d RouterDeps) *http.ServeMux {
	mux := http.NewServeMux()

	auth := middleware.RequireAuth(d.TokenVerifier, d.Logger)
	organizer := func(h http.HandlerFunc) http.HandlerFunc {
		return auth(middleware.RequireRole(domain.RoleOrganizer)(h))
	}
	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return auth(middleware.RequireRole(domain.RoleAdmin)(h))
	}

	// Auth
	mux.HandleFunc("POST /auth/signup", d.Auth.SignUp)
	mux.HandleFunc("POST /auth/login", d.Auth.Login)

	// Public catalog
	mux.HandleFunc("GET /events", d.Catalog.ListEvents)
	mux.HandleFunc("GET /events/search", d.Catalog.SearchEvents)
	mux.HandleFunc("GET /events/{eventID}", d.Catalog.GetEvent)

	// Account
	mux.HandleFunc("GET /me", auth(d.User.GetMyProfile))
	mux.HandleFunc("PATCH /me", auth(d.User.UpdateMyProfile))
	mux.HandleFunc("POST /me/password", auth(d.User.ChangePassword))

	// Attendee
	mux.HandleFunc("POST /events/{eventID}/register", auth(d.Attendee.RegisterForEvent))
	mux.HandleFunc("DELETE /registrations/{registrationID}", auth(d.Attendee.CancelRegistration))
	mux.HandleFunc("GET /me/registrations", auth(d.Attendee.ListMyRegistrations))
	mux.HandleFunc("POST /events/{eventID}/bookmark", auth(d.Attendee.ToggleBookmark))
	mux.HandleFunc("GET /me/bookmarks", auth(d.Attendee.ListMyBookmarks))

	// Organizer onboarding (any authenticated user may apply)
	mux.HandleFunc("POST /organizer/apply", auth(d.Organizer.Apply))
	mux.HandleFunc("GET /organizer/profile", auth(d.Organizer.GetMyProfile))

	// Organizer event management
	mux.HandleFunc("POST /organizer/events", organizer(d.Event.CreateEvent))
	mux.HandleFunc("GET /organizer/events", organizer(d.Event.ListMyEvents))
	mux.HandleFunc("PATCH /organizer/events/{eventID}", organizer(d.Event.UpdateEvent))
	mux.HandleFunc("DELETE /organizer/events/{eventID}", organizer(d.Event.DeleteEvent))
	mux.HandleFunc("POST /organizer/events/{eventID}/duplicate", organizer(d.Event.DuplicateEvent))
	mux.HandleFunc("POST /organizer/events/{eventID}/publish", organizer(d.Event.PublishEvent))
	mux.HandleFunc("POST /organizer/events/{eventID}/unpublish", organizer(d.Event.UnpublishEvent))
	mux.HandleFunc("GET /organizer/events/{eventID}/registrations", organizer(d.Event.ListEventRegistrations))
	mux.HandleFunc("GET /organizer/events/{eventID}/analytics", organizer(d.Event.GetEventAnalytics))

	// Admin
	mux.HandleFunc("GET /admin/organizers", admin(d.Admin.ListOrganizers))
	mux.HandleFunc("POST /admin/organizers/{organizerID}/approve", admin(d.Admin.ApproveOrganizer))
	mux.HandleFunc("POST /admin/organizers/{organizerID}/reject", admin(d.Admin.RejectOrganizer))
	mux.HandleFunc("POST /admin/organizers/{organizerID}/block", admin(d.Admin.BlockOrganizer))
	mux.HandleFunc("GET /admin/users", admin(d.Admin.ListUsers))
	mux.HandleFunc("POST /admin/users/{userID}/block", admin(d.Admin.BlockUser))
	mux.HandleFunc("POST /admin/users/{userID}/unblock", admin(d.Admin.UnblockUser))
	mux.HandleFunc("POST /admin/events/{eventID}/feature", admin(d.Admin.FeatureEvent))
	mux.HandleFunc("POST /admin/events/{eventID}/unfeature", admin(d.Admin.UnfeatureEvent))
	mux.HandleFunc("DELETE /admin/events/{eventID}", admin(d.Admin.RemoveEvent))
	mux.HandleFunc("GET /admin/analytics", admin(d.Admin.GetPlatformAnalytics))
	mux.HandleFunc("GET /admin/audit-logs", admin(d.Admin.ListAuditLogs))

	// Notifications
	mux.HandleFunc("GET /notifications", auth(d.Notifications.ListMyNotifications))
	mux.HandleFunc("POST /notifications/{notificationID}/read", auth(d.Notifications.MarkRead))
	mux.HandleFunc("POST /notifications/read-all", auth(d.Notifications.MarkAllRead))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
