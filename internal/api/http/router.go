package http

import (
	"database/sql"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gearshare-backend/internal/security"
	"gearshare-backend/internal/service"
)

// RouterDeps carries everything the router needs.
type RouterDeps struct {
	DB           *sql.DB
	TokenManager security.TokenManager
	AuthSvc      service.AuthService
	ListingSvc   service.ListingService
	BookingSvc   service.BookingService
	PaymentSvc   service.PaymentService
	NoteSvc      service.NotificationService
}

// NewRouter builds the full HTTP route table.
func NewRouter(deps RouterDeps) *mux.Router {
	r := mux.NewRouter()
	r.Use(ObservabilityMiddleware)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if deps.DB != nil {
			if err := deps.DB.PingContext(req.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	authHandler := NewAuthHandler(deps.AuthSvc)
	listingHandler := NewListingHandler(deps.ListingSvc)
	bookingHandler := NewBookingHandler(deps.BookingSvc, deps.PaymentSvc)
	noteHandler := NewNotificationHandler(deps.NoteSvc)

	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/auth/signup", authHandler.Signup).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/listings", listingHandler.Search).Methods(http.MethodGet)
	api.HandleFunc("/listings/{id:[0-9]+}", listingHandler.Get).Methods(http.MethodGet)

	// Authenticated routes
	authed := api.PathPrefix("").Subrouter()
	authed.Use(AuthMiddleware(deps.TokenManager))
	authed.HandleFunc("/bookings", bookingHandler.Create).Methods(http.MethodPost)
	authed.HandleFunc("/bookings", bookingHandler.List).Methods(http.MethodGet)
	authed.HandleFunc("/bookings/{id:[0-9]+}", bookingHandler.Get).Methods(http.MethodGet)
	authed.HandleFunc("/bookings/{id:[0-9]+}", bookingHandler.Update).Methods(http.MethodPatch)
	authed.HandleFunc("/bookings/{id:[0-9]+}/refunds", bookingHandler.CreateRefund).Methods(http.MethodPost)
	authed.HandleFunc("/bookings/{id:[0-9]+}/refunds", bookingHandler.ListRefunds).Methods(http.MethodGet)
	authed.HandleFunc("/notifications", noteHandler.List).Methods(http.MethodGet)
	authed.HandleFunc("/notifications/{id:[0-9]+}/read", noteHandler.MarkAsRead).Methods(http.MethodPost)

	return r
}
