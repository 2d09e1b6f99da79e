package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"staybook-backend/internal/metrics"
	"staybook-backend/internal/security"
	"staybook-backend/internal/service"
)

// Services bundles the service layer the HTTP API exposes.
type Services struct {
	Reservations  service.ReservationService
	Suggestions   service.SuggestionService
	Listings      service.ListingService
	Calendar      service.CalendarService
	Notifications service.NotificationService
}

// NewRouter registers every API route. Route names double as the keys of
// config.EndpointSecurityConfig. limiter may be nil to disable rate limiting.
func NewRouter(svcs Services, tm security.TokenManager, limiter *RateLimiter) *mux.Router {
	router := mux.NewRouter()
	router.Use(RequestIDMiddleware)
	router.Use(MetricsMiddleware(metrics.Reservation()))
	if limiter != nil {
		router.Use(limiter.Middleware)
	}
	router.Use(NewAuthMiddleware(tm).Handler)

	router.HandleFunc("/health", handleHealth).Methods(http.MethodGet).Name("Health")
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet).Name("Metrics")

	api := router.PathPrefix("/api/v1").Subrouter()

	rh := NewReservationHandler(svcs.Reservations)
	api.HandleFunc("/reservations", rh.Create).Methods(http.MethodPost).Name("CreateReservation")
	api.HandleFunc("/reservations", rh.List).Methods(http.MethodGet).Name("ListReservations")
	api.HandleFunc("/reservations/{id}", rh.Get).Methods(http.MethodGet).Name("GetReservation")
	api.HandleFunc("/reservations/{id}/accept", rh.Accept).Methods(http.MethodPost).Name("AcceptReservation")
	api.HandleFunc("/reservations/{id}/reject", rh.Reject).Methods(http.MethodPost).Name("RejectReservation")
	api.HandleFunc("/reservations/{id}/payment", rh.ConfirmPayment).Methods(http.MethodPost).Name("ConfirmPayment")
	api.HandleFunc("/reservations/{id}/cancel", rh.Cancel).Methods(http.MethodPost).Name("CancelReservation")
	api.HandleFunc("/listings/{id}/quote", rh.Quote).Methods(http.MethodGet).Name("Quote")

	sh := NewSuggestionHandler(svcs.Suggestions)
	api.HandleFunc("/reservations/{id}/suggestions", sh.Open).Methods(http.MethodPost).Name("OpenSuggestion")
	api.HandleFunc("/suggestions/{requestId}", sh.Get).Methods(http.MethodGet).Name("GetSuggestion")
	api.HandleFunc("/suggestions/{requestId}/candidates", sh.Candidates).Methods(http.MethodGet).Name("ListCandidates")
	api.HandleFunc("/suggestions/{requestId}/suggest", sh.Suggest).Methods(http.MethodPost).Name("SuggestProperty")
	api.HandleFunc("/suggestions/{requestId}/notify", sh.Notify).Methods(http.MethodPost).Name("NotifyOperators")
	api.HandleFunc("/operators", sh.Operators).Methods(http.MethodGet).Name("ListOperators")

	lh := NewListingHandler(svcs.Listings, svcs.Calendar)
	api.HandleFunc("/listings", lh.Create).Methods(http.MethodPost).Name("CreateListing")
	api.HandleFunc("/listings", lh.ListMine).Methods(http.MethodGet).Name("ListMyListings")
	api.HandleFunc("/listings/{id}", lh.Get).Methods(http.MethodGet).Name("GetListing")
	api.HandleFunc("/listings/{id}/pricing", lh.UpdatePricing).Methods(http.MethodPut).Name("UpdateListingPricing")
	api.HandleFunc("/listings/{id}/amenities", lh.ToggleAmenity).Methods(http.MethodPost).Name("ToggleAmenity")
	api.HandleFunc("/calendar", lh.Calendar).Methods(http.MethodGet).Name("Calendar")

	nh := NewNotificationHandler(svcs.Notifications)
	api.HandleFunc("/notifications", nh.List).Methods(http.MethodGet).Name("ListNotifications")
	api.HandleFunc("/notifications/{id}/read", nh.MarkAsRead).Methods(http.MethodPost).Name("MarkNotification")

	return router
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
