// Package mockapi is an in-process stand-in for the ticketing backend. It
// serves the same endpoint paths the client calls so the client can be
// developed and tested without the real service.
package mockapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sqrts/internal/logging"
)

type Config struct {
	Prefix      string
	JWTSecret   string
	JWTIssuer   string
	AccessTTL   time.Duration
	RefreshTTL  time.Duration
	OTPTTL      time.Duration
	OTPLength   int
	MaxAttempts int
}

func (c Config) withDefaults() Config {
	if c.JWTSecret == "" {
		c.JWTSecret = "dev-secret"
	}
	if c.JWTIssuer == "" {
		c.JWTIssuer = "sqrts-mockapi"
	}
	if c.AccessTTL == 0 {
		c.AccessTTL = 15 * time.Minute
	}
	if c.RefreshTTL == 0 {
		c.RefreshTTL = 7 * 24 * time.Hour
	}
	if c.OTPTTL == 0 {
		c.OTPTTL = 5 * time.Minute
	}
	if c.OTPLength == 0 {
		c.OTPLength = 6
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = 3
	}
	c.Prefix = "/" + strings.Trim(c.Prefix, "/")
	return c
}

// Server holds the stand-in API state.
type Server struct {
	cfg      Config
	users    *UserStore
	tickets  *TicketStore
	feedback *FeedbackStore
	otps     OTPStore
	notifier Notifier
	log      *logging.Logger
	metrics  *metrics
}

// NewServer wires a server. A nil otps uses an in-memory store and a nil
// notifier logs messages instead of sending them.
func NewServer(cfg Config, otps OTPStore, notifier Notifier, log *logging.Logger) *Server {
	if log == nil {
		log = logging.Discard()
	}
	if otps == nil {
		otps = NewMemoryOTPStore()
	}
	if notifier == nil {
		notifier = NewLogNotifier(log)
	}
	return &Server{
		cfg:      cfg.withDefaults(),
		users:    NewUserStore(),
		tickets:  NewTicketStore(),
		feedback: NewFeedbackStore(),
		otps:     otps,
		notifier: notifier,
		log:      log,
		metrics:  newMetrics(),
	}
}

// Users exposes the user store, mainly for seeding.
func (s *Server) Users() *UserStore { return s.users }

// Feedback exposes the received feedback.
func (s *Server) Feedback() *FeedbackStore { return s.feedback }

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.metrics.middleware)
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	api := r.PathPrefix(s.cfg.Prefix).Subrouter()

	api.HandleFunc("/auth/Register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/Authenticate", s.handleAuthenticate).Methods(http.MethodPost)
	api.HandleFunc("/auth/SendOtp", s.handleSendOTP).Methods(http.MethodPost)
	api.HandleFunc("/auth/ValidateOtp", s.handleValidateOTP).Methods(http.MethodPost)
	api.HandleFunc("/auth/RefreshToken", s.handleRefresh).Methods(http.MethodPost)

	api.HandleFunc("/users/ChangePassword", s.handleChangePassword).Methods(http.MethodPost)
	api.HandleFunc("/users/Logout", s.handleLogout).Methods(http.MethodPost)
	api.Handle("/users/GetUsers", s.requireAuth(http.HandlerFunc(s.handleGetUsers))).Methods(http.MethodGet)

	api.HandleFunc("/tickets/ServiceStatus", s.handleServiceStatus).Methods(http.MethodGet)
	api.Handle("/tickets/Tickets", s.requireAuth(http.HandlerFunc(s.handleGetTickets))).Methods(http.MethodGet)
	api.Handle("/tickets/PurchaseTicket", s.requireAuth(http.HandlerFunc(s.handlePurchase))).Methods(http.MethodPost)
	api.Handle("/tickets/Refund", s.requireAuth(http.HandlerFunc(s.handleRefund))).Methods(http.MethodPost)
	api.Handle("/tickets/RefundTickets", s.requireAuth(http.HandlerFunc(s.handleRefund))).Methods(http.MethodPost)

	api.HandleFunc("/fares/GetAllTrainFare", s.handleFares(ModeTrain)).Methods(http.MethodGet)
	api.HandleFunc("/fares/GetAllBusFare", s.handleFares(ModeBus)).Methods(http.MethodGet)
	api.HandleFunc("/fares/GetTrainFare", s.handleFare(ModeTrain)).Methods(http.MethodGet)
	api.HandleFunc("/fares/GetBusFare", s.handleFare(ModeBus)).Methods(http.MethodGet)
	api.HandleFunc("/routes/GetAllTrainRoutes", s.handleRoutes(ModeTrain)).Methods(http.MethodGet)
	api.HandleFunc("/routes/GetAllBusRoutes", s.handleRoutes(ModeBus)).Methods(http.MethodGet)

	api.Handle("/payments/CreatePaymentIntent", s.requireAuth(http.HandlerFunc(s.handlePaymentIntent))).Methods(http.MethodPost)
	api.Handle("/payments/CreatePaymentIntentByNewCard", s.requireAuth(http.HandlerFunc(s.handlePaymentIntent))).Methods(http.MethodPost)
	api.Handle("/payments/CreateSetupIntent", s.requireAuth(http.HandlerFunc(s.handleSetupIntent))).Methods(http.MethodPost)
	api.Handle("/payments/FetchCustomerCards", s.requireAuth(http.HandlerFunc(s.handleFetchCards))).Methods(http.MethodPost, http.MethodGet)
	api.Handle("/payments/DeletePaymentMethod", s.requireAuth(http.HandlerFunc(s.handleAck))).Methods(http.MethodPost)
	api.Handle("/payments/Refund", s.requireAuth(http.HandlerFunc(s.handleAck))).Methods(http.MethodPost)
	api.HandleFunc("/payments/webhook", s.handleAck).Methods(http.MethodPost)

	api.HandleFunc("/message/send", s.handleSendMessage).Methods(http.MethodPost)
	api.HandleFunc("/general/Feedback", s.handleFeedback).Methods(http.MethodPost)

	return r
}

// responseMsg is the body shape the backend uses for plain outcomes.
type responseMsg struct {
	ResponseMsg string `json:"ResponseMsg"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// statusFor maps store and token errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrTicketNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUserExists):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrTokenInvalid):
		return http.StatusUnauthorized
	case errors.Is(err, ErrOTPInvalid), errors.Is(err, ErrOTPNotFound), errors.Is(err, ErrOTPMaxAttempts), errors.Is(err, ErrTicketRefunded):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	return dec.Decode(v)
}
