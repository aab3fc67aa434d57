package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/eco-catalog/internal/user/usecase/command"
	"github.com/tair/eco-catalog/internal/user/usecase/query"
	"github.com/tair/eco-catalog/pkg/apperror"
	"github.com/tair/eco-catalog/pkg/logger"
	"github.com/tair/eco-catalog/pkg/middleware"
	"github.com/tair/eco-catalog/pkg/respond"
)

// UserHandler handles HTTP requests for accounts using CQRS pattern
type UserHandler struct {
	registerHandler *command.RegisterUserHandler
	loginHandler    *command.LoginUserHandler
	getUserHandler  *query.GetUserHandler

	auth          *middleware.Authenticator
	metrics       *middleware.HTTPMetrics
	registrations prometheus.Counter
	logins        *prometheus.CounterVec
}

// NewUserHandler creates a new user handler. Business counters are registered on reg.
func NewUserHandler(
	registerHandler *command.RegisterUserHandler,
	loginHandler *command.LoginUserHandler,
	getUserHandler *query.GetUserHandler,
	auth *middleware.Authenticator,
	metrics *middleware.HTTPMetrics,
	reg prometheus.Registerer,
) *UserHandler {
	registrations := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "user_service_registrations_total",
		Help: "Total number of successful signups",
	})
	logins := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "user_service_logins_total",
		Help: "Total number of login attempts by outcome",
	}, []string{"outcome"})
	reg.MustRegister(registrations, logins)

	return &UserHandler{
		registerHandler: registerHandler,
		loginHandler:    loginHandler,
		getUserHandler:  getUserHandler,
		auth:            auth,
		metrics:         metrics,
		registrations:   registrations,
		logins:          logins,
	}
}

// RegisterRoutes mounts the account endpoints
func (h *UserHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/auth/signup", h.metrics.Wrap("/auth/signup", h.Signup)).Methods(http.MethodPost)
	router.HandleFunc("/auth/login", h.metrics.Wrap("/auth/login", h.Login)).Methods(http.MethodPost)
	router.HandleFunc("/users/me", h.metrics.Wrap("/users/me", h.auth.Require(h.GetProfile))).Methods(http.MethodGet)
}

// Signup handles POST /auth/signup
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req command.RegisterUserCommand
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, apperror.InvalidArgument("body", "Invalid request body"))
		return
	}

	user, err := h.registerHandler.Handle(r.Context(), req)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	h.registrations.Inc()
	logger.Info(r.Context()).Uint("user_id", user.ID).Msg("User registered")

	respond.Created(w, "User registered successfully", map[string]interface{}{
		"user": user,
	})
}

// Login handles POST /auth/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req command.LoginUserCommand
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, apperror.InvalidArgument("body", "Invalid request body"))
		return
	}

	resp, err := h.loginHandler.Handle(r.Context(), req)
	if err != nil {
		h.logins.WithLabelValues(string(apperror.CodeOf(err))).Inc()
		respond.Error(w, r, err)
		return
	}

	h.logins.WithLabelValues("success").Inc()
	respond.JSON(w, http.StatusOK, respond.Response{
		Success: true,
		Message: "Login successful",
		Data:    resp,
	})
}

// GetProfile handles GET /users/me
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respond.Error(w, r, apperror.Unauthorized("Authentication required"))
		return
	}

	user, err := h.getUserHandler.Handle(r.Context(), query.GetUserQuery{ID: userID})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.OK(w, map[string]interface{}{"user": user})
}
