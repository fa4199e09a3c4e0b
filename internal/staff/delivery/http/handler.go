package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/veloretail/backoffice/internal/staff/domain"
	"github.com/veloretail/backoffice/internal/staff/usecase/command"
	"github.com/veloretail/backoffice/internal/staff/usecase/query"
	"github.com/veloretail/backoffice/pkg/logger"
)

// StaffHandler exposes staff session and profile management endpoints.
type StaffHandler struct {
	loginHandler  *command.LoginStaffHandler
	createHandler *command.CreateStaffHandler
	listHandler   *query.ListStaffHandler
	middleware    *AuthMiddleware

	requestCounter  *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

func NewStaffHandler(
	loginHandler *command.LoginStaffHandler,
	createHandler *command.CreateStaffHandler,
	listHandler *query.ListStaffHandler,
	middleware *AuthMiddleware,
) *StaffHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "staff_requests_total",
			Help: "Total number of staff endpoint requests",
		},
		[]string{"method", "endpoint", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "staff_request_duration_seconds",
			Help:    "Duration of staff endpoint requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
	prometheus.MustRegister(requestCounter, requestDuration)

	return &StaffHandler{
		loginHandler:    loginHandler,
		createHandler:   createHandler,
		listHandler:     listHandler,
		middleware:      middleware,
		requestCounter:  requestCounter,
		requestDuration: requestDuration,
	}
}

func (h *StaffHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/staff/login", h.middleware.Authenticate(h.Login)).Methods("POST")
	router.HandleFunc("/api/staff", h.middleware.Authenticate(h.Create)).Methods("POST")
	router.HandleFunc("/api/staff", h.middleware.Authenticate(h.List)).Methods("GET")
	router.HandleFunc("/api/staff/context", h.middleware.Authenticate(h.Context)).Methods("GET")
}

type loginRequest struct {
	StaffProfileID string `json:"staff_profile_id"`
	PIN            string `json:"pin"`
}

// Login exchanges a staff profile id and PIN for a staff session token.
func (h *StaffHandler) Login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		h.requestDuration.WithLabelValues("POST", "/api/staff/login").Observe(time.Since(start).Seconds())
	}()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.requestCounter.WithLabelValues("POST", "/api/staff/login", "400").Inc()
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.loginHandler.Handle(r.Context(), command.LoginStaffCommand{
		StaffProfileID: req.StaffProfileID,
		PIN:            req.PIN,
		OutletID:       OutletFromContext(r.Context()),
	})
	if err != nil {
		var authErr *domain.AuthError
		if errors.As(err, &authErr) {
			h.requestCounter.WithLabelValues("POST", "/api/staff/login", "401").Inc()
			logger.Warn(r.Context()).Err(err).Str("staff_profile_id", req.StaffProfileID).Msg("Staff login rejected")
			respondError(w, authErr.Status, authErr.Message)
			return
		}
		h.requestCounter.WithLabelValues("POST", "/api/staff/login", "400").Inc()
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.requestCounter.WithLabelValues("POST", "/api/staff/login", "200").Inc()
	respondJSON(w, http.StatusOK, result)
}

type createStaffRequest struct {
	Name        string   `json:"name"`
	Role        string   `json:"role"`
	PIN         string   `json:"pin"`
	Permissions []string `json:"permissions"`
}

// Create provisions a staff profile for the request outlet.
func (h *StaffHandler) Create(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		h.requestDuration.WithLabelValues("POST", "/api/staff").Observe(time.Since(start).Seconds())
	}()

	var req createStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.requestCounter.WithLabelValues("POST", "/api/staff", "400").Inc()
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, ok := AccountFromContext(r.Context())
	if !ok {
		h.requestCounter.WithLabelValues("POST", "/api/staff", "401").Inc()
		respondError(w, http.StatusUnauthorized, "missing account identity")
		return
	}

	profile, err := h.createHandler.Handle(r.Context(), command.CreateStaffCommand{
		OutletID:        OutletFromContext(r.Context()),
		ParentAccountID: account.ID,
		Name:            req.Name,
		Role:            req.Role,
		PIN:             req.PIN,
		Permissions:     req.Permissions,
	})
	if err != nil {
		h.requestCounter.WithLabelValues("POST", "/api/staff", "400").Inc()
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.requestCounter.WithLabelValues("POST", "/api/staff", "201").Inc()
	respondJSON(w, http.StatusCreated, profile)
}

// List returns the staff profiles of the request outlet.
func (h *StaffHandler) List(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		h.requestDuration.WithLabelValues("GET", "/api/staff").Observe(time.Since(start).Seconds())
	}()

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	profiles, err := h.listHandler.Handle(r.Context(), query.ListStaffQuery{
		OutletID: OutletFromContext(r.Context()),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		h.requestCounter.WithLabelValues("GET", "/api/staff", "400").Inc()
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if profiles == nil {
		profiles = []domain.StaffProfile{}
	}

	h.requestCounter.WithLabelValues("GET", "/api/staff", "200").Inc()
	respondJSON(w, http.StatusOK, profiles)
}

// Context reports the authorization context resolved for the request,
// useful for clients deciding which actions to surface.
func (h *StaffHandler) Context(w http.ResponseWriter, r *http.Request) {
	auth, ok := domain.AuthorizationFromContext(r.Context())
	if !ok {
		h.requestCounter.WithLabelValues("GET", "/api/staff/context", "401").Inc()
		respondError(w, http.StatusUnauthorized, "missing authorization context")
		return
	}
	h.requestCounter.WithLabelValues("GET", "/api/staff/context", "200").Inc()
	respondJSON(w, http.StatusOK, auth)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
