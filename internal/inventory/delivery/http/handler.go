package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/veloretail/backoffice/internal/inventory/domain"
	"github.com/veloretail/backoffice/internal/inventory/usecase/command"
	"github.com/veloretail/backoffice/internal/inventory/usecase/query"
	staffhttp "github.com/veloretail/backoffice/internal/staff/delivery/http"
	staffdomain "github.com/veloretail/backoffice/internal/staff/domain"
	"github.com/veloretail/backoffice/kafka"
	"github.com/veloretail/backoffice/pkg/logger"
)

const publishTimeout = 5 * time.Second

// InventoryHandler exposes the stock ledger endpoints: invoice receiving,
// manual adjustments, stocktake commits and movement history.
type InventoryHandler struct {
	receiveHandler   *command.ReceiveInvoiceHandler
	adjustHandler    *command.RecordAdjustmentHandler
	stocktakeHandler *command.CommitStocktakeHandler
	receivedHandler  *query.ReceivedQuantitiesHandler
	movementsHandler *query.ListMovementsHandler
	middleware       *staffhttp.AuthMiddleware
	publisher        *kafka.Publisher

	requestCounter  *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	movementCounter *prometheus.CounterVec
}

func NewInventoryHandler(
	receiveHandler *command.ReceiveInvoiceHandler,
	adjustHandler *command.RecordAdjustmentHandler,
	stocktakeHandler *command.CommitStocktakeHandler,
	receivedHandler *query.ReceivedQuantitiesHandler,
	movementsHandler *query.ListMovementsHandler,
	middleware *staffhttp.AuthMiddleware,
	publisher *kafka.Publisher,
) *InventoryHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_requests_total",
			Help: "Total number of inventory endpoint requests",
		},
		[]string{"method", "endpoint", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "inventory_request_duration_seconds",
			Help:    "Duration of inventory endpoint requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
	movementCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_movements_recorded_total",
			Help: "Stock movements appended to the ledger",
		},
		[]string{"type"},
	)
	prometheus.MustRegister(requestCounter, requestDuration, movementCounter)

	return &InventoryHandler{
		receiveHandler:   receiveHandler,
		adjustHandler:    adjustHandler,
		stocktakeHandler: stocktakeHandler,
		receivedHandler:  receivedHandler,
		movementsHandler: movementsHandler,
		middleware:       middleware,
		publisher:        publisher,
		requestCounter:   requestCounter,
		requestDuration:  requestDuration,
		movementCounter:  movementCounter,
	}
}

func (h *InventoryHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/invoices/{id}/receive",
		h.middleware.RequireCapability(staffdomain.CapabilityInventoryEdit, h.ReceiveInvoice)).Methods("POST")
	router.HandleFunc("/api/invoices/{id}/received",
		h.middleware.Authenticate(h.ReceivedQuantities)).Methods("GET")
	router.HandleFunc("/api/inventory/adjustments",
		h.middleware.RequireCapability(staffdomain.CapabilityInventoryEdit, h.RecordAdjustment)).Methods("POST")
	router.HandleFunc("/api/inventory/stocktakes",
		h.middleware.RequireCapability(staffdomain.CapabilityStocktakeEdit, h.CommitStocktake)).Methods("POST")
	router.HandleFunc("/api/inventory/movements",
		h.middleware.Authenticate(h.ListMovements)).Methods("GET")
}

type receiveInvoiceRequest struct {
	StaffName string `json:"staff_name"`
	Items     []struct {
		LineID   string `json:"line_id"`
		Quantity int64  `json:"quantity"`
	} `json:"items"`
}

// ReceiveInvoice applies a partial receive batch against a vendor invoice.
func (h *InventoryHandler) ReceiveInvoice(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		h.requestDuration.WithLabelValues("POST", "/api/invoices/receive").Observe(time.Since(start).Seconds())
	}()

	var req receiveInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.requestCounter.WithLabelValues("POST", "/api/invoices/receive", "400").Inc()
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cmd := command.ReceiveInvoiceCommand{
		OutletID:  staffhttp.OutletFromContext(r.Context()),
		InvoiceID: mux.Vars(r)["id"],
		StaffName: req.StaffName,
	}
	for _, item := range req.Items {
		cmd.Items = append(cmd.Items, command.ReceiveItem{LineID: item.LineID, Quantity: item.Quantity})
	}

	result, err := h.receiveHandler.Handle(r.Context(), cmd)
	if err != nil {
		h.requestCounter.WithLabelValues("POST", "/api/invoices/receive", "400").Inc()
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	for _, line := range result.Accepted {
		if line.Accepted > 0 {
			h.movementCounter.WithLabelValues(string(domain.MovementReceive)).Inc()
		}
	}
	h.publishMovements(r.Context(), cmd.OutletID, string(domain.MovementReceive), domain.ReferenceInvoice, cmd.InvoiceID, nil)

	h.requestCounter.WithLabelValues("POST", "/api/invoices/receive", "200").Inc()
	respondJSON(w, http.StatusOK, result)
}

// ReceivedQuantities reports per-line received quantities for an invoice.
func (h *InventoryHandler) ReceivedQuantities(w http.ResponseWriter, r *http.Request) {
	result, err := h.receivedHandler.Handle(r.Context(), query.ReceivedQuantitiesQuery{
		OutletID:  staffhttp.OutletFromContext(r.Context()),
		InvoiceID: mux.Vars(r)["id"],
	})
	if err != nil {
		h.requestCounter.WithLabelValues("GET", "/api/invoices/received", "400").Inc()
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.requestCounter.WithLabelValues("GET", "/api/invoices/received", "200").Inc()
	respondJSON(w, http.StatusOK, result)
}

type adjustmentRequest struct {
	ProductID string `json:"product_id"`
	Delta     int64  `json:"delta"`
	Reason    string `json:"reason"`
}

// RecordAdjustment appends a manual adjustment movement.
func (h *InventoryHandler) RecordAdjustment(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		h.requestDuration.WithLabelValues("POST", "/api/inventory/adjustments").Observe(time.Since(start).Seconds())
	}()

	var req adjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.requestCounter.WithLabelValues("POST", "/api/inventory/adjustments", "400").Inc()
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	outletID := staffhttp.OutletFromContext(r.Context())
	movement, err := h.adjustHandler.Handle(r.Context(), command.RecordAdjustmentCommand{
		OutletID:  outletID,
		ProductID: req.ProductID,
		Delta:     req.Delta,
		Reason:    req.Reason,
	})
	if err != nil {
		h.requestCounter.WithLabelValues("POST", "/api/inventory/adjustments", "400").Inc()
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.movementCounter.WithLabelValues(string(domain.MovementAdjustment)).Inc()
	h.publishMovements(r.Context(), outletID, string(domain.MovementAdjustment), domain.ReferenceManual, movement.ID, []string{movement.ID})

	h.requestCounter.WithLabelValues("POST", "/api/inventory/adjustments", "201").Inc()
	respondJSON(w, http.StatusCreated, movement)
}

type stocktakeRequest struct {
	Notes  string `json:"notes"`
	Counts []struct {
		ProductID  string `json:"product_id"`
		CountedQty int64  `json:"counted_qty"`
	} `json:"counts"`
}

// CommitStocktake applies counted quantities as a compensated batch.
func (h *InventoryHandler) CommitStocktake(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		h.requestDuration.WithLabelValues("POST", "/api/inventory/stocktakes").Observe(time.Since(start).Seconds())
	}()

	var req stocktakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.requestCounter.WithLabelValues("POST", "/api/inventory/stocktakes", "400").Inc()
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cmd := command.CommitStocktakeCommand{
		OutletID: staffhttp.OutletFromContext(r.Context()),
		Notes:    req.Notes,
	}
	for _, c := range req.Counts {
		cmd.Counts = append(cmd.Counts, domain.StocktakeCount{ProductID: c.ProductID, CountedQty: c.CountedQty})
	}

	result, err := h.stocktakeHandler.Handle(r.Context(), cmd)
	if err != nil {
		h.requestCounter.WithLabelValues("POST", "/api/inventory/stocktakes", "409").Inc()
		logger.Warn(r.Context()).Err(err).Str("outlet_id", cmd.OutletID).Msg("Stocktake commit failed")
		respondError(w, http.StatusConflict, err.Error())
		return
	}

	for range result.Adjustments {
		h.movementCounter.WithLabelValues(string(domain.MovementStocktake)).Inc()
	}
	h.publishMovements(r.Context(), cmd.OutletID, string(domain.MovementStocktake), domain.ReferenceStocktake, result.SessionID, nil)

	h.requestCounter.WithLabelValues("POST", "/api/inventory/stocktakes", "200").Inc()
	respondJSON(w, http.StatusOK, result)
}

// ListMovements returns filtered movement history, newest first.
func (h *InventoryHandler) ListMovements(w http.ResponseWriter, r *http.Request) {
	q := query.ListMovementsQuery{
		OutletID:      staffhttp.OutletFromContext(r.Context()),
		ProductID:     r.URL.Query().Get("product_id"),
		Type:          r.URL.Query().Get("type"),
		ReferenceType: r.URL.Query().Get("reference_type"),
		ReferenceID:   r.URL.Query().Get("reference_id"),
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil {
			q.Limit = limit
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if offset, err := strconv.Atoi(v); err == nil {
			q.Offset = offset
		}
	}

	movements, err := h.movementsHandler.Handle(r.Context(), q)
	if err != nil {
		h.requestCounter.WithLabelValues("GET", "/api/inventory/movements", "400").Inc()
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.requestCounter.WithLabelValues("GET", "/api/inventory/movements", "200").Inc()
	respondJSON(w, http.StatusOK, map[string]interface{}{"movements": movements, "count": len(movements)})
}

// publishMovements emits the ledger event without blocking the response.
// Publish failures are logged only, the write already succeeded.
func (h *InventoryHandler) publishMovements(ctx context.Context, outletID, movementType, reference, referenceID string, movementIDs []string) {
	if h.publisher == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
		defer cancel()
		err := h.publisher.PublishMovementRecorded(ctx, kafka.MovementRecordedEvent{
			OutletID:     outletID,
			MovementType: movementType,
			Reference:    reference,
			ReferenceID:  referenceID,
			MovementIDs:  movementIDs,
		})
		if err != nil {
			logger.Error(ctx).Err(err).
				Str("outlet_id", outletID).
				Str("movement_type", movementType).
				Msg("Failed to publish movement event")
		}
	}()
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
