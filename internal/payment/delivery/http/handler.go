package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/veloretail/backoffice/internal/payment/domain"
	"github.com/veloretail/backoffice/internal/payment/usecase/command"
	"github.com/veloretail/backoffice/internal/payment/usecase/query"
	staffhttp "github.com/veloretail/backoffice/internal/staff/delivery/http"
	"github.com/veloretail/backoffice/kafka"
	"github.com/veloretail/backoffice/pkg/logger"
)

const publishTimeout = 5 * time.Second

// PaymentHandler exposes transaction settlement and per-method totals.
type PaymentHandler struct {
	settleHandler *command.SettleTransactionHandler
	totalsHandler *query.MethodTotalsHandler
	middleware    *staffhttp.AuthMiddleware
	publisher     *kafka.Publisher

	requestCounter   *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	unreconciledGaps prometheus.Counter
}

func NewPaymentHandler(
	settleHandler *command.SettleTransactionHandler,
	totalsHandler *query.MethodTotalsHandler,
	middleware *staffhttp.AuthMiddleware,
	publisher *kafka.Publisher,
) *PaymentHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_requests_total",
			Help: "Total number of payment endpoint requests",
		},
		[]string{"method", "endpoint", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "payment_request_duration_seconds",
			Help:    "Duration of payment endpoint requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
	unreconciledGaps := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "payment_unreconciled_settlements_total",
			Help: "Settlements whose splits did not sum to the transaction total",
		},
	)
	prometheus.MustRegister(requestCounter, requestDuration, unreconciledGaps)

	return &PaymentHandler{
		settleHandler:    settleHandler,
		totalsHandler:    totalsHandler,
		middleware:       middleware,
		publisher:        publisher,
		requestCounter:   requestCounter,
		requestDuration:  requestDuration,
		unreconciledGaps: unreconciledGaps,
	}
}

func (h *PaymentHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/transactions/settle", h.middleware.Authenticate(h.Settle)).Methods("POST")
	router.HandleFunc("/api/payments/totals", h.middleware.Authenticate(h.MethodTotals)).Methods("GET")
}

type settleRequest struct {
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentMethod string          `json:"payment_method"`
	Splits        []struct {
		Method    string          `json:"method"`
		Amount    decimal.Decimal `json:"amount"`
		Reference string          `json:"reference"`
	} `json:"splits"`
}

// Settle allocates a sale total across its payment splits and persists the
// settlement.
func (h *PaymentHandler) Settle(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		h.requestDuration.WithLabelValues("POST", "/api/transactions/settle").Observe(time.Since(start).Seconds())
	}()

	var req settleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.requestCounter.WithLabelValues("POST", "/api/transactions/settle", "400").Inc()
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cmd := command.SettleTransactionCommand{
		OutletID:      staffhttp.OutletFromContext(r.Context()),
		TotalAmount:   req.TotalAmount,
		PaymentMethod: req.PaymentMethod,
	}
	for _, s := range req.Splits {
		cmd.Splits = append(cmd.Splits, domain.PaymentSplit{
			Method:    s.Method,
			Amount:    s.Amount,
			Reference: s.Reference,
		})
	}

	result, err := h.settleHandler.Handle(r.Context(), cmd)
	if err != nil {
		h.requestCounter.WithLabelValues("POST", "/api/transactions/settle", "400").Inc()
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !result.Allocation.Reconciled {
		h.unreconciledGaps.Inc()
		logger.Warn(r.Context()).
			Str("transaction_id", result.Transaction.ID).
			Str("remainder", result.Allocation.Remainder.String()).
			Msg("Settlement splits did not reconcile against total")
	}
	h.publishSettled(r.Context(), result)

	h.requestCounter.WithLabelValues("POST", "/api/transactions/settle", "201").Inc()
	respondJSON(w, http.StatusCreated, result)
}

// MethodTotals sums settled splits per payment method for a period.
func (h *PaymentHandler) MethodTotals(w http.ResponseWriter, r *http.Request) {
	from, err := time.Parse(time.RFC3339, r.URL.Query().Get("from"))
	if err != nil {
		h.requestCounter.WithLabelValues("GET", "/api/payments/totals", "400").Inc()
		respondError(w, http.StatusBadRequest, "invalid from timestamp, expected RFC3339")
		return
	}
	to, err := time.Parse(time.RFC3339, r.URL.Query().Get("to"))
	if err != nil {
		h.requestCounter.WithLabelValues("GET", "/api/payments/totals", "400").Inc()
		respondError(w, http.StatusBadRequest, "invalid to timestamp, expected RFC3339")
		return
	}

	totals, err := h.totalsHandler.Handle(r.Context(), query.MethodTotalsQuery{
		OutletID: staffhttp.OutletFromContext(r.Context()),
		From:     from,
		To:       to,
	})
	if err != nil {
		h.requestCounter.WithLabelValues("GET", "/api/payments/totals", "400").Inc()
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.requestCounter.WithLabelValues("GET", "/api/payments/totals", "200").Inc()
	respondJSON(w, http.StatusOK, map[string]interface{}{"totals": totals})
}

// publishSettled emits the settlement event without blocking the response.
func (h *PaymentHandler) publishSettled(ctx context.Context, result *command.SettleTransactionResult) {
	if h.publisher == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
		defer cancel()
		amounts := make(map[string]string, len(result.Allocation.Amounts))
		for method, amount := range result.Allocation.Amounts {
			amounts[method] = amount.String()
		}
		err := h.publisher.PublishTransactionSettled(ctx, kafka.TransactionSettledEvent{
			OutletID:      result.Transaction.OutletID,
			TransactionID: result.Transaction.ID,
			Total:         result.Transaction.TotalAmount.String(),
			Reconciled:    result.Allocation.Reconciled,
			Amounts:       amounts,
		})
		if err != nil {
			logger.Error(ctx).Err(err).
				Str("transaction_id", result.Transaction.ID).
				Msg("Failed to publish settlement event")
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
