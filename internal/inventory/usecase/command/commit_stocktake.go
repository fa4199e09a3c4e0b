package command

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	catalogdomain "github.com/veloretail/backoffice/internal/catalog/domain"
	"github.com/veloretail/backoffice/internal/inventory/domain"
	"github.com/veloretail/backoffice/pkg/logger"
)

// CommitStocktakeCommand applies a full inventory count.
type CommitStocktakeCommand struct {
	OutletID string
	Notes    string
	Counts   []domain.StocktakeCount
}

// StocktakeAdjustment reports one product's correction.
type StocktakeAdjustment struct {
	ProductID   string `json:"product_id"`
	PreviousQty int64  `json:"previous_qty"`
	CountedQty  int64  `json:"counted_qty"`
	Delta       int64  `json:"delta"`
}

// CommitStocktakeResult is the committed session and its adjustments.
type CommitStocktakeResult struct {
	SessionID   string                `json:"session_id"`
	Status      string                `json:"status"`
	Adjustments []StocktakeAdjustment `json:"adjustments"`
}

// CommitStocktakeHandler runs the stocktake state machine:
// pending -> applying -> committed | rolled_back.
//
// The backing store offers no multi-row transaction, so atomicity is
// simulated by manual compensation: any step failure triggers deletion of
// the movements created this session and restoration of every touched
// product to its snapshot value, in reverse order. Rollback is best-effort
// per item; its failures are logged, never raised, and the caller sees the
// original commit failure. A process crash mid-commit can still leave
// partial state.
type CommitStocktakeHandler struct {
	sessions  domain.SessionRepository
	movements domain.MovementRepository
	products  catalogdomain.ProductRepository
	now       func() time.Time
}

func NewCommitStocktakeHandler(sessions domain.SessionRepository, movements domain.MovementRepository, products catalogdomain.ProductRepository) *CommitStocktakeHandler {
	return &CommitStocktakeHandler{sessions: sessions, movements: movements, products: products, now: time.Now}
}

// Handle executes the stocktake commit.
func (h *CommitStocktakeHandler) Handle(ctx context.Context, cmd CommitStocktakeCommand) (*CommitStocktakeResult, error) {
	if cmd.OutletID == "" {
		return nil, fmt.Errorf("outlet_id is required")
	}
	if len(cmd.Counts) == 0 {
		return nil, fmt.Errorf("at least one counted product is required")
	}
	for _, c := range cmd.Counts {
		if c.ProductID == "" {
			return nil, fmt.Errorf("counted product without product_id")
		}
		if c.CountedQty < 0 {
			return nil, fmt.Errorf("negative count for product %s", c.ProductID)
		}
	}

	productIDs := make([]string, len(cmd.Counts))
	for i, c := range cmd.Counts {
		productIDs[i] = c.ProductID
	}
	products, err := h.products.FindByIDs(ctx, cmd.OutletID, productIDs)
	if err != nil {
		return nil, err
	}
	for _, c := range cmd.Counts {
		if _, ok := products[c.ProductID]; !ok {
			return nil, fmt.Errorf("product %s not found in outlet %s", c.ProductID, cmd.OutletID)
		}
	}

	now := h.now().UTC()
	session := &domain.StocktakeSession{
		ID:        uuid.NewString(),
		OutletID:  cmd.OutletID,
		Status:    domain.StocktakePending,
		Notes:     cmd.Notes,
		Counts:    cmd.Counts,
		CreatedAt: now,
	}
	for _, c := range cmd.Counts {
		session.Snapshot = append(session.Snapshot, domain.ProductSnapshot{
			ProductID:   c.ProductID,
			PreviousQty: products[c.ProductID].QuantityOnHand,
		})
	}
	if err := h.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	if err := h.sessions.UpdateStatus(ctx, session.ID, domain.StocktakeApplying); err != nil {
		return nil, err
	}

	var adjustments []StocktakeAdjustment
	var applied []domain.ProductSnapshot
	var movementIDs []string

	commitErr := func() error {
		for _, c := range cmd.Counts {
			live := products[c.ProductID].QuantityOnHand
			delta := c.CountedQty - live
			if delta == 0 {
				continue
			}

			movement := domain.StockMovement{
				ID:             uuid.NewString(),
				OutletID:       cmd.OutletID,
				ProductID:      c.ProductID,
				Type:           domain.MovementStocktake,
				QuantityChange: delta,
				ReferenceType:  domain.ReferenceStocktake,
				ReferenceID:    session.ID,
				Notes:          domain.UpsertMarker("", "Counted", fmt.Sprintf("%d", c.CountedQty)),
				CreatedAt:      h.now().UTC(),
			}
			if err := h.movements.Append(ctx, []domain.StockMovement{movement}); err != nil {
				return fmt.Errorf("failed to record stocktake movement for product %s: %w", c.ProductID, err)
			}
			movementIDs = append(movementIDs, movement.ID)

			if err := h.products.UpdateQuantity(ctx, cmd.OutletID, c.ProductID, c.CountedQty); err != nil {
				return fmt.Errorf("failed to apply count for product %s: %w", c.ProductID, err)
			}
			applied = append(applied, domain.ProductSnapshot{ProductID: c.ProductID, PreviousQty: live})
			adjustments = append(adjustments, StocktakeAdjustment{
				ProductID:   c.ProductID,
				PreviousQty: live,
				CountedQty:  c.CountedQty,
				Delta:       delta,
			})
		}
		return nil
	}()

	if commitErr != nil {
		h.rollback(ctx, session.ID, cmd.OutletID, movementIDs, applied)
		if err := h.sessions.UpdateStatus(ctx, session.ID, domain.StocktakeRolledBack); err != nil {
			logger.Error(ctx).Err(err).Str("session_id", session.ID).
				Msg("Failed to mark stocktake session rolled back")
		}
		return nil, commitErr
	}

	if err := h.sessions.UpdateStatus(ctx, session.ID, domain.StocktakeCommitted); err != nil {
		h.rollback(ctx, session.ID, cmd.OutletID, movementIDs, applied)
		if uerr := h.sessions.UpdateStatus(ctx, session.ID, domain.StocktakeRolledBack); uerr != nil {
			logger.Error(ctx).Err(uerr).Str("session_id", session.ID).
				Msg("Failed to mark stocktake session rolled back")
		}
		return nil, err
	}

	return &CommitStocktakeResult{
		SessionID:   session.ID,
		Status:      domain.StocktakeCommitted,
		Adjustments: adjustments,
	}, nil
}

// rollback compensates a partially applied session: delete this session's
// movements, then restore touched products in reverse order. Every step is
// best-effort; one failed restoration does not block the others.
func (h *CommitStocktakeHandler) rollback(ctx context.Context, sessionID, outletID string, movementIDs []string, applied []domain.ProductSnapshot) {
	logger.Warn(ctx).
		Str("session_id", sessionID).
		Int("movements", len(movementIDs)).
		Int("products", len(applied)).
		Msg("Rolling back partially applied stocktake")

	if len(movementIDs) > 0 {
		if err := h.movements.DeleteByIDs(ctx, outletID, movementIDs); err != nil {
			logger.Error(ctx).Err(err).Str("session_id", sessionID).
				Msg("Failed to delete stocktake movements during rollback")
		}
	}

	for i := len(applied) - 1; i >= 0; i-- {
		snap := applied[i]
		if err := h.products.UpdateQuantity(ctx, outletID, snap.ProductID, snap.PreviousQty); err != nil {
			logger.Error(ctx).Err(err).
				Str("session_id", sessionID).
				Str("product_id", snap.ProductID).
				Int64("previous_qty", snap.PreviousQty).
				Msg("Failed to restore product quantity during rollback")
		}
	}
}
