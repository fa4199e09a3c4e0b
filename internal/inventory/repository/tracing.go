package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/veloretail/backoffice/internal/inventory/domain"
)

var tracer = otel.Tracer("inventory-repository")

// TracingMovementRepository wraps a MovementRepository with otel spans.
type TracingMovementRepository struct {
	inner domain.MovementRepository
}

func NewTracingMovementRepository(inner domain.MovementRepository) *TracingMovementRepository {
	return &TracingMovementRepository{inner: inner}
}

func (r *TracingMovementRepository) Append(ctx context.Context, movements []domain.StockMovement) error {
	ctx, span := tracer.Start(ctx, "repository.Append",
		trace.WithAttributes(
			attribute.Int("ledger.movement_count", len(movements)),
		),
	)
	defer span.End()

	if err := r.inner.Append(ctx, movements); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (r *TracingMovementRepository) Find(ctx context.Context, outletID string, filter domain.MovementFilter) ([]domain.StockMovement, error) {
	ctx, span := tracer.Start(ctx, "repository.Find",
		trace.WithAttributes(
			attribute.String("ledger.outlet_id", outletID),
			attribute.String("ledger.reference_type", filter.ReferenceType),
			attribute.String("ledger.reference_id", filter.ReferenceID),
		),
	)
	defer span.End()

	movements, err := r.inner.Find(ctx, outletID, filter)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("ledger.result_count", len(movements)))
	return movements, nil
}

func (r *TracingMovementRepository) DeleteByIDs(ctx context.Context, outletID string, ids []string) error {
	ctx, span := tracer.Start(ctx, "repository.DeleteByIDs",
		trace.WithAttributes(
			attribute.String("ledger.outlet_id", outletID),
			attribute.Int("ledger.movement_count", len(ids)),
		),
	)
	defer span.End()

	if err := r.inner.DeleteByIDs(ctx, outletID, ids); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}
