package query

import (
	"context"
	"errors"

	"github.com/veloretail/backoffice/internal/staff/domain"
)

const (
	defaultStaffPageSize = 50
	maxStaffPageSize     = 200
)

// ListStaffQuery pages through the staff profiles of one outlet.
type ListStaffQuery struct {
	OutletID string
	Limit    int
	Offset   int
}

type ListStaffHandler struct {
	staff domain.StaffRepository
}

func NewListStaffHandler(staff domain.StaffRepository) *ListStaffHandler {
	return &ListStaffHandler{staff: staff}
}

func (h *ListStaffHandler) Handle(ctx context.Context, q ListStaffQuery) ([]domain.StaffProfile, error) {
	if q.OutletID == "" {
		return nil, errors.New("outlet id is required")
	}
	if q.Limit <= 0 || q.Limit > maxStaffPageSize {
		q.Limit = defaultStaffPageSize
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return h.staff.FindByOutlet(ctx, q.OutletID, q.Limit, q.Offset)
}
