package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/veloretail/backoffice/internal/staff/domain"
	"github.com/veloretail/backoffice/internal/store"
)

const profilesTable = "staff_profiles"

// StoreStaffRepository persists staff profiles through the generic store.
type StoreStaffRepository struct {
	store  store.Store
	writer *store.AdaptiveWriter
}

func NewStoreStaffRepository(s store.Store, w *store.AdaptiveWriter) *StoreStaffRepository {
	return &StoreStaffRepository{store: s, writer: w}
}

func (r *StoreStaffRepository) FindByID(ctx context.Context, profileID string) (*domain.StaffProfile, error) {
	rows, err := r.store.Select(ctx, profilesTable, store.Query{
		Filters: []store.Filter{store.Eq("id", profileID)},
		Limit:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load staff profile %s: %w", profileID, err)
	}
	if len(rows) == 0 {
		return nil, store.ErrNotFound
	}
	profile, err := fromRow(rows[0])
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *StoreStaffRepository) FindByOutlet(ctx context.Context, outletID string, limit, offset int) ([]domain.StaffProfile, error) {
	rows, err := r.store.Select(ctx, profilesTable, store.Query{
		Filters: []store.Filter{store.Eq("outlet_id", outletID)},
		OrderBy: "name",
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list staff profiles: %w", err)
	}
	out := make([]domain.StaffProfile, 0, len(rows))
	for _, row := range rows {
		profile, err := fromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, profile)
	}
	return out, nil
}

func (r *StoreStaffRepository) Create(ctx context.Context, profile *domain.StaffProfile) error {
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now().UTC()
	}
	permissions, err := json.Marshal(profile.Permissions)
	if err != nil {
		return fmt.Errorf("failed to encode permissions: %w", err)
	}
	_, err = r.writer.Write(ctx, store.WriteRequest{
		Table: profilesTable,
		Op:    store.WriteInsert,
		Rows: []store.Row{{
			"id":                profile.ID,
			"outlet_id":         profile.OutletID,
			"parent_account_id": profile.ParentAccountID,
			"name":              profile.Name,
			"role":              profile.Role,
			"permissions":       string(permissions),
			"pin_hash":          profile.PINHash,
			"is_active":         profile.IsActive,
			"created_at":        profile.CreatedAt,
		}},
	})
	if err != nil {
		return fmt.Errorf("failed to create staff profile: %w", err)
	}
	return nil
}

func fromRow(row store.Row) (domain.StaffProfile, error) {
	profile := domain.StaffProfile{
		ID:              row.String("id"),
		OutletID:        row.String("outlet_id"),
		ParentAccountID: row.String("parent_account_id"),
		Name:            row.String("name"),
		Role:            row.String("role"),
		PINHash:         row.String("pin_hash"),
		IsActive:        row.Bool("is_active"),
		CreatedAt:       row.Time("created_at"),
	}
	if raw := row.String("permissions"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &profile.Permissions); err != nil {
			return profile, fmt.Errorf("failed to decode permissions for profile %s: %w", profile.ID, err)
		}
	}
	return profile, nil
}
