// Package engine orchestrates the role policy and the record store into the
// operations the board exposes: register, list, transition, delete, purge.
// Authorization and validation are decided here, before any store call, so a
// compromised or buggy presentation layer cannot corrupt state.
package engine

import (
	"context"
	"errors"
	"log"
	"sort"

	"github.com/Mandeep003/nestle-truck-monitor/models"
	"github.com/Mandeep003/nestle-truck-monitor/policy"
	"github.com/Mandeep003/nestle-truck-monitor/store"
)

// Engine is the workflow engine over a record store. Safe for concurrent use
// if the underlying store is; transitions read a snapshot and last write wins.
type Engine struct {
	store store.RecordStore
}

// New creates a workflow engine backed by the given store.
func New(recordStore store.RecordStore) *Engine {
	return &Engine{store: recordStore}
}

// Register validates and persists a new truck entry. Gate entries are forced
// to Inside with Gate provenance regardless of the submitted status;
// MasterUser may choose any status. Returns the store-assigned id.
func (e *Engine) Register(ctx context.Context, role models.Role, fields models.EntryFields) (string, error) {
	if !policy.CanCreate(role) {
		return "", ErrUnauthorized
	}

	fields = fields.Trimmed()
	if err := validateEntry(fields); err != nil {
		return "", err
	}

	record := models.TruckRecord{
		TruckNumber:    fields.TruckNumber,
		DriverPhone:    fields.DriverPhone,
		Date:           fields.Date,
		EntryTime:      fields.EntryTime,
		VendorMaterial: fields.VendorMaterial,
		Status:         models.StatusInside,
		UpdatedBy:      role,
	}

	if role == models.RoleMasterUser && fields.Status != "" {
		status, err := models.ParseStatus(fields.Status)
		if err != nil {
			return "", &ValidationError{Field: "status", Reason: err.Error()}
		}
		record.Status = status
	}

	id, err := e.store.Create(ctx, record)
	if err != nil {
		return "", &StoreError{Op: "create", Err: err}
	}
	return id, nil
}

// ListFor returns the records visible to a role, newest date first. Ties keep
// the store's iteration order.
func (e *Engine) ListFor(ctx context.Context, role models.Role) ([]models.TruckRecord, error) {
	records, err := e.store.ListAll(ctx)
	if err != nil {
		return nil, &StoreError{Op: "list", Err: err}
	}

	visible := make([]models.TruckRecord, 0, len(records))
	for _, record := range records {
		if policy.Visible(role, record) {
			visible = append(visible, record)
		}
	}

	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].Date > visible[j].Date
	})
	return visible, nil
}

// Transition moves a record to a new status and stamps the acting role as
// provenance. The authorization check runs against a snapshot read; with
// concurrent engine instances the store's last write wins.
func (e *Engine) Transition(ctx context.Context, role models.Role, recordID string, next models.Status) error {
	record, err := e.store.Get(ctx, recordID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return &StoreError{Op: "get", Err: err}
	}

	if !policy.CanTransition(role, record, next) {
		return ErrUnauthorized
	}

	stamped := policy.Stamp(record, next, role)
	if err := e.store.Update(ctx, recordID, stamped); err != nil {
		return &StoreError{Op: "update", Err: err}
	}
	return nil
}

// DeleteOne removes a single record. Idempotent: deleting an absent id
// succeeds.
func (e *Engine) DeleteOne(ctx context.Context, role models.Role, recordID string) error {
	if !policy.CanDelete(role) {
		return ErrUnauthorized
	}
	if err := e.store.Delete(ctx, recordID); err != nil {
		return &StoreError{Op: "delete", Err: err}
	}
	return nil
}

// PurgeLeft deletes every record currently marked Left. Best effort: a
// failing delete is logged and the remaining deletes still run. Returns the
// count of records actually deleted, not attempted.
func (e *Engine) PurgeLeft(ctx context.Context, role models.Role) (int, error) {
	if !policy.CanDelete(role) {
		return 0, ErrUnauthorized
	}

	records, err := e.store.ListAll(ctx)
	if err != nil {
		return 0, &StoreError{Op: "list", Err: err}
	}

	deleted := 0
	for _, record := range records {
		if record.Status != models.StatusLeft {
			continue
		}
		if err := e.store.Delete(ctx, record.ID); err != nil {
			log.Printf("⚠️  Purge: failed to delete truck %s (%s): %v", record.TruckNumber, record.ID, err)
			continue
		}
		deleted++
	}
	return deleted, nil
}

func validateEntry(fields models.EntryFields) error {
	required := []struct {
		name  string
		value string
	}{
		{"truck_number", fields.TruckNumber},
		{"driver_phone", fields.DriverPhone},
		{"entry_time", fields.EntryTime},
		{"date", fields.Date},
		{"vendor_material", fields.VendorMaterial},
	}
	for _, f := range required {
		if f.value == "" {
			return &ValidationError{Field: f.name, Reason: "required"}
		}
	}
	return nil
}
