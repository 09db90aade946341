// models.go
// Defines the core data structures shared by the workflow engine, the record
// store adapters, and the HTTP handlers.

package models

import (
	"fmt"
	"strings"
)

// Role defines the access level of a session.
type Role string

const (
	RoleGate       Role = "Gate"
	RoleSCM        Role = "SCM"
	RoleParking    Role = "Parking"
	RoleMasterUser Role = "MasterUser"
	RoleViewer     Role = "Viewer" // default for unrecognized or absent credentials
)

// Valid reports whether r is one of the closed role set.
func (r Role) Valid() bool {
	switch r {
	case RoleGate, RoleSCM, RoleParking, RoleMasterUser, RoleViewer:
		return true
	}
	return false
}

// Status defines where a truck is in its visit lifecycle.
// The forward order is Inside -> ReadyToLeave -> Left.
type Status string

const (
	StatusInside       Status = "Inside"
	StatusReadyToLeave Status = "ReadyToLeave"
	StatusLeft         Status = "Left"
)

// Display strings as they appear on the board and in exported sheets. These
// are the wire values persisted by every store adapter and must round-trip
// losslessly.
const (
	displayInside       = "Inside (🟡)"
	displayReadyToLeave = "Ready to Leave (🟢)"
	displayLeft         = "Left (✅)"
)

// Display returns the board form of a status.
func (s Status) Display() string {
	switch s {
	case StatusInside:
		return displayInside
	case StatusReadyToLeave:
		return displayReadyToLeave
	case StatusLeft:
		return displayLeft
	}
	return string(s)
}

// ParseStatus accepts either the canonical name or the board display form.
func ParseStatus(s string) (Status, error) {
	switch strings.TrimSpace(s) {
	case string(StatusInside), displayInside:
		return StatusInside, nil
	case string(StatusReadyToLeave), displayReadyToLeave:
		return StatusReadyToLeave, nil
	case string(StatusLeft), displayLeft:
		return StatusLeft, nil
	}
	return "", fmt.Errorf("unknown status: %q", s)
}

// Wire field keys used by every record store adapter. The map form exists
// only at the adapter edge; core logic works with TruckRecord.
const (
	FieldDate           = "Date"
	FieldTruckNumber    = "Truck Number"
	FieldDriverPhone    = "Driver Phone"
	FieldEntryTime      = "Entry Time"
	FieldVendorMaterial = "Vendor / Material"
	FieldStatus         = "Status"
	FieldUpdatedBy      = "Updated By"
)

// TruckRecord represents one truck's current visit.
type TruckRecord struct {
	ID             string `json:"id"`
	TruckNumber    string `json:"truck_number"`
	DriverPhone    string `json:"driver_phone"`
	Date           string `json:"date"`
	EntryTime      string `json:"entry_time"`
	VendorMaterial string `json:"vendor_material"`
	Status         Status `json:"status"`
	UpdatedBy      Role   `json:"updated_by"`
}

// Fields returns the record in adapter wire form. The record id is the store's
// key, not a field, so it is not included.
func (t TruckRecord) Fields() map[string]string {
	return map[string]string{
		FieldDate:           t.Date,
		FieldTruckNumber:    t.TruckNumber,
		FieldDriverPhone:    t.DriverPhone,
		FieldEntryTime:      t.EntryTime,
		FieldVendorMaterial: t.VendorMaterial,
		FieldStatus:         t.Status.Display(),
		FieldUpdatedBy:      string(t.UpdatedBy),
	}
}

// RecordFromFields rebuilds a TruckRecord from adapter wire form.
func RecordFromFields(id string, fields map[string]string) (TruckRecord, error) {
	status, err := ParseStatus(fields[FieldStatus])
	if err != nil {
		return TruckRecord{}, fmt.Errorf("record %s: %w", id, err)
	}
	return TruckRecord{
		ID:             id,
		TruckNumber:    fields[FieldTruckNumber],
		DriverPhone:    fields[FieldDriverPhone],
		Date:           fields[FieldDate],
		EntryTime:      fields[FieldEntryTime],
		VendorMaterial: fields[FieldVendorMaterial],
		Status:         status,
		UpdatedBy:      Role(fields[FieldUpdatedBy]),
	}, nil
}

// EntryFields is the caller-supplied payload for registering a truck.
// Status is honored for MasterUser only; Gate entries are always forced to
// Inside by the engine.
type EntryFields struct {
	Date           string `json:"date"`
	TruckNumber    string `json:"truck_number"`
	DriverPhone    string `json:"driver_phone"`
	EntryTime      string `json:"entry_time"`
	VendorMaterial string `json:"vendor_material"`
	Status         string `json:"status,omitempty"`
}

// Trimmed returns a copy with surrounding whitespace removed from every field.
func (e EntryFields) Trimmed() EntryFields {
	return EntryFields{
		Date:           strings.TrimSpace(e.Date),
		TruckNumber:    strings.TrimSpace(e.TruckNumber),
		DriverPhone:    strings.TrimSpace(e.DriverPhone),
		EntryTime:      strings.TrimSpace(e.EntryTime),
		VendorMaterial: strings.TrimSpace(e.VendorMaterial),
		Status:         strings.TrimSpace(e.Status),
	}
}

// AuditEvent records one successful mutation for the in-process audit trail.
type AuditEvent struct {
	EventID   string `json:"event_id"`
	Timestamp string `json:"timestamp"`
	Role      Role   `json:"role"`
	Action    string `json:"action"`
	Details   string `json:"details"`
}
