// Package policy encodes the status machine: which role may see, create,
// transition, and delete truck records. Every function here is pure — the
// decisions depend only on the role and the record's status and provenance,
// so the rules are enforceable server-side no matter what the UI offers.
package policy

import (
	"github.com/Mandeep003/nestle-truck-monitor/models"
)

// Visible reports whether a record appears in a role's working view.
//
//   - SCM reviews only what the gate handed over (updatedBy == Gate).
//   - Parking loses sight of trucks that have left.
//   - MasterUser and Viewer see everything.
//   - Gate is create-only and has no review view.
func Visible(role models.Role, record models.TruckRecord) bool {
	switch role {
	case models.RoleSCM:
		return record.UpdatedBy == models.RoleGate
	case models.RoleParking:
		return record.Status != models.StatusLeft
	case models.RoleMasterUser, models.RoleViewer:
		return true
	}
	return false
}

// AllowedNextStatuses returns the statuses a role may move the record to.
// An empty set means the role has no transition capability on this record.
func AllowedNextStatuses(role models.Role, record models.TruckRecord) []models.Status {
	switch role {
	case models.RoleSCM:
		// SCM may not act on records another team already touched.
		if record.UpdatedBy != models.RoleGate {
			return nil
		}
		return []models.Status{models.StatusInside, models.StatusReadyToLeave}
	case models.RoleParking:
		// Left is terminal for Parking.
		if record.Status == models.StatusLeft {
			return nil
		}
		// A truck still Inside has not been released by SCM; Parking may
		// not skip it straight to Left.
		if record.Status == models.StatusInside {
			return []models.Status{models.StatusReadyToLeave}
		}
		return []models.Status{models.StatusReadyToLeave, models.StatusLeft}
	case models.RoleMasterUser:
		return []models.Status{models.StatusInside, models.StatusReadyToLeave, models.StatusLeft}
	}
	return nil
}

// CanTransition reports whether role may move record to next.
func CanTransition(role models.Role, record models.TruckRecord, next models.Status) bool {
	for _, s := range AllowedNextStatuses(role, record) {
		if s == next {
			return true
		}
	}
	return false
}

// CanCreate reports whether a role may register new entries.
func CanCreate(role models.Role) bool {
	return role == models.RoleGate || role == models.RoleMasterUser
}

// CanDelete reports whether a role may delete records.
func CanDelete(role models.Role) bool {
	return role == models.RoleMasterUser
}

// Stamp applies a successful transition to a record: the new status plus the
// acting role as provenance. Unconditional for every role — after a
// MasterUser edit the record no longer reads as Gate-originated and drops
// out of SCM's view.
func Stamp(record models.TruckRecord, next models.Status, actor models.Role) models.TruckRecord {
	record.Status = next
	record.UpdatedBy = actor
	return record
}
