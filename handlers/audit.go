// audit.go

package handlers

import (
	"fmt"
	"sync"
	"time"

	"github.com/Mandeep003/nestle-truck-monitor/models"
)

var (
	auditMu    sync.Mutex
	auditTrail []models.AuditEvent
)

// logAuditEvent appends a mutation breadcrumb to the in-process audit trail.
// This is an operational log, not record versioning: it is cleared on restart.
func logAuditEvent(role models.Role, action, details string) {
	event := models.AuditEvent{
		EventID:   fmt.Sprintf("evt-%d", time.Now().UnixNano()),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Role:      role,
		Action:    action,
		Details:   details,
	}

	auditMu.Lock()
	auditTrail = append(auditTrail, event)
	auditMu.Unlock()

	fmt.Printf("AUDIT: Role '%s' performed action '%s' - Details: %s\n", role, action, details)
}

// AuditTrail returns a copy of the recorded audit events.
func AuditTrail() []models.AuditEvent {
	auditMu.Lock()
	defer auditMu.Unlock()

	trail := make([]models.AuditEvent, len(auditTrail))
	copy(trail, auditTrail)
	return trail
}
