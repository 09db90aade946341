package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/Mandeep003/nestle-truck-monitor/engine"
	"github.com/Mandeep003/nestle-truck-monitor/middleware"
	"github.com/Mandeep003/nestle-truck-monitor/models"
)

// BoardHandler serves the truck board: register, list, transition, delete and
// purge. The acting role comes from the request context; all authorization is
// delegated to the workflow engine.
type BoardHandler struct {
	engine *engine.Engine
}

func NewBoardHandler(workflowEngine *engine.Engine) *BoardHandler {
	return &BoardHandler{engine: workflowEngine}
}

// Trucks dispatches GET (list) and POST (register) on /api/trucks.
func (h *BoardHandler) Trucks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.register(w, r)
	default:
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *BoardHandler) list(w http.ResponseWriter, r *http.Request) {
	role := middleware.GetRoleFromContext(r.Context())

	records, err := h.engine.ListFor(r.Context(), role)
	if err != nil {
		log.Printf("❌ Failed to list trucks for %s: %v", role, err)
		writeEngineError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"records": records,
		"count":   len(records),
	})
}

func (h *BoardHandler) register(w http.ResponseWriter, r *http.Request) {
	role := middleware.GetRoleFromContext(r.Context())

	var fields models.EntryFields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	id, err := h.engine.Register(r.Context(), role, fields)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	logAuditEvent(role, "REGISTER_TRUCK", fmt.Sprintf("Registered truck '%s' (record %s)", fields.TruckNumber, id))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{
		"record_id": id,
	})
}

type TransitionRequest struct {
	RecordID string `json:"record_id"`
	Status   string `json:"status"`
}

// Transition moves a record to a new status on behalf of the session role.
func (h *BoardHandler) Transition(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	role := middleware.GetRoleFromContext(r.Context())

	var req TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.RecordID == "" {
		writeError(w, "record_id is required", http.StatusBadRequest)
		return
	}

	status, err := models.ParseStatus(req.Status)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.engine.Transition(r.Context(), role, req.RecordID, status); err != nil {
		writeEngineError(w, err)
		return
	}

	logAuditEvent(role, "TRANSITION", fmt.Sprintf("Record %s moved to %s", req.RecordID, status))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Status updated",
	})
}

type DeleteRequest struct {
	RecordID string `json:"record_id"`
}

// Delete removes a single record (MasterUser only).
func (h *BoardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	role := middleware.GetRoleFromContext(r.Context())

	var req DeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.RecordID == "" {
		writeError(w, "record_id is required", http.StatusBadRequest)
		return
	}

	if err := h.engine.DeleteOne(r.Context(), role, req.RecordID); err != nil {
		writeEngineError(w, err)
		return
	}

	logAuditEvent(role, "DELETE_TRUCK", fmt.Sprintf("Record %s deleted", req.RecordID))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Record deleted",
	})
}

// PurgeLeft deletes every record currently marked Left and reports the count
// actually removed.
func (h *BoardHandler) PurgeLeft(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	role := middleware.GetRoleFromContext(r.Context())

	deleted, err := h.engine.PurgeLeft(r.Context(), role)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	logAuditEvent(role, "PURGE_LEFT", fmt.Sprintf("Purged %d departed trucks", deleted))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{
		"deleted": deleted,
	})
}

// writeEngineError maps the engine's error taxonomy onto HTTP statuses.
func writeEngineError(w http.ResponseWriter, err error) {
	var validationErr *engine.ValidationError
	var storeErr *engine.StoreError

	switch {
	case errors.Is(err, engine.ErrUnauthorized):
		writeError(w, "Insufficient permissions", http.StatusForbidden)
	case errors.Is(err, engine.ErrNotFound):
		writeError(w, "Record not found", http.StatusNotFound)
	case errors.As(err, &validationErr):
		writeError(w, validationErr.Error(), http.StatusBadRequest)
	case errors.As(err, &storeErr):
		log.Printf("❌ Store failure: %v", storeErr)
		writeError(w, "Record store unavailable", http.StatusBadGateway)
	default:
		log.Printf("❌ Unexpected error: %v", err)
		writeError(w, "Internal server error", http.StatusInternalServerError)
	}
}
