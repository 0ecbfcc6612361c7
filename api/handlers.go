/*
handlers.go - HTTP API handlers for the operator console

PURPOSE:
  Exposes one operator session over a local REST API. Each request is one
  state transition: parse the input, apply the session operation to the
  current State, store the result, serialize a view of it.

ENDPOINTS:
  Reference lists:
    POST   /api/reference/points              Upload the pharmacist point list
    POST   /api/reference/rewards             Upload the reward list

  Sales and classification:
    POST   /api/sales?confirm=1               Upload a sales batch
    GET    /api/classification                Pending names and pre-filled roles
    POST   /api/classification                Confirm roles, build bundles
    DELETE /api/classification                Cancel the pending batch

  Review and edit:
    GET    /api/persons                       Persons in display order
    GET    /api/persons/{name}                One person's tables
    POST   /api/persons/{name}/select         Toggle export selection
    POST   /api/persons/{name}/activate       Make the active person
    PUT    /api/persons/{name}/stage1/{rowID} Change a row status
    POST   /api/persons/{name}/stage2/{rowID}/toggle  Soft delete / restore
    PUT    /api/persons/{name}/stage2/{rowID}/reward  Custom reward amount

  Output and persistence:
    GET    /api/export                        Download the workbook
    GET    /api/session                       Session overview
    POST   /api/session                       Save a snapshot
    POST   /api/session/restore?confirm=1     Restore the newest snapshot

ERROR HANDLING:
  - 400: Validation errors, unreadable files
  - 404: Unknown person, nothing saved yet
  - 409: The operation would discard data and was not confirmed
  - 503: The snapshot store failed
  - 500: Anything else

CONCURRENCY:
  net/http serves requests on separate goroutines; the handler owns the
  session behind a mutex so every transition sees the previous one.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - session/: The operations themselves
*/
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/warp/bonus-engine/export"
	"github.com/warp/bonus-engine/generic"
	"github.com/warp/bonus-engine/session"
	"github.com/warp/bonus-engine/tabular"
)

// maxUpload bounds multipart uploads; a month of POS lines is a few MB.
const maxUpload = 64 << 20

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Engine *session.Engine
	Store  generic.SnapshotStore

	// Now is the clock used for snapshot and export timestamps.
	Now func() time.Time

	mu    sync.Mutex
	state session.State
}

// NewHandler creates a handler with an empty session.
func NewHandler(engine *session.Engine, store generic.SnapshotStore) *Handler {
	return &Handler{
		Engine: engine,
		Store:  store,
		Now:    time.Now,
	}
}

// State returns the current session.
func (h *Handler) State() session.State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// apply runs one transition under the lock and keeps the result.
func (h *Handler) apply(fn func(s session.State) (session.State, error)) (session.State, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	next, err := fn(h.state)
	if err != nil {
		return h.state, err
	}
	h.state = next
	return next, nil
}

// =============================================================================
// REFERENCE LISTS
// =============================================================================

// UploadPointList replaces the pharmacist point list.
func (h *Handler) UploadPointList(w http.ResponseWriter, r *http.Request) {
	table, ok := readUpload(w, r)
	if !ok {
		return
	}
	s, err := h.apply(func(s session.State) (session.State, error) {
		return h.Engine.LoadReferenceItems(s, table)
	})
	if err != nil {
		writeDomainError(w, "Failed to load point list", err)
		return
	}
	writeJSON(w, http.StatusOK, h.sessionDTO(r, s))
}

// UploadRewardList replaces the reward rules.
func (h *Handler) UploadRewardList(w http.ResponseWriter, r *http.Request) {
	table, ok := readUpload(w, r)
	if !ok {
		return
	}
	s, err := h.apply(func(s session.State) (session.State, error) {
		return h.Engine.LoadRewardRules(s, table)
	})
	if err != nil {
		writeDomainError(w, "Failed to load reward list", err)
		return
	}
	writeJSON(w, http.StatusOK, h.sessionDTO(r, s))
}

// =============================================================================
// SALES AND CLASSIFICATION
// =============================================================================

// UploadSales stages a sales batch and returns the role form.
func (h *Handler) UploadSales(w http.ResponseWriter, r *http.Request) {
	table, ok := readUpload(w, r)
	if !ok {
		return
	}
	confirm := confirmed(r)
	s, err := h.apply(func(s session.State) (session.State, error) {
		return h.Engine.ImportSales(s, table, confirm)
	})
	if err != nil {
		writeDomainError(w, "Failed to import sales", err)
		return
	}
	writeJSON(w, http.StatusOK, h.classificationDTO(s))
}

// GetClassification returns the pending names and their pre-filled roles.
func (h *Handler) GetClassification(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.classificationDTO(h.State()))
}

// ConfirmClassification builds the bundles from the submitted roles.
func (h *Handler) ConfirmClassification(w http.ResponseWriter, r *http.Request) {
	var req ClassificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	roles := make(map[string]generic.Role, len(req.Roles))
	for name, raw := range req.Roles {
		role, err := generic.ParseRole(raw)
		if err != nil {
			writeDomainError(w, fmt.Sprintf("Invalid role for %s", name), err)
			return
		}
		roles[name] = role
	}

	s, err := h.apply(func(s session.State) (session.State, error) {
		return h.Engine.ConfirmClassification(s, roles)
	})
	if err != nil {
		writeDomainError(w, "Failed to classify", err)
		return
	}
	writeJSON(w, http.StatusOK, h.sessionDTO(r, s))
}

// CancelClassification drops the pending batch.
func (h *Handler) CancelClassification(w http.ResponseWriter, r *http.Request) {
	s, _ := h.apply(func(s session.State) (session.State, error) {
		return h.Engine.CancelClassification(s), nil
	})
	writeJSON(w, http.StatusOK, h.sessionDTO(r, s))
}

// =============================================================================
// PERSONS
// =============================================================================

// ListPersons returns every bundle in display order.
func (h *Handler) ListPersons(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.personSummaries(h.State()))
}

// GetPerson returns one person's tables.
func (h *Handler) GetPerson(w http.ResponseWriter, r *http.Request) {
	h.writePerson(w, h.State(), personParam(r))
}

// ToggleSelection flips a person's export selection.
func (h *Handler) ToggleSelection(w http.ResponseWriter, r *http.Request) {
	name := personParam(r)
	s, _ := h.apply(func(s session.State) (session.State, error) {
		return h.Engine.ToggleSelection(s, name), nil
	})
	h.writePerson(w, s, name)
}

// ActivatePerson makes a person the active one.
func (h *Handler) ActivatePerson(w http.ResponseWriter, r *http.Request) {
	name := personParam(r)
	s, _ := h.apply(func(s session.State) (session.State, error) {
		return h.Engine.SetActivePerson(s, name), nil
	})
	h.writePerson(w, s, name)
}

// SetStage1Status changes the status of one stage 1 row.
func (h *Handler) SetStage1Status(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	name, rowID := personParam(r), chi.URLParam(r, "rowID")
	s, err := h.apply(func(s session.State) (session.State, error) {
		return h.Engine.SetStage1Status(s, name, rowID, generic.Status(req.Status))
	})
	if err != nil {
		writeDomainError(w, "Failed to change status", err)
		return
	}
	h.writePerson(w, s, name)
}

// ToggleStage2Deleted soft-deletes or restores a reward row.
func (h *Handler) ToggleStage2Deleted(w http.ResponseWriter, r *http.Request) {
	name, rowID := personParam(r), chi.URLParam(r, "rowID")
	s, _ := h.apply(func(s session.State) (session.State, error) {
		return h.Engine.ToggleStage2Deleted(s, name, rowID), nil
	})
	h.writePerson(w, s, name)
}

// SetCustomReward overrides the amount of a reward row.
func (h *Handler) SetCustomReward(w http.ResponseWriter, r *http.Request) {
	var req CustomRewardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	name, rowID := personParam(r), chi.URLParam(r, "rowID")
	s, err := h.apply(func(s session.State) (session.State, error) {
		return h.Engine.SetStage2CustomReward(s, name, rowID, req.Value)
	})
	if err != nil {
		writeDomainError(w, "Failed to set reward", err)
		return
	}
	h.writePerson(w, s, name)
}

// =============================================================================
// EXPORT
// =============================================================================

// Export streams the workbook of the selected persons.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	s := h.State()
	wb := export.Build(s.Bundles, s.SelectedPersons())

	var buf bytes.Buffer
	if err := export.Write(r.Context(), &buf, wb); err != nil {
		writeDomainError(w, "Failed to export", err)
		return
	}

	filename := export.DefaultFilename(h.Now())
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("WARN: export write interrupted: %v", err)
	}
}

// =============================================================================
// SESSION
// =============================================================================

// GetSession returns the session overview.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.sessionDTO(r, h.State()))
}

// SaveSession writes a snapshot.
func (h *Handler) SaveSession(w http.ResponseWriter, r *http.Request) {
	now := h.Now()
	s, err := h.apply(func(s session.State) (session.State, error) {
		return session.Save(r.Context(), h.Store, s, now)
	})
	if err != nil {
		writeDomainError(w, "Failed to save session", err)
		return
	}
	writeJSON(w, http.StatusOK, h.sessionDTO(r, s))
}

// RestoreSession replaces the session with the newest snapshot.
func (h *Handler) RestoreSession(w http.ResponseWriter, r *http.Request) {
	confirm := confirmed(r)
	s, err := h.apply(func(s session.State) (session.State, error) {
		return session.Restore(r.Context(), h.Store, s, confirm)
	})
	if err != nil {
		writeDomainError(w, "Failed to restore session", err)
		return
	}
	writeJSON(w, http.StatusOK, h.sessionDTO(r, s))
}

// =============================================================================
// VIEWS
// =============================================================================

func (h *Handler) sessionDTO(r *http.Request, s session.State) SessionDTO {
	items, rules := s.Reference().Len()
	dto := SessionDTO{
		Phase:          s.Phase(),
		ReferenceItems: items,
		RewardRules:    rules,
		BatchRows:      len(s.Batch),
		PendingRows:    len(s.Pending),
		ActivePerson:   s.ActivePerson,
		Persons:        h.personSummaries(s),
	}
	if !s.SavedAt.IsZero() {
		dto.SavedAt = s.SavedAt.Format(time.RFC3339)
	}
	if h.Store != nil {
		t, ok, err := h.Store.LatestTime(r.Context())
		if err != nil {
			log.Printf("WARN: reading last snapshot time: %v", err)
		} else if ok {
			dto.LastSnapshotAt = t.Format(time.RFC3339)
		}
	}
	return dto
}

func (h *Handler) classificationDTO(s session.State) ClassificationDTO {
	return ClassificationDTO{
		Phase: s.Phase(),
		Names: h.Engine.PendingNames(s),
		Roles: h.Engine.PendingRoles(s),
	}
}

func (h *Handler) personSummaries(s session.State) []PersonSummaryDTO {
	names := h.Engine.SortedPersons(s)
	out := make([]PersonSummaryDTO, 0, len(names))
	for _, n := range names {
		out = append(out, toPersonSummary(s, n, s.Bundles[n]))
	}
	return out
}

func (h *Handler) writePerson(w http.ResponseWriter, s session.State, name string) {
	b, ok := s.Bundle(name)
	if !ok {
		writeError(w, http.StatusNotFound, "Person not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toPersonDetail(s, name, b))
}

// =============================================================================
// HELPERS
// =============================================================================

func readUpload(w http.ResponseWriter, r *http.Request) (generic.Table, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing file upload", err)
		return generic.Table{}, false
	}
	defer file.Close()

	table, err := tabular.Read(file, header.Filename)
	if err != nil {
		writeDomainError(w, "Failed to read file", err)
		return generic.Table{}, false
	}
	return table, true
}

func personParam(r *http.Request) string {
	raw := chi.URLParam(r, "name")
	if name, err := url.PathUnescape(raw); err == nil {
		return name
	}
	return raw
}

func confirmed(r *http.Request) bool {
	v := r.URL.Query().Get("confirm")
	return v == "1" || v == "true"
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps engine errors to HTTP status codes.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, generic.ErrConfirmationRequired):
		writeError(w, http.StatusConflict, message, err)
	case generic.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	case errors.Is(err, generic.ErrNoSnapshot):
		writeError(w, http.StatusNotFound, message, err)
	case errors.Is(err, generic.ErrPersistence):
		writeError(w, http.StatusServiceUnavailable, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
