/*
handlers.go - HTTP API handlers for the aid simulation service

PURPOSE:
  Exposes the aid engine and the surrounding marketplace glue via REST.
  Handles HTTP request/response, JSON serialization, and delegates to
  the engine and the store.

ENDPOINTS:
  Simulations:
    POST   /api/simulations          Run an aid simulation

  Programs:
    GET    /api/programs             List the aid program catalog
    GET    /api/programs/{id}        Get one program

  Activities:
    GET    /api/activities           List/search activities
    POST   /api/activities           Create activity
    GET    /api/activities/{id}      Get activity
    DELETE /api/activities/{id}      Delete activity

  Families:
    GET    /api/families             List family profiles
    POST   /api/families             Create family profile
    GET    /api/families/{id}        Get family profile

  Scenarios:
    GET    /api/scenarios            List demo scenarios
    POST   /api/scenarios/load       Load a demo scenario

REQUEST FLOW:
  1. Parse HTTP request
  2. Resolve referenced activity/family from the store
  3. Validate the assembled context eagerly (aid.ValidateContext)
  4. Run the engine (pure, cannot fail)
  5. Serialize response

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Referenced activity/family/program not found
  - 500: Store failures

  A simulation matching zero programs is NOT an error: it returns 200
  with an empty aid list and total zero.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/famiz/aid-engine/aid"
	"github.com/famiz/aid-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store  *sqlite.Store
	Engine *aid.Engine
}

// NewHandler creates a handler over the given store and engine.
func NewHandler(store *sqlite.Store, engine *aid.Engine) *Handler {
	return &Handler{Store: store, Engine: engine}
}

// =============================================================================
// SIMULATION HANDLERS
// =============================================================================

// Simulate runs one aid simulation.
// POST /api/simulations
func (h *Handler) Simulate(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	simCtx, err := h.buildContext(r, req)
	if err != nil {
		var httpErr *httpError
		if errors.As(err, &httpErr) {
			writeError(w, httpErr.status, httpErr.message, httpErr.cause)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to build context", err)
		return
	}

	if err := aid.ValidateContext(simCtx); err != nil {
		writeValidationError(w, err)
		return
	}

	result := h.Engine.Simulate(simCtx)
	writeJSON(w, http.StatusOK, toSimulationDTO(result, simCtx.Price))
}

// buildContext assembles the engine context from inline fields and any
// referenced stored activity/family. Inline fields win over profile
// fields.
func (h *Handler) buildContext(r *http.Request, req SimulateRequest) (aid.Context, error) {
	ctx := r.Context()

	simCtx := aid.Context{
		Age:                  req.Age,
		Department:           req.Dept,
		Commune:              req.Commune,
		Category:             aid.Category(req.Category),
		Period:               aid.Period(req.Period),
		SiblingCount:         req.SiblingCount,
		PriorityNeighborhood: req.PriorityNeighborhood,
		UpperSecondary:       req.UpperSecondary,
	}
	if req.Quotient != nil {
		simCtx.Quotient = *req.Quotient
	}
	if req.Price != nil {
		simCtx.Price = decimal.NewFromFloat(*req.Price).Round(2)
	}
	for _, f := range req.Flags {
		if simCtx.Flags == nil {
			simCtx.Flags = make(map[aid.Flag]bool)
		}
		simCtx.Flags[aid.Flag(f)] = true
	}

	if req.ActivityID != "" {
		activity, err := h.Store.GetActivity(ctx, req.ActivityID)
		if err != nil {
			return aid.Context{}, &httpError{http.StatusInternalServerError, "Failed to get activity", err}
		}
		if activity == nil {
			return aid.Context{}, &httpError{http.StatusNotFound, "Activity not found", nil}
		}
		if req.Category == "" {
			simCtx.Category = activity.Category
		}
		if req.Period == "" {
			simCtx.Period = activity.Period
		}
		if req.Price == nil {
			simCtx.Price = activity.PriceEuros()
		}
		if req.Dept == "" {
			simCtx.Department = activity.Department
		}
		if req.Commune == "" {
			simCtx.Commune = activity.Commune
		}
	}

	if req.FamilyID != "" {
		family, err := h.Store.GetFamily(ctx, req.FamilyID)
		if err != nil {
			return aid.Context{}, &httpError{http.StatusInternalServerError, "Failed to get family", err}
		}
		if family == nil {
			return aid.Context{}, &httpError{http.StatusNotFound, "Family not found", nil}
		}
		if req.Quotient == nil {
			simCtx.Quotient = family.Quotient
		}
		if req.Dept == "" && simCtx.Department == "" {
			simCtx.Department = family.Department
		}
		if req.Commune == "" && simCtx.Commune == "" {
			simCtx.Commune = family.Commune
		}
		for fl := range family.FlagMap() {
			if simCtx.Flags == nil {
				simCtx.Flags = make(map[aid.Flag]bool)
			}
			simCtx.Flags[fl] = true
		}
		if req.SiblingCount == nil && len(family.Children) > 1 {
			n := len(family.Children) - 1
			simCtx.SiblingCount = &n
		}
	} else if req.Quotient == nil {
		return aid.Context{}, &httpError{http.StatusBadRequest, "quotient is required without a family_id", nil}
	}

	return simCtx, nil
}

// =============================================================================
// PROGRAM HANDLERS
// =============================================================================

// ListPrograms returns the full program catalog.
// GET /api/programs
func (h *Handler) ListPrograms(w http.ResponseWriter, r *http.Request) {
	programs := h.Engine.Catalog().Programs()
	dtos := make([]ProgramDTO, len(programs))
	for i, p := range programs {
		dtos[i] = toProgramDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetProgram returns one catalog program.
// GET /api/programs/{id}
func (h *Handler) GetProgram(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, ok := h.Engine.Catalog().Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Program not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toProgramDTO(p))
}

// =============================================================================
// ACTIVITY HANDLERS
// =============================================================================

// ListActivities returns activities matching the query filters.
// GET /api/activities?category=sport&period=school_term&q=judo
func (h *Handler) ListActivities(w http.ResponseWriter, r *http.Request) {
	filter := sqlite.ActivityFilter{
		Category: aid.Category(r.URL.Query().Get("category")),
		Period:   aid.Period(r.URL.Query().Get("period")),
		Query:    r.URL.Query().Get("q"),
	}

	activities, err := h.Store.ListActivities(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list activities", err)
		return
	}

	dtos := make([]ActivityDTO, len(activities))
	for i, a := range activities {
		dtos[i] = toActivityDTO(a)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetActivity returns a single activity.
// GET /api/activities/{id}
func (h *Handler) GetActivity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	activity, err := h.Store.GetActivity(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get activity", err)
		return
	}
	if activity == nil {
		writeError(w, http.StatusNotFound, "Activity not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toActivityDTO(*activity))
}

// CreateActivity creates a new activity.
// POST /api/activities
func (h *Handler) CreateActivity(w http.ResponseWriter, r *http.Request) {
	var req CreateActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}
	if req.Price < 0 {
		writeError(w, http.StatusBadRequest, "price must not be negative", nil)
		return
	}

	activity := sqlite.Activity{
		ID:         req.ID,
		Name:       req.Name,
		Category:   aid.Category(req.Category),
		Period:     aid.Period(req.Period),
		PriceCents: decimal.NewFromFloat(req.Price).Shift(2).Round(0).IntPart(),
		Department: req.Department,
		Commune:    req.Commune,
	}

	saved, err := h.Store.SaveActivity(r.Context(), activity)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create activity", err)
		return
	}
	writeJSON(w, http.StatusCreated, toActivityDTO(saved))
}

// DeleteActivity removes an activity.
// DELETE /api/activities/{id}
func (h *Handler) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Store.DeleteActivity(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete activity", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// FAMILY HANDLERS
// =============================================================================

// ListFamilies returns all family profiles.
// GET /api/families
func (h *Handler) ListFamilies(w http.ResponseWriter, r *http.Request) {
	families, err := h.Store.ListFamilies(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list families", err)
		return
	}

	dtos := make([]FamilyDTO, len(families))
	for i, f := range families {
		dtos[i] = toFamilyDTO(f)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetFamily returns a single family profile.
// GET /api/families/{id}
func (h *Handler) GetFamily(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	family, err := h.Store.GetFamily(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get family", err)
		return
	}
	if family == nil {
		writeError(w, http.StatusNotFound, "Family not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toFamilyDTO(*family))
}

// CreateFamily creates a family profile.
// POST /api/families
func (h *Handler) CreateFamily(w http.ResponseWriter, r *http.Request) {
	var req CreateFamilyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Quotient < 0 {
		writeError(w, http.StatusBadRequest, "quotient must not be negative", nil)
		return
	}

	flags := make([]aid.Flag, len(req.Flags))
	for i, f := range req.Flags {
		flags[i] = aid.Flag(f)
	}

	family := sqlite.Family{
		ID:         req.ID,
		Name:       req.Name,
		Quotient:   req.Quotient,
		Department: req.Department,
		Commune:    req.Commune,
		Flags:      flags,
		Children:   req.Children,
	}

	saved, err := h.Store.SaveFamily(r.Context(), family)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create family", err)
		return
	}
	writeJSON(w, http.StatusCreated, toFamilyDTO(saved))
}

// =============================================================================
// DTO MAPPING
// =============================================================================

func toSimulationDTO(result aid.Result, price decimal.Decimal) SimulationDTO {
	aids := make([]CalculatedAidDTO, len(result.Aids))
	for i, a := range result.Aids {
		amount, _ := a.Amount.Float64()
		aids[i] = CalculatedAidDTO{
			ProgramID: a.ProgramID,
			Name:      a.Name,
			Level:     string(a.Level),
			Amount:    amount,
			Link:      a.Link,
			Estimate:  a.Estimate,
		}
	}
	total, _ := result.Total.Float64()
	remaining, _ := result.RemainingCost.Float64()
	priceF, _ := price.Float64()

	return SimulationDTO{
		ID:            uuid.NewString(),
		Aids:          aids,
		Total:         total,
		Price:         priceF,
		RemainingCost: remaining,
		PercentSaved:  result.PercentSaved,
	}
}

func toProgramDTO(p aid.Program) ProgramDTO {
	periods := make([]string, len(p.Periods))
	for i, v := range p.Periods {
		periods[i] = string(v)
	}
	categories := make([]string, len(p.Categories))
	for i, v := range p.Categories {
		categories[i] = string(v)
	}
	return ProgramDTO{
		ID:         p.ID,
		Name:       p.Name,
		Level:      string(p.Level),
		Periods:    periods,
		Categories: categories,
		Link:       p.Link,
		Estimate:   p.Estimate,
	}
}

func toActivityDTO(a sqlite.Activity) ActivityDTO {
	price, _ := a.PriceEuros().Float64()
	return ActivityDTO{
		ID:         a.ID,
		Name:       a.Name,
		Category:   string(a.Category),
		Period:     string(a.Period),
		Price:      price,
		Department: a.Department,
		Commune:    a.Commune,
		CreatedAt:  a.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func toFamilyDTO(f sqlite.Family) FamilyDTO {
	flags := make([]string, len(f.Flags))
	for i, fl := range f.Flags {
		flags[i] = string(fl)
	}
	return FamilyDTO{
		ID:         f.ID,
		Name:       f.Name,
		Quotient:   f.Quotient,
		Department: f.Department,
		Commune:    f.Commune,
		Flags:      flags,
		Children:   f.Children,
		CreatedAt:  f.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// =============================================================================
// HELPERS
// =============================================================================

// httpError carries a status + message through buildContext.
type httpError struct {
	status  int
	message string
	cause   error
}

func (e *httpError) Error() string { return e.message }

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

// writeValidationError maps an aid.ContextError to a 400 listing the
// offending fields.
func writeValidationError(w http.ResponseWriter, err error) {
	resp := ErrorResponse{Error: "Invalid simulation context"}
	var cerr *aid.ContextError
	if errors.As(err, &cerr) {
		for _, f := range cerr.Fields {
			resp.Fields = append(resp.Fields, f.String())
		}
	} else {
		resp.Details = err.Error()
	}
	writeJSON(w, http.StatusBadRequest, resp)
}
