/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types
  decouple the internal domain model from the external API contract,
  allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY:
  Amounts cross the wire as whole-euro numbers (the engine works in
  whole euros; activity prices are stored in cents and converted at
  the store boundary).

VALIDATION:
  Validation is done in handlers via aid.ValidateContext. DTOs are
  pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - aid/types.go: The domain model these map to
*/
package api

// =============================================================================
// SIMULATION
// =============================================================================

// SimulateRequest is the input of POST /api/simulations. Either the
// activity fields (category, period, price) are inlined, or
// activity_id references a stored activity whose fields are used.
// Likewise family_id pulls quotient/geography/flags from a stored
// profile; inline fields win over profile fields.
type SimulateRequest struct {
	ActivityID string `json:"activity_id,omitempty"`
	FamilyID   string `json:"family_id,omitempty"`

	Age      int    `json:"age"`
	Quotient *int   `json:"quotient,omitempty"`
	Dept     string `json:"department,omitempty"`
	Commune  string `json:"commune,omitempty"`

	Category string   `json:"category,omitempty"`
	Period   string   `json:"period,omitempty"`
	Price    *float64 `json:"price,omitempty"`

	Flags                []string `json:"flags,omitempty"`
	SiblingCount         *int     `json:"sibling_count,omitempty"`
	PriorityNeighborhood *bool    `json:"priority_neighborhood,omitempty"`
	UpperSecondary       *bool    `json:"upper_secondary,omitempty"`
}

// CalculatedAidDTO is one granted aid line in a simulation response.
type CalculatedAidDTO struct {
	ProgramID string  `json:"program_id"`
	Name      string  `json:"name"`
	Level     string  `json:"level"`
	Amount    float64 `json:"amount"`
	Link      string  `json:"link,omitempty"`
	Estimate  bool    `json:"estimate"`
}

// SimulationDTO is the response of POST /api/simulations. The ID is
// ephemeral, generated per response for client-side display; nothing
// is persisted.
type SimulationDTO struct {
	ID            string             `json:"id"`
	Aids          []CalculatedAidDTO `json:"aids"`
	Total         float64            `json:"total"`
	Price         float64            `json:"price"`
	RemainingCost float64            `json:"remaining_cost"`
	PercentSaved  int64              `json:"percent_saved"`
}

// =============================================================================
// PROGRAMS
// =============================================================================

// ProgramDTO describes one catalog program.
type ProgramDTO struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Level      string   `json:"level"`
	Periods    []string `json:"periods,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Link       string   `json:"link,omitempty"`
	Estimate   bool     `json:"estimate"`
}

// =============================================================================
// ACTIVITIES
// =============================================================================

// ActivityDTO represents an activity in API responses.
type ActivityDTO struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Period     string  `json:"period"`
	Price      float64 `json:"price"`
	Department string  `json:"department,omitempty"`
	Commune    string  `json:"commune,omitempty"`
	CreatedAt  string  `json:"created_at,omitempty"`
}

// CreateActivityRequest is the request to create an activity.
type CreateActivityRequest struct {
	ID         string  `json:"id,omitempty"`
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Period     string  `json:"period"`
	Price      float64 `json:"price"`
	Department string  `json:"department,omitempty"`
	Commune    string  `json:"commune,omitempty"`
}

// =============================================================================
// FAMILIES
// =============================================================================

// FamilyDTO represents a stored family profile.
type FamilyDTO struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Quotient   int      `json:"quotient"`
	Department string   `json:"department,omitempty"`
	Commune    string   `json:"commune,omitempty"`
	Flags      []string `json:"flags,omitempty"`
	Children   []int    `json:"children,omitempty"`
	CreatedAt  string   `json:"created_at,omitempty"`
}

// CreateFamilyRequest is the request to create a family profile.
type CreateFamilyRequest struct {
	ID         string   `json:"id,omitempty"`
	Name       string   `json:"name"`
	Quotient   int      `json:"quotient"`
	Department string   `json:"department,omitempty"`
	Commune    string   `json:"commune,omitempty"`
	Flags      []string `json:"flags,omitempty"`
	Children   []int    `json:"children,omitempty"`
}

// =============================================================================
// SCENARIOS & ERRORS
// =============================================================================

// ScenarioDTO describes a loadable demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects a scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Details string   `json:"details,omitempty"`
	Fields  []string `json:"fields,omitempty"`
}
