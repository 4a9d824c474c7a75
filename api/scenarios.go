/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with
	realistic data for testing and demos. Each scenario creates
	activities and family profiles that exercise specific corners of
	the aid catalog.

AVAILABLE SCENARIOS:

	city-club:     Sport club activities in the covered metropole plus
	               a modest-quotient family (most programs fire)
	holiday-camp:  Vacation stays plus a fund-member family (holiday
	               and percentage-of-price programs)
	no-aid:        A high-quotient family outside every covered
	               territory (the valid "no aid available" outcome)

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Create activities
 3. Create family profiles

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "city-club"}

NOTE:

	Scenarios reset the database. Only use in development/demo
	environments.

SEE ALSO:
  - handlers.go: LoadScenario, ListScenarios handlers
  - store/sqlite/sqlite.go: The records created here
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/famiz/aid-engine/aid"
	"github.com/famiz/aid-engine/store/sqlite"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "city-club",
		Name:        "City Club",
		Description: "Sport and culture activities in the metropole with a modest-quotient family",
	},
	{
		ID:          "holiday-camp",
		Name:        "Holiday Camp",
		Description: "Vacation stays with a family-fund member profile",
	},
	{
		ID:          "no-aid",
		Name:        "No Aid Available",
		Description: "High quotient outside every covered territory",
	},
}

// =============================================================================
// HANDLERS
// =============================================================================

// ListScenarios returns the available demo scenarios.
// GET /api/scenarios
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// LoadScenario resets the database and loads the requested scenario.
// POST /api/scenarios/load
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}

	var err error
	switch req.ScenarioID {
	case "city-club":
		err = loadCityClubScenario(ctx, h)
	case "holiday-camp":
		err = loadHolidayCampScenario(ctx, h)
	case "no-aid":
		err = loadNoAidScenario(ctx, h)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown scenario %q", req.ScenarioID), nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"loaded": req.ScenarioID})
}

// =============================================================================
// LOADERS
// =============================================================================

func loadCityClubScenario(ctx context.Context, h *Handler) error {
	activities := []sqlite.Activity{
		{
			ID: "judo-grenoble", Name: "Judo - Annual Course",
			Category: aid.CategorySport, Period: aid.PeriodSchoolTerm,
			PriceCents: 20000, Department: "38", Commune: "38185",
		},
		{
			ID: "theatre-echirolles", Name: "Theatre Workshop",
			Category: aid.CategoryCulture, Period: aid.PeriodSchoolTerm,
			PriceCents: 18000, Department: "38", Commune: "38151",
		},
		{
			ID: "multisport-holidays", Name: "Multisport Holiday Week",
			Category: aid.CategorySport, Period: aid.PeriodSchoolHoliday,
			PriceCents: 9500, Department: "38", Commune: "38185",
		},
	}
	for _, a := range activities {
		if _, err := h.Store.SaveActivity(ctx, a); err != nil {
			return err
		}
	}

	_, err := h.Store.SaveFamily(ctx, sqlite.Family{
		ID: "martin", Name: "Famille Martin",
		Quotient: 500, Department: "38", Commune: "38185",
		Flags:    []aid.Flag{aid.FlagFamilyFundMember},
		Children: []int{10, 14},
	})
	return err
}

func loadHolidayCampScenario(ctx context.Context, h *Handler) error {
	activities := []sqlite.Activity{
		{
			ID: "summer-camp", Name: "Summer Mountain Camp",
			Category: aid.CategoryVacation, Period: aid.PeriodSchoolHoliday,
			PriceCents: 42000, Department: "38",
		},
		{
			ID: "sea-stay", Name: "Seaside Discovery Stay",
			Category: aid.CategoryVacation, Period: aid.PeriodSchoolHoliday,
			PriceCents: 38000, Department: "38",
		},
	}
	for _, a := range activities {
		if _, err := h.Store.SaveActivity(ctx, a); err != nil {
			return err
		}
	}

	_, err := h.Store.SaveFamily(ctx, sqlite.Family{
		ID: "diallo", Name: "Famille Diallo",
		Quotient: 430, Department: "38", Commune: "38421",
		Flags:    []aid.Flag{aid.FlagFamilyFundMember, aid.FlagBackToSchoolAllowance},
		Children: []int{7, 9, 12},
	})
	return err
}

func loadNoAidScenario(ctx context.Context, h *Handler) error {
	if _, err := h.Store.SaveActivity(ctx, sqlite.Activity{
		ID: "sailing-paris", Name: "Sailing Initiation",
		Category: aid.CategorySport, Period: aid.PeriodSchoolTerm,
		PriceCents: 30000, Department: "75", Commune: "75056",
	}); err != nil {
		return err
	}

	_, err := h.Store.SaveFamily(ctx, sqlite.Family{
		ID: "rossi", Name: "Famille Rossi",
		Quotient: 2400, Department: "75", Commune: "75056",
		Children: []int{16},
	})
	return err
}
