/*
main.go - aidctl command-line interface

PURPOSE:
  Runs aid simulations and inspects the program catalog without the
  HTTP server. Useful for catalog reviews and quick what-if checks.

COMMANDS:
  aidctl simulate -f context.yaml [--json] [--catalog programs.json]
      Load a simulation context from a YAML file, validate it, run
      the engine and print the result as a table or JSON.

  aidctl programs [--catalog programs.json]
      List every program in the catalog with its territory level and
      scope tags.

  Both commands run against the built-in canonical catalog unless
  --catalog points at a JSON catalog definition, which makes aidctl
  the quickest way to review an operator-defined catalog before
  deploying it to the server.

CONTEXT FILE:
  age: 10
  quotient: 500
  department: "38"
  commune: "38185"
  category: sport
  period: school_term
  price: 200
  flags: [family_fund_member]
  sibling_count: 2

SEE ALSO:
  - catalog/programs.go: The catalog these commands run against
  - aid/engine.go: The engine invoked by simulate
*/
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/famiz/aid-engine/aid"
	"github.com/famiz/aid-engine/catalog"
	"github.com/famiz/aid-engine/factory"
)

// contextFile is the YAML shape of a simulation context.
type contextFile struct {
	Age                  int      `yaml:"age"`
	Quotient             int      `yaml:"quotient"`
	Department           string   `yaml:"department"`
	Commune              string   `yaml:"commune"`
	Category             string   `yaml:"category"`
	Period               string   `yaml:"period"`
	Price                float64  `yaml:"price"`
	Flags                []string `yaml:"flags"`
	SiblingCount         *int     `yaml:"sibling_count"`
	PriorityNeighborhood *bool    `yaml:"priority_neighborhood"`
	UpperSecondary       *bool    `yaml:"upper_secondary"`
}

func (cf contextFile) toContext() aid.Context {
	c := aid.Context{
		Age:                  cf.Age,
		Quotient:             cf.Quotient,
		Department:           cf.Department,
		Commune:              cf.Commune,
		Category:             aid.Category(cf.Category),
		Period:               aid.Period(cf.Period),
		Price:                decimal.NewFromFloat(cf.Price).Round(2),
		SiblingCount:         cf.SiblingCount,
		PriorityNeighborhood: cf.PriorityNeighborhood,
		UpperSecondary:       cf.UpperSecondary,
	}
	for _, f := range cf.Flags {
		if c.Flags == nil {
			c.Flags = make(map[aid.Flag]bool)
		}
		c.Flags[aid.Flag(f)] = true
	}
	return c
}

func main() {
	root := &cobra.Command{
		Use:           "aidctl",
		Short:         "Family-activity aid simulation tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newSimulateCmd(), newProgramsCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newSimulateCmd() *cobra.Command {
	var file string
	var catalogFile string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run an aid simulation from a YAML context file",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read context file: %w", err)
			}
			var cf contextFile
			if err := yaml.Unmarshal(data, &cf); err != nil {
				return fmt.Errorf("failed to parse context file: %w", err)
			}

			simCtx := cf.toContext()
			if err := aid.ValidateContext(simCtx); err != nil {
				return err
			}

			cat, err := loadCatalog(catalogFile)
			if err != nil {
				return err
			}

			result := aid.NewEngine(cat).Simulate(simCtx)
			if asJSON {
				return printResultJSON(cmd, result, simCtx.Price)
			}
			printResultTable(cmd, result, simCtx.Price)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML context file (required)")
	cmd.Flags().StringVar(&catalogFile, "catalog", "", "JSON catalog file (default: built-in catalog)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	cmd.MarkFlagRequired("file")
	return cmd
}

func newProgramsCmd() *cobra.Command {
	var catalogFile string

	cmd := &cobra.Command{
		Use:   "programs",
		Short: "List the aid program catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := loadCatalog(catalogFile)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tLEVEL\tPERIODS\tCATEGORIES\tESTIMATE")
			for _, p := range cat.Programs() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%v\n",
					p.ID, p.Name, p.Level,
					joinPeriods(p.Periods), joinCategories(p.Categories), p.Estimate)
			}
			w.Flush()
			return nil
		},
	}
	cmd.Flags().StringVar(&catalogFile, "catalog", "", "JSON catalog file (default: built-in catalog)")
	return cmd
}

// loadCatalog resolves the catalog to run against: the JSON file when
// given, the built-in canonical catalog otherwise.
func loadCatalog(path string) (*aid.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	return factory.New(catalog.Tables).ParseCatalogFile(path)
}

// =============================================================================
// OUTPUT
// =============================================================================

func printResultTable(cmd *cobra.Command, result aid.Result, price decimal.Decimal) {
	out := cmd.OutOrStdout()
	if len(result.Aids) == 0 {
		fmt.Fprintln(out, "No aid available for these criteria.")
		fmt.Fprintf(out, "Remaining cost: %s EUR\n", result.RemainingCost.StringFixed(2))
		return
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PROGRAM\tLEVEL\tAMOUNT")
	for _, a := range result.Aids {
		amount := a.Amount.StringFixed(2) + " EUR"
		if a.Estimate {
			amount = "~" + amount
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", a.Name, a.Level, amount)
	}
	w.Flush()

	fmt.Fprintf(out, "\nPrice:          %s EUR\n", price.StringFixed(2))
	fmt.Fprintf(out, "Total aid:      %s EUR\n", result.Total.StringFixed(2))
	fmt.Fprintf(out, "Remaining cost: %s EUR\n", result.RemainingCost.StringFixed(2))
	fmt.Fprintf(out, "Saved:          %d%%\n", result.PercentSaved)
}

func printResultJSON(cmd *cobra.Command, result aid.Result, price decimal.Decimal) error {
	type aidLine struct {
		ProgramID string  `json:"program_id"`
		Name      string  `json:"name"`
		Level     string  `json:"level"`
		Amount    float64 `json:"amount"`
		Estimate  bool    `json:"estimate"`
	}
	lines := make([]aidLine, len(result.Aids))
	for i, a := range result.Aids {
		amount, _ := a.Amount.Float64()
		lines[i] = aidLine{
			ProgramID: a.ProgramID, Name: a.Name, Level: string(a.Level),
			Amount: amount, Estimate: a.Estimate,
		}
	}
	total, _ := result.Total.Float64()
	remaining, _ := result.RemainingCost.Float64()
	priceF, _ := price.Float64()

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"aids":           lines,
		"price":          priceF,
		"total":          total,
		"remaining_cost": remaining,
		"percent_saved":  result.PercentSaved,
	})
}

func joinPeriods(ps []aid.Period) string {
	if len(ps) == 0 {
		return "all"
	}
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = string(p)
	}
	return strings.Join(parts, ",")
}

func joinCategories(cs []aid.Category) string {
	if len(cs) == 0 {
		return "all"
	}
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = string(c)
	}
	return strings.Join(parts, ",")
}
