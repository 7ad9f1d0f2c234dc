// Package cost maps material quantities to low/mid/high cost bands using a
// versioned pricing table. Bands are computed independently per tier and
// summed across categories and rooms, never derived from a single total with
// applied variance, so the per-category breakdown stays meaningful.
package cost

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/scruffyjerk/blueprint-intelligence-engine/internal/model"
)

// ErrPricingTableIncomplete aborts a run when a priced quantity has no table
// entry. A silently-zero cost is worse than refusing to estimate.
var ErrPricingTableIncomplete = eris.New("cost: pricing table incomplete")

// TierPrice holds per-unit prices for one material category. Labor is the
// installation rate per labor-basis unit (sqft or linear ft) and does not
// vary by tier.
type TierPrice struct {
	Low   float64 `yaml:"low" mapstructure:"low"`
	Mid   float64 `yaml:"mid" mapstructure:"mid"`
	High  float64 `yaml:"high" mapstructure:"high"`
	Labor float64 `yaml:"labor" mapstructure:"labor"`
}

// PricingTable maps categories to tiered unit prices. RegionalMultiplier
// scales all tiers uniformly; 0 means 1.0.
type PricingTable struct {
	Version            string                       `yaml:"version" mapstructure:"version"`
	Categories         map[model.Category]TierPrice `yaml:"categories" mapstructure:"categories"`
	RegionalMultiplier float64                      `yaml:"regional_multiplier" mapstructure:"regional_multiplier"`
}

// DefaultTable returns national-average unit prices per quantity unit
// (flooring per sqft, drywall per panel, paint per gallon, trim per linear
// foot). Labor rates are per sqft for area work and per linear foot for trim.
func DefaultTable() PricingTable {
	return PricingTable{
		Version: "2025-us-national",
		Categories: map[model.Category]TierPrice{
			model.CategoryFlooring:     {Low: 2.50, Mid: 5.00, High: 8.00, Labor: 4.00},
			model.CategoryDrywall:      {Low: 12.00, Mid: 15.00, High: 25.00, Labor: 2.00},
			model.CategoryPaint:        {Low: 25.00, Mid: 45.00, High: 65.00, Labor: 2.00},
			model.CategoryCeilingPaint: {Low: 20.00, Mid: 35.00, High: 55.00, Labor: 1.50},
			model.CategoryBaseboard:    {Low: 1.00, Mid: 2.50, High: 5.00, Labor: 3.00},
			model.CategoryCrownMolding: {Low: 1.50, Mid: 4.00, High: 8.00, Labor: 5.00},
		},
		RegionalMultiplier: 1.0,
	}
}

// LoadTable reads a pricing table from a YAML file.
func LoadTable(path string) (PricingTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return PricingTable{}, eris.Wrap(err, "cost: read pricing table")
	}
	var t PricingTable
	if err := yaml.Unmarshal(data, &t); err != nil {
		return PricingTable{}, eris.Wrap(err, "cost: parse pricing table")
	}
	return t, nil
}

// Calculator computes cost estimates from a pricing table.
type Calculator struct {
	table          PricingTable
	includeLabor   bool
	contingencyPct float64
}

// Option configures optional Calculator behavior.
type Option func(*Calculator)

// WithLabor adds installation labor to every estimate, billed at each
// category's labor rate against the quantity's labor basis.
func WithLabor() Option {
	return func(c *Calculator) { c.includeLabor = true }
}

// WithContingency reserves the given fraction of the project subtotal
// (materials plus any labor) as a contingency line. Non-positive values
// disable it.
func WithContingency(pct float64) Option {
	return func(c *Calculator) { c.contingencyPct = pct }
}

// NewCalculator creates a Calculator with the given table.
func NewCalculator(table PricingTable, opts ...Option) *Calculator {
	if table.RegionalMultiplier <= 0 {
		table.RegionalMultiplier = 1.0
	}
	c := &Calculator{table: table}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Calculate prices all quantities. A category present in the quantities but
// missing from the table fails hard with ErrPricingTableIncomplete; no
// partial estimate is emitted.
func (c *Calculator) Calculate(quantities []model.MaterialQuantity) (*model.CostEstimate, error) {
	est := &model.CostEstimate{
		ByCategory:     make(map[model.Category]model.CostBand),
		PricingVersion: c.table.Version,
	}

	for _, q := range quantities {
		tier, ok := c.table.Categories[q.Category]
		if !ok {
			return nil, eris.Wrapf(ErrPricingTableIncomplete, "no price entry for category %q", q.Category)
		}
		band := model.CostBand{
			Low:  q.Adjusted * tier.Low * c.table.RegionalMultiplier,
			Mid:  q.Adjusted * tier.Mid * c.table.RegionalMultiplier,
			High: q.Adjusted * tier.High * c.table.RegionalMultiplier,
		}
		acc := est.ByCategory[q.Category]
		acc.Add(band)
		est.ByCategory[q.Category] = acc
		est.Total.Add(band)

		if c.includeLabor {
			est.Labor += q.LaborBasis * tier.Labor * c.table.RegionalMultiplier
		}
	}

	if c.contingencyPct > 0 {
		contingency := model.CostBand{
			Low:  (est.Total.Low + est.Labor) * c.contingencyPct,
			Mid:  (est.Total.Mid + est.Labor) * c.contingencyPct,
			High: (est.Total.High + est.Labor) * c.contingencyPct,
		}
		est.Contingency = &contingency
	}
	if c.includeLabor || est.Contingency != nil {
		grand := model.CostBand{Low: est.Total.Low + est.Labor, Mid: est.Total.Mid + est.Labor, High: est.Total.High + est.Labor}
		if est.Contingency != nil {
			grand.Add(*est.Contingency)
		}
		est.GrandTotal = &grand
	}

	return est, nil
}
