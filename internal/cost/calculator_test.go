package cost

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scruffyjerk/blueprint-intelligence-engine/internal/model"
)

func qty(room string, cat model.Category, adjusted float64) model.MaterialQuantity {
	return model.MaterialQuantity{RoomID: room, Category: cat, Adjusted: adjusted, LaborBasis: adjusted, Confidence: 0.9}
}

func qtyLabor(room string, cat model.Category, adjusted, basis float64) model.MaterialQuantity {
	return model.MaterialQuantity{RoomID: room, Category: cat, Adjusted: adjusted, LaborBasis: basis, Confidence: 0.9}
}

func TestCalculate_PerCategoryBands(t *testing.T) {
	calc := NewCalculator(DefaultTable())
	est, err := calc.Calculate([]model.MaterialQuantity{
		qty("r1", model.CategoryFlooring, 100),
		qty("r1", model.CategoryPaint, 2),
	})
	require.NoError(t, err)

	fl := est.ByCategory[model.CategoryFlooring]
	assert.InDelta(t, 250, fl.Low, 1e-9)
	assert.InDelta(t, 500, fl.Mid, 1e-9)
	assert.InDelta(t, 800, fl.High, 1e-9)

	p := est.ByCategory[model.CategoryPaint]
	assert.InDelta(t, 50, p.Low, 1e-9)
	assert.Equal(t, "2025-us-national", est.PricingVersion)
}

func TestCalculate_TotalIsSumOfParts(t *testing.T) {
	calc := NewCalculator(DefaultTable())
	est, err := calc.Calculate([]model.MaterialQuantity{
		qty("r1", model.CategoryFlooring, 100),
		qty("r2", model.CategoryFlooring, 50),
		qty("r1", model.CategoryDrywall, 11),
		qty("r1", model.CategoryPaint, 2),
	})
	require.NoError(t, err)

	var low, mid, high float64
	for _, band := range est.ByCategory {
		low += band.Low
		mid += band.Mid
		high += band.High
	}
	assert.InDelta(t, low, est.Total.Low, 1e-9)
	assert.InDelta(t, mid, est.Total.Mid, 1e-9)
	assert.InDelta(t, high, est.Total.High, 1e-9)
}

func TestCalculate_LowLeqMidLeqHigh(t *testing.T) {
	calc := NewCalculator(DefaultTable())
	est, err := calc.Calculate([]model.MaterialQuantity{
		qty("r1", model.CategoryFlooring, 120),
		qty("r1", model.CategoryDrywall, 9),
		qty("r1", model.CategoryPaint, 3),
	})
	require.NoError(t, err)
	for cat, band := range est.ByCategory {
		assert.LessOrEqual(t, band.Low, band.Mid, "category %s", cat)
		assert.LessOrEqual(t, band.Mid, band.High, "category %s", cat)
	}
	assert.LessOrEqual(t, est.Total.Low, est.Total.Mid)
	assert.LessOrEqual(t, est.Total.Mid, est.Total.High)
}

func TestCalculate_MissingCategoryFailsHard(t *testing.T) {
	table := DefaultTable()
	delete(table.Categories, model.CategoryPaint)
	calc := NewCalculator(table)

	est, err := calc.Calculate([]model.MaterialQuantity{
		qty("r1", model.CategoryFlooring, 100),
		qty("r1", model.CategoryPaint, 2),
	})
	assert.Nil(t, est)
	assert.True(t, errors.Is(err, ErrPricingTableIncomplete))
}

func TestCalculate_RegionalMultiplier(t *testing.T) {
	table := DefaultTable()
	table.RegionalMultiplier = 1.25
	est, err := NewCalculator(table).Calculate([]model.MaterialQuantity{
		qty("r1", model.CategoryFlooring, 100),
	})
	require.NoError(t, err)
	assert.InDelta(t, 312.5, est.ByCategory[model.CategoryFlooring].Low, 1e-9)
}

func TestCalculate_EmptyQuantities(t *testing.T) {
	est, err := NewCalculator(DefaultTable()).Calculate(nil)
	require.NoError(t, err)
	assert.Empty(t, est.ByCategory)
	assert.Equal(t, model.CostBand{}, est.Total)
}

func TestCalculate_TrimPricedPerLinearFoot(t *testing.T) {
	est, err := NewCalculator(DefaultTable()).Calculate([]model.MaterialQuantity{
		qtyLabor("r1", model.CategoryBaseboard, 48.4, 44),
		qtyLabor("r1", model.CategoryCrownMolding, 50.6, 44),
	})
	require.NoError(t, err)

	bb := est.ByCategory[model.CategoryBaseboard]
	assert.InDelta(t, 48.4, bb.Low, 1e-9)
	assert.InDelta(t, 121.0, bb.Mid, 1e-9)

	cm := est.ByCategory[model.CategoryCrownMolding]
	assert.InDelta(t, 75.9, cm.Low, 1e-9)
	assert.InDelta(t, 404.8, cm.High, 1e-9)
}

func TestCalculate_LaborBilledAgainstBasis(t *testing.T) {
	calc := NewCalculator(DefaultTable(), WithLabor())
	est, err := calc.Calculate([]model.MaterialQuantity{
		// 132 sqft installed flooring over 120 sqft of floor.
		qtyLabor("r1", model.CategoryFlooring, 132, 120),
		// 44 linear ft of baseboard.
		qtyLabor("r1", model.CategoryBaseboard, 48.4, 44),
	})
	require.NoError(t, err)

	// 120 * 4.00 + 44 * 3.00 = 612
	assert.InDelta(t, 612, est.Labor, 1e-9)
	require.NotNil(t, est.GrandTotal)
	assert.InDelta(t, est.Total.Low+612, est.GrandTotal.Low, 1e-9)
	assert.Nil(t, est.Contingency)
}

func TestCalculate_LaborScalesWithRegionalMultiplier(t *testing.T) {
	table := DefaultTable()
	table.RegionalMultiplier = 1.5
	est, err := NewCalculator(table, WithLabor()).Calculate([]model.MaterialQuantity{
		qtyLabor("r1", model.CategoryFlooring, 110, 100),
	})
	require.NoError(t, err)
	// 100 * 4.00 * 1.5 = 600
	assert.InDelta(t, 600, est.Labor, 1e-9)
}

func TestCalculate_ContingencyOnMaterialsAndLabor(t *testing.T) {
	calc := NewCalculator(DefaultTable(), WithLabor(), WithContingency(0.10))
	est, err := calc.Calculate([]model.MaterialQuantity{
		qtyLabor("r1", model.CategoryFlooring, 100, 100),
	})
	require.NoError(t, err)

	// Materials low 250, labor 400, contingency 10% of the sum.
	assert.InDelta(t, 400, est.Labor, 1e-9)
	require.NotNil(t, est.Contingency)
	assert.InDelta(t, 65, est.Contingency.Low, 1e-9)
	assert.InDelta(t, 90, est.Contingency.Mid, 1e-9)

	require.NotNil(t, est.GrandTotal)
	assert.InDelta(t, 250+400+65, est.GrandTotal.Low, 1e-9)
	assert.InDelta(t, 500+400+90, est.GrandTotal.Mid, 1e-9)
}

func TestCalculate_ContingencyWithoutLabor(t *testing.T) {
	calc := NewCalculator(DefaultTable(), WithContingency(0.10))
	est, err := calc.Calculate([]model.MaterialQuantity{
		qtyLabor("r1", model.CategoryFlooring, 100, 100),
	})
	require.NoError(t, err)

	assert.Zero(t, est.Labor)
	require.NotNil(t, est.Contingency)
	assert.InDelta(t, 25, est.Contingency.Low, 1e-9)
	require.NotNil(t, est.GrandTotal)
	assert.InDelta(t, 275, est.GrandTotal.Low, 1e-9)
}

func TestCalculate_NoOptionsOmitsLaborAndContingency(t *testing.T) {
	est, err := NewCalculator(DefaultTable()).Calculate([]model.MaterialQuantity{
		qtyLabor("r1", model.CategoryFlooring, 100, 100),
	})
	require.NoError(t, err)
	assert.Zero(t, est.Labor)
	assert.Nil(t, est.Contingency)
	assert.Nil(t, est.GrandTotal)
}
