//go:build !integration

package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scruffyjerk/blueprint-intelligence-engine/internal/config"
	"github.com/scruffyjerk/blueprint-intelligence-engine/internal/model"
)

func TestBuildPricingTable_Default(t *testing.T) {
	cfg = testConfig()

	table, err := buildPricingTable()
	require.NoError(t, err)
	assert.Equal(t, "2025-us-national", table.Version)
	assert.Contains(t, table.Categories, model.CategoryFlooring)
	assert.Contains(t, table.Categories, model.CategoryDrywall)
	assert.Contains(t, table.Categories, model.CategoryPaint)
}

func TestBuildPricingTable_RegionalMultiplierOverride(t *testing.T) {
	cfg = testConfig()
	cfg.Pricing.RegionalMultiplier = 1.35

	table, err := buildPricingTable()
	require.NoError(t, err)
	assert.Equal(t, 1.35, table.RegionalMultiplier)
}

func TestBuildPricingTable_InlineCategories(t *testing.T) {
	cfg = testConfig()
	cfg.Pricing.Version = "custom"
	cfg.Pricing.Categories = map[string]config.TierPricing{
		"flooring": {Low: 1, Mid: 2, High: 3, Labor: 4},
	}

	table, err := buildPricingTable()
	require.NoError(t, err)
	assert.Equal(t, "custom", table.Version)
	require.Contains(t, table.Categories, model.CategoryFlooring)
	assert.Equal(t, 2.0, table.Categories[model.CategoryFlooring].Mid)
	assert.Equal(t, 4.0, table.Categories[model.CategoryFlooring].Labor)
	assert.NotContains(t, table.Categories, model.CategoryPaint)
}

func TestBuildPricingTable_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pricing.yaml")
	yaml := `version: 2026-test
regional_multiplier: 1.1
categories:
  flooring:
    low: 3.0
    mid: 6.0
    high: 9.0
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg = testConfig()
	cfg.Pricing.Path = path

	table, err := buildPricingTable()
	require.NoError(t, err)
	assert.Equal(t, "2026-test", table.Version)
	assert.Equal(t, 6.0, table.Categories[model.CategoryFlooring].Mid)
	assert.Equal(t, 1.1, table.RegionalMultiplier)
}

func TestBuildPricingTable_MissingFile(t *testing.T) {
	cfg = testConfig()
	cfg.Pricing.Path = filepath.Join(t.TempDir(), "nope.yaml")

	_, err := buildPricingTable()
	require.Error(t, err)
}

func TestInitStore_SQLite(t *testing.T) {
	cfg = testConfig()
	cfg.Store.Driver = "sqlite"
	cfg.Store.DatabaseURL = filepath.Join(t.TempDir(), "takeoff.db")

	st, err := initStore(context.Background())
	require.NoError(t, err)
	defer st.Close()

	require.NoError(t, st.Migrate(context.Background()))
}

func TestInitStore_UnsupportedDriver(t *testing.T) {
	cfg = testConfig()
	cfg.Store.Driver = "cassandra"

	_, err := initStore(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cassandra")
}

func TestInitExtractor_MissingKey(t *testing.T) {
	cfg = testConfig()
	cfg.Extract.Provider = "anthropic"
	cfg.Extract.Key = ""

	_, err := initExtractor()
	require.Error(t, err)
}

func TestInitExtractor_UnsupportedProvider(t *testing.T) {
	cfg = testConfig()
	cfg.Extract.Provider = "openai"

	_, err := initExtractor()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai")
}
