package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.InDelta(t, 0.10, cfg.Tolerances.AreaMismatch, 0.001)
	assert.InDelta(t, 0.15, cfg.Tolerances.RoomDedup, 0.001)
	assert.Equal(t, 1, cfg.Tolerances.MaxPageDistance)
	assert.InDelta(t, 0.10, cfg.Materials.WasteFactor, 0.001)
	assert.InDelta(t, 8.0, cfg.Materials.WallHeightFt, 0.001)
	assert.InDelta(t, 0.15, cfg.Materials.OpeningDeduction, 0.001)
	assert.InDelta(t, 350.0, cfg.Materials.PaintCoverageSqFt, 0.001)
	assert.Equal(t, 2, cfg.Materials.PaintCoats)
	assert.Empty(t, cfg.Materials.NonFlooredLabels)
	assert.InDelta(t, 1.0, cfg.Pricing.RegionalMultiplier, 0.001)
	assert.Equal(t, "anthropic", cfg.Extract.Provider)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, 4, cfg.Batch.MaxConcurrentDocuments)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
tolerances:
  area_mismatch: 0.2
  unit_hint: ft-in
materials:
  paint_coats: 3
  non_floored_labels:
    - closet
pricing:
  version: custom-v2
  categories:
    flooring:
      low: 1
      mid: 2
      high: 3
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.InDelta(t, 0.2, cfg.Tolerances.AreaMismatch, 0.001)
	assert.Equal(t, "ft-in", cfg.Tolerances.UnitHint)
	assert.Equal(t, 3, cfg.Materials.PaintCoats)
	assert.Equal(t, []string{"closet"}, cfg.Materials.NonFlooredLabels)
	assert.Equal(t, "custom-v2", cfg.Pricing.Version)
	require.Contains(t, cfg.Pricing.Categories, "flooring")
	assert.InDelta(t, 2.0, cfg.Pricing.Categories["flooring"].Mid, 0.001)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Defaults still apply to untouched keys.
	assert.InDelta(t, 0.15, cfg.Tolerances.RoomDedup, 0.001)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NotNil(t, zap.L())

	assert.Error(t, InitLogger(LogConfig{Level: "nope", Format: "json"}))
}
