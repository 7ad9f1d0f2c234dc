//go:build !integration

package main

import (
	"github.com/scruffyjerk/blueprint-intelligence-engine/internal/config"
)

// testConfig mirrors the default configuration without touching the
// filesystem or environment.
func testConfig() *config.Config {
	return &config.Config{
		Tolerances: config.TolerancesConfig{
			AreaMismatch:    0.10,
			RoomDedup:       0.15,
			MaxPageDistance: 1,
		},
		Materials: config.MaterialsConfig{
			WasteFactor:       0.10,
			WallHeightFt:      8,
			OpeningDeduction:  0.15,
			PanelSqFt:         32,
			PaintCoverageSqFt: 350,
			PaintCoats:        2,
		},
		Pricing: config.PricingConfig{RegionalMultiplier: 1.0},
		Batch:   config.BatchConfig{MaxConcurrentDocuments: 4},
		Server:  config.ServerConfig{Port: 8080},
	}
}
