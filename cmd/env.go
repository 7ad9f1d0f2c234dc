package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/scruffyjerk/blueprint-intelligence-engine/internal/cost"
	"github.com/scruffyjerk/blueprint-intelligence-engine/internal/extract"
	"github.com/scruffyjerk/blueprint-intelligence-engine/internal/model"
	"github.com/scruffyjerk/blueprint-intelligence-engine/internal/pipeline"
	"github.com/scruffyjerk/blueprint-intelligence-engine/internal/store"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "takeoff.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// buildPricingTable resolves the pricing table: an external YAML file when
// configured, inline categories otherwise, else the built-in default.
func buildPricingTable() (cost.PricingTable, error) {
	if cfg.Pricing.Path != "" {
		return cost.LoadTable(cfg.Pricing.Path)
	}

	if len(cfg.Pricing.Categories) > 0 {
		table := cost.PricingTable{
			Version:            cfg.Pricing.Version,
			Categories:         make(map[model.Category]cost.TierPrice, len(cfg.Pricing.Categories)),
			RegionalMultiplier: cfg.Pricing.RegionalMultiplier,
		}
		for name, tiers := range cfg.Pricing.Categories {
			table.Categories[model.Category(name)] = cost.TierPrice{
				Low:   tiers.Low,
				Mid:   tiers.Mid,
				High:  tiers.High,
				Labor: tiers.Labor,
			}
		}
		return table, nil
	}

	table := cost.DefaultTable()
	if cfg.Pricing.RegionalMultiplier > 0 {
		table.RegionalMultiplier = cfg.Pricing.RegionalMultiplier
	}
	return table, nil
}

func initExtractor() (extract.Extractor, error) {
	switch cfg.Extract.Provider {
	case "anthropic":
		if cfg.Extract.Key == "" {
			return nil, eris.New("anthropic API key is required (BLUEPRINT_EXTRACT_KEY)")
		}
		return extract.NewAnthropic(cfg.Extract.Key, cfg.Extract.Model, cfg.Extract.MaxTokens, cfg.Extract.RatePerSecond), nil
	default:
		return nil, eris.Errorf("unsupported extract provider: %s", cfg.Extract.Provider)
	}
}

// pipelineEnv bundles the long-lived collaborators a command needs.
type pipelineEnv struct {
	Store     store.Store
	Pipeline  *pipeline.Pipeline
	Extractor extract.Extractor
}

func (e *pipelineEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initPipeline wires store, pricing, and extractor into a ready pipeline.
// needExtractor is false for commands that receive pre-extracted candidates.
func initPipeline(ctx context.Context, needExtractor bool) (*pipelineEnv, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	table, err := buildPricingTable()
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	env := &pipelineEnv{
		Store:    st,
		Pipeline: pipeline.New(cfg, st, table),
	}

	if needExtractor {
		ex, err := initExtractor()
		if err != nil {
			env.Close()
			return nil, err
		}
		env.Extractor = ex
	}

	return env, nil
}
