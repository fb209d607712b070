package cli

import (
	"fmt"
	"path/filepath"

	"github.com/voicedesk/voicedesk/internal/assistant"
	"github.com/voicedesk/voicedesk/internal/catalog"
	"github.com/voicedesk/voicedesk/internal/config"
	"github.com/voicedesk/voicedesk/internal/dialog"
	"github.com/voicedesk/voicedesk/internal/domain"
	"github.com/voicedesk/voicedesk/internal/hooks"
	"github.com/voicedesk/voicedesk/internal/llm"
	"github.com/voicedesk/voicedesk/internal/store"
)

// app bundles the collaborators the serve and chat commands assemble a
// dialogue engine from.
type app struct {
	hooks    *hooks.Manager
	db       *store.DB
	registry *assistant.Registry
	engine   *dialog.Engine
}

// newApp opens the stores and catalog per the config and wires the
// dialogue engine. The caller owns Close.
func newApp(cfg config.Config) (*app, error) {
	if err := paths.EnsureDirs(); err != nil {
		return nil, err
	}

	db, err := store.Open(paths.DB, log)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	var sessLog dialog.SessionLog
	if cfg.Session.Store == "sqlite" {
		sessLog = store.NewSQLiteSessionLog(db)
		log.Info().Str("path", paths.DB).Msg("session transcripts on sqlite")
	} else {
		sessLog = store.NopSessionLog{}
	}

	catalogDir := cfg.Assistants.CatalogDir
	if catalogDir == "" {
		catalogDir = paths.Catalog
	}
	recordDir := cfg.Assistants.RecordDir
	if recordDir == "" {
		recordDir = paths.Records
	}

	deps := assistant.Deps{
		Catalog:  catalog.Load(catalogDir, log),
		Cases:    store.NewCaseStore(db),
		Leads:    store.NewCollection(filepath.Join(recordDir, "leads.json"), func(l domain.Lead) string { return l.ID }, log),
		Orders:   store.NewCollection(filepath.Join(recordDir, "orders.json"), func(o domain.Order) string { return o.ID }, log),
		Checkins: store.NewCollection(filepath.Join(recordDir, "wellness.json"), func(e domain.WellnessEntry) string { return e.ID }, log),
		Coffee:   store.NewCollection(filepath.Join(recordDir, "coffee_orders.json"), func(o domain.CoffeeOrder) string { return o.ID }, log),
	}

	hookMgr := hooks.NewManager(log)
	engine := dialog.NewEngine(dialog.Config{
		Client:       llm.NewClientFromConfig(cfg.Model, log),
		Model:        cfg.Model.Name,
		MaxTokens:    cfg.Model.MaxTokens,
		MaxToolCalls: cfg.Session.MaxToolCalls,
		Temperature:  cfg.Model.Temperature,
		Hooks:        hookMgr,
		Log:          log,
		SessionLog:   sessLog,
	})

	return &app{
		hooks:    hookMgr,
		db:       db,
		registry: assistant.NewRegistry(deps),
		engine:   engine,
	}, nil
}

func (a *app) Close() error { return a.db.Close() }
