package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/intakeflow/intakeflow/internal/config"
	"github.com/intakeflow/intakeflow/internal/db"
	"github.com/intakeflow/intakeflow/internal/llm"
	"github.com/intakeflow/intakeflow/internal/patterns"
	"github.com/intakeflow/intakeflow/internal/session"
)

// openDatabase opens the intake database under the configured data dir,
// creating the directory if needed.
func openDatabase(cfg *config.Config) (*db.DB, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	return db.Open(filepath.Join(cfg.DataDir, "intakeflow.db"))
}

// loadPatterns returns the configured rule library or the builtin one when
// no override file is set.
func loadPatterns(cfg *config.Config) (*patterns.Library, error) {
	if cfg.PatternsFile == "" {
		return patterns.Default(), nil
	}
	return patterns.Load(cfg.PatternsFile)
}

// createProvider returns the completion provider, or nil when no API key is
// configured. The pipeline degrades to its deterministic paths without one.
func createProvider(cfg *config.Config) llm.Provider {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "Warning: OPENAI_API_KEY not set; replies use templates and intent classification is rule-only")
		return nil
	}
	return llm.NewOpenAIProvider(apiKey, cfg.Model)
}

// loadStores opens the database, session store, clients and rule library in
// one go for commands that need the full stack.
func loadStores(cfg *config.Config) (*db.DB, *session.Store, *config.Clients, *patterns.Library, error) {
	database, err := openDatabase(cfg)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("opening database: %w", err)
	}

	clients, err := config.LoadClients(cfg.ClientsDir)
	if err != nil {
		database.Close()
		return nil, nil, nil, nil, fmt.Errorf("loading clients: %w", err)
	}

	lib, err := loadPatterns(cfg)
	if err != nil {
		database.Close()
		return nil, nil, nil, nil, fmt.Errorf("loading patterns: %w", err)
	}

	return database, session.NewStore(database), clients, lib, nil
}
