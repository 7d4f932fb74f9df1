package main

import (
	"context"
	"fmt"
	"os"

	"grantdraft/internal/config"
	"grantdraft/internal/export"
	"grantdraft/internal/generation"
	"grantdraft/internal/logger"
	"grantdraft/internal/storage"
	"grantdraft/internal/workspace"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:           "grantdraft",
		Short:         "AI-assisted grant proposal drafting",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	configPath string
	dbPath     string
	draftName  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the YAML config file")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Draft store location (overrides storage.path)")
	rootCmd.PersistentFlags().StringVar(&draftName, "draft", storage.DefaultDraft, "Name of the draft to work on")

	rootCmd.AddCommand(stepsCmd)
	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(draftsCmd)
}

// session bundles what one command invocation needs.
type session struct {
	cfg   *config.Config
	log   *logger.Logger
	store storage.Store
	ws    *workspace.Controller
}

func (s *session) Close() {
	if s.store != nil {
		_ = s.store.Close()
	}
	s.log.Sync()
}

// openSession loads config, opens the store and restores the draft. The
// generator is only built when withGenerator is set so that commands which
// never call the provider work without an API key.
func openSession(ctx context.Context, withGenerator bool) (*session, error) {
	if err := storage.ValidateName(draftName); err != nil {
		return nil, err
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if dbPath != "" {
		cfg.Storage.Path = dbPath
	}
	if exportDir != "" {
		cfg.Export.Dir = exportDir
	}

	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}

	store, err := storage.Open(cfg.Storage.Driver, cfg.Storage.Path)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("failed to open draft store: %w", err)
	}
	s := &session{cfg: cfg, log: log, store: store}

	var gen generation.Generator
	if withGenerator {
		gen, err = generation.NewGenerator(ctx, generation.Options{
			Provider:    cfg.AI.Provider,
			APIKey:      cfg.AI.APIKey,
			Model:       cfg.AI.Model,
			BaseURL:     cfg.AI.BaseURL,
			Temperature: cfg.AI.Temperature,
			Timeout:     cfg.AI.Timeout,
		})
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to create generator: %w\nCheck your config.yaml and API_KEY", err)
		}
	}

	basename := draftName
	if basename == storage.DefaultDraft {
		basename = ""
	}
	s.ws = workspace.New(gen, workspace.Options{
		Draft:    draftName,
		Store:    store,
		Exporter: export.NewFileExporter(cfg.Export.Dir, basename),
		Logger:   log,
	})
	if err := s.ws.Load(ctx); err != nil {
		if !isCorrupt(err) {
			s.Close()
			return nil, err
		}
		fmt.Printf("⚠️  Stored draft %q is unreadable, starting fresh.\n", draftName)
	}
	return s, nil
}
