// Package cmd implements the gapscan CLI.
package cmd

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/migratum/gapscan/internal/config"
	"github.com/migratum/gapscan/internal/embedded"
	"github.com/migratum/gapscan/internal/server"
	"github.com/migratum/gapscan/internal/store/memory"
	"github.com/migratum/gapscan/internal/store/postgres"
	"github.com/migratum/gapscan/pkg/fieldcatalog"
	"github.com/migratum/gapscan/pkg/inventory"
	"github.com/migratum/gapscan/pkg/logging"
)

var (
	cfgFile   string
	logLevel  string
	logFormat string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "gapscan",
	Short: "Intelligent gap detection for migration assessments",
	Long: `gapscan decides, per inventory field, whether a value is truly
missing or already present in a secondary data source: custom attribute
tags, linked canonical applications, enrichment records, or the asset's
dependency topology.

Without a configured database it runs against a built-in demo inventory,
which is the quickest way to see what a scan produces.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		logCfg := cfg.LoggingConfig()
		if logLevel != "" {
			logCfg.Level = logLevel
		}
		if logFormat != "" {
			logCfg.Format = logFormat
		}
		logging.Configure(logCfg)
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./gapscan.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (json, console, auto)")

	rootCmd.AddCommand(newScanCommand())
	rootCmd.AddCommand(newCatalogCommand())
	rootCmd.AddCommand(newServeCommand())
}

// fixtureScope is non-zero when the demo fixture backs the process; its
// scope then overrides whatever the flags say.
var fixtureScope inventory.TenantScope

// openBackend returns the configured storage backend. Without a database DSN
// it falls back to the demo fixture.
func openBackend(cmd *cobra.Command) (server.Backend, func(), error) {
	if cfg.Database.DSN == "" {
		store, scope, _ := memory.Fixture()
		fixtureScope = scope
		logging.Default().Info().
			Str("tenant_id", scope.TenantID.String()).
			Str("project_id", scope.ProjectID.String()).
			Msg("No database configured, using demo fixture inventory")
		return store, func() {}, nil
	}

	store, err := postgres.Open(cmd.Context(), cfg.Database.DSN,
		postgres.WithQueryTimeout(cfg.Database.QueryTimeout))
	if err != nil {
		return nil, nil, err
	}
	return store, func() { _ = store.Close() }, nil
}

// resolveScope picks the tenant scope for a scan: the fixture's own scope
// when the demo backend is active, the flags otherwise.
func resolveScope(tenantFlag, projectFlag string) (inventory.TenantScope, error) {
	if fixtureScope.TenantID != uuid.Nil {
		return fixtureScope, nil
	}
	return parseScope(tenantFlag, projectFlag)
}

func parseScope(tenantFlag, projectFlag string) (inventory.TenantScope, error) {
	tenantID, err := uuid.Parse(tenantFlag)
	if err != nil {
		return inventory.TenantScope{}, fmt.Errorf("invalid --tenant: %w", err)
	}
	projectID, err := uuid.Parse(projectFlag)
	if err != nil {
		return inventory.TenantScope{}, fmt.Errorf("invalid --project: %w", err)
	}
	scope := inventory.TenantScope{TenantID: tenantID, ProjectID: projectID}
	return scope, scope.Validate()
}

// loadCatalog returns the configured field catalog, embedded by default.
func loadCatalog() (*fieldcatalog.Catalog, error) {
	if cfg.Catalog.Path != "" {
		return fieldcatalog.LoadFile(cfg.Catalog.Path)
	}
	return embedded.DefaultCatalog()
}
