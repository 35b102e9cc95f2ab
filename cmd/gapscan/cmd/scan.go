package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/migratum/gapscan/internal/server"
	"github.com/migratum/gapscan/pkg/gaps"
	"github.com/migratum/gapscan/pkg/inventory"
	"github.com/migratum/gapscan/pkg/logging"
	"github.com/migratum/gapscan/pkg/prefill"
	"github.com/migratum/gapscan/pkg/scan"
)

func newScanCommand() *cobra.Command {
	var (
		assetFlag    string
		tenantFlag   string
		projectFlag  string
		priorities   []string
		trueGapsOnly bool
		jsonOut      bool
		showPrefill  bool
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan assets for intelligent gaps",
		Long: `Scan evaluates every catalog field for an asset and reports, per field,
whether the value is a true gap or was found in a secondary source.

With --asset it scans one asset; without it, every asset in scope.`,
		Example: `  # Scan the demo inventory
  gapscan scan

  # Scan one asset, critical and high priority fields only
  gapscan scan --asset 6b1f... --priority critical --priority high

  # Only fields nobody has an answer for
  gapscan scan --true-gaps-only

  # Machine-readable output with pre-fill suggestions
  gapscan scan --asset 6b1f... --json --prefill`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			backend, cleanup, err := openBackend(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			scope, err := resolveScope(tenantFlag, projectFlag)
			if err != nil {
				return err
			}

			catalog, err := loadCatalog()
			if err != nil {
				return err
			}

			var scanOpts []scan.ScanOption
			if trueGapsOnly {
				scanOpts = append(scanOpts, scan.TrueGapsOnly())
			}
			if len(priorities) > 0 {
				parsed := make([]gaps.Priority, 0, len(priorities))
				for _, p := range priorities {
					priority, err := gaps.ParsePriority(p)
					if err != nil {
						return err
					}
					parsed = append(parsed, priority)
				}
				scanOpts = append(scanOpts, scan.WithPriorities(parsed...))
			}

			scanner, err := scan.New(backend, scope,
				scan.WithWorkers(cfg.Scan.Workers),
				scan.WithBatchLimit(cfg.Scan.BatchLimit),
				scan.WithQueryRate(cfg.Scan.QueryRate),
				scan.WithLogger(logging.Default()),
			)
			if err != nil {
				return err
			}

			assets, err := resolveTargets(cmd.Context(), backend, scope, assetFlag)
			if err != nil {
				return err
			}

			for _, asset := range assets {
				results, err := scanner.Scan(cmd.Context(), asset, catalog, scanOpts...)
				if err != nil {
					return err
				}
				if jsonOut {
					if err := printJSON(asset, results, showPrefill); err != nil {
						return err
					}
					continue
				}
				printTable(asset, results)
				if showPrefill {
					printSuggestions(prefill.Suggestions(results))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&assetFlag, "asset", "a", "", "asset id to scan (default: all assets in scope)")
	cmd.Flags().StringVar(&tenantFlag, "tenant", "", "tenant id (required with a database)")
	cmd.Flags().StringVar(&projectFlag, "project", "", "project id (required with a database)")
	cmd.Flags().StringArrayVarP(&priorities, "priority", "p", nil, "only fields with these priorities (repeatable)")
	cmd.Flags().BoolVar(&trueGapsOnly, "true-gaps-only", false, "only report fields with no evidence anywhere")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "JSON output")
	cmd.Flags().BoolVar(&showPrefill, "prefill", false, "include pre-fill suggestions")

	return cmd
}

// assetLister is satisfied by backends that can enumerate a scope, which the
// in-memory demo store does. Database-backed runs must name an asset.
type assetLister interface {
	Assets(scope inventory.TenantScope) []inventory.Asset
}

// resolveTargets picks the asset handles to scan: one by id, or every asset
// in scope when the backend can enumerate them.
func resolveTargets(ctx context.Context, backend server.Backend, scope inventory.TenantScope, assetFlag string) ([]inventory.Asset, error) {
	if assetFlag != "" {
		assetID, err := uuid.Parse(assetFlag)
		if err != nil {
			return nil, fmt.Errorf("invalid --asset: %w", err)
		}
		asset, err := backend.Asset(ctx, scope, assetID)
		if err != nil {
			return nil, err
		}
		return []inventory.Asset{asset}, nil
	}

	lister, ok := backend.(assetLister)
	if !ok {
		return nil, fmt.Errorf("--asset is required when scanning a database")
	}
	assets := lister.Assets(scope)
	if len(assets) == 0 {
		return nil, fmt.Errorf("no assets in scope")
	}
	return assets, nil
}

func printTable(asset inventory.Asset, results []gaps.IntelligentGap) {
	fmt.Printf("\nAsset %s (%s)\n", asset.Name(), asset.ID())

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FIELD\tPRIORITY\tSECTION\tVERDICT\tBEST SOURCE\tSCORE")
	for _, g := range results {
		verdict := "found"
		source := "-"
		if g.IsTrueGap {
			verdict = "TRUE GAP"
		} else if best, ok := g.BestSource(); ok {
			source = string(best.SourceType)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.2f\n",
			g.FieldID, g.Priority, g.Section, verdict, source, g.ConfidenceScore)
	}
	_ = w.Flush()
}

func printSuggestions(suggestions []prefill.Suggestion) {
	if len(suggestions) == 0 {
		return
	}
	fmt.Println("\nPre-fill suggestions:")
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FIELD\tVALUE\tSOURCE\tCONFIDENCE")
	for _, s := range suggestions {
		fmt.Fprintf(w, "%s\t%v\t%s\t%.2f\n", s.FieldID, s.Value, s.SourceType, s.Confidence)
	}
	_ = w.Flush()
}

func printJSON(asset inventory.Asset, results []gaps.IntelligentGap, includePrefill bool) error {
	out := map[string]any{
		"asset_id":   asset.ID(),
		"asset_name": asset.Name(),
		"gaps":       results,
	}
	if includePrefill {
		out["suggestions"] = prefill.Suggestions(results)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
