package scan

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/migratum/gapscan/pkg/errors"
	"github.com/migratum/gapscan/pkg/inventory"
)

// LoadContext issues the three tenant-scoped context queries for one asset.
// The queries are mutually independent, so they run concurrently; the
// result is the immutable snapshot every field evaluation shares. Zero rows
// from any query is a valid outcome, a failed query is not.
func LoadContext(ctx context.Context, loader inventory.ContextLoader, scope inventory.TenantScope, assetID uuid.UUID) (*inventory.Context, error) {
	sctx := &inventory.Context{
		Scope:   scope,
		AssetID: assetID,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		apps, err := loader.LinkedApplications(gctx, scope, assetID)
		if err != nil {
			return errors.WrapQuery("linked_applications", assetID.String(), err)
		}
		sctx.Applications = apps
		return nil
	})

	g.Go(func() error {
		related, err := loader.RelatedAssets(gctx, scope, assetID)
		if err != nil {
			return errors.WrapQuery("related_assets", assetID.String(), err)
		}
		sctx.Related = related
		return nil
	})

	g.Go(func() error {
		enrichments, err := loader.Enrichments(gctx, scope, assetID)
		if err != nil {
			return errors.WrapQuery("enrichments", assetID.String(), err)
		}
		sctx.Enrichments = enrichments
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sctx, nil
}
