// Package integration exercises the whole pipeline: fixture inventory,
// client facade, scan engine, and the HTTP surface, together.
package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/migratum/gapscan"
	"github.com/migratum/gapscan/internal/embedded"
	"github.com/migratum/gapscan/internal/server"
	"github.com/migratum/gapscan/internal/store/memory"
	"github.com/migratum/gapscan/pkg/gaps"
	"github.com/migratum/gapscan/pkg/logging"
	"github.com/migratum/gapscan/pkg/scan"
)

func TestFixtureEndToEnd(t *testing.T) {
	store, scope, assetIDs := memory.Fixture()
	require.Len(t, assetIDs, 3)

	client, err := gapscan.New(
		gapscan.WithBackend(store),
		gapscan.WithScope(scope.TenantID, scope.ProjectID),
		gapscan.WithLogger(&logging.Nop),
		gapscan.WithBatchLimit(2),
		gapscan.WithQueryRate(1000),
	)
	require.NoError(t, err)

	ctx := context.Background()
	results, err := client.ScanAssets(ctx, assetIDs)
	require.NoError(t, err)
	require.Len(t, results, 3)

	documented := results[assetIDs[0]]
	sparse := results[assetIDs[1]]
	blank := results[assetIDs[2]]

	countTrueGaps := func(list []gaps.IntelligentGap) int {
		n := 0
		for _, g := range list {
			if g.IsTrueGap {
				n++
			}
		}
		return n
	}

	// The blank asset has more true gaps than either populated one.
	assert.Less(t, countTrueGaps(documented), countTrueGaps(blank))
	assert.Less(t, countTrueGaps(sparse), countTrueGaps(blank))

	// The blank asset has no secondary data anywhere, so every field is a
	// true gap at full score.
	for _, g := range blank {
		assert.True(t, g.IsTrueGap, "field %s", g.FieldID)
		assert.Equal(t, 1.0, g.ConfidenceScore)
	}

	// Sparse asset: evidence exists only in secondary sources, so nothing
	// should be a standard-column hit but some fields must still resolve.
	resolved := 0
	for _, g := range sparse {
		if g.IsTrueGap {
			continue
		}
		resolved++
		best, ok := g.BestSource()
		require.True(t, ok)
		assert.NotEqual(t, gaps.SourceStandardColumn, best.SourceType,
			"field %s resolved from a standard column on a sparse asset", g.FieldID)
	}
	assert.Greater(t, resolved, 0, "secondary sources must rescue some fields")
}

func TestHTTPSurfaceEndToEnd(t *testing.T) {
	store, scope, assetIDs := memory.Fixture()
	catalog, err := embedded.DefaultCatalog()
	require.NoError(t, err)

	srv, err := server.New(store, catalog, server.Config{Workers: 4},
		server.WithLogger(&logging.Nop))
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	req, err := http.NewRequest(http.MethodGet,
		ts.URL+"/api/v1/assets/"+assetIDs[1].String()+"/gaps?true_gaps=true", nil)
	require.NoError(t, err)
	req.Header.Set("X-Tenant-ID", scope.TenantID.String())
	req.Header.Set("X-Project-ID", scope.ProjectID.String())

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data struct {
			Gaps     []gaps.IntelligentGap `json:"gaps"`
			TrueGaps int                   `json:"true_gaps"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, len(body.Data.Gaps), body.Data.TrueGaps)
	for _, g := range body.Data.Gaps {
		assert.True(t, g.IsTrueGap)
	}
}

func TestClientAndScannerAgree(t *testing.T) {
	store, scope, assetIDs := memory.Fixture()

	client, err := gapscan.New(
		gapscan.WithBackend(store),
		gapscan.WithScope(scope.TenantID, scope.ProjectID),
		gapscan.WithLogger(&logging.Nop),
	)
	require.NoError(t, err)

	scanner, err := scan.New(store, scope, scan.WithLogger(&logging.Nop))
	require.NoError(t, err)

	ctx := context.Background()
	fromClient, err := client.ScanAsset(ctx, assetIDs[0])
	require.NoError(t, err)

	asset, err := store.Asset(ctx, scope, assetIDs[0])
	require.NoError(t, err)
	fromScanner, err := scanner.Scan(ctx, asset, client.Catalog())
	require.NoError(t, err)

	assert.Equal(t, fromScanner, fromClient)
}
