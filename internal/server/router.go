package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/migratum/gapscan/internal/server/response"
	"github.com/migratum/gapscan/pkg/gaps"
	"github.com/migratum/gapscan/pkg/inventory"
	"github.com/migratum/gapscan/pkg/prefill"
	"github.com/migratum/gapscan/pkg/scan"
)

// Tenant headers. Authentication happens upstream; these identify whose data
// the already-authenticated caller is asking about.
const (
	tenantHeader  = "X-Tenant-ID"
	projectHeader = "X-Project-ID"
)

func (s *Server) router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/v1/catalog/fields", s.handleCatalogFields)
	mux.HandleFunc("GET /api/v1/assets/{id}/gaps", s.handleAssetGaps)
	mux.HandleFunc("GET /api/v1/assets/{id}/prefill", s.handleAssetPrefill)

	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.startTime).Round(time.Second).String(),
	})
}

func (s *Server) handleCatalogFields(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]any{
		"fields":   s.catalog.Fields(),
		"sections": s.catalog.Sections(),
	})
}

// scopeFromRequest reads the tenant scope from the request headers.
func scopeFromRequest(r *http.Request) (inventory.TenantScope, error) {
	tenantID, err := uuid.Parse(r.Header.Get(tenantHeader))
	if err != nil {
		return inventory.TenantScope{}, err
	}
	projectID, err := uuid.Parse(r.Header.Get(projectHeader))
	if err != nil {
		return inventory.TenantScope{}, err
	}
	scope := inventory.TenantScope{TenantID: tenantID, ProjectID: projectID}
	return scope, scope.Validate()
}

// scanOptionsFromQuery translates query parameters into scan options.
func scanOptionsFromQuery(r *http.Request) ([]scan.ScanOption, error) {
	var opts []scan.ScanOption

	if raw := r.URL.Query().Get("priority"); raw != "" {
		var priorities []gaps.Priority
		for _, part := range strings.Split(raw, ",") {
			p, err := gaps.ParsePriority(part)
			if err != nil {
				return nil, err
			}
			priorities = append(priorities, p)
		}
		opts = append(opts, scan.WithPriorities(priorities...))
	}

	if raw := r.URL.Query().Get("true_gaps"); raw != "" {
		trueOnly, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, err
		}
		if trueOnly {
			opts = append(opts, scan.TrueGapsOnly())
		}
	}

	return opts, nil
}

// scanAsset resolves the asset and runs one scan for it. Shared by the gaps
// and prefill endpoints.
func (s *Server) scanAsset(w http.ResponseWriter, r *http.Request) ([]gaps.IntelligentGap, uuid.UUID, bool) {
	scope, err := scopeFromRequest(r)
	if err != nil {
		response.BadRequest(w, "invalid tenant scope headers", err.Error())
		return nil, uuid.Nil, false
	}

	assetID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		response.BadRequest(w, "invalid asset id", err.Error())
		return nil, uuid.Nil, false
	}

	opts, err := scanOptionsFromQuery(r)
	if err != nil {
		response.BadRequest(w, "invalid query parameters", err.Error())
		return nil, uuid.Nil, false
	}

	scanOpts := []scan.Option{scan.WithLogger(s.logger)}
	if s.config.Workers > 0 {
		scanOpts = append(scanOpts, scan.WithWorkers(s.config.Workers))
	}
	if s.config.QueryRate > 0 {
		scanOpts = append(scanOpts, scan.WithQueryRate(s.config.QueryRate))
	}
	scanner, err := scan.New(s.backend, scope, scanOpts...)
	if err != nil {
		response.FromError(w, err)
		return nil, uuid.Nil, false
	}

	asset, err := s.backend.Asset(r.Context(), scope, assetID)
	if err != nil {
		response.FromError(w, err)
		return nil, uuid.Nil, false
	}

	results, err := scanner.Scan(r.Context(), asset, s.catalog, opts...)
	if err != nil {
		response.FromError(w, err)
		return nil, uuid.Nil, false
	}
	return results, assetID, true
}

func (s *Server) handleAssetGaps(w http.ResponseWriter, r *http.Request) {
	results, assetID, ok := s.scanAsset(w, r)
	if !ok {
		return
	}

	trueGaps := 0
	for _, g := range results {
		if g.IsTrueGap {
			trueGaps++
		}
	}
	response.OK(w, map[string]any{
		"asset_id":  assetID,
		"gaps":      results,
		"true_gaps": trueGaps,
	})
}

func (s *Server) handleAssetPrefill(w http.ResponseWriter, r *http.Request) {
	var prefillOpts []prefill.Option
	if raw := r.URL.Query().Get("min_confidence"); raw != "" {
		min, err := strconv.ParseFloat(raw, 64)
		if err != nil || min < 0 || min > 1 {
			response.BadRequest(w, "invalid min_confidence", "must be a number between 0 and 1")
			return
		}
		prefillOpts = append(prefillOpts, prefill.WithMinConfidence(min))
	}

	results, assetID, ok := s.scanAsset(w, r)
	if !ok {
		return
	}

	response.OK(w, map[string]any{
		"asset_id":    assetID,
		"suggestions": prefill.Suggestions(results, prefillOpts...),
	})
}
