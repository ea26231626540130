// Package httpapi exposes the recommendation engine and the dashboard CRUD
// over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/aovlift/aovlift/internal/recommend"
	"github.com/aovlift/aovlift/internal/store"
)

// Engine is the invocation surface of the recommendation core.
type Engine interface {
	GenerateRecommendations(ctx context.Context, shopDomain string) (recommend.RunResult, error)
}

// Records is the store surface the dashboard endpoints need.
type Records interface {
	ListBundles(ctx context.Context, shopDomain string) ([]store.BundleRecord, error)
	ListUpsells(ctx context.Context, shopDomain string) ([]store.UpsellRecord, error)
	SetBundleActive(ctx context.Context, bundleID string, active bool) error
	SetUpsellActive(ctx context.Context, upsellID string, active bool) error
	DeleteBundle(ctx context.Context, bundleID string) error
	DeleteUpsell(ctx context.Context, upsellID string) error
	LatestAnalytics(ctx context.Context, shopDomain string) (store.AnalyticsSnapshot, error)
	UpsertAnalytics(ctx context.Context, shopDomain string, snap store.AnalyticsSnapshot) error
}

type Server struct {
	engine  Engine
	records Records
}

func NewServer(engine Engine, records Records) http.Handler {
	s := &Server{engine: engine, records: records}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/recommendations/generate", s.handleGenerate)
	mux.HandleFunc("/v1/bundles", s.handleListBundles)
	mux.HandleFunc("/v1/bundles/", s.handleBundle)
	mux.HandleFunc("/v1/upsells", s.handleListUpsells)
	mux.HandleFunc("/v1/upsells/", s.handleUpsell)
	mux.HandleFunc("/v1/analytics", s.handleAnalytics)
	mux.HandleFunc("/v1/health", s.handleHealth)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"ok": false,
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "POST required")
		return
	}
	var req struct {
		Shop string `json:"shop"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Shop) == "" {
		writeError(w, http.StatusBadRequest, "validation", "shop is required")
		return
	}
	result, err := s.engine.GenerateRecommendations(r.Context(), strings.TrimSpace(req.Shop))
	if err != nil {
		log.Printf("httpapi generate_failed shop=%s err=%q", req.Shop, err.Error())
		writeError(w, http.StatusBadGateway, "generation_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListBundles(w http.ResponseWriter, r *http.Request) {
	shop, ok := requireShop(w, r)
	if !ok {
		return
	}
	records, err := s.records.ListBundles(r.Context(), shop)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bundles": records})
}

func (s *Server) handleListUpsells(w http.ResponseWriter, r *http.Request) {
	shop, ok := requireShop(w, r)
	if !ok {
		return
	}
	records, err := s.records.ListUpsells(r.Context(), shop)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"upsells": records})
}

// handleBundle serves /v1/bundles/{id} (DELETE) and /v1/bundles/{id}/active (POST).
func (s *Server) handleBundle(w http.ResponseWriter, r *http.Request) {
	s.handleRecord(w, r, "/v1/bundles/", recordOps{
		setActive: s.records.SetBundleActive,
		delete:    s.records.DeleteBundle,
	})
}

func (s *Server) handleUpsell(w http.ResponseWriter, r *http.Request) {
	s.handleRecord(w, r, "/v1/upsells/", recordOps{
		setActive: s.records.SetUpsellActive,
		delete:    s.records.DeleteUpsell,
	})
}

type recordOps struct {
	setActive func(ctx context.Context, id string, active bool) error
	delete    func(ctx context.Context, id string) error
}

func (s *Server) handleRecord(w http.ResponseWriter, r *http.Request, prefix string, ops recordOps) {
	rest := strings.TrimPrefix(r.URL.Path, prefix)
	id, action, _ := strings.Cut(rest, "/")
	if id == "" {
		writeError(w, http.StatusNotFound, "not_found", "missing record id")
		return
	}
	switch {
	case action == "active" && r.Method == http.MethodPost:
		var req struct {
			Active bool `json:"active"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "validation", "invalid json: "+err.Error())
			return
		}
		if err := ops.setActive(r.Context(), id, req.Active); err != nil {
			writeRecordError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "active": req.Active})
	case action == "" && r.Method == http.MethodDelete:
		if err := ops.delete(r.Context(), id); err != nil {
			writeRecordError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported operation")
	}
}

func writeRecordError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found", "no such record")
		return
	}
	writeError(w, http.StatusInternalServerError, "internal", err.Error())
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		shop, ok := requireShop(w, r)
		if !ok {
			return
		}
		snap, err := s.records.LatestAnalytics(r.Context(), shop)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, snap)
	case http.MethodPost:
		var req struct {
			Shop     string                  `json:"shop"`
			Snapshot store.AnalyticsSnapshot `json:"snapshot"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Shop) == "" {
			writeError(w, http.StatusBadRequest, "validation", "shop is required")
			return
		}
		if err := s.records.UpsertAnalytics(r.Context(), req.Shop, req.Snapshot); err != nil {
			writeError(w, http.StatusInternalServerError, "internal", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "GET or POST required")
	}
}

func requireShop(w http.ResponseWriter, r *http.Request) (string, bool) {
	shop := strings.TrimSpace(r.URL.Query().Get("shop"))
	if shop == "" {
		writeError(w, http.StatusBadRequest, "validation", "shop query parameter is required")
		return "", false
	}
	return shop, true
}
