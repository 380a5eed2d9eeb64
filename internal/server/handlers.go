package server

import (
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"log/slog"
	"net/http"
	"time"

	"standings-ticker/internal/domain"
	"standings-ticker/internal/poller"
	"standings-ticker/internal/render"
	"standings-ticker/internal/store"
)

// StripRenderer composes league sections into the ticker bitmap.
type StripRenderer interface {
	Render(sections []domain.LeagueSection) (*image.RGBA, error)
}

// Handler serves the read-only HTTP surface over the section snapshot.
type Handler struct {
	store    *store.MemoryStore
	logger   *slog.Logger
	statusFn func() poller.Status
	renderer StripRenderer
}

// NewHandler constructs a Handler backed by the given store.
func NewHandler(sectionStore *store.MemoryStore, logger *slog.Logger, statusFn func() poller.Status, renderer StripRenderer) *Handler {
	return &Handler{store: sectionStore, logger: logger, statusFn: statusFn, renderer: renderer}
}

type standingsResponse struct {
	UpdatedAt string            `json:"updated_at,omitempty"`
	Sections  []sectionResponse `json:"sections"`
}

type sectionResponse struct {
	League      string `json:"league"`
	LeagueName  string `json:"league_name,omitempty"`
	RankingName string `json:"ranking_name,omitempty"`
	Teams       any    `json:"teams"`
}

// Health always returns 200; liveness only.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready returns 200 once the poller has warmed the snapshot and is not
// failing repeatedly.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.statusFn == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
		return
	}
	status := h.statusFn()
	body := map[string]any{
		"consecutive_failures": status.ConsecutiveFailures,
		"last_error":           status.LastError,
	}
	if !status.LastSuccess.IsZero() {
		body["last_success"] = status.LastSuccess.UTC().Format(time.RFC3339)
	}
	if status.IsReady() {
		body["status"] = "ready"
		writeJSON(w, http.StatusOK, body)
		return
	}
	body["status"] = "not_ready"
	writeJSON(w, http.StatusServiceUnavailable, body)
}

// Standings returns the current section snapshot.
func (h *Handler) Standings(w http.ResponseWriter, r *http.Request) {
	resp := standingsResponse{Sections: []sectionResponse{}}
	if h.store != nil {
		if at := h.store.UpdatedAt(); !at.IsZero() {
			resp.UpdatedAt = at.UTC().Format(time.RFC3339)
		}
		for _, sec := range h.store.Sections() {
			resp.Sections = append(resp.Sections, sectionResponse{
				League:      sec.LeagueKey,
				LeagueName:  sec.LeagueName,
				RankingName: sec.RankingName,
				Teams:       sec.Teams,
			})
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Strip renders the current snapshot to the ticker bitmap and serves it as
// PNG, mostly for debugging the layout without a physical display.
func (h *Handler) Strip(w http.ResponseWriter, r *http.Request) {
	if h.renderer == nil || h.store == nil {
		http.NotFound(w, r)
		return
	}
	strip, err := h.renderer.Render(h.store.Sections())
	if err != nil {
		if errors.Is(err, render.ErrNoSections) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no standings yet"})
			return
		}
		if h.logger != nil {
			h.logger.Error("strip render failed", "error", err)
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "render failed"})
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_ = png.Encode(w, strip)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
