package rest

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ewilliams-labs/lyricslink/internal/core/domain"
	"github.com/ewilliams-labs/lyricslink/internal/core/services"
)

const (
	errCodeMetadataUnavailable = "METADATA_UNAVAILABLE"
	errCodeNoProvider          = "NO_PROVIDER"

	defaultHistoryLimit = 20
	maxHistoryLimit     = 200
)

type resolutionResponse struct {
	ID        string    `json:"id,omitempty"`
	Title     string    `json:"title"`
	Artists   []string  `json:"artists"`
	URL       string    `json:"url"`
	Resolved  bool      `json:"resolved"`
	PageTitle string    `json:"page_title,omitempty"`
	Probes    int       `json:"probes"`
	Cached    bool      `json:"cached"`
	CreatedAt time.Time `json:"created_at"`
}

func toResponse(r domain.Resolution) resolutionResponse {
	artists := r.Artists
	if artists == nil {
		artists = []string{}
	}
	return resolutionResponse{
		ID:        r.ID,
		Title:     r.Title,
		Artists:   artists,
		URL:       r.URL,
		Resolved:  r.Resolved,
		PageTitle: r.PageTitle,
		Probes:    r.Probes,
		Cached:    r.Cached,
		CreatedAt: r.CreatedAt,
	}
}

// ResolveLink handles GET /links?title=...&artist=...&artist=...
// Artists are given in contributor order.
func (h *Handler) ResolveLink(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	meta := domain.TrackMetadata{Title: strings.TrimSpace(q.Get("title"))}
	for _, a := range q["artist"] {
		meta.Artists = append(meta.Artists, domain.Artist{Name: strings.TrimSpace(a)})
	}

	res, err := h.svc.ResolveTrack(r.Context(), meta)
	if err != nil {
		h.writeServiceError(w, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(res))
}

// ResolveNowPlaying handles GET /links/now-playing.
func (h *Handler) ResolveNowPlaying(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ResolveNowPlaying(r.Context())
	if err != nil {
		h.writeServiceError(w, err, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(res))
}

// History handles GET /history?limit=N.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	items, err := h.svc.History(r.Context(), limit)
	if err != nil {
		h.log.Errorw("history failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load history")
		return
	}

	out := make([]resolutionResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toResponse(it))
	}
	writeJSON(w, http.StatusOK, out)
}

// writeServiceError maps service errors to statuses. Missing metadata is
// answered with unavailableStatus.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error, unavailableStatus int) {
	switch {
	case errors.Is(err, domain.ErrMetadataUnavailable):
		writeErrorWithCode(w, unavailableStatus, err.Error(), errCodeMetadataUnavailable)
	case errors.Is(err, services.ErrNoProvider):
		writeErrorWithCode(w, http.StatusServiceUnavailable, err.Error(), errCodeNoProvider)
	default:
		h.log.Errorw("resolution failed", "error", err)
		writeError(w, http.StatusInternalServerError, "resolution failed")
	}
}
