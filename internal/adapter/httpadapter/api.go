package httpadapter

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/boss-respawn-tracker/internal/domain"
	"github.com/couchcryptid/boss-respawn-tracker/internal/tracker"
)

type entryResponse struct {
	Name          string          `json:"name"`
	Location      string          `json:"location"`
	Level         int             `json:"level"`
	Kind          domain.Kind     `json:"kind"`
	Status        string          `json:"status"`
	Category      domain.Category `json:"category"`
	RemainingMs   *int64          `json:"remaining_ms"`
	LastOccurred  string          `json:"last_occurred,omitempty"`
	Cooldown      string          `json:"cooldown,omitempty"`
	ScheduledTime string          `json:"scheduled_time,omitempty"`
	Annotation    string          `json:"annotation,omitempty"`
}

type listResponse struct {
	LastUpdated *time.Time      `json:"last_updated"`
	Bosses      []entryResponse `json:"bosses"`
}

type pageResponse struct {
	LastUpdated *time.Time      `json:"last_updated"`
	Page        int             `json:"page"`
	Pages       int             `json:"pages"`
	Total       int             `json:"total"`
	Start       int             `json:"start"` // 1-based, 0 when the page is empty
	End         int             `json:"end"`
	Bosses      []entryResponse `json:"bosses"`
}

type bossResponse struct {
	LastUpdated *time.Time    `json:"last_updated"`
	Boss        entryResponse `json:"boss"`
}

type route struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Description string `json:"description"`
}

var apiRoutes = []route{
	{http.MethodGet, "/api/ready", "bosses that can be fought now"},
	{http.MethodGet, "/api/next?n=", "the n bosses respawning soonest"},
	{http.MethodGet, "/api/bosses?page=", "every boss, ten per page"},
	{http.MethodGet, "/api/bosses/search?name=", "first boss whose name contains the query"},
	{http.MethodPost, "/api/refresh", "reload the sheet now (bearer token)"},
}

func toEntryResponse(e domain.Entry) entryResponse {
	return entryResponse{
		Name:          e.Event.Name,
		Location:      e.Event.Location,
		Level:         e.Event.Level,
		Kind:          e.Event.Kind,
		Status:        e.Status.Label,
		Category:      e.Status.Category,
		RemainingMs:   e.Status.RemainingMs(),
		LastOccurred:  e.Event.LastOccurred,
		Cooldown:      e.Event.Cooldown,
		ScheduledTime: e.Event.ScheduledTime,
		Annotation:    e.Event.Annotation,
	}
}

func toEntryResponses(entries []domain.Entry) []entryResponse {
	out := make([]entryResponse, len(entries))
	for i, e := range entries {
		out[i] = toEntryResponse(e)
	}
	return out
}

// lastUpdated is nil until the first successful refresh.
func lastUpdated(snap *tracker.Snapshot) *time.Time {
	if snap == nil || snap.LastUpdated.IsZero() {
		return nil
	}
	t := snap.LastUpdated.UTC()
	return &t
}

// intParam returns def when the parameter is absent.
func intParam(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"routes": apiRoutes})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	s.metrics.Queries.WithLabelValues("ready").Inc()
	entries, snap := s.querier.Ready()
	writeJSON(w, http.StatusOK, listResponse{LastUpdated: lastUpdated(snap), Bosses: toEntryResponses(entries)})
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	n, err := intParam(r, "n", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "n must be an integer")
		return
	}
	s.metrics.Queries.WithLabelValues("next").Inc()
	entries, snap := s.querier.Next(n)
	writeJSON(w, http.StatusOK, listResponse{LastUpdated: lastUpdated(snap), Bosses: toEntryResponses(entries)})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	page, err := intParam(r, "page", 1)
	if err != nil {
		writeError(w, http.StatusBadRequest, "page must be an integer")
		return
	}
	s.metrics.Queries.WithLabelValues("list").Inc()
	p, snap := s.querier.ListPage(page)
	writeJSON(w, http.StatusOK, pageResponse{
		LastUpdated: lastUpdated(snap),
		Page:        p.Number,
		Pages:       p.Pages,
		Total:       p.Total,
		Start:       p.Start,
		End:         p.End,
		Bosses:      toEntryResponses(p.Entries),
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if strings.TrimSpace(name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	s.metrics.Queries.WithLabelValues("find").Inc()
	entry, snap, err := s.querier.FindByName(name)
	if errors.Is(err, tracker.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, bossResponse{LastUpdated: lastUpdated(snap), Boss: toEntryResponse(entry)})
}
