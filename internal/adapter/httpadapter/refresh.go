package httpadapter

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/boss-respawn-tracker/internal/pipeline"
)

var (
	// ErrRefreshDisabled means no admin token is configured.
	ErrRefreshDisabled = errors.New("manual refresh is disabled")
	// ErrRefreshUnauthorized means the bearer token is missing or wrong.
	ErrRefreshUnauthorized = errors.New("invalid or missing admin token")
)

type refreshResponse struct {
	Status      string    `json:"status"`
	Events      int       `json:"events"`
	DroppedRows int       `json:"dropped_rows"`
	LastUpdated time.Time `json:"last_updated"`
}

// authorizeRefresh checks the Authorization header against the admin token
// in constant time.
func (s *Server) authorizeRefresh(r *http.Request) error {
	if s.adminToken == "" {
		return ErrRefreshDisabled
	}
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(s.adminToken)) != 1 {
		return ErrRefreshUnauthorized
	}
	return nil
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.authorizeRefresh(r); err != nil {
		status := http.StatusUnauthorized
		if errors.Is(err, ErrRefreshDisabled) {
			status = http.StatusForbidden
		} else {
			w.Header().Set("WWW-Authenticate", `Bearer realm="boss-respawn-tracker"`)
		}
		s.logger.Warn("manual refresh rejected", "remote", r.RemoteAddr, "error", err)
		writeError(w, status, err.Error())
		return
	}

	res, err := s.refresher.RefreshOnce(r.Context(), pipeline.TriggerManual)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, refreshResponse{
		Status:      "refreshed",
		Events:      res.Stats.Kept,
		DroppedRows: res.Stats.Dropped,
		LastUpdated: res.UpdatedAt.UTC(),
	})
}
