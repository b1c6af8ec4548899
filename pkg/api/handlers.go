package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/hackdook/engage/config"
	"github.com/hackdook/engage/pkg/engage"
	hderrors "github.com/hackdook/engage/pkg/errors"
	"github.com/hackdook/engage/pkg/logging"
	"github.com/hackdook/engage/pkg/store"
)

// createResponse is the body returned after a successful upload.
type createResponse struct {
	SessionID    int64 `json:"session_id"`
	WeekNumber   int   `json:"week_number"`
	Participants int   `json:"participants"`
}

// engagementResponse is the body of a per-week query.
type engagementResponse struct {
	Session *store.Session           `json:"session"`
	Tallies []store.ParticipantTally `json:"tallies"`
}

// weeksResponse lists the weeks that have engagement data, newest first.
type weeksResponse struct {
	Weeks []int `json:"weeks"`
}

// handleCreateEngagement ingests one week's transcript and chat log. The
// request is multipart form data: an integer "week" field, "transcript" and
// "chat" file parts, and an optional "roster" file part (one name per line).
func (s *Server) handleCreateEngagement(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		s.writeError(w, r, fmt.Errorf("parsing multipart form: %s: %w", err, hderrors.ErrValidation))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	week, err := parseWeek(r.FormValue("week"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	transcript, err := readFilePart(r, "transcript")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	chat, err := readFilePart(r, "chat")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	matcher, err := s.requestMatcher(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	tallies := engage.AggregateWith(string(transcript), string(chat), matcher)

	session, parts, err := s.store.CreateSession(r.Context(), week, tallies)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info("session created",
		logging.F("session_id", session.ID),
		logging.F("week_number", week),
		logging.F("participants", len(parts)))

	s.writeJSON(w, http.StatusCreated, createResponse{
		SessionID:    session.ID,
		WeekNumber:   session.WeekNumber,
		Participants: len(parts),
	})
}

// handleGetEngagement returns the most recent session for a week with its
// tallies sorted by name.
func (s *Server) handleGetEngagement(w http.ResponseWriter, r *http.Request) {
	week, err := parseWeek(r.PathValue("week"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	session, tallies, err := s.store.GetEngagementByWeek(r.Context(), week)
	if hderrors.IsNotFound(err) {
		s.writeJSON(w, http.StatusNotFound, errorResponse{
			Error: fmt.Sprintf("no engagement data for week %d", week),
		})
		return
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, engagementResponse{Session: session, Tallies: tallies})
}

func (s *Server) handleListWeeks(w http.ResponseWriter, r *http.Request) {
	weeks, err := s.store.ListWeeks(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, weeksResponse{Weeks: weeks})
}

// handleHealthz reports liveness and database connectivity.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if s.ping != nil {
		if err := s.ping(ctx); err != nil {
			s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unhealthy",
				"error":  "database unreachable",
			})
			return
		}
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requestMatcher builds the name matcher for one upload. A roster part takes
// precedence over the configured policy; without one the configured policy
// applies.
func (s *Server) requestMatcher(r *http.Request) (engage.NameMatcher, error) {
	file, _, err := r.FormFile("roster")
	if err == http.ErrMissingFile {
		if s.cfg.Matcher == config.MatcherFold {
			return engage.FoldMatch(), nil
		}
		return engage.ExactMatch(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading roster part: %s: %w", err, hderrors.ErrValidation)
	}
	defer file.Close()

	roster, err := engage.ParseRoster(file)
	if err != nil {
		return nil, fmt.Errorf("parsing roster: %s: %w", err, hderrors.ErrValidation)
	}
	if len(roster) == 0 {
		return nil, fmt.Errorf("roster is empty: %w", hderrors.ErrValidation)
	}

	return engage.RosterMatch(roster, s.cfg.RosterStrict), nil
}

// parseWeek validates the week identifier shared by the upload and query
// paths. Weeks are non-negative integers.
func parseWeek(raw string) (int, error) {
	if raw == "" {
		return 0, fmt.Errorf("week is required: %w", hderrors.ErrValidation)
	}
	week, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("week %q is not an integer: %w", raw, hderrors.ErrValidation)
	}
	if week < 0 {
		return 0, fmt.Errorf("week %d is negative: %w", week, hderrors.ErrValidation)
	}
	return week, nil
}

// readFilePart reads a required multipart file fully into memory. Uploads
// are size-capped upstream, so buffering the whole part is fine.
func readFilePart(r *http.Request, name string) ([]byte, error) {
	file, _, err := r.FormFile(name)
	if err == http.ErrMissingFile {
		return nil, fmt.Errorf("missing %s file: %w", name, hderrors.ErrValidation)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s part: %s: %w", name, err, hderrors.ErrValidation)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("reading %s contents: %s: %w", name, err, hderrors.ErrValidation)
	}
	return data, nil
}
