package api

import (
	"encoding/json"
	"net/http"

	hderrors "github.com/hackdook/engage/pkg/errors"
	"github.com/hackdook/engage/pkg/logging"
)

// errorResponse is the JSON body of every non-2xx response.
type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("encoding response", logging.Err(err))
	}
}

// writeError maps the error taxonomy to HTTP statuses: validation failures
// are the client's fault, missing data is 404, everything else is a server
// error. Internal error detail stays in the logs, not the response body.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	var msg string

	switch {
	case hderrors.IsValidation(err):
		status = http.StatusBadRequest
		msg = err.Error()
	case hderrors.IsNotFound(err):
		status = http.StatusNotFound
		msg = err.Error()
	default:
		status = http.StatusInternalServerError
		msg = "internal server error"
		s.logger.Error("request failed",
			logging.F("method", r.Method),
			logging.F("path", r.URL.Path),
			logging.Err(err))
	}

	s.writeJSON(w, status, errorResponse{Error: msg})
}
