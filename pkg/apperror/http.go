package apperror

import (
	"encoding/json"
	"net/http"

	"ringkasan/pkg/logger"
)

// Body is the JSON shape of every error response.
type Body struct {
	Error Detail `json:"error"`
}

// Detail describes a single failure.
type Detail struct {
	Kind    Kind   `json:"kind"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Write renders err as a JSON error response. When redact is set, messages of
// server-side kinds are replaced by the kind's title.
func Write(w http.ResponseWriter, err error, redact bool) {
	kind := KindOf(err)
	status := HTTPStatus(err)

	msg := err.Error()
	if status >= http.StatusInternalServerError {
		logger.Sugar.Errorw("Request failed", "kind", kind, "error", err)
		if redact {
			msg = Title(kind)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Body{Error: Detail{Kind: kind, Title: Title(kind), Message: msg}})
}
