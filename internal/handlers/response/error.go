package response

import (
	"encoding/json"
	"net/http"

	"gitlab.com/codearena.net/internal/domain"
)

type ErrorMessage struct {
	Message    string                  `json:"message"`
	StatusCode int                     `json:"status_code"`
	Status     domain.SubmissionStatus `json:"status,omitempty"`
}

func WriteError(w http.ResponseWriter, err ErrorMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.StatusCode)
	_ = json.NewEncoder(w).Encode(err)
}
