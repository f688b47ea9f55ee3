package handlers

import (
	"encoding/json"
	"net/http"
)

func ResponseWithJson(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

func ResponseError(w http.ResponseWriter, message string, code int) {
	ResponseWithJson(w, code, map[string]interface{}{"message": message, "status_code": code})
}
