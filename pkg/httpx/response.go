package httpx

import (
	"encoding/json"
	"net/http"
)

// Message is the error body shared by every endpoint.
type Message struct {
	Message     string `json:"message"`
	IsUserError bool   `json:"isUserError"`
}

// WriteJSON writes v as the response body. Token-bearing responses must not
// be cached, so every JSON response carries the no-store headers.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteMessage writes a Message body.
func WriteMessage(w http.ResponseWriter, code int, message string, userError bool) {
	WriteJSON(w, code, Message{Message: message, IsUserError: userError})
}

func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}
