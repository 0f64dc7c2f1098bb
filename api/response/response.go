package response

import (
	"encoding/json"
	"net/http"

	"github.com/prasetyowira/shortlink/constant"
)

// Response is the JSON envelope of every API reply.
type Response struct {
	Status string `json:"status"`
	Alias  string `json:"alias,omitempty"`
	Error  string `json:"error,omitempty"`
}

// OK builds a success envelope.
func OK(alias string) Response {
	return Response{Status: constant.StatusOK, Alias: alias}
}

// Error builds an error envelope with a public message.
func Error(msg string) Response {
	return Response{Status: constant.StatusError, Error: msg}
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set(constant.HeaderContentType, constant.ContentTypeJSON)
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError writes an error envelope with the given status.
func WriteError(w http.ResponseWriter, msg string, statusCode int) {
	WriteJSON(w, Error(msg), statusCode)
}
