package conversation

import (
	"fmt"
	"net/http"
)

// ErrorResponse is a locally generated error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ConfigErrorResponse is returned to the client instead of a dialog reply when
// no workspace is configured. Text is a single string, not a list.
type ConfigErrorResponse struct {
	Output ConfigErrorOutput `json:"output"`
}

// ConfigErrorOutput carries the instructional message.
type ConfigErrorOutput struct {
	Text string `json:"text"`
}

// APIError is a failed message call. Body is the error document the service
// returned, or a synthesized one for transport failures.
type APIError struct {
	// Code is the upstream HTTP status, or 0 when the call never got one.
	Code int
	Body map[string]any
}

func (e *APIError) Error() string {
	if msg, ok := e.Body["error"].(string); ok && msg != "" {
		if e.Code == 0 {
			return "conversation service: " + msg
		}
		return fmt.Sprintf("conversation service returned %d: %s", e.Code, msg)
	}
	return fmt.Sprintf("conversation service returned %d", e.Code)
}

// StatusCode is the status to relay to the client.
func (e *APIError) StatusCode() int {
	if e.Code == 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

// Document is the error body to relay. It always carries a "code"; when the
// service sent none, the relayed status is used.
func (e *APIError) Document() map[string]any {
	doc := make(map[string]any, len(e.Body)+1)
	for k, v := range e.Body {
		doc[k] = v
	}
	if _, ok := doc["code"]; !ok {
		doc["code"] = e.StatusCode()
	}
	return doc
}
