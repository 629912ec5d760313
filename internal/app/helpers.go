package app

import (
	"encoding/json"
	"log"
	"net/http"
)

// writeJSON encodes v with the given status
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// writeHTML writes already rendered markup
func writeHTML(w http.ResponseWriter, status int, markup string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(markup)); err != nil {
		log.Printf("Error writing HTML: %v", err)
	}
}

// writeBody writes either variant of Body
func writeBody(w http.ResponseWriter, status int, body Body) {
	switch b := body.(type) {
	case HTMLBody:
		writeHTML(w, status, b.Markup)
	case JSONBody:
		writeJSON(w, status, b.Value)
	default:
		log.Printf("Unknown body type %T", body)
		writeError(w, http.StatusInternalServerError, ErrInternalServer)
	}
}

// writeError writes {"detail": msg}
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}

// writeServiceError maps a Service error to status and detail
func writeServiceError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("Error handling request: %v", err)
	}
	writeError(w, status, detailFor(err))
}

// headerValue returns nil when the header is absent
func headerValue(r *http.Request, name string) *string {
	values, ok := r.Header[http.CanonicalHeaderKey(name)]
	if !ok || len(values) == 0 {
		return nil
	}
	v := values[0]
	return &v
}

// queryValue returns nil when the parameter is absent
func queryValue(r *http.Request, name string) *string {
	values, ok := r.URL.Query()[name]
	if !ok || len(values) == 0 {
		return nil
	}
	v := values[0]
	return &v
}
