package app

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// HandleRoot returns the epoch start constant
func (s *Server) HandleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Root())
}

// HandleMethodPost answers POST /method with 201
func (s *Server) HandleMethodPost(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusCreated, map[string]string{"method": http.MethodPost})
}

// HandleMethod echoes the verb for GET, PUT, OPTIONS and DELETE
func (s *Server) HandleMethod(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"method": r.Method})
}

// HandleDay validates a day name against its number
// Query params: name, number
func (s *Server) HandleDay(w http.ResponseWriter, r *http.Request) {
	name := queryValue(r, "name")
	numberStr := queryValue(r, "number")
	if name == nil || numberStr == nil {
		writeError(w, http.StatusBadRequest, ErrMissingParam)
		return
	}

	number, err := strconv.Atoi(*numberStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrInvalidNumber)
		return
	}

	day, err := ValidateDay(*name, number)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, day)
}

// HandleAddEvent appends an event from a {"event","date"} body
func (s *Server) HandleAddEvent(w http.ResponseWriter, r *http.Request) {
	var req AddEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrInvalidBody)
		return
	}
	if req.Event == nil || req.Date == nil {
		writeError(w, http.StatusBadRequest, ErrInvalidBody)
		return
	}

	event := s.svc.AddEvent(*req.Event, *req.Date)
	writeJSON(w, http.StatusOK, event)
}

// HandleEventsByDate lists events stored for a date
// URL: /events/{date}
func (s *Server) HandleEventsByDate(w http.ResponseWriter, r *http.Request) {
	events, err := s.svc.EventsByDate(r.PathValue("date"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// HandleExport exports the events for a date in ICS or CSV format
// URL: /events/{date}/export?format=ics|csv
func (s *Server) HandleExport(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")
	events, err := s.svc.EventsByDate(date)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	switch r.URL.Query().Get("format") {
	case "ics":
		GenerateICS(w, r, date, events, s.svc.Now())
	case "csv":
		GenerateCSV(w, date, events)
	default:
		writeError(w, http.StatusBadRequest, ErrInvalidFormat)
	}
}

// HandleStart serves the epoch start HTML page
func (s *Server) HandleStart(w http.ResponseWriter, r *http.Request) {
	body, err := s.svc.StartPage()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeBody(w, http.StatusOK, body)
}

// HandleInfo reports the user agent as JSON or HTML
// Query param: format (json|html)
func (s *Server) HandleInfo(w http.ResponseWriter, r *http.Request) {
	body, err := s.svc.Info(r.URL.Query().Get("format"), headerValue(r, "User-Agent"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeBody(w, http.StatusOK, body)
}

// HandleLegacyInfo reports the user agent as JSON whatever format says
func (s *Server) HandleLegacyInfo(w http.ResponseWriter, r *http.Request) {
	body, err := s.svc.LegacyInfo(queryValue(r, "format"), headerValue(r, "User-Agent"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeBody(w, http.StatusOK, body)
}

// HandleCheck runs the age check on Basic Auth credentials.
// The password carries a YYYY-MM-DD birth date.
func (s *Server) HandleCheck(w http.ResponseWriter, r *http.Request) {
	user, pass, ok := r.BasicAuth()
	if !ok {
		w.Header().Set("WWW-Authenticate", `Basic realm="check"`)
		writeError(w, http.StatusUnauthorized, ErrWrongData)
		return
	}

	body, err := s.svc.CheckCredentials(user, pass)
	if err != nil {
		if StatusFor(err) == http.StatusUnauthorized {
			w.Header().Set("WWW-Authenticate", `Basic realm="check"`)
		}
		writeServiceError(w, err)
		return
	}
	writeBody(w, http.StatusOK, body)
}

// HandleHealthz is a liveness endpoint
func (s *Server) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
