package app

import (
	"time"
)

// Service implements the API operations on top of an EventStore.
type Service struct {
	store     *EventStore
	templates *Templates
	location  *time.Location

	// Now is the clock. Tests replace it.
	Now func() time.Time
}

// NewService wires a store and templates into a Service.
// A nil location means time.Local.
func NewService(store *EventStore, templates *Templates, location *time.Location) *Service {
	if location == nil {
		location = time.Local
	}
	return &Service{
		store:     store,
		templates: templates,
		location:  location,
		Now:       time.Now,
	}
}

// Root returns the constant epoch payload
func (s *Service) Root() map[string]string {
	return map[string]string{"start": EpochStart}
}

// ValidateDay checks that number is 1..7 and that name is the day registered for it.
func ValidateDay(name string, number int) (string, error) {
	registered, ok := Days[number]
	if !ok {
		return "", invalidInput(ErrNumberOutOfRange)
	}
	if registered != name {
		return "", invalidInput(ErrInvalidDay)
	}
	return registered, nil
}

// AddEvent records a new event. The date is stored as given.
func (s *Service) AddEvent(name, date string) Event {
	dateAdded := s.Now().In(s.location).Format(DateLayout)
	return s.store.Add(name, date, dateAdded)
}

// EventsByDate returns events whose date equals date, oldest first
func (s *Service) EventsByDate(date string) ([]Event, error) {
	if !isDate(date) {
		return nil, invalidInput(ErrInvalidDateFormat)
	}

	events := s.store.ByDate(date)
	if len(events) == 0 {
		return nil, notFound(ErrNoEventsFound)
	}
	return events, nil
}

// StartPage renders the epoch start document
func (s *Service) StartPage() (Body, error) {
	markup, err := s.templates.Render(TemplateStart, struct{ Start string }{EpochStart})
	if err != nil {
		return nil, err
	}
	return HTMLBody{Markup: markup}, nil
}

// CheckResult is what a successful credential check renders
type CheckResult struct {
	Username string
	Age      int
}

// CheckCredentials treats password as a birth date and admits callers
// aged MinimumAge or more. Age is the naive year difference.
func (s *Service) CheckCredentials(username, password string) (Body, error) {
	born, err := time.Parse(DateLayout, password)
	if err != nil {
		return nil, unauthorized(ErrWrongData)
	}

	age := s.Now().In(s.location).Year() - born.Year()
	if age < MinimumAge {
		return nil, unauthorized(ErrTooYoung)
	}

	markup, err := s.templates.Render(TemplateCheck, CheckResult{Username: username, Age: age})
	if err != nil {
		return nil, err
	}
	return HTMLBody{Markup: markup}, nil
}

// Info reports the caller's user agent as JSON or HTML.
// format must be exactly "json" or "html".
func (s *Service) Info(format string, userAgent *string) (Body, error) {
	f, err := ParseInfoFormat(format)
	if err != nil {
		return nil, err
	}

	switch f {
	case FormatHTML:
		var ua string
		if userAgent != nil {
			ua = *userAgent
		}
		markup, err := s.templates.Render(TemplateInfo, struct{ UserAgent string }{ua})
		if err != nil {
			return nil, err
		}
		return HTMLBody{Markup: markup}, nil
	default:
		return JSONBody{Value: InfoResponse{UserAgent: userAgent}}, nil
	}
}

// LegacyInfo always answers with JSON; format only has to be present.
func (s *Service) LegacyInfo(format *string, userAgent *string) (Body, error) {
	if format == nil {
		return nil, invalidInput(ErrInvalidFormat)
	}
	return JSONBody{Value: InfoResponse{UserAgent: userAgent}}, nil
}

func isDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
