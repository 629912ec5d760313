package app

// Event is one logged occurrence
type Event struct {
	Name      string `json:"name"`
	Date      string `json:"date"`
	ID        int    `json:"id"`
	DateAdded string `json:"date_added"`
}

// AddEventRequest is the body of PUT /events
type AddEventRequest struct {
	Event *string `json:"event"`
	Date  *string `json:"date"`
}

// InfoResponse is the JSON body of the info endpoints.
// UserAgent is null when the request carried no User-Agent header.
type InfoResponse struct {
	UserAgent *string `json:"user_agent"`
}

// InfoFormat selects how /info serializes its answer
type InfoFormat int

const (
	FormatJSON InfoFormat = iota + 1
	FormatHTML
)

func (f InfoFormat) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatHTML:
		return "html"
	default:
		return "unknown"
	}
}

// ParseInfoFormat accepts exactly "json" or "html".
func ParseInfoFormat(s string) (InfoFormat, error) {
	switch s {
	case "json":
		return FormatJSON, nil
	case "html":
		return FormatHTML, nil
	default:
		return 0, invalidInput(ErrInvalidFormat)
	}
}

// Body is a response payload: either JSONBody or HTMLBody.
type Body interface {
	isBody()
}

// JSONBody is serialized with encoding/json
type JSONBody struct {
	Value any
}

// HTMLBody is already rendered markup
type HTMLBody struct {
	Markup string
}

func (JSONBody) isBody() {}
func (HTMLBody) isBody() {}
