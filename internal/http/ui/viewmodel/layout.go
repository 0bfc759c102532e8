package viewmodel

// Flash is a one-shot message carried across a redirect.
type Flash struct {
	Kind    string // "success" or "error"
	Message string
}

// Layout captures shared chrome metadata (titles, navigation state, auth flags).
type Layout struct {
	Title           string
	PageTitle       string
	CurrentPage     string
	CSRFToken       string
	IsAuthenticated bool
	IsAdmin         bool
}
