package listctl

import "errors"

// Status is the request state of a list.
type Status int

const (
	// Idle means no fetch is outstanding and the last one succeeded.
	Idle Status = iota
	// InitialLoading is the first fetch after Start; nothing is loaded yet.
	InitialLoading
	// Searching is any later fetch. Previously loaded items stay visible.
	Searching
	// Error means the newest fetch failed. See State.ErrorMessage.
	Error
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case InitialLoading:
		return "loading"
	case Searching:
		return "searching"
	case Error:
		return "error"
	}
	return "unknown"
}

// FallbackMessage is shown when a failed fetch carries no usable text.
const FallbackMessage = "Failed to fetch data"

// serverMessager is implemented by errors that carry a message supplied by
// the server, e.g. *client.APIError.
type serverMessager interface {
	ServerMessage() string
}

// ErrorMessage extracts the text to display for a failed fetch: the
// server-supplied message, then the error text, then FallbackMessage.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var sm serverMessager
	if errors.As(err, &sm) {
		if msg := sm.ServerMessage(); msg != "" {
			return msg
		}
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return FallbackMessage
}
