package live

// Inbound message types.
const (
	TypeInput  = "input"
	TypeToggle = "toggle"
	TypeSubmit = "submit"
)

// Outbound message types.
const (
	TypeErrors   = "errors"
	TypeStatus   = "status"
	TypeNavigate = "navigate"
	TypeToast    = "toast"
)

// ClientMessage is a message from the browser.
type ClientMessage struct {
	Type    string `json:"type"`
	Field   string `json:"field,omitempty"`
	Value   string `json:"value,omitempty"`
	Checked bool   `json:"checked,omitempty"`
}

// ServerMessage is a message to the browser. Only the fields for its Type
// are set.
type ServerMessage struct {
	Type       string            `json:"type"`
	Errors     map[string]string `json:"errors,omitempty"`
	Submitting *bool             `json:"submitting,omitempty"`
	URL        string            `json:"url,omitempty"`
	Level      string            `json:"level,omitempty"`
	Title      string            `json:"title,omitempty"`
	Message    string            `json:"message,omitempty"`
}

func errorsMessage(errs map[string]string) ServerMessage {
	if errs == nil {
		errs = map[string]string{}
	}
	return ServerMessage{Type: TypeErrors, Errors: errs}
}

func statusMessage(submitting bool) ServerMessage {
	return ServerMessage{Type: TypeStatus, Submitting: &submitting}
}

func navigateMessage(url string) ServerMessage {
	return ServerMessage{Type: TypeNavigate, URL: url}
}
