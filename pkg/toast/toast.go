package toast

import "sync"

// EventName is the event name dispatched for toasts.
// Client-side code should listen for this event.
const EventName = "funday:toast"

// Type represents the toast notification type.
type Type string

const (
	TypeSuccess Type = "success"
	TypeError   Type = "error"
	TypeWarning Type = "warning"
	TypeInfo    Type = "info"
)

// Emitter receives named client events.
type Emitter interface {
	Emit(name string, data any)
}

// Toast is the payload of a toast event.
type Toast struct {
	Level   Type   `json:"level"`
	Title   string `json:"title,omitempty"`
	Message string `json:"message"`
}

// Show displays a toast notification to the user.
//
// The client receives a CustomEvent with:
//   - event.type = "funday:toast"
//   - event.detail = { level: "success|error|warning|info", message: "..." }
func Show(e Emitter, level Type, message string) {
	e.Emit(EventName, Toast{Level: level, Message: message})
}

// Success shows a success toast.
func Success(e Emitter, message string) {
	Show(e, TypeSuccess, message)
}

// Error shows an error toast.
//
//	toast.Error(conn, "There was an error submitting your RSVP. Please try again.")
func Error(e Emitter, message string) {
	Show(e, TypeError, message)
}

// Warning shows a warning toast.
func Warning(e Emitter, message string) {
	Show(e, TypeWarning, message)
}

// Info shows an info toast.
func Info(e Emitter, message string) {
	Show(e, TypeInfo, message)
}

// WithTitle shows a toast with a title and message.
func WithTitle(e Emitter, level Type, title, message string) {
	e.Emit(EventName, Toast{Level: level, Title: title, Message: message})
}

// Flash collects toasts during a single page render.
// The zero value is ready to use.
type Flash struct {
	mu     sync.Mutex
	toasts []Toast
}

// Emit records toast events and ignores any other event.
func (f *Flash) Emit(name string, data any) {
	if name != EventName {
		return
	}
	t, ok := data.(Toast)
	if !ok {
		return
	}
	f.mu.Lock()
	f.toasts = append(f.toasts, t)
	f.mu.Unlock()
}

// Toasts returns the collected toasts in emission order.
func (f *Flash) Toasts() []Toast {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Toast(nil), f.toasts...)
}
