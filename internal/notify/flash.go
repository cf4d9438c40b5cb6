// Package notify implements transient user-facing notifications backed by
// the visitor's session, the server-side counterpart of the front-end toast
// stack.
package notify

import (
	"encoding/gob"
	"net/http"

	"github.com/gorilla/sessions"
)

// Severity of a notification
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notification is one transient message shown to the user
type Notification struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

func init() {
	gob.Register(Notification{})
}

// Flash stacks notifications in the session until they are drained.
// Stacking is unbounded; each notification is independent.
type Flash struct {
	session *sessions.Session
	r       *http.Request
	w       http.ResponseWriter
}

// NewFlash creates a flash stack over the visitor's session
func NewFlash(session *sessions.Session, r *http.Request, w http.ResponseWriter) *Flash {
	return &Flash{session: session, r: r, w: w}
}

// Notify appends a notification to the stack
func (f *Flash) Notify(message string, severity Severity) {
	f.session.AddFlash(Notification{Message: message, Severity: severity})
	if err := f.session.Save(f.r, f.w); err != nil {
		// A lost notification is not worth failing the request over
		return
	}
}

// Drain returns all pending notifications and removes them from the session
func (f *Flash) Drain() []Notification {
	raw := f.session.Flashes()
	if len(raw) == 0 {
		return nil
	}

	notifications := make([]Notification, 0, len(raw))
	for _, v := range raw {
		if n, ok := v.(Notification); ok {
			notifications = append(notifications, n)
		}
	}

	if err := f.session.Save(f.r, f.w); err != nil {
		return notifications
	}
	return notifications
}
