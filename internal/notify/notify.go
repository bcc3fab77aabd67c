// Package notify raises system notifications for events that must reach the
// user even when the window is not focused.
package notify

import (
	"github.com/gen2brain/beeep"
)

const appName = "Lipikar"

// Notifier sends desktop notifications. Delivery failures are ignored; a
// missed notice is not worth an error path.
type Notifier struct {
	enabled bool
}

func New(enabled bool) *Notifier {
	return &Notifier{enabled: enabled}
}

// MicrophoneDenied tells the user that microphone access was refused and
// dictation stopped.
func (n *Notifier) MicrophoneDenied(detail string) {
	message := "Microphone access was denied. Allow it and press the mic button to dictate again."
	if detail != "" && len(detail) <= 80 {
		message += " (" + detail + ")"
	}
	n.notify("Dictation stopped", message)
}

func (n *Notifier) notify(title, message string) {
	if !n.enabled {
		return
	}
	_ = beeep.Notify(appName+": "+title, message, "")
}
