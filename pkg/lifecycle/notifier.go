package lifecycle

// Notifier receives human-readable reports about objects the engine
// touched on the caller's behalf: indexes and triggers it restored
// after a cascading drop, and the ones it could not.
//
// Implementations must be safe for use from a single goroutine; the
// engine never calls Say concurrently. A nil Notifier is valid
// everywhere one is accepted and silently discards reports.
type Notifier interface {
	// Say reports one event. The message is already formatted and
	// carries enough context (object name, view name, failure cause)
	// to act on.
	Say(msg string)
}

// NopNotifier discards every report. Engines normalize a nil Notifier
// to it so call sites never nil-check.
type NopNotifier struct{}

// Say implements Notifier.
func (NopNotifier) Say(string) {}
