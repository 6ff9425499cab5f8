package domain

// Severity classifies a transient user-visible message.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
)

// Notifier shows a transient message to the user. Fire and forget.
type Notifier interface {
	Notify(severity Severity, message string)
}

// Navigator sends the user to another view.
type Navigator interface {
	Navigate(path string)
}
