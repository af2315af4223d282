package types

// LogLevel is the logging verbosity used by the logger package
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// Status is a type for the status of a persisted resource
type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
	StatusDeleted  Status = "deleted"
)

// Last-resort billing defaults used when neither the business profile nor
// the owning account supplies a value.
const (
	DefaultTimezone      = "UTC"
	DefaultInvoicePrefix = "INV"
	DefaultDueDays       = 30
)
