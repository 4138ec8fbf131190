// internal/backend/errors.go
//
// Fatal configuration errors.
//
// Context
// -------
// Every validation failure in guacenv is fatal.  The three classes below are
// returned as *ConfigError so the CLI can print the fixed remediation block to
// stderr and exit 1, while callers that only care about the class use
// errors.Is against the sentinels.
package backend

import "errors"

// ErrorKind classifies a fatal configuration error.
type ErrorKind int

const (
	// MissingConnectionInfo means neither the hostname variable nor the
	// Docker link address is set for a service.
	MissingConnectionInfo ErrorKind = iota + 1
	// MissingCredentials means an active backend lacks one or more required
	// settings.
	MissingCredentials
	// NoAuthenticationConfigured means no backend was installed and
	// GUACAMOLE_HOME is unset.
	NoAuthenticationConfigured
)

func (k ErrorKind) String() string {
	switch k {
	case MissingConnectionInfo:
		return "missing connection info"
	case MissingCredentials:
		return "missing credentials"
	case NoAuthenticationConfigured:
		return "no authentication configured"
	default:
		return "unknown"
	}
}

var (
	ErrMissingConnectionInfo      = errors.New("missing connection info")
	ErrMissingCredentials         = errors.New("missing credentials")
	ErrNoAuthenticationConfigured = errors.New("no authentication configured")
)

// ConfigError carries the remediation block shown to the operator.
type ConfigError struct {
	Kind        ErrorKind
	Backend     string // empty for errors not tied to one backend
	Remediation string
}

func (e *ConfigError) Error() string {
	if e.Backend == "" {
		return e.Kind.String()
	}
	return e.Backend + ": " + e.Kind.String()
}

// Is matches the sentinel for the error's kind.
func (e *ConfigError) Is(target error) bool {
	switch target {
	case ErrMissingConnectionInfo:
		return e.Kind == MissingConnectionInfo
	case ErrMissingCredentials:
		return e.Kind == MissingCredentials
	case ErrNoAuthenticationConfigured:
		return e.Kind == NoAuthenticationConfigured
	}
	return false
}
