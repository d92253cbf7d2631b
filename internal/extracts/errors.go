package extracts

import (
	"fmt"
	"strings"
)

// ConfigErrorKind distinguishes a missing config file from a malformed one.
type ConfigErrorKind string

const (
	// ConfigNotFound indicates the configuration file does not exist or
	// could not be read.
	ConfigNotFound ConfigErrorKind = "NOT_FOUND"

	// ConfigMalformed indicates the file content could not be parsed.
	ConfigMalformed ConfigErrorKind = "MALFORMED"
)

// ConfigError reports an extracts configuration file that could not be loaded.
type ConfigError struct {
	Kind ConfigErrorKind
	Path string
	Err  error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Kind == ConfigNotFound {
		return fmt.Sprintf("configuration file not found: %s", e.Path)
	}
	return fmt.Sprintf("invalid configuration file %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ConfigError) Unwrap() error { return e.Err }

// ValidationError reports one TABLE declaration that fails the exclude-list
// check. Errors are accumulated across a run rather than returned one at a
// time, so a single run surfaces every non-compliant table.
type ValidationError struct {
	// Extract names the owning extract entry.
	Extract string

	// Table is the upper-cased table name, empty when it could not be
	// determined from the statement.
	Table string

	// Missing lists the required fields with no matching COLEXC statement.
	Missing []string

	// Message carries the description for errors without a table name.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("%s: table %s missing COLEXC for fields: %s", e.Extract, e.Table, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("%s: %s", e.Extract, e.Message)
}
