package model

import "fmt"

// ConfigurationError reports an invalid option or option combination.
// It is returned before any processing starts.
type ConfigurationError struct {
	Option string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Option, e.Reason)
}
