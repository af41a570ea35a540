package core

import "fmt"

// ConfigurationError reports an invalid or inconsistent setup detected while
// building a scene component
type ConfigurationError struct {
	Component string
	Reason    string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Component, e.Reason)
}

// NewConfigurationError creates a ConfigurationError with a formatted reason
func NewConfigurationError(component, format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{Component: component, Reason: fmt.Sprintf(format, args...)}
}

// UnsupportedOperationError reports a request a component cannot serve,
// such as sampling a shape under the hemisphere measure
type UnsupportedOperationError struct {
	Type      string
	Operation string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("%s does not support %s", e.Type, e.Operation)
}
