package points

import "fmt"

// ConfigNotFoundError - a point config document is missing from the data dir.
type ConfigNotFoundError struct {
	Path string
}

func (e *ConfigNotFoundError) Error() string {
	return fmt.Sprintf("point config not found: %s", e.Path)
}

// ConfigMalformedError - a point config document exists but cannot be used.
type ConfigMalformedError struct {
	Path   string
	Reason string
}

func (e *ConfigMalformedError) Error() string {
	return fmt.Sprintf("point config malformed: %s: %s", e.Path, e.Reason)
}
