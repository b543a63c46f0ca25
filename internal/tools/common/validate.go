package common

import (
	"fmt"

	"github.com/teemow/calendar-mcp/internal/calendar"
)

// ValidationError reports an argument that does not match the endpoint's
// parameter schema.
type ValidationError struct {
	Tool   string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid arguments for %s: %s %s", e.Tool, e.Field, e.Reason)
}

// ValidateArguments checks args against the declared parameters of ep.
// Required parameters must be present, and every declared parameter that is
// present must be a string. A nil value counts as absent. Undeclared
// arguments are ignored here and dropped when the request is built.
func ValidateArguments(ep calendar.Endpoint, args map[string]any) error {
	for _, p := range ep.Params {
		v, ok := args[p.Name]
		if !ok || v == nil {
			if p.Required {
				return &ValidationError{Tool: ep.Name, Field: p.Name, Reason: "is required"}
			}
			continue
		}
		if _, isString := v.(string); !isString {
			return &ValidationError{Tool: ep.Name, Field: p.Name, Reason: "must be a string"}
		}
	}
	return nil
}
