package todo

import "fmt"

// RequestError reports a non-2xx response from the upstream API. It carries
// the status and body so routes can translate it into a user-facing
// failure indicator instead of a raw error page.
type RequestError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("upstream %s %s returned %d: %s", e.Method, e.Path, e.Status, e.Body)
}

// DecodeError reports an upstream payload (or inbound parameter) that could
// not be deserialized into its typed model, naming the offending field.
type DecodeError struct {
	Type   string
	Field  string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: field %q: %s", e.Type, e.Field, e.Reason)
}
