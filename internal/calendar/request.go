package calendar

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
)

// Request is a fully resolved upstream call for one endpoint.
type Request struct {
	Endpoint Endpoint
	// Path is the expanded and escaped path, relative to the base URL.
	Path  string
	Query url.Values
	// Body holds the JSON object fields. It is nil for query placement and
	// non-nil (possibly empty) for body placement.
	Body map[string]string
}

// Method returns the HTTP method of the underlying endpoint.
func (r *Request) Method() string {
	return r.Endpoint.Method
}

// EncodedBody returns the JSON body reader, or nil when the endpoint sends no body.
// Body placement always yields a JSON object, "{}" when no fields are set.
func (r *Request) EncodedBody() (io.Reader, error) {
	if r.Endpoint.Placement() != PlacementBody {
		return nil, nil
	}
	body := r.Body
	if body == nil {
		body = map[string]string{}
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}
	return bytes.NewReader(data), nil
}

// BuildRequest resolves an endpoint and its arguments into a Request.
//
// Each {name} placeholder in the path is replaced by the path-escaped value
// of the matching argument. Remaining declared arguments become query
// parameters or JSON body fields depending on the endpoint placement.
// Arguments that the endpoint does not declare are dropped.
func BuildRequest(ep Endpoint, args map[string]any) (*Request, error) {
	req := &Request{Endpoint: ep, Query: url.Values{}}
	if ep.Placement() == PlacementBody {
		req.Body = map[string]string{}
	}

	pathParams := make(map[string]bool)
	path := ep.Path
	for _, name := range ep.PathParams() {
		value, ok := stringArg(args, name)
		if !ok || value == "" {
			return nil, fmt.Errorf("missing path parameter %q for %s", name, ep.Name)
		}
		path = strings.Replace(path, "{"+name+"}", url.PathEscape(value), 1)
		pathParams[name] = true
	}
	req.Path = path

	for _, p := range ep.Params {
		if pathParams[p.Name] {
			continue
		}
		value, ok := stringArg(args, p.Name)
		if !ok {
			continue
		}
		if req.Body != nil {
			req.Body[p.Name] = value
		} else {
			req.Query.Set(p.Name, value)
		}
	}

	return req, nil
}

func stringArg(args map[string]any, name string) (string, bool) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return "", false
	}
	if s, ok := raw.(string); ok {
		return s, true
	}
	return fmt.Sprint(raw), true
}
