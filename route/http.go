package route

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// FromHTTP materializes a structured Request from a net/http request and
// the path variables extracted by the caller's router. Query parameters
// take the first value per key; header names are lowercased so contract
// header schemas match case-insensitively. The raw body is read in full
// and left undecoded for the body parsing interceptor.
func FromHTTP(req *http.Request, pathVars map[string]string) (*Request, error) {
	var raw []byte
	if req.Body != nil {
		data, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, fmt.Errorf("read request body: %w", err)
		}
		raw = data
	}

	query := make(map[string]any)
	for key, values := range req.URL.Query() {
		if len(values) > 0 {
			query[key] = values[0]
		}
	}

	headers := make(map[string]any, len(req.Header))
	for name, values := range req.Header {
		if len(values) > 0 {
			headers[strings.ToLower(name)] = values[0]
		}
	}

	path := make(map[string]any, len(pathVars))
	for name, value := range pathVars {
		path[name] = value
	}

	return &Request{
		Method:      req.Method,
		Path:        req.URL.Path,
		ContentType: req.Header.Get("Content-Type"),
		RawBody:     raw,
		PathParams:  path,
		QueryParams: query,
		Headers:     headers,
	}, nil
}

// Write serializes the response onto a net/http response writer. The body
// is encoded as JSON with Content-Type "application/json" unless a header
// already set one. If encoding fails, an HTTP 500 Internal Server Error is
// written instead.
func (r *Response) Write(w http.ResponseWriter) {
	for name, value := range r.Headers {
		w.Header().Set(name, fmt.Sprint(value))
	}

	status := r.Status
	if status == 0 {
		status = http.StatusOK
	}

	if r.Body == nil {
		w.WriteHeader(status)
		return
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(r.Body); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}
