package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"sort"

	"github.com/elnormous/contenttype"

	"github.com/vitalvas/kontur/contract"
	"github.com/vitalvas/kontur/route"
)

// ErrNoDecoders is returned when ParseBodyConfig.Decoders is empty.
var ErrNoDecoders = errors.New("parse body: at least one decoder is required")

// DecoderFunc deserializes raw body bytes into a structured value.
type DecoderFunc func(data []byte) (any, error)

// ParseBodyConfig configures the body parsing interceptor.
type ParseBodyConfig struct {
	// Decoders maps a content type (e.g. "application/json") to the
	// decoder used for request bodies of that type. Matching follows
	// media type semantics: parameters such as charset are ignored.
	// Required; at least one must be provided.
	Decoders map[string]DecoderFunc

	// FailureStatus is the status used when decoding fails.
	// Defaults to 400 Bad Request.
	FailureStatus int

	// LogFunc is an optional callback invoked with the request and the
	// decode error when deserialization fails. When nil, no logging is
	// performed.
	LogFunc func(req *route.Request, err error)
}

type bodyDecoder struct {
	mediaType contenttype.MediaType
	form      bool
	decode    DecoderFunc
}

// ParseBody returns the body parsing interceptor: the only place raw wire
// bytes become structured data. It decodes the raw request body per the
// configured content type mapping before the rest of the chain runs.
// Requests without a body, without a Content-Type, or with a content type
// that has no decoder pass through unchanged. A decode fault
// short-circuits with an opaque 400-class response; no structural
// explanation is possible since no structured value exists yet.
//
// Form content types (application/x-www-form-urlencoded and
// multipart/form-data) populate FormParams; all others populate
// BodyParams.
//
// It returns ErrNoDecoders if Decoders is empty.
func ParseBody(cfg ParseBodyConfig) (route.Middleware, error) {
	if len(cfg.Decoders) == 0 {
		return nil, ErrNoDecoders
	}

	status := cfg.FailureStatus
	if status == 0 {
		status = http.StatusBadRequest
	}

	// Sorted for deterministic matching when several decoders could
	// match the same request.
	keys := make([]string, 0, len(cfg.Decoders))
	for key := range cfg.Decoders {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	decoders := make([]bodyDecoder, 0, len(keys))
	for _, key := range keys {
		mt := contenttype.NewMediaType(key)
		decoders = append(decoders, bodyDecoder{
			mediaType: mt,
			form:      isFormType(mt),
			decode:    cfg.Decoders[key],
		})
	}

	mw := route.MiddlewareFunc(func(next route.Handler) route.Handler {
		return route.HandlerFunc(func(ctx context.Context, req *route.Request) (*route.Response, error) {
			if len(req.RawBody) == 0 || req.ContentType == "" {
				return next.Handle(ctx, req)
			}

			ctype := contenttype.NewMediaType(req.ContentType)
			for _, dec := range decoders {
				if !ctype.Matches(dec.mediaType) {
					continue
				}

				value, err := dec.decode(req.RawBody)
				if err != nil {
					if cfg.LogFunc != nil {
						cfg.LogFunc(req, err)
					}
					return errorResponse(status, "malformed request body"), nil
				}

				if dec.form {
					if form, ok := value.(map[string]any); ok {
						req.FormParams = form
					}
				} else {
					req.BodyParams = value
				}
				break
			}

			return next.Handle(ctx, req)
		})
	})

	fragment := &contract.Contract{
		Consumes: keys,
		Responses: map[int]contract.ResponseSpec{
			status: {},
		},
	}
	return route.Annotate(fragment, mw), nil
}

func isFormType(mt contenttype.MediaType) bool {
	if mt.Type == "multipart" && mt.Subtype == "form-data" {
		return true
	}
	return mt.Type == "application" && mt.Subtype == "x-www-form-urlencoded"
}

// JSONDecoder decodes a JSON body into generic maps, slices and scalars.
// Exactly one JSON value must be present; trailing data is an error.
func JSONDecoder(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, err
	}

	if dec.More() {
		return nil, errors.New("unexpected trailing data after JSON value")
	}

	return value, nil
}

// FormDecoder decodes an application/x-www-form-urlencoded body into a
// mapping, taking the first value per key.
func FormDecoder(data []byte) (any, error) {
	values, err := url.ParseQuery(string(data))
	if err != nil {
		return nil, err
	}

	out := make(map[string]any, len(values))
	for key, vals := range values {
		if len(vals) > 0 {
			out[key] = vals[0]
		}
	}
	return out, nil
}
