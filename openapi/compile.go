package openapi

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/vitalvas/kontur/contract"
	"github.com/vitalvas/kontur/route"
	"github.com/vitalvas/kontur/schema"
)

// Compile walks every route in the tree and assembles the aggregate API
// document: a mapping from path template and method to the route's
// effective contract, rendered as OpenAPI path items.
//
// Each route's contract is the merge of ambient middleware fragments and
// the endpoint's own contract, in the exact order Route.Contract uses at
// runtime. Because the interceptors carry their own failure responses as
// annotation fragments, the compiled document reflects true runtime
// behavior, not only author intent.
//
// Compile is a pure function of the tree: it never mutates the tree and
// compiling the same tree twice yields identical output.
func Compile(tree *route.Tree, info Info) *Document {
	doc := &Document{
		OpenAPI: "3.1.0",
		Info:    info,
		Paths:   make(map[string]*PathItem),
	}

	_ = tree.Walk(func(r *route.Route, _ []route.Middleware) error {
		pathItem, ok := doc.Paths[r.Path()]
		if !ok {
			pathItem = &PathItem{}
			doc.Paths[r.Path()] = pathItem
		}

		op := buildOperation(r.Endpoint().Name(), r.Contract())
		assignOperation(pathItem, r.Method(), op)
		return nil
	})

	return doc
}

// buildOperation renders one merged contract as an Operation Object.
func buildOperation(operationID string, c *contract.Contract) *Operation {
	op := &Operation{OperationID: operationID}
	if c == nil {
		return op
	}

	op.Summary = c.Summary
	op.Description = c.Description
	op.Parameters = buildParameters(c.Parameters)
	op.RequestBody = buildRequestBody(c)
	op.Responses = buildResponses(c.Responses)

	return op
}

// buildParameters renders the path, query and header locations as
// parameter objects. Locations are visited in canonical order and fields
// within a location sorted by name, keeping the output stable.
func buildParameters(params map[contract.Location]schema.Schema) []*Parameter {
	var out []*Parameter

	for _, loc := range contract.Locations() {
		if loc == contract.InBody || loc == contract.InForm {
			continue
		}
		m, ok := params[loc].(schema.Map)
		if !ok {
			continue
		}

		for _, key := range sortedKeys(m) {
			out = append(out, &Parameter{
				Name:     key.Name,
				In:       string(loc),
				Required: loc == contract.InPath || !key.Optional,
				Schema:   convertSchema(m.Fields[key]),
			})
		}
	}

	return out
}

// buildRequestBody renders the body and form locations. A declared body
// schema is published under every consumed content type (default
// application/json); a form schema under x-www-form-urlencoded.
func buildRequestBody(c *contract.Contract) *RequestBody {
	content := make(map[string]*MediaType)

	if body, ok := c.Parameters[contract.InBody]; ok {
		bodySchema := convertSchema(body)
		consumes := c.Consumes
		if len(consumes) == 0 {
			consumes = []string{"application/json"}
		}
		for _, ct := range consumes {
			content[ct] = &MediaType{Schema: bodySchema}
		}
	}

	if form, ok := c.Parameters[contract.InForm]; ok {
		content["application/x-www-form-urlencoded"] = &MediaType{Schema: convertSchema(form)}
	}

	if len(content) == 0 {
		return nil
	}
	return &RequestBody{Required: true, Content: content}
}

// buildResponses renders response declarations keyed by status code, with
// the default marker rendered as the "default" key.
func buildResponses(responses map[int]contract.ResponseSpec) map[string]*Response {
	if len(responses) == 0 {
		return nil
	}

	out := make(map[string]*Response, len(responses))
	for status, rs := range responses {
		key := "default"
		if status != contract.StatusDefault {
			key = strconv.Itoa(status)
		}

		resp := &Response{Description: responseDescription(key)}
		if rs.Schema != nil {
			resp.Content = map[string]*MediaType{
				"application/json": {Schema: convertSchema(rs.Schema)},
			}
		}
		if headers, ok := rs.Headers.(schema.Map); ok {
			resp.Headers = make(map[string]*Header, len(headers.Fields))
			for hkey, sub := range headers.Fields {
				resp.Headers[hkey.Name] = &Header{
					Required: !hkey.Optional,
					Schema:   convertSchema(sub),
				}
			}
		}
		out[key] = resp
	}

	return out
}

// responseDescription returns a human-readable description for a response
// key, derived from HTTP status text.
func responseDescription(key string) string {
	if key == "default" {
		return "Default response"
	}
	if code, err := strconv.Atoi(key); err == nil {
		if text := http.StatusText(code); text != "" {
			return text
		}
	}
	return key
}

// convertSchema renders a contract schema as a JSON Schema object.
func convertSchema(s schema.Schema) *Schema {
	switch s := s.(type) {
	case schema.Type:
		return scalarSchema(s.Kind)

	case schema.Named:
		out := convertSchema(s.Schema)
		out.Title = s.Name
		return out

	case schema.Seq:
		return &Schema{Type: "array", Items: convertSchema(s.Elem)}

	case schema.Map:
		out := &Schema{
			Type:       "object",
			Properties: make(map[string]*Schema, len(s.Fields)),
		}
		for key, sub := range s.Fields {
			out.Properties[key.Name] = convertSchema(sub)
			if !key.Optional {
				out.Required = append(out.Required, key.Name)
			}
		}
		sort.Strings(out.Required)
		if !s.Extra {
			closed := false
			out.AdditionalProperties = &closed
		}
		return out

	default:
		return &Schema{}
	}
}

// scalarSchema maps scalar kinds to JSON Schema type and format.
func scalarSchema(k schema.Kind) *Schema {
	switch k {
	case schema.KindInt:
		return &Schema{Type: "integer"}
	case schema.KindFloat:
		return &Schema{Type: "number"}
	case schema.KindBool:
		return &Schema{Type: "boolean"}
	case schema.KindUUID:
		return &Schema{Type: "string", Format: "uuid"}
	case schema.KindTime:
		return &Schema{Type: "string", Format: "date-time"}
	default:
		return &Schema{Type: "string"}
	}
}

// sortedKeys returns a map schema's field keys sorted by name.
func sortedKeys(m schema.Map) []schema.Key {
	keys := make([]schema.Key, 0, len(m.Fields))
	for key := range m.Fields {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].Name < keys[j].Name
	})
	return keys
}

// assignOperation assigns an operation to the correct HTTP method field
// on the path item.
func assignOperation(pathItem *PathItem, method string, op *Operation) {
	switch method {
	case http.MethodGet:
		pathItem.Get = op
	case http.MethodPost:
		pathItem.Post = op
	case http.MethodPut:
		pathItem.Put = op
	case http.MethodDelete:
		pathItem.Delete = op
	case http.MethodPatch:
		pathItem.Patch = op
	case http.MethodHead:
		pathItem.Head = op
	case http.MethodOptions:
		pathItem.Options = op
	case http.MethodTrace:
		pathItem.Trace = op
	}
}
