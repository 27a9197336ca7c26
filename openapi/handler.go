package openapi

import (
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"sync"

	"gopkg.in/yaml.v3"
)

// Serializer converts a compiled document into wire bytes. The default
// serializer produces indented JSON.
type Serializer func(*Document) ([]byte, error)

// JSON serializes the document as indented JSON.
func JSON(doc *Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// YAML serializes the document as YAML.
func YAML(doc *Document) ([]byte, error) {
	return yaml.Marshal(doc)
}

// HandlerOption configures a document handler.
type HandlerOption func(*handlerOptions)

type handlerOptions struct {
	serialize   Serializer
	contentType string
}

// WithSerializer replaces the default JSON serializer with a
// caller-supplied one, served under the given content type.
func WithSerializer(fn Serializer, contentType string) HandlerOption {
	return func(o *handlerOptions) {
		o.serialize = fn
		o.contentType = contentType
	}
}

// Handler returns an http.Handler serving the serialized document. The
// document is serialized once on first request and the bytes cached;
// concurrent reads after that touch only immutable state.
func Handler(doc *Document, opts ...HandlerOption) http.Handler {
	options := handlerOptions{
		serialize:   JSON,
		contentType: "application/json",
	}
	for _, opt := range opts {
		opt(&options)
	}

	var (
		once     sync.Once
		data     []byte
		buildErr error
	)

	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		once.Do(func() {
			defer func() {
				if rv := recover(); rv != nil {
					buildErr = fmt.Errorf("%v", rv)
				}
			}()
			data, buildErr = options.serialize(doc)
		})
		if buildErr != nil {
			http.Error(w, "failed to serialize API document", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", options.contentType)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	})
}

// YAMLHandler returns an http.Handler serving the document as YAML.
func YAMLHandler(doc *Document) http.Handler {
	return Handler(doc, WithSerializer(YAML, "application/x-yaml"))
}

// Mount registers the document endpoints on a ServeMux under basePath:
// <basePath>.json, <basePath>.yaml and <basePath> itself serving the
// interactive UI. A typical call is Mount(mux, "/openapi", doc).
func Mount(mux *http.ServeMux, basePath string, doc *Document) {
	mux.Handle("GET "+basePath+".json", Handler(doc))
	mux.Handle("GET "+basePath+".yaml", YAMLHandler(doc))
	mux.Handle("GET "+basePath, UIHandler(doc.Info.Title, basePath+".json"))
}

// UIHandler returns an http.Handler serving an interactive Swagger UI page
// pointed at the serialized document available at specURL.
func UIHandler(title, specURL string) http.Handler {
	var (
		once sync.Once
		data []byte
	)
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		once.Do(func() {
			data = []byte(uiTemplate(title, specURL))
		})
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	})
}

func uiTemplate(title, specURL string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
<link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist/swagger-ui.css">
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist/swagger-ui-bundle.js"></script>
<script>
SwaggerUIBundle({url: %q, dom_id: "#swagger-ui"});
</script>
</body>
</html>`, html.EscapeString(title), specURL)
}
