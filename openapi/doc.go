// Package openapi compiles a contract-annotated route tree into an
// OpenAPI v3.1.0 document and serves it over HTTP.
//
// Compile walks every route, merges the ambient contract fragments
// contributed by annotated middleware with the endpoint's own contract,
// and renders the result as paths, operations, parameters and responses.
// Because the runtime interceptors carry their failure responses as
// annotation fragments, the compiled document describes what the service
// actually does, including the 400/422/500 responses synthesized by body
// parsing, request coercion and response validation.
//
//	doc := openapi.Compile(tree, openapi.Info{
//	    Title:   "User API",
//	    Version: "1.0.0",
//	})
//
//	mux.Handle("/swagger/schema.json", openapi.Handler(doc))
//	mux.Handle("/swagger/schema.yaml", openapi.YAMLHandler(doc))
//	mux.Handle("/swagger/", openapi.UIHandler("User API", "/swagger/schema.json"))
//
// Compilation is deterministic: compiling the same tree twice yields
// byte-identical serialized documents. The compiled document is immutable
// and safe for unbounded concurrent reads.
//
// See: https://spec.openapis.org/oas/v3.1.0
package openapi
