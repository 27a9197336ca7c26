// Package route models the declarative route tree that contracts attach
// to: structured request and response exchange values, handlers and
// middleware over them, and groups scoping ambient middleware chains.
//
// The package deliberately does not match or dispatch HTTP requests; it
// consumes an exchange already materialized as a structured record and a
// route already identified by the caller's router. FromHTTP and
// Response.Write bridge to net/http at the edges.
//
// # Building a Tree
//
//	t := route.NewTree()
//	api := t.Group("/api", middleware.Recovery(middleware.RecoveryConfig{}))
//
//	users := api.Group("/users",
//	    route.Annotate(authFragment, authMiddleware),
//	)
//
//	users.Handle(http.MethodGet, "/{id}", route.NewEndpoint(
//	    "getUser",
//	    userContract,
//	    getUserHandler,
//	))
//
// # Contracts on Routes
//
// An endpoint carries its contract as an explicit field, attached by
// NewEndpoint. Middleware carries contract fragments out-of-band via
// Annotate; the wrapping behavior is untouched and the fragment is only
// visible through the Annotator interface. Route.Contract merges every
// fragment along the path from the tree root to the leaf, in
// outer-to-inner order with the endpoint's contract last — the exact
// order the documentation compiler uses, so compiled documentation always
// matches runtime enforcement.
package route
