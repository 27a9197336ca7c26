// Package contract defines the declarative route contract: the accepted
// parameters by location and the possible responses by status code, plus
// the merge semantics used when several contract fragments contribute to
// one route.
//
// # Contracts
//
// A Contract describes one route's interface:
//
//	c := &contract.Contract{
//	    Summary: "Fetch a user",
//	    Parameters: map[contract.Location]schema.Schema{
//	        contract.InPath: schema.Fields(map[schema.Key]schema.Schema{
//	            schema.Req("id"): schema.Int(),
//	        }),
//	        contract.InHeader: schema.Fields(map[schema.Key]schema.Schema{
//	            schema.Req("auth"): schema.String(),
//	        }),
//	    },
//	    Responses: map[int]contract.ResponseSpec{
//	        200:                     {Schema: userSchema},
//	        contract.StatusDefault:  {Schema: errorSchema},
//	    },
//	}
//
// Fragments attached to middleware merge with the leaf handler's contract
// via Merge: ambient-first, leaf-last, leaf wins on scalar conflicts while
// Parameters and Responses union their sub-keys.
//
// # Adapter
//
// RequestSchema and ResponseSchema translate contract declarations into
// the composite schemas enforced by the schema package, applying
// location-specific strictness: query and header schemas accept ambient
// extra keys, undeclared locations are unconstrained.
package contract
