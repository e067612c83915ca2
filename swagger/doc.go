// Package swagger builds Swagger 1.2 API declarations from documented
// models, documented handler methods and a routing table.
//
// See: https://github.com/OAI/OpenAPI-Specification/blob/main/versions/1.2.md
//
// # Documentation Text
//
// Models and operations are described with field-structured text. Each
// field starts a line with "@tag[ arg]: body" and continues until the next
// field:
//
//	@description: An item in the catalogue
//	@notes: Items are created by POST /items
//	    and removed by DELETE /items/{id}.
//	@param body: the new item
//	@type body: L{Item}
//	@rtype: L{Item}
//	@return 200: created
//	@raise 400: invalid input
//
// Recognized tags are param, type, rtype, property, ptype, return (returns),
// raise (raises), notes and description. Other tags are ignored. Inline
// markup such as L{Item} renders to its content.
//
// # Models
//
// A model is declared from an identity, the parameter list of its
// constructor and its documentation. Parameters without defaults are
// required:
//
//	docs := swagger.New(swagger.Info{APIVersion: "v1.0"})
//	docs.MustModel("Item", swagger.Sig(
//	    swagger.Arg("property1"),
//	    swagger.Opt("property2", nil),
//	), `@ptype property3: Foo`)
//
// Struct types can be declared directly; json tags name the properties and
// default tags mark them optional:
//
//	type Item struct {
//	    Property1 string `json:"property1"`
//	    Property2 string `json:"property2" default:"null"`
//	}
//
//	docs.MustModelType(Item{}, `@description: An item`)
//
// Model identities are unique per Registry.
//
// # Operations
//
// An operation documents the method of a handler type serving one HTTP verb.
// Its positional arguments name the capture groups of the route the handler
// is bound to:
//
//	docs.MustOperation(&ItemHandler{}, http.MethodGet, swagger.OperationConfig{
//	    Nickname: "get",
//	    Args:     swagger.Sig(swagger.Arg("id")),
//	    Doc:      `@rtype: L{Item}`,
//	})
//
// # Assembly
//
// Build walks a routing table in order. Every route whose handler type has
// operations becomes an API entry; the route pattern "/items/([^/]+)" is
// rendered as "/items/{id}". Handle serves the assembled document, a
// resource listing and a Swagger UI page on a mux.Router.
package swagger
