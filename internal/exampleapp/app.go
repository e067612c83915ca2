// Package exampleapp is a small item service documented with package
// swagger. It backs the serve and dump commands.
package exampleapp

import (
	"fmt"
	"net/http"

	"github.com/vitalvas/swagdoc/mux"
	"github.com/vitalvas/swagdoc/muxhandlers"
	"github.com/vitalvas/swagdoc/swagger"
)

// DefaultMaxBodyBytes bounds request bodies when Options.MaxBodyBytes is
// zero.
const DefaultMaxBodyBytes = 1 << 20

// Options configures New.
type Options struct {
	Info              swagger.Info
	Handle            swagger.HandleConfig
	EnabledMethods    []string
	ExcludeNamespaces []string

	// MaxBodyBytes bounds request bodies (default: DefaultMaxBodyBytes).
	MaxBodyBytes int64

	// Middleware wraps every route, outside the body checks.
	Middleware []mux.MiddlewareFunc
}

// App bundles the router, its documentation and its store.
type App struct {
	Router *mux.Router
	Docs   *swagger.Docs
	Store  *Store
}

// New builds the application with its routes and documentation endpoints.
func New(opts Options) (*App, error) {
	app := &App{
		Router: mux.NewRouter(),
		Docs:   swagger.New(opts.Info),
		Store:  NewStore(),
	}

	if len(opts.EnabledMethods) > 0 {
		app.Docs.EnableMethods(opts.EnabledMethods...)
	}
	app.Docs.ExcludeNamespaces(opts.ExcludeNamespaces...)

	collection := &ItemNoParamHandler{store: app.Store}
	single := &ItemHandler{store: app.Store}
	cases := &ItemOptionParamHandler{store: app.Store}

	if err := Document(app.Docs, collection, single, cases); err != nil {
		return nil, err
	}

	app.Router.Use(opts.Middleware...)
	if err := app.useBodyChecks(opts.MaxBodyBytes); err != nil {
		return nil, err
	}

	app.Router.Handle(`/items`, collection).Name("items")
	app.Router.Handle(`/items/([^/]+)`, single).Name("item")
	app.Router.Handle(`/items/([^/]+)/cases/([^/]+)`, cases).Name("item-case")

	handleCfg := opts.Handle
	app.Docs.Handle(app.Router, &handleCfg)

	return app, nil
}

// useBodyChecks limits request bodies and requires JSON for item creation.
func (a *App) useBodyChecks(maxBytes int64) error {
	if maxBytes == 0 {
		maxBytes = DefaultMaxBodyBytes
	}

	sizeLimit, err := muxhandlers.RequestSizeLimitMiddleware(muxhandlers.RequestSizeLimitConfig{MaxBytes: maxBytes})
	if err != nil {
		return fmt.Errorf("exampleapp: %w", err)
	}

	contentType, err := muxhandlers.ContentTypeCheckMiddleware(muxhandlers.ContentTypeCheckConfig{
		AllowedTypes: []string{"application/json"},
		Routes:       []string{"items"},
	})
	if err != nil {
		return fmt.Errorf("exampleapp: %w", err)
	}

	a.Router.Use(sizeLimit, contentType)
	return nil
}

// ServeHTTP dispatches to the router.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.Router.ServeHTTP(w, r)
}

// Document declares the models and operations of the application.
func Document(docs *swagger.Docs, collection *ItemNoParamHandler, single *ItemHandler, cases *ItemOptionParamHandler) error {
	if _, err := docs.ModelType(PropertySubclass{}, ""); err != nil {
		return fmt.Errorf("exampleapp: %w", err)
	}
	if _, err := docs.ModelType(Item{}, itemDoc); err != nil {
		return fmt.Errorf("exampleapp: %w", err)
	}

	ops := []struct {
		handler any
		method  string
		cfg     swagger.OperationConfig
	}{
		{collection, http.MethodPost, swagger.OperationConfig{
			Nickname: "create",
			Doc: `
			@param body: create a item.
			@type body: L{Item}
			@return 200: item is created.
			@raise 400: invalid input`,
		}},
		{collection, http.MethodGet, swagger.OperationConfig{
			Nickname: "list",
			Doc:      `@rtype: L{Item}`,
		}},
		{single, http.MethodGet, swagger.OperationConfig{
			Nickname: "get",
			Args:     swagger.Sig(swagger.Arg("arg")),
			Doc: `
			@rtype: L{Item}
			@description: get information of a item
			@notes:
			    get a item,

			    This will be added to the Implementation Notes. It lets you put very long text in your api.
			@raise 404: item not found`,
		}},
		{single, http.MethodDelete, swagger.OperationConfig{
			Nickname: "delete",
			Args:     swagger.Sig(swagger.Arg("arg")),
			Doc: `
			@description: delete a item
			@notes:
			    delete a item in items

			    This will be added to the Implementation Notes. It lets you put very long text in your api.
			@raise 404: item not found`,
		}},
		{cases, http.MethodPost, swagger.OperationConfig{
			Nickname: "create",
			Args:     swagger.Sig(swagger.Arg("arg1"), swagger.Opt("arg2", "")),
			Doc: `
			@return 200: case is created
			@raise 404: item not found`,
		}},
	}

	for _, op := range ops {
		if _, err := docs.Operation(op.handler, op.method, op.cfg); err != nil {
			return fmt.Errorf("exampleapp: %w", err)
		}
	}
	return nil
}
