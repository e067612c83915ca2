package swagger

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/vitalvas/swagdoc/mux"
)

// Info holds the document-level values of an API declaration.
type Info struct {
	// APIVersion is the version of the documented API.
	APIVersion string

	// BasePath is the URL the documented paths are relative to. The HTTP
	// endpoints replace it with a value derived from the request.
	BasePath string
}

// Describer is implemented by handler types that document themselves. The
// text becomes the description of the route's API entry.
type Describer interface {
	Description() string
}

// RouteEntry is one row of a routing table: a path pattern and the handler
// value bound to it.
type RouteEntry struct {
	Pattern string
	Handler any
}

// OperationConfig declares one handler method for Docs.Operation.
type OperationConfig struct {
	// Nickname is stored verbatim and may be empty.
	Nickname string

	// Args lists the positional arguments the method receives from the
	// route's capture groups.
	Args Signature

	// Doc is the documentation text of the method.
	Doc string
}

// Docs collects models, operations and handler descriptions, and assembles
// them with a routing table into an APIDeclaration.
//
//	docs := swagger.New(swagger.Info{APIVersion: "v1.0"})
//	docs.MustModelType(Item{}, `@description: an item`)
//	docs.MustOperation(&ItemHandler{}, "get", swagger.OperationConfig{
//	    Nickname: "get",
//	    Args:     swagger.Sig(swagger.Arg("arg")),
//	    Doc:      `@rtype: L{Item}`,
//	})
//	doc, err := docs.BuildRouter(r)
type Docs struct {
	info       Info
	models     *Registry
	operations *OperationTable

	mu                sync.RWMutex
	descriptions      map[reflect.Type]string
	enabledMethods    map[string]bool
	excludeNamespaces []string
}

// New returns a Docs with an empty model registry and operation table.
func New(info Info) *Docs {
	return &Docs{
		info:         info,
		models:       NewRegistry(),
		operations:   NewOperationTable(),
		descriptions: make(map[reflect.Type]string),
	}
}

// WithRegistry replaces the model registry, so that several Docs can share
// one set of models.
func (d *Docs) WithRegistry(r *Registry) *Docs {
	d.models = r
	return d
}

// Registry returns the model registry.
func (d *Docs) Registry() *Registry {
	return d.models
}

// Operations returns the operation table.
func (d *Docs) Operations() *OperationTable {
	return d.operations
}

// Info returns the document-level values.
func (d *Docs) Info() Info {
	return d.info
}

// EnableMethods restricts the documented operations to the given HTTP
// methods, compared case-insensitively. Without a call every method is
// documented.
func (d *Docs) EnableMethods(methods ...string) *Docs {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.enabledMethods = make(map[string]bool, len(methods))
	for _, m := range methods {
		d.enabledMethods[strings.ToUpper(m)] = true
	}
	return d
}

// ExcludeNamespaces leaves out routes whose pattern, stripped of a leading
// "^", starts with one of the prefixes.
func (d *Docs) ExcludeNamespaces(prefixes ...string) *Docs {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.excludeNamespaces = append(d.excludeNamespaces, prefixes...)
	return d
}

// Describe sets the description of a handler type, taking precedence over
// its Describer implementation.
func (d *Docs) Describe(handler any, text string) *Docs {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.descriptions[handlerType(handler)] = text
	return d
}

// Model declares and registers a model.
func (d *Docs) Model(id string, sig Signature, doc string) (*Model, error) {
	return d.models.Declare(id, sig, doc)
}

// ModelType declares and registers a model for a struct type.
func (d *Docs) ModelType(v any, doc string) (*Model, error) {
	return d.models.DeclareType(v, doc)
}

// MustModel is like Model but panics on error.
func (d *Docs) MustModel(id string, sig Signature, doc string) *Model {
	return d.models.MustDeclare(id, sig, doc)
}

// MustModelType is like ModelType but panics on error.
func (d *Docs) MustModelType(v any, doc string) *Model {
	return d.models.MustDeclareType(v, doc)
}

// Operation declares the method of handler serving the given HTTP verb and
// attaches it to the handler type.
func (d *Docs) Operation(handler any, method string, cfg OperationConfig) (*Operation, error) {
	op, err := NewOperation(method, cfg.Nickname, cfg.Args, cfg.Doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", handlerName(handler), err)
	}
	if err := d.operations.Register(handler, op); err != nil {
		return nil, err
	}
	return op, nil
}

// MustOperation is like Operation but panics on error.
func (d *Docs) MustOperation(handler any, method string, cfg OperationConfig) *Operation {
	op, err := d.Operation(handler, method, cfg)
	if err != nil {
		panic(err)
	}
	return op
}

// RouterEntries converts the routing table of a router into route entries.
// Routes that failed to build are skipped.
func RouterEntries(r *mux.Router) []RouteEntry {
	var entries []RouteEntry
	_ = r.Walk(func(route *mux.Route) error {
		if route.GetError() == nil {
			entries = append(entries, RouteEntry{Pattern: route.GetPattern(), Handler: route.GetHandler()})
		}
		return nil
	})
	return entries
}

// BuildRouter assembles the declaration for the routing table of r.
func (d *Docs) BuildRouter(r *mux.Router) (*APIDeclaration, error) {
	return d.Build(RouterEntries(r))
}

// Build assembles the declaration. A route is documented when its handler
// type has at least one enabled operation; its path is the pattern with the
// capture groups replaced by the first operation's argument names, and its
// operations keep registration order. Models are rendered from the registry.
// A routing table without documented routes yields an empty, valid document.
func (d *Docs) Build(routes []RouteEntry) (*APIDeclaration, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	apis := make([]API, 0)
	for _, route := range routes {
		if d.excluded(route.Pattern) {
			continue
		}

		ops := d.enabled(d.operations.Lookup(route.Handler))
		if len(ops) == 0 {
			continue
		}

		api, err := d.buildAPI(route, ops)
		if err != nil {
			return nil, err
		}
		apis = append(apis, api)
	}

	models := make(map[string]ModelSpec)
	for _, m := range d.models.Snapshot() {
		models[m.ID()] = m.Spec()
	}

	return &APIDeclaration{
		APIVersion:     d.info.APIVersion,
		SwaggerVersion: SwaggerVersion,
		BasePath:       d.info.BasePath,
		APIs:           apis,
		Models:         models,
	}, nil
}

func (d *Docs) buildAPI(route RouteEntry, ops []*Operation) (API, error) {
	path, groups, err := renderPath(route.Pattern, ops[0].Args(), handlerName(route.Handler), ops[0].HTTPMethod())
	if err != nil {
		return API{}, err
	}

	specs := make([]OperationSpec, 0, len(ops))
	for _, op := range ops {
		if len(op.args) != groups {
			return API{}, &PlaceholderError{
				Pattern: route.Pattern,
				Handler: handlerName(route.Handler),
				Groups:  groups,
				Args:    len(op.args),
				Method:  op.HTTPMethod(),
			}
		}
		specs = append(specs, op.Spec())
	}

	return API{
		Path:        path,
		Description: d.description(route.Handler),
		Operations:  specs,
	}, nil
}

func (d *Docs) excluded(pattern string) bool {
	pattern = strings.TrimPrefix(pattern, "^")
	for _, prefix := range d.excludeNamespaces {
		if prefix != "" && strings.HasPrefix(pattern, prefix) {
			return true
		}
	}
	return false
}

func (d *Docs) enabled(ops []*Operation) []*Operation {
	if d.enabledMethods == nil {
		return ops
	}

	var out []*Operation
	for _, op := range ops {
		if d.enabledMethods[op.HTTPMethod()] {
			out = append(out, op)
		}
	}
	return out
}

func (d *Docs) description(handler any) *string {
	if text, ok := d.descriptions[handlerType(handler)]; ok {
		return stringPtr(text)
	}
	if desc, ok := handler.(Describer); ok {
		return stringPtr(desc.Description())
	}
	return nil
}
