package swagger

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/vitalvas/swagdoc/mux"
)

// Operation describes one documented handler method. Its parameters are
// seeded from the method's positional arguments, all located in the path,
// and overlaid with the @param and @type fields of its documentation. An
// Operation is immutable once constructed.
type Operation struct {
	method   string
	nickname string
	args     []string
	doc      docInfo
}

// NewOperation builds an operation for the handler method serving the given
// HTTP verb. The signature lists the positional arguments the method
// receives from the route's capture groups.
func NewOperation(method, nickname string, sig Signature, doc string) (*Operation, error) {
	if !mux.IsMethod(method) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}

	if err := sig.Validate(); err != nil {
		return nil, fmt.Errorf("operation %s: %w", strings.ToUpper(method), err)
	}

	op := &Operation{
		method:   strings.ToLower(method),
		nickname: nickname,
		args:     sig.Names(),
	}

	for _, p := range sig {
		param := op.doc.params.upsert(p.Name)
		param.Required = !p.HasDefault
		param.requiredSet = true
		param.ParamType = "path"
		param.DataType = "string"
	}

	fields, err := ParseDoc(doc)
	if err != nil {
		return nil, fmt.Errorf("operation %s: %w", strings.ToUpper(method), err)
	}
	op.doc.apply(fields)

	return op, nil
}

// HTTPMethod returns the upper-cased verb the operation serves.
func (o *Operation) HTTPMethod() string {
	return strings.ToUpper(o.method)
}

// Nickname returns the nickname given at declaration, possibly empty.
func (o *Operation) Nickname() string {
	return o.nickname
}

// Args returns the positional argument names in declaration order.
func (o *Operation) Args() []string {
	args := make([]string, len(o.args))
	copy(args, o.args)
	return args
}

// Parameters returns the merged parameters in first-seen order: signature
// arguments first, then parameters only the documentation declares.
func (o *Operation) Parameters() []Parameter {
	return o.doc.params.list()
}

// Spec renders the operation.
func (o *Operation) Spec() OperationSpec {
	return OperationSpec{
		HTTPMethod:       o.HTTPMethod(),
		Nickname:         o.nickname,
		Parameters:       o.doc.params.list(),
		Summary:          copyStringPtr(o.doc.summary),
		Notes:            copyStringPtr(o.doc.notes),
		ResponseClass:    copyStringPtr(o.doc.responseClass),
		ResponseMessages: o.doc.messages(),
	}
}

// OperationTable attaches operations to handler types. An operation is
// keyed by the handler type and its HTTP method; operations of one handler
// type are kept in registration order.
type OperationTable struct {
	mu     sync.RWMutex
	byType map[reflect.Type][]*Operation
}

// NewOperationTable returns an empty table.
func NewOperationTable() *OperationTable {
	return &OperationTable{byType: make(map[reflect.Type][]*Operation)}
}

// Register attaches op to the type of handler. The handler must implement
// the method op serves (see mux.HandlerMethod), and each method can be
// attached once per handler type. Pointer and value handlers share a key.
func (t *OperationTable) Register(handler any, op *Operation) error {
	if _, ok := mux.HandlerMethod(handler, op.method); !ok {
		return fmt.Errorf("%w: %s has no %s method", ErrNotCallable, handlerName(handler), op.HTTPMethod())
	}

	key := handlerType(handler)

	t.mu.Lock()
	defer t.mu.Unlock()

	for _, existing := range t.byType[key] {
		if existing.method == op.method {
			return fmt.Errorf("%w: %s %s", ErrDuplicateOperation, handlerName(handler), op.HTTPMethod())
		}
	}

	t.byType[key] = append(t.byType[key], op)
	return nil
}

// Lookup returns the operations attached to the type of handler, in
// registration order. Handlers without operations yield nil.
func (t *OperationTable) Lookup(handler any) []*Operation {
	key := handlerType(handler)
	if key == nil {
		return nil
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	ops := t.byType[key]
	if len(ops) == 0 {
		return nil
	}

	out := make([]*Operation, len(ops))
	copy(out, ops)
	return out
}

// handlerType returns the dereferenced type of a handler value.
func handlerType(handler any) reflect.Type {
	t := reflect.TypeOf(handler)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// handlerName returns a diagnostic name for a handler value.
func handlerName(handler any) string {
	t := reflect.TypeOf(handler)
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
