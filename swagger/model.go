package swagger

import (
	"fmt"
	"reflect"
)

// Model describes one documented data type. Its properties are seeded from
// the constructor signature and overlaid with @property and @ptype fields
// of its documentation; @description and @notes become the summary and
// notes. A Model is immutable once constructed.
type Model struct {
	id       string
	required []string
	doc      docInfo
}

// NewModel builds a model from its identity, constructor signature and
// documentation text. Parameters without defaults are required; optional
// parameters keep their default on the property.
func NewModel(id string, sig Signature, doc string) (*Model, error) {
	if id == "" {
		return nil, ErrEmptyIdentity
	}

	if err := sig.Validate(); err != nil {
		return nil, fmt.Errorf("model %s: %w", id, err)
	}

	m := &Model{id: id}

	required, optional := Inspect(sig)
	for _, name := range required {
		m.required = append(m.required, name)
		m.doc.properties.upsert(name).Type = "string"
	}
	for _, opt := range optional {
		p := m.doc.properties.upsert(opt.Name)
		p.Type = "string"
		p.Default = opt.Default
		p.HasDefault = true
	}

	fields, err := ParseDoc(doc)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", id, err)
	}
	m.doc.apply(fields)

	return m, nil
}

// NewModelFromType builds a model for a struct type. The identity is the
// type name and the signature comes from StructSignature.
func NewModelFromType(v any, doc string) (*Model, error) {
	sig, err := StructSignature(v)
	if err != nil {
		return nil, err
	}
	return NewModel(typeName(v), sig, doc)
}

// ID returns the model identity.
func (m *Model) ID() string {
	return m.id
}

// Required returns the required property names in declaration order.
func (m *Model) Required() []string {
	required := make([]string, len(m.required))
	copy(required, m.required)
	return required
}

// Properties returns the model properties keyed by name.
func (m *Model) Properties() map[string]Property {
	return m.doc.properties.rendered()
}

// Spec renders the model.
func (m *Model) Spec() ModelSpec {
	return ModelSpec{
		Description: copyStringPtr(m.doc.summary),
		ID:          m.id,
		Notes:       copyStringPtr(m.doc.notes),
		Properties:  m.doc.properties.rendered(),
		Required:    m.Required(),
	}
}

// typeName returns the name of the type of v, dereferencing pointers.
func typeName(v any) string {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	return t.Name()
}
