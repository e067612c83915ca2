package swagger

import (
	"fmt"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"
)

// Param is one declared parameter of a callable. A parameter with a
// default value is optional.
type Param struct {
	Name       string
	Default    any
	HasDefault bool
}

// Arg declares a required parameter.
func Arg(name string) Param {
	return Param{Name: name}
}

// Opt declares an optional parameter with its default value. A nil
// default is kept and rendered as null.
func Opt(name string, def any) Param {
	return Param{Name: name, Default: def, HasDefault: true}
}

// Signature is the ordered parameter list of a callable, without the
// receiver.
type Signature []Param

// Sig builds a Signature from its parameters.
func Sig(params ...Param) Signature {
	return Signature(params)
}

// Optional is a parameter name with its default value.
type Optional struct {
	Name    string
	Default any
}

// Validate reports an error wrapping ErrBadSignature when a parameter name
// is empty or declared twice.
func (s Signature) Validate() error {
	seen := make(map[string]struct{}, len(s))
	for i, p := range s {
		if p.Name == "" {
			return fmt.Errorf("%w: parameter %d has no name", ErrBadSignature, i)
		}
		if _, ok := seen[p.Name]; ok {
			return fmt.Errorf("%w: parameter %q declared twice", ErrBadSignature, p.Name)
		}
		seen[p.Name] = struct{}{}
	}
	return nil
}

// Names returns the parameter names in declaration order.
func (s Signature) Names() []string {
	names := make([]string, 0, len(s))
	for _, p := range s {
		names = append(names, p.Name)
	}
	return names
}

// Inspect splits a signature, in declaration order, into the names of the
// required parameters and the optional parameters with their defaults.
// An empty signature yields two empty lists.
func Inspect(s Signature) ([]string, []Optional) {
	required := make([]string, 0, len(s))
	var optional []Optional

	for _, p := range s {
		if p.HasDefault {
			optional = append(optional, Optional{Name: p.Name, Default: p.Default})
			continue
		}
		required = append(required, p.Name)
	}

	return required, optional
}

// StructSignature derives a signature from a struct type, the Go analogue
// of a constructor. Exported fields become parameters in declaration order;
// embedded structs are flattened. The parameter name comes from the json
// tag, or the field name when the tag has none; fields tagged json:"-" are
// skipped. A default:"..." tag makes the field optional. Its literal is
// decoded as a YAML scalar, so default:"null" is nil, default:"''" is the
// empty string and default:"5" is the integer 5.
func StructSignature(v any) (Signature, error) {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %v is not a struct", ErrBadSignature, t)
	}

	var sig Signature
	if err := appendStructFields(&sig, t); err != nil {
		return nil, err
	}

	if err := sig.Validate(); err != nil {
		return nil, err
	}

	return sig, nil
}

func appendStructFields(sig *Signature, t reflect.Type) error {
	for i := range t.NumField() {
		field := t.Field(i)

		if field.Anonymous {
			ft := field.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				if _, tagged := field.Tag.Lookup("json"); !tagged {
					if err := appendStructFields(sig, ft); err != nil {
						return err
					}
					continue
				}
			}
		}

		if !field.IsExported() {
			continue
		}

		name := field.Name
		if tag, ok := field.Tag.Lookup("json"); ok {
			tagName, _, _ := strings.Cut(tag, ",")
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
		}

		literal, ok := field.Tag.Lookup("default")
		if !ok {
			*sig = append(*sig, Arg(name))
			continue
		}

		def, err := decodeDefault(literal)
		if err != nil {
			return fmt.Errorf("%w: default of field %s.%s: %v", ErrBadSignature, t.Name(), field.Name, err)
		}
		*sig = append(*sig, Opt(name, def))
	}

	return nil
}

// decodeDefault decodes a default tag literal as a YAML scalar.
func decodeDefault(literal string) (any, error) {
	var node yaml.Node
	if err := yaml.Unmarshal([]byte(literal), &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return nil, nil
	}

	scalar := node.Content[0]
	if scalar.Kind != yaml.ScalarNode {
		return nil, fmt.Errorf("literal %q is not a scalar", literal)
	}

	var v any
	if err := scalar.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
