package swagger

import (
	"encoding/json"
)

// SwaggerVersion is the version of the specification format produced.
const SwaggerVersion = "1.2"

// APIDeclaration is the assembled specification document: every documented
// path with its operations, and every declared model.
type APIDeclaration struct {
	APIVersion     string               `json:"apiVersion" yaml:"apiVersion"`
	SwaggerVersion string               `json:"swaggerVersion" yaml:"swaggerVersion"`
	BasePath       string               `json:"basePath" yaml:"basePath"`
	APIs           []API                `json:"apis" yaml:"apis"`
	Models         map[string]ModelSpec `json:"models" yaml:"models"`
}

// API groups the operations documented for one route.
type API struct {
	Path        string          `json:"path" yaml:"path"`
	Description *string         `json:"description" yaml:"description"`
	Operations  []OperationSpec `json:"operations" yaml:"operations"`
}

// OperationSpec is the rendered form of an Operation.
type OperationSpec struct {
	HTTPMethod       string            `json:"httpMethod" yaml:"httpMethod"`
	Nickname         string            `json:"nickname" yaml:"nickname"`
	Parameters       []Parameter       `json:"parameters" yaml:"parameters"`
	Summary          *string           `json:"summary" yaml:"summary"`
	Notes            *string           `json:"notes" yaml:"notes"`
	ResponseClass    *string           `json:"responseClass" yaml:"responseClass"`
	ResponseMessages []ResponseMessage `json:"responseMessages" yaml:"responseMessages"`
}

// Parameter describes one operation parameter. ParamType is the parameter
// location (path, query, body, header or form).
type Parameter struct {
	Name          string `json:"name" yaml:"name"`
	ParamType     string `json:"paramType" yaml:"paramType"`
	DataType      string `json:"dataType" yaml:"dataType"`
	Description   string `json:"description,omitempty" yaml:"description,omitempty"`
	Required      bool   `json:"required" yaml:"required"`
	AllowMultiple bool   `json:"allowMultiple" yaml:"allowMultiple"`
}

// ResponseMessage documents one response code of an operation.
type ResponseMessage struct {
	Code    string `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
}

// ModelSpec is the rendered form of a Model.
type ModelSpec struct {
	Description *string             `json:"description" yaml:"description"`
	ID          string              `json:"id" yaml:"id"`
	Notes       *string             `json:"notes" yaml:"notes"`
	Properties  map[string]Property `json:"properties" yaml:"properties"`
	Required    []string            `json:"required" yaml:"required"`
}

// Property describes one model property. Default is rendered only when
// HasDefault is set, and may then be nil (rendered as null).
type Property struct {
	Type        string
	Description string
	Default     any
	HasDefault  bool
}

type propertyFields struct {
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

type propertyWithDefault struct {
	propertyFields `yaml:",inline"`
	Default        any `json:"default" yaml:"default"`
}

func (p Property) render() any {
	fields := propertyFields{Type: p.Type, Description: p.Description}
	if !p.HasDefault {
		return fields
	}
	return propertyWithDefault{propertyFields: fields, Default: p.Default}
}

// MarshalJSON renders the property, emitting "default" only when declared.
func (p Property) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.render())
}

// MarshalYAML implements yaml.Marshaler with the same shape as MarshalJSON.
func (p Property) MarshalYAML() (any, error) {
	return p.render(), nil
}

// ResourceListing is the discovery document pointing at the API
// declaration.
type ResourceListing struct {
	APIVersion     string        `json:"apiVersion" yaml:"apiVersion"`
	SwaggerVersion string        `json:"swaggerVersion" yaml:"swaggerVersion"`
	BasePath       string        `json:"basePath" yaml:"basePath"`
	Produces       []string      `json:"produces" yaml:"produces"`
	Description    string        `json:"description" yaml:"description"`
	APIs           []ResourceRef `json:"apis" yaml:"apis"`
}

// ResourceRef points at one API declaration.
type ResourceRef struct {
	Path        string `json:"path" yaml:"path"`
	Description string `json:"description" yaml:"description"`
}
