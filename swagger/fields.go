package swagger

// Locations a parameter can be documented in.
var paramLocations = map[string]bool{
	"path":   true,
	"query":  true,
	"body":   true,
	"header": true,
	"form":   true,
}

type paramEntry struct {
	Parameter
	requiredSet bool
}

// paramSet holds parameters keyed by name in first-seen order.
type paramSet struct {
	order  []string
	byName map[string]*paramEntry
}

func (s *paramSet) upsert(name string) *paramEntry {
	if s.byName == nil {
		s.byName = make(map[string]*paramEntry)
	}
	if p, ok := s.byName[name]; ok {
		return p
	}
	p := &paramEntry{Parameter: Parameter{Name: name}}
	s.byName[name] = p
	s.order = append(s.order, name)
	return p
}

// list returns the parameters with rendering defaults applied.
func (s *paramSet) list() []Parameter {
	params := make([]Parameter, 0, len(s.order))
	for _, name := range s.order {
		p := s.byName[name].Parameter
		if p.ParamType == "" {
			p.ParamType = "query"
		}
		if p.DataType == "" {
			p.DataType = "string"
		}
		params = append(params, p)
	}
	return params
}

// propertySet holds model properties keyed by name.
type propertySet struct {
	byName map[string]*Property
}

func (s *propertySet) upsert(name string) *Property {
	if s.byName == nil {
		s.byName = make(map[string]*Property)
	}
	if p, ok := s.byName[name]; ok {
		return p
	}
	p := &Property{}
	s.byName[name] = p
	return p
}

func (s *propertySet) rendered() map[string]Property {
	props := make(map[string]Property, len(s.byName))
	for name, p := range s.byName {
		rendered := *p
		if rendered.Type == "" {
			rendered.Type = "string"
		}
		props[name] = rendered
	}
	return props
}

// docInfo collects what documentation fields contribute to a model or an
// operation. Unset text fields stay nil and render as null.
type docInfo struct {
	summary          *string
	notes            *string
	responseClass    *string
	responseMessages []ResponseMessage
	params           paramSet
	properties       propertySet
}

// apply overlays parsed fields, in order, on top of what is already known.
func (d *docInfo) apply(fields []DocField) {
	for _, f := range fields {
		switch f.Tag {
		case TagParam:
			p := d.params.upsert(f.Argument)
			p.Description = f.Body
			if p.ParamType == "" {
				p.ParamType = paramLocation(f.Argument)
			}
			if !p.requiredSet {
				p.Required = true
				p.requiredSet = true
			}
			p.AllowMultiple = false
		case TagType:
			d.params.upsert(f.Argument).DataType = f.Body
		case TagRType:
			d.responseClass = stringPtr(f.Body)
		case TagProperty:
			p := d.properties.upsert(f.Argument)
			if p.Type == "" {
				p.Type = "string"
			}
			p.Description = f.Body
		case TagPType:
			d.properties.upsert(f.Argument).Type = f.Body
		case TagReturn, TagRaise:
			d.responseMessages = append(d.responseMessages, ResponseMessage{Code: f.Argument, Message: f.Body})
		case TagNotes:
			d.notes = stringPtr(sanitize(f.Body))
		case TagDescription:
			d.summary = stringPtr(sanitize(f.Body))
		}
	}
}

// paramLocation picks the location of a parameter documented without one:
// a parameter named after a location lives there, anything else is a query
// parameter.
func paramLocation(name string) string {
	if paramLocations[name] {
		return name
	}
	return "query"
}

func (d *docInfo) messages() []ResponseMessage {
	msgs := make([]ResponseMessage, len(d.responseMessages))
	copy(msgs, d.responseMessages)
	return msgs
}

func stringPtr(s string) *string {
	return &s
}

func copyStringPtr(s *string) *string {
	if s == nil {
		return nil
	}
	return stringPtr(*s)
}
