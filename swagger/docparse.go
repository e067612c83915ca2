package swagger

import (
	"errors"
	"regexp"
	"strings"
)

// FieldTag names a documentation field.
type FieldTag string

// Recognized documentation fields.
const (
	TagParam       FieldTag = "param"
	TagType        FieldTag = "type"
	TagRType       FieldTag = "rtype"
	TagProperty    FieldTag = "property"
	TagPType       FieldTag = "ptype"
	TagReturn      FieldTag = "return"
	TagRaise       FieldTag = "raise"
	TagNotes       FieldTag = "notes"
	TagDescription FieldTag = "description"
)

// LineBreak replaces newlines in notes and descriptions so that they
// survive transport as a single-line string.
const LineBreak = "<br/>"

var knownTags = map[string]FieldTag{
	"param":       TagParam,
	"type":        TagType,
	"rtype":       TagRType,
	"property":    TagProperty,
	"ptype":       TagPType,
	"return":      TagReturn,
	"returns":     TagReturn,
	"raise":       TagRaise,
	"raises":      TagRaise,
	"notes":       TagNotes,
	"description": TagDescription,
}

// argRequired lists the tags that only make sense for a named target. The
// argument of return and raise is the response code.
var argRequired = map[FieldTag]bool{
	TagParam:    true,
	TagType:     true,
	TagProperty: true,
	TagPType:    true,
	TagReturn:   true,
	TagRaise:    true,
}

// fieldRegexp matches "@tag: body" and "@tag arg: body".
var fieldRegexp = regexp.MustCompile(`^@([A-Za-z_]\w*)(?:\s+([^\s:]+))?\s*:(.*)$`)

// DocField is one parsed documentation entry.
type DocField struct {
	Tag      FieldTag
	Argument string
	Body     string
}

type pendingField struct {
	line  int
	text  string
	tag   string
	arg   string
	lines []string
}

// ParseDoc splits a documentation text into fields. A field starts on a
// line of the form "@tag[ arg]: body" and continues until the next field;
// text before the first field is free description and is skipped. Lines of
// a paragraph are joined with a space and paragraphs are separated by a
// blank line ("\n\n"). Inline markup such as L{Item} or C{list} renders to
// its content.
//
// Unknown tags are dropped, so a text without recognized tags yields no
// fields. A line starting with "@" that is not a well-formed field, a
// recognized field missing its required argument, or unbalanced inline
// markup yields a *DocError.
func ParseDoc(text string) ([]DocField, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	var (
		fields []DocField
		cur    *pendingField
	)

	flush := func() error {
		if cur == nil {
			return nil
		}
		field, ok, err := cur.build()
		cur = nil
		if err != nil || !ok {
			return err
		}
		fields = append(fields, field)
		return nil
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	for i, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "@") {
			if cur != nil {
				cur.lines = append(cur.lines, trimmed)
			}
			continue
		}

		if err := flush(); err != nil {
			return nil, err
		}

		m := fieldRegexp.FindStringSubmatch(trimmed)
		if m == nil {
			return nil, &DocError{Line: i + 1, Text: trimmed, Reason: `field must have the form "@tag[ arg]: body"`}
		}

		cur = &pendingField{
			line:  i + 1,
			text:  trimmed,
			tag:   strings.ToLower(m[1]),
			arg:   m[2],
			lines: []string{strings.TrimSpace(m[3])},
		}
	}

	if err := flush(); err != nil {
		return nil, err
	}

	return fields, nil
}

// build renders the pending field. It reports false for unknown tags.
func (p *pendingField) build() (DocField, bool, error) {
	tag, known := knownTags[p.tag]

	body, err := renderInline(joinParagraphs(p.lines))
	if err != nil {
		return DocField{}, false, &DocError{Line: p.line, Text: p.text, Reason: err.Error()}
	}

	if !known {
		return DocField{}, false, nil
	}

	if argRequired[tag] && p.arg == "" {
		return DocField{}, false, &DocError{Line: p.line, Text: p.text, Reason: "@" + string(tag) + " requires an argument"}
	}

	return DocField{Tag: tag, Argument: p.arg, Body: body}, true, nil
}

// joinParagraphs joins trimmed lines into paragraphs separated by "\n\n".
func joinParagraphs(lines []string) string {
	var (
		paragraphs []string
		current    []string
	)

	for _, line := range lines {
		if line == "" {
			if len(current) > 0 {
				paragraphs = append(paragraphs, strings.Join(current, " "))
				current = nil
			}
			continue
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		paragraphs = append(paragraphs, strings.Join(current, " "))
	}

	return strings.Join(paragraphs, "\n\n")
}

var (
	errUnbalancedOpen  = errors.New("unbalanced '{' in inline markup")
	errUnbalancedClose = errors.New("unbalanced '}' in inline markup")
)

// renderInline strips inline markup of the form X{...}, where X is a single
// capital letter. E{lb} and E{rb} render as literal braces. Plain braces
// must be balanced and are kept.
func renderInline(s string) (string, error) {
	type frame struct {
		markup byte
		start  int
	}

	var (
		b     strings.Builder
		stack []frame
	)

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z' && i+1 < len(s) && s[i+1] == '{':
			stack = append(stack, frame{markup: c, start: b.Len()})
			i++
		case c == '{':
			stack = append(stack, frame{start: b.Len()})
			b.WriteByte(c)
		case c == '}':
			if len(stack) == 0 {
				return "", errUnbalancedClose
			}
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			switch f.markup {
			case 0:
				b.WriteByte(c)
			case 'E':
				out := b.String()
				inner := out[f.start:]
				b.Reset()
				b.WriteString(out[:f.start])
				switch inner {
				case "lb":
					b.WriteByte('{')
				case "rb":
					b.WriteByte('}')
				default:
					b.WriteString(inner)
				}
			}
		default:
			b.WriteByte(c)
		}
	}

	if len(stack) > 0 {
		return "", errUnbalancedOpen
	}

	return b.String(), nil
}

// sanitize replaces newlines with LineBreak.
func sanitize(s string) string {
	return strings.ReplaceAll(s, "\n", LineBreak)
}
