package swagger

import (
	"errors"
	"strings"
)

var errIrreversible = errors.New("pattern cannot be reversed")

// reversePattern turns a route pattern into a path template. The pattern is
// stripped of its anchors, escaped punctuation outside groups is unescaped,
// and each top-level capture group is replaced, left to right, by the
// result of placeholder for its index. It returns the number of top-level
// capture groups. Outside groups only literal text is accepted: escape
// classes, quantifiers, character classes, alternation, inner anchors and
// non-capturing groups cannot be reversed.
func reversePattern(pattern string, placeholder func(i int) string) (string, int, error) {
	pattern = strings.TrimPrefix(pattern, "^")
	if strings.HasSuffix(pattern, "$") && !strings.HasSuffix(pattern, `\$`) {
		pattern = strings.TrimSuffix(pattern, "$")
	}

	var (
		b      strings.Builder
		groups int
	)

	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch c {
		case '\\':
			if i+1 >= len(pattern) || !isEscapedLiteral(pattern[i+1]) {
				return "", 0, errIrreversible
			}
			i++
			b.WriteByte(pattern[i])
		case '(':
			end, err := groupEnd(pattern, i)
			if err != nil {
				return "", 0, err
			}
			if !isCapturing(pattern[i+1 : end]) {
				return "", 0, errIrreversible
			}
			b.WriteString(placeholder(groups))
			groups++
			i = end
		case ')', '?', '*', '+', '{', '[', '|', '^', '$':
			return "", 0, errIrreversible
		default:
			b.WriteByte(c)
		}
	}

	return b.String(), groups, nil
}

// isEscapedLiteral reports whether "\c" stands for the character c itself.
// Escaped letters and digits are classes, assertions or back references.
func isEscapedLiteral(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return false
	}
	return c < 0x80
}

// groupEnd returns the index of the parenthesis closing the group opened at
// start, skipping escapes, nested groups and character classes.
func groupEnd(pattern string, start int) (int, error) {
	depth := 0
	for i := start; i < len(pattern); i++ {
		switch pattern[i] {
		case '\\':
			i++
		case '[':
			end, err := classEnd(pattern, i)
			if err != nil {
				return 0, err
			}
			i = end
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, errIrreversible
}

// classEnd returns the index of the bracket closing the character class
// opened at start. A "]" right after "[" or "[^" is a literal.
func classEnd(pattern string, start int) (int, error) {
	i := start + 1
	if i < len(pattern) && pattern[i] == '^' {
		i++
	}
	if i < len(pattern) && pattern[i] == ']' {
		i++
	}
	for ; i < len(pattern); i++ {
		switch pattern[i] {
		case '\\':
			i++
		case ']':
			return i, nil
		}
	}
	return 0, errIrreversible
}

// isCapturing reports whether a group body starts a capturing group: plain
// or named, but not (?:...), lookarounds or flag groups.
func isCapturing(body string) bool {
	if !strings.HasPrefix(body, "?") {
		return true
	}
	return strings.HasPrefix(body, "?P<") || (strings.HasPrefix(body, "?<") &&
		!strings.HasPrefix(body, "?<=") && !strings.HasPrefix(body, "?<!"))
}

// PathTemplate renders a route pattern as a path template, substituting the
// positional arguments, in order, into the top-level capture groups:
// "/items/([^/]+)" with argument "arg" renders "/items/{arg}". The number of
// capture groups must equal the number of arguments.
func PathTemplate(pattern string, args []string) (string, error) {
	path, groups, err := renderPath(pattern, args, "<none>", "")
	if err != nil {
		return "", err
	}
	if groups != len(args) {
		return "", &PlaceholderError{Pattern: pattern, Handler: "<none>", Groups: groups, Args: len(args)}
	}
	return path, nil
}

// renderPath substitutes args into the capture groups of pattern and returns
// the path with the number of groups found. Missing args render empty; the
// caller compares the group count with each operation it documents.
func renderPath(pattern string, args []string, handler, method string) (string, int, error) {
	path, groups, err := reversePattern(pattern, func(i int) string {
		if i < len(args) {
			return "{" + args[i] + "}"
		}
		return ""
	})
	if err != nil {
		return "", -1, &PlaceholderError{
			Pattern: pattern,
			Handler: handler,
			Groups:  -1,
			Args:    len(args),
			Method:  method,
		}
	}
	return path, groups, nil
}
