package avg

import (
	"fmt"
	"regexp"
	"strings"
)

// bindingRef matches a ${name} reference to a graphic parameter.
var bindingRef = regexp.MustCompile(`\$\{\s*([A-Za-z_][A-Za-z0-9_.]*)\s*\}`)

// lookupFunc resolves a parameter name to its current value.
type lookupFunc func(name string) (any, bool)

// references returns the parameter names raw refers to, in order of first
// appearance. Strings, lists and objects are searched.
func references(raw any) []string {
	var refs []string
	seen := map[string]bool{}
	var walk func(v any)
	walk = func(v any) {
		switch x := v.(type) {
		case string:
			for _, m := range bindingRef.FindAllStringSubmatch(x, -1) {
				if !seen[m[1]] {
					seen[m[1]] = true
					refs = append(refs, m[1])
				}
			}
		case []any:
			for _, item := range x {
				walk(item)
			}
		case map[string]any:
			for _, item := range x {
				walk(item)
			}
		}
	}
	walk(raw)
	return refs
}

// evaluate substitutes parameter values into raw. A string that is a
// single reference takes the parameter value with its type; references
// embedded in longer strings are formatted into the text.
func evaluate(raw any, lookup lookupFunc) (any, error) {
	switch x := raw.(type) {
	case string:
		return evaluateString(x, lookup)
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			v, err := evaluate(item, lookup)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, item := range x {
			v, err := evaluate(item, lookup)
			if err != nil {
				return nil, err
			}
			out[k] = v
		}
		return out, nil
	}
	return raw, nil
}

func evaluateString(s string, lookup lookupFunc) (any, error) {
	matches := bindingRef.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s, nil
	}

	if len(matches) == 1 && matches[0][0] == 0 && matches[0][1] == len(s) {
		name := s[matches[0][2]:matches[0][3]]
		v, ok := lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown parameter %q", name)
		}
		return v, nil
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		name := s[m[2]:m[3]]
		v, ok := lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown parameter %q", name)
		}
		b.WriteString(s[last:m[0]])
		if v != nil {
			fmt.Fprint(&b, v)
		}
		last = m[1]
	}
	b.WriteString(s[last:])
	return b.String(), nil
}
