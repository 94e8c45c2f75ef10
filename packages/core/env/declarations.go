package env

import (
	"strings"
)

// Sigil marks a variable declaration line.
const Sigil = "@"

// Binding is a single name/value declaration.
type Binding struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Bindings is an ordered list of declarations. Duplicate names are kept;
// consumers decide how to resolve them.
type Bindings []Binding

// Extract scans text for declaration lines and returns them in order.
//
// A line qualifies when, after trimming, it starts with the sigil. The
// remainder is split on the first "=" into name and value. Lines with the
// sigil but no "=" are skipped.
func Extract(text string) Bindings {
	var result Bindings

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, Sigil) {
			continue
		}

		name, value, found := strings.Cut(line[len(Sigil):], "=")
		if !found {
			continue
		}

		result = append(result, Binding{
			Name:  strings.TrimSpace(name),
			Value: strings.TrimSpace(value),
		})
	}

	return result
}

// Lookup returns the value of the last binding with the given name.
func (b Bindings) Lookup(name string) (string, bool) {
	for i := len(b) - 1; i >= 0; i-- {
		if b[i].Name == name {
			return b[i].Value, true
		}
	}
	return "", false
}

// Map collapses the bindings into a map using last-wins.
func (b Bindings) Map() map[string]string {
	result := make(map[string]string, len(b))
	for _, binding := range b {
		result[binding.Name] = binding.Value
	}
	return result
}

// Merge concatenates binding lists in order, so later sources win on lookup.
func Merge(sources ...Bindings) Bindings {
	var result Bindings
	for _, src := range sources {
		result = append(result, src...)
	}
	return result
}

// Environ renders the bindings as NAME=value pairs for a process
// environment.
func (b Bindings) Environ() []string {
	out := make([]string, 0, len(b))
	for _, binding := range b {
		out = append(out, binding.Name+"="+binding.Value)
	}
	return out
}

// String renders the bindings back into declaration lines.
func (b Bindings) String() string {
	var sb strings.Builder
	for _, binding := range b {
		sb.WriteString(Sigil)
		sb.WriteString(binding.Name)
		sb.WriteString(" = ")
		sb.WriteString(binding.Value)
		sb.WriteString("\n")
	}
	return sb.String()
}
