// Package filter implements the resource filter expression grammar and
// predicate evaluation. Every discovery adapter parses its expressions
// through this package so the grammar stays identical across services.
//
// Two expression forms are accepted:
//
//	<service>=<id1>:<id2>          identifier-list form
//	Type=<service>;Name=<field>;Value=<v1>:<v2>   field form
//
// In the field form any clause may be omitted; an empty Type matches all
// services. A field-form expression without a Value clause has an empty
// acceptable set and therefore rejects every applicable resource
// (fail closed).
package filter

import (
	"fmt"
	"strings"

	"tfadopt/core/types"
)

// FieldID is the pseudo field path addressing the native identifier.
const FieldID = "id"

// Predicate decides whether a resource survives into output.
type Predicate struct {
	// Service restricts the predicate to one service. Empty means the
	// predicate applies to every service.
	Service string

	// FieldPath selects the examined field. Dotted paths descend into
	// nested mappings, e.g. "network_configuration.subnets".
	FieldPath string

	// AcceptableValues is the set of values that let a resource pass.
	// An empty set accepts nothing.
	AcceptableValues []string
}

// IsApplicable reports whether the predicate constrains resources of the
// given service.
func (p Predicate) IsApplicable(service string) bool {
	return p.Service == "" || p.Service == service
}

// Matches reports whether the resource's value at FieldPath intersects
// AcceptableValues. A missing field or an empty acceptable set never
// matches.
func (p Predicate) Matches(r *types.Resource) bool {
	if len(p.AcceptableValues) == 0 {
		return false
	}

	var candidates []string
	if p.FieldPath == FieldID {
		candidates = []string{r.ID}
	} else {
		candidates = fieldValues(r.MergedAttributes(), strings.Split(p.FieldPath, "."))
	}

	for _, c := range candidates {
		for _, want := range p.AcceptableValues {
			if c == want {
				return true
			}
		}
	}
	return false
}

// Parse turns one raw expression into predicates. Malformed expressions
// (no "=") yield none; the parser never fails.
func Parse(expr string) []Predicate {
	if !strings.Contains(expr, "=") {
		return nil
	}

	if hasFieldClause(expr) {
		return parseFieldForm(expr)
	}
	return parseIdentifierForm(expr)
}

// hasFieldClause reports whether any clause of the expression is a
// field-form clause. A stray ";" inside an identifier list must not
// route the expression to the field form, where it would parse into an
// empty acceptable set and reject everything.
func hasFieldClause(expr string) bool {
	for _, clause := range strings.Split(expr, ";") {
		if strings.HasPrefix(clause, "Type=") ||
			strings.HasPrefix(clause, "Name=") ||
			strings.HasPrefix(clause, "Value=") {
			return true
		}
	}
	return false
}

// ParseAll parses every expression and concatenates the results.
func ParseAll(exprs []string) []Predicate {
	var predicates []Predicate
	for _, expr := range exprs {
		predicates = append(predicates, Parse(expr)...)
	}
	return predicates
}

// parseIdentifierForm handles "<service>=<id1>:<id2>:...". An empty
// service part applies the identifier set to all services.
func parseIdentifierForm(expr string) []Predicate {
	parts := strings.SplitN(expr, "=", 2)
	return []Predicate{{
		Service:          parts[0],
		FieldPath:        FieldID,
		AcceptableValues: splitValues(parts[1]),
	}}
}

// parseFieldForm handles "Type=<service>;Name=<field>;Value=<v>:...".
// Unknown clauses are ignored; a missing Value clause leaves the
// acceptable set empty.
func parseFieldForm(expr string) []Predicate {
	p := Predicate{FieldPath: FieldID}
	for _, clause := range strings.Split(expr, ";") {
		kv := strings.SplitN(clause, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "Type":
			p.Service = kv[1]
		case "Name":
			p.FieldPath = kv[1]
		case "Value":
			p.AcceptableValues = splitValues(kv[1])
		}
	}
	return []Predicate{p}
}

func splitValues(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ":")
}

// Allowed reports whether a resource of the given service passes every
// predicate. A predicate that is not applicable to the service passes
// vacuously; applicable predicates must match. Predicates combine with
// logical AND.
func Allowed(r *types.Resource, service string, predicates []Predicate) bool {
	for _, p := range predicates {
		if p.IsApplicable(service) && !p.Matches(r) {
			return false
		}
	}
	return true
}

// fieldValues walks a nested value along the path and collects the string
// representations of the leaves it reaches. List elements are searched
// individually so a path matches when any element matches.
func fieldValues(v interface{}, path []string) []string {
	if len(path) == 0 {
		return leafValues(v)
	}

	switch t := v.(type) {
	case map[string]interface{}:
		next, ok := t[path[0]]
		if !ok {
			return nil
		}
		return fieldValues(next, path[1:])
	case map[string]string:
		next, ok := t[path[0]]
		if !ok {
			return nil
		}
		return fieldValues(next, path[1:])
	case []interface{}:
		var out []string
		for _, elem := range t {
			out = append(out, fieldValues(elem, path)...)
		}
		return out
	}
	return nil
}

func leafValues(v interface{}) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case []interface{}:
		var out []string
		for _, elem := range t {
			out = append(out, leafValues(elem)...)
		}
		return out
	case []string:
		return t
	case map[string]interface{}:
		return nil
	case string:
		return []string{t}
	case types.Heredoc:
		return []string{string(t)}
	default:
		return []string{fmt.Sprint(t)}
	}
}
