// Package types defines the normalized resource model shared by the
// import pipeline. Discovery adapters produce Resource values; the
// renderers consume them. NO provider-specific logic belongs here.
package types

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Resource is the canonical unit flowing through the pipeline. Every
// discovery adapter maps one native cloud object into one Resource.
type Resource struct {
	// ID is the provider-native unique identifier (ARN, physical ID).
	// Immutable once discovered.
	ID string `json:"id"`

	// Type is the fully qualified resource kind, e.g. "aws_route53_zone".
	// Immutable.
	Type string `json:"type"`

	// Name is the sanitized local symbol addressing the resource inside
	// one service's output. Always produced through SanitizeName.
	Name string `json:"name"`

	// Provider is the provider namespace this resource belongs to.
	Provider string `json:"provider"`

	// Attributes appear in the generated configuration and seed the
	// state snapshot. Values are scalars, lists or nested maps.
	Attributes map[string]interface{} `json:"attributes"`

	// AdditionalFields carries read-only metadata that per-service hooks
	// may promote into Attributes. On key collision with Attributes,
	// AdditionalFields wins when the two are merged for rendering.
	AdditionalFields map[string]interface{} `json:"additional_fields,omitempty"`

	// Dependencies lists other resource identities the state entry must
	// declare. Used only by the state renderer.
	Dependencies []string `json:"dependencies,omitempty"`

	// IgnoreKeys holds regular expressions; matching attribute keys are
	// dropped from configuration output.
	IgnoreKeys []string `json:"ignore_keys,omitempty"`

	// AllowEmptyValues holds regular expressions; matching keys are kept
	// in output even when their value is empty.
	AllowEmptyValues []string `json:"allow_empty_values,omitempty"`

	// PostProcessed marks that the service's post-convert hook already
	// ran over this resource. Hooks must skip processed resources so a
	// repeated invocation cannot double-escape or re-wrap values.
	PostProcessed bool `json:"-"`
}

// NewResource builds a Resource with a sanitized name.
func NewResource(id, name, resourceType, provider string, attributes map[string]interface{}) Resource {
	if attributes == nil {
		attributes = map[string]interface{}{}
	}
	return Resource{
		ID:         id,
		Type:       resourceType,
		Name:       SanitizeName(name),
		Provider:   provider,
		Attributes: attributes,
	}
}

// Address returns the configuration address "<type>.<name>".
func (r *Resource) Address() string {
	return r.Type + "." + r.Name
}

// SetAdditionalField records a metadata field outside Attributes.
func (r *Resource) SetAdditionalField(key string, value interface{}) {
	if r.AdditionalFields == nil {
		r.AdditionalFields = map[string]interface{}{}
	}
	r.AdditionalFields[key] = value
}

// AdditionalField returns a metadata field, or nil when absent.
func (r *Resource) AdditionalField(key string) interface{} {
	if r.AdditionalFields == nil {
		return nil
	}
	return r.AdditionalFields[key]
}

// MergedAttributes combines Attributes and AdditionalFields into one map.
// AdditionalFields values override Attributes values on key collision.
// The result is a fresh map; mutating it does not touch the resource.
func (r *Resource) MergedAttributes() map[string]interface{} {
	merged := make(map[string]interface{}, len(r.Attributes)+len(r.AdditionalFields))
	for k, v := range r.Attributes {
		merged[k] = v
	}
	for k, v := range r.AdditionalFields {
		merged[k] = v
	}
	return merged
}

// SortedKeys returns map keys in lexicographic order. Rendering iterates
// merged attributes through this so output is deterministic.
func SortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ReferenceExpr builds the interpolation expression addressing an
// exported attribute of another resource in the same result set.
func ReferenceExpr(resourceType, name, attribute string) string {
	return fmt.Sprintf("${%s.%s.%s}", resourceType, name, attribute)
}

var invalidNameChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// SanitizeName turns an arbitrary string into a valid local symbol:
// lowercase, characters outside [a-zA-Z0-9_-] replaced with "_", and a
// leading digit prefixed with "_". The function is idempotent.
func SanitizeName(name string) string {
	s := invalidNameChars.ReplaceAllString(strings.ToLower(name), "_")
	if s == "" {
		return "_"
	}
	if s[0] >= '0' && s[0] <= '9' {
		s = "_" + s
	}
	return s
}

// SortResources orders resources by (type, name). Used as the final
// pre-render sort unless discovery order is requested.
func SortResources(resources []*Resource) {
	sort.SliceStable(resources, func(i, j int) bool {
		if resources[i].Type != resources[j].Type {
			return resources[i].Type < resources[j].Type
		}
		return resources[i].Name < resources[j].Name
	})
}
