// Package render serializes resource sets into declarative
// configuration files. Two encodings are supported: HCL text for
// human-authored configuration and the JSON configuration syntax.
// Resource identity (type, name) is shared with the state renderer;
// neither encoding may rename resources.
package render

import (
	"os"
	"path/filepath"
	"regexp"

	"tfadopt/core/types"
	"tfadopt/internal/errors"
)

// Options controls configuration output.
type Options struct {
	// Dir is the target directory, created if missing
	Dir string

	// Compact writes every resource type into one resources file
	// instead of one file per type
	Compact bool

	// JSON selects the JSON configuration syntax
	JSON bool
}

// WriteConfig renders the resource set and provider metadata into the
// target directory. Any write failure is fatal and propagates: partial
// output on disk must never look complete.
func WriteConfig(resources []*types.Resource, providerData types.ProviderData, opts Options) error {
	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return errors.Render("failed to create output directory", err).WithContext("dir", opts.Dir)
	}

	var files map[string][]byte
	var err error
	if opts.JSON {
		files, err = encodeJSON(resources, providerData, opts.Compact)
	} else {
		files, err = encodeHCL(resources, providerData, opts.Compact)
	}
	if err != nil {
		return err
	}

	for name, data := range files {
		path := filepath.Join(opts.Dir, name)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return errors.Render("failed to write configuration file", err).WithContext("path", path)
		}
	}
	return nil
}

// groupByType splits resources into per-type lists preserving order.
func groupByType(resources []*types.Resource) (map[string][]*types.Resource, []string) {
	groups := make(map[string][]*types.Resource)
	var order []string
	for _, r := range resources {
		if _, seen := groups[r.Type]; !seen {
			order = append(order, r.Type)
		}
		groups[r.Type] = append(groups[r.Type], r)
	}
	return groups, order
}

// includeField applies the text-encoding field-inclusion policy: keys
// matching an ignore pattern are dropped, and empty values are dropped
// unless their key matches an allow-empty pattern.
func includeField(r *types.Resource, key string, value interface{}) bool {
	if matchesAny(r.IgnoreKeys, key) {
		return false
	}
	if types.IsEmptyValue(value) && !matchesAny(r.AllowEmptyValues, key) {
		return false
	}
	return true
}

// matchesAny reports whether the key matches any of the patterns.
// Invalid patterns never match.
func matchesAny(patterns []string, key string) bool {
	for _, p := range patterns {
		ok, err := regexp.MatchString(p, key)
		if err == nil && ok {
			return true
		}
	}
	return false
}
