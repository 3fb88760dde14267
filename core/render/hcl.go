package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	"tfadopt/core/types"
)

// ProviderFileHCL is the provider metadata file name in text encoding.
const ProviderFileHCL = "provider.tf"

// ResourcesFileHCL is the compact resource file name in text encoding.
const ResourcesFileHCL = "resources.tf"

// encodeHCL renders the provider file plus either one compact resources
// file or one file per resource type.
func encodeHCL(resources []*types.Resource, providerData types.ProviderData, compact bool) (map[string][]byte, error) {
	files := map[string][]byte{
		ProviderFileHCL: providerHCL(providerData),
	}

	if compact {
		f := hclwrite.NewEmptyFile()
		for _, r := range resources {
			appendResourceBlock(f.Body(), r)
		}
		files[ResourcesFileHCL] = f.Bytes()
		return files, nil
	}

	groups, order := groupByType(resources)
	for _, resourceType := range order {
		f := hclwrite.NewEmptyFile()
		for _, r := range groups[resourceType] {
			appendResourceBlock(f.Body(), r)
		}
		files[resourceType+".tf"] = f.Bytes()
	}
	return files, nil
}

// providerHCL renders the terraform/required_providers block and the
// provider block with its provider-level settings.
func providerHCL(providerData types.ProviderData) []byte {
	f := hclwrite.NewEmptyFile()
	body := f.Body()

	terraformBlock := body.AppendNewBlock("terraform", nil)
	required := terraformBlock.Body().AppendNewBlock("required_providers", nil)
	required.Body().SetAttributeValue(providerData.Name, cty.ObjectVal(map[string]cty.Value{
		"source":  cty.StringVal(providerData.Source),
		"version": cty.StringVal(providerData.Version),
	}))
	body.AppendNewline()

	providerBlock := body.AppendNewBlock("provider", []string{providerData.Name})
	pb := providerBlock.Body()
	for _, key := range types.SortedKeys(providerData.Config) {
		setAttribute(pb, key, providerData.Config[key])
	}
	body.AppendNewline()

	return f.Bytes()
}

// appendResourceBlock emits one resource block with the merged
// attributes in sorted key order, applying the field-inclusion policy.
func appendResourceBlock(body *hclwrite.Body, r *types.Resource) {
	block := body.AppendNewBlock("resource", []string{r.Type, r.Name})
	bb := block.Body()

	merged := r.MergedAttributes()
	for _, key := range types.SortedKeys(merged) {
		value := merged[key]
		if !includeField(r, key, value) {
			continue
		}
		setAttribute(bb, key, value)
	}
	body.AppendNewline()
}

// referenceExpr matches a value that is exactly one symbolic reference,
// e.g. "${aws_route53_zone.primary.zone_id}".
var referenceExpr = regexp.MustCompile(`^\$\{([a-zA-Z_][a-zA-Z0-9_-]*(?:\.[a-zA-Z0-9_-]+)+)\}$`)

// setAttribute writes one attribute, special-casing heredoc documents
// and symbolic references which must not be rendered as quoted strings.
func setAttribute(body *hclwrite.Body, key string, value interface{}) {
	switch v := value.(type) {
	case types.Heredoc:
		body.SetAttributeRaw(key, heredocTokens(string(v)))
		return
	case string:
		if m := referenceExpr.FindStringSubmatch(v); m != nil {
			body.SetAttributeRaw(key, hclwrite.Tokens{
				{Type: hclsyntax.TokenIdent, Bytes: []byte(m[1])},
			})
			return
		}
	}
	body.SetAttributeValue(key, ctyValue(value))
}

// heredocTokens emits a verbatim heredoc so multi-line documents survive
// unquoted. The document content is already interpolation-escaped by the
// post-convert hook that wrapped it. One trailing newline is stripped so
// documents that end with one do not gain a blank line, and the closing
// marker is chosen so no document line terminates the block early.
func heredocTokens(doc string) hclwrite.Tokens {
	doc = strings.TrimSuffix(doc, "\n")
	marker := heredocMarker(doc)
	return hclwrite.Tokens{
		{Type: hclsyntax.TokenOHeredoc, Bytes: []byte("<<" + marker + "\n")},
		{Type: hclsyntax.TokenStringLit, Bytes: []byte(doc + "\n")},
		{Type: hclsyntax.TokenCHeredoc, Bytes: []byte(marker)},
	}
}

// heredocMarker returns "EOF", extended with underscores until no line
// of the document matches it.
func heredocMarker(doc string) string {
	marker := "EOF"
	for containsLine(doc, marker) {
		marker += "_"
	}
	return marker
}

func containsLine(doc, line string) bool {
	for _, l := range strings.Split(doc, "\n") {
		if strings.TrimSpace(l) == line {
			return true
		}
	}
	return false
}

// ctyValue converts a recursive scalar/list/map value into a cty value
// for hclwrite. Lists become tuples and maps become objects so mixed
// element types never fail conversion.
func ctyValue(value interface{}) cty.Value {
	switch v := value.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType)
	case bool:
		return cty.BoolVal(v)
	case string:
		return cty.StringVal(v)
	case types.Heredoc:
		return cty.StringVal(string(v))
	case int:
		return cty.NumberIntVal(int64(v))
	case int64:
		return cty.NumberIntVal(v)
	case float64:
		return cty.NumberFloatVal(v)
	case []string:
		if len(v) == 0 {
			return cty.EmptyTupleVal
		}
		elems := make([]cty.Value, 0, len(v))
		for _, s := range v {
			elems = append(elems, cty.StringVal(s))
		}
		return cty.TupleVal(elems)
	case []interface{}:
		if len(v) == 0 {
			return cty.EmptyTupleVal
		}
		elems := make([]cty.Value, 0, len(v))
		for _, e := range v {
			elems = append(elems, ctyValue(e))
		}
		return cty.TupleVal(elems)
	case map[string]string:
		if len(v) == 0 {
			return cty.EmptyObjectVal
		}
		attrs := make(map[string]cty.Value, len(v))
		for k, s := range v {
			attrs[k] = cty.StringVal(s)
		}
		return cty.ObjectVal(attrs)
	case map[string]interface{}:
		if len(v) == 0 {
			return cty.EmptyObjectVal
		}
		attrs := make(map[string]cty.Value, len(v))
		for k, e := range v {
			attrs[k] = ctyValue(e)
		}
		return cty.ObjectVal(attrs)
	default:
		return cty.StringVal(fmt.Sprint(v))
	}
}
