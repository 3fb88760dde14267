package render

import (
	"encoding/json"

	"tfadopt/core/types"
	"tfadopt/internal/errors"
)

// ProviderFileJSON is the provider metadata file name in JSON encoding.
const ProviderFileJSON = "provider.json"

// ResourcesFileJSON is the compact resource file name in JSON encoding.
const ResourcesFileJSON = "resources.json"

// jsonDocument is the shape of a JSON-encoded resource file.
type jsonDocument struct {
	Resources map[string][]map[string]interface{} `json:"resources"`
}

// encodeJSON renders the provider metadata and resource files in the
// JSON encoding. The ignore/allow-empty field policy is NOT applied
// here; it exists to keep human-authored text readable and JSON output
// is machine-consumed.
func encodeJSON(resources []*types.Resource, providerData types.ProviderData, compact bool) (map[string][]byte, error) {
	files := map[string][]byte{}

	providerDoc, err := marshal(providerData)
	if err != nil {
		return nil, err
	}
	files[ProviderFileJSON] = providerDoc

	groups, order := groupByType(resources)

	if compact {
		doc := jsonDocument{Resources: map[string][]map[string]interface{}{}}
		for _, resourceType := range order {
			doc.Resources[resourceType] = flatten(groups[resourceType])
		}
		data, err := marshal(doc)
		if err != nil {
			return nil, err
		}
		files[ResourcesFileJSON] = data
		return files, nil
	}

	for _, resourceType := range order {
		doc := jsonDocument{Resources: map[string][]map[string]interface{}{
			resourceType: flatten(groups[resourceType]),
		}}
		data, err := marshal(doc)
		if err != nil {
			return nil, err
		}
		files[resourceType+".json"] = data
	}
	return files, nil
}

// flatten projects resources into flat JSON objects of their merged
// attributes.
func flatten(resources []*types.Resource) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(resources))
	for _, r := range resources {
		out = append(out, r.MergedAttributes())
	}
	return out
}

func marshal(v interface{}) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, errors.Render("failed to encode JSON document", err)
	}
	return append(data, '\n'), nil
}
