// Package state produces the persisted-state snapshot matching the
// configuration renderer's resource naming. For every (type, name) pair
// the configuration emits, this document carries exactly one entry with
// the identical pair, so adoption proceeds without address mismatches.
package state

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"tfadopt/core/types"
	"tfadopt/internal/errors"
)

const (
	// FormatVersion is the state file format version
	FormatVersion = 4

	// ToolVersion is the terraform version stamped into generated state
	ToolVersion = "1.5.7"

	// FileName is the state document file name
	FileName = "terraform.tfstate"
)

// Document is a terraform.tfstate v4 document.
type Document struct {
	Version          int                    `json:"version"`
	TerraformVersion string                 `json:"terraform_version"`
	Serial           int64                  `json:"serial"`
	Lineage          string                 `json:"lineage"`
	Outputs          map[string]interface{} `json:"outputs"`
	Resources        []ResourceState        `json:"resources"`
}

// ResourceState is one managed resource entry.
type ResourceState struct {
	Mode      string     `json:"mode"`
	Type      string     `json:"type"`
	Name      string     `json:"name"`
	Provider  string     `json:"provider"`
	Instances []Instance `json:"instances"`
}

// Instance is one realized instance of a resource.
type Instance struct {
	SchemaVersion       int                    `json:"schema_version"`
	Attributes          map[string]interface{} `json:"attributes"`
	SensitiveAttributes []string               `json:"sensitive_attributes"`
	Private             string                 `json:"private"`
	Dependencies        []string               `json:"dependencies"`
}

// Build assembles a fresh state document for the resource list. The
// serial starts at 1 and the lineage is newly generated, as for any
// state a tool writes for the first time. Attributes are carried
// verbatim, unfiltered: the state must mirror what was discovered, not
// what the text encoding chose to show.
func Build(resources []*types.Resource, providerData types.ProviderData) *Document {
	doc := &Document{
		Version:          FormatVersion,
		TerraformVersion: ToolVersion,
		Serial:           1,
		Lineage:          uuid.New().String(),
		Outputs:          map[string]interface{}{},
		Resources:        make([]ResourceState, 0, len(resources)),
	}

	providerAddr := providerData.FullProviderAddress()
	for _, r := range resources {
		dependencies := r.Dependencies
		if dependencies == nil {
			dependencies = []string{}
		}
		doc.Resources = append(doc.Resources, ResourceState{
			Mode:     "managed",
			Type:     r.Type,
			Name:     r.Name,
			Provider: providerAddr,
			Instances: []Instance{{
				SchemaVersion:       0,
				Attributes:          r.Attributes,
				SensitiveAttributes: []string{},
				Private:             privateToken(),
				Dependencies:        dependencies,
			}},
		})
	}
	return doc
}

// Write renders the document into <dir>/terraform.tfstate. A write
// failure is fatal and propagates.
func Write(doc *Document, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.State("failed to create output directory", err).WithContext("dir", dir)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.State("failed to encode state document", err)
	}

	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return errors.State("failed to write state file", err).WithContext("path", path)
	}
	return nil
}

// privateToken generates the opaque per-instance private value.
func privateToken() string {
	return base64.StdEncoding.EncodeToString([]byte(uuid.New().String()))
}
