package types

// ProviderData describes the provider block and required-provider
// declaration emitted alongside every service's resources.
type ProviderData struct {
	// Name is the provider namespace, e.g. "aws"
	Name string `json:"name"`

	// Source is the registry source address, e.g. "hashicorp/aws"
	Source string `json:"source"`

	// Version is the provider version constraint
	Version string `json:"version"`

	// Config holds provider-level settings (region and the like) that
	// appear inside the provider block
	Config map[string]interface{} `json:"config,omitempty"`
}

// FullProviderAddress returns the namespaced provider string used in
// state entries, e.g. `provider["registry.terraform.io/hashicorp/aws"]`.
func (p ProviderData) FullProviderAddress() string {
	return `provider["registry.terraform.io/` + p.Source + `"]`
}
