// Package aws provides the AWS discovery provider.
package aws

import (
	"tfadopt/clouds/aws/api"
	"tfadopt/clouds/aws/services"
	"tfadopt/core/provider"
	"tfadopt/core/types"
)

// ProviderVersion is the version constraint stamped into the generated
// required_providers block.
const ProviderVersion = "~> 5.0"

// Config carries all AWS settings explicitly. Nothing here mutates
// process-wide state; credentials and region travel through the adapter
// constructors.
type Config struct {
	// Region for regional services
	Region string

	// Profile selects a shared-credentials-file profile
	Profile string

	// AccessKey/SecretKey/SessionToken are explicit static credentials
	AccessKey    string
	SecretKey    string
	SessionToken string

	// Endpoint overrides the inspection API endpoint (for testing)
	Endpoint string
}

// Provider implements provider.Provider for AWS
type Provider struct {
	cfg    Config
	client *api.Client
}

// New creates the AWS provider with an initialized inspection client.
func New(cfg Config) (*Provider, error) {
	client, err := api.NewClient(api.Config{
		Region:       cfg.Region,
		Profile:      cfg.Profile,
		AccessKey:    cfg.AccessKey,
		SecretKey:    cfg.SecretKey,
		SessionToken: cfg.SessionToken,
		Endpoint:     cfg.Endpoint,
	})
	if err != nil {
		return nil, err
	}

	return &Provider{
		cfg:    cfg,
		client: client,
	}, nil
}

// Name returns the provider namespace
func (p *Provider) Name() string {
	return "aws"
}

// GetProviderData returns the provider block and required-provider
// declaration for rendered output
func (p *Provider) GetProviderData() types.ProviderData {
	return types.ProviderData{
		Name:    "aws",
		Source:  "hashicorp/aws",
		Version: ProviderVersion,
		Config: map[string]interface{}{
			"region": p.client.Region(),
		},
	}
}

// GetConfig returns provider-level settings as a generic mapping
func (p *Provider) GetConfig() map[string]interface{} {
	return map[string]interface{}{
		"region":  p.client.Region(),
		"profile": p.cfg.Profile,
	}
}

// GetSupportedServices maps service names to adapter factories
func (p *Provider) GetSupportedServices() map[string]provider.AdapterFactory {
	return map[string]provider.AdapterFactory{
		"route53": func() provider.ResourceAdapter { return services.NewRoute53(p.client) },
		"s3":      func() provider.ResourceAdapter { return services.NewS3(p.client) },
		"iam":     func() provider.ResourceAdapter { return services.NewIAM(p.client) },
		"ec2":     func() provider.ResourceAdapter { return services.NewEC2(p.client) },
	}
}

// GetResourceConnections describes cross-service field relationships.
// Informational; the route53 hook performs the actual zone_id rewrite.
func (p *Provider) GetResourceConnections() map[string]map[string][]string {
	return map[string]map[string][]string{
		"route53": {
			"route53": {"zone_id"},
		},
	}
}
