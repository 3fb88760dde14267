// Package provider defines the interfaces between the import pipeline
// and cloud discovery adapters, plus the base Service embedded by every
// adapter. NO rendering logic belongs here.
package provider

import (
	"context"

	"tfadopt/core/filter"
	"tfadopt/core/types"
)

// AdapterFactory constructs a discovery adapter for one service.
type AdapterFactory func() ResourceAdapter

// ResourceAdapter is the capability interface each discovery service
// implements. One adapter discovers one service's resources.
type ResourceAdapter interface {
	// Name returns the service identifier, e.g. "route53"
	Name() string

	// InitResources calls the inspection API and populates the internal
	// resource list. It must not report partial success silently: on a
	// transport failure it returns the error with nothing retained.
	InitResources(ctx context.Context) error

	// ParseFilters parses filter expressions into predicates and arms
	// the adapter with them
	ParseFilters(exprs []string) []filter.Predicate

	// ApplyFilters prunes resources that do not pass the armed predicates
	ApplyFilters()

	// PostConvertHook rewrites cross-references and applies per-service
	// output shaping. Must be safe to invoke more than once.
	PostConvertHook() error

	// Resources returns the discovered resources in discovery order
	Resources() []*types.Resource
}

// Provider exposes a cloud provider's discovery surface.
type Provider interface {
	// Name returns the provider namespace, e.g. "aws"
	Name() string

	// GetProviderData returns the provider block and required-provider
	// declaration for rendered output
	GetProviderData() types.ProviderData

	// GetConfig returns provider-level settings as a generic mapping
	GetConfig() map[string]interface{}

	// GetSupportedServices maps service names to adapter factories
	GetSupportedServices() map[string]AdapterFactory

	// GetResourceConnections describes cross-service field relationships.
	// Informational only; rendering does not depend on it.
	GetResourceConnections() map[string]map[string][]string
}
