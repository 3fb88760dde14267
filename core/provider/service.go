package provider

import (
	"tfadopt/core/filter"
	"tfadopt/core/types"
)

// Service is the base implementation embedded by every discovery
// adapter. It owns the accumulated resource list, the armed filter
// predicates, and the processed-flag bookkeeping that keeps
// post-convert hooks idempotent.
type Service struct {
	name      string
	provider  string
	resources []*types.Resource
	filters   []filter.Predicate
}

// NewService creates a base service for one provider/service pair.
func NewService(provider, name string) Service {
	return Service{
		name:     name,
		provider: provider,
	}
}

// Name returns the service identifier.
func (s *Service) Name() string {
	return s.name
}

// ProviderName returns the provider namespace.
func (s *Service) ProviderName() string {
	return s.provider
}

// Add appends a discovered resource.
func (s *Service) Add(r types.Resource) {
	s.resources = append(s.resources, &r)
}

// Resources returns the discovered resources in discovery order.
func (s *Service) Resources() []*types.Resource {
	return s.resources
}

// SetResources replaces the resource list. Hooks that delete resources
// use this.
func (s *Service) SetResources(resources []*types.Resource) {
	s.resources = resources
}

// ParseFilters parses the expressions through the shared grammar and
// arms the service with the resulting predicates.
func (s *Service) ParseFilters(exprs []string) []filter.Predicate {
	s.filters = filter.ParseAll(exprs)
	return s.filters
}

// ApplyFilters prunes resources that fail any armed predicate.
// Resources are never mutated here, only dropped.
func (s *Service) ApplyFilters() {
	if len(s.filters) == 0 {
		return
	}
	kept := s.resources[:0]
	for _, r := range s.resources {
		if filter.Allowed(r, s.name, s.filters) {
			kept = append(kept, r)
		}
	}
	s.resources = kept
}

// PostConvertHook is the default no-op hook. Adapters with shaping rules
// shadow it.
func (s *Service) PostConvertHook() error {
	return nil
}

// EachUnprocessed runs fn over every resource whose hook has not run yet
// and marks it processed afterwards. Hooks built on this are safe under
// repeat invocation: a second call sees no unprocessed resources.
func (s *Service) EachUnprocessed(fn func(r *types.Resource)) {
	for _, r := range s.resources {
		if r.PostProcessed {
			continue
		}
		fn(r)
		r.PostProcessed = true
	}
}

// FindByAdditionalField returns the first resource whose additional
// field matches the given value, or nil. Hooks use this as the
// side-channel lookup for identifier-to-reference rewriting.
func (s *Service) FindByAdditionalField(key string, value interface{}) *types.Resource {
	for _, r := range s.resources {
		if r.AdditionalField(key) == value {
			return r
		}
	}
	return nil
}

// FindByType returns all resources of one configuration type.
func (s *Service) FindByType(resourceType string) []*types.Resource {
	var out []*types.Resource
	for _, r := range s.resources {
		if r.Type == resourceType {
			out = append(out, r)
		}
	}
	return out
}
