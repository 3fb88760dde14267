// Package importer sequences the import pipeline: discovery adapters
// run one service at a time, filters and post-convert hooks are
// applied, and the configuration and state renderers are invoked over
// the exact same resource list per service directory.
package importer

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"tfadopt/core/provider"
	"tfadopt/core/render"
	"tfadopt/core/state"
	"tfadopt/core/types"
	"tfadopt/internal/errors"
	"tfadopt/internal/logging"
)

// Options controls one import run.
type Options struct {
	// Services is the requested service list. Empty or containing "*"
	// selects every service the provider supports.
	Services []string

	// Excludes removes services from the selection
	Excludes []string

	// Filters holds raw filter expressions (shared grammar)
	Filters []string

	// Output is the output root directory
	Output string

	// PathPattern is the per-service directory template with {output},
	// {provider} and {service} placeholders
	PathPattern string

	// Compact writes one resources file per service instead of one file
	// per type
	Compact bool

	// JSON selects the JSON configuration encoding
	JSON bool

	// NoSort preserves discovery order instead of sorting by (type, name)
	NoSort bool

	// Strict aborts the whole run on the first service failure instead
	// of skipping the failed service
	Strict bool
}

// ProgressFunc reports per-service progress.
type ProgressFunc func(message string, current, total int)

// Importer drives one provider through a full import run. The
// accumulating resource lists are exclusively owned by the importer;
// services run sequentially, so no locking is needed.
type Importer struct {
	provider provider.Provider
	opts     Options
	progress ProgressFunc
}

// New creates an importer for one provider.
func New(p provider.Provider, opts Options) *Importer {
	if opts.PathPattern == "" {
		opts.PathPattern = "{output}/{provider}/{service}"
	}
	return &Importer{
		provider: p,
		opts:     opts,
		progress: func(message string, current, total int) {
			logging.Info(message, zap.Int("current", current), zap.Int("total", total))
		},
	}
}

// OnProgress replaces the progress callback.
func (i *Importer) OnProgress(fn ProgressFunc) {
	i.progress = fn
}

// Run executes the import. Services are processed in deterministic
// order; each service's output is written independently after its own
// processing completes, so a later failure never discards earlier
// results. Rendering failures are fatal; discovery failures abort the
// run only in strict mode.
func (i *Importer) Run(ctx context.Context) error {
	services, err := i.selectServices()
	if err != nil {
		return err
	}

	i.logConnections()

	total := len(services)
	for idx, serviceName := range services {
		i.progress("importing "+serviceName, idx+1, total)

		if err := i.runService(ctx, serviceName); err != nil {
			if errors.IsType(err, errors.TypeRender) || errors.IsType(err, errors.TypeState) {
				return err
			}
			if i.opts.Strict {
				return err
			}
			logging.Error("service failed, continuing",
				zap.String("service", serviceName), zap.Error(err))
		}
	}
	return nil
}

// runService discovers, filters, post-processes and renders a single
// service into its own directory.
func (i *Importer) runService(ctx context.Context, serviceName string) error {
	factory, ok := i.provider.GetSupportedServices()[serviceName]
	if !ok {
		// Unreachable through Run, which pre-validates; kept for direct
		// callers.
		return errors.NotSupported("service", serviceName)
	}

	adapter := factory()
	adapter.ParseFilters(i.opts.Filters)

	if err := adapter.InitResources(ctx); err != nil {
		return errors.Discovery(serviceName, err)
	}

	adapter.ApplyFilters()

	if err := adapter.PostConvertHook(); err != nil {
		// Hook failures shape output but never abort a service.
		logging.Debug("post-convert hook failed",
			zap.String("service", serviceName), zap.Error(err))
	}

	resources := adapter.Resources()
	if !i.opts.NoSort {
		types.SortResources(resources)
	}

	dir := i.serviceDir(serviceName)
	logging.Debug("writing service output",
		zap.String("service", serviceName),
		zap.String("dir", dir),
		zap.Int("resources", len(resources)))

	providerData := i.provider.GetProviderData()
	if err := render.WriteConfig(resources, providerData, render.Options{
		Dir:     dir,
		Compact: i.opts.Compact,
		JSON:    i.opts.JSON,
	}); err != nil {
		return err
	}

	return state.Write(state.Build(resources, providerData), dir)
}

// selectServices resolves the requested service names against the
// provider's supported set, applies excludes, and validates that every
// explicitly named service exists. Requesting an unregistered service
// is a fatal configuration error.
func (i *Importer) selectServices() ([]string, error) {
	supported := i.provider.GetSupportedServices()

	wildcard := len(i.opts.Services) == 0
	for _, s := range i.opts.Services {
		if s == "*" {
			wildcard = true
		}
	}

	var selected []string
	if wildcard {
		for name := range supported {
			selected = append(selected, name)
		}
		sort.Strings(selected)
	} else {
		for _, name := range i.opts.Services {
			if _, ok := supported[name]; !ok {
				return nil, errors.NotSupported("service", name).
					WithContext("provider", i.provider.Name())
			}
			selected = append(selected, name)
		}
	}

	excluded := make(map[string]bool, len(i.opts.Excludes))
	for _, name := range i.opts.Excludes {
		excluded[name] = true
	}

	kept := selected[:0]
	for _, name := range selected {
		if !excluded[name] {
			kept = append(kept, name)
		}
	}
	return kept, nil
}

// serviceDir expands the path pattern for one service.
func (i *Importer) serviceDir(serviceName string) string {
	replacer := strings.NewReplacer(
		"{output}", i.opts.Output,
		"{provider}", i.provider.Name(),
		"{service}", serviceName,
	)
	return replacer.Replace(i.opts.PathPattern)
}

// logConnections records the provider's declared cross-service field
// relationships. Informational only.
func (i *Importer) logConnections() {
	for from, targets := range i.provider.GetResourceConnections() {
		for to, fields := range targets {
			logging.Debug("resource connection",
				zap.String("from", from),
				zap.String("to", to),
				zap.Strings("fields", fields))
		}
	}
}
