// Package assistant defines the built-in role bundles: who the model is,
// which tools it may call, and what per-session state those tools mutate.
// Each builder returns a fresh bundle, so sessions never share state; the
// shared collaborators (catalogs, stores) arrive through Deps.
package assistant

import (
	"fmt"
	"strings"

	"github.com/voicedesk/voicedesk/internal/catalog"
	"github.com/voicedesk/voicedesk/internal/dialog"
	"github.com/voicedesk/voicedesk/internal/domain"
	"github.com/voicedesk/voicedesk/internal/store"
)

// Deps carries the process-wide collaborators tool handlers close over.
// Catalog data is read-only; the stores receive the records tools write.
type Deps struct {
	Catalog  *catalog.Catalog
	Cases    *store.CaseStore
	Leads    *store.Collection[domain.Lead]
	Orders   *store.Collection[domain.Order]
	Checkins *store.Collection[domain.WellnessEntry]
	Coffee   *store.Collection[domain.CoffeeOrder]
}

// Builder constructs a bundle with fresh per-session state.
type Builder func(Deps) dialog.Bundle

var builders = []struct {
	name  string
	build Builder
}{
	{"barista", Barista},
	{"wellness", Wellness},
	{"tutor", Tutor},
	{"sales", Sales},
	{"frauddesk", FraudDesk},
	{"grocer", Grocer},
}

// Names lists the built-in assistants in registration order.
func Names() []string {
	names := make([]string, len(builders))
	for i, b := range builders {
		names[i] = b.name
	}
	return names
}

// Bundle builds a fresh session bundle for the named assistant. Names match
// ignoring case and surrounding whitespace.
func Bundle(name string, deps Deps) (dialog.Bundle, error) {
	q := strings.ToLower(strings.TrimSpace(name))
	for _, b := range builders {
		if b.name == q {
			return b.build(deps), nil
		}
	}
	return dialog.Bundle{}, fmt.Errorf("unknown assistant %q", name)
}

// Registry binds the assistant table to one set of shared dependencies so
// callers resolve bundles by name alone.
type Registry struct {
	deps Deps
}

// NewRegistry creates a registry over the given dependencies.
func NewRegistry(deps Deps) *Registry {
	return &Registry{deps: deps}
}

// Names lists the available assistants.
func (r *Registry) Names() []string {
	return Names()
}

// Bundle builds a fresh session bundle for the named assistant.
func (r *Registry) Bundle(name string) (dialog.Bundle, error) {
	return Bundle(name, r.deps)
}
