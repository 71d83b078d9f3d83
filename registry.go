package glean

import (
	"fmt"
	"sort"
)

// Built-in extraction purposes.
const (
	PurposeThemes      = "themes"
	PurposeCompanies   = "companies"
	PurposePredictions = "predictions"
	PurposeVideoIdeas  = "video-ideas"
	PurposeGuru        = "guru"
)

// Registry is a static mapping from extraction purpose to record schema.
// Pure declaration; the only runtime behavior is lookup.
type Registry struct {
	schemas map[string]*Schema
}

// NewRegistry returns a registry preloaded with the built-in record shapes.
func NewRegistry() *Registry {
	r := &Registry{schemas: map[string]*Schema{}}
	r.Register(MustSchemaOf[Theme](PurposeThemes))
	r.Register(MustSchemaOf[Company](PurposeCompanies))
	r.Register(MustSchemaOf[Prediction](PurposePredictions))
	r.Register(MustSchemaOf[VideoIdea](PurposeVideoIdeas))
	r.Register(MustSingleSchemaOf[GuruReport](PurposeGuru))
	return r
}

// Register adds or replaces a schema under its purpose.
func (r *Registry) Register(s *Schema) {
	r.schemas[s.purpose] = s
}

// Lookup returns the schema declared for the purpose.
func (r *Registry) Lookup(purpose string) (*Schema, error) {
	s, ok := r.schemas[purpose]
	if !ok {
		return nil, fmt.Errorf("lookup %q: %w", purpose, ErrUnknownPurpose)
	}
	return s, nil
}

// MustLookup is Lookup for purposes known at compile time; an unknown
// purpose is a programmer error.
func (r *Registry) MustLookup(purpose string) *Schema {
	s, err := r.Lookup(purpose)
	if err != nil {
		panic(err)
	}
	return s
}

// Purposes lists the registered purposes in sorted order.
func (r *Registry) Purposes() []string {
	out := make([]string, 0, len(r.schemas))
	for p := range r.schemas {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
