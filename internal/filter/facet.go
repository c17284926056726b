package filter

import "slices"

// Facet is one categorical filter dimension. An empty allowed list and a
// list covering the whole domain both mean "unrestricted".
type Facet struct {
	name    string
	domain  []string
	allowed []string
}

// NewFacet returns an unrestricted facet over domain.
func NewFacet(name string, domain []string) *Facet {
	return &Facet{name: name, domain: slices.Clone(domain)}
}

// Name returns the facet name.
func (f *Facet) Name() string { return f.name }

// Domain returns every value the facet can take.
func (f *Facet) Domain() []string { return slices.Clone(f.domain) }

// Values returns the allowed list as stored (possibly empty).
func (f *Facet) Values() []string { return slices.Clone(f.allowed) }

// Enabled reports whether routes with value v pass this facet.
func (f *Facet) Enabled(v string) bool {
	return !f.Restricting() || slices.Contains(f.allowed, v)
}

// Restricting reports whether the facet excludes anything.
func (f *Facet) Restricting() bool {
	if len(f.allowed) == 0 {
		return false
	}
	for _, v := range f.domain {
		if !slices.Contains(f.allowed, v) {
			return true
		}
	}
	return false
}

// Toggle flips v. An empty list is first expanded to the full domain, so
// toggling one value of an unrestricted facet yields "everything except v".
// Values outside the domain are ignored.
func (f *Facet) Toggle(v string) {
	if !slices.Contains(f.domain, v) {
		return
	}
	if len(f.allowed) == 0 {
		f.allowed = slices.Clone(f.domain)
	}
	if i := slices.Index(f.allowed, v); i >= 0 {
		f.allowed = slices.Delete(f.allowed, i, i+1)
		return
	}
	f.allowed = append(f.allowed, v)
}

// Set replaces the allowed list, dropping values outside the domain.
func (f *Facet) Set(values []string) {
	f.allowed = f.allowed[:0]
	for _, v := range values {
		if slices.Contains(f.domain, v) && !slices.Contains(f.allowed, v) {
			f.allowed = append(f.allowed, v)
		}
	}
}

// Reset makes the facet unrestricted.
func (f *Facet) Reset() { f.allowed = nil }
