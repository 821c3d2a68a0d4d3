package source

// Registry holds the catalogues in display order.
type Registry struct {
	sources []Source
}

// NewRegistry keeps sources in the given order. Nil entries are skipped.
func NewRegistry(sources ...Source) *Registry {
	r := &Registry{}
	for _, s := range sources {
		if s != nil {
			r.sources = append(r.sources, s)
		}
	}
	return r
}

// All returns the sources in order.
func (r *Registry) All() []Source {
	out := make([]Source, len(r.sources))
	copy(out, r.sources)
	return out
}

// Names returns the source names in order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.sources))
	for i, s := range r.sources {
		names[i] = s.Name()
	}
	return names
}

// Get finds a source by name.
func (r *Registry) Get(name string) (Source, bool) {
	for _, s := range r.sources {
		if s.Name() == name {
			return s, true
		}
	}
	return nil, false
}

// Lookup returns the named source, or the first one when name is unknown.
func (r *Registry) Lookup(name string) Source {
	if s, ok := r.Get(name); ok {
		return s
	}
	if len(r.sources) == 0 {
		return nil
	}
	return r.sources[0]
}

// Next returns the source after name, wrapping around.
func (r *Registry) Next(name string) Source {
	if len(r.sources) == 0 {
		return nil
	}
	for i, s := range r.sources {
		if s.Name() == name {
			return r.sources[(i+1)%len(r.sources)]
		}
	}
	return r.sources[0]
}
